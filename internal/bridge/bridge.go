// Package bridge implements the Statto → model bridge: the multi-source
// join/aggregation pipeline that reconciles the five per-game exports
// (per-player totals, per-point records, per-event pass rows, block rows,
// per-possession rows) into one per-player-per-point fact table plus a
// point-level summary table.
//
// Each stage produces an immutable intermediate table; the assembler joins
// them with explicit key-based merges. The transform is a pure function of
// its inputs: no state is shared between games, and re-running it on the
// same inputs yields identical output.
package bridge

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"
)

// PointUID builds the deterministic per-point key "{game_id}_P{point:02d}".
// Downstream season aggregation joins and groups on this exact format.
func PointUID(gameID string, point int) string {
	return fmt.Sprintf("%s_P%02d", gameID, point)
}

// ExpandRoster turns each player's "Points played" list into explicit
// (player, point) membership rows. Tokens that are not plain unsigned
// integers are skipped silently; an empty list contributes no rows.
func ExpandRoster(players []model.PlayerGameStats) []model.RosterEntry {
	var roster []model.RosterEntry
	for _, p := range players {
		if p.PointsPlayed == "" {
			continue
		}
		for _, token := range strings.Split(p.PointsPlayed, ",") {
			token = strings.TrimSpace(token)
			if !isDigits(token) {
				continue
			}
			n, err := strconv.Atoi(token)
			if err != nil {
				continue
			}
			roster = append(roster, model.RosterEntry{Player: p.Player, Point: n})
		}
	}
	return roster
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// pointPlayerKey keys the per-(point, player) accumulators.
type pointPlayerKey struct {
	point  int
	player string
}

// AggregatePasses computes one row per (point, player) from the raw pass
// log, merging the throwing side with the catching side. Catches, received
// yards, and goals come only from completed passes; a completed pass flagged
// as an assist implies its receiver scored. Output is sorted by
// (point, player) for determinism.
func AggregatePasses(passes []model.PassEvent) []model.PassLine {
	lines := make(map[pointPlayerKey]*model.PassLine)
	get := func(point int, player string) *model.PassLine {
		k := pointPlayerKey{point, player}
		if lines[k] == nil {
			lines[k] = &model.PassLine{Point: point, Player: player}
		}
		return lines[k]
	}

	for _, e := range passes {
		// Throwing side.
		th := get(e.Point, e.Thrower)
		th.Throws++
		if e.Turnover {
			th.Turnovers++
		} else {
			th.Completions++
		}
		if e.Assist {
			th.Assists++
		}
		if e.SecondaryAssist {
			th.SecondaryAssists++
		}
		if e.Huck {
			th.Hucks++
		}
		if e.Swing {
			th.Swings++
		}
		if e.Dump {
			th.Dumps++
		}
		th.ThrowYards += e.ForwardDistanceM

		// Catching side: completed passes only.
		if e.Turnover {
			continue
		}
		ca := get(e.Point, e.Receiver)
		ca.Catches++
		ca.ReceivedYards += e.ForwardDistanceM
		if e.Assist {
			ca.Goals++
		}
	}

	return sortedLines(lines)
}

func sortedLines(lines map[pointPlayerKey]*model.PassLine) []model.PassLine {
	out := make([]model.PassLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Point != out[j].Point {
			return out[i].Point < out[j].Point
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// AggregateBlocks counts blocks per (point, player). An empty block log is
// normal; it yields an empty result, not an error.
func AggregateBlocks(blocks []model.BlockEvent) []model.BlockLine {
	counts := make(map[pointPlayerKey]int)
	for _, b := range blocks {
		counts[pointPlayerKey{b.Point, b.Player}]++
	}
	out := make([]model.BlockLine, 0, len(counts))
	for k, n := range counts {
		out = append(out, model.BlockLine{Point: k.point, Player: k.player, Blocks: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Point != out[j].Point {
			return out[i].Point < out[j].Point
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// BuildPointContext merges point-outcome records with possession-level
// records into one PointContext per PointRecord, in input order.
//
// Possessions are stably sorted ascending by (point, possession_index)
// before the first possession is selected; with duplicate indexes the
// earlier input row wins. Points with no possession rows get
// num_possessions=0 and zero scored flags: incomplete possession
// tracking, not an error.
func BuildPointContext(points []model.PointRecord, possessions []model.PossessionRecord) []model.PointContext {
	sorted := make([]model.PossessionRecord, len(possessions))
	copy(sorted, possessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Point != sorted[j].Point {
			return sorted[i].Point < sorted[j].Point
		}
		return sorted[i].Index < sorted[j].Index
	})

	type possAgg struct {
		indexes     map[int]struct{}
		firstScored bool
		anyScored   bool
		seenFirst   bool
	}
	byPoint := make(map[int]*possAgg)
	for _, p := range sorted {
		agg := byPoint[p.Point]
		if agg == nil {
			agg = &possAgg{indexes: make(map[int]struct{})}
			byPoint[p.Point] = agg
		}
		agg.indexes[p.Index] = struct{}{}
		if !agg.seenFirst {
			agg.firstScored = p.Scored
			agg.seenFirst = true
		}
		if p.Scored {
			agg.anyScored = true
		}
	}

	out := make([]model.PointContext, 0, len(points))
	for _, p := range points {
		ctx := model.PointContext{
			Point:            p.Number,
			TeamLine:         "D",
			PointResult:      boolInt(p.Scored),
			OurScoreStart:    p.OurScoreAtPull,
			OppScoreStart:    p.OppScoreAtPull,
			PossessionsTotal: p.PossessionsTotal,
			PassesTotal:      p.PassesTotal,
			TurnoversTotal:   p.TurnoversTotal,
			BlocksTotal:      p.BlocksTotal,
		}
		if p.StartedOnOffense {
			ctx.TeamLine = "O"
		}

		if agg := byPoint[p.Number]; agg != nil {
			ctx.NumPossessions = len(agg.indexes)
			ctx.FirstPossessionScored = boolInt(agg.firstScored)
			ctx.AnyPossessionScored = boolInt(agg.anyScored)
		}

		soff := p.StartedOnOffense
		scored := p.Scored
		numPos := ctx.NumPossessions
		ctx.CleanHold = boolInt(soff && scored && numPos == 1)
		ctx.Hold = boolInt(soff && scored)
		ctx.Broken = boolInt(soff && !scored)
		ctx.BreakScored = boolInt(!soff && scored)
		ctx.BreakChance = boolInt(!soff && numPos > 0)

		out = append(out, ctx)
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// BuildPerPlayerPerPoint runs the whole bridge for one game: roster
// expansion, pass/block aggregation, point context, and the final join
// chain. It returns the per-player-per-point fact rows and the point-level
// summary rows.
//
// Every output row corresponds to one RosterEntry; a player on the line
// who neither threw, caught, nor blocked keeps the row with all stat
// columns zero. A roster point absent from the Points table keeps its row
// with zeroed context (team_line ""); mismatched point numbering is an
// upstream data-quality concern.
func BuildPerPlayerPerPoint(in *model.GameTables, gameID string) ([]model.PlayerPointRow, []model.PointSummaryRow, error) {
	if in == nil {
		return nil, nil, fmt.Errorf("nil game tables")
	}

	roster := ExpandRoster(in.PlayerStats)
	passLines := AggregatePasses(in.Passes)
	blockLines := AggregateBlocks(in.Blocks)
	contexts := BuildPointContext(in.Points, in.Possessions)

	passByKey := make(map[pointPlayerKey]model.PassLine, len(passLines))
	for _, l := range passLines {
		passByKey[pointPlayerKey{l.Point, l.Player}] = l
	}
	blocksByKey := make(map[pointPlayerKey]int, len(blockLines))
	for _, b := range blockLines {
		blocksByKey[pointPlayerKey{b.Point, b.Player}] = b.Blocks
	}
	ctxByPoint := make(map[int]model.PointContext, len(contexts))
	for _, c := range contexts {
		ctxByPoint[c.Point] = c
	}

	rows := make([]model.PlayerPointRow, 0, len(roster))
	for _, entry := range roster {
		key := pointPlayerKey{entry.Point, entry.Player}
		pass := passByKey[key] // zero value when the player had no pass events
		ctx := ctxByPoint[entry.Point]

		row := model.PlayerPointRow{
			GameID:   gameID,
			PointUID: PointUID(gameID, entry.Point),
			TeamLine: ctx.TeamLine,
			Player:   entry.Player,
			Point:    entry.Point,

			Touches:          pass.Throws + pass.Catches,
			Throws:           pass.Throws,
			Completions:      pass.Completions,
			Assists:          pass.Assists,
			SecondaryAssists: pass.SecondaryAssists,
			Goals:            pass.Goals,
			Turnovers:        pass.Turnovers,
			Blocks:           blocksByKey[key],
			Pulls:            0,
			YardsGainM:       round2(pass.ThrowYards + pass.ReceivedYards),

			ScoreDiffStart: ctx.OurScoreStart - ctx.OppScoreStart,
			PointResult:    ctx.PointResult,

			NumPossessions: ctx.NumPossessions,
			CleanHold:      ctx.CleanHold,
			Hold:           ctx.Hold,
			Broken:         ctx.Broken,
			BreakScored:    ctx.BreakScored,
			BreakChance:    ctx.BreakChance,

			Hucks:  pass.Hucks,
			Swings: pass.Swings,
			Dumps:  pass.Dumps,
		}
		rows = append(rows, row)
	}

	summary := make([]model.PointSummaryRow, 0, len(contexts))
	for _, ctx := range contexts {
		summary = append(summary, model.PointSummaryRow{
			GameID:       gameID,
			PointUID:     PointUID(gameID, ctx.Point),
			PointContext: ctx,
		})
	}

	return rows, summary, nil
}

// round2 rounds to two decimal places, matching the output table contract.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// SummarizeGame derives the list/show record for a stored game from its
// point summary rows and fact rows.
func SummarizeGame(gameID string, rows []model.PlayerPointRow, summary []model.PointSummaryRow) model.GameSummary {
	players := make(map[string]struct{})
	for _, r := range rows {
		players[r.Player] = struct{}{}
	}
	gs := model.GameSummary{
		GameID:       gameID,
		PointsTotal:  len(summary),
		PlayersTotal: len(players),
	}
	for _, s := range summary {
		if s.PointResult == 1 {
			gs.OurScore++
		} else {
			gs.OppScore++
		}
		gs.Holds += s.Hold
		gs.Breaks += s.BreakScored
	}
	return gs
}
