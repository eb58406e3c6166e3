package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintGameSummary prints a one-line summary header for the game.
func PrintGameSummary(w io.Writer, g model.GameSummary) {
	fmt.Fprintf(w, "\nGame: %s  |  Score: us %d – %d them  |  Points: %d  |  Holds: %d  |  Breaks: %d  |  Roster: %d\n\n",
		g.GameID, g.OurScore, g.OppScore, g.PointsTotal, g.Holds, g.Breaks, g.PlayersTotal)
}

// playerGameTotals is one player's totals within a single game.
type playerGameTotals struct {
	player                           string
	points, oPoints                  int
	touches, throws, completions     int
	assists, secondaryAssists, goals int
	turnovers, blocks, hucks         int
	yards                            float64
}

// PrintPlayerGameTable aggregates the game's fact rows per player and prints
// the per-player table. If focusPlayer is non-empty, that row is marked ">".
func PrintPlayerGameTable(w io.Writer, rows []model.PlayerPointRow, focusPlayer string) {
	byPlayer := make(map[string]*playerGameTotals)
	for _, r := range rows {
		t := byPlayer[r.Player]
		if t == nil {
			t = &playerGameTotals{player: r.Player}
			byPlayer[r.Player] = t
		}
		t.points++
		if r.TeamLine == "O" {
			t.oPoints++
		}
		t.touches += r.Touches
		t.throws += r.Throws
		t.completions += r.Completions
		t.assists += r.Assists
		t.secondaryAssists += r.SecondaryAssists
		t.goals += r.Goals
		t.turnovers += r.Turnovers
		t.blocks += r.Blocks
		t.hucks += r.Hucks
		t.yards += r.YardsGainM
	}

	totals := make([]*playerGameTotals, 0, len(byPlayer))
	for _, t := range byPlayer {
		totals = append(totals, t)
	}
	sort.Slice(totals, func(i, j int) bool {
		gi, gj := totals[i].goals+totals[i].assists, totals[j].goals+totals[j].assists
		if gi != gj {
			return gi > gj
		}
		if totals[i].touches != totals[j].touches {
			return totals[i].touches > totals[j].touches
		}
		return totals[i].player < totals[j].player
	})

	table := newTable(w)
	table.Header(" ", "PLAYER", "PTS", "O_PTS", "TOUCH", "THR", "CMP%", "AST", "2AST", "G", "TO", "BLK", "HUCK", "YDS")

	for _, t := range totals {
		marker := " "
		if focusPlayer != "" && t.player == focusPlayer {
			marker = ">"
		}
		cmpPct := "—"
		if t.throws > 0 {
			cmpPct = fmt.Sprintf("%.0f%%", float64(t.completions)/float64(t.throws)*100)
		}
		table.Append(
			marker,
			t.player,
			strconv.Itoa(t.points),
			strconv.Itoa(t.oPoints),
			strconv.Itoa(t.touches),
			strconv.Itoa(t.throws),
			cmpPct,
			strconv.Itoa(t.assists),
			strconv.Itoa(t.secondaryAssists),
			strconv.Itoa(t.goals),
			strconv.Itoa(t.turnovers),
			strconv.Itoa(t.blocks),
			strconv.Itoa(t.hucks),
			fmt.Sprintf("%.1f", t.yards),
		)
	}
	table.Render()
}

// PrintPointTable prints the point-by-point summary with tactical tags.
func PrintPointTable(w io.Writer, summary []model.PointSummaryRow) {
	table := newTable(w)
	table.Header("POINT", "LINE", "SCORE", "RESULT", "POSS", "1ST_SCORE", "TAG")

	for _, s := range summary {
		result := "lost"
		if s.PointResult == 1 {
			result = "scored"
		}
		table.Append(
			strconv.Itoa(s.Point),
			s.TeamLine,
			fmt.Sprintf("%d-%d", s.OurScoreStart, s.OppScoreStart),
			result,
			strconv.Itoa(s.NumPossessions),
			strconv.Itoa(s.FirstPossessionScored),
			tagLabel(s.PointContext),
		)
	}
	table.Render()
}

// tagLabel picks the most specific tactical tag for display.
func tagLabel(c model.PointContext) string {
	switch {
	case c.CleanHold == 1:
		return "clean hold"
	case c.Hold == 1:
		return "hold"
	case c.Broken == 1:
		return "broken"
	case c.BreakScored == 1:
		return "break"
	case c.BreakChance == 1:
		return "break chance"
	default:
		return "—"
	}
}

// PrintSeasonTable prints cross-game per-player totals.
func PrintSeasonTable(w io.Writer, totals []model.PlayerSeasonTotals, focusPlayer string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "GAMES", "PTS", "TOUCH", "T/PT", "THR", "CMP%", "AST", "G", "TO", "BLK", "HOLD%", "YDS")

	for _, t := range totals {
		marker := " "
		if focusPlayer != "" && t.Player == focusPlayer {
			marker = ">"
		}
		cmpPct := "—"
		if t.Throws > 0 {
			cmpPct = fmt.Sprintf("%.0f%%", t.CompletionPct())
		}
		holdPct := "—"
		if t.OPoints > 0 {
			holdPct = fmt.Sprintf("%.0f%%", t.HoldPct())
		}
		table.Append(
			marker,
			t.Player,
			strconv.Itoa(t.Games),
			strconv.Itoa(t.Points),
			strconv.Itoa(t.Touches),
			fmt.Sprintf("%.1f", t.TouchesPerPoint()),
			strconv.Itoa(t.Throws),
			cmpPct,
			strconv.Itoa(t.Assists),
			strconv.Itoa(t.Goals),
			strconv.Itoa(t.Turnovers),
			strconv.Itoa(t.Blocks),
			holdPct,
			fmt.Sprintf("%.1f", t.YardsGainM),
		)
	}
	table.Render()
}
