package bridge

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"
)

// makePoint creates a PointRecord with the given outcome.
func makePoint(number int, offense, scored bool, ourScore, oppScore int) model.PointRecord {
	return model.PointRecord{
		Number:           number,
		StartedOnOffense: offense,
		Scored:           scored,
		OurScoreAtPull:   ourScore,
		OppScoreAtPull:   oppScore,
	}
}

// makeTables builds a GameTables where every listed player plays every point.
func makeTables(players []string, points []model.PointRecord, passes []model.PassEvent,
	blocks []model.BlockEvent, poss []model.PossessionRecord) *model.GameTables {

	stats := make([]model.PlayerGameStats, 0, len(players))
	list := ""
	for i, p := range points {
		if i > 0 {
			list += ","
		}
		list += strconv.Itoa(p.Number)
	}
	for _, name := range players {
		stats = append(stats, model.PlayerGameStats{Player: name, PointsPlayed: list})
	}
	return &model.GameTables{
		PlayerStats: stats,
		Points:      points,
		Passes:      passes,
		Blocks:      blocks,
		Possessions: poss,
	}
}

// ---- Roster expansion ----

func TestExpandRoster_SkipsNonNumericTokens(t *testing.T) {
	roster := ExpandRoster([]model.PlayerGameStats{
		{Player: "Ana", PointsPlayed: "1, 2, x, 4"},
		{Player: "Ben", PointsPlayed: ""},
		{Player: "Cleo", PointsPlayed: " 3 "},
	})

	want := []model.RosterEntry{
		{Player: "Ana", Point: 1},
		{Player: "Ana", Point: 2},
		{Player: "Ana", Point: 4},
		{Player: "Cleo", Point: 3},
	}
	if !reflect.DeepEqual(roster, want) {
		t.Errorf("roster mismatch:\n got %v\nwant %v", roster, want)
	}
}

func TestExpandRoster_NegativeTokensSkipped(t *testing.T) {
	roster := ExpandRoster([]model.PlayerGameStats{
		{Player: "Ana", PointsPlayed: "-1,2"},
	})
	if len(roster) != 1 || roster[0].Point != 2 {
		t.Errorf("expected only point 2, got %v", roster)
	}
}

// ---- Pass aggregation ----

// TestAggregatePasses_AssistedCompletion: a completed assist credits the
// thrower with completion+assist and the receiver with catch+goal.
func TestAggregatePasses_AssistedCompletion(t *testing.T) {
	lines := AggregatePasses([]model.PassEvent{
		{Point: 3, Thrower: "A", Receiver: "B", Assist: true, ForwardDistanceM: 22.5},
	})
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines (thrower+receiver), got %d", len(lines))
	}

	var a, b model.PassLine
	for _, l := range lines {
		switch l.Player {
		case "A":
			a = l
		case "B":
			b = l
		}
	}
	if a.Throws != 1 || a.Completions != 1 || a.Assists != 1 || a.Turnovers != 0 {
		t.Errorf("thrower line wrong: %+v", a)
	}
	if a.ThrowYards != 22.5 {
		t.Errorf("thrower yards: want 22.5, got %v", a.ThrowYards)
	}
	if b.Catches != 1 || b.Goals != 1 || b.ReceivedYards != 22.5 {
		t.Errorf("receiver line wrong: %+v", b)
	}
}

func TestAggregatePasses_TurnoverNotACatch(t *testing.T) {
	lines := AggregatePasses([]model.PassEvent{
		{Point: 1, Thrower: "A", Receiver: "B", Turnover: true, ForwardDistanceM: 10},
	})
	if len(lines) != 1 {
		t.Fatalf("turnover should produce only the thrower line, got %d lines", len(lines))
	}
	l := lines[0]
	if l.Player != "A" || l.Throws != 1 || l.Turnovers != 1 || l.Completions != 0 {
		t.Errorf("thrower line wrong: %+v", l)
	}
}

// TestAggregatePasses_ThrowerAlsoCatches: turnover recovery within a point.
// A player who both throws and catches merges into one row.
func TestAggregatePasses_ThrowerAlsoCatches(t *testing.T) {
	lines := AggregatePasses([]model.PassEvent{
		{Point: 2, Thrower: "B", Receiver: "A", ForwardDistanceM: 5},
		{Point: 2, Thrower: "A", Receiver: "B", ForwardDistanceM: 8},
	})
	if len(lines) != 2 {
		t.Fatalf("expected 2 merged lines, got %d", len(lines))
	}
	for _, l := range lines {
		if l.Throws != 1 || l.Catches != 1 {
			t.Errorf("player %s: want 1 throw and 1 catch, got %+v", l.Player, l)
		}
	}
}

// ---- Block aggregation ----

func TestAggregateBlocks_EmptyInput(t *testing.T) {
	lines := AggregateBlocks(nil)
	if len(lines) != 0 {
		t.Errorf("expected empty output, got %v", lines)
	}
}

func TestAggregateBlocks_Counts(t *testing.T) {
	lines := AggregateBlocks([]model.BlockEvent{
		{Point: 4, Player: "Dia"},
		{Point: 4, Player: "Dia"},
		{Point: 5, Player: "Dia"},
	})
	want := []model.BlockLine{
		{Point: 4, Player: "Dia", Blocks: 2},
		{Point: 5, Player: "Dia", Blocks: 1},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("block lines mismatch:\n got %v\nwant %v", lines, want)
	}
}

// ---- Point context ----

// TestPointContext_CleanHold: O start, scored, exactly one possession.
func TestPointContext_CleanHold(t *testing.T) {
	ctxs := BuildPointContext(
		[]model.PointRecord{makePoint(1, true, true, 0, 0)},
		[]model.PossessionRecord{{Point: 1, Index: 1, Scored: true}},
	)
	if len(ctxs) != 1 {
		t.Fatalf("expected 1 context, got %d", len(ctxs))
	}
	c := ctxs[0]
	if c.CleanHold != 1 || c.Hold != 1 || c.Broken != 0 || c.BreakScored != 0 || c.BreakChance != 0 {
		t.Errorf("tags wrong for clean hold: %+v", c)
	}
	if c.TeamLine != "O" || c.NumPossessions != 1 || c.FirstPossessionScored != 1 {
		t.Errorf("context wrong: %+v", c)
	}
}

// TestPointContext_BreakScored: D start, scored.
func TestPointContext_BreakScored(t *testing.T) {
	ctxs := BuildPointContext(
		[]model.PointRecord{makePoint(2, false, true, 3, 2)},
		[]model.PossessionRecord{
			{Point: 2, Index: 1, Scored: false},
			{Point: 2, Index: 2, Scored: true},
		},
	)
	c := ctxs[0]
	if c.BreakScored != 1 || c.Hold != 0 || c.Broken != 0 {
		t.Errorf("tags wrong for break: %+v", c)
	}
	if c.BreakChance != 1 {
		t.Errorf("break with a possession must imply break_chance: %+v", c)
	}
	if c.TeamLine != "D" || c.NumPossessions != 2 || c.AnyPossessionScored != 1 || c.FirstPossessionScored != 0 {
		t.Errorf("context wrong: %+v", c)
	}
}

// TestPointContext_MissingPossessions: a point absent from the possession
// table still gets a context row with zeroed possession fields.
func TestPointContext_MissingPossessions(t *testing.T) {
	ctxs := BuildPointContext(
		[]model.PointRecord{makePoint(7, true, true, 1, 1)},
		nil,
	)
	c := ctxs[0]
	if c.NumPossessions != 0 || c.FirstPossessionScored != 0 || c.AnyPossessionScored != 0 {
		t.Errorf("possession fields should be zero: %+v", c)
	}
	// Still a hold, but not a clean hold (no single-possession evidence).
	if c.Hold != 1 || c.CleanHold != 0 {
		t.Errorf("tags wrong: %+v", c)
	}
}

// TestPointContext_FirstPossessionSort: possessions arrive out of order; the
// lowest index is "first" after the defined (point, index) ascending sort.
func TestPointContext_FirstPossessionSort(t *testing.T) {
	ctxs := BuildPointContext(
		[]model.PointRecord{makePoint(1, false, false, 0, 0)},
		[]model.PossessionRecord{
			{Point: 1, Index: 3, Scored: true},
			{Point: 1, Index: 1, Scored: false},
			{Point: 1, Index: 2, Scored: false},
		},
	)
	c := ctxs[0]
	if c.FirstPossessionScored != 0 {
		t.Errorf("first possession (index 1) did not score, got %+v", c)
	}
	if c.NumPossessions != 3 || c.AnyPossessionScored != 1 {
		t.Errorf("context wrong: %+v", c)
	}
}

// TestPointContext_TagInvariants sweeps every (offense, scored, possessions)
// combination and checks the invariants that must hold by construction.
func TestPointContext_TagInvariants(t *testing.T) {
	for _, offense := range []bool{true, false} {
		for _, scored := range []bool{true, false} {
			for numPos := 0; numPos <= 3; numPos++ {
				var poss []model.PossessionRecord
				for i := 1; i <= numPos; i++ {
					poss = append(poss, model.PossessionRecord{Point: 1, Index: i, Scored: scored && i == numPos})
				}
				c := BuildPointContext([]model.PointRecord{makePoint(1, offense, scored, 0, 0)}, poss)[0]

				if c.CleanHold == 1 && c.Hold != 1 {
					t.Errorf("clean_hold must imply hold: offense=%v scored=%v pos=%d", offense, scored, numPos)
				}
				if offense && c.Hold+c.Broken != 1 {
					t.Errorf("exactly one of hold/broken on O points: offense=%v scored=%v pos=%d ctx=%+v",
						offense, scored, numPos, c)
				}
				if c.BreakScored == 1 && numPos > 0 && c.BreakChance != 1 {
					t.Errorf("break_scored with possessions must imply break_chance: %+v", c)
				}
			}
		}
	}
}

// ---- Full bridge ----

// sampleTables builds a 3-point game used by the assembler tests:
//   point 1: O, scored, 1 possession, Ana→Ben assisted goal   (clean hold)
//   point 2: D, not scored, no possession rows                (no break chance)
//   point 3: D, scored, 2 possessions, Cleo block, turnover   (break)
func sampleTables() *model.GameTables {
	points := []model.PointRecord{
		makePoint(1, true, true, 0, 0),
		makePoint(2, false, false, 1, 0),
		makePoint(3, false, true, 1, 1),
	}
	passes := []model.PassEvent{
		{Point: 1, Thrower: "Ana", Receiver: "Ben", Assist: true, ForwardDistanceM: 30},
		{Point: 3, Thrower: "Ben", Receiver: "Ana", Turnover: true, ForwardDistanceM: 12},
		{Point: 3, Thrower: "Cleo", Receiver: "Ana", Assist: true, ForwardDistanceM: 18.204},
	}
	blocks := []model.BlockEvent{{Point: 3, Player: "Cleo"}}
	poss := []model.PossessionRecord{
		{Point: 1, Index: 1, Scored: true},
		{Point: 3, Index: 1, Scored: false},
		{Point: 3, Index: 2, Scored: true},
	}
	return makeTables([]string{"Ana", "Ben", "Cleo"}, points, passes, blocks, poss)
}

func TestBridge_RosterRoundTrip(t *testing.T) {
	rows, summary, err := BuildPerPlayerPerPoint(sampleTables(), "2025-07-03_FBA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3 players × 3 points, each exactly once.
	if len(rows) != 9 {
		t.Fatalf("expected 9 fact rows, got %d", len(rows))
	}
	seen := make(map[[2]string]int)
	for _, r := range rows {
		seen[[2]string{r.Player, r.PointUID}]++
	}
	for k, n := range seen {
		if n != 1 {
			t.Errorf("player/point %v appears %d times", k, n)
		}
	}
	if len(summary) != 3 {
		t.Errorf("expected 3 summary rows, got %d", len(summary))
	}
}

func TestBridge_TouchesEqualsThrowsPlusCatches(t *testing.T) {
	rows, _, err := BuildPerPlayerPerPoint(sampleTables(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := AggregatePasses(sampleTables().Passes)
	catches := make(map[pointPlayerKey]int)
	for _, l := range lines {
		catches[pointPlayerKey{l.Point, l.Player}] = l.Catches
	}
	for _, r := range rows {
		want := r.Throws + catches[pointPlayerKey{r.Point, r.Player}]
		if r.Touches != want {
			t.Errorf("%s P%d: touches=%d want throws+catches=%d", r.Player, r.Point, r.Touches, want)
		}
		if r.Touches < r.Throws {
			t.Errorf("%s P%d: touches < throws", r.Player, r.Point)
		}
	}
}

func TestBridge_ZeroFill(t *testing.T) {
	rows, _, err := BuildPerPlayerPerPoint(sampleTables(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Cleo on point 1 neither threw, caught, nor blocked.
	for _, r := range rows {
		if r.Player != "Cleo" || r.Point != 1 {
			continue
		}
		if r.Touches != 0 || r.Throws != 0 || r.Goals != 0 || r.Blocks != 0 || r.YardsGainM != 0 {
			t.Errorf("expected all-zero stats for idle roster row, got %+v", r)
		}
		// Point context still broadcast onto the row.
		if r.CleanHold != 1 || r.TeamLine != "O" {
			t.Errorf("context not broadcast onto idle row: %+v", r)
		}
		return
	}
	t.Fatal("Cleo point 1 row missing")
}

func TestBridge_YardsRounding(t *testing.T) {
	rows, _, err := BuildPerPlayerPerPoint(sampleTables(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Ana on point 3: threw nothing, caught 18.204m → rounds to 18.2.
	for _, r := range rows {
		if r.Player == "Ana" && r.Point == 3 {
			if r.YardsGainM != 18.2 {
				t.Errorf("yards_gain_m: want 18.2, got %v", r.YardsGainM)
			}
			return
		}
	}
	t.Fatal("Ana point 3 row missing")
}

func TestBridge_PointUIDFormat(t *testing.T) {
	if got := PointUID("2025-07-03_FBA", 7); got != "2025-07-03_FBA_P07" {
		t.Errorf("point_uid: got %q", got)
	}
	if got := PointUID("g", 12); got != "g_P12" {
		t.Errorf("point_uid: got %q", got)
	}

	_, summary, err := BuildPerPlayerPerPoint(sampleTables(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	uids := make(map[string]struct{})
	for _, s := range summary {
		if _, dup := uids[s.PointUID]; dup {
			t.Errorf("duplicate point_uid %q", s.PointUID)
		}
		uids[s.PointUID] = struct{}{}
	}
}

func TestBridge_Idempotent(t *testing.T) {
	rows1, sum1, err := BuildPerPlayerPerPoint(sampleTables(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows2, sum2, err := BuildPerPlayerPerPoint(sampleTables(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(rows1, rows2) {
		t.Error("fact rows differ between identical runs")
	}
	if !reflect.DeepEqual(sum1, sum2) {
		t.Error("summary rows differ between identical runs")
	}
}

func TestBridge_EmptyRosterPlayerAbsent(t *testing.T) {
	tables := sampleTables()
	tables.PlayerStats = append(tables.PlayerStats, model.PlayerGameStats{Player: "Ghost", PointsPlayed: ""})

	rows, _, err := BuildPerPlayerPerPoint(tables, "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range rows {
		if r.Player == "Ghost" {
			t.Fatalf("player with empty points list must not appear: %+v", r)
		}
	}
}

func TestSummarizeGame(t *testing.T) {
	rows, summary, err := BuildPerPlayerPerPoint(sampleTables(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gs := SummarizeGame("g1", rows, summary)
	if gs.PointsTotal != 3 || gs.PlayersTotal != 3 {
		t.Errorf("summary counts wrong: %+v", gs)
	}
	// Points 1 and 3 scored, point 2 lost.
	if gs.OurScore != 2 || gs.OppScore != 1 {
		t.Errorf("score wrong: %+v", gs)
	}
	if gs.Holds != 1 || gs.Breaks != 1 {
		t.Errorf("holds/breaks wrong: %+v", gs)
	}
}
