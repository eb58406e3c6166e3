package model

// ---- Source records parsed from the five Statto exports ----

// PlayerGameStats is one row of the "Player Stats vs. <opponent>" export.
// PointsPlayed is kept as the raw comma-separated list; the bridge expands it.
type PlayerGameStats struct {
	Player       string
	PointsPlayed string
}

// PointRecord is one row of the "Points vs. <opponent>" export, keyed by Number.
type PointRecord struct {
	Number           int
	StartedOnOffense bool
	Scored           bool
	OurScoreAtPull   int
	OppScoreAtPull   int
	PossessionsTotal int
	PassesTotal      int
	TurnoversTotal   int
	BlocksTotal      int
}

// PassEvent is one thrown disc from the "Passes vs. <opponent>" export.
type PassEvent struct {
	Point            int
	Thrower          string
	Receiver         string
	Turnover         bool
	Assist           bool
	SecondaryAssist  bool
	Huck             bool
	Swing            bool
	Dump             bool
	ForwardDistanceM float64
}

// BlockEvent is one recorded defensive block.
type BlockEvent struct {
	Point  int
	Player string
}

// PossessionRecord is one continuous possession within a point, ordered by
// Index within the point.
type PossessionRecord struct {
	Point  int
	Index  int
	Scored bool
}

// GameTables bundles the five parsed source tables of one game. The bridge
// consumes one GameTables per invocation and retains nothing across games.
type GameTables struct {
	PlayerStats []PlayerGameStats
	Points      []PointRecord
	Passes      []PassEvent
	Blocks      []BlockEvent
	Possessions []PossessionRecord
}

// ---- Derived intermediate tables ----

// RosterEntry marks that a player was on the line for a point.
type RosterEntry struct {
	Player string
	Point  int
}

// PassLine is the per-(point, player) pass aggregate: the throwing and
// catching sides merged into one row. A player who only threw or only
// caught on a point still gets one row with the other side zero-filled.
type PassLine struct {
	Point  int
	Player string

	Throws           int
	Completions      int
	Turnovers        int
	Assists          int
	SecondaryAssists int
	Hucks            int
	Swings           int
	Dumps            int
	ThrowYards       float64

	Catches       int
	Goals         int
	ReceivedYards float64
}

// BlockLine is the per-(point, player) block count.
type BlockLine struct {
	Point  int
	Player string
	Blocks int
}

// PointContext is the per-point scoring context with possession-derived
// tactical tags. Tags are stored as 0/1 so downstream consumers can sum
// them without null handling.
type PointContext struct {
	Point         int
	TeamLine      string // "O" if the point started on offense, else "D"
	PointResult   int    // 1 if we scored the point
	OurScoreStart int
	OppScoreStart int

	// Totals reported by the Points export itself.
	PossessionsTotal int
	PassesTotal      int
	TurnoversTotal   int
	BlocksTotal      int

	// Derived from the Possessions export; all zero when no possession
	// rows exist for the point (incomplete possession tracking).
	NumPossessions        int
	FirstPossessionScored int
	AnyPossessionScored   int

	CleanHold   int // O start, scored, single possession
	Hold        int // O start, scored
	Broken      int // O start, not scored
	BreakScored int // D start, scored
	BreakChance int // D start, at least one possession
}

// ---- Output tables ----

// PlayerPointRow is one model-ready fact row: one per (game, point, player)
// on the roster for that point. Every numeric column defaults to 0.
type PlayerPointRow struct {
	GameID   string
	PointUID string // "{game_id}_P{point:02d}"
	TeamLine string
	Player   string
	Point    int

	Touches          int // throws + catches
	Throws           int
	Completions      int
	Assists          int
	SecondaryAssists int
	Goals            int
	Turnovers        int
	Blocks           int
	Pulls            int // reserved, not sourced by current exports
	YardsGainM       float64

	ScoreDiffStart int
	PointResult    int

	NumPossessions int
	CleanHold      int
	Hold           int
	Broken         int
	BreakScored    int
	BreakChance    int

	Hucks  int
	Swings int
	Dumps  int
}

// PointSummaryRow is one row of the point-level summary table: the
// PointContext plus the game identifiers.
type PointSummaryRow struct {
	GameID   string
	PointUID string
	PointContext
}

// CompletionPct returns completed throws as a percentage of throws.
func (r *PlayerPointRow) CompletionPct() float64 {
	if r.Throws == 0 {
		return 0
	}
	return float64(r.Completions) / float64(r.Throws) * 100
}

// GameSummary is a lightweight record for list/show commands.
type GameSummary struct {
	GameID       string
	PointsTotal  int
	PlayersTotal int
	OurScore     int
	OppScore     int
	Holds        int
	Breaks       int
	ImportedAt   string
}

// PlayerSeasonTotals holds one player's stats summed across all stored games.
type PlayerSeasonTotals struct {
	Player string
	Games  int
	Points int

	Touches     int
	Throws      int
	Completions int
	Assists     int
	Goals       int
	Turnovers   int
	Blocks      int
	YardsGainM  float64

	OPoints    int // points started on offense
	HoldPoints int // O points the team converted while this player was on
}

func (t *PlayerSeasonTotals) CompletionPct() float64 {
	if t.Throws == 0 {
		return 0
	}
	return float64(t.Completions) / float64(t.Throws) * 100
}

func (t *PlayerSeasonTotals) TouchesPerPoint() float64 {
	if t.Points == 0 {
		return 0
	}
	return float64(t.Touches) / float64(t.Points)
}

func (t *PlayerSeasonTotals) HoldPct() float64 {
	if t.OPoints == 0 {
		return 0
	}
	return float64(t.HoldPoints) / float64(t.OPoints) * 100
}
