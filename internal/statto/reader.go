// Package statto reads the five per-game CSV exports produced by the Statto
// tracking app and turns them into typed records for the bridge. Column names
// are matched exactly as Statto writes them; there is no fuzzy header mapping.
package statto

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"
)

// Table names used in error messages.
const (
	TablePlayerStats = "Player Stats"
	TablePoints      = "Points"
	TablePasses      = "Passes"
	TableBlocks      = "Defensive Blocks"
	TablePossessions = "Possessions"
)

// GamePaths locates the five exports of a single game. Discovery (directory
// layout, filename globbing) is the caller's job.
type GamePaths struct {
	PlayerStats string
	Points      string
	Passes      string
	Blocks      string
	Possessions string
}

// ReadGame parses all five exports. Any missing file, missing column, or
// non-coercible cell aborts the whole game.
func ReadGame(paths GamePaths) (*model.GameTables, error) {
	in := &model.GameTables{}
	var err error
	if in.PlayerStats, err = ReadPlayerStats(paths.PlayerStats); err != nil {
		return nil, err
	}
	if in.Points, err = ReadPoints(paths.Points); err != nil {
		return nil, err
	}
	if in.Passes, err = ReadPasses(paths.Passes); err != nil {
		return nil, err
	}
	if in.Blocks, err = ReadBlocks(paths.Blocks); err != nil {
		return nil, err
	}
	if in.Possessions, err = ReadPossessions(paths.Possessions); err != nil {
		return nil, err
	}
	return in, nil
}

// table is a loaded CSV with header lookup and typed cell access.
type table struct {
	name   string
	header map[string]int
	rows   [][]string
}

func loadTable(path, name string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MissingFileError{Table: name, Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s table %s: %w", name, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s table %s: empty file, no header row", name, path)
	}

	header := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF") // Excel writes a UTF-8 BOM
		}
		header[strings.TrimSpace(h)] = i
	}
	return &table{name: name, header: header, rows: records[1:]}, nil
}

func (t *table) col(name string) (int, error) {
	idx, ok := t.header[name]
	if !ok {
		return 0, &MissingColumnError{Table: t.name, Column: name}
	}
	return idx, nil
}

// cell returns the raw cell, "" when the row is short.
func (t *table) cell(row, idx int) string {
	if idx >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][idx])
}

func (t *table) strAt(row, idx int) string {
	return t.cell(row, idx)
}

func (t *table) intAt(row, idx int, colName string) (int, error) {
	v := t.cell(row, idx)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &CellError{Table: t.name, Column: colName, Row: row + 1, Value: v, Err: err}
	}
	return n, nil
}

func (t *table) floatAt(row, idx int, colName string) (float64, error) {
	v := t.cell(row, idx)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &CellError{Table: t.name, Column: colName, Row: row + 1, Value: v, Err: err}
	}
	return f, nil
}

// boolAt coerces Statto's 0/1 flag columns. Empty counts as false.
func (t *table) boolAt(row, idx int, colName string) (bool, error) {
	switch v := t.cell(row, idx); v {
	case "", "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, &CellError{
			Table: t.name, Column: colName, Row: row + 1, Value: v,
			Err: fmt.Errorf("expected 0 or 1"),
		}
	}
}

// ReadPlayerStats parses the "Player Stats vs. <opponent>" export. Only the
// roster columns are needed; the per-player aggregate columns are ignored
// because the bridge recomputes everything per point.
func ReadPlayerStats(path string) ([]model.PlayerGameStats, error) {
	t, err := loadTable(path, TablePlayerStats)
	if err != nil {
		return nil, err
	}
	playerIdx, err := t.col("Player")
	if err != nil {
		return nil, err
	}
	pointsIdx, err := t.col("Points played")
	if err != nil {
		return nil, err
	}

	out := make([]model.PlayerGameStats, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, model.PlayerGameStats{
			Player:       t.strAt(i, playerIdx),
			PointsPlayed: t.strAt(i, pointsIdx),
		})
	}
	return out, nil
}

// ReadPoints parses the "Points vs. <opponent>" export.
func ReadPoints(path string) ([]model.PointRecord, error) {
	t, err := loadTable(path, TablePoints)
	if err != nil {
		return nil, err
	}

	cols := []string{
		"Point", "Started on offense?", "Scored?",
		"Our score at pull", "Opponent's score at pull",
		"Possessions", "Passes", "Turnovers", "Defensive blocks",
	}
	idx := make(map[string]int, len(cols))
	for _, c := range cols {
		if idx[c], err = t.col(c); err != nil {
			return nil, err
		}
	}

	out := make([]model.PointRecord, 0, len(t.rows))
	for i := range t.rows {
		var p model.PointRecord
		if p.Number, err = t.intAt(i, idx["Point"], "Point"); err != nil {
			return nil, err
		}
		if p.StartedOnOffense, err = t.boolAt(i, idx["Started on offense?"], "Started on offense?"); err != nil {
			return nil, err
		}
		if p.Scored, err = t.boolAt(i, idx["Scored?"], "Scored?"); err != nil {
			return nil, err
		}
		if p.OurScoreAtPull, err = t.intAt(i, idx["Our score at pull"], "Our score at pull"); err != nil {
			return nil, err
		}
		if p.OppScoreAtPull, err = t.intAt(i, idx["Opponent's score at pull"], "Opponent's score at pull"); err != nil {
			return nil, err
		}
		if p.PossessionsTotal, err = t.intAt(i, idx["Possessions"], "Possessions"); err != nil {
			return nil, err
		}
		if p.PassesTotal, err = t.intAt(i, idx["Passes"], "Passes"); err != nil {
			return nil, err
		}
		if p.TurnoversTotal, err = t.intAt(i, idx["Turnovers"], "Turnovers"); err != nil {
			return nil, err
		}
		if p.BlocksTotal, err = t.intAt(i, idx["Defensive blocks"], "Defensive blocks"); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ReadPasses parses the "Passes vs. <opponent>" export, one row per thrown disc.
func ReadPasses(path string) ([]model.PassEvent, error) {
	t, err := loadTable(path, TablePasses)
	if err != nil {
		return nil, err
	}

	cols := []string{
		"Point", "Thrower", "Receiver", "Turnover?", "Assist?",
		"Secondary assist?", "Huck?", "Swing?", "Dump?", "Forward distance (m)",
	}
	idx := make(map[string]int, len(cols))
	for _, c := range cols {
		if idx[c], err = t.col(c); err != nil {
			return nil, err
		}
	}

	out := make([]model.PassEvent, 0, len(t.rows))
	for i := range t.rows {
		var e model.PassEvent
		if e.Point, err = t.intAt(i, idx["Point"], "Point"); err != nil {
			return nil, err
		}
		e.Thrower = t.strAt(i, idx["Thrower"])
		e.Receiver = t.strAt(i, idx["Receiver"])
		if e.Turnover, err = t.boolAt(i, idx["Turnover?"], "Turnover?"); err != nil {
			return nil, err
		}
		if e.Assist, err = t.boolAt(i, idx["Assist?"], "Assist?"); err != nil {
			return nil, err
		}
		if e.SecondaryAssist, err = t.boolAt(i, idx["Secondary assist?"], "Secondary assist?"); err != nil {
			return nil, err
		}
		if e.Huck, err = t.boolAt(i, idx["Huck?"], "Huck?"); err != nil {
			return nil, err
		}
		if e.Swing, err = t.boolAt(i, idx["Swing?"], "Swing?"); err != nil {
			return nil, err
		}
		if e.Dump, err = t.boolAt(i, idx["Dump?"], "Dump?"); err != nil {
			return nil, err
		}
		if e.ForwardDistanceM, err = t.floatAt(i, idx["Forward distance (m)"], "Forward distance (m)"); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ReadBlocks parses the "Defensive Blocks vs. <opponent>" export. An empty
// table (header only) is fine: some games have no recorded blocks.
func ReadBlocks(path string) ([]model.BlockEvent, error) {
	t, err := loadTable(path, TableBlocks)
	if err != nil {
		return nil, err
	}
	pointIdx, err := t.col("Point")
	if err != nil {
		return nil, err
	}
	playerIdx, err := t.col("Player")
	if err != nil {
		return nil, err
	}

	out := make([]model.BlockEvent, 0, len(t.rows))
	for i := range t.rows {
		var e model.BlockEvent
		if e.Point, err = t.intAt(i, pointIdx, "Point"); err != nil {
			return nil, err
		}
		e.Player = t.strAt(i, playerIdx)
		out = append(out, e)
	}
	return out, nil
}

// ReadPossessions parses the "Possessions vs. <opponent>" export.
func ReadPossessions(path string) ([]model.PossessionRecord, error) {
	t, err := loadTable(path, TablePossessions)
	if err != nil {
		return nil, err
	}
	pointIdx, err := t.col("Point")
	if err != nil {
		return nil, err
	}
	possIdx, err := t.col("Possession")
	if err != nil {
		return nil, err
	}
	scoredIdx, err := t.col("Scored?")
	if err != nil {
		return nil, err
	}

	out := make([]model.PossessionRecord, 0, len(t.rows))
	for i := range t.rows {
		var p model.PossessionRecord
		if p.Point, err = t.intAt(i, pointIdx, "Point"); err != nil {
			return nil, err
		}
		if p.Index, err = t.intAt(i, possIdx, "Possession"); err != nil {
			return nil, err
		}
		if p.Scored, err = t.boolAt(i, scoredIdx, "Scored?"); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
