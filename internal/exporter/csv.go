// Package exporter writes the two output tables as CSV files: the
// per-player-per-point fact table and the point-level summary. Column
// order is part of the output contract consumed by downstream model
// training; do not reorder.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"
)

// Default output file names, per game and season-level.
const (
	PlayerPointFile     = "per_player_per_point.csv"
	PointSummaryFile    = "point_level_summary.csv"
	AllPlayerPointFile  = "all_per_player_per_point.csv"
	AllPointSummaryFile = "all_point_level_summary.csv"
)

var playerPointHeader = []string{
	"game_id", "point_uid", "team_line", "player", "point",
	"touches", "throws", "completions", "assists", "secondary_assists",
	"goals", "turnovers", "blocks", "pulls", "yards_gain_m",
	"score_diff_start", "point_result",
	"num_possessions", "clean_hold", "hold", "broken", "break_scored", "break_chance",
	"hucks", "swings", "dumps",
}

var pointSummaryHeader = []string{
	"game_id", "point_uid", "point", "team_line", "point_result",
	"our_score_start", "opp_score_start",
	"possessions_total", "passes_total", "turnovers_total", "blocks_total",
	"num_possessions", "first_possession_scored", "any_possession_scored",
	"clean_hold", "hold", "broken", "break_scored", "break_chance",
}

func writeCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}

func itoa(n int) string { return strconv.Itoa(n) }

// ftoa renders a float without trailing zeros ("18.2", not "18.20").
func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func playerPointRecord(r model.PlayerPointRow) []string {
	return []string{
		r.GameID, r.PointUID, r.TeamLine, r.Player, itoa(r.Point),
		itoa(r.Touches), itoa(r.Throws), itoa(r.Completions), itoa(r.Assists), itoa(r.SecondaryAssists),
		itoa(r.Goals), itoa(r.Turnovers), itoa(r.Blocks), itoa(r.Pulls), ftoa(r.YardsGainM),
		itoa(r.ScoreDiffStart), itoa(r.PointResult),
		itoa(r.NumPossessions), itoa(r.CleanHold), itoa(r.Hold), itoa(r.Broken), itoa(r.BreakScored), itoa(r.BreakChance),
		itoa(r.Hucks), itoa(r.Swings), itoa(r.Dumps),
	}
}

func pointSummaryRecord(s model.PointSummaryRow) []string {
	return []string{
		s.GameID, s.PointUID, itoa(s.Point), s.TeamLine, itoa(s.PointResult),
		itoa(s.OurScoreStart), itoa(s.OppScoreStart),
		itoa(s.PossessionsTotal), itoa(s.PassesTotal), itoa(s.TurnoversTotal), itoa(s.BlocksTotal),
		itoa(s.NumPossessions), itoa(s.FirstPossessionScored), itoa(s.AnyPossessionScored),
		itoa(s.CleanHold), itoa(s.Hold), itoa(s.Broken), itoa(s.BreakScored), itoa(s.BreakChance),
	}
}

// WritePlayerPointRows writes the per-player-per-point fact table to path.
func WritePlayerPointRows(path string, rows []model.PlayerPointRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, playerPointRecord(r))
	}
	return writeCSV(path, playerPointHeader, records)
}

// WritePointSummaries writes the point-level summary table to path.
func WritePointSummaries(path string, rows []model.PointSummaryRow) error {
	records := make([][]string, 0, len(rows))
	for _, s := range rows {
		records = append(records, pointSummaryRecord(s))
	}
	return writeCSV(path, pointSummaryHeader, records)
}

// WriteGameOutputs writes both per-game tables into dir using the default
// file names.
func WriteGameOutputs(dir string, rows []model.PlayerPointRow, summary []model.PointSummaryRow) error {
	if err := WritePlayerPointRows(filepath.Join(dir, PlayerPointFile), rows); err != nil {
		return err
	}
	return WritePointSummaries(filepath.Join(dir, PointSummaryFile), summary)
}
