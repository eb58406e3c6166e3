package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/exporter"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/storage"
)

var (
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the season-level tables from the database",
	Long: `Write the season-level concatenations of the two output tables to the
output folder: every stored game's per-player-per-point rows and point
summaries, in sorted game order. --format json writes the same tables as
JSON arrays instead of CSV.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", ".", "output folder")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("unknown format %q: use csv or json", exportFormat)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.GetAllPlayerPointRows()
	if err != nil {
		return fmt.Errorf("query season rows: %w", err)
	}
	summaries, err := db.GetAllPointSummaries()
	if err != nil {
		return fmt.Errorf("query season summaries: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("nothing to export: no games stored")
	}

	var rowsPath, sumPath string
	switch exportFormat {
	case "csv":
		rowsPath = filepath.Join(exportOut, exporter.AllPlayerPointFile)
		sumPath = filepath.Join(exportOut, exporter.AllPointSummaryFile)
		if err := exporter.WritePlayerPointRows(rowsPath, rows); err != nil {
			return fmt.Errorf("write season rows: %w", err)
		}
		if err := exporter.WritePointSummaries(sumPath, summaries); err != nil {
			return fmt.Errorf("write season summaries: %w", err)
		}
	case "json":
		rowsPath = filepath.Join(exportOut, "all_per_player_per_point.json")
		sumPath = filepath.Join(exportOut, "all_point_level_summary.json")
		if err := writeJSON(rowsPath, rows); err != nil {
			return err
		}
		if err := writeJSON(sumPath, summaries); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "Wrote:\n - %s (%d rows)\n - %s (%d rows)\n",
		rowsPath, len(rows), sumPath, len(summaries))
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
