package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/bridge"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/exporter"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/statto"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/storage"
)

var (
	batchRoot string
	batchOut  string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Ingest every game under a root folder",
	Long: `Process multiple games in one run. The root folder holds one subfolder
per game (the folder name becomes the game_id), each containing the five
Statto exports:

    data/
      2025-07-03_FBA/
        Player Stats vs. ... .csv
        Points vs. ... .csv
        Passes vs. ... .csv
        Defensive Blocks vs. ... .csv
        Possessions vs. ... .csv
      2025-07-12_HUC/
        ...

Games are processed in sorted-name order. A failing game is logged and
skipped; the rest of the run continues. With --out, per-game CSVs are
written under <out>/<game_id>/ and season-level concatenations as
<out>/all_per_player_per_point.csv and <out>/all_point_level_summary.csv.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchRoot, "root", "", "root folder containing per-game subfolders")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "output folder for per-game and season CSVs")
	batchCmd.MarkFlagRequired("root")
}

// findGameFiles locates the five exports inside one game folder using loose
// glob patterns so minor filename differences still match.
func findGameFiles(gameDir string) (statto.GamePaths, error) {
	firstGlob := func(pattern string) string {
		matches, _ := filepath.Glob(filepath.Join(gameDir, pattern))
		if len(matches) == 0 {
			return ""
		}
		sort.Strings(matches)
		return matches[0]
	}

	paths := statto.GamePaths{
		PlayerStats: firstGlob("Player Stats vs*csv"),
		Points:      firstGlob("Points vs*csv"),
		Passes:      firstGlob("Passes vs*csv"),
		Blocks:      firstGlob("Defensive Blocks vs*csv"),
		Possessions: firstGlob("Possessions vs*csv"),
	}

	var missing []string
	for _, p := range []struct{ path, pattern string }{
		{paths.PlayerStats, "Player Stats vs*.csv"},
		{paths.Points, "Points vs*.csv"},
		{paths.Passes, "Passes vs*.csv"},
		{paths.Blocks, "Defensive Blocks vs*.csv"},
		{paths.Possessions, "Possessions vs*.csv"},
	} {
		if p.path == "" {
			missing = append(missing, p.pattern)
		}
	}
	if len(missing) > 0 {
		return paths, fmt.Errorf("missing files in %s: %v", gameDir, missing)
	}
	return paths, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	entries, err := os.ReadDir(batchRoot)
	if err != nil {
		return fmt.Errorf("read root folder: %w", err)
	}
	var gameDirs []string
	for _, e := range entries {
		if e.IsDir() {
			gameDirs = append(gameDirs, e.Name())
		}
	}
	if len(gameDirs) == 0 {
		return fmt.Errorf("no game subfolders found under %s", batchRoot)
	}
	sort.Strings(gameDirs)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	var allRows []model.PlayerPointRow
	var allSummaries []model.PointSummaryRow
	processed := 0

	for _, name := range gameDirs {
		gameID := name // folder name becomes the game_id
		fmt.Fprintf(os.Stdout, "Processing %s ...\n", gameID)

		rows, summary, err := loadOrProcessGame(filepath.Join(batchRoot, name), gameID, db)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  skipped %s: %v\n", gameID, err)
			continue
		}
		processed++

		if batchOut != "" {
			gameOut := filepath.Join(batchOut, gameID)
			if err := exporter.WriteGameOutputs(gameOut, rows, summary); err != nil {
				return fmt.Errorf("write outputs for %s: %w", gameID, err)
			}
		}
		allRows = append(allRows, rows...)
		allSummaries = append(allSummaries, summary...)
	}

	if processed == 0 {
		return fmt.Errorf("no games processed successfully")
	}
	fmt.Fprintf(os.Stdout, "Processed %d of %d games.\n", processed, len(gameDirs))

	if batchOut != "" {
		rowsPath := filepath.Join(batchOut, exporter.AllPlayerPointFile)
		sumPath := filepath.Join(batchOut, exporter.AllPointSummaryFile)
		if err := exporter.WritePlayerPointRows(rowsPath, allRows); err != nil {
			return fmt.Errorf("write season rows: %w", err)
		}
		if err := exporter.WritePointSummaries(sumPath, allSummaries); err != nil {
			return fmt.Errorf("write season summaries: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Wrote season CSVs:\n - %s\n - %s\n", rowsPath, sumPath)
	}
	return nil
}

// loadOrProcessGame returns the stored tables when the game was already
// imported, otherwise runs discovery, parse, transform, and store.
func loadOrProcessGame(gameDir, gameID string, db *storage.DB) ([]model.PlayerPointRow, []model.PointSummaryRow, error) {
	exists, err := db.GameExists(gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("check game: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "  already stored, reusing\n")
		rows, err := db.GetPlayerPointRows(gameID)
		if err != nil {
			return nil, nil, err
		}
		summary, err := db.GetPointSummaries(gameID)
		if err != nil {
			return nil, nil, err
		}
		return rows, summary, nil
	}

	paths, err := findGameFiles(gameDir)
	if err != nil {
		return nil, nil, err
	}
	tables, err := statto.ReadGame(paths)
	if err != nil {
		return nil, nil, err
	}
	rows, summary, err := bridge.BuildPerPlayerPerPoint(tables, gameID)
	if err != nil {
		return nil, nil, err
	}
	if err := storeGame(db, gameID, rows, summary); err != nil {
		return nil, nil, err
	}
	return rows, summary, nil
}
