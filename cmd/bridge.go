package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/bridge"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/exporter"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/report"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/statto"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/storage"
)

var (
	bridgePlayerPath string
	bridgePointsPath string
	bridgePassesPath string
	bridgeBlocksPath string
	bridgePossPath   string
	bridgeGameID     string
	bridgeOutDir     string
	bridgeFocus      string
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Transform one game's Statto exports and store the result",
	Long: `Read the five Statto CSV exports of a single game, build the
per-player-per-point fact table and the point-level summary, store both in
the database, and print the game report. With --outdir, the two tables are
also written as per_player_per_point.csv and point_level_summary.csv.`,
	Args: cobra.NoArgs,
	RunE: runBridge,
}

func init() {
	bridgeCmd.Flags().StringVar(&bridgePlayerPath, "player", "", `path to "Player Stats vs. <opponent>.csv"`)
	bridgeCmd.Flags().StringVar(&bridgePointsPath, "points", "", `path to "Points vs. <opponent>.csv"`)
	bridgeCmd.Flags().StringVar(&bridgePassesPath, "passes", "", `path to "Passes vs. <opponent>.csv"`)
	bridgeCmd.Flags().StringVar(&bridgeBlocksPath, "blocks", "", `path to "Defensive Blocks vs. <opponent>.csv"`)
	bridgeCmd.Flags().StringVar(&bridgePossPath, "poss", "", `path to "Possessions vs. <opponent>.csv"`)
	bridgeCmd.Flags().StringVar(&bridgeGameID, "game-id", "", "game identifier, e.g. 2025-07-03_FBA")
	bridgeCmd.Flags().StringVar(&bridgeOutDir, "outdir", "", "also write the two CSV outputs here")
	bridgeCmd.Flags().StringVar(&bridgeFocus, "focus", "", "highlight this player in the report")

	for _, f := range []string{"player", "points", "passes", "blocks", "poss", "game-id"} {
		bridgeCmd.MarkFlagRequired(f)
	}
}

func runBridge(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	exists, err := db.GameExists(bridgeGameID)
	if err != nil {
		return fmt.Errorf("check game: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Game %s already stored, showing cached results.\n", bridgeGameID)
		return showStoredGame(db, bridgeGameID, bridgeFocus)
	}

	tables, err := statto.ReadGame(statto.GamePaths{
		PlayerStats: bridgePlayerPath,
		Points:      bridgePointsPath,
		Passes:      bridgePassesPath,
		Blocks:      bridgeBlocksPath,
		Possessions: bridgePossPath,
	})
	if err != nil {
		return fmt.Errorf("game %s: %w", bridgeGameID, err)
	}

	rows, summary, err := bridge.BuildPerPlayerPerPoint(tables, bridgeGameID)
	if err != nil {
		return fmt.Errorf("game %s: %w", bridgeGameID, err)
	}

	if err := storeGame(db, bridgeGameID, rows, summary); err != nil {
		return err
	}

	if bridgeOutDir != "" {
		if err := exporter.WriteGameOutputs(bridgeOutDir, rows, summary); err != nil {
			return fmt.Errorf("write outputs: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s and %s to %s\n",
			exporter.PlayerPointFile, exporter.PointSummaryFile, bridgeOutDir)
	}

	gs := bridge.SummarizeGame(bridgeGameID, rows, summary)
	report.PrintGameSummary(os.Stdout, gs)
	report.PrintPlayerGameTable(os.Stdout, rows, bridgeFocus)
	report.PrintPointTable(os.Stdout, summary)
	return nil
}

// storeGame inserts a transformed game into the database.
func storeGame(db *storage.DB, gameID string, rows []model.PlayerPointRow, summary []model.PointSummaryRow) error {
	gs := bridge.SummarizeGame(gameID, rows, summary)
	gs.ImportedAt = time.Now().UTC().Format(time.RFC3339)

	if err := db.InsertGame(gs); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	if err := db.InsertPlayerPointRows(rows); err != nil {
		return fmt.Errorf("insert fact rows: %w", err)
	}
	if err := db.InsertPointSummaries(summary); err != nil {
		return fmt.Errorf("insert point summaries: %w", err)
	}
	return nil
}
