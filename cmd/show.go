package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/report"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/storage"
)

var showFocus string

var showCmd = &cobra.Command{
	Use:   "show <game-id-prefix>",
	Short: "Show a stored game by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFocus, "focus", "", "highlight this player")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	game, err := db.GetGameByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game found with id prefix %q\n", prefix)
		return nil
	}

	return showStoredGame(db, game.GameID, showFocus)
}

// showStoredGame prints the full report for a stored game.
func showStoredGame(db *storage.DB, gameID, focus string) error {
	game, err := db.GetGameByPrefix(gameID)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		return fmt.Errorf("game %q not stored", gameID)
	}

	rows, err := db.GetPlayerPointRows(game.GameID)
	if err != nil {
		return fmt.Errorf("get fact rows: %w", err)
	}
	summary, err := db.GetPointSummaries(game.GameID)
	if err != nil {
		return fmt.Errorf("get point summaries: %w", err)
	}

	report.PrintGameSummary(os.Stdout, *game)
	report.PrintPlayerGameTable(os.Stdout, rows, focus)
	report.PrintPointTable(os.Stdout, summary)
	return nil
}
