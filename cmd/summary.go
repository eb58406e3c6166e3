package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/report"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all games stored in the database:
total game and point counts, season score, hold/break totals, and the
season leaderboard.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalGames == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'ultistats bridge' or 'ultistats batch' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Season Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Games stored  : %d\n", ov.TotalGames)
	fmt.Fprintf(os.Stdout, "  Game range    : %s → %s\n", ov.FirstGame, ov.LastGame)
	fmt.Fprintf(os.Stdout, "  Points played : %d\n", ov.TotalPoints)
	fmt.Fprintf(os.Stdout, "  Players seen  : %d\n", ov.UniquePlayers)
	fmt.Fprintf(os.Stdout, "  Season score  : us %d – %d them\n", ov.OurScore, ov.OppScore)
	fmt.Fprintf(os.Stdout, "  Holds         : %d\n", ov.Holds)
	fmt.Fprintf(os.Stdout, "  Breaks        : %d\n", ov.Breaks)

	totals, err := db.GetSeasonTotals()
	if err != nil {
		return fmt.Errorf("get season totals: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Season Leaderboard ---\n\n")
	report.PrintSeasonTable(os.Stdout, totals, "")
	return nil
}
