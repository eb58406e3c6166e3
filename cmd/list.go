package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'ultistats bridge' or 'ultistats batch' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %6s  %6s  %6s  %6s  %7s\n",
		"GAME", "SCORE", "POINTS", "HOLDS", "BREAKS", "PLAYERS")
	fmt.Fprintf(os.Stdout, "%-20s  %6s  %6s  %6s  %6s  %7s\n",
		"────────────────────", "──────", "──────", "──────", "──────", "───────")
	for _, g := range games {
		score := fmt.Sprintf("%d-%d", g.OurScore, g.OppScore)
		fmt.Fprintf(os.Stdout, "%-20s  %6s  %6d  %6d  %6d  %7d\n",
			g.GameID, score, g.PointsTotal, g.Holds, g.Breaks, g.PlayersTotal)
	}
	return nil
}
