package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/report"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/storage"
)

var playerShowLog bool

// playerCmd is the cobra command for cross-game analysis of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <name> [<name>...]",
	Short: "Cross-game analysis for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().BoolVar(&playerShowLog, "log", false, "also print the per-game log for each player")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	var totals []model.PlayerSeasonTotals
	for _, name := range args {
		t, err := db.GetPlayerTotals(name)
		if err != nil {
			return fmt.Errorf("query totals for %q: %w", name, err)
		}
		if t == nil {
			fmt.Fprintf(os.Stderr, "No data found for player %q\n", name)
			continue
		}
		totals = append(totals, *t)
	}
	if len(totals) == 0 {
		return nil
	}

	fmt.Fprintln(os.Stdout)
	report.PrintSeasonTable(os.Stdout, totals, "")

	if !playerShowLog {
		return nil
	}
	for _, t := range totals {
		log, err := db.GetPlayerGameLog(t.Player)
		if err != nil {
			return fmt.Errorf("query game log for %q: %w", t.Player, err)
		}
		fmt.Fprintf(os.Stdout, "\n--- %s, game by game ---\n\n", t.Player)
		printGameLogTable(log)
	}
	return nil
}

func printGameLogTable(log []storage.PlayerGameLogRow) {
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("GAME", "PTS", "TOUCH", "THR", "G", "AST", "TO", "BLK", "YDS")
	for _, r := range log {
		table.Append(
			r.GameID,
			fmt.Sprintf("%d", r.Points),
			fmt.Sprintf("%d", r.Touches),
			fmt.Sprintf("%d", r.Throws),
			fmt.Sprintf("%d", r.Goals),
			fmt.Sprintf("%d", r.Assists),
			fmt.Sprintf("%d", r.Turnovers),
			fmt.Sprintf("%d", r.Blocks),
			fmt.Sprintf("%.1f", r.YardsGainM),
		)
	}
	table.Render()
}
