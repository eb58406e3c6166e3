package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/report"
	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/storage"
)

var (
	pointsLine string
	pointsTag  string
)

// pointsCmd is the cobra command for point-by-point drill-down of one game.
var pointsCmd = &cobra.Command{
	Use:   "points <game-id-prefix>",
	Short: "Point-by-point drill-down for one game",
	Args:  cobra.ExactArgs(1),
	RunE:  runPoints,
}

func init() {
	pointsCmd.Flags().StringVar(&pointsLine, "line", "", "filter by starting line: O or D")
	pointsCmd.Flags().StringVar(&pointsTag, "tag", "",
		"filter by tag: clean_hold, hold, broken, break_scored, break_chance")
}

// filterPoints applies the --line and --tag filters.
func filterPoints(summary []model.PointSummaryRow, line, tag string) ([]model.PointSummaryRow, error) {
	line = strings.ToUpper(line)
	tag = strings.ToLower(tag)

	var out []model.PointSummaryRow
	for _, s := range summary {
		if line != "" && s.TeamLine != line {
			continue
		}
		if tag != "" {
			match, err := hasTag(s.PointContext, tag)
			if err != nil {
				return nil, err
			}
			if !match {
				continue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func hasTag(c model.PointContext, tag string) (bool, error) {
	switch tag {
	case "clean_hold":
		return c.CleanHold == 1, nil
	case "hold":
		return c.Hold == 1, nil
	case "broken":
		return c.Broken == 1, nil
	case "break_scored":
		return c.BreakScored == 1, nil
	case "break_chance":
		return c.BreakChance == 1, nil
	default:
		return false, fmt.Errorf("unknown tag %q", tag)
	}
}

func runPoints(cmd *cobra.Command, args []string) error {
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

	summary, err := db.GetPointSummaries(game.GameID)
	if err != nil {
		return fmt.Errorf("get point summaries: %w", err)
	}

	summary, err = filterPoints(summary, pointsLine, pointsTag)
	if err != nil {
		return err
	}
	if len(summary) == 0 {
		fmt.Fprintln(os.Stderr, "No points match the given filters.")
		return nil
	}

	report.PrintGameSummary(os.Stdout, *game)
	report.PrintPointTable(os.Stdout, summary)
	return nil
}
