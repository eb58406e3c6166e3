package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"
)

func readBack(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWritePlayerPointRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PlayerPointFile)

	rows := []model.PlayerPointRow{
		{
			GameID: "g1", PointUID: "g1_P01", TeamLine: "O", Player: "Ana", Point: 1,
			Touches: 3, Throws: 2, Completions: 2, Assists: 1,
			YardsGainM: 18.2, PointResult: 1, NumPossessions: 1, CleanHold: 1, Hold: 1,
		},
	}
	require.NoError(t, WritePlayerPointRows(path, rows))

	records := readBack(t, path)
	require.Len(t, records, 2)

	header := records[0]
	assert.Equal(t, "game_id", header[0])
	assert.Equal(t, "yards_gain_m", header[14])
	assert.Len(t, header, 26)

	rec := records[1]
	assert.Equal(t, []string{"g1", "g1_P01", "O", "Ana", "1"}, rec[:5])
	assert.Equal(t, "18.2", rec[14], "yards must not carry trailing zeros")
	assert.Equal(t, "1", rec[17], "num_possessions")
}

func TestWritePlayerPointRows_EmptyStillHasHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WritePlayerPointRows(path, nil))

	records := readBack(t, path)
	require.Len(t, records, 1, "header row only")
	assert.Len(t, records[0], 26)
}

func TestWritePointSummaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), PointSummaryFile)

	rows := []model.PointSummaryRow{
		{
			GameID: "g1", PointUID: "g1_P02",
			PointContext: model.PointContext{
				Point: 2, TeamLine: "D", PointResult: 1,
				OurScoreStart: 3, OppScoreStart: 2,
				NumPossessions: 2, AnyPossessionScored: 1,
				BreakScored: 1, BreakChance: 1,
			},
		},
	}
	require.NoError(t, WritePointSummaries(path, rows))

	records := readBack(t, path)
	require.Len(t, records, 2)
	assert.Len(t, records[0], 19)

	rec := records[1]
	assert.Equal(t, "g1_P02", rec[1])
	assert.Equal(t, "D", rec[3])
	assert.Equal(t, "1", rec[17], "break_scored")
	assert.Equal(t, "1", rec[18], "break_chance")
}

func TestWriteGameOutputs_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "season", "2025-07-03_FBA")
	require.NoError(t, WriteGameOutputs(dir, nil, nil))

	_, err := os.Stat(filepath.Join(dir, PlayerPointFile))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, PointSummaryFile))
	assert.NoError(t, err)
}
