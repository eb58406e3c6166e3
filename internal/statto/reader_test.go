package statto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadPlayerStats(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "players.csv",
		"Player,Points played,Goals\n"+
			"Ana,\"1, 2, 3\",2\n"+
			"Ben,1,0\n")

	got, err := ReadPlayerStats(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ana", got[0].Player)
	assert.Equal(t, "1, 2, 3", got[0].PointsPlayed)
	assert.Equal(t, "1", got[1].PointsPlayed)
}

func TestReadPlayerStatsBOMHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "players.csv",
		"\uFEFFPlayer,Points played\nAna,1\n")

	got, err := ReadPlayerStats(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].Player)
}

func TestReadPlayerStatsMissingFile(t *testing.T) {
	_, err := ReadPlayerStats(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)

	var mfe *MissingFileError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, TablePlayerStats, mfe.Table)
}

func TestReadPlayerStatsMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "players.csv", "Player,Goals\nAna,2\n")

	_, err := ReadPlayerStats(path)
	require.Error(t, err)

	var mce *MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, "Points played", mce.Column)
}

func TestReadPoints(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "points.csv",
		"Point,Started on offense?,Scored?,Our score at pull,Opponent's score at pull,Possessions,Passes,Turnovers,Defensive blocks\n"+
			"1,1,1,0,0,1,5,0,0\n"+
			"2,0,0,1,0,0,2,1,\n")

	got, err := ReadPoints(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Number)
	assert.True(t, got[0].StartedOnOffense)
	assert.True(t, got[0].Scored)
	assert.Equal(t, 1, got[0].PossessionsTotal)
	assert.Equal(t, 5, got[0].PassesTotal)

	assert.False(t, got[1].StartedOnOffense)
	assert.False(t, got[1].Scored)
	assert.Equal(t, 1, got[1].OurScoreAtPull)
	// empty cell on a short row coerces to zero
	assert.Equal(t, 0, got[1].BlocksTotal)
}

func TestReadPointsBadBool(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "points.csv",
		"Point,Started on offense?,Scored?,Our score at pull,Opponent's score at pull,Possessions,Passes,Turnovers,Defensive blocks\n"+
			"1,yes,1,0,0,1,5,0,0\n")

	_, err := ReadPoints(path)
	require.Error(t, err)

	var ce *CellError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Started on offense?", ce.Column)
	assert.Equal(t, "yes", ce.Value)
	assert.Equal(t, 1, ce.Row)
}

func TestReadPointsBadInt(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "points.csv",
		"Point,Started on offense?,Scored?,Our score at pull,Opponent's score at pull,Possessions,Passes,Turnovers,Defensive blocks\n"+
			"one,1,1,0,0,1,5,0,0\n")

	_, err := ReadPoints(path)
	require.Error(t, err)

	var ce *CellError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Point", ce.Column)
}

func TestReadPasses(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "passes.csv",
		"Point,Thrower,Receiver,Turnover?,Assist?,Secondary assist?,Huck?,Swing?,Dump?,Forward distance (m)\n"+
			"1,Ana,Ben,0,1,0,1,0,0,23.5\n"+
			"2,Ben,,1,0,0,0,0,0,-3.1\n")

	got, err := ReadPasses(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Ana", got[0].Thrower)
	assert.Equal(t, "Ben", got[0].Receiver)
	assert.True(t, got[0].Assist)
	assert.True(t, got[0].Huck)
	assert.InDelta(t, 23.5, got[0].ForwardDistanceM, 1e-9)

	assert.True(t, got[1].Turnover)
	assert.Empty(t, got[1].Receiver)
	assert.InDelta(t, -3.1, got[1].ForwardDistanceM, 1e-9)
}

func TestReadPassesBadFloat(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "passes.csv",
		"Point,Thrower,Receiver,Turnover?,Assist?,Secondary assist?,Huck?,Swing?,Dump?,Forward distance (m)\n"+
			"1,Ana,Ben,0,0,0,0,0,0,far\n")

	_, err := ReadPasses(path)
	require.Error(t, err)

	var ce *CellError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Forward distance (m)", ce.Column)
	assert.Equal(t, "far", ce.Value)
}

func TestReadBlocksEmptyTable(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "blocks.csv", "Point,Player\n")

	got, err := ReadBlocks(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadBlocks(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "blocks.csv", "Point,Player\n3,Cleo\n3,Cleo\n7,Ana\n")

	got, err := ReadBlocks(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 3, got[0].Point)
	assert.Equal(t, "Cleo", got[1].Player)
	assert.Equal(t, 7, got[2].Point)
}

func TestReadPossessions(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "poss.csv",
		"Point,Possession,Scored?\n1,1,1\n2,1,0\n2,2,1\n")

	got, err := ReadPossessions(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[2].Point)
	assert.Equal(t, 2, got[2].Index)
	assert.True(t, got[2].Scored)
}

func TestReadGame(t *testing.T) {
	dir := t.TempDir()
	paths := GamePaths{
		PlayerStats: writeCSV(t, dir, "players.csv", "Player,Points played\nAna,\"1, 2\"\nBen,1\n"),
		Points: writeCSV(t, dir, "points.csv",
			"Point,Started on offense?,Scored?,Our score at pull,Opponent's score at pull,Possessions,Passes,Turnovers,Defensive blocks\n"+
				"1,1,1,0,0,1,3,0,0\n"+
				"2,0,0,1,0,0,0,0,0\n"),
		Passes: writeCSV(t, dir, "passes.csv",
			"Point,Thrower,Receiver,Turnover?,Assist?,Secondary assist?,Huck?,Swing?,Dump?,Forward distance (m)\n"+
				"1,Ana,Ben,0,1,0,0,0,0,12.0\n"),
		Blocks:      writeCSV(t, dir, "blocks.csv", "Point,Player\n"),
		Possessions: writeCSV(t, dir, "poss.csv", "Point,Possession,Scored?\n1,1,1\n"),
	}

	in, err := ReadGame(paths)
	require.NoError(t, err)
	assert.Len(t, in.PlayerStats, 2)
	assert.Len(t, in.Points, 2)
	assert.Len(t, in.Passes, 1)
	assert.Empty(t, in.Blocks)
	assert.Len(t, in.Possessions, 1)
}

func TestReadGameMissingFileAborts(t *testing.T) {
	dir := t.TempDir()
	paths := GamePaths{
		PlayerStats: writeCSV(t, dir, "players.csv", "Player,Points played\nAna,1\n"),
		Points:      filepath.Join(dir, "missing.csv"),
	}

	_, err := ReadGame(paths)
	require.Error(t, err)

	var mfe *MissingFileError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, TablePoints, mfe.Table)
}
