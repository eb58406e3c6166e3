package storage

import "github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"

// GetAllPlayerPointRows returns the season-level fact table: every game's
// rows concatenated in sorted game order, then (point, player) within each
// game, matching the batch driver's per-game append order.
func (db *DB) GetAllPlayerPointRows() ([]model.PlayerPointRow, error) {
	rows, err := db.conn.Query(
		"SELECT " + playerPointCols + " FROM player_point_rows ORDER BY game_id, point, player")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayerPointRows(rows)
}

// GetAllPointSummaries returns the season-level point summary table in the
// same game-then-point order.
func (db *DB) GetAllPointSummaries() ([]model.PointSummaryRow, error) {
	rows, err := db.conn.Query(
		"SELECT " + pointSummaryCols + " FROM point_summaries ORDER BY game_id, point")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPointSummaries(rows)
}
