package storage

import (
	"database/sql"
	"fmt"

	"github.com/Leo3Lee/ultimate-frisbee-analytics/internal/model"
)

// GameExists returns true if a game with the given id is already stored.
func (db *DB) GameExists(gameID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE game_id = ?", gameID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertGame inserts a game record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertGame(s model.GameSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO games(game_id, points_total, players_total, our_score, opp_score, holds, breaks, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.GameID, s.PointsTotal, s.PlayersTotal, s.OurScore, s.OppScore,
		s.Holds, s.Breaks, s.ImportedAt,
	)
	return err
}

// InsertPlayerPointRows bulk-inserts fact rows in a transaction.
func (db *DB) InsertPlayerPointRows(rows []model.PlayerPointRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_point_rows(
			game_id, point_uid, team_line, player, point,
			touches, throws, completions, assists, secondary_assists,
			goals, turnovers, blocks, pulls, yards_gain_m,
			score_diff_start, point_result,
			num_possessions, clean_hold, hold, broken, break_scored, break_chance,
			hucks, swings, dumps
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.GameID, r.PointUID, r.TeamLine, r.Player, r.Point,
			r.Touches, r.Throws, r.Completions, r.Assists, r.SecondaryAssists,
			r.Goals, r.Turnovers, r.Blocks, r.Pulls, r.YardsGainM,
			r.ScoreDiffStart, r.PointResult,
			r.NumPossessions, r.CleanHold, r.Hold, r.Broken, r.BreakScored, r.BreakChance,
			r.Hucks, r.Swings, r.Dumps,
		)
		if err != nil {
			return fmt.Errorf("insert player_point_rows for %s/%s: %w", r.PointUID, r.Player, err)
		}
	}
	return tx.Commit()
}

// InsertPointSummaries bulk-inserts point summary rows in a transaction.
func (db *DB) InsertPointSummaries(rows []model.PointSummaryRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO point_summaries(
			game_id, point_uid, point, team_line, point_result,
			our_score_start, opp_score_start,
			possessions_total, passes_total, turnovers_total, blocks_total,
			num_possessions, first_possession_scored, any_possession_scored,
			clean_hold, hold, broken, break_scored, break_chance
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range rows {
		_, err = stmt.Exec(
			s.GameID, s.PointUID, s.Point, s.TeamLine, s.PointResult,
			s.OurScoreStart, s.OppScoreStart,
			s.PossessionsTotal, s.PassesTotal, s.TurnoversTotal, s.BlocksTotal,
			s.NumPossessions, s.FirstPossessionScored, s.AnyPossessionScored,
			s.CleanHold, s.Hold, s.Broken, s.BreakScored, s.BreakChance,
		)
		if err != nil {
			return fmt.Errorf("insert point_summaries for %s: %w", s.PointUID, err)
		}
	}
	return tx.Commit()
}

const gameCols = "game_id, points_total, players_total, our_score, opp_score, holds, breaks, imported_at"

func scanGame(row interface{ Scan(...any) error }) (model.GameSummary, error) {
	var g model.GameSummary
	err := row.Scan(&g.GameID, &g.PointsTotal, &g.PlayersTotal,
		&g.OurScore, &g.OppScore, &g.Holds, &g.Breaks, &g.ImportedAt)
	return g, err
}

// ListGames returns all stored games in sorted game_id order, the same
// order the batch driver processes them in.
func (db *DB) ListGames() ([]model.GameSummary, error) {
	rows, err := db.conn.Query("SELECT " + gameCols + " FROM games ORDER BY game_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGameByPrefix returns the first game whose id starts with the prefix,
// or nil when none matches.
func (db *DB) GetGameByPrefix(prefix string) (*model.GameSummary, error) {
	row := db.conn.QueryRow(
		"SELECT "+gameCols+" FROM games WHERE game_id LIKE ? ORDER BY game_id LIMIT 1",
		prefix+"%")
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

const playerPointCols = `game_id, point_uid, team_line, player, point,
	touches, throws, completions, assists, secondary_assists,
	goals, turnovers, blocks, pulls, yards_gain_m,
	score_diff_start, point_result,
	num_possessions, clean_hold, hold, broken, break_scored, break_chance,
	hucks, swings, dumps`

func scanPlayerPointRows(rows *sql.Rows) ([]model.PlayerPointRow, error) {
	var out []model.PlayerPointRow
	for rows.Next() {
		var r model.PlayerPointRow
		err := rows.Scan(
			&r.GameID, &r.PointUID, &r.TeamLine, &r.Player, &r.Point,
			&r.Touches, &r.Throws, &r.Completions, &r.Assists, &r.SecondaryAssists,
			&r.Goals, &r.Turnovers, &r.Blocks, &r.Pulls, &r.YardsGainM,
			&r.ScoreDiffStart, &r.PointResult,
			&r.NumPossessions, &r.CleanHold, &r.Hold, &r.Broken, &r.BreakScored, &r.BreakChance,
			&r.Hucks, &r.Swings, &r.Dumps,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetPlayerPointRows returns the fact rows of one game ordered by (point, player).
func (db *DB) GetPlayerPointRows(gameID string) ([]model.PlayerPointRow, error) {
	rows, err := db.conn.Query(
		"SELECT "+playerPointCols+" FROM player_point_rows WHERE game_id = ? ORDER BY point, player",
		gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayerPointRows(rows)
}

const pointSummaryCols = `game_id, point_uid, point, team_line, point_result,
	our_score_start, opp_score_start,
	possessions_total, passes_total, turnovers_total, blocks_total,
	num_possessions, first_possession_scored, any_possession_scored,
	clean_hold, hold, broken, break_scored, break_chance`

func scanPointSummaries(rows *sql.Rows) ([]model.PointSummaryRow, error) {
	var out []model.PointSummaryRow
	for rows.Next() {
		var s model.PointSummaryRow
		err := rows.Scan(
			&s.GameID, &s.PointUID, &s.Point, &s.TeamLine, &s.PointResult,
			&s.OurScoreStart, &s.OppScoreStart,
			&s.PossessionsTotal, &s.PassesTotal, &s.TurnoversTotal, &s.BlocksTotal,
			&s.NumPossessions, &s.FirstPossessionScored, &s.AnyPossessionScored,
			&s.CleanHold, &s.Hold, &s.Broken, &s.BreakScored, &s.BreakChance,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetPointSummaries returns the point summary rows of one game ordered by point.
func (db *DB) GetPointSummaries(gameID string) ([]model.PointSummaryRow, error) {
	rows, err := db.conn.Query(
		"SELECT "+pointSummaryCols+" FROM point_summaries WHERE game_id = ? ORDER BY point",
		gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPointSummaries(rows)
}

const seasonTotalsQuery = `
	SELECT player,
	       COUNT(DISTINCT game_id)                                AS games,
	       COUNT(*)                                               AS points,
	       SUM(touches), SUM(throws), SUM(completions),
	       SUM(assists), SUM(goals), SUM(turnovers), SUM(blocks),
	       SUM(yards_gain_m),
	       SUM(CASE WHEN team_line = 'O' THEN 1 ELSE 0 END)       AS o_points,
	       SUM(CASE WHEN team_line = 'O' THEN hold ELSE 0 END)    AS hold_points
	FROM player_point_rows`

func scanSeasonTotals(rows *sql.Rows) ([]model.PlayerSeasonTotals, error) {
	var out []model.PlayerSeasonTotals
	for rows.Next() {
		var t model.PlayerSeasonTotals
		err := rows.Scan(&t.Player, &t.Games, &t.Points,
			&t.Touches, &t.Throws, &t.Completions,
			&t.Assists, &t.Goals, &t.Turnovers, &t.Blocks,
			&t.YardsGainM, &t.OPoints, &t.HoldPoints)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetSeasonTotals returns every player's stats summed across all stored
// games, ordered by goals+assists then touches descending.
func (db *DB) GetSeasonTotals() ([]model.PlayerSeasonTotals, error) {
	rows, err := db.conn.Query(seasonTotalsQuery +
		" GROUP BY player ORDER BY SUM(goals) + SUM(assists) DESC, SUM(touches) DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeasonTotals(rows)
}

// GetPlayerTotals returns one player's cross-game totals, or nil when the
// player has no stored rows.
func (db *DB) GetPlayerTotals(player string) (*model.PlayerSeasonTotals, error) {
	rows, err := db.conn.Query(seasonTotalsQuery+" WHERE player = ? GROUP BY player", player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	totals, err := scanSeasonTotals(rows)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, nil
	}
	return &totals[0], nil
}

// PlayerGameLogRow is one game's totals for one player.
type PlayerGameLogRow struct {
	GameID     string
	Points     int
	Touches    int
	Throws     int
	Goals      int
	Assists    int
	Turnovers  int
	Blocks     int
	YardsGainM float64
}

// GetPlayerGameLog returns per-game totals for one player in sorted game order.
func (db *DB) GetPlayerGameLog(player string) ([]PlayerGameLogRow, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, COUNT(*), SUM(touches), SUM(throws),
		       SUM(goals), SUM(assists), SUM(turnovers), SUM(blocks), SUM(yards_gain_m)
		FROM player_point_rows
		WHERE player = ?
		GROUP BY game_id
		ORDER BY game_id`, player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerGameLogRow
	for rows.Next() {
		var r PlayerGameLogRow
		err := rows.Scan(&r.GameID, &r.Points, &r.Touches, &r.Throws,
			&r.Goals, &r.Assists, &r.Turnovers, &r.Blocks, &r.YardsGainM)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Overview is a high-level snapshot of the whole database for the summary command.
type Overview struct {
	TotalGames    int
	TotalPoints   int
	UniquePlayers int
	OurScore      int
	OppScore      int
	Holds         int
	Breaks        int
	FirstGame     string
	LastGame      string
}

// GetOverview computes the database overview.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(points_total), 0),
		       COALESCE(SUM(our_score), 0),
		       COALESCE(SUM(opp_score), 0),
		       COALESCE(SUM(holds), 0),
		       COALESCE(SUM(breaks), 0),
		       COALESCE(MIN(game_id), ''),
		       COALESCE(MAX(game_id), '')
		FROM games`).Scan(
		&ov.TotalGames, &ov.TotalPoints, &ov.OurScore, &ov.OppScore,
		&ov.Holds, &ov.Breaks, &ov.FirstGame, &ov.LastGame)
	if err != nil {
		return ov, err
	}
	err = db.conn.QueryRow("SELECT COUNT(DISTINCT player) FROM player_point_rows").
		Scan(&ov.UniquePlayers)
	return ov, err
}

// QueryRaw runs an arbitrary query and returns column names plus stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range raw {
			switch x := v.(type) {
			case nil:
				rec[i] = ""
			case []byte:
				rec[i] = string(x)
			default:
				rec[i] = fmt.Sprintf("%v", x)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}
