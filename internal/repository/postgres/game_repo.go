package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dysencn/gomoku-naive/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// SaveGame stores a finished game and its engine moves in one transaction.
// Saving the same game twice replaces the earlier rows.
func (r *GameRepo) SaveGame(ctx context.Context, record *domain.GameRecord) error {
	movesJSON, err := json.Marshal(record.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}
	boardJSON, err := json.Marshal(record.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO games (game_id, username, human_color, difficulty, winner, winner_username, status, reason, total_moves, moves, board_state, created_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		winner_username = EXCLUDED.winner_username,
		status = EXCLUDED.status,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		moves = EXCLUDED.moves,
		board_state = EXCLUDED.board_state,
		finished_at = EXCLUDED.finished_at;
	`
	_, err = tx.ExecContext(ctx, query,
		record.GameID, record.Username, int(record.HumanColor), record.Difficulty,
		int(record.Winner), record.WinnerUsername, string(record.Status), record.Reason,
		record.TotalMoves, string(movesJSON), string(boardJSON), record.CreatedAt, record.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ai_moves WHERE game_id = $1;`, record.GameID); err != nil {
		return fmt.Errorf("failed to clear ai moves: %w", err)
	}

	if len(record.AIMoves) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ai_moves (game_id, ply, row_index, col_index, score, nodes, prunings, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare ai move insert: %w", err)
		}
		defer stmt.Close()

		for _, m := range record.AIMoves {
			_, err := stmt.ExecContext(ctx, record.GameID, m.Ply, m.Move.Row, m.Move.Col,
				m.Score, m.Nodes, m.Prunings, m.DurationMs)
			if err != nil {
				return fmt.Errorf("failed to insert ai move %d: %w", m.Ply, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const selectGame = `
	SELECT game_id, username, human_color, difficulty, winner, winner_username,
	       status, reason, total_moves, moves, board_state, created_at, finished_at
	FROM games
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (*domain.GameRecord, error) {
	var (
		result               domain.GameRecord
		humanColor, winner   int
		status               string
		movesJSON, boardJSON []byte
	)
	err := row.Scan(
		&result.GameID,
		&result.Username,
		&humanColor,
		&result.Difficulty,
		&winner,
		&result.WinnerUsername,
		&status,
		&result.Reason,
		&result.TotalMoves,
		&movesJSON,
		&boardJSON,
		&result.CreatedAt,
		&result.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	result.HumanColor = domain.PlayerID(humanColor)
	result.Winner = domain.PlayerID(winner)
	result.Status = domain.GameStatus(status)
	if err := json.Unmarshal(movesJSON, &result.Moves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
	}
	if boardJSON != nil {
		if err := json.Unmarshal(boardJSON, &result.Board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
		}
	}
	return &result, nil
}

// GetGameByID returns the game with its engine moves, or
// domain.ErrGameNotFound.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	result, err := scanGame(r.DB.QueryRowContext(ctx, selectGame+` WHERE game_id = $1;`, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT ply, row_index, col_index, score, nodes, prunings, duration_ms
	FROM ai_moves
	WHERE game_id = $1
	ORDER BY ply;
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ai moves: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.AIMoveRecord
		if err := rows.Scan(&m.Ply, &m.Move.Row, &m.Move.Col, &m.Score, &m.Nodes, &m.Prunings, &m.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan ai move: %w", err)
		}
		result.AIMoves = append(result.AIMoves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ai moves: %w", err)
	}
	return result, nil
}

// GetRecentGames lists finished games, newest first. An empty username
// lists every player's games.
func (r *GameRepo) GetRecentGames(ctx context.Context, username string, limit int) ([]domain.GameRecord, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if username == "" {
		rows, err = r.DB.QueryContext(ctx, selectGame+` ORDER BY finished_at DESC LIMIT $1;`, limit)
	} else {
		rows, err = r.DB.QueryContext(ctx, selectGame+` WHERE username = $1 ORDER BY finished_at DESC LIMIT $2;`, username, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := make([]domain.GameRecord, 0)
	for rows.Next() {
		result, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game history: %w", err)
	}
	return games, nil
}
