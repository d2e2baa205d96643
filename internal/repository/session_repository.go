package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/apperrors"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
)

// SessionRepository provides data access methods for the editor_session and
// editor_row tables. It persists in-progress manual edits across requests;
// the spreadsheet itself is never written to.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the provided database connection.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession inserts a new editor session.
func (s *SessionRepository) CreateSession(session model.EditorSession) error {
	query := `
          INSERT INTO editor_session (id, created_at, updated_at)
          VALUES (?, ?, ?)
      `
	_, err := s.db.Exec(query, session.ID, session.CreatedAt.UTC(), session.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert editor session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID. Returns apperrors.ErrSessionNotFound
// when it does not exist or has already been purged.
func (s *SessionRepository) GetSession(sessionID string) (model.EditorSession, error) {
	query := `
          SELECT id, created_at, updated_at
          FROM editor_session
          WHERE id = ?
      `
	var session model.EditorSession

	err := s.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return model.EditorSession{}, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return model.EditorSession{}, fmt.Errorf("failed to query editor session: %w", err)
	}

	return session, nil
}

// ReplaceRows swaps the session's stored rows for the given set in a single
// transaction and bumps the session's updated_at timestamp. Row order is
// preserved via the position column.
func (s *SessionRepository) ReplaceRows(sessionID string, rows []model.Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM editor_row WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to clear editor rows: %w", err)
	}

	insert := `
          INSERT INTO editor_row (
              id, session_id, position, as_of_date, owner, broker, category,
              instrument_name, theme, principal, market_value, unrealized_gain
          ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
      `
	for i, r := range rows {
		_, err := tx.Exec(insert,
			uuid.NewString(),
			sessionID,
			i,
			r.AsOfDate.Format("2006-01-02"),
			r.Owner,
			r.Broker,
			r.Category,
			r.InstrumentName,
			r.Theme,
			r.Principal,
			r.MarketValue,
			r.UnrealizedGain,
		)
		if err != nil {
			return fmt.Errorf("failed to insert editor row: %w", err)
		}
	}

	touch := "UPDATE editor_session SET updated_at = ? WHERE id = ?"
	if _, err := tx.Exec(touch, time.Now().UTC(), sessionID); err != nil {
		return fmt.Errorf("failed to touch editor session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit editor rows: %w", err)
	}
	return nil
}

// GetRows retrieves the session's stored rows in insertion order.
// Returns an empty slice when the session holds no rows.
func (s *SessionRepository) GetRows(sessionID string) ([]model.Row, error) {
	query := `
          SELECT as_of_date, owner, broker, category, instrument_name, theme,
                 principal, market_value, unrealized_gain
          FROM editor_row
          WHERE session_id = ?
          ORDER BY position
      `
	rows, err := s.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query editor rows: %w", err)
	}
	defer rows.Close()

	result := []model.Row{}

	for rows.Next() {
		var r model.Row
		var asOfDate string

		err := rows.Scan(
			&asOfDate,
			&r.Owner,
			&r.Broker,
			&r.Category,
			&r.InstrumentName,
			&r.Theme,
			&r.Principal,
			&r.MarketValue,
			&r.UnrealizedGain,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan editor row: %w", err)
		}

		r.AsOfDate, err = ParseTime(asOfDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored editor row date: %w", err)
		}

		result = append(result, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating editor rows: %w", err)
	}

	return result, nil
}

// DeleteRows removes all stored rows for the session, returning the editor
// to its empty state. The session itself is kept.
func (s *SessionRepository) DeleteRows(sessionID string) error {
	if _, err := s.db.Exec("DELETE FROM editor_row WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete editor rows: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose updated_at is older than cutoff,
// cascading to their rows. Returns the number of sessions removed.
func (s *SessionRepository) DeleteExpired(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec("DELETE FROM editor_session WHERE updated_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired editor sessions: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted editor sessions: %w", err)
	}
	return count, nil
}
