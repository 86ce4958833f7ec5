package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/umaimaes/AgroTrace-MS/internal/domain"
	internal_errors "github.com/umaimaes/AgroTrace-MS/internal/errors"
)

// Reset-code ledger persistence. Each operation is a single SQL statement,
// so per-row consistency comes from Postgres itself. Rows are only ever
// appended or deleted wholesale per email; "most recent wins" is expressed
// as ORDER BY id DESC.

// SaveResetCode appends a new ledger entry. Prior entries for the same
// email are kept: several live codes may coexist.
func (s *Storage) SaveResetCode(email domain.Email, code string, expires time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveResetCode(tx, email, code, expires)
	})
}

// ResetCode fetches the most recently issued entry matching both email and
// code. Expiry is not checked here; that is the service's concern.
func (s *Storage) ResetCode(email domain.Email, code string) (domain.ResetCode, error) {
	return s.resetCode(s.db, "email = $1 AND code = $2", email, code)
}

// ResetCodeByCode fetches the most recently issued entry matching the code
// alone, regardless of email.
func (s *Storage) ResetCodeByCode(code string) (domain.ResetCode, error) {
	return s.resetCode(s.db, "code = $1", code)
}

// DeleteResetCodes removes every ledger entry for the email. Deleting zero
// rows is not an error.
func (s *Storage) DeleteResetCodes(email domain.Email) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM reset_codes WHERE email = $1", email)
		if err != nil {
			return fmt.Errorf("failed to delete reset codes: %w", err)
		}
		return nil
	})
}

func (s *Storage) saveResetCode(q Querier, email domain.Email, code string, expires time.Time) error {
	_, err := q.Exec("INSERT INTO reset_codes(email, code, expires_at) VALUES($1, $2, $3)",
		email, code, expires)
	if err != nil {
		return fmt.Errorf("failed to insert reset code: %w", err)
	}
	return nil
}

func (s *Storage) resetCode(q Querier, where string, args ...any) (domain.ResetCode, error) {
	var entry domain.ResetCode
	query := fmt.Sprintf(`
        SELECT id, email, code, (expires_at at time zone 'utc'), (created_at at time zone 'utc')
        FROM reset_codes WHERE %s ORDER BY id DESC LIMIT 1`, where)
	err := q.QueryRow(query, args...).Scan(&entry.Id, &entry.Email, &entry.Code, &entry.Expires, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ResetCode{}, &internal_errors.ErrorWithStatusCode{Message: "Reset code not found", StatusCode: http.StatusNotFound}
		}
		return domain.ResetCode{}, fmt.Errorf("failed to query reset code: %w", err)
	}
	return entry, nil
}
