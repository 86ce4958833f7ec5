package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/umaimaes/AgroTrace-MS/internal/domain"
	internal_errors "github.com/umaimaes/AgroTrace-MS/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service.Storage interface)
// =========================================================================

// SaveUser is the public entry point for creating a new user. It wraps the
// core logic in a transaction to ensure the operation is atomic.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

// User is a public, read-only method to fetch a user by their email. It uses
// the main database connection pool for efficiency.
func (s *Storage) User(email domain.Email) (domain.User, error) {
	return s.user(s.db, email)
}

// UpdatePassword is the public entry point for changing a user's password
// digest. It manages the transaction for this security-sensitive operation.
func (s *Storage) UpdatePassword(email domain.Email, passHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updatePassword(tx, email, passHash)
	})
}

// Users returns all user records ordered by id.
func (s *Storage) Users() ([]domain.User, error) {
	return s.users(s.db)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

// saveUser contains the core logic for inserting a new user record.
func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id int64
	err := q.QueryRow(`
        INSERT INTO users(firstname, lastname, email, tel, localisation_id, captors_id, password_hash)
        VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		user.FirstName, user.LastName, user.Email, user.Phone, user.LocalisationId, user.CaptorsId, user.PassHash,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return -1, &internal_errors.ErrorWithStatusCode{Message: "Email already registered", StatusCode: http.StatusConflict}
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// user contains the core logic for fetching a single user record by email.
func (s *Storage) user(q Querier, email domain.Email) (domain.User, error) {
	var user domain.User
	err := q.QueryRow(`
        SELECT id, firstname, lastname, email, tel, localisation_id, captors_id, password_hash, created_at
        FROM users WHERE email = $1`,
		email,
	).Scan(&user.Id, &user.FirstName, &user.LastName, &user.Email, &user.Phone,
		&user.LocalisationId, &user.CaptorsId, &user.PassHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// updatePassword contains the core logic for updating a user's password hash.
func (s *Storage) updatePassword(q Querier, email domain.Email, passHash string) error {
	result, err := q.Exec("UPDATE users SET password_hash = $1 WHERE email = $2", passHash, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for password update: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found for password update", StatusCode: http.StatusNotFound}
	}
	return nil
}

// users contains the core logic for listing all user records.
func (s *Storage) users(q Querier) ([]domain.User, error) {
	rows, err := q.Query(`
        SELECT id, firstname, lastname, email, tel, localisation_id, captors_id, password_hash, created_at
        FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.Id, &user.FirstName, &user.LastName, &user.Email, &user.Phone,
			&user.LocalisationId, &user.CaptorsId, &user.PassHash, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
