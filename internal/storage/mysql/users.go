package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sdvn-backend/internal/storage"
)

// GetUserByCredentials does a plain equality check against the users table,
// same as the dashboard has always worked. Returns nil when no match.
func (s *Storage) GetUserByCredentials(ctx context.Context, username, password string) (*storage.User, error) {
	const op = "storage.users.GetUserByCredentials.sql"

	stmt := `
		SELECT id, username, full_name
		FROM users
		WHERE username = ? AND password = ?
		LIMIT 1
	`

	var user storage.User
	err := s.db.QueryRowContext(ctx, stmt, username, password).Scan(&user.ID, &user.Username, &user.FullName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (s *Storage) UserExists(ctx context.Context, username string) (bool, error) {
	const op = "storage.users.UserExists.sql"

	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ? LIMIT 1`, username,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func (s *Storage) InsertUser(ctx context.Context, username, password, fullName string) error {
	const op = "storage.users.InsertUser.sql"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password, full_name) VALUES (?, ?, ?)`,
		username, password, fullName,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
