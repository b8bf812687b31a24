package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskmaster/internal/models"
)

var userColumns = []string{"id", "name", "email", "password_hash", "created_at"}

// CreateUser inserts a user and returns its id. A duplicate email yields ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error) {
	query, args, err := s.sb.Insert("users").
		Columns("name", "email", "password_hash").
		Values(name, email, passwordHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// GetUserByEmail looks a user up by exact email match.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query, args, err := s.sb.Select(userColumns...).
		From("users").
		Where("email = ?", email).
		ToSql()
	if err != nil {
		return models.User{}, err
	}

	var u models.User
	err = s.db.GetContext(ctx, &u, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// EmailTaken reports whether a user with email is already registered.
func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	query, args, err := s.sb.Select("COUNT(*)").
		From("users").
		Where("email = ?", email).
		ToSql()
	if err != nil {
		return false, err
	}

	var n int
	if err := s.db.GetContext(ctx, &n, query, args...); err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}
