package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"siruang/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.Role, now, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.getUser(ctx, "email = ?", email)
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.getUser(ctx, "id = ?", id)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	err := db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM users WHERE `+where, arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role,
		&user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (db *DB) ListUsersByRole(ctx context.Context, role string) ([]*models.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM users WHERE role = ? ORDER BY created_at DESC`, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
			&u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
