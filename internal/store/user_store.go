package store

import (
	"context"

	"cashbook/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, user models.User) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, password_hash)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.Email, user.DisplayName, user.PasswordHash)
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, display_name, password_hash, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, display_name, created_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}
