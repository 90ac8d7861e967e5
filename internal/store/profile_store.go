package store

import (
	"context"

	"cashbook/internal/models"
)

type ProfileStore struct {
	db DB
}

func NewProfileStore(db DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) Create(ctx context.Context, tx Execer, userID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

func (s *ProfileStore) GetByUser(ctx context.Context, userID string) (models.UserProfile, error) {
	var row models.UserProfile
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, whatsapp_phone, bio, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return row, nil
}

// GetByWhatsAppPhone finds the profile linked to phone. The phone is stored
// without any transport prefix, e.g. "+919876543210".
func (s *ProfileStore) GetByWhatsAppPhone(ctx context.Context, phone string) (models.UserProfile, error) {
	var row models.UserProfile
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, whatsapp_phone, bio, updated_at
		FROM user_profiles
		WHERE whatsapp_phone = $1
	`, phone)
	if err != nil {
		return models.UserProfile{}, err
	}
	return row, nil
}

// SetWhatsAppPhone links (or, with nil, unlinks) a phone number.
func (s *ProfileStore) SetWhatsAppPhone(ctx context.Context, tx Execer, userID string, phone *string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, whatsapp_phone, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET whatsapp_phone = EXCLUDED.whatsapp_phone, updated_at = NOW()
	`, userID, phone)
	return err
}
