package store

import (
	"context"

	"cashbook/internal/models"
)

type CategoryStore struct {
	db DB
}

func NewCategoryStore(db DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Create(ctx context.Context, tx Execer, category models.Category) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO categories (id, book_id, name, color)
		VALUES ($1, $2, $3, $4)
	`, category.ID, category.BookID, category.Name, category.Color)
	return err
}

func (s *CategoryStore) ListByBook(ctx context.Context, bookID string) ([]models.Category, error) {
	var rows []models.Category
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, book_id, name, color, created_at
		FROM categories
		WHERE book_id = $1
		ORDER BY name ASC
	`, bookID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CategoryStore) GetByID(ctx context.Context, categoryID string) (models.Category, error) {
	var row models.Category
	err := s.db.GetContext(ctx, &row, `
		SELECT id, book_id, name, color, created_at
		FROM categories
		WHERE id = $1
	`, categoryID)
	if err != nil {
		return models.Category{}, err
	}
	return row, nil
}

// FindByName matches names case-insensitively within one book.
func (s *CategoryStore) FindByName(ctx context.Context, tx Getter, bookID, name string) (models.Category, error) {
	var row models.Category
	err := tx.GetContext(ctx, &row, `
		SELECT id, book_id, name, color, created_at
		FROM categories
		WHERE book_id = $1 AND lower(name) = lower($2)
	`, bookID, name)
	if err != nil {
		return models.Category{}, err
	}
	return row, nil
}

// Delete removes only the category row; entries pointing at it are kept.
func (s *CategoryStore) Delete(ctx context.Context, tx Execer, bookID, categoryID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND book_id = $2`, categoryID, bookID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *CategoryStore) DeleteByBook(ctx context.Context, tx Execer, bookID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE book_id = $1`, bookID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
