package store

import (
	"context"

	"cashbook/internal/models"

	"github.com/shopspring/decimal"
)

type BookStore struct {
	db DB
}

func NewBookStore(db DB) *BookStore {
	return &BookStore{db: db}
}

// overviewColumns computes balance from the entries rather than trusting the
// stored column, so a stale balance never reaches a caller.
const overviewColumns = `
	b.id, b.user_id, b.name, b.description, b.currency, b.created_at, b.updated_at,
	COALESCE(SUM(CASE WHEN e.type = 'income' THEN e.amount ELSE -e.amount END), 0) AS balance,
	COUNT(e.id) AS entry_count,
	GREATEST(b.updated_at, COALESCE(MAX(e.updated_at), b.updated_at)) AS last_updated
`

func (s *BookStore) Create(ctx context.Context, tx Execer, book models.Book) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO books (id, user_id, name, description, currency, balance)
		VALUES ($1, $2, $3, $4, $5, 0)
	`, book.ID, book.UserID, book.Name, book.Description, book.Currency)
	return err
}

// ListByUser returns the user's books, most recently created first.
func (s *BookStore) ListByUser(ctx context.Context, userID string) ([]models.BookOverview, error) {
	var rows []models.BookOverview
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+overviewColumns+`
		FROM books b
		LEFT JOIN entries e ON e.book_id = b.id
		WHERE b.user_id = $1
		GROUP BY b.id
		ORDER BY b.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BookStore) GetByID(ctx context.Context, bookID string) (models.BookOverview, error) {
	var row models.BookOverview
	err := s.db.GetContext(ctx, &row, `
		SELECT `+overviewColumns+`
		FROM books b
		LEFT JOIN entries e ON e.book_id = b.id
		WHERE b.id = $1
		GROUP BY b.id
	`, bookID)
	if err != nil {
		return models.BookOverview{}, err
	}
	return row, nil
}

// GetForUpdate locks the book row for the rest of the transaction. Every
// balance recompute takes this lock first.
func (s *BookStore) GetForUpdate(ctx context.Context, tx Getter, bookID string) (models.Book, error) {
	var row models.Book
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, name, description, currency, balance, created_at, updated_at
		FROM books
		WHERE id = $1
		FOR UPDATE
	`, bookID)
	if err != nil {
		return models.Book{}, err
	}
	return row, nil
}

func (s *BookStore) Update(ctx context.Context, tx Execer, book models.Book) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE books
		SET name = $1, description = $2, currency = $3, updated_at = NOW()
		WHERE id = $4
	`, book.Name, book.Description, book.Currency, book.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *BookStore) SetBalance(ctx context.Context, tx Execer, bookID string, balance decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE books
		SET balance = $1
		WHERE id = $2
	`, balance, bookID)
	return err
}

func (s *BookStore) Delete(ctx context.Context, tx Execer, bookID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, bookID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
