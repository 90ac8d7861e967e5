package store

import (
	"context"
	"time"

	"cashbook/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

const entryColumns = `id, seq, book_id, category_id, type, amount, description, payment_mode, date, notes, running_balance, created_at, updated_at`

type EntryStore struct {
	db DB
}

func NewEntryStore(db DB) *EntryStore {
	return &EntryStore{db: db}
}

// Insert writes the entry and returns it with its creation sequence and
// timestamps filled in.
func (s *EntryStore) Insert(ctx context.Context, tx Getter, entry models.Entry) (models.Entry, error) {
	var row models.Entry
	err := tx.GetContext(ctx, &row, `
		INSERT INTO entries (id, book_id, category_id, type, amount, description, payment_mode, date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+entryColumns,
		entry.ID, entry.BookID, entry.CategoryID, entry.Type, entry.Amount, entry.Description, entry.PaymentMode, entry.Date, entry.Notes)
	if err != nil {
		return models.Entry{}, err
	}
	return row, nil
}

// Update overwrites the mutable fields. sql.ErrNoRows means the entry is not
// in the book.
func (s *EntryStore) Update(ctx context.Context, tx Getter, entry models.Entry) (models.Entry, error) {
	var row models.Entry
	err := tx.GetContext(ctx, &row, `
		UPDATE entries
		SET category_id = $1, type = $2, amount = $3, description = $4, payment_mode = $5, date = $6, notes = $7, updated_at = NOW()
		WHERE id = $8 AND book_id = $9
		RETURNING `+entryColumns,
		entry.CategoryID, entry.Type, entry.Amount, entry.Description, entry.PaymentMode, entry.Date, entry.Notes, entry.ID, entry.BookID)
	if err != nil {
		return models.Entry{}, err
	}
	return row, nil
}

func (s *EntryStore) Delete(ctx context.Context, tx Execer, bookID, entryID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE id = $1 AND book_id = $2`, entryID, bookID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *EntryStore) DeleteByBook(ctx context.Context, tx Execer, bookID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE book_id = $1`, bookID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListChronological returns every entry of the book oldest first, ties broken
// by creation sequence.
func (s *EntryStore) ListChronological(ctx context.Context, tx Selecter, bookID string) ([]models.Entry, error) {
	var rows []models.Entry
	err := tx.SelectContext(ctx, &rows, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE book_id = $1
		ORDER BY date ASC, seq ASC
	`, bookID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *EntryStore) SetRunningBalance(ctx context.Context, tx Execer, entryID string, balance decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE entries
		SET running_balance = $1
		WHERE id = $2
	`, balance, entryID)
	return err
}

// ListViews returns the book's entries with category labels, oldest first.
func (s *EntryStore) ListViews(ctx context.Context, bookID string) ([]models.EntryView, error) {
	var rows []models.EntryView
	err := s.db.SelectContext(ctx, &rows, `
		SELECT e.id, e.seq, e.book_id, e.category_id, e.type, e.amount, e.description, e.payment_mode,
		       e.date, e.notes, e.running_balance, e.created_at, e.updated_at,
		       COALESCE(c.name, 'Uncategorized') AS category_name,
		       COALESCE(c.color, '') AS category_color
		FROM entries e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.book_id = $1
		ORDER BY e.date ASC, e.seq ASC
	`, bookID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type EntryFilter struct {
	UserID      string
	BookID      string
	Type        string
	CategoryID  string
	PaymentMode string
	From        *time.Time
	To          *time.Time
	Query       string
	Limit       int
	Offset      int
}

// Search lists entries across the user's books, newest first.
func (s *EntryStore) Search(ctx context.Context, filter EntryFilter) ([]models.EntryView, error) {
	query, args, err := searchQuery(filter).ToSql()
	if err != nil {
		return nil, err
	}
	var rows []models.EntryView
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func searchQuery(filter EntryFilter) sq.SelectBuilder {
	builder := sq.Select(
		"e.id", "e.seq", "e.book_id", "e.category_id", "e.type", "e.amount", "e.description", "e.payment_mode",
		"e.date", "e.notes", "e.running_balance", "e.created_at", "e.updated_at",
		"COALESCE(c.name, 'Uncategorized') AS category_name",
		"COALESCE(c.color, '') AS category_color",
	).
		From("entries e").
		Join("books b ON b.id = e.book_id").
		LeftJoin("categories c ON c.id = e.category_id").
		Where(sq.Eq{"b.user_id": filter.UserID}).
		OrderBy("e.date DESC", "e.seq DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.BookID != "" {
		builder = builder.Where(sq.Eq{"e.book_id": filter.BookID})
	}
	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"e.type": filter.Type})
	}
	if filter.CategoryID != "" {
		builder = builder.Where(sq.Eq{"e.category_id": filter.CategoryID})
	}
	if filter.PaymentMode != "" {
		builder = builder.Where(sq.Eq{"e.payment_mode": filter.PaymentMode})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"e.date": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"e.date": *filter.To})
	}
	if filter.Query != "" {
		builder = builder.Where(sq.ILike{"e.description": "%" + filter.Query + "%"})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	return builder
}
