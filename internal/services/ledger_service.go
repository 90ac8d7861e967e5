package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"cashbook/internal/db"
	"cashbook/internal/ledger"
	"cashbook/internal/models"
	"cashbook/internal/money"
	"cashbook/internal/store"
	"cashbook/internal/validator"
	"cashbook/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrInvalidEntryType   = errors.New("entry type must be income or expense")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidPaymentMode = errors.New("invalid payment mode")
	ErrDuplicateBook      = errors.New("a book with this name already exists")
	ErrDuplicateCategory  = errors.New("a category with this name already exists")
)

// CategoryPalette is the set of colors assigned to categories created without one.
var CategoryPalette = []string{"#ef4444", "#f97316", "#f59e0b", "#10b981", "#3b82f6", "#6366f1", "#8b5cf6", "#ec4899"}

const DefaultCurrency = "INR"

type BookStore interface {
	Create(ctx context.Context, tx store.Execer, book models.Book) error
	ListByUser(ctx context.Context, userID string) ([]models.BookOverview, error)
	GetByID(ctx context.Context, bookID string) (models.BookOverview, error)
	GetForUpdate(ctx context.Context, tx store.Getter, bookID string) (models.Book, error)
	Update(ctx context.Context, tx store.Execer, book models.Book) (int64, error)
	SetBalance(ctx context.Context, tx store.Execer, bookID string, balance decimal.Decimal) error
	Delete(ctx context.Context, tx store.Execer, bookID string) (int64, error)
}

type CategoryStore interface {
	Create(ctx context.Context, tx store.Execer, category models.Category) error
	ListByBook(ctx context.Context, bookID string) ([]models.Category, error)
	GetByID(ctx context.Context, categoryID string) (models.Category, error)
	FindByName(ctx context.Context, tx store.Getter, bookID, name string) (models.Category, error)
	Delete(ctx context.Context, tx store.Execer, bookID, categoryID string) (int64, error)
	DeleteByBook(ctx context.Context, tx store.Execer, bookID string) (int64, error)
}

type EntryStore interface {
	Insert(ctx context.Context, tx store.Getter, entry models.Entry) (models.Entry, error)
	Update(ctx context.Context, tx store.Getter, entry models.Entry) (models.Entry, error)
	Delete(ctx context.Context, tx store.Execer, bookID, entryID string) (int64, error)
	DeleteByBook(ctx context.Context, tx store.Execer, bookID string) (int64, error)
	ListChronological(ctx context.Context, tx store.Selecter, bookID string) ([]models.Entry, error)
	SetRunningBalance(ctx context.Context, tx store.Execer, entryID string, balance decimal.Decimal) error
	ListViews(ctx context.Context, bookID string) ([]models.EntryView, error)
	Search(ctx context.Context, filter store.EntryFilter) ([]models.EntryView, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BookBalance)
}

// LedgerService owns books, categories and entries. Every entry mutation and
// the full balance recompute it triggers commit in one transaction.
type LedgerService struct {
	txRunner   db.TxRunner
	books      BookStore
	categories CategoryStore
	entries    EntryStore
	audit      AuditStore
	hub        BalanceHub
	logger     *zap.Logger
	now        func() time.Time
	loc        *time.Location
	pickColor  func() string
}

func NewLedgerService(txRunner db.TxRunner, books BookStore, categories CategoryStore, entries EntryStore, audit AuditStore, hub BalanceHub, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		txRunner:   txRunner,
		books:      books,
		categories: categories,
		entries:    entries,
		audit:      audit,
		hub:        hub,
		logger:     logger,
		now:        time.Now,
		loc:        time.UTC,
		pickColor: func() string {
			return CategoryPalette[rand.Intn(len(CategoryPalette))]
		},
	}
}

// WithLocation sets the zone used to decide which calendar day "today" is for
// entries submitted without a date.
func (s *LedgerService) WithLocation(loc *time.Location) *LedgerService {
	if loc != nil {
		s.loc = loc
	}
	return s
}

type CreateBookRequest struct {
	Name        string
	Description *string
	Currency    string
}

type UpdateBookRequest struct {
	Name        *string
	Description *string
	Currency    *string
}

type CreateCategoryRequest struct {
	BookID string
	Name   string
	Color  string
}

type EntryInput struct {
	BookID      string
	CategoryID  string
	Type        string
	Amount      decimal.Decimal
	Description string
	PaymentMode *string
	Date        time.Time
	Notes       *string
}

// EntryResult carries the written entry, as it stands after the recompute,
// together with the owning book's new balance.
type EntryResult struct {
	Entry   models.Entry
	Book    models.Book
	Balance decimal.Decimal
}

type Reconciliation struct {
	BookID          string          `json:"book_id"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Drift           []ledger.Drift  `json:"drift"`
	Repaired        bool            `json:"repaired"`
}

func (s *LedgerService) ListBooks(ctx context.Context, userID string) ([]models.BookOverview, error) {
	books, err := s.books.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *LedgerService) GetBook(ctx context.Context, userID, bookID string) (models.BookOverview, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BookOverview{}, ErrBookNotFound
		}
		return models.BookOverview{}, fmt.Errorf("get book: %w", err)
	}
	if book.UserID != userID {
		return models.BookOverview{}, ErrBookNotFound
	}
	return book, nil
}

func (s *LedgerService) CreateBook(ctx context.Context, userID string, req CreateBookRequest) (models.Book, error) {
	name := strings.TrimSpace(req.Name)
	if err := validator.ValidateBookName(name); err != nil {
		return models.Book{}, err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if err := validator.ValidateCurrency(currency); err != nil {
		return models.Book{}, err
	}
	book := models.Book{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: trimmedOrNil(req.Description),
		Currency:    currency,
		Balance:     decimal.Zero,
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.books.Create(ctx, tx, book); err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicateBook
			}
			return err
		}
		return s.logAudit(ctx, tx, userID, "book.create", "book", book.ID, map[string]string{"name": book.Name})
	})
	if err != nil {
		return models.Book{}, err
	}
	now := s.now().UTC()
	book.CreatedAt, book.UpdatedAt = now, now
	s.logger.Info("book created", zap.String("user_id", userID), zap.String("book_id", book.ID))
	return book, nil
}

func (s *LedgerService) UpdateBook(ctx context.Context, userID, bookID string, req UpdateBookRequest) (models.Book, error) {
	var updated models.Book
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		book, err := s.lockOwnedBook(ctx, tx, userID, bookID)
		if err != nil {
			return err
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if err := validator.ValidateBookName(name); err != nil {
				return err
			}
			book.Name = name
		}
		if req.Description != nil {
			book.Description = trimmedOrNil(req.Description)
		}
		if req.Currency != nil {
			currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
			if err := validator.ValidateCurrency(currency); err != nil {
				return err
			}
			book.Currency = currency
		}
		if _, err := s.books.Update(ctx, tx, book); err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicateBook
			}
			return err
		}
		book.UpdatedAt = s.now().UTC()
		updated = book
		return s.logAudit(ctx, tx, userID, "book.update", "book", book.ID, map[string]string{"name": book.Name})
	})
	if err != nil {
		return models.Book{}, err
	}
	return updated, nil
}

// DeleteBook removes the book with every category and entry scoped to it.
func (s *LedgerService) DeleteBook(ctx context.Context, userID, bookID string) error {
	var removedEntries, removedCategories int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.lockOwnedBook(ctx, tx, userID, bookID); err != nil {
			return err
		}
		var err error
		if removedEntries, err = s.entries.DeleteByBook(ctx, tx, bookID); err != nil {
			return err
		}
		if removedCategories, err = s.categories.DeleteByBook(ctx, tx, bookID); err != nil {
			return err
		}
		if _, err := s.books.Delete(ctx, tx, bookID); err != nil {
			return err
		}
		return s.logAudit(ctx, tx, userID, "book.delete", "book", bookID, map[string]string{
			"entries":    fmt.Sprint(removedEntries),
			"categories": fmt.Sprint(removedCategories),
		})
	})
	if err != nil {
		return err
	}
	s.logger.Info("book deleted",
		zap.String("user_id", userID),
		zap.String("book_id", bookID),
		zap.Int64("entries", removedEntries),
		zap.Int64("categories", removedCategories),
	)
	return nil
}

func (s *LedgerService) ListCategories(ctx context.Context, userID, bookID string) ([]models.Category, error) {
	if _, err := s.GetBook(ctx, userID, bookID); err != nil {
		return nil, err
	}
	categories, err := s.categories.ListByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *LedgerService) CreateCategory(ctx context.Context, userID string, req CreateCategoryRequest) (models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if err := validator.ValidateCategoryName(name); err != nil {
		return models.Category{}, err
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = s.pickColor()
	}
	if err := validator.ValidateColor(color); err != nil {
		return models.Category{}, err
	}
	category := models.Category{ID: uuid.NewString(), BookID: req.BookID, Name: name, Color: color}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.lockOwnedBook(ctx, tx, userID, req.BookID); err != nil {
			return err
		}
		if err := s.categories.Create(ctx, tx, category); err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicateCategory
			}
			return err
		}
		return s.logAudit(ctx, tx, userID, "category.create", "category", category.ID, map[string]string{"book_id": req.BookID, "name": name})
	})
	if err != nil {
		return models.Category{}, err
	}
	category.CreatedAt = s.now().UTC()
	return category, nil
}

// ResolveCategory finds the book's category by case-insensitive name, creating
// it with a palette color when absent. The bool reports whether it was created.
func (s *LedgerService) ResolveCategory(ctx context.Context, userID, bookID, name string) (models.Category, bool, error) {
	name = strings.TrimSpace(name)
	if err := validator.ValidateCategoryName(name); err != nil {
		return models.Category{}, false, err
	}
	var (
		category models.Category
		created  bool
	)
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		created = false
		if _, err := s.lockOwnedBook(ctx, tx, userID, bookID); err != nil {
			return err
		}
		existing, err := s.categories.FindByName(ctx, tx, bookID, name)
		if err == nil {
			category = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		category = models.Category{ID: uuid.NewString(), BookID: bookID, Name: name, Color: s.pickColor(), CreatedAt: s.now().UTC()}
		if err := s.categories.Create(ctx, tx, category); err != nil {
			return err
		}
		created = true
		return s.logAudit(ctx, tx, userID, "category.create", "category", category.ID, map[string]string{"book_id": bookID, "name": name})
	})
	if err != nil {
		return models.Category{}, false, err
	}
	return category, created, nil
}

// DeleteCategory removes the category only. Entries that reference it stay
// and are shown as Uncategorized.
func (s *LedgerService) DeleteCategory(ctx context.Context, userID, bookID, categoryID string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.lockOwnedBook(ctx, tx, userID, bookID); err != nil {
			return err
		}
		rows, err := s.categories.Delete(ctx, tx, bookID, categoryID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrCategoryNotFound
		}
		return s.logAudit(ctx, tx, userID, "category.delete", "category", categoryID, map[string]string{"book_id": bookID})
	})
}

// ListEntries returns the book's entries newest first. Running balances are
// recomputed from scratch on the oldest-first ordering.
func (s *LedgerService) ListEntries(ctx context.Context, userID, bookID string) ([]models.EntryView, decimal.Decimal, error) {
	if _, err := s.GetBook(ctx, userID, bookID); err != nil {
		return nil, decimal.Zero, err
	}
	views, err := s.entries.ListViews(ctx, bookID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("list entries: %w", err)
	}
	display, balance := ledger.DisplayViews(views)
	return display, balance, nil
}

// GetEntry returns one entry with its recomputed running balance.
func (s *LedgerService) GetEntry(ctx context.Context, userID, bookID, entryID string) (models.EntryView, error) {
	entries, _, err := s.ListEntries(ctx, userID, bookID)
	if err != nil {
		return models.EntryView{}, err
	}
	for _, entry := range entries {
		if entry.ID == entryID {
			return entry, nil
		}
	}
	return models.EntryView{}, ErrEntryNotFound
}

func (s *LedgerService) SearchEntries(ctx context.Context, filter store.EntryFilter) ([]models.EntryView, error) {
	if filter.Type != "" && !models.ValidEntryType(filter.Type) {
		return nil, ErrInvalidEntryType
	}
	if filter.PaymentMode != "" && !models.ValidPaymentMode(filter.PaymentMode) {
		return nil, ErrInvalidPaymentMode
	}
	views, err := s.entries.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	return views, nil
}

func (s *LedgerService) CreateEntry(ctx context.Context, userID string, input EntryInput) (EntryResult, error) {
	if err := s.validateEntry(&input); err != nil {
		return EntryResult{}, err
	}
	if err := s.checkCategory(ctx, input.BookID, input.CategoryID); err != nil {
		return EntryResult{}, err
	}
	var result EntryResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		book, err := s.lockOwnedBook(ctx, tx, userID, input.BookID)
		if err != nil {
			return err
		}
		written, err := s.entries.Insert(ctx, tx, entryFromInput(uuid.NewString(), input))
		if err != nil {
			return err
		}
		if result, err = s.recalculate(ctx, tx, book, written); err != nil {
			return err
		}
		return s.logAudit(ctx, tx, userID, "entry.create", "entry", written.ID, map[string]string{
			"book_id": book.ID,
			"type":    written.Type,
			"amount":  money.Format(written.Amount),
		})
	})
	if err != nil {
		return EntryResult{}, err
	}
	s.publish(userID, result)
	return result, nil
}

func (s *LedgerService) UpdateEntry(ctx context.Context, userID, entryID string, input EntryInput) (EntryResult, error) {
	if err := s.validateEntry(&input); err != nil {
		return EntryResult{}, err
	}
	var result EntryResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		book, err := s.lockOwnedBook(ctx, tx, userID, input.BookID)
		if err != nil {
			return err
		}
		current, err := s.findEntry(ctx, tx, book.ID, entryID)
		if err != nil {
			return err
		}
		// An entry whose category was deleted keeps that id until the user picks another.
		if current.CategoryID != input.CategoryID {
			if err := s.checkCategory(ctx, book.ID, input.CategoryID); err != nil {
				return err
			}
		}
		written, err := s.entries.Update(ctx, tx, entryFromInput(entryID, input))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEntryNotFound
			}
			return err
		}
		if result, err = s.recalculate(ctx, tx, book, written); err != nil {
			return err
		}
		return s.logAudit(ctx, tx, userID, "entry.update", "entry", entryID, map[string]string{
			"book_id": book.ID,
			"type":    written.Type,
			"amount":  money.Format(written.Amount),
		})
	})
	if err != nil {
		return EntryResult{}, err
	}
	s.publish(userID, result)
	return result, nil
}

func (s *LedgerService) DeleteEntry(ctx context.Context, userID, bookID, entryID string) (decimal.Decimal, error) {
	var result EntryResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		book, err := s.lockOwnedBook(ctx, tx, userID, bookID)
		if err != nil {
			return err
		}
		rows, err := s.entries.Delete(ctx, tx, bookID, entryID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrEntryNotFound
		}
		if result, err = s.recalculate(ctx, tx, book, models.Entry{}); err != nil {
			return err
		}
		return s.logAudit(ctx, tx, userID, "entry.delete", "entry", entryID, map[string]string{"book_id": bookID})
	})
	if err != nil {
		return decimal.Zero, err
	}
	s.publish(userID, result)
	return result.Balance, nil
}

// Reconcile compares the stored balances of a book with a fresh recompute and,
// when repair is set and they differ, rewrites them.
func (s *LedgerService) Reconcile(ctx context.Context, userID, bookID string, repair bool) (Reconciliation, error) {
	var report Reconciliation
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		book, err := s.lockOwnedBook(ctx, tx, userID, bookID)
		if err != nil {
			return err
		}
		entries, err := s.entries.ListChronological(ctx, tx, bookID)
		if err != nil {
			return err
		}
		computed := ledger.Balance(entries)
		report = Reconciliation{
			BookID:          bookID,
			StoredBalance:   book.Balance,
			ComputedBalance: computed,
			Difference:      book.Balance.Sub(computed),
			Drift:           ledger.FindDrift(entries),
		}
		if !repair || (report.Difference.IsZero() && len(report.Drift) == 0) {
			return nil
		}
		if _, err := s.recalculate(ctx, tx, book, models.Entry{}); err != nil {
			return err
		}
		report.Repaired = true
		return nil
	})
	if err != nil {
		return Reconciliation{}, err
	}
	if report.Repaired {
		s.logger.Warn("book balance drift repaired",
			zap.String("book_id", bookID),
			zap.String("stored", report.StoredBalance.String()),
			zap.String("computed", report.ComputedBalance.String()),
			zap.Int("entries", len(report.Drift)),
		)
	}
	return report, nil
}

// recalculate recomputes every running balance of the book and its balance
// from the full entry set. It must run inside the transaction that performed
// the write, after the book row is locked. When written has an id, the
// returned entry is that row with its recomputed running balance.
func (s *LedgerService) recalculate(ctx context.Context, tx store.Tx, book models.Book, written models.Entry) (EntryResult, error) {
	entries, err := s.entries.ListChronological(ctx, tx, book.ID)
	if err != nil {
		return EntryResult{}, fmt.Errorf("load entries for recompute: %w", err)
	}
	stored := make(map[string]decimal.Decimal, len(entries))
	for _, entry := range entries {
		stored[entry.ID] = entry.RunningBalance
	}
	balance := ledger.ApplyRunningBalances(entries)
	result := EntryResult{Entry: written, Balance: balance}
	for _, entry := range entries {
		if entry.ID == written.ID {
			result.Entry = entry
		}
		if stored[entry.ID].Equal(entry.RunningBalance) {
			continue
		}
		if err := s.entries.SetRunningBalance(ctx, tx, entry.ID, entry.RunningBalance); err != nil {
			return EntryResult{}, fmt.Errorf("store running balance: %w", err)
		}
	}
	if err := s.books.SetBalance(ctx, tx, book.ID, balance); err != nil {
		return EntryResult{}, fmt.Errorf("store book balance: %w", err)
	}
	book.Balance = balance
	result.Book = book
	return result, nil
}

func (s *LedgerService) lockOwnedBook(ctx context.Context, tx store.Getter, userID, bookID string) (models.Book, error) {
	book, err := s.books.GetForUpdate(ctx, tx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Book{}, ErrBookNotFound
		}
		return models.Book{}, err
	}
	if book.UserID != userID {
		return models.Book{}, ErrBookNotFound
	}
	return book, nil
}

func (s *LedgerService) validateEntry(input *EntryInput) error {
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	if !models.ValidEntryType(input.Type) {
		return ErrInvalidEntryType
	}
	if !input.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if input.PaymentMode != nil {
		mode := strings.TrimSpace(*input.PaymentMode)
		if mode == "" {
			input.PaymentMode = nil
		} else if !models.ValidPaymentMode(mode) {
			return ErrInvalidPaymentMode
		} else {
			input.PaymentMode = &mode
		}
	}
	if input.Date.IsZero() {
		input.Date = ledger.Today(s.now(), s.loc)
	} else {
		input.Date = time.Date(input.Date.Year(), input.Date.Month(), input.Date.Day(), 0, 0, 0, 0, time.UTC)
	}
	input.Description = strings.TrimSpace(input.Description)
	input.Notes = trimmedOrNil(input.Notes)
	return nil
}

func (s *LedgerService) findEntry(ctx context.Context, tx *sqlx.Tx, bookID, entryID string) (models.Entry, error) {
	entries, err := s.entries.ListChronological(ctx, tx, bookID)
	if err != nil {
		return models.Entry{}, fmt.Errorf("load entries: %w", err)
	}
	for _, entry := range entries {
		if entry.ID == entryID {
			return entry, nil
		}
	}
	return models.Entry{}, ErrEntryNotFound
}

func (s *LedgerService) checkCategory(ctx context.Context, bookID, categoryID string) error {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("load category: %w", err)
	}
	if category.BookID != bookID {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *LedgerService) publish(userID string, result EntryResult) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastBalance(userID, websocket.BookBalance{
		BookID:   result.Book.ID,
		Balance:  money.Format(result.Balance),
		Currency: result.Book.Currency,
	})
}

func (s *LedgerService) logAudit(ctx context.Context, tx store.Execer, userID, action, entityType, entityID string, data map[string]string) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.audit.Log(ctx, tx, userID, action, entityType, entityID, string(payload))
}

func entryFromInput(id string, input EntryInput) models.Entry {
	return models.Entry{
		ID:          id,
		BookID:      input.BookID,
		CategoryID:  input.CategoryID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
		PaymentMode: input.PaymentMode,
		Date:        input.Date,
		Notes:       input.Notes,
	}
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
