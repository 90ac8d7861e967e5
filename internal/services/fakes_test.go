package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"cashbook/internal/models"
	"cashbook/internal/store"
	"cashbook/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// memStore keeps books, categories and entries in maps so service tests can
// check the state a sequence of operations leaves behind.
type memStore struct {
	mu         sync.Mutex
	books      map[string]models.Book
	categories map[string]models.Category
	entries    map[string]models.Entry
	audit      []string
	seq        int64
	balanceSet int
}

func newMemStore() *memStore {
	return &memStore{
		books:      map[string]models.Book{},
		categories: map[string]models.Category{},
		entries:    map[string]models.Entry{},
	}
}

func (m *memStore) bookStore() memBooks         { return memBooks{m} }
func (m *memStore) categoryStore() memCategories { return memCategories{m} }
func (m *memStore) entryStore() memEntries       { return memEntries{m} }
func (m *memStore) auditStore() memAudit         { return memAudit{m} }

func (m *memStore) overview(book models.Book) models.BookOverview {
	overview := models.BookOverview{Book: book, LastUpdated: book.UpdatedAt}
	balance := decimal.Zero
	for _, entry := range m.entries {
		if entry.BookID != book.ID {
			continue
		}
		overview.EntryCount++
		if entry.Type == models.EntryTypeIncome {
			balance = balance.Add(entry.Amount)
		} else {
			balance = balance.Sub(entry.Amount)
		}
	}
	overview.Balance = balance
	return overview
}

func (m *memStore) entriesOf(bookID string) []models.Entry {
	var entries []models.Entry
	for _, entry := range m.entries {
		if entry.BookID == bookID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Seq < entries[j].Seq
	})
	return entries
}

type memBooks struct{ m *memStore }

func (s memBooks) Create(_ context.Context, _ store.Execer, book models.Book) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.books {
		if existing.UserID == book.UserID && strings.EqualFold(existing.Name, book.Name) {
			return uniqueViolation()
		}
	}
	s.m.books[book.ID] = book
	return nil
}

func (s memBooks) ListByUser(_ context.Context, userID string) ([]models.BookOverview, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var books []models.BookOverview
	for _, book := range s.m.books {
		if book.UserID == userID {
			books = append(books, s.m.overview(book))
		}
	}
	return books, nil
}

func (s memBooks) GetByID(_ context.Context, bookID string) (models.BookOverview, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	book, ok := s.m.books[bookID]
	if !ok {
		return models.BookOverview{}, sql.ErrNoRows
	}
	return s.m.overview(book), nil
}

func (s memBooks) GetForUpdate(_ context.Context, _ store.Getter, bookID string) (models.Book, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	book, ok := s.m.books[bookID]
	if !ok {
		return models.Book{}, sql.ErrNoRows
	}
	return book, nil
}

func (s memBooks) Update(_ context.Context, _ store.Execer, book models.Book) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	existing, ok := s.m.books[book.ID]
	if !ok {
		return 0, nil
	}
	book.Balance = existing.Balance
	s.m.books[book.ID] = book
	return 1, nil
}

func (s memBooks) SetBalance(_ context.Context, _ store.Execer, bookID string, balance decimal.Decimal) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	book := s.m.books[bookID]
	book.Balance = balance
	s.m.books[bookID] = book
	s.m.balanceSet++
	return nil
}

func (s memBooks) Delete(_ context.Context, _ store.Execer, bookID string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.books[bookID]; !ok {
		return 0, nil
	}
	delete(s.m.books, bookID)
	return 1, nil
}

type memCategories struct{ m *memStore }

func (s memCategories) Create(_ context.Context, _ store.Execer, category models.Category) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, existing := range s.m.categories {
		if existing.BookID == category.BookID && strings.EqualFold(existing.Name, category.Name) {
			return uniqueViolation()
		}
	}
	s.m.categories[category.ID] = category
	return nil
}

func (s memCategories) ListByBook(_ context.Context, bookID string) ([]models.Category, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var categories []models.Category
	for _, category := range s.m.categories {
		if category.BookID == bookID {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (s memCategories) GetByID(_ context.Context, categoryID string) (models.Category, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	category, ok := s.m.categories[categoryID]
	if !ok {
		return models.Category{}, sql.ErrNoRows
	}
	return category, nil
}

func (s memCategories) FindByName(_ context.Context, _ store.Getter, bookID, name string) (models.Category, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, category := range s.m.categories {
		if category.BookID == bookID && strings.EqualFold(category.Name, name) {
			return category, nil
		}
	}
	return models.Category{}, sql.ErrNoRows
}

func (s memCategories) Delete(_ context.Context, _ store.Execer, bookID, categoryID string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	category, ok := s.m.categories[categoryID]
	if !ok || category.BookID != bookID {
		return 0, nil
	}
	delete(s.m.categories, categoryID)
	return 1, nil
}

func (s memCategories) DeleteByBook(_ context.Context, _ store.Execer, bookID string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var removed int64
	for id, category := range s.m.categories {
		if category.BookID == bookID {
			delete(s.m.categories, id)
			removed++
		}
	}
	return removed, nil
}

type memEntries struct{ m *memStore }

func (s memEntries) Insert(_ context.Context, _ store.Getter, entry models.Entry) (models.Entry, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.seq++
	entry.Seq = s.m.seq
	entry.CreatedAt = time.Unix(1700000000+s.m.seq, 0).UTC()
	entry.UpdatedAt = entry.CreatedAt
	entry.RunningBalance = decimal.Zero
	s.m.entries[entry.ID] = entry
	return entry, nil
}

func (s memEntries) Update(_ context.Context, _ store.Getter, entry models.Entry) (models.Entry, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	existing, ok := s.m.entries[entry.ID]
	if !ok || existing.BookID != entry.BookID {
		return models.Entry{}, sql.ErrNoRows
	}
	entry.Seq = existing.Seq
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = existing.UpdatedAt.Add(time.Minute)
	entry.RunningBalance = existing.RunningBalance
	s.m.entries[entry.ID] = entry
	return entry, nil
}

func (s memEntries) Delete(_ context.Context, _ store.Execer, bookID, entryID string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	entry, ok := s.m.entries[entryID]
	if !ok || entry.BookID != bookID {
		return 0, nil
	}
	delete(s.m.entries, entryID)
	return 1, nil
}

func (s memEntries) DeleteByBook(_ context.Context, _ store.Execer, bookID string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var removed int64
	for id, entry := range s.m.entries {
		if entry.BookID == bookID {
			delete(s.m.entries, id)
			removed++
		}
	}
	return removed, nil
}

func (s memEntries) ListChronological(_ context.Context, _ store.Selecter, bookID string) ([]models.Entry, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.m.entriesOf(bookID), nil
}

func (s memEntries) SetRunningBalance(_ context.Context, _ store.Execer, entryID string, balance decimal.Decimal) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	entry := s.m.entries[entryID]
	entry.RunningBalance = balance
	s.m.entries[entryID] = entry
	return nil
}

func (s memEntries) ListViews(_ context.Context, bookID string) ([]models.EntryView, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	entries := s.m.entriesOf(bookID)
	views := make([]models.EntryView, len(entries))
	for i, entry := range entries {
		views[i] = models.EntryView{Entry: entry, CategoryName: models.UncategorizedName}
		if category, ok := s.m.categories[entry.CategoryID]; ok {
			views[i].CategoryName = category.Name
			views[i].CategoryColor = category.Color
		}
	}
	return views, nil
}

func (s memEntries) Search(ctx context.Context, filter store.EntryFilter) ([]models.EntryView, error) {
	views, err := s.ListViews(ctx, filter.BookID)
	if err != nil {
		return nil, err
	}
	var matched []models.EntryView
	for _, view := range views {
		if filter.Type != "" && view.Type != filter.Type {
			continue
		}
		matched = append(matched, view)
	}
	return matched, nil
}

type memAudit struct{ m *memStore }

func (s memAudit) Log(_ context.Context, _ store.Execer, _, action, _, _, _ string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.audit = append(s.m.audit, action)
	return nil
}

type stubHub struct {
	mu    sync.Mutex
	calls []websocket.BookBalance
}

func (s *stubHub) BroadcastBalance(_ string, update websocket.BookBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, update)
}

func newTestLedger(t *testing.T, m *memStore, hub BalanceHub) *LedgerService {
	t.Helper()
	service := NewLedgerService(fakeTxRunner{}, m.bookStore(), m.categoryStore(), m.entryStore(), m.auditStore(), hub, zap.NewNop())
	service.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	service.pickColor = func() string { return CategoryPalette[0] }
	return service
}

func uniqueViolation() error {
	return &pq.Error{Code: "23505"}
}
