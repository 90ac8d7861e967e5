package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"cashbook/internal/auth"
	"cashbook/internal/config"
	"cashbook/internal/db"
	"cashbook/internal/models"
	"cashbook/internal/services"
	"cashbook/internal/store"
	"cashbook/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, user models.User) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, user models.User) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, user)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubProfileStore struct {
	createFn      func(ctx context.Context, tx store.Execer, userID string) error
	getByUserFn   func(ctx context.Context, userID string) (models.UserProfile, error)
	setWhatsAppFn func(ctx context.Context, tx store.Execer, userID string, phone *string) error
}

func (s stubProfileStore) Create(ctx context.Context, tx store.Execer, userID string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, userID)
}

func (s stubProfileStore) GetByUser(ctx context.Context, userID string) (models.UserProfile, error) {
	if s.getByUserFn == nil {
		return models.UserProfile{UserID: userID}, nil
	}
	return s.getByUserFn(ctx, userID)
}

func (s stubProfileStore) SetWhatsAppPhone(ctx context.Context, tx store.Execer, userID string, phone *string) error {
	if s.setWhatsAppFn == nil {
		return nil
	}
	return s.setWhatsAppFn(ctx, tx, userID, phone)
}

type stubAuditStore struct {
	logFn         func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listByActorFn func(ctx context.Context, actorID string, limit, offset int) ([]models.AuditLog, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) ListByActor(ctx context.Context, actorID string, limit, offset int) ([]models.AuditLog, error) {
	if s.listByActorFn == nil {
		return nil, nil
	}
	return s.listByActorFn(ctx, actorID, limit, offset)
}

type stubLedger struct {
	listBooksFn      func(ctx context.Context, userID string) ([]models.BookOverview, error)
	getBookFn        func(ctx context.Context, userID, bookID string) (models.BookOverview, error)
	createBookFn     func(ctx context.Context, userID string, req services.CreateBookRequest) (models.Book, error)
	updateBookFn     func(ctx context.Context, userID, bookID string, req services.UpdateBookRequest) (models.Book, error)
	deleteBookFn     func(ctx context.Context, userID, bookID string) error
	reconcileFn      func(ctx context.Context, userID, bookID string, repair bool) (services.Reconciliation, error)
	listCategoriesFn func(ctx context.Context, userID, bookID string) ([]models.Category, error)
	createCategoryFn func(ctx context.Context, userID string, req services.CreateCategoryRequest) (models.Category, error)
	deleteCategoryFn func(ctx context.Context, userID, bookID, categoryID string) error
	listEntriesFn    func(ctx context.Context, userID, bookID string) ([]models.EntryView, decimal.Decimal, error)
	getEntryFn       func(ctx context.Context, userID, bookID, entryID string) (models.EntryView, error)
	createEntryFn    func(ctx context.Context, userID string, input services.EntryInput) (services.EntryResult, error)
	updateEntryFn    func(ctx context.Context, userID, entryID string, input services.EntryInput) (services.EntryResult, error)
	deleteEntryFn    func(ctx context.Context, userID, bookID, entryID string) (decimal.Decimal, error)
	searchEntriesFn  func(ctx context.Context, filter store.EntryFilter) ([]models.EntryView, error)
}

func (s stubLedger) ListBooks(ctx context.Context, userID string) ([]models.BookOverview, error) {
	if s.listBooksFn == nil {
		return nil, nil
	}
	return s.listBooksFn(ctx, userID)
}

func (s stubLedger) GetBook(ctx context.Context, userID, bookID string) (models.BookOverview, error) {
	if s.getBookFn == nil {
		return models.BookOverview{}, services.ErrBookNotFound
	}
	return s.getBookFn(ctx, userID, bookID)
}

func (s stubLedger) CreateBook(ctx context.Context, userID string, req services.CreateBookRequest) (models.Book, error) {
	if s.createBookFn == nil {
		return models.Book{}, nil
	}
	return s.createBookFn(ctx, userID, req)
}

func (s stubLedger) UpdateBook(ctx context.Context, userID, bookID string, req services.UpdateBookRequest) (models.Book, error) {
	if s.updateBookFn == nil {
		return models.Book{}, nil
	}
	return s.updateBookFn(ctx, userID, bookID, req)
}

func (s stubLedger) DeleteBook(ctx context.Context, userID, bookID string) error {
	if s.deleteBookFn == nil {
		return nil
	}
	return s.deleteBookFn(ctx, userID, bookID)
}

func (s stubLedger) Reconcile(ctx context.Context, userID, bookID string, repair bool) (services.Reconciliation, error) {
	if s.reconcileFn == nil {
		return services.Reconciliation{}, nil
	}
	return s.reconcileFn(ctx, userID, bookID, repair)
}

func (s stubLedger) ListCategories(ctx context.Context, userID, bookID string) ([]models.Category, error) {
	if s.listCategoriesFn == nil {
		return nil, nil
	}
	return s.listCategoriesFn(ctx, userID, bookID)
}

func (s stubLedger) CreateCategory(ctx context.Context, userID string, req services.CreateCategoryRequest) (models.Category, error) {
	if s.createCategoryFn == nil {
		return models.Category{}, nil
	}
	return s.createCategoryFn(ctx, userID, req)
}

func (s stubLedger) DeleteCategory(ctx context.Context, userID, bookID, categoryID string) error {
	if s.deleteCategoryFn == nil {
		return nil
	}
	return s.deleteCategoryFn(ctx, userID, bookID, categoryID)
}

func (s stubLedger) ListEntries(ctx context.Context, userID, bookID string) ([]models.EntryView, decimal.Decimal, error) {
	if s.listEntriesFn == nil {
		return nil, decimal.Zero, nil
	}
	return s.listEntriesFn(ctx, userID, bookID)
}

func (s stubLedger) GetEntry(ctx context.Context, userID, bookID, entryID string) (models.EntryView, error) {
	if s.getEntryFn == nil {
		return models.EntryView{}, services.ErrEntryNotFound
	}
	return s.getEntryFn(ctx, userID, bookID, entryID)
}

func (s stubLedger) CreateEntry(ctx context.Context, userID string, input services.EntryInput) (services.EntryResult, error) {
	if s.createEntryFn == nil {
		return services.EntryResult{}, nil
	}
	return s.createEntryFn(ctx, userID, input)
}

func (s stubLedger) UpdateEntry(ctx context.Context, userID, entryID string, input services.EntryInput) (services.EntryResult, error) {
	if s.updateEntryFn == nil {
		return services.EntryResult{}, nil
	}
	return s.updateEntryFn(ctx, userID, entryID, input)
}

func (s stubLedger) DeleteEntry(ctx context.Context, userID, bookID, entryID string) (decimal.Decimal, error) {
	if s.deleteEntryFn == nil {
		return decimal.Zero, nil
	}
	return s.deleteEntryFn(ctx, userID, bookID, entryID)
}

func (s stubLedger) SearchEntries(ctx context.Context, filter store.EntryFilter) ([]models.EntryView, error) {
	if s.searchEntriesFn == nil {
		return nil, nil
	}
	return s.searchEntriesFn(ctx, filter)
}

type stubReports struct {
	summaryFn   func(ctx context.Context, userID, bookID string) (services.BookSummary, error)
	dashboardFn func(ctx context.Context, userID, bookID string) (services.Dashboard, error)
	reportFn    func(ctx context.Context, userID, bookID string, months int) (services.Report, error)
}

func (s stubReports) Summary(ctx context.Context, userID, bookID string) (services.BookSummary, error) {
	if s.summaryFn == nil {
		return services.BookSummary{}, nil
	}
	return s.summaryFn(ctx, userID, bookID)
}

func (s stubReports) Dashboard(ctx context.Context, userID, bookID string) (services.Dashboard, error) {
	if s.dashboardFn == nil {
		return services.Dashboard{}, nil
	}
	return s.dashboardFn(ctx, userID, bookID)
}

func (s stubReports) Report(ctx context.Context, userID, bookID string, months int) (services.Report, error) {
	if s.reportFn == nil {
		return services.Report{}, nil
	}
	return s.reportFn(ctx, userID, bookID, months)
}

type stubProcessor struct {
	handleFn func(ctx context.Context, from, body string) string
}

func (s stubProcessor) Handle(ctx context.Context, from, body string) string {
	if s.handleFn == nil {
		return ""
	}
	return s.handleFn(ctx, from, body)
}

type stubSignatures struct {
	validateFn func(signature string, form url.Values) bool
}

func (s stubSignatures) Validate(signature string, form url.Values) bool {
	return s.validateFn(signature, form)
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
		Timezone:       "UTC",
	}
}

func newTestHandler(txRunner db.TxRunner, users UserStore, profiles ProfileStore, audit AuditStore, ledger LedgerService, reports ReportService, processor MessageProcessor, signatures SignatureValidator) *Handler {
	return New(txRunner, testConfig(), zap.NewNop(), users, profiles, audit, ledger, reports, processor, signatures, websocket.NewHub())
}

func newLedgerHandler(ledger LedgerService) *Handler {
	return newTestHandler(fakeTxRunner{}, stubUserStore{}, stubProfileStore{}, stubAuditStore{}, ledger, stubReports{}, stubProcessor{}, nil)
}

// doRequest sends a request through the full router. An empty userID sends
// no Authorization header.
func doRequest(t *testing.T, handler *Handler, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, err := auth.GenerateToken("secret", userID, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	return rr
}
