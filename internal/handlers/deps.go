package handlers

import (
	"context"
	"net/url"

	"cashbook/internal/models"
	"cashbook/internal/services"
	"cashbook/internal/store"

	"github.com/shopspring/decimal"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, user models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type ProfileStore interface {
	Create(ctx context.Context, tx store.Execer, userID string) error
	GetByUser(ctx context.Context, userID string) (models.UserProfile, error)
	SetWhatsAppPhone(ctx context.Context, tx store.Execer, userID string, phone *string) error
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	ListByActor(ctx context.Context, actorID string, limit, offset int) ([]models.AuditLog, error)
}

type LedgerService interface {
	ListBooks(ctx context.Context, userID string) ([]models.BookOverview, error)
	GetBook(ctx context.Context, userID, bookID string) (models.BookOverview, error)
	CreateBook(ctx context.Context, userID string, req services.CreateBookRequest) (models.Book, error)
	UpdateBook(ctx context.Context, userID, bookID string, req services.UpdateBookRequest) (models.Book, error)
	DeleteBook(ctx context.Context, userID, bookID string) error
	Reconcile(ctx context.Context, userID, bookID string, repair bool) (services.Reconciliation, error)

	ListCategories(ctx context.Context, userID, bookID string) ([]models.Category, error)
	CreateCategory(ctx context.Context, userID string, req services.CreateCategoryRequest) (models.Category, error)
	DeleteCategory(ctx context.Context, userID, bookID, categoryID string) error

	ListEntries(ctx context.Context, userID, bookID string) ([]models.EntryView, decimal.Decimal, error)
	GetEntry(ctx context.Context, userID, bookID, entryID string) (models.EntryView, error)
	CreateEntry(ctx context.Context, userID string, input services.EntryInput) (services.EntryResult, error)
	UpdateEntry(ctx context.Context, userID, entryID string, input services.EntryInput) (services.EntryResult, error)
	DeleteEntry(ctx context.Context, userID, bookID, entryID string) (decimal.Decimal, error)
	SearchEntries(ctx context.Context, filter store.EntryFilter) ([]models.EntryView, error)
}

type ReportService interface {
	Summary(ctx context.Context, userID, bookID string) (services.BookSummary, error)
	Dashboard(ctx context.Context, userID, bookID string) (services.Dashboard, error)
	Report(ctx context.Context, userID, bookID string, months int) (services.Report, error)
}

type MessageProcessor interface {
	Handle(ctx context.Context, from, body string) string
}

type SignatureValidator interface {
	Validate(signature string, form url.Values) bool
}
