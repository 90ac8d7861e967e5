package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cashbook/internal/ledger"
	"cashbook/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardDays     = 7
	dashboardRecent   = 5
	DefaultReportSpan = 6
	MaxReportSpan     = 24
)

type BookReader interface {
	GetByID(ctx context.Context, bookID string) (models.BookOverview, error)
}

type CategoryLister interface {
	ListByBook(ctx context.Context, bookID string) ([]models.Category, error)
}

type EntryViewLister interface {
	ListViews(ctx context.Context, bookID string) ([]models.EntryView, error)
}

// ReportService builds read-only aggregates over one book. All figures are
// derived from the entries at read time.
type ReportService struct {
	books      BookReader
	categories CategoryLister
	entries    EntryViewLister
	now        func() time.Time
	loc        *time.Location
}

func NewReportService(books BookReader, categories CategoryLister, entries EntryViewLister, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{books: books, categories: categories, entries: entries, now: time.Now, loc: loc}
}

type BookSummary struct {
	Book    models.BookOverview `json:"book"`
	Summary ledger.Summary      `json:"summary"`
}

type Dashboard struct {
	Book              models.BookOverview    `json:"book"`
	Summary           ledger.Summary         `json:"summary"`
	Daily             []ledger.PeriodTotals  `json:"daily"`
	ExpenseByCategory []ledger.CategoryTotal `json:"expense_by_category"`
	IncomeByCategory  []ledger.CategoryTotal `json:"income_by_category"`
	Recent            []models.EntryView     `json:"recent"`
}

type Report struct {
	Book              models.BookOverview    `json:"book"`
	Summary           ledger.Summary         `json:"summary"`
	Months            []ledger.PeriodTotals  `json:"months"`
	ExpenseByCategory []ledger.CategoryTotal `json:"expense_by_category"`
	IncomeByCategory  []ledger.CategoryTotal `json:"income_by_category"`
	GeneratedAt       time.Time              `json:"generated_at"`
}

type bookSnapshot struct {
	book       models.BookOverview
	categories []models.Category
	views      []models.EntryView
	entries    []models.Entry
}

func (s *ReportService) Summary(ctx context.Context, userID, bookID string) (BookSummary, error) {
	snap, err := s.load(ctx, userID, bookID)
	if err != nil {
		return BookSummary{}, err
	}
	return BookSummary{Book: snap.book, Summary: ledger.Summarize(snap.entries)}, nil
}

func (s *ReportService) Dashboard(ctx context.Context, userID, bookID string) (Dashboard, error) {
	snap, err := s.load(ctx, userID, bookID)
	if err != nil {
		return Dashboard{}, err
	}
	today := ledger.Today(s.now(), s.loc)
	recent, _ := ledger.DisplayViews(snap.views)
	if len(recent) > dashboardRecent {
		recent = recent[:dashboardRecent]
	}
	return Dashboard{
		Book:              snap.book,
		Summary:           ledger.Summarize(snap.entries),
		Daily:             ledger.Daily(snap.entries, today, dashboardDays),
		ExpenseByCategory: ledger.ByCategory(snap.entries, snap.categories, models.EntryTypeExpense),
		IncomeByCategory:  ledger.ByCategory(snap.entries, snap.categories, models.EntryTypeIncome),
		Recent:            recent,
	}, nil
}

// Report returns month-by-month totals for the last `months` months, the
// current month included.
func (s *ReportService) Report(ctx context.Context, userID, bookID string, months int) (Report, error) {
	if months <= 0 {
		months = DefaultReportSpan
	}
	if months > MaxReportSpan {
		months = MaxReportSpan
	}
	snap, err := s.load(ctx, userID, bookID)
	if err != nil {
		return Report{}, err
	}
	now := s.now()
	return Report{
		Book:              snap.book,
		Summary:           ledger.Summarize(snap.entries),
		Months:            ledger.Monthly(snap.entries, ledger.Today(now, s.loc), months),
		ExpenseByCategory: ledger.ByCategory(snap.entries, snap.categories, models.EntryTypeExpense),
		IncomeByCategory:  ledger.ByCategory(snap.entries, snap.categories, models.EntryTypeIncome),
		GeneratedAt:       now.UTC(),
	}, nil
}

// load fetches the book, its categories and its entries concurrently. The
// ownership check runs once all three have returned.
func (s *ReportService) load(ctx context.Context, userID, bookID string) (bookSnapshot, error) {
	var snap bookSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		book, err := s.books.GetByID(gctx, bookID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookNotFound
			}
			return fmt.Errorf("load book: %w", err)
		}
		snap.book = book
		return nil
	})
	g.Go(func() error {
		categories, err := s.categories.ListByBook(gctx, bookID)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		snap.categories = categories
		return nil
	})
	g.Go(func() error {
		views, err := s.entries.ListViews(gctx, bookID)
		if err != nil {
			return fmt.Errorf("load entries: %w", err)
		}
		snap.views = views
		return nil
	})
	if err := g.Wait(); err != nil {
		return bookSnapshot{}, err
	}
	if snap.book.UserID != userID {
		return bookSnapshot{}, ErrBookNotFound
	}
	snap.entries = make([]models.Entry, len(snap.views))
	for i, view := range snap.views {
		snap.entries[i] = view.Entry
	}
	return snap, nil
}
