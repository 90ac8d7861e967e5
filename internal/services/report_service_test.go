package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cashbook/internal/models"

	"github.com/shopspring/decimal"
)

type stubBookReader struct {
	getByIDFn func(ctx context.Context, bookID string) (models.BookOverview, error)
}

func (s stubBookReader) GetByID(ctx context.Context, bookID string) (models.BookOverview, error) {
	return s.getByIDFn(ctx, bookID)
}

type stubCategoryLister struct {
	err error
}

func (s stubCategoryLister) ListByBook(context.Context, string) ([]models.Category, error) {
	return nil, s.err
}

func newTestReports(m *memStore) *ReportService {
	service := NewReportService(m.bookStore(), m.categoryStore(), m.entryStore(), nil)
	service.now = func() time.Time { return time.Date(2024, 3, 15, 22, 0, 0, 0, time.UTC) }
	return service
}

func TestReportSummary(t *testing.T) {
	m := newMemStore()
	ledgerService := newTestLedger(t, m, nil)
	book, category := seedBook(t, ledgerService, "user-1", "Personal")
	addEntry(t, ledgerService, "user-1", book, category, models.EntryTypeIncome, "1000", day(1))
	addEntry(t, ledgerService, "user-1", book, category, models.EntryTypeExpense, "125.75", day(2))

	summary, err := newTestReports(m).Summary(context.Background(), "user-1", book.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := summary.Summary
	if !s.TotalIncome.Equal(decimal.NewFromInt(1000)) || !s.TotalExpense.Equal(decimal.RequireFromString("125.75")) ||
		!s.Balance.Equal(decimal.RequireFromString("874.25")) || s.EntryCount != 2 || s.LastUpdated == nil {
		t.Fatalf("unexpected summary: %#v", s)
	}
	if summary.Book.ID != book.ID {
		t.Fatalf("unexpected book: %#v", summary.Book)
	}
}

func TestReportRejectsForeignBook(t *testing.T) {
	m := newMemStore()
	ledgerService := newTestLedger(t, m, nil)
	book, _ := seedBook(t, ledgerService, "user-1", "Personal")

	reports := newTestReports(m)
	if _, err := reports.Summary(context.Background(), "user-2", book.ID); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
	if _, err := reports.Dashboard(context.Background(), "user-1", "missing"); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestReportLoadErrorPropagates(t *testing.T) {
	m := newMemStore()
	service := NewReportService(stubBookReader{
		getByIDFn: func(context.Context, string) (models.BookOverview, error) {
			return models.BookOverview{Book: models.Book{ID: "book-1", UserID: "user-1"}}, nil
		},
	}, stubCategoryLister{err: errors.New("boom")}, m.entryStore(), time.UTC)

	if _, err := service.Report(context.Background(), "user-1", "book-1", 3); err == nil {
		t.Fatal("expected error")
	}
}

func TestDashboard(t *testing.T) {
	m := newMemStore()
	ledgerService := newTestLedger(t, m, nil)
	book, food := seedBook(t, ledgerService, "user-1", "Personal")
	rent, err := ledgerService.CreateCategory(context.Background(), "user-1", CreateCategoryRequest{BookID: book.ID, Name: "Rent"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	addEntry(t, ledgerService, "user-1", book, food, models.EntryTypeIncome, "5000", day(1))
	addEntry(t, ledgerService, "user-1", book, rent, models.EntryTypeExpense, "1500", day(10))
	addEntry(t, ledgerService, "user-1", book, food, models.EntryTypeExpense, "200", day(14))
	addEntry(t, ledgerService, "user-1", book, food, models.EntryTypeExpense, "50", day(15))
	addEntry(t, ledgerService, "user-1", book, food, models.EntryTypeExpense, "25", day(15))
	addEntry(t, ledgerService, "user-1", book, food, models.EntryTypeExpense, "10", day(15))
	if err := ledgerService.DeleteCategory(context.Background(), "user-1", book.ID, rent.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	dashboard, err := newTestReports(m).Dashboard(context.Background(), "user-1", book.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dashboard.Daily) != 7 {
		t.Fatalf("expected 7 daily buckets, got %d", len(dashboard.Daily))
	}
	lastDay := dashboard.Daily[6]
	if lastDay.Label != "Mar 15" || !lastDay.Expense.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("unexpected last bucket: %#v", lastDay)
	}
	if !dashboard.Daily[5].Expense.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected Mar 14 bucket: %#v", dashboard.Daily[5])
	}
	if len(dashboard.ExpenseByCategory) != 2 {
		t.Fatalf("unexpected expense breakdown: %#v", dashboard.ExpenseByCategory)
	}
	top := dashboard.ExpenseByCategory[0]
	if top.Name != models.UncategorizedName || !top.Total.Equal(decimal.NewFromInt(1500)) || top.Count != 1 {
		t.Fatalf("orphaned rent should be bucketed as uncategorized: %#v", top)
	}
	if len(dashboard.IncomeByCategory) != 1 || dashboard.IncomeByCategory[0].Name != "General" {
		t.Fatalf("unexpected income breakdown: %#v", dashboard.IncomeByCategory)
	}
	if len(dashboard.Recent) != 5 || !dashboard.Recent[0].Amount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected recent entries: %#v", dashboard.Recent)
	}
	if !dashboard.Recent[0].RunningBalance.Equal(dashboard.Summary.Balance) {
		t.Fatalf("newest entry should carry the book balance: %s vs %s", dashboard.Recent[0].RunningBalance, dashboard.Summary.Balance)
	}
}

func TestMonthlyReport(t *testing.T) {
	m := newMemStore()
	ledgerService := newTestLedger(t, m, nil)
	book, category := seedBook(t, ledgerService, "user-1", "Personal")
	addEntry(t, ledgerService, "user-1", book, category, models.EntryTypeIncome, "300", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	addEntry(t, ledgerService, "user-1", book, category, models.EntryTypeExpense, "100", day(2))
	addEntry(t, ledgerService, "user-1", book, category, models.EntryTypeIncome, "999", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))

	reports := newTestReports(m)
	report, err := reports.Report(context.Background(), "user-1", book.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Months) != 3 {
		t.Fatalf("expected 3 months, got %d", len(report.Months))
	}
	if report.Months[0].Label != "Jan 2024" || !report.Months[0].Income.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected January bucket: %#v", report.Months[0])
	}
	if report.Months[2].Label != "Mar 2024" || !report.Months[2].Net.Equal(decimal.NewFromInt(-100)) {
		t.Fatalf("unexpected March bucket: %#v", report.Months[2])
	}
	if report.Summary.EntryCount != 3 {
		t.Fatalf("summary covers every entry, got %d", report.Summary.EntryCount)
	}

	defaulted, err := reports.Report(context.Background(), "user-1", book.ID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defaulted.Months) != DefaultReportSpan {
		t.Fatalf("expected default span, got %d", len(defaulted.Months))
	}
	capped, err := reports.Report(context.Background(), "user-1", book.ID, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(capped.Months) != MaxReportSpan {
		t.Fatalf("expected capped span, got %d", len(capped.Months))
	}
}
