package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EntryTypeIncome  = "income"
	EntryTypeExpense = "expense"
)

const (
	PaymentCash         = "cash"
	PaymentUPI          = "upi"
	PaymentCard         = "card"
	PaymentBankTransfer = "bank_transfer"
	PaymentOther        = "other"
)

// UncategorizedName labels entries whose category no longer exists.
const UncategorizedName = "Uncategorized"

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type UserProfile struct {
	UserID        string    `db:"user_id" json:"user_id"`
	WhatsAppPhone *string   `db:"whatsapp_phone" json:"whatsapp_phone,omitempty"`
	Bio           *string   `db:"bio" json:"bio,omitempty"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type Book struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description,omitempty"`
	Currency    string          `db:"currency" json:"currency"`
	Balance     decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// BookOverview is a book annotated with its computed balance and the most
// recent activity across the book and its entries.
type BookOverview struct {
	Book
	EntryCount  int       `db:"entry_count" json:"entry_count"`
	LastUpdated time.Time `db:"last_updated" json:"last_updated"`
}

type Category struct {
	ID        string    `db:"id" json:"id"`
	BookID    string    `db:"book_id" json:"book_id"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Entry struct {
	ID             string          `db:"id" json:"id"`
	Seq            int64           `db:"seq" json:"-"`
	BookID         string          `db:"book_id" json:"book_id"`
	CategoryID     string          `db:"category_id" json:"category_id"`
	Type           string          `db:"type" json:"type"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	Description    string          `db:"description" json:"description"`
	PaymentMode    *string         `db:"payment_mode" json:"payment_mode"`
	Date           time.Time       `db:"date" json:"date"`
	Notes          *string         `db:"notes" json:"notes,omitempty"`
	RunningBalance decimal.Decimal `db:"running_balance" json:"running_balance"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// EntryView is an entry joined with its category label for display.
type EntryView struct {
	Entry
	CategoryName  string `db:"category_name" json:"category_name"`
	CategoryColor string `db:"category_color" json:"category_color,omitempty"`
}

type AuditLog struct {
	ID          string    `db:"id" json:"id"`
	ActorUserID *string   `db:"actor_user_id" json:"actor_user_id,omitempty"`
	Action      string    `db:"action" json:"action"`
	EntityType  string    `db:"entity_type" json:"entity_type"`
	EntityID    string    `db:"entity_id" json:"entity_id"`
	Data        string    `db:"data" json:"data"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func ValidEntryType(value string) bool {
	return value == EntryTypeIncome || value == EntryTypeExpense
}

func ValidPaymentMode(value string) bool {
	switch value {
	case PaymentCash, PaymentUPI, PaymentCard, PaymentBankTransfer, PaymentOther:
		return true
	}
	return false
}

// CategoryName resolves a category id against a set of categories, falling
// back to UncategorizedName for unknown ids.
func CategoryName(categories []Category, id string) string {
	for _, category := range categories {
		if category.ID == id {
			return category.Name
		}
	}
	return UncategorizedName
}

// FindCategory looks a category up by name, ignoring case.
func FindCategory(categories []Category, name string) (Category, bool) {
	for _, category := range categories {
		if strings.EqualFold(category.Name, name) {
			return category, true
		}
	}
	return Category{}, false
}

// FindBook looks a book up by name, ignoring case.
func FindBook(books []BookOverview, name string) (BookOverview, bool) {
	for _, book := range books {
		if strings.EqualFold(book.Name, name) {
			return book, true
		}
	}
	return BookOverview{}, false
}
