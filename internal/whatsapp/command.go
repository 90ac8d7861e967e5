package whatsapp

import (
	"errors"
	"strings"

	"cashbook/internal/models"
	"cashbook/internal/money"

	"github.com/shopspring/decimal"
)

// MinSegments is book, type, amount and category.
const MinSegments = 4

var (
	ErrTooFewSegments  = errors.New("message needs at least book, type, amount and category")
	ErrInvalidType     = errors.New("type must be income or expense")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrMissingCategory = errors.New("category is required")
)

// Command is one parsed ledger message:
//
//	BookName, income|expense, amount, category [, paymentMode [, description]]
type Command struct {
	Book        string
	Type        string
	Amount      decimal.Decimal
	Category    string
	PaymentMode *string
	Description string
}

// ParseError reports why a message was rejected. Segments holds the trimmed
// comma-separated input so replies can echo it back.
type ParseError struct {
	Err      error
	Segments []string
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) segment(i int) string {
	if i < len(e.Segments) {
		return e.Segments[i]
	}
	return ""
}

// ParseCommand splits body on commas and validates segment count, type,
// amount and category in that order. Description segments past the sixth are
// joined back so commas inside a description survive.
func ParseCommand(body string) (Command, error) {
	raw := strings.Split(body, ",")
	segments := make([]string, len(raw))
	for i, part := range raw {
		segments[i] = strings.TrimSpace(part)
	}
	if len(segments) < MinSegments {
		return Command{}, &ParseError{Err: ErrTooFewSegments, Segments: segments}
	}

	cmd := Command{
		Book:     segments[0],
		Type:     strings.ToLower(segments[1]),
		Category: segments[3],
	}
	if !models.ValidEntryType(cmd.Type) {
		return Command{}, &ParseError{Err: ErrInvalidType, Segments: segments}
	}
	amount, err := money.ParseAmount(segments[2])
	if err != nil {
		return Command{}, &ParseError{Err: ErrInvalidAmount, Segments: segments}
	}
	cmd.Amount = amount
	if cmd.Category == "" {
		return Command{}, &ParseError{Err: ErrMissingCategory, Segments: segments}
	}

	if len(segments) > 4 {
		cmd.PaymentMode = NormalizePaymentMode(segments[4])
	}
	cmd.Description = cmd.Category
	for len(segments) > 5 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	if len(segments) > 5 {
		if description := strings.TrimSpace(strings.Join(segments[5:], ", ")); description != "" {
			cmd.Description = description
		}
	}
	return cmd, nil
}

var paymentSynonyms = map[string]string{
	"bank":          models.PaymentBankTransfer,
	"banktransfer":  models.PaymentBankTransfer,
	"bank transfer": models.PaymentBankTransfer,
	"bank_transfer": models.PaymentBankTransfer,
	"neft":          models.PaymentBankTransfer,
	"imps":          models.PaymentBankTransfer,
	"rtgs":          models.PaymentBankTransfer,
	"credit card":   models.PaymentCard,
	"debit card":    models.PaymentCard,
	"creditcard":    models.PaymentCard,
	"debitcard":     models.PaymentCard,
}

// NormalizePaymentMode maps a free-text payment token onto the stored set.
// An empty token means no payment mode; unknown tokens become "other".
func NormalizePaymentMode(token string) *string {
	mode := strings.ToLower(strings.TrimSpace(token))
	if mode == "" {
		return nil
	}
	if mapped, ok := paymentSynonyms[mode]; ok {
		mode = mapped
	}
	if !models.ValidPaymentMode(mode) {
		mode = models.PaymentOther
	}
	return &mode
}
