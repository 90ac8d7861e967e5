package whatsapp

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"cashbook/internal/models"
	"cashbook/internal/services"
	"cashbook/internal/validator"

	"go.uber.org/zap"
)

const senderPrefix = "whatsapp:"

type ProfileFinder interface {
	GetByWhatsAppPhone(ctx context.Context, phone string) (models.UserProfile, error)
}

type Ledger interface {
	ListBooks(ctx context.Context, userID string) ([]models.BookOverview, error)
	ResolveCategory(ctx context.Context, userID, bookID, name string) (models.Category, bool, error)
	CreateEntry(ctx context.Context, userID string, input services.EntryInput) (services.EntryResult, error)
}

// Processor turns one inbound message into at most one entry and always
// produces a reply text, never an error.
type Processor struct {
	profiles ProfileFinder
	ledger   Ledger
	logger   *zap.Logger
	slow     time.Duration
	now      func() time.Time
}

func NewProcessor(profiles ProfileFinder, ledger Ledger, logger *zap.Logger, slow time.Duration) *Processor {
	return &Processor{profiles: profiles, ledger: ledger, logger: logger, slow: slow, now: time.Now}
}

// SenderPhone strips the transport prefix from a From value.
func SenderPhone(from string) string {
	return strings.TrimPrefix(strings.TrimSpace(from), senderPrefix)
}

func (p *Processor) Handle(ctx context.Context, from, body string) (reply string) {
	start := p.now()
	phone := SenderPhone(from)
	log := p.logger.With(zap.String("phone", phone))

	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error("whatsapp message panicked", zap.Any("panic", recovered), zap.String("body", body))
			reply = MsgGenericError
		}
		elapsed := p.now().Sub(start)
		if p.slow > 0 && elapsed > p.slow {
			log.Warn("whatsapp message processing slow", zap.Duration("elapsed", elapsed), zap.Duration("budget", p.slow))
			return
		}
		log.Info("whatsapp message processed", zap.Duration("elapsed", elapsed))
	}()

	profile, err := p.profiles.GetByWhatsAppPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("whatsapp sender not linked")
			return MsgNotRegistered
		}
		log.Error("whatsapp profile lookup failed", zap.Error(err))
		return MsgGenericError
	}
	userID := profile.UserID
	log = log.With(zap.String("user_id", userID))

	cmd, err := ParseCommand(body)
	if err != nil {
		return p.parseErrorReply(log, err)
	}

	books, err := p.ledger.ListBooks(ctx, userID)
	if err != nil {
		log.Error("whatsapp list books failed", zap.Error(err))
		return MsgGenericError
	}
	if len(books) == 0 {
		return MsgNoBooks
	}
	book, ok := models.FindBook(books, cmd.Book)
	if !ok {
		return bookNotFoundMessage(cmd.Book, books)
	}

	fields := []zap.Field{
		zap.String("book_id", book.ID),
		zap.String("category", cmd.Category),
		zap.String("type", cmd.Type),
		zap.String("amount", cmd.Amount.String()),
		zap.Stringp("payment_mode", cmd.PaymentMode),
	}
	category, created, err := p.ledger.ResolveCategory(ctx, userID, book.ID, cmd.Category)
	if errors.Is(err, validator.ErrInvalidCategory) {
		log.Info("whatsapp category rejected", fields...)
		return invalidCategoryMessage(cmd.Category)
	}
	if err != nil {
		log.Error("whatsapp category resolve failed", append(fields, zap.Error(err))...)
		return MsgEntryFailed
	}
	if created {
		log.Info("whatsapp created category", zap.String("category_id", category.ID), zap.String("name", category.Name))
	}

	result, err := p.ledger.CreateEntry(ctx, userID, services.EntryInput{
		BookID:      book.ID,
		CategoryID:  category.ID,
		Type:        cmd.Type,
		Amount:      cmd.Amount,
		Description: cmd.Description,
		PaymentMode: cmd.PaymentMode,
	})
	if err != nil {
		log.Error("whatsapp entry create failed", append(fields, zap.Error(err))...)
		return MsgEntryFailed
	}
	log.Info("whatsapp entry created", zap.String("entry_id", result.Entry.ID), zap.String("balance", result.Balance.String()))
	return successMessage(cmd, result.Book, category, result.Balance)
}

func (p *Processor) parseErrorReply(log *zap.Logger, err error) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		log.Error("whatsapp parse failed", zap.Error(err))
		return MsgGenericError
	}
	log.Info("whatsapp message rejected", zap.Error(err), zap.Int("segments", len(parseErr.Segments)))
	switch {
	case errors.Is(err, ErrTooFewSegments):
		return MsgFormatHelp
	case errors.Is(err, ErrInvalidType):
		return invalidTypeMessage(parseErr)
	case errors.Is(err, ErrInvalidAmount):
		return invalidAmountMessage(parseErr)
	case errors.Is(err, ErrMissingCategory):
		return missingCategoryMessage(parseErr)
	}
	return MsgGenericError
}
