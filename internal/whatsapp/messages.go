package whatsapp

import (
	"fmt"
	"strings"

	"cashbook/internal/models"
	"cashbook/internal/money"
	"cashbook/internal/validator"

	"github.com/shopspring/decimal"
)

const (
	MsgNotRegistered = "❌ *Not Registered*\n\n" +
		"Your WhatsApp number is not linked to any account.\n\n" +
		"📝 Please:\n" +
		"1. Log in to the app\n" +
		"2. Go to Settings\n" +
		"3. Link your WhatsApp number"

	MsgFormatHelp = "❌ *Invalid Format*\n\n" +
		"📋 Please use this format:\n" +
		"*BookName, income/expense, amount, category, payment mode, description*\n\n" +
		"📝 Examples:\n" +
		"• Personal, income, 5000, Salary, Bank, Monthly salary\n" +
		"• Business, expense, 200, Food, Cash, Lunch\n" +
		"• Home, expense, 1500, Rent, UPI, January rent\n\n" +
		"💡 Payment Modes:\n" +
		"• Cash, UPI, Card, Bank (transfer), Other\n\n" +
		"💡 Tips:\n" +
		"• Payment mode is optional\n" +
		"• Description is optional\n" +
		"• Minimum: BookName, type, amount, category"

	MsgNoBooks = "❌ *No Books Found*\n\n" +
		"You don't have any books yet.\n\n" +
		"📝 Please create a book in the app first."

	MsgEntryFailed = "❌ *Error Creating Entry*\n\n" +
		"Failed to save the entry. Please try again."

	MsgGenericError = "❌ *Error*\n\n" +
		"Something went wrong. Please try again.\n\n" +
		"If this persists, contact support."

	MsgMissingSignature = "Unauthorized request: Missing signature"
	MsgInvalidSignature = "Unauthorized request: Invalid signature"
)

func invalidTypeMessage(e *ParseError) string {
	return "❌ *Invalid Type*\n\n" +
		"Type must be either \"income\" or \"expense\"\n\n" +
		"You sent: \"" + e.segment(1) + "\"\n\n" +
		"📝 Example:\n" +
		fmt.Sprintf("%s, *income*, %s, %s", e.segment(0), e.segment(2), e.segment(3))
}

func invalidAmountMessage(e *ParseError) string {
	return "❌ *Invalid Amount*\n\n" +
		"Amount must be a positive number\n\n" +
		"📝 Example:\n" +
		fmt.Sprintf("%s, %s, *500*, %s", e.segment(0), strings.ToLower(e.segment(1)), e.segment(3))
}

func missingCategoryMessage(e *ParseError) string {
	return "❌ *Category Required*\n\n" +
		"The fourth part of your message must name a category\n\n" +
		"📝 Example:\n" +
		fmt.Sprintf("%s, %s, %s, *Salary*", e.segment(0), strings.ToLower(e.segment(1)), e.segment(2))
}

func invalidCategoryMessage(name string) string {
	return "❌ *Invalid Category*\n\n" +
		fmt.Sprintf("Category names must be 1 to %d characters without commas\n\n", validator.MaxCategoryName) +
		fmt.Sprintf("You sent: %q\n\n", name) +
		"💡 Use a shorter category name"
}

func bookNotFoundMessage(name string, books []models.BookOverview) string {
	names := make([]string, len(books))
	for i, book := range books {
		names[i] = "• " + book.Name
	}
	return "❌ *Book Not Found*\n\n" +
		fmt.Sprintf("%q doesn't exist.\n\n", name) +
		"📚 Your books:\n" + strings.Join(names, "\n") + "\n\n" +
		"💡 Use the exact book name"
}

func successMessage(cmd Command, book models.Book, category models.Category, balance decimal.Decimal) string {
	icon, sign := "💸", "-"
	if cmd.Type == models.EntryTypeIncome {
		icon, sign = "💰", "+"
	}
	var b strings.Builder
	b.WriteString("✅ *Entry Added!*\n\n")
	fmt.Fprintf(&b, "%s *%s*: %s%s%s\n", icon, strings.ToUpper(cmd.Type[:1])+cmd.Type[1:], sign, money.Symbol(book.Currency), money.Format(cmd.Amount))
	fmt.Fprintf(&b, "📚 Book: %s\n", book.Name)
	fmt.Fprintf(&b, "🏷️ Category: %s\n", category.Name)
	if cmd.PaymentMode != nil {
		fmt.Fprintf(&b, "💳 Payment: %s\n", *cmd.PaymentMode)
	}
	fmt.Fprintf(&b, "📝 Description: %s\n\n", cmd.Description)
	fmt.Fprintf(&b, "💼 New Balance: %s", money.Display(book.Currency, balance))
	return b.String()
}
