package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cashbook/internal/money"

	"github.com/shopspring/decimal"
)

const (
	dateLayout   = "2006-01-02"
	defaultLimit = 50
	maxLimit     = 200
)

var (
	errInvalidDate    = errors.New("date must be YYYY-MM-DD")
	errInvalidPayload = errors.New("invalid payload")
)

func parseAmount(raw json.Number) (decimal.Decimal, error) {
	return money.ParseAmount(raw.String())
}

// parseDate accepts an empty string as "no date".
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return parsed, nil
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return limit, (page - 1) * limit
}
