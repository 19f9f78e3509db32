package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"xpense/internal/core"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// decodeJSON reads the request body into dst. Unknown fields are ignored to
// stay lenient with older clients.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", core.ErrValidation)
	}
	return nil
}

// parsePagination reads skip/limit query parameters. Skip defaults to 0,
// limit to 10 with a cap of 100; negative or malformed values are rejected.
func parsePagination(query url.Values) (skip, limit int, err error) {
	skip = 0
	limit = defaultLimit

	if v := strings.TrimSpace(query.Get("skip")); v != "" {
		skip, err = strconv.Atoi(v)
		if err != nil || skip < 0 {
			return 0, 0, fmt.Errorf("%w: skip must be a non-negative integer", core.ErrValidation)
		}
	}
	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxLimit {
			return 0, 0, fmt.Errorf("%w: limit must be between 1 and %d", core.ErrValidation, maxLimit)
		}
	}
	return skip, limit, nil
}

// parseActiveFlag reads the is_active query parameter, defaulting to true.
func parseActiveFlag(query url.Values) (bool, error) {
	v := strings.TrimSpace(query.Get("is_active"))
	if v == "" {
		return true, nil
	}
	active, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: is_active must be a boolean", core.ErrValidation)
	}
	return active, nil
}

// parseDate accepts RFC 3339 timestamps or plain dates (2006-01-02).
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q, want RFC 3339 or YYYY-MM-DD", core.ErrValidation, value)
}

// parseDateRange reads optional from_date/to_date query parameters. A plain
// to_date is pushed to the end of that day so the range is inclusive.
func parseDateRange(query url.Values) (from, to time.Time, err error) {
	if v := query.Get("from_date"); strings.TrimSpace(v) != "" {
		from, err = parseDate(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if v := query.Get("to_date"); strings.TrimSpace(v) != "" {
		to, err = parseDate(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if !strings.Contains(v, "T") {
			to = to.AddDate(0, 0, 1).Add(-time.Microsecond)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to_date before from_date", core.ErrValidation)
	}
	return from, to, nil
}

func parseTransactionFilter(query url.Values) (core.TransactionFilter, error) {
	from, to, err := parseDateRange(query)
	if err != nil {
		return core.TransactionFilter{}, err
	}
	return core.TransactionFilter{
		AccountID:  strings.TrimSpace(query.Get("account_id")),
		CategoryID: strings.TrimSpace(query.Get("category_id")),
		Currency:   strings.TrimSpace(query.Get("currency")),
		From:       from,
		To:         to,
	}, nil
}
