package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/storefront/merchant-admin/internal/domain"
)

var (
	errNotInteger = errors.New("must be an integer")
	errNotString  = errors.New("must be a string")
	errNotDate    = errors.New("must be a valid date")

	titleCaser = cases.Title(language.English)
)

// whitelist copies only the allowed keys of input. Keys holding JSON null
// are treated as absent.
func whitelist(input map[string]any, allowed ...string) map[string]any {
	out := make(map[string]any, len(allowed))
	for _, key := range allowed {
		if v, ok := input[key]; ok && v != nil {
			out[key] = v
		}
	}

	return out
}

// parseInt converts a decoded JSON value to an int. Strings must hold a
// base 10 integer and numbers must have no fractional part.
func parseInt(v any) (int, error) {
	switch t := v.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, errNotInteger
		}
		return n, nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, errNotInteger
		}
		return floatToInt(f)
	case float64:
		return floatToInt(t)
	case float32:
		return floatToInt(float64(t))
	case bool:
		return 0, errNotInteger
	default:
		n, err := cast.ToIntE(v)
		if err != nil {
			return 0, errNotInteger
		}
		return n, nil
	}
}

func floatToInt(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errNotInteger
	}
	if f < float64(math.MinInt) || f >= float64(math.MaxInt) {
		return 0, errNotInteger
	}

	return int(f), nil
}

func parseString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case json.Number:
		return t.String(), nil
	default:
		return "", errNotString
	}
}

// parseDate accepts the common date layouts and returns YYYY-MM-DD.
func parseDate(v any) (string, error) {
	s, err := parseString(v)
	if err != nil || s == "" {
		return "", errNotDate
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return "", errNotDate
	}

	return t.Format(domain.DateLayout), nil
}

// normalizeCategory maps "electronics", "ELECTRONICS" etc. to the
// canonical category name. Unknown values are returned title-cased and
// rejected later by validation.
func normalizeCategory(v any) (string, error) {
	s, err := parseString(v)
	if err != nil {
		return "", err
	}

	return titleCaser.String(strings.ToLower(s)), nil
}

// parseID extracts a non-empty resource identifier.
func parseID(v any) (string, bool) {
	var id string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		id = strings.TrimSpace(t)
	case json.Number:
		id = t.String()
	case float64:
		id = strconv.FormatFloat(t, 'f', -1, 64)
	case int, int32, int64, uint, uint32, uint64:
		s, err := cast.ToStringE(t)
		if err != nil {
			return "", false
		}
		id = strings.TrimSpace(s)
	}

	return id, id != ""
}

func parseDay(s string) (time.Time, error) {
	t, err := dateparse.ParseAny(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("dateparse.ParseAny -> %w", err)
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// coercer accumulates per-field conversion failures.
type coercer struct {
	errs map[string]string
}

func (c *coercer) fail(field string, err error) {
	if c.errs == nil {
		c.errs = make(map[string]string)
	}
	c.errs[field] = err.Error()
}

func (c *coercer) int(input map[string]any, field string) *int {
	v, ok := input[field]
	if !ok {
		return nil
	}
	n, err := parseInt(v)
	if err != nil {
		c.fail(field, err)
		return nil
	}

	return &n
}

func (c *coercer) string(input map[string]any, field string) *string {
	v, ok := input[field]
	if !ok {
		return nil
	}
	s, err := parseString(v)
	if err != nil {
		c.fail(field, err)
		return nil
	}

	return &s
}

func (c *coercer) date(input map[string]any, field string) *string {
	v, ok := input[field]
	if !ok {
		return nil
	}
	s, err := parseDate(v)
	if err != nil {
		c.fail(field, err)
		return nil
	}

	return &s
}

func (c *coercer) category(input map[string]any, field string) *string {
	v, ok := input[field]
	if !ok {
		return nil
	}
	s, err := normalizeCategory(v)
	if err != nil {
		c.fail(field, err)
		return nil
	}

	return &s
}

func (c *coercer) err() error {
	if len(c.errs) == 0 {
		return nil
	}

	return &ValidationError{Fields: c.errs}
}
