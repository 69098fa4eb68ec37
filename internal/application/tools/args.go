package tools

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/homeflow/internal/application/schedule"
	"github.com/zatekoja/homeflow/internal/domain/entities"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
)

// Args is the loosely-typed argument object of a tool call. Accessors never
// fail; a value of the wrong shape reads as absent.
type Args map[string]any

// ParseArgs decodes a JSON argument object. An empty body is an empty object.
func ParseArgs(raw []byte) (Args, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Args{}, nil
	}

	var args Args
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, apperrors.NewValidationError("Arguments must be a JSON object.")
	}
	if args == nil {
		args = Args{}
	}
	return args, nil
}

// Has reports whether key is present, even with a null value
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns a string value
func (a Args) String(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// NonEmptyString returns a string value that is not blank
func (a Args) NonEmptyString(key string) (string, bool) {
	s, ok := a.String(key)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Object returns a nested object, or nil
func (a Args) Object(key string) Args {
	switch v := a[key].(type) {
	case map[string]any:
		return Args(v)
	case Args:
		return v
	}
	return nil
}

// Number returns a finite number given as a JSON number or a numeric string
func (a Args) Number(key string) (float64, bool) {
	var n float64
	switch v := a[key].(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ID returns a positive integer identifier given as a number or a string
func (a Args) ID(key string) (int64, bool) {
	switch v := a[key].(type) {
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	default:
		n, ok := a.Number(key)
		if !ok || n <= 0 || n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	}
}

// Ref returns a provider reference: a slug, or a numeric id rendered as a string
func (a Args) Ref(key string) (string, bool) {
	if s, ok := a.NonEmptyString(key); ok {
		return strings.TrimSpace(s), true
	}
	if id, ok := a.ID(key); ok {
		return strconv.FormatInt(id, 10), true
	}
	return "", false
}

// Bool returns a boolean value
func (a Args) Bool(key string) (bool, bool) {
	b, ok := a[key].(bool)
	return b, ok
}

// Instant parses an ISO-8601 timestamp; one without an offset is taken in the
// clock's zone. ok is false when the key is absent.
func (a Args) Instant(key string, clock schedule.BusinessClock) (t time.Time, ok bool, err error) {
	s, present := a.NonEmptyString(key)
	if !present {
		return time.Time{}, false, nil
	}
	parsed, parseErr := clock.ParseInstant(s)
	if parseErr != nil {
		return time.Time{}, true, apperrors.NewValidationError(key + " must be an ISO-8601 timestamp.")
	}
	return parsed, true, nil
}

// Map returns a nested object as a plain map, or nil
func (a Args) Map(key string) map[string]any {
	obj := a.Object(key)
	if obj == nil {
		return nil
	}
	return map[string]any(obj)
}

// Address decodes a nested address object
func (a Args) Address(key string) (*entities.Address, error) {
	obj := a.Object(key)
	if obj == nil {
		return nil, nil
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, apperrors.NewValidationError("address is invalid.")
	}
	var address entities.Address
	if err := json.Unmarshal(raw, &address); err != nil {
		return nil, apperrors.NewValidationError("address is invalid.")
	}
	return &address, nil
}
