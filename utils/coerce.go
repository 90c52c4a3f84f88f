package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// CoerceFloat converts a loosely typed JSON value (number or numeric string)
// to a float64. Unparseable values are dropped, not rejected.
func CoerceFloat(v interface{}) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return &t
	case float32:
		f := float64(t)
		return &f
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return &f
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// CoerceInt converts a loosely typed JSON value to an int. Fractional numbers
// and unparseable strings are dropped.
func CoerceInt(v interface{}) *int {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		if t == math.Trunc(t) {
			i := int(t)
			return &i
		}
	case int:
		return &t
	case int64:
		i := int(t)
		return &i
	case json.Number:
		if n, err := t.Int64(); err == nil {
			i := int(n)
			return &i
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return &n
		}
	}
	return nil
}

// ParseFlexibleTime parses a timestamp supplied by a client. RFC3339 is the
// canonical format; a couple of common date layouts are accepted as well.
func ParseFlexibleTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
