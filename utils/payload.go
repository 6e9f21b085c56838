package utils

import (
	"strconv"
	"strings"
	"time"
)

// The game API has drifted its field names over the years, so readers ask
// for the first usable value across the known aliases. A key counts as
// present when it exists, is non-nil, and is not an empty string.

func FirstValue(m map[string]any, keys ...string) any {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v
	}
	return nil
}

func FirstString(m map[string]any, keys ...string) string {
	return AsString(FirstValue(m, keys...))
}

func FirstFloat(m map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		if f := AsFloat(m[key]); f != nil {
			return f
		}
	}
	return nil
}

func FirstInt(m map[string]any, keys ...string) *int {
	for _, key := range keys {
		if n := AsInt(m[key]); n != nil {
			return n
		}
	}
	return nil
}

func AsString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	}
	return ""
}

// AsFloat coerces JSON numbers and numeric strings. Anything else is nil.
func AsFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

func AsInt(v any) *int {
	f := AsFloat(v)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime reads the timestamp formats the API has been seen to emit.
// Returned times are UTC; unparseable input yields nil.
func ParseTime(v any) *time.Time {
	s := strings.TrimSpace(AsString(v))
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}
