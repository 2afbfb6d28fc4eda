package viewmodel

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/aarondl/opt/omit"
)

func object(value any) map[string]any {
	if m, ok := value.(map[string]any); ok {
		return m
	}
	return nil
}

func array(value any) []any {
	if a, ok := value.([]any); ok {
		return a
	}
	return nil
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func numberOr(value any, fallback float64) float64 {
	if f, ok := number(value); ok {
		return f
	}
	return fallback
}

func intOr(value any, fallback int) int {
	if f, ok := number(value); ok {
		return int(f)
	}
	return fallback
}

// text accepts strings and numbers; empty strings count as absent.
func text(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	case int64:
		return strconv.FormatInt(v, 10), true
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	}
	return "", false
}

func textOr(value any, fallback string) string {
	if s, ok := text(value); ok {
		return s
	}
	return fallback
}

func boolean(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	if f, ok := number(value); ok {
		return f != 0
	}
	return false
}

func wholeNumber(value any) omit.Val[int] {
	if f, ok := number(value); ok {
		return omit.From(int(f))
	}
	return omit.Val[int]{}
}

// coordinate is any optional float; used for geometry and train measurements alike.
func coordinate(value any) omit.Val[float64] {
	if f, ok := number(value); ok {
		return omit.From(f)
	}
	return omit.Val[float64]{}
}
