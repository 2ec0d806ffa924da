package migrate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Helpers for reading loosely-typed legacy rows scanned into maps. The legacy
// store was sqlite, so column values arrive as int64/float64/string/time.Time
// depending on what was written.

func int64Field(row map[string]any, key string) (int64, error) {
	switch v := row[key].(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("column %q has unexpected type %T", key, row[key])
	}
}

func stringField(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	if v, ok := row[key].([]byte); ok {
		return string(v)
	}
	return ""
}

func optStringField(row map[string]any, key string) *string {
	if row[key] == nil {
		return nil
	}
	s := stringField(row, key)
	if s == "" {
		return nil
	}
	return &s
}

func boolField(row map[string]any, key string) bool {
	switch v := row[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

func timeField(row map[string]any, key string) time.Time {
	if t := parseTimeValue(row[key]); t != nil {
		return *t
	}
	return time.Time{}
}

func optTimeField(row map[string]any, key string) *time.Time {
	return parseTimeValue(row[key])
}

func parseTimeValue(value any) *time.Time {
	switch v := value.(type) {
	case time.Time:
		return &v
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
		return nil
	default:
		return nil
	}
}

func decimalField(row map[string]any, key string) decimal.Decimal {
	switch v := row[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.Zero
}
