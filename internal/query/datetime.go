package query

import (
	"encoding/json"
	"math"
	"time"
)

// NormalizeTime converts the heterogeneous date representations seen
// in filter input into a concrete instant. Strings are parsed as
// RFC 3339, maps carrying a numeric "_seconds" entry are read as
// epoch seconds, and time.Time values pass through unchanged. Any
// other input yields nil; absence of a valid date is never an error.
func NormalizeTime(input any) *time.Time {
	switch v := input.(type) {
	case time.Time:
		return &v
	case *time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return &t
		}
		return nil
	case map[string]any:
		if t, ok := epochSeconds(v["_seconds"]); ok {
			return &t
		}
		return nil
	default:
		return nil
	}
}

func epochSeconds(value any) (time.Time, bool) {
	switch n := value.(type) {
	case float64:
		sec, frac := math.Modf(n)
		return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC(), true
	case int:
		return time.Unix(int64(n), 0).UTC(), true
	case int64:
		return time.Unix(n, 0).UTC(), true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return epochSeconds(f)
		}
	}
	return time.Time{}, false
}
