package api

import "time"

// maxDateDepth bounds the recursive date-coercion walk so pathological
// payloads cannot blow the stack.
const maxDateDepth = 10

// dateFields is the fixed allow-list of keys whose string values are
// coerced to time.Time. Keys outside this list are never touched, even
// when their values look like timestamps.
var dateFields = map[string]struct{}{
	"createdAt":  {},
	"modifiedAt": {},
	"accessedAt": {},
	"startedAt":  {},
	"finishedAt": {},
	"expiresAt":  {},
	"lastRunAt":  {},
}

// CoerceDates walks a decoded JSON value and converts allow-listed
// timestamp strings into time.Time values in place. Only maps and
// slices are followed. Strings that do not parse as RFC 3339 are left
// unmodified.
func CoerceDates(v any) any {
	return coerceDates(v, 0)
}

func coerceDates(v any, depth int) any {
	if depth > maxDateDepth {
		return v
	}

	switch val := v.(type) {
	case map[string]any:
		for key, inner := range val {
			if s, ok := inner.(string); ok {
				if _, listed := dateFields[key]; listed {
					if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
						val[key] = t
					}
					continue
				}
			}
			val[key] = coerceDates(inner, depth+1)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = coerceDates(inner, depth+1)
		}
		return val
	default:
		return v
	}
}
