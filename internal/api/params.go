package api

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter helpers. The API's serialization conventions are:
// integers as decimal, omitted when zero; booleans as "1" when true and
// omitted when false; string lists comma-joined. The one exception to
// the boolean rule lives at its call site (see ItemsOptions.Clean).

// AddInt sets key to a decimal integer, omitting zero values.
func AddInt(q url.Values, key string, value int) {
	if value != 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

// AddBool sets key to "1" when value is true and omits it otherwise.
func AddBool(q url.Values, key string, value bool) {
	if value {
		q.Set(key, "1")
	}
}

// AddExplicitBool always sets key, serializing false as "0". Used only
// for flags whose server-side default is true.
func AddExplicitBool(q url.Values, key string, value bool) {
	if value {
		q.Set(key, "1")
	} else {
		q.Set(key, "0")
	}
}

// AddString sets key to value, omitting empty strings.
func AddString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// AddCSV sets key to a comma-joined list, omitting empty lists.
func AddCSV(q url.Values, key string, values []string) {
	if len(values) > 0 {
		q.Set(key, strings.Join(values, ","))
	}
}
