package crawlpoint

import (
	"net/url"

	"github.com/crawlpoint/client-go/internal/api"
)

// ListOptions are the pagination and filter parameters shared by all
// list operations.
type ListOptions struct {
	// Limit caps the number of returned records. 0 means server default.
	Limit int
	// Offset skips the first records of the result set.
	Offset int
	// Desc reverses the sort order (newest first).
	Desc bool
	// Unnamed includes unnamed resources, which are hidden by default.
	Unnamed bool
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	api.AddInt(q, "limit", o.Limit)
	api.AddInt(q, "offset", o.Offset)
	api.AddBool(q, "desc", o.Desc)
	api.AddBool(q, "unnamed", o.Unnamed)
	return q
}

// Page is the envelope returned by list operations: the records of the
// requested slice plus pagination counters.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Offset int64 `json:"offset"`
	Limit  int64 `json:"limit"`
	Count  int64 `json:"count"`
	Desc   bool  `json:"desc"`
}

// Bool returns a pointer to v, for optional boolean fields such as
// ItemsOptions.Clean.
func Bool(v bool) *bool {
	return &v
}
