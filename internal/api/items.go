package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// TotalCountHeader is the response header carrying the total number of
// items in the collection, independent of limit/offset.
const TotalCountHeader = "X-Crawlpoint-Total-Count"

// ItemsPage is the result of an item-retrieval call: the parsed records
// plus the collection total reported by the server.
type ItemsPage struct {
	Items []map[string]any
	Total int64
}

// ParseItems decodes an item-retrieval body into an ordered slice of
// records with allow-listed date fields coerced. The body is a JSON
// array of objects.
func ParseItems(body []byte) ([]map[string]any, error) {
	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	for _, item := range items {
		CoerceDates(item)
	}
	return items, nil
}

// isTruncated reports whether a JSON parse failure was caused by the
// body ending mid-document, which indicates an interrupted transfer
// rather than a malformed payload. Such failures are retryable.
func isTruncated(err error, body []byte) bool {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return int(syntaxErr.Offset) >= len(body)
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}
