package crawlpoint

import (
	"context"
	"net/http"
	"net/url"

	"github.com/crawlpoint/client-go/internal/api"
	"github.com/crawlpoint/client-go/internal/apierrors"
)

// LogClient reads the plain-text log of a crawl run.
type LogClient struct {
	api   *api.Client
	runID string
}

// Get returns the full log text. A run without a log yields an empty
// string, not an error.
func (l *LogClient) Get(ctx context.Context) (string, error) {
	body, err := l.GetRaw(ctx)
	return string(body), err
}

// GetRaw returns the full log as raw bytes, or nil when the run has no
// log.
func (l *LogClient) GetRaw(ctx context.Context) ([]byte, error) {
	if err := requireID("run ID", l.runID); err != nil {
		return nil, err
	}
	body, err := l.api.DoRaw(ctx, http.MethodGet, "/logs/"+url.PathEscape(l.runID), nil)
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceLog)
	}
	return body, nil
}
