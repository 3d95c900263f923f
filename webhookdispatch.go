package crawlpoint

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/crawlpoint/client-go/internal/api"
	"github.com/crawlpoint/client-go/internal/apierrors"
)

// WebhookDispatchStatus is the delivery state of a dispatch.
type WebhookDispatchStatus string

// Dispatch statuses.
const (
	DispatchActive    WebhookDispatchStatus = "active"
	DispatchSucceeded WebhookDispatchStatus = "succeeded"
	DispatchFailed    WebhookDispatchStatus = "failed"
)

// WebhookDispatch records one delivery attempt series of a webhook.
// Dispatches are created by the platform and are read-only.
type WebhookDispatch struct {
	ID        string                `json:"id"`
	WebhookID string                `json:"webhookId"`
	UserID    string                `json:"userId"`
	EventType WebhookEventType      `json:"eventType"`
	Status    WebhookDispatchStatus `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
	Calls     []WebhookDispatchCall `json:"calls,omitempty"`
}

// WebhookDispatchCall is a single HTTP delivery attempt of a dispatch.
type WebhookDispatchCall struct {
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	ResponseStatus int       `json:"responseStatus,omitempty"`
}

// WebhookDispatchCollection operates on the account's webhook
// dispatches.
type WebhookDispatchCollection struct {
	api *api.Client
}

// List returns a page of dispatches across all webhooks.
func (dc *WebhookDispatchCollection) List(ctx context.Context, opts ListOptions) (*Page[WebhookDispatch], error) {
	var page Page[WebhookDispatch]
	if err := dc.api.Do(ctx, http.MethodGet, "/webhook-dispatches", opts.query(), nil, &page); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceWebhookDispatch)
	}
	return &page, nil
}

// WebhookDispatchClient operates on a single webhook dispatch.
type WebhookDispatchClient struct {
	api *api.Client
	id  string
}

// Get returns the dispatch, or nil when it does not exist.
func (d *WebhookDispatchClient) Get(ctx context.Context) (*WebhookDispatch, error) {
	if err := requireID("dispatch ID", d.id); err != nil {
		return nil, err
	}
	var dispatch WebhookDispatch
	err := d.api.Do(ctx, http.MethodGet, "/webhook-dispatches/"+url.PathEscape(d.id), nil, nil, &dispatch)
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceWebhookDispatch)
	}
	return &dispatch, nil
}
