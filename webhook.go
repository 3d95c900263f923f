package crawlpoint

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/crawlpoint/client-go/internal/api"
	"github.com/crawlpoint/client-go/internal/apierrors"
)

// WebhookEventType identifies the platform event that triggers a
// webhook.
type WebhookEventType string

// Webhook event types.
const (
	EventRunCreated   WebhookEventType = "run.created"
	EventRunSucceeded WebhookEventType = "run.succeeded"
	EventRunFailed    WebhookEventType = "run.failed"
	EventRunAborted   WebhookEventType = "run.aborted"
	EventRunTimedOut  WebhookEventType = "run.timed_out"
)

// Webhook notifies an external endpoint about platform events.
type Webhook struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId"`
	RequestURL      string             `json:"requestUrl"`
	EventTypes      []WebhookEventType `json:"eventTypes"`
	PayloadTemplate string             `json:"payloadTemplate,omitempty"`
	IsAdHoc         bool               `json:"isAdHoc"`
	IgnoreSSLErrors bool               `json:"ignoreSslErrors"`
	CreatedAt       time.Time          `json:"createdAt"`
	ModifiedAt      time.Time          `json:"modifiedAt"`
	LastRunAt       *time.Time         `json:"lastRunAt,omitempty"`
	Stats           *WebhookStats      `json:"stats,omitempty"`
}

// WebhookStats summarizes a webhook's delivery history.
type WebhookStats struct {
	TotalDispatches int64 `json:"totalDispatches"`
}

// WebhookSpec describes a webhook to create or the fields to change on
// update.
type WebhookSpec struct {
	RequestURL      string             `json:"requestUrl,omitempty"`
	EventTypes      []WebhookEventType `json:"eventTypes,omitempty"`
	PayloadTemplate string             `json:"payloadTemplate,omitempty"`
	IgnoreSSLErrors bool               `json:"ignoreSslErrors,omitempty"`
}

// WebhookCollection operates on the account's webhooks.
type WebhookCollection struct {
	api *api.Client
}

// List returns a page of webhooks.
func (wc *WebhookCollection) List(ctx context.Context, opts ListOptions) (*Page[Webhook], error) {
	var page Page[Webhook]
	if err := wc.api.Do(ctx, http.MethodGet, "/webhooks", opts.query(), nil, &page); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceWebhook)
	}
	return &page, nil
}

// Create registers a new webhook.
func (wc *WebhookCollection) Create(ctx context.Context, spec WebhookSpec) (*Webhook, error) {
	if err := requireID("webhook request URL", spec.RequestURL); err != nil {
		return nil, err
	}
	if len(spec.EventTypes) == 0 {
		return nil, &InvalidInputError{Param: "eventTypes", Reason: "must contain at least one event type"}
	}

	var webhook Webhook
	if err := wc.api.Do(ctx, http.MethodPost, "/webhooks", nil, spec, &webhook); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceWebhook)
	}
	return &webhook, nil
}

// WebhookClient operates on a single webhook.
type WebhookClient struct {
	api *api.Client
	id  string
}

func (w *WebhookClient) path(suffix string) string {
	return "/webhooks/" + url.PathEscape(w.id) + suffix
}

// Get returns the webhook, or nil when it does not exist.
func (w *WebhookClient) Get(ctx context.Context) (*Webhook, error) {
	if err := requireID("webhook ID", w.id); err != nil {
		return nil, err
	}
	var webhook Webhook
	err := w.api.Do(ctx, http.MethodGet, w.path(""), nil, nil, &webhook)
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceWebhook)
	}
	return &webhook, nil
}

// Update changes the webhook's fields and returns the updated webhook.
func (w *WebhookClient) Update(ctx context.Context, spec WebhookSpec) (*Webhook, error) {
	if err := requireID("webhook ID", w.id); err != nil {
		return nil, err
	}
	var webhook Webhook
	if err := w.api.Do(ctx, http.MethodPut, w.path(""), nil, spec, &webhook); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceWebhook)
	}
	return &webhook, nil
}

// Delete removes the webhook. Deleting a webhook that does not exist is
// not an error.
func (w *WebhookClient) Delete(ctx context.Context) error {
	if err := requireID("webhook ID", w.id); err != nil {
		return err
	}
	err := w.api.Do(ctx, http.MethodDelete, w.path(""), nil, nil, nil)
	if apierrors.IsNotFound(err) {
		return nil
	}
	return apierrors.WithResourceType(err, apierrors.ResourceWebhook)
}

// Test sends a sample event through the webhook and returns the
// resulting dispatch.
func (w *WebhookClient) Test(ctx context.Context) (*WebhookDispatch, error) {
	if err := requireID("webhook ID", w.id); err != nil {
		return nil, err
	}
	var dispatch WebhookDispatch
	if err := w.api.Do(ctx, http.MethodPost, w.path("/test"), nil, nil, &dispatch); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceWebhook)
	}
	return &dispatch, nil
}

// Dispatches returns a page of this webhook's dispatches.
func (w *WebhookClient) Dispatches(ctx context.Context, opts ListOptions) (*Page[WebhookDispatch], error) {
	if err := requireID("webhook ID", w.id); err != nil {
		return nil, err
	}
	var page Page[WebhookDispatch]
	if err := w.api.Do(ctx, http.MethodGet, w.path("/dispatches"), opts.query(), nil, &page); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceWebhookDispatch)
	}
	return &page, nil
}
