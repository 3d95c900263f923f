package crawlpoint

import (
	"os"

	"github.com/crawlpoint/client-go/internal/api"
)

// EnvToken is the environment variable consulted for the API token when
// New is called with an empty token.
const EnvToken = "CRAWLPOINT_TOKEN"

// Client is the main Crawlpoint client. It is safe for concurrent use;
// every call builds its own retry state.
type Client struct {
	apiClient *api.Client
}

// New creates a new Crawlpoint client. When token is empty, the
// CRAWLPOINT_TOKEN environment variable is used instead.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		token = os.Getenv(EnvToken)
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	cfg := &clientConfig{
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiOpts := []api.Option{
		api.WithBaseURL(cfg.baseURL),
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.maxRetries != nil {
		apiOpts = append(apiOpts, api.WithMaxRetries(*cfg.maxRetries))
	}
	if cfg.minRetryDelay > 0 {
		apiOpts = append(apiOpts, api.WithMinRetryDelay(cfg.minRetryDelay))
	}
	if cfg.logger != nil {
		apiOpts = append(apiOpts, api.WithLogger(*cfg.logger))
	}

	apiClient, err := api.New(token, apiOpts...)
	if err != nil {
		return nil, err
	}

	if cfg.httpClient != nil {
		httpClient := cfg.httpClient
		if cfg.timeout > 0 {
			clone := *httpClient
			clone.Timeout = cfg.timeout
			httpClient = &clone
		}
		apiClient.SetHTTPClient(httpClient)
	}

	return &Client{apiClient: apiClient}, nil
}

// Datasets returns the client for the dataset collection.
func (c *Client) Datasets() *DatasetCollection {
	return &DatasetCollection{api: c.apiClient}
}

// Dataset returns the client for a single dataset.
func (c *Client) Dataset(id string) *DatasetClient {
	return &DatasetClient{api: c.apiClient, id: id}
}

// KeyValueStores returns the client for the key-value store collection.
func (c *Client) KeyValueStores() *KeyValueStoreCollection {
	return &KeyValueStoreCollection{api: c.apiClient}
}

// KeyValueStore returns the client for a single key-value store.
func (c *Client) KeyValueStore(id string) *KeyValueStoreClient {
	return &KeyValueStoreClient{api: c.apiClient, id: id}
}

// RequestQueues returns the client for the request queue collection.
func (c *Client) RequestQueues() *RequestQueueCollection {
	return &RequestQueueCollection{api: c.apiClient}
}

// RequestQueue returns the client for a single request queue.
func (c *Client) RequestQueue(id string) *RequestQueueClient {
	return newRequestQueueClient(c.apiClient, id)
}

// Log returns the client for a crawl run's log.
func (c *Client) Log(runID string) *LogClient {
	return &LogClient{api: c.apiClient, runID: runID}
}

// Webhooks returns the client for the webhook collection.
func (c *Client) Webhooks() *WebhookCollection {
	return &WebhookCollection{api: c.apiClient}
}

// Webhook returns the client for a single webhook.
func (c *Client) Webhook(id string) *WebhookClient {
	return &WebhookClient{api: c.apiClient, id: id}
}

// WebhookDispatches returns the client for the webhook dispatch
// collection.
func (c *Client) WebhookDispatches() *WebhookDispatchCollection {
	return &WebhookDispatchCollection{api: c.apiClient}
}

// WebhookDispatch returns the client for a single webhook dispatch.
func (c *Client) WebhookDispatch(id string) *WebhookDispatchClient {
	return &WebhookDispatchClient{api: c.apiClient, id: id}
}
