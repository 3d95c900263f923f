// Package crawlpoint provides a Go client SDK for the Crawlpoint cloud
// crawling and scraping platform.
//
// The SDK is a thin, typed layer over the platform's REST API. Each
// resource (datasets, key-value stores, request queues, logs, webhooks,
// webhook dispatches) gets its own client with get/list/create/update/
// delete style methods. Transient failures (network errors, 429, 5xx)
// are retried with exponential backoff and jitter; 404 responses on
// reads translate to nil results instead of errors.
//
// Basic usage:
//
//	client, err := crawlpoint.New("your-api-token")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Get or create a named dataset
//	ds, err := client.Datasets().Create(ctx, "crawl-results")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Read its items
//	page, err := client.Dataset(ds.ID).ListItems(ctx, crawlpoint.ItemsOptions{Limit: 100})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, item := range page.Items {
//	    fmt.Println(item["url"])
//	}
package crawlpoint
