package crawlpoint

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/crawlpoint/client-go/internal/api"
	"github.com/crawlpoint/client-go/internal/apierrors"
)

// Dataset is an append-only storage for crawl results.
type Dataset struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	UserID         string    `json:"userId"`
	ItemCount      int64     `json:"itemCount"`
	CleanItemCount int64     `json:"cleanItemCount"`
	CreatedAt      time.Time `json:"createdAt"`
	ModifiedAt     time.Time `json:"modifiedAt"`
	AccessedAt     time.Time `json:"accessedAt"`
}

// DatasetUpdate holds the mutable fields of a dataset.
type DatasetUpdate struct {
	Name string `json:"name"`
}

// ExportFormat selects the serialization of exported items.
type ExportFormat string

// Supported export formats.
const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
	FormatHTML ExportFormat = "html"
	FormatXML  ExportFormat = "xml"
	FormatRSS  ExportFormat = "rss"
)

var exportFormats = map[ExportFormat]struct{}{
	FormatJSON: {},
	FormatCSV:  {},
	FormatXLSX: {},
	FormatHTML: {},
	FormatXML:  {},
	FormatRSS:  {},
}

// ItemsOptions are the parameters for paginated item retrieval.
type ItemsOptions struct {
	// Limit caps the number of returned items. 0 means server default.
	Limit int
	// Offset skips the first items.
	Offset int
	// Desc returns items newest first.
	Desc bool
	// Fields restricts returned items to these top-level fields.
	Fields []string
	// Omit removes these top-level fields from returned items.
	Omit []string
	// Unwind flattens the named array field into separate items.
	Unwind string
	// Clean controls server-side filtering of empty items and hidden
	// fields. The server default is on, so false must be sent
	// explicitly as clean=0; nil leaves the server default in place.
	Clean *bool
}

func (o ItemsOptions) query() url.Values {
	q := url.Values{}
	api.AddInt(q, "limit", o.Limit)
	api.AddInt(q, "offset", o.Offset)
	api.AddBool(q, "desc", o.Desc)
	api.AddCSV(q, "fields", o.Fields)
	api.AddCSV(q, "omit", o.Omit)
	api.AddString(q, "unwind", o.Unwind)
	if o.Clean != nil {
		api.AddExplicitBool(q, "clean", *o.Clean)
	}
	return q
}

// ExportOptions are the parameters for exporting items in a negotiated
// format.
type ExportOptions struct {
	// Format selects the serialization. Empty means json.
	Format ExportFormat
	// Fields restricts exported items to these top-level fields.
	Fields []string
	// Omit removes these top-level fields from exported items.
	Omit []string
	// Unwind flattens the named array field into separate items.
	Unwind string
	// Bom prepends a UTF-8 byte order mark; only meaningful for csv.
	Bom bool
	// Clean follows the same convention as ItemsOptions.Clean.
	Clean *bool
}

// ItemPage is a slice of dataset items with pagination counters.
type ItemPage struct {
	Items  []map[string]any
	Total  int64
	Offset int64
	Limit  int64
	Count  int64
	Desc   bool
}

// DatasetCollection operates on the account's datasets.
type DatasetCollection struct {
	api *api.Client
}

// List returns a page of datasets. Unnamed datasets are hidden unless
// opts.Unnamed is set.
func (dc *DatasetCollection) List(ctx context.Context, opts ListOptions) (*Page[Dataset], error) {
	var page Page[Dataset]
	if err := dc.api.Do(ctx, http.MethodGet, "/datasets", opts.query(), nil, &page); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceDataset)
	}
	return &page, nil
}

// Create creates a named dataset. The call is idempotent: when a dataset
// with the given name already exists, it is returned instead of an error.
func (dc *DatasetCollection) Create(ctx context.Context, name string) (*Dataset, error) {
	if err := requireID("dataset name", name); err != nil {
		return nil, err
	}
	q := url.Values{}
	api.AddString(q, "name", name)

	var ds Dataset
	if err := dc.api.Do(ctx, http.MethodPost, "/datasets", q, nil, &ds); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceDataset)
	}
	return &ds, nil
}

// DatasetClient operates on a single dataset.
type DatasetClient struct {
	api *api.Client
	id  string
}

func (d *DatasetClient) path(suffix string) string {
	return "/datasets/" + url.PathEscape(d.id) + suffix
}

// Get returns the dataset, or nil when it does not exist.
func (d *DatasetClient) Get(ctx context.Context) (*Dataset, error) {
	if err := requireID("dataset ID", d.id); err != nil {
		return nil, err
	}
	var ds Dataset
	err := d.api.Do(ctx, http.MethodGet, d.path(""), nil, nil, &ds)
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceDataset)
	}
	return &ds, nil
}

// Update changes the dataset's mutable fields and returns the updated
// dataset.
func (d *DatasetClient) Update(ctx context.Context, update DatasetUpdate) (*Dataset, error) {
	if err := requireID("dataset ID", d.id); err != nil {
		return nil, err
	}
	var ds Dataset
	if err := d.api.Do(ctx, http.MethodPut, d.path(""), nil, update, &ds); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceDataset)
	}
	return &ds, nil
}

// Delete removes the dataset. Deleting a dataset that does not exist is
// not an error.
func (d *DatasetClient) Delete(ctx context.Context) error {
	if err := requireID("dataset ID", d.id); err != nil {
		return err
	}
	err := d.api.Do(ctx, http.MethodDelete, d.path(""), nil, nil, nil)
	if apierrors.IsNotFound(err) {
		return nil
	}
	return apierrors.WithResourceType(err, apierrors.ResourceDataset)
}

// ListItems returns a page of the dataset's items as parsed records,
// with allow-listed date fields coerced to time.Time. Truncated
// responses are retried.
func (d *DatasetClient) ListItems(ctx context.Context, opts ItemsOptions) (*ItemPage, error) {
	if err := requireID("dataset ID", d.id); err != nil {
		return nil, err
	}
	page, err := d.api.DoItems(ctx, http.MethodGet, d.path("/items"), opts.query())
	if err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceDataset)
	}
	return &ItemPage{
		Items:  page.Items,
		Total:  page.Total,
		Offset: int64(opts.Offset),
		Limit:  int64(opts.Limit),
		Count:  int64(len(page.Items)),
		Desc:   opts.Desc,
	}, nil
}

// ExportItems returns the dataset's items serialized in the requested
// format, unparsed. The json format is the default.
func (d *DatasetClient) ExportItems(ctx context.Context, opts ExportOptions) ([]byte, error) {
	if err := requireID("dataset ID", d.id); err != nil {
		return nil, err
	}
	format := opts.Format
	if format == "" {
		format = FormatJSON
	}
	if _, ok := exportFormats[format]; !ok {
		return nil, &InvalidInputError{Param: "format", Reason: "must be one of json, csv, xlsx, html, xml, rss"}
	}

	q := url.Values{}
	q.Set("format", string(format))
	api.AddCSV(q, "fields", opts.Fields)
	api.AddCSV(q, "omit", opts.Omit)
	api.AddString(q, "unwind", opts.Unwind)
	api.AddBool(q, "bom", opts.Bom)
	if opts.Clean != nil {
		api.AddExplicitBool(q, "clean", *opts.Clean)
	}

	body, err := d.api.DoRaw(ctx, http.MethodGet, d.path("/items"), q)
	if err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceDataset)
	}
	return body, nil
}

// PushItems appends one or more items to the dataset. items is marshaled
// as the JSON request body and may be a single record or a slice.
func (d *DatasetClient) PushItems(ctx context.Context, items any) error {
	if err := requireID("dataset ID", d.id); err != nil {
		return err
	}
	if items == nil {
		return &InvalidInputError{Param: "items", Reason: "must not be nil"}
	}
	return apierrors.WithResourceType(
		d.api.Do(ctx, http.MethodPost, d.path("/items"), nil, items, nil),
		apierrors.ResourceDataset,
	)
}
