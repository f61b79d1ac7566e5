package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Source defines the interface for fetching feed pages.
// This interface is implemented by *Client and can be used for testing.
type Source interface {
	FetchPage(ctx context.Context, page int) (Page, error)
	PageSize() int
}

// Ensure Client implements Source at compile time.
var _ Source = (*Client)(nil)

var (
	// ErrInvalidPage is returned for page indexes below 1.
	ErrInvalidPage = errors.New("page index must be >= 1")
	// ErrUnavailable wraps transport failures talking to the image host.
	ErrUnavailable = errors.New("image host unavailable")
)

const (
	DefaultBaseURL   = "https://instimage.vercel.app/images"
	DefaultPageSize  = 20
	DefaultTotal     = 1000
	defaultUserAgent = "wallfeed/0.1"
	requestTimeout   = 10 * time.Second
)

// Options configure a Client. Zero values use the defaults above.
type Options struct {
	BaseURL   string
	PageSize  int
	Total     int
	Timeout   time.Duration
	UserAgent string
	// NoProbe skips the reachability request made for every page.
	NoProbe bool
}

// Client derives feed pages from a static image host.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	pageSize  int
	total     int
	probe     bool
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 0 {
		return nil, fmt.Errorf("page size %d must be positive", pageSize)
	}
	total := opts.Total
	if total == 0 {
		total = DefaultTotal
	}
	if total < 0 {
		return nil, fmt.Errorf("total %d must not be negative", total)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		pageSize:  pageSize,
		total:     total,
		probe:     !opts.NoProbe,
	}, nil
}

// PageSize reports the fixed number of records in a full page.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Total reports the ceiling on record ids.
func (c *Client) Total() int {
	return c.total
}

// FetchPage returns the records for page (1-based). A page past the ceiling
// is empty; that is the exhaustion signal, not an error.
func (c *Client) FetchPage(ctx context.Context, page int) (Page, error) {
	if c == nil {
		return Page{}, fmt.Errorf("client is nil")
	}
	if page < 1 {
		return Page{}, fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}
	first, last, ok := pageRange(page, c.pageSize, c.total)
	if !ok {
		return Page{Index: page}, nil
	}

	records := make([]Record, 0, last-first+1)
	for n := first; n <= last; n++ {
		records = append(records, c.record(n))
	}

	if c.probe {
		if err := c.check(ctx, records[0].URL); err != nil {
			return Page{}, err
		}
	}
	return Page{Index: page, Records: records}, nil
}

// Record builds the record for a single 1-based image number.
func (c *Client) Record(n int) (Record, bool) {
	if n < 1 || n > c.total {
		return Record{}, false
	}
	return c.record(n), true
}

// Open streams the image behind rec. Callers must close the returned body.
func (c *Client) Open(ctx context.Context, rec Record) (io.ReadCloser, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(rec.URL) == "" {
		return nil, fmt.Errorf("record %q has no url", rec.ID)
	}
	resp, err := c.get(ctx, rec.URL)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) record(n int) Record {
	return Record{
		ID:       strconv.Itoa(n),
		URL:      c.imageURL(n),
		Name:     fmt.Sprintf("img (%d)", n),
		Category: CategoryFor(n),
	}
}

func (c *Client) imageURL(n int) string {
	return strings.TrimSuffix(c.baseURL.String(), "/") + "/img%20(" + strconv.Itoa(n) + ").jpg"
}

func (c *Client) check(ctx context.Context, rawURL string) error {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request: %w", ErrUnavailable, err)
	}
	if resp.StatusCode >= 400 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnavailable, rawURL, resp.StatusCode)
	}
	return resp, nil
}

// pageRange returns the inclusive id range of page, clamped to total. ok is
// false once page lies past the ceiling. The bound is checked before
// multiplying so huge page numbers cannot overflow.
func pageRange(page, size, total int) (first, last int, ok bool) {
	if page < 1 || size < 1 || page-1 >= (total+size-1)/size {
		return 0, 0, false
	}
	first = (page-1)*size + 1
	last = first + size - 1
	if last > total {
		last = total
	}
	return first, last, true
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base_url %q: unsupported scheme %q", raw, u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
