package feed

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com/walls/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Path != "/walls" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("ftp://example.com"); err == nil {
		t.Fatalf("parseBaseURL accepted ftp scheme")
	}
}

func TestPageRange(t *testing.T) {
	cases := []struct {
		name        string
		page        int
		first, last int
		ok          bool
	}{
		{"first page", 1, 1, 20, true},
		{"second page", 2, 21, 40, true},
		{"clamped", 3, 41, 45, true},
		{"past ceiling", 4, 0, 0, false},
		{"huge page", math.MaxInt/10 + 1, 0, 0, false},
		{"max page", math.MaxInt, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, last, ok := pageRange(tc.page, 20, 45)
			if first != tc.first || last != tc.last || ok != tc.ok {
				t.Fatalf("pageRange(%d) = [%d,%d] %v, want [%d,%d] %v", tc.page, first, last, ok, tc.first, tc.last, tc.ok)
			}
		})
	}
}

func TestPageRange_ExactMultipleOfSize(t *testing.T) {
	if first, last, ok := pageRange(2, 20, 40); !ok || first != 21 || last != 40 {
		t.Fatalf("pageRange(2) = [%d,%d] %v, want [21,40] true", first, last, ok)
	}
	if _, _, ok := pageRange(3, 20, 40); ok {
		t.Fatalf("pageRange(3) should be past the ceiling")
	}
}

func TestClient_FetchPageHugeIndexIsEmpty(t *testing.T) {
	c, err := NewClient(Options{PageSize: 20, Total: 45, NoProbe: true})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	page, err := c.FetchPage(context.Background(), math.MaxInt/10+1)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if page.Len() != 0 {
		t.Fatalf("page len = %d, want 0; first record %+v", page.Len(), page.Records[0])
	}
}

func TestCategoryFor(t *testing.T) {
	cases := map[int]string{
		1:    "Abstract",
		120:  "Abstract",
		121:  "Nature",
		600:  "Space",
		1000: "Fantasy",
		1001: Uncategorized,
		0:    Uncategorized,
	}
	for n, want := range cases {
		if got := CategoryFor(n); got != want {
			t.Fatalf("CategoryFor(%d) = %q, want %q", n, got, want)
		}
	}
	if got := len(Categories()); got != len(buckets) {
		t.Fatalf("Categories() len = %d, want %d", got, len(buckets))
	}
}

func TestClient_FetchPageDerivesRecords(t *testing.T) {
	t.Parallel()

	var (
		mu        sync.Mutex
		gotPaths  []string
		userAgent string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPaths = append(gotPaths, r.URL.EscapedPath())
		userAgent = r.Header.Get("User-Agent")
		mu.Unlock()
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL + "/images", PageSize: 20, Total: 45})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	page, err := c.FetchPage(ctx, 3)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if page.Index != 3 || page.Len() != 5 {
		t.Fatalf("page = %d with %d records, want page 3 with 5", page.Index, page.Len())
	}
	first := page.Records[0]
	if first.ID != "41" || first.Name != "img (41)" || first.Category != "Abstract" {
		t.Fatalf("first record = %#v, want id 41", first)
	}
	if want := server.URL + "/images/img%20(41).jpg"; first.URL != want {
		t.Fatalf("URL = %q, want %q", first.URL, want)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(gotPaths) != 1 || gotPaths[0] != "/images/img%20(41).jpg" {
		t.Fatalf("probe paths = %v, want one probe of img%%20(41).jpg", gotPaths)
	}
	if !strings.HasPrefix(userAgent, "wallfeed/") {
		t.Fatalf("User-Agent = %q, want wallfeed/*", userAgent)
	}
}

func TestClient_FetchPagePastCeilingIsEmpty(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "127.0.0.1:1", PageSize: 20, Total: 45})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	page, err := c.FetchPage(context.Background(), 4)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if page.Len() != 0 {
		t.Fatalf("page len = %d, want 0", page.Len())
	}
}

func TestClient_FetchPageRejectsInvalidIndex(t *testing.T) {
	c, err := NewClient(Options{NoProbe: true})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	for _, page := range []int{0, -3} {
		_, err := c.FetchPage(context.Background(), page)
		if !errors.Is(err, ErrInvalidPage) {
			t.Fatalf("FetchPage(%d) error = %v, want ErrInvalidPage", page, err)
		}
	}
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	page, err := c.FetchPage(context.Background(), 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("FetchPage error = %v, want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "returned status 404") {
		t.Fatalf("FetchPage error = %q, want status 404", err.Error())
	}
	if page.Len() != 0 {
		t.Fatalf("FetchPage returned %d records on failure, want 0", page.Len())
	}

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	c, err = NewClient(Options{BaseURL: closed.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchPage(context.Background(), 1); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("FetchPage error = %v, want ErrUnavailable", err)
	}
}

func TestClient_OpenStreamsBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("image-bytes"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	rec, ok := c.Record(7)
	if !ok {
		t.Fatalf("Record(7) not found")
	}
	body, err := c.Open(context.Background(), rec)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Fatalf("body = %q, want image-bytes", data)
	}

	if _, ok := c.Record(0); ok {
		t.Fatalf("Record(0) should not exist")
	}
}

func TestNewClient_ZeroSizesUseDefaults(t *testing.T) {
	c, err := NewClient(Options{NoProbe: true})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.PageSize() != DefaultPageSize || c.Total() != DefaultTotal {
		t.Fatalf("PageSize/Total = %d/%d, want %d/%d", c.PageSize(), c.Total(), DefaultPageSize, DefaultTotal)
	}
}

func TestNewClient_RejectsNegativeSizes(t *testing.T) {
	if _, err := NewClient(Options{PageSize: -1}); err == nil {
		t.Fatalf("NewClient accepted negative page size")
	}
	if _, err := NewClient(Options{Total: -1}); err == nil {
		t.Fatalf("NewClient accepted negative total")
	}
}
