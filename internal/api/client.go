// Package api is the typed client for the graded-reader backend. The
// backend owns dictionary lookup, word segmentation and progress; the
// client's only contract is to hand it offsets computed over the same
// normalized text it serves.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxErrBody = 1024

const defaultTimeout = 30 * time.Second

// Client talks to one backend instance. Methods never retry; a failed
// call is terminal for that operation only.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a client for the given base URL. httpClient and log
// may be nil.
func NewClient(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// Host returns the host portion of the backend address, used to key
// saved reading positions.
func (c *Client) Host() string {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Host == "" {
		return c.baseURL
	}
	return u.Host
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.getJSON(ctx, "/health", nil, &out); err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("backend at %s reports not ok", c.baseURL)
	}
	return nil
}

// Books lists the library.
func (c *Client) Books(ctx context.Context) ([]BookRef, error) {
	var out []BookRef
	if err := c.getJSON(ctx, "/books", nil, &out); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return out, nil
}

// Book fetches one book's chapter listing.
func (c *Client) Book(ctx context.Context, bookID string) (BookDetail, error) {
	var out BookDetail
	if err := c.getJSON(ctx, "/books/"+url.PathEscape(bookID), nil, &out); err != nil {
		return BookDetail{}, fmt.Errorf("get book %s: %w", bookID, err)
	}
	return out, nil
}

// Chapter fetches one chapter's text and sentence spans. Span offsets
// are computed by the backend against the normalized chapter text.
func (c *Client) Chapter(ctx context.Context, bookID, chapterID string) (Chapter, error) {
	path := "/books/" + url.PathEscape(bookID) + "/chapters/" + url.PathEscape(chapterID)
	var out Chapter
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return Chapter{}, fmt.Errorf("get chapter %s/%s: %w", bookID, chapterID, err)
	}
	return out, nil
}

// LookupByOffset asks the backend which word covers the given offset of
// a stored chapter, plus its dictionary entry when known.
func (c *Client) LookupByOffset(ctx context.Context, bookID, chapterID string, offset int) (LookupResult, error) {
	q := url.Values{}
	q.Set("book_id", bookID)
	q.Set("chapter_id", chapterID)
	q.Set("offset", strconv.Itoa(offset))
	var out LookupResult
	if err := c.getJSON(ctx, "/lookup/by_offset", q, &out); err != nil {
		return LookupResult{}, fmt.Errorf("lookup offset %d in %s/%s: %w", offset, bookID, chapterID, err)
	}
	return out, nil
}

// LookupInText is the ad-hoc variant for text the backend has not
// stored, such as titles.
func (c *Client) LookupInText(ctx context.Context, text string, offset int) (LookupResult, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("offset", strconv.Itoa(offset))
	var out LookupResult
	if err := c.getJSON(ctx, "/lookup/in_text", q, &out); err != nil {
		return LookupResult{}, fmt.Errorf("lookup offset %d in text: %w", offset, err)
	}
	return out, nil
}

// Dict downloads the full dictionary.
func (c *Client) Dict(ctx context.Context) (Dict, error) {
	var out Dict
	if err := c.getJSON(ctx, "/dict", nil, &out); err != nil {
		return nil, fmt.Errorf("get dictionary: %w", err)
	}
	return out, nil
}

// Progress downloads the per-headword learned-state map.
func (c *Client) Progress(ctx context.Context) (Progress, error) {
	var out Progress
	if err := c.getJSON(ctx, "/progress", nil, &out); err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return out, nil
}

// ImportBook uploads a book, overwriting any book with the same id.
func (c *Client) ImportBook(ctx context.Context, book Book) error {
	if err := c.postJSON(ctx, "/books/import", book, nil); err != nil {
		return fmt.Errorf("import book %s: %w", book.ID, err)
	}
	return nil
}

// PutDictEntry adds or replaces one dictionary entry.
func (c *Client) PutDictEntry(ctx context.Context, entry DictEntry) error {
	if err := c.postJSON(ctx, "/dict/put", entry, nil); err != nil {
		return fmt.Errorf("put dict entry %s: %w", entry.Headword, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	c.log.Debug("api request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrBody {
			snippet = snippet[:maxErrBody] + "..."
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
