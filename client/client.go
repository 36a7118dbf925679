package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBaseURL is the local development backend
	DefaultBaseURL = "http://127.0.0.1:9000"

	itemsPath      = "/items"
	categoriesPath = "/categories"
	searchPath     = "/search"
	imagePath      = "/image"
)

// Client is an HTTP client for the listing service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the backend at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend origin this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ImageURL returns the display URL for an item image
func (c *Client) ImageURL(imageName string) string {
	return c.baseURL + imagePath + "/" + url.PathEscape(imageName)
}

// ListCatalog fetches items and categories concurrently and resolves each
// item's category id to its name. If either read fails the whole call fails.
// Items whose category id is unknown get an empty Category.
func (c *Client) ListCatalog(ctx context.Context) (Snapshot, error) {
	var (
		items      itemsResponse
		categories categoriesResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(gctx, "list items", c.baseURL+itemsPath, notSuccess, &items)
	})
	g.Go(func() error {
		return c.getJSON(gctx, "list categories", c.baseURL+categoriesPath, notSuccess, &categories)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[int]string, len(categories.Categories))
	for _, cat := range categories.Categories {
		names[cat.ID] = cat.Name
	}

	snapshot := make(Snapshot, 0, len(items.Items))
	for _, rec := range items.Items {
		snapshot = append(snapshot, Item{
			ID:        rec.ID,
			Name:      rec.Name,
			Category:  names[rec.CategoryID],
			ImageName: rec.ImageName,
		})
	}

	c.logger.Debug("GET success", "path", itemsPath, "items", len(snapshot), "categories", len(names))
	return snapshot, nil
}

// SearchCatalog searches items by keyword. The server resolves category
// names for search results, so items are returned as served.
func (c *Client) SearchCatalog(ctx context.Context, keyword string) (Snapshot, error) {
	searchURL := fmt.Sprintf("%s%s?keyword=%s", c.baseURL, searchPath, url.QueryEscape(keyword))

	var searchResp SearchResponse
	if err := c.getJSON(ctx, "search items", searchURL, clientOrServerError, &searchResp); err != nil {
		return nil, err
	}

	c.logger.Debug("GET success", "path", searchPath, "keyword", keyword, "items", len(searchResp.Items))
	if searchResp.Items == nil {
		return Snapshot{}, nil
	}
	return Snapshot(searchResp.Items), nil
}

// CreateItem posts a new listing as multipart form data. Field presence and
// image type are left for the server to validate.
func (c *Client) CreateItem(ctx context.Context, input CreateItemInput) (*ServerAck, error) {
	const op = "create item"

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("name", input.Name); err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("failed to encode name: %w", err)}
	}
	if err := w.WriteField("category", input.Category); err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("failed to encode category: %w", err)}
	}
	part, err := w.CreateFormFile("image", input.Image.Filename)
	if err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("failed to create image part: %w", err)}
	}
	if input.Image.Reader != nil {
		if _, err := io.Copy(part, input.Image.Reader); err != nil {
			return nil, &FetchError{Op: op, Err: fmt.Errorf("failed to read image: %w", err)}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("failed to finish form: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+itemsPath, &body)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	if clientOrServerError(resp.StatusCode) {
		return nil, &FetchError{Op: op, StatusCode: resp.StatusCode}
	}

	var ack ServerAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, &FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	c.logger.Debug("POST success", "path", itemsPath, "name", input.Name, "message", ack.Message)
	return &ack, nil
}

// RemoveItem deletes an item by id. Only transport failures return an
// error; callers inspect OK on the response to decide success.
func (c *Client) RemoveItem(ctx context.Context, id int) (*RemoveResponse, error) {
	deleteURL := c.baseURL + itemsPath + "/" + strconv.Itoa(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make delete request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("DELETE done", "id", id, "status", resp.StatusCode)
	return &RemoveResponse{
		ID:         id,
		StatusCode: resp.StatusCode,
		OK:         !notSuccess(resp.StatusCode),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, op, rawURL string, failed func(int) bool, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	if failed(resp.StatusCode) {
		return &FetchError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}

func notSuccess(code int) bool {
	return code < 200 || code > 299
}

func clientOrServerError(code int) bool {
	return code >= 400
}
