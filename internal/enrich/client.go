package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	books "google.golang.org/api/books/v1"
	"google.golang.org/api/option"

	"bookpulse/internal/dataset"
)

const (
	defaultOpenLibraryURL = "https://openlibrary.org/search.json"

	// Both public APIs get 3 attempts with exponential backoff and a
	// fixed one-second delay between consecutive requests.
	maxRetries     = 3
	defaultBackoff = 2 * time.Second
	requestsPerSec = 1
)

// Client queries the two public book-metadata APIs and merges their
// results into the enrichment schema.
type Client struct {
	httpClient     *http.Client
	booksService   *books.Service
	limiter        *rate.Limiter
	logger         *slog.Logger
	openLibraryURL string
	backoff        time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for Open Library requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithOpenLibraryURL overrides the Open Library search endpoint.
func WithOpenLibraryURL(u string) Option {
	return func(cl *Client) { cl.openLibraryURL = u }
}

// WithBooksService overrides the Google Books service.
func WithBooksService(svc *books.Service) Option {
	return func(cl *Client) { cl.booksService = svc }
}

// WithBackoff overrides the retry backoff base.
func WithBackoff(d time.Duration) Option {
	return func(cl *Client) { cl.backoff = d }
}

// WithRateLimit overrides the inter-request limiter.
func WithRateLimit(l *rate.Limiter) Option {
	return func(cl *Client) { cl.limiter = l }
}

// NewClient creates an enrichment client.
func NewClient(ctx context.Context, logger *slog.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := &Client{
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		limiter:        rate.NewLimiter(rate.Limit(requestsPerSec), 1),
		logger:         logger,
		openLibraryURL: defaultOpenLibraryURL,
		backoff:        defaultBackoff,
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.booksService == nil {
		svc, err := books.NewService(ctx,
			option.WithoutAuthentication(),
			option.WithHTTPClient(client.httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("create books service: %w", err)
		}
		client.booksService = svc
	}

	return client, nil
}

// Lookup queries both APIs for a title concurrently and merges the results.
// A title neither API knows yields an entry with only the title filled in,
// not an error.
func (c *Client) Lookup(ctx context.Context, title string) (dataset.BookEnrichment, error) {
	var olResult openLibraryDoc
	var gbResult googleBooksVolume

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := c.searchOpenLibrary(gctx, title)
		if err != nil {
			c.logger.WarnContext(gctx, "open library lookup failed",
				"title", title, "error", err)
			return nil // degrade to the other source
		}
		olResult = result
		return nil
	})
	g.Go(func() error {
		result, err := c.searchGoogleBooks(gctx, title)
		if err != nil {
			c.logger.WarnContext(gctx, "google books lookup failed",
				"title", title, "error", err)
			return nil
		}
		gbResult = result
		return nil
	})
	if err := g.Wait(); err != nil {
		return dataset.BookEnrichment{}, err
	}

	return mergeResults(title, olResult, gbResult), nil
}

// openLibraryDoc is the subset of an Open Library search hit we consume.
type openLibraryDoc struct {
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	FirstPublishYear    int      `json:"first_publish_year"`
	ISBN                []string `json:"isbn"`
	CoverID             int64    `json:"cover_i"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
	Subject             []string `json:"subject"`
}

type openLibraryResponse struct {
	Docs []openLibraryDoc `json:"docs"`
}

func (c *Client) searchOpenLibrary(ctx context.Context, title string) (openLibraryDoc, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Set("limit", "5")

	body, err := c.fetchWithRetry(ctx, c.openLibraryURL+"?"+params.Encode())
	if err != nil {
		return openLibraryDoc{}, err
	}

	var response openLibraryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return openLibraryDoc{}, fmt.Errorf("decode open library response: %w", err)
	}
	if len(response.Docs) == 0 {
		return openLibraryDoc{}, nil
	}

	// First hit is the best match
	return response.Docs[0], nil
}

// googleBooksVolume is the subset of a Google Books volume we consume.
type googleBooksVolume struct {
	Title         string
	Subtitle      string
	Authors       []string
	PublishedYear int
	PageCount     int
	Categories    []string
	Description   string
	ISBN          string
}

func (c *Client) searchGoogleBooks(ctx context.Context, title string) (googleBooksVolume, error) {
	var volumes *books.Volumes

	err := c.withRetry(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		volumes, err = c.booksService.Volumes.List("intitle:" + title).
			MaxResults(3).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return googleBooksVolume{}, err
	}
	if volumes == nil || len(volumes.Items) == 0 || volumes.Items[0].VolumeInfo == nil {
		return googleBooksVolume{}, nil
	}

	info := volumes.Items[0].VolumeInfo
	result := googleBooksVolume{
		Title:       info.Title,
		Subtitle:    info.Subtitle,
		Authors:     info.Authors,
		PageCount:   int(info.PageCount),
		Categories:  info.Categories,
		Description: info.Description,
	}

	if len(info.PublishedDate) >= 4 {
		var year int
		if _, err := fmt.Sscanf(info.PublishedDate[:4], "%d", &year); err == nil {
			result.PublishedYear = year
		}
	}

	// Prefer ISBN-13 over ISBN-10
	var isbn10 string
	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			result.ISBN = id.Identifier
		case "ISBN_10":
			isbn10 = id.Identifier
		}
	}
	if result.ISBN == "" {
		result.ISBN = isbn10
	}

	return result, nil
}

// fetchWithRetry performs a rate-limited GET with retry and exponential
// backoff, returning the response body.
func (c *Client) fetchWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte

	err := c.withRetry(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})

	return body, err
}

// withRetry runs fn up to maxRetries times with exponential backoff
// between attempts.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt < maxRetries-1 {
			wait := time.Duration(math.Pow(2, float64(attempt))) * c.backoff
			c.logger.DebugContext(ctx, "retrying after backoff",
				"attempt", attempt+1,
				"wait", wait,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
