package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"sitegraph/pkg/config"
	"sitegraph/pkg/graph"
	"sitegraph/pkg/utils"
)

// Result holds everything extracted from one successfully fetched page.
type Result struct {
	Links []string // Raw href values in document order, duplicates removed
	Meta  graph.PageMeta
}

// Fetcher retrieves a page and extracts its outbound links and metadata.
// Implementations must honor context cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*Result, error)
}

// HTTPFetcher fetches pages over HTTP using a shared tuned client.
// One attempt per page: a failure is reported as an error and the
// caller records it and moves on, there are no automatic retries.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64 // 0 disables the cap
	log          *logrus.Logger
}

// NewHTTPFetcher creates an HTTPFetcher around the given client.
func NewHTTPFetcher(client *http.Client, cfg *config.Config, log *logrus.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client:       client,
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		log:          log,
	}
}

// Fetch performs a single GET request and parses the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrRequestCreation, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	statusCode := resp.StatusCode
	switch {
	case statusCode >= 200 && statusCode < 300:
		f.log.WithFields(logrus.Fields{"url": pageURL, "status_code": statusCode}).Debug("Successfully fetched")
	case statusCode >= 500:
		return nil, fmt.Errorf("%w: status %d %s", utils.ErrServerHTTPError, statusCode, resp.Status)
	case statusCode >= 400:
		return nil, fmt.Errorf("%w: status %d %s", utils.ErrClientHTTPError, statusCode, resp.Status)
	default:
		return nil, fmt.Errorf("%w: status %d %s", utils.ErrOtherHTTPError, statusCode, resp.Status)
	}

	var body io.Reader = resp.Body
	if f.maxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBodyBytes)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML for %s: %v", utils.ErrParsing, pageURL, err)
	}

	// Links first: counting words strips script/style nodes out of the
	// document, and that mutation must not affect link extraction.
	links := extractLinks(doc)
	meta := extractMeta(doc, pageURL)

	return &Result{Links: links, Meta: meta}, nil
}
