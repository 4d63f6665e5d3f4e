package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxCatalogSize     = 10 * 1024 * 1024 // 10 MB
)

// Source yields the plugin catalog from wherever it lives. The cache only
// needs "fetch and parse"; transport and credentials are the source's
// business.
type Source interface {
	Fetch(ctx context.Context) (*Catalog, error)
	String() string
}

// HTTPSource fetches the catalog document from a remote endpoint. It
// understands both plain catalog JSON and the GitHub contents API envelope
// (base64-wrapped content), which is how the catalog is hosted in a private
// repository.
type HTTPSource struct {
	url        string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter // nil = unlimited
}

// HTTPSourceOption is a functional option for configuring an HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithHTTPClient sets a custom HTTP client for catalog fetches.
func WithHTTPClient(hc *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) { s.httpClient = hc }
}

// WithToken sets the bearer token sent on catalog fetches.
func WithToken(token string) HTTPSourceOption {
	return func(s *HTTPSource) { s.token = token }
}

// WithRateLimit caps fetches at n per minute, so forced refreshes cannot
// exhaust the origin's API quota. Fetches over the limit wait their turn.
func WithRateLimit(perMinute int) HTTPSourceOption {
	return func(s *HTTPSource) {
		if perMinute > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
		}
	}
}

// NewHTTPSource creates an HTTPSource for the given catalog URL.
func NewHTTPSource(url string, opts ...HTTPSourceOption) *HTTPSource {
	s := &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) String() string { return s.url }

// contentEnvelope is the GitHub contents API response shape.
type contentEnvelope struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Fetch retrieves, decodes, and parses the catalog.
func (s *HTTPSource) Fetch(ctx context.Context) (*Catalog, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	data, err := unwrapContent(body)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// unwrapContent decodes a GitHub contents API envelope when present,
// otherwise returns the body unchanged.
func unwrapContent(body []byte) ([]byte, error) {
	var env contentEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Encoding != "base64" {
		return body, nil
	}
	// GitHub inserts newlines into the base64 payload.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(env.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decoding base64 content: %w", err)
	}
	return decoded, nil
}

// FileSource reads the catalog from a local file. Used for development and
// by the watch command.
type FileSource struct {
	Path string
}

func (s FileSource) String() string { return s.Path }

// Fetch reads and parses the local catalog file.
func (s FileSource) Fetch(_ context.Context) (*Catalog, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return ParseCatalog(data)
}
