package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tutorapp/tutorapp/pkg/models/api"
	"github.com/tutorapp/tutorapp/pkg/store/cache"
)

const (
	DefaultCacheTTL = 60 * time.Second
	pdfDataPrefix   = "data:application/pdf;base64,"
)

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	StatusCode int
	Message    string
	Details    []api.FieldError
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("revenue api: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("revenue api: %d %s", e.StatusCode, e.Message)
}

type Options struct {
	Token      string
	HTTPClient *http.Client
	// Cache backs GetRevenue; a fresh in-memory cache is used when nil.
	Cache    cache.Cache
	CacheTTL time.Duration
}

type Client struct {
	base  *url.URL
	token string
	http  *http.Client
	cache *cache.JSON
}

func NewRevenueClient(baseURL string, opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	c := opts.Cache
	if c == nil {
		c = cache.NewMemory()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &Client{
		base:  base,
		token: opts.Token,
		http:  httpClient,
		cache: cache.NewJSON(c, ttl),
	}, nil
}

// GetRevenue calls GET /revenue. Successful answers are cached per query.
func (c *Client) GetRevenue(ctx context.Context, q api.RevenueQuery) (*api.RevenueResponse, error) {
	params := url.Values{}
	params.Set("tutorId", q.TutorID)
	for k, v := range map[string]string{
		"range":     q.Range,
		"courseId":  q.CourseID,
		"studentId": q.StudentID,
		"startDate": q.StartDate,
		"endDate":   q.EndDate,
	} {
		if v != "" {
			params.Set(k, v)
		}
	}
	query := params.Encode()

	res, err := cache.Fetch(ctx, c.cache, "revenue?"+query, func(ctx context.Context) (api.RevenueResponse, error) {
		var res api.RevenueResponse
		err := c.do(ctx, http.MethodGet, "/revenue?"+query, nil, &res)
		return res, err
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GeneratePDF calls POST /revenue/generate-pdf. Reports are never cached.
func (c *Client) GeneratePDF(ctx context.Context, req api.GeneratePDFRequest) (*api.GeneratePDFResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var res api.GeneratePDFResponse
	if err := c.do(ctx, http.MethodPost, "/revenue/generate-pdf", body, &res); err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &StatusError{StatusCode: http.StatusOK, Message: res.Error}
	}
	return &res, nil
}

// DecodePDF extracts the document bytes from a pdfData data URI.
func DecodePDF(dataURI string) ([]byte, error) {
	if !strings.HasPrefix(dataURI, pdfDataPrefix) {
		return nil, fmt.Errorf("pdfData is not a base64 PDF data URI")
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURI, pdfDataPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to decode pdfData: %w", err)
	}
	return data, nil
}

// ClearCache drops every cached revenue answer.
func (c *Client) ClearCache(ctx context.Context) error {
	return c.cache.Clear(ctx)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	logger := zerolog.Ctx(ctx)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("revenue api request failed")
		return err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{StatusCode: resp.StatusCode}
		var e api.ErrorResponse
		if json.Unmarshal(data, &e) == nil {
			serr.Message = e.Error
			serr.Details = e.Details
		}
		return serr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
