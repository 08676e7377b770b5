package figma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Version is the release version reported by the CLI and the bridges.
const Version = "0.3.0"

const (
	figmaAPIBase = "https://api.figma.com/v1"
	maxRetries   = 3
)

var (
	fileURLPattern = regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design)/([A-Za-z0-9]+)(?:/|\?|$)`)
	fileKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// APIError is returned when the Figma API answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client represents a Figma API client with configured HTTP settings for reliable communication
// with the Figma API. Requests that hit rate limits or server errors are retried.
type Client struct {
	accessToken string
	baseURL     string
	retryDelay  time.Duration
	httpClient  *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryDelay sets the base delay between retries. The n-th retry waits n*delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.retryDelay = d }
}

// NewClient creates a new Figma API client with the provided personal access token.
func NewClient(accessToken string, opts ...ClientOption) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
	}

	c := &Client{
		accessToken: accessToken,
		baseURL:     figmaAPIBase,
		retryDelay:  2 * time.Second,
		httpClient: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: transport,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExtractFileKey extracts the unique file identifier from a Figma URL.
// Supports both /file/ and /design/ URL patterns (e.g., figma.com/file/ABC123/Design-Name).
func ExtractFileKey(figmaURL string) (string, error) {
	matches := fileURLPattern.FindStringSubmatch(figmaURL)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Figma URL format: must be a valid figma.com URL with /file/ or /design/ path")
	}

	return matches[1], nil
}

// ResolveFileKey accepts either a bare file key or a Figma file URL.
func ResolveFileKey(keyOrURL string) (string, error) {
	if fileKeyPattern.MatchString(keyOrURL) {
		return keyOrURL, nil
	}
	return ExtractFileKey(keyOrURL)
}

// GetFile retrieves complete file data including document structure and published styles.
func (c *Client) GetFile(ctx context.Context, fileKey string) (*FileResponse, error) {
	var fileResp FileResponse
	if err := c.do(ctx, http.MethodGet, "/files/"+fileKey, nil, &fileResp); err != nil {
		return nil, err
	}
	return &fileResp, nil
}

// GetLocalVariables retrieves the local variables and variable collections of a file.
// Numbers inside variable values are decoded as json.Number so their literal form survives.
func (c *Client) GetLocalVariables(ctx context.Context, fileKey string) (*VariablesResponse, error) {
	var varsResp VariablesResponse
	if err := c.do(ctx, http.MethodGet, "/files/"+fileKey+"/variables/local", nil, &varsResp); err != nil {
		return nil, err
	}
	return &varsResp, nil
}

// PostVariables creates or updates variables in a file.
func (c *Client) PostVariables(ctx context.Context, fileKey string, req *PostVariablesRequest) (*PostVariablesResponse, error) {
	var postResp PostVariablesResponse
	if err := c.do(ctx, http.MethodPost, "/files/"+fileKey+"/variables", req, &postResp); err != nil {
		return nil, err
	}
	return &postResp, nil
}

// GetFileComponents retrieves the published components of a file.
func (c *Client) GetFileComponents(ctx context.Context, fileKey string) (*ComponentsResponse, error) {
	var compResp ComponentsResponse
	if err := c.do(ctx, http.MethodGet, "/files/"+fileKey+"/components", nil, &compResp); err != nil {
		return nil, err
	}
	return &compResp, nil
}

// GetFileStyles retrieves all published styles (colors, text, effects, grids) from a Figma file.
func (c *Client) GetFileStyles(ctx context.Context, fileKey string) (*StylesResponse, error) {
	var stylesResp StylesResponse
	if err := c.do(ctx, http.MethodGet, "/files/"+fileKey+"/styles", nil, &stylesResp); err != nil {
		return nil, err
	}
	return &stylesResp, nil
}

// GetImages renders nodes of a file and returns a temporary download URL per
// node ID. format is one of png, jpg, svg or pdf; scale is ignored by the API
// for svg and pdf. A node that could not be rendered maps to an empty URL.
func (c *Client) GetImages(ctx context.Context, fileKey string, nodeIDs []string, format string, scale float64) (*ImagesResponse, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(nodeIDs, ","))
	q.Set("format", format)
	q.Set("scale", strconv.FormatFloat(scale, 'f', -1, 64))

	var imgResp ImagesResponse
	if err := c.do(ctx, http.MethodGet, "/images/"+fileKey+"?"+q.Encode(), nil, &imgResp); err != nil {
		return nil, err
	}
	if imgResp.Err != "" {
		return nil, fmt.Errorf("image render failed: %s", imgResp.Err)
	}
	return &imgResp, nil
}

// do executes a request against the API and decodes a 200 response into out.
// Transport errors, 429 and 5xx responses are retried up to maxRetries times
// with a linearly growing delay.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = b
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		retry, err := c.attempt(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * c.retryDelay):
		}
	}

	return lastErr
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, out any) (retry bool, err error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retry, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return false, fmt.Errorf("failed to parse response: %w", err)
	}

	return false, nil
}
