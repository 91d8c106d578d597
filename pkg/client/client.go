// Package client is a typed HTTP client for the sponsorscope API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors. Use errors.Is() to check; errors.As() against
// *APIError exposes the raw status, code, and message.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUnavailable    = errors.New("service unavailable")
)

// APIError is the decoded error payload plus the HTTP status.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Unwrap maps the status onto a sentinel for errors.Is checks.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrInvalidRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return ErrUnavailable
	default:
		return nil
	}
}

// Client talks to a sponsorscope API server.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base url is required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Company is one company record as the API returns it.
type Company struct {
	BIN           string             `json:"bin"`
	Name          string             `json:"name"`
	OKED          string             `json:"oked,omitempty"`
	Activity      string             `json:"activity,omitempty"`
	KATO          string             `json:"kato,omitempty"`
	Locality      string             `json:"locality,omitempty"`
	KRP           string             `json:"krp,omitempty"`
	Size          string             `json:"size,omitempty"`
	Taxes         map[string]float64 `json:"taxes"`
	LastTaxUpdate *string            `json:"last_tax_update,omitempty"`
	Contacts      *string            `json:"contacts,omitempty"`
	Website       *string            `json:"website,omitempty"`
}

// SearchItem is one search hit. UnderConsideration is set only when
// the search identified a fund.
type SearchItem struct {
	Company
	UnderConsideration *bool `json:"under_consideration,omitempty"`
}

// Meta is the pagination metadata of one result page.
type Meta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// SearchResult is one page of ranked companies.
type SearchResult struct {
	Data       []SearchItem `json:"data"`
	Pagination Meta         `json:"pagination"`
}

// SearchParams are the company search parameters. Zero values are
// omitted from the request.
type SearchParams struct {
	Location string
	FreeText string
	Page     int
	PageSize int
	FundID   string
}

// Location is one locality with its company count.
type Location struct {
	Locality  string `json:"locality"`
	Companies int    `json:"companies"`
}

// WebInfo is the research outcome for one company.
type WebInfo struct {
	BIN        string  `json:"bin"`
	Website    *string `json:"website,omitempty"`
	Contacts   *string `json:"contacts,omitempty"`
	Confidence float64 `json:"confidence"`
	Query      string  `json:"query"`
}

// Search runs a company search.
func (c *Client) Search(ctx context.Context, p SearchParams) (SearchResult, error) {
	q := url.Values{}
	if p.Location != "" {
		q.Set("location", p.Location)
	}
	if p.FreeText != "" {
		q.Set("freeText", p.FreeText)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.FundID != "" {
		q.Set("fundId", p.FundID)
	}

	target := "/api/v1/companies/search"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var out SearchResult
	if err := c.do(ctx, http.MethodGet, target, &out); err != nil {
		return SearchResult{}, err
	}
	return out, nil
}

// GetCompany fetches one record by BIN.
func (c *Client) GetCompany(ctx context.Context, bin string) (Company, error) {
	var out Company
	if err := c.do(ctx, http.MethodGet, "/api/v1/companies/"+url.PathEscape(bin), &out); err != nil {
		return Company{}, err
	}
	return out, nil
}

// ResearchCompany asks the server to research the company on the web.
func (c *Client) ResearchCompany(ctx context.Context, bin string) (WebInfo, error) {
	var out WebInfo
	err := c.do(ctx, http.MethodGet, "/api/v1/companies/"+url.PathEscape(bin)+"/research", &out)
	if err != nil {
		return WebInfo{}, err
	}
	return out, nil
}

// Locations lists stored localities with company counts.
func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	var out struct {
		Items []Location `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/locations", &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Consider marks a company for a fund. Idempotent.
func (c *Client) Consider(ctx context.Context, fundID, bin string) error {
	return c.do(ctx, http.MethodPut, considerationPath(fundID, bin), nil)
}

// Unconsider removes the mark. Idempotent.
func (c *Client) Unconsider(ctx context.Context, fundID, bin string) error {
	return c.do(ctx, http.MethodDelete, considerationPath(fundID, bin), nil)
}

// Considerations lists the fund's considered companies.
func (c *Client) Considerations(ctx context.Context, fundID string) ([]Company, error) {
	var out struct {
		Items []Company `json:"items"`
	}
	path := "/api/v1/funds/" + url.PathEscape(fundID) + "/considerations"
	if err := c.do(ctx, http.MethodGet, path, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func considerationPath(fundID, bin string) string {
	return "/api/v1/funds/" + url.PathEscape(fundID) + "/considerations/" + url.PathEscape(bin)
}

// do executes one request and decodes either the payload or the error
// envelope. out may be nil for 204 responses.
func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	}
	return apiErr
}
