// Package postgrest is a thin client for a PostgREST-style REST data store:
// resource collections filtered with field=op.value query parameters,
// ordered with order=field.asc|desc, paginated with a Range header and a
// Content-Range response, with write representations requested via Prefer.
package postgrest

import (
	"bytes"
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

// ErrUnauthorized is returned when the data store rejects a request with
// 401. The registered unauthorized hook runs before it is returned.
var ErrUnauthorized = errors.New("postgrest: unauthorized")

// ErrNotFound is returned by Get when no row matches the filters.
var ErrNotFound = errors.New("postgrest: not found")

// APIError carries a non-2xx store response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("postgrest: store returned %d", e.StatusCode)
	}
	return fmt.Sprintf("postgrest: store returned %d: %s", e.StatusCode, e.Message)
}

// Filter is a single field=op.value query condition.
type Filter struct {
	Field string
	Op    string
	Value string
}

func (f Filter) queryValue() string { return f.Op + "." + f.Value }

// Eq matches rows where field equals v.
func Eq(field string, v any) Filter {
	return Filter{Field: field, Op: "eq", Value: fmt.Sprint(v)}
}

// ILike matches rows where field contains term, case-insensitively.
func ILike(field, term string) Filter {
	return Filter{Field: field, Op: "ilike", Value: "*" + term + "*"}
}

// Gte matches rows where field >= v.
func Gte(field, v string) Filter {
	return Filter{Field: field, Op: "gte", Value: v}
}

// Lte matches rows where field <= v.
func Lte(field, v string) Filter {
	return Filter{Field: field, Op: "lte", Value: v}
}

// ListOptions controls filtering, ordering and pagination of List calls.
// A Limit of 0 fetches the whole collection without a Range header.
type ListOptions struct {
	Filters []Filter
	Order   string // e.g. "created_at.desc"
	Offset  int
	Limit   int
}

// TokenFunc supplies the bearer token for a request. A per-request token
// placed in the context with WithToken takes precedence.
type TokenFunc func(ctx context.Context) string

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTokenFunc sets the default bearer token supplier.
func WithTokenFunc(fn TokenFunc) Option {
	return func(c *Client) { c.token = fn }
}

// OnUnauthorized registers a hook invoked whenever the store answers 401.
// Session invalidation hangs off this hook; it runs unconditionally.
func OnUnauthorized(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// Client issues CRUD and filtered list requests against named collections.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	token          TokenFunc
	onUnauthorized func(ctx context.Context)
}

// New creates a Client for the store at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ctxTokenKey struct{}

// WithToken returns a context carrying a per-request bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

func tokenFrom(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(ctxTokenKey{}).(string)
	return tok, ok && tok != ""
}

// List fetches rows of resource into out (a pointer to a slice) and returns
// the collection total extracted from the Content-Range header. When the
// store omits the total it falls back to the number of rows returned.
func (c *Client) List(ctx context.Context, resource string, opts ListOptions, out any) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, resource, opts.Filters, nil)
	if err != nil {
		return 0, err
	}
	q := req.URL.Query()
	if opts.Order != "" {
		q.Set("order", opts.Order)
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Prefer", "count=exact")
	if opts.Limit > 0 {
		start := opts.Offset
		end := opts.Offset + opts.Limit - 1
		req.Header.Set("Range-Unit", "items")
		req.Header.Set("Range", fmt.Sprintf("%d-%d", start, end))
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read %s response: %w", resource, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return 0, fmt.Errorf("decode %s response: %w", resource, err)
	}

	total := parseContentRange(resp.Header.Get("Content-Range"))
	if total < 0 {
		var raw []json.RawMessage
		if err := json.Unmarshal(body, &raw); err == nil {
			total = int64(len(raw))
		} else {
			total = 0
		}
	}
	return total, nil
}

// Get fetches the single row matching filters into out. The singular
// representation is requested via the Accept header; the store answers 406
// when no row matches, which surfaces as ErrNotFound.
func (c *Client) Get(ctx context.Context, resource string, filters []Filter, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, resource, filters, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.pgrst.object+json")

	resp, err := c.do(ctx, req)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusNotAcceptable || apiErr.StatusCode == http.StatusNotFound) {
			return ErrNotFound
		}
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

// Create inserts body into resource, requesting the full representation,
// and decodes the created row into out when out is non-nil.
func (c *Client) Create(ctx context.Context, resource string, body, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, resource, nil, body)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeRepresentation(resp.Body, resource, out)
}

// Update patches all rows matching filters, requesting the representation,
// and decodes the first updated row into out when out is non-nil.
func (c *Client) Update(ctx context.Context, resource string, filters []Filter, patch, out any) error {
	req, err := c.newRequest(ctx, http.MethodPatch, resource, filters, patch)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeRepresentation(resp.Body, resource, out)
}

// Delete removes all rows matching filters.
func (c *Client) Delete(ctx context.Context, resource string, filters []Filter) error {
	req, err := c.newRequest(ctx, http.MethodDelete, resource, filters, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, resource string, filters []Filter, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", resource, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+resource, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	q := url.Values{}
	for _, f := range filters {
		q.Add(f.Field, f.queryValue())
	}
	req.URL.RawQuery = q.Encode()
	return req, nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	token, ok := tokenFrom(ctx)
	if !ok && c.token != nil {
		token = c.token(ctx)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postgrest: %s %s: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return nil, ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	return resp, nil
}

// decodeRepresentation unwraps the array representation PostgREST returns
// for writes and decodes its first element into out.
func decodeRepresentation(r io.Reader, resource string, out any) error {
	if out == nil {
		return nil
	}
	var rows []json.RawMessage
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return fmt.Errorf("decode %s representation: %w", resource, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("postgrest: %s write returned an empty representation", resource)
	}
	if err := json.Unmarshal(rows[0], out); err != nil {
		return fmt.Errorf("decode %s representation: %w", resource, err)
	}
	return nil
}

// parseContentRange extracts the total from "start-end/total". A total of
// "*" or a missing header yields -1.
func parseContentRange(h string) int64 {
	idx := strings.LastIndex(h, "/")
	if idx < 0 {
		return -1
	}
	totalPart := h[idx+1:]
	if totalPart == "*" || totalPart == "" {
		return -1
	}
	total, err := strconv.ParseInt(totalPart, 10, 64)
	if err != nil {
		return -1
	}
	return total
}

func readErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Hint    string `json:"hint"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
