/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//go:generate go tool mockgen -source=client.go -destination=mock/interfaces.go -package=mock

package skuapi

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/unikorn-cloud/sku-verifier/pkg/constants"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

const defaultTimeout = 30 * time.Second

// Doer sends a single HTTP request, *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ResponseValidator checks a raw response against a published API contract.
type ResponseValidator interface {
	ValidateResponse(ctx context.Context, req *http.Request, status int, header http.Header, body []byte) error
}

// Response is a fully consumed HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	TraceID    string
}

// Client talks to the SKU API.  Every request is built from scratch so no
// headers or bodies leak between calls.
type Client struct {
	baseURL      string
	client       Doer
	validator    ResponseValidator
	endpoints    *Endpoints
	logRequests  bool
	logResponses bool
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client Doer) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithTimeout sets the per request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client = &http.Client{
			Timeout: timeout,
		}
	}
}

// WithResponseValidator validates every response before it is decoded.
func WithResponseValidator(validator ResponseValidator) Option {
	return func(c *Client) {
		c.validator = validator
	}
}

// WithRequestLogging logs a line for every request.
func WithRequestLogging(enabled bool) Option {
	return func(c *Client) {
		c.logRequests = enabled
	}
}

// WithResponseLogging logs every non-empty response body.
func WithResponseLogging(enabled bool) Option {
	return func(c *Client) {
		c.logResponses = enabled
	}
}

// NewClient returns a client for the API stage rooted at baseURL.
func NewClient(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		endpoints: NewEndpoints(),
	}

	for _, o := range options {
		o(c)
	}

	return c
}

// BaseURL returns the stage root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// generateTraceID creates a new W3C trace ID.
// A fresh trace per request lets a failure be found in the service logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// Do issues a request and consumes the response.  A non-nil body is encoded
// as JSON.  When expectedStatus is non-zero any other status yields a
// *StatusError along with the response.
//
//nolint:cyclop
func (c *Client) Do(ctx context.Context, method, path string, body any, expectedStatus int) (*Response, error) {
	log := log.FromContext(ctx)

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	traceParent := createTraceParent()
	traceID := extractTraceID(traceParent)

	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=sku-verifier")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.UserAgent())

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Error(err, "http request failed", "method", method, "path", path, "duration", duration, "traceID", traceID)

		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(err, "reading response body", "method", method, "path", path, "duration", duration, "status", resp.StatusCode, "traceID", traceID)

		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.logRequests {
		log.Info("request complete", "method", method, "path", path, "status", resp.StatusCode, "duration", duration, "traceID", traceID)
	}

	if c.logResponses && len(respBody) > 0 {
		log.Info("response body", "method", method, "path", path, "body", string(respBody))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		TraceID:    traceID,
	}

	if c.validator != nil {
		if err := c.validator.ValidateResponse(ctx, req, resp.StatusCode, resp.Header, respBody); err != nil {
			log.Info("response violates api contract", "method", method, "path", path, "status", resp.StatusCode, "traceID", traceID, "error", err.Error())

			return result, fmt.Errorf("%s %s: %w (trace ID: %s)", method, path, err, traceID)
		}
	}

	if expectedStatus > 0 && resp.StatusCode != expectedStatus {
		log.V(1).Info("unexpected status", "method", method, "path", path, "expected", expectedStatus, "status", resp.StatusCode, "body", string(respBody), "traceID", traceID)

		return result, &StatusError{
			Method:   method,
			Path:     path,
			Expected: expectedStatus,
			Actual:   resp.StatusCode,
			Body:     string(respBody),
			TraceID:  traceID,
		}
	}

	return result, nil
}

// ListItems returns every SKU in the collection.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	resp, err := c.Do(ctx, http.MethodGet, c.endpoints.ListItems(), nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("listing skus: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(resp.Body, &items); err != nil {
		return nil, fmt.Errorf("unmarshaling skus response: %w", err)
	}

	return items, nil
}

// GetItem returns a single SKU wrapped in its response envelope.
func (c *Client) GetItem(ctx context.Context, sku string) (*ItemEnvelope, error) {
	resp, err := c.Do(ctx, http.MethodGet, c.endpoints.GetItem(sku), nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("getting sku %s: %w", sku, err)
	}

	var envelope ItemEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshaling sku %s response: %w", sku, err)
	}

	return &envelope, nil
}

// PutItem creates the SKU, or updates it when it already exists.
func (c *Client) PutItem(ctx context.Context, item ItemBase) (*Item, error) {
	resp, err := c.Do(ctx, http.MethodPost, c.endpoints.CreateItem(), item, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("writing sku %s: %w", item.SKU, err)
	}

	var result Item
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling sku %s response: %w", item.SKU, err)
	}

	return &result, nil
}

// DeleteItem removes the SKU.  The response is returned so callers can
// inspect the body.
func (c *Client) DeleteItem(ctx context.Context, sku string) (*Response, error) {
	resp, err := c.Do(ctx, http.MethodDelete, c.endpoints.DeleteItem(sku), nil, http.StatusOK)
	if err != nil {
		return resp, fmt.Errorf("deleting sku %s: %w", sku, err)
	}

	return resp, nil
}
