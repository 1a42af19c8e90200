/*
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

package skuapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AmzJSONContentType is the content type the service echoes from its backing
// store in single item responses.
const AmzJSONContentType = "application/x-amz-json-1.0"

// GeneratedSKUPrefix marks identifiers created by test runs.  Records carrying
// it are transient and may vanish at any time while other runs clean up.
const GeneratedSKUPrefix = "test-"

// IsGenerated tells whether the SKU was created by a test run.
func IsGenerated(sku string) bool {
	return strings.HasPrefix(sku, GeneratedSKUPrefix)
}

var (
	// ErrFieldMismatch is raised when a returned record differs from the expected one.
	ErrFieldMismatch = errors.New("field mismatch")

	// ErrEnvelope is raised when the single item response metadata is invalid.
	ErrEnvelope = errors.New("invalid response envelope")
)

// ItemBase is the writable part of a SKU record.
type ItemBase struct {
	SKU         string `json:"sku"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// Item is a SKU record as stored by the service.  Timestamps are unix epoch
// seconds encoded as decimal text.
type Item struct {
	ItemBase

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// HTTPHeaders are the backing store's response headers echoed by the service.
type HTTPHeaders struct {
	Server        string `json:"server,omitempty"`
	Date          string `json:"date,omitempty"`
	ContentType   string `json:"content-type"`
	ContentLength string `json:"content-length,omitempty"`
	Connection    string `json:"connection,omitempty"`
	RequestID     string `json:"x-amzn-requestid,omitempty"`
	CRC32         string `json:"x-amz-crc32,omitempty"`
}

// ResponseMetadata describes how the service talked to its backing store.
type ResponseMetadata struct {
	RequestID      string      `json:"RequestId,omitempty"`
	HTTPStatusCode int         `json:"HTTPStatusCode"`
	HTTPHeaders    HTTPHeaders `json:"HTTPHeaders"`
	// RetryAttempts is a pointer so a missing field can be told apart from zero.
	RetryAttempts *int `json:"RetryAttempts"`
}

// ItemEnvelope is returned by the single item GET only, list and POST
// responses carry bare items.
type ItemEnvelope struct {
	Item             Item             `json:"Item"`
	ResponseMetadata ResponseMetadata `json:"ResponseMetadata"`
}

// Verify checks the envelope metadata against the status code actually
// returned to the client.
func (e *ItemEnvelope) Verify(statusCode int) error {
	metadata := &e.ResponseMetadata

	if metadata.HTTPStatusCode != statusCode {
		return fmt.Errorf("%w: embedded status %d does not match response status %d", ErrEnvelope, metadata.HTTPStatusCode, statusCode)
	}

	if metadata.HTTPStatusCode != http.StatusOK {
		return fmt.Errorf("%w: expected embedded status %d, got %d", ErrEnvelope, http.StatusOK, metadata.HTTPStatusCode)
	}

	if metadata.HTTPHeaders.ContentType != AmzJSONContentType {
		return fmt.Errorf("%w: expected content-type %q, got %q", ErrEnvelope, AmzJSONContentType, metadata.HTTPHeaders.ContentType)
	}

	if metadata.RetryAttempts == nil {
		return fmt.Errorf("%w: retry attempts missing", ErrEnvelope)
	}

	if *metadata.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts %d is negative", ErrEnvelope, *metadata.RetryAttempts)
	}

	return nil
}

// CompareItemBase checks the writable fields of actual against expected.
func CompareItemBase(actual, expected ItemBase) error {
	if actual.SKU != expected.SKU {
		return fmt.Errorf("%w: expected sku %q, got %q", ErrFieldMismatch, expected.SKU, actual.SKU)
	}

	if actual.Description != expected.Description {
		return fmt.Errorf("%w: sku %s expected description %q, got %q", ErrFieldMismatch, expected.SKU, expected.Description, actual.Description)
	}

	if actual.Price != expected.Price {
		return fmt.Errorf("%w: sku %s expected price %q, got %q", ErrFieldMismatch, expected.SKU, expected.Price, actual.Price)
	}

	return nil
}

// CompareItem checks every field of actual against expected, timestamps included.
func CompareItem(actual, expected Item) error {
	if actual.CreatedAt != expected.CreatedAt {
		return fmt.Errorf("%w: sku %s expected createdAt %q, got %q", ErrFieldMismatch, expected.SKU, expected.CreatedAt, actual.CreatedAt)
	}

	if actual.UpdatedAt != expected.UpdatedAt {
		return fmt.Errorf("%w: sku %s expected updatedAt %q, got %q", ErrFieldMismatch, expected.SKU, expected.UpdatedAt, actual.UpdatedAt)
	}

	return CompareItemBase(actual.ItemBase, expected.ItemBase)
}
