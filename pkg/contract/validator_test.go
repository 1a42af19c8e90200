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

package contract_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unikorn-cloud/sku-verifier/pkg/contract"
)

const (
	baseURL = "https://sku.example.com/dev"

	item = `{"sku":"abc-123","description":"post test","price":"1.23","createdAt":"1700000000","updatedAt":"1700000000"}`

	envelope = `{"Item":` + item + `,"ResponseMetadata":{"HTTPStatusCode":200,"HTTPHeaders":{"content-type":"application/x-amz-json-1.0"},"RetryAttempts":0}}`
)

func jsonHeader() http.Header {
	return http.Header{
		"Content-Type": []string{"application/json"},
	}
}

func newValidator(t *testing.T) *contract.Validator {
	t.Helper()

	validator, err := contract.NewValidator(baseURL + "/")
	require.NoError(t, err)

	return validator
}

// TestLoad ensures the embedded document is valid OpenAPI.
func TestLoad(t *testing.T) {
	t.Parallel()

	doc, err := contract.Load()
	require.NoError(t, err)
	require.NotNil(t, doc.Paths.Find("/skus"))
	require.NotNil(t, doc.Paths.Find("/skus/{sku}"))
}

// TestValidResponses ensures conforming responses pass.
func TestValidResponses(t *testing.T) {
	t.Parallel()

	validator := newValidator(t)

	req := httptest.NewRequest(http.MethodGet, baseURL+"/skus", nil)
	require.NoError(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, jsonHeader(), []byte("["+item+"]")))
	require.NoError(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, jsonHeader(), []byte("[]")))

	req = httptest.NewRequest(http.MethodPost, baseURL+"/skus", nil)
	require.NoError(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, jsonHeader(), []byte(item)))
	require.NoError(t, validator.ValidateResponse(t.Context(), req, http.StatusBadRequest, jsonHeader(), []byte(`{"message":"price must not be empty"}`)))

	req = httptest.NewRequest(http.MethodGet, baseURL+"/skus/abc-123", nil)
	require.NoError(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, jsonHeader(), []byte(envelope)))
	require.NoError(t, validator.ValidateResponse(t.Context(), req, http.StatusNotFound, http.Header{}, nil))

	req = httptest.NewRequest(http.MethodDelete, baseURL+"/skus/abc-123", nil)
	require.NoError(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, http.Header{}, nil))
}

// TestInvalidResponses ensures schema violations are reported.
func TestInvalidResponses(t *testing.T) {
	t.Parallel()

	validator := newValidator(t)

	// Single item GET must be enveloped.
	req := httptest.NewRequest(http.MethodGet, baseURL+"/skus/abc-123", nil)
	require.Error(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, jsonHeader(), []byte(item)))

	// List must be a bare array.
	req = httptest.NewRequest(http.MethodGet, baseURL+"/skus", nil)
	require.Error(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, jsonHeader(), []byte(envelope)))

	// Timestamps are decimal epoch seconds.
	req = httptest.NewRequest(http.MethodPost, baseURL+"/skus", nil)
	require.Error(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, jsonHeader(),
		[]byte(`{"sku":"abc-123","description":"post test","price":"1.23","createdAt":"2023-11-14T22:13:20Z","updatedAt":"1700000000"}`)))

	// Missing required fields.
	require.Error(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, jsonHeader(), []byte(`{"sku":"abc-123"}`)))

	// Negative retry attempts.
	req = httptest.NewRequest(http.MethodGet, baseURL+"/skus/abc-123", nil)
	require.Error(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, jsonHeader(),
		[]byte(`{"Item":`+item+`,"ResponseMetadata":{"HTTPStatusCode":200,"HTTPHeaders":{"content-type":"application/x-amz-json-1.0"},"RetryAttempts":-1}}`)))
}

// TestUndocumented ensures unknown operations and status codes are reported.
func TestUndocumented(t *testing.T) {
	t.Parallel()

	validator := newValidator(t)

	req := httptest.NewRequest(http.MethodPut, baseURL+"/skus/abc-123", nil)
	require.ErrorIs(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, http.Header{}, nil), contract.ErrUndocumented)

	req = httptest.NewRequest(http.MethodGet, baseURL+"/items", nil)
	require.ErrorIs(t, validator.ValidateResponse(t.Context(), req, http.StatusOK, http.Header{}, nil), contract.ErrUndocumented)

	req = httptest.NewRequest(http.MethodPost, baseURL+"/skus", nil)
	require.Error(t, validator.ValidateResponse(t.Context(), req, http.StatusCreated, jsonHeader(), []byte(item)))
}
