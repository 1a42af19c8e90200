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

package server

import (
	"encoding/json"
	"hash/crc32"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/unikorn-cloud/sku-verifier/pkg/skuapi"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

type Handler struct {
	// store holds the records.
	store *Store

	// faults make the handler break its contract on purpose.
	faults map[Fault]bool
}

func NewHandler(store *Store, faults ...Fault) *Handler {
	h := &Handler{
		store:  store,
		faults: map[Fault]bool{},
	}

	for _, fault := range faults {
		h.faults[fault] = true
	}

	return h
}

func writeJSONResponse(w http.ResponseWriter, r *http.Request, code int, response any) {
	body, err := json.Marshal(response)
	if err != nil {
		log.FromContext(r.Context()).Error(err, "failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		log.FromContext(r.Context()).Error(err, "failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, code int, message string) {
	writeJSONResponse(w, r, code, map[string]string{"message": message})
}

// envelope wraps the item in backing store metadata as the GET endpoint does.
func envelope(item skuapi.Item) (*skuapi.ItemEnvelope, error) {
	data, err := json.Marshal(map[string]skuapi.Item{"Item": item})
	if err != nil {
		return nil, err
	}

	requestID := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	retryAttempts := 0

	return &skuapi.ItemEnvelope{
		Item: item,
		ResponseMetadata: skuapi.ResponseMetadata{
			RequestID:      requestID,
			HTTPStatusCode: http.StatusOK,
			HTTPHeaders: skuapi.HTTPHeaders{
				Server:        "Server",
				ContentType:   skuapi.AmzJSONContentType,
				ContentLength: strconv.Itoa(len(data)),
				Connection:    "keep-alive",
				RequestID:     requestID,
				CRC32:         strconv.FormatUint(uint64(crc32.ChecksumIEEE(data)), 10),
			},
			RetryAttempts: &retryAttempts,
		},
	}, nil
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, r, http.StatusOK, h.store.List())
}

func (h *Handler) PutItem(w http.ResponseWriter, r *http.Request) {
	var request skuapi.ItemBase

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, r, http.StatusBadRequest, "request body is not a sku record")
		return
	}

	if !h.faults[FaultAcceptEmpty] {
		switch {
		case request.SKU == "":
			writeError(w, r, http.StatusBadRequest, "sku must not be empty")
			return
		case request.Description == "":
			writeError(w, r, http.StatusBadRequest, "description must not be empty")
			return
		case request.Price == "":
			writeError(w, r, http.StatusBadRequest, "price must not be empty")
			return
		}
	}

	previous, exists := h.store.Get(request.SKU)

	item := h.store.Put(request)

	if exists && h.faults[FaultResetCreatedAt] {
		item.CreatedAt = item.UpdatedAt
		h.store.replace(item)
	}

	if exists && h.faults[FaultStaleUpdatedAt] {
		item.UpdatedAt = previous.UpdatedAt
		h.store.replace(item)
	}

	log.FromContext(r.Context()).V(1).Info("wrote sku", "sku", item.SKU, "createdAt", item.CreatedAt, "updatedAt", item.UpdatedAt)

	writeJSONResponse(w, r, http.StatusOK, item)
}

// skuParameter returns the decoded SKU, chi routes on the raw path when the
// request path carries escapes.
func skuParameter(r *http.Request) (string, error) {
	sku := chi.URLParam(r, "sku")

	if r.URL.RawPath == "" {
		return sku, nil
	}

	return url.PathUnescape(sku)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	sku, err := skuParameter(r)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "sku not found")
		return
	}

	item, ok := h.store.Get(sku)
	if !ok {
		writeError(w, r, http.StatusNotFound, "sku not found")
		return
	}

	result, err := envelope(item)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "unable to encode sku")
		return
	}

	writeJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	sku, err := skuParameter(r)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "sku not found")
		return
	}

	if !h.store.Delete(sku) {
		writeError(w, r, http.StatusNotFound, "sku not found")
		return
	}

	log.FromContext(r.Context()).V(1).Info("deleted sku", "sku", sku)

	if h.faults[FaultDeleteBody] {
		writeJSONResponse(w, r, http.StatusOK, map[string]string{"sku": sku})
		return
	}

	w.WriteHeader(http.StatusOK)
}
