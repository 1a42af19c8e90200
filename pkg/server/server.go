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

// Package server is an in-process test double of the SKU API used to exercise
// the client, contract and verifier without a deployment.  It keeps records
// in memory only.  Faults break individual rules so that every check has a
// failing case.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"

	"github.com/unikorn-cloud/sku-verifier/pkg/skuapi"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Fault names a deliberate contract violation.
type Fault string

const (
	// FaultResetCreatedAt makes updates stamp a new createdAt.
	FaultResetCreatedAt Fault = "reset-created-at"

	// FaultDeleteBody makes deletes return a body.
	FaultDeleteBody Fault = "delete-body"

	// FaultAcceptEmpty stores records with empty fields.
	FaultAcceptEmpty Fault = "accept-empty"

	// FaultStaleUpdatedAt makes updates keep the previous updatedAt.
	FaultStaleUpdatedAt Fault = "stale-updated-at"
)

// ErrUnknownFault is raised when a fault is requested that doesn't exist.
var ErrUnknownFault = errors.New("unknown fault")

// Options configure the test double.
type Options struct {
	// Stage is the path prefix the API is rooted at, empty for none.
	Stage string
	// Faults are injected contract violations.
	Faults []string
	// Clock defaults to time.Now.
	Clock skuapi.Clock
}

func (o *Options) faults() ([]Fault, error) {
	faults := make([]Fault, 0, len(o.Faults))

	for _, name := range o.Faults {
		fault := Fault(name)

		switch fault {
		case FaultResetCreatedAt, FaultStaleUpdatedAt, FaultDeleteBody, FaultAcceptEmpty:
			faults = append(faults, fault)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownFault, name)
		}
	}

	return faults, nil
}

// loggingMiddleware attaches the logger to every request and logs completion.
func loggingMiddleware(logger logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := log.IntoContext(r.Context(), logger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			log.FromContext(ctx).Info("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start), "traceparent", r.Header.Get("Traceparent"))
		})
	}
}

// NewRouter returns the API routed under the configured stage.
func NewRouter(ctx context.Context, options *Options) (chi.Router, error) {
	faults, err := options.faults()
	if err != nil {
		return nil, err
	}

	handler := NewHandler(NewStore(options.Clock), faults...)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(loggingMiddleware(log.FromContext(ctx).WithName("http")))

	routes := func(r chi.Router) {
		r.Get("/skus", handler.ListItems)
		r.Post("/skus", handler.PutItem)
		r.Get("/skus/{sku}", handler.GetItem)
		r.Delete("/skus/{sku}", handler.DeleteItem)
	}

	if stage := strings.Trim(options.Stage, "/"); stage != "" {
		router.Route("/"+stage, routes)
	} else {
		routes(router)
	}

	return router, nil
}
