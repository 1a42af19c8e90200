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

// Package verifier checks a deployed SKU API against its CRUD contract
// outside of a test framework, so the checks can run as a standalone job.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/unikorn-cloud/sku-verifier/pkg/skuapi"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

var (
	// ErrUnexpectedSuccess is raised when the service accepts a request it must reject.
	ErrUnexpectedSuccess = errors.New("unexpected success")

	// ErrUnexpectedBody is raised when a response that must be empty has content.
	ErrUnexpectedBody = errors.New("unexpected response body")
)

// Options tune the checks.
type Options struct {
	// ListSample is how many listed items are fetched individually.
	ListSample int
	// ClockSkew widens timestamp windows.
	ClockSkew time.Duration
	// Clock defaults to time.Now.
	Clock skuapi.Clock
	// NewSKU generates identifiers, defaults to prefixed random UUIDs.
	NewSKU func() string
}

// AddFlags registers the tunable options.
func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.IntVar(&o.ListSample, "list-sample", 2, "Number of listed items to fetch individually")
	f.DurationVar(&o.ClockSkew, "clock-skew", 0, "Tolerance applied to timestamp windows")
}

// Verifier runs contract checks with a single client.
type Verifier struct {
	client  *skuapi.Client
	options Options
}

// New returns a new verifier.
func New(client *skuapi.Client, options Options) *Verifier {
	if options.Clock == nil {
		options.Clock = time.Now
	}

	if options.NewSKU == nil {
		options.NewSKU = func() string {
			return skuapi.GeneratedSKUPrefix + uuid.NewString()
		}
	}

	return &Verifier{
		client:  client,
		options: options,
	}
}

// expectStatus turns the result of an operation that must fail with the
// given status into an error describing any other outcome.
func expectStatus(err error, status int) error {
	if err == nil {
		return fmt.Errorf("%w: expected status %d, got %d", ErrUnexpectedSuccess, status, http.StatusOK)
	}

	if skuapi.StatusCode(err) != status {
		return fmt.Errorf("expected status %d: %w", status, err)
	}

	return nil
}

// cleanup deletes a SKU the scenario may have written, tolerating its
// absence.  Failures are folded into the scenario error.
func (v *Verifier) cleanup(ctx context.Context, sku string, errp *error) {
	log := log.FromContext(ctx)

	if _, err := v.client.DeleteItem(ctx, sku); err != nil && !skuapi.IsNotFound(err) {
		log.Error(err, "failed to clean up sku", "sku", sku)

		*errp = utilerrors.NewAggregate([]error{*errp, fmt.Errorf("cleanup: %w", err)})

		return
	}

	log.V(1).Info("cleaned up sku", "sku", sku)
}

// write posts the item and records the time window around the request.
func (v *Verifier) write(ctx context.Context, request skuapi.ItemBase) (*skuapi.Item, skuapi.TimeWindow, error) {
	var item *skuapi.Item

	window, err := skuapi.Measure(v.options.Clock, func() error {
		var err error

		item, err = v.client.PutItem(ctx, request)

		return err
	})
	if err != nil {
		return nil, window, err
	}

	if err := skuapi.CompareItemBase(item.ItemBase, request); err != nil {
		return nil, window, err
	}

	return item, window.WithTolerance(v.options.ClockSkew), nil
}

// fetch gets the item, checks its envelope and compares it with what was
// last written.
func (v *Verifier) fetch(ctx context.Context, expected skuapi.Item) error {
	envelope, err := v.client.GetItem(ctx, expected.SKU)
	if err != nil {
		return err
	}

	if err := envelope.Verify(http.StatusOK); err != nil {
		return fmt.Errorf("sku %s: %w", expected.SKU, err)
	}

	return skuapi.CompareItem(envelope.Item, expected)
}

// List checks the collection can be listed.
func (v *Verifier) List(ctx context.Context) error {
	items, err := v.client.ListItems(ctx)
	if err != nil {
		return err
	}

	log.FromContext(ctx).Info("listed skus", "count", len(items))

	return nil
}

// ListConsistency checks the first listed items are returned identically by
// the single item endpoint.  Records written by test runs are skipped as
// a concurrent run may delete them between the list and the fetch.
func (v *Verifier) ListConsistency(ctx context.Context) error {
	items, err := v.client.ListItems(ctx)
	if err != nil {
		return err
	}

	items = slices.DeleteFunc(items, func(item skuapi.Item) bool {
		return skuapi.IsGenerated(item.SKU)
	})

	sample := min(v.options.ListSample, len(items))

	for i := range sample {
		if err := v.fetch(ctx, items[i]); err != nil {
			return err
		}
	}

	log.FromContext(ctx).V(1).Info("checked listed skus", "sampled", sample)

	return nil
}

// FetchMissing checks an unknown SKU is reported as not found.
func (v *Verifier) FetchMissing(ctx context.Context) error {
	_, err := v.client.GetItem(ctx, v.options.NewSKU())

	return expectStatus(err, http.StatusNotFound)
}

// DeleteMissing checks deleting an unknown SKU is reported as not found.
func (v *Verifier) DeleteMissing(ctx context.Context) error {
	_, err := v.client.DeleteItem(ctx, v.options.NewSKU())

	return expectStatus(err, http.StatusNotFound)
}

// CreateUpdate writes a new SKU, then overwrites it, checking the timestamps
// follow the write windows and reads return the last write.
func (v *Verifier) CreateUpdate(ctx context.Context) (err error) {
	request := skuapi.ItemBase{
		SKU:         v.options.NewSKU(),
		Description: "post test",
		Price:       "1.23",
	}

	defer v.cleanup(ctx, request.SKU, &err)

	created, createWindow, err := v.write(ctx, request)
	if err != nil {
		return err
	}

	if err := createWindow.Contains("createdAt", created.CreatedAt); err != nil {
		return err
	}

	if err := createWindow.Contains("updatedAt", created.UpdatedAt); err != nil {
		return err
	}

	if err := v.fetch(ctx, *created); err != nil {
		return err
	}

	update := skuapi.ItemBase{
		SKU:         request.SKU,
		Description: "post test updated",
		Price:       "1.24",
	}

	updated, updateWindow, err := v.write(ctx, update)
	if err != nil {
		return err
	}

	if updated.CreatedAt != created.CreatedAt {
		return fmt.Errorf("%w: update changed createdAt from %q to %q", skuapi.ErrFieldMismatch, created.CreatedAt, updated.CreatedAt)
	}

	if err := createWindow.Contains("createdAt", updated.CreatedAt); err != nil {
		return err
	}

	if err := updateWindow.Contains("updatedAt", updated.UpdatedAt); err != nil {
		return err
	}

	return v.fetch(ctx, *updated)
}

// Delete writes a SKU, deletes it expecting an empty body, then checks it is
// gone.
func (v *Verifier) Delete(ctx context.Context) (err error) {
	request := skuapi.ItemBase{
		SKU:         v.options.NewSKU(),
		Description: "delete test",
		Price:       "1.23",
	}

	defer v.cleanup(ctx, request.SKU, &err)

	created, _, err := v.write(ctx, request)
	if err != nil {
		return err
	}

	if err := v.fetch(ctx, *created); err != nil {
		return err
	}

	resp, err := v.client.DeleteItem(ctx, request.SKU)
	if err != nil {
		return err
	}

	if len(resp.Body) != 0 {
		return fmt.Errorf("%w: delete of sku %s returned %q", ErrUnexpectedBody, request.SKU, resp.Body)
	}

	_, err = v.client.GetItem(ctx, request.SKU)

	return expectStatus(err, http.StatusNotFound)
}

// RejectEmpty posts an item with the named field blanked and checks it is
// rejected and nothing was written.
func (v *Verifier) RejectEmpty(ctx context.Context, field string) (err error) {
	request := skuapi.ItemBase{
		SKU:         v.options.NewSKU(),
		Description: "post test",
		Price:       "1.23",
	}

	switch field {
	case FieldSKU:
		request.SKU = ""
	case FieldDescription:
		request.Description = ""
	case FieldPrice:
		request.Price = ""
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	if request.SKU != "" {
		defer v.cleanup(ctx, request.SKU, &err)
	}

	_, err = v.client.PutItem(ctx, request)
	if err := expectStatus(err, http.StatusBadRequest); err != nil {
		return fmt.Errorf("empty %s: %w", field, err)
	}

	if request.SKU == "" {
		return nil
	}

	_, err = v.client.GetItem(ctx, request.SKU)
	if err := expectStatus(err, http.StatusNotFound); err != nil {
		return fmt.Errorf("rejected sku %s was written: %w", request.SKU, err)
	}

	return nil
}
