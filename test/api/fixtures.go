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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/sku-verifier/pkg/skuapi"
)

// GenerateSKU returns an identifier that no other run will collide with.
func GenerateSKU() string {
	return skuapi.GeneratedSKUPrefix + uuid.NewString()
}

// WriteItem posts the payload, expecting success, and returns the stored item
// along with the time window around the request.
func WriteItem(client *skuapi.Client, ctx context.Context, config *TestConfig, payload skuapi.ItemBase) (*skuapi.Item, skuapi.TimeWindow) {
	var item *skuapi.Item

	window, err := skuapi.Measure(nil, func() error {
		var err error

		item, err = client.PutItem(ctx, payload)

		return err
	})

	Expect(err).NotTo(HaveOccurred(), "expected 200 writing sku %s", payload.SKU)
	VerifyItemBase(item.ItemBase, payload)

	return item, window.WithTolerance(config.ClockSkew)
}

// DeleteItem removes a SKU at the end of the spec.  A missing record is fine,
// the spec may have deleted it already, any other failure is logged but does
// not fail the spec.
func DeleteItem(client *skuapi.Client, ctx context.Context, sku string) {
	GinkgoWriter.Printf("Cleaning up sku: %s\n", sku)

	if _, err := client.DeleteItem(ctx, sku); err != nil {
		if skuapi.IsNotFound(err) {
			return
		}

		GinkgoWriter.Printf("Warning: Failed to delete sku %s: %v\n", sku, err)

		return
	}

	GinkgoWriter.Printf("Successfully deleted sku: %s\n", sku)
}

// DeleteItemOnCleanup schedules DeleteItem to run whether the spec passes or fails.
func DeleteItemOnCleanup(client *skuapi.Client, ctx context.Context, sku string) {
	DeferCleanup(DeleteItem, client, ctx, sku)
}

// CreateItemWithCleanup creates a SKU and schedules its deletion.  Cleanup is
// registered before the request so a partially failed create is removed too.
func CreateItemWithCleanup(client *skuapi.Client, ctx context.Context, config *TestConfig, payload skuapi.ItemBase) (*skuapi.Item, skuapi.TimeWindow) {
	DeleteItemOnCleanup(client, ctx, payload.SKU)

	item, window := WriteItem(client, ctx, config, payload)

	GinkgoWriter.Printf("Created sku %s createdAt=%s window=%s\n", item.SKU, item.CreatedAt, window)

	return item, window
}

// VerifyItemBase verifies the writable fields match.
func VerifyItemBase(actual, expected skuapi.ItemBase) {
	Expect(skuapi.CompareItemBase(actual, expected)).To(Succeed())
}

// VerifyItem verifies every field matches, timestamps included.
func VerifyItem(actual, expected skuapi.Item) {
	Expect(skuapi.CompareItem(actual, expected)).To(Succeed())
}

// VerifyWithinWindow verifies a timestamp was written during the window.
func VerifyWithinWindow(window skuapi.TimeWindow, name, value string) {
	Expect(window.Contains(name, value)).To(Succeed(), "%s out of time window", name)
}

// VerifyStoredItem fetches the SKU and verifies both the envelope and the item
// against the last write.
func VerifyStoredItem(client *skuapi.Client, ctx context.Context, expected skuapi.Item) *skuapi.ItemEnvelope {
	envelope, err := client.GetItem(ctx, expected.SKU)
	Expect(err).NotTo(HaveOccurred(), "expected 200 getting sku %s", expected.SKU)
	Expect(envelope.ResponseMetadata.HTTPStatusCode).To(Equal(http.StatusOK))
	Expect(envelope.ResponseMetadata.HTTPHeaders.ContentType).To(Equal(skuapi.AmzJSONContentType))
	Expect(envelope.ResponseMetadata.RetryAttempts).NotTo(BeNil(), "retry attempts should be present")
	Expect(*envelope.ResponseMetadata.RetryAttempts).To(BeNumerically(">=", 0), "retry attempts is non-negative")
	VerifyItem(envelope.Item, expected)

	return envelope
}

// VerifyAbsent verifies the SKU is reported as not found.
func VerifyAbsent(client *skuapi.Client, ctx context.Context, sku string) {
	_, err := client.GetItem(ctx, sku)
	Expect(err).To(HaveOccurred(), "expected 404 getting sku %s", sku)
	Expect(skuapi.StatusCode(err)).To(Equal(http.StatusNotFound), "expected 404 getting sku %s", sku)
}
