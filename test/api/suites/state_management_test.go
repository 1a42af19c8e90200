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

//nolint:testpackage,revive // test package in suites is standard for these tests
package suites

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/sku-verifier/test/api"
)

var _ = Describe("State Management", func() {
	Context("When a SKU moves through its lifecycle", func() {
		Describe("Given absent, present, updated and deleted states", func() {
			It("should observe every transition", func() {
				payload := api.NewItemPayload().Build()

				// absent
				api.VerifyAbsent(client, ctx, payload.SKU)

				// present
				created, createWindow := api.CreateItemWithCleanup(client, ctx, config, payload)
				api.VerifyWithinWindow(createWindow, "createdAt", created.CreatedAt)
				api.VerifyStoredItem(client, ctx, *created)

				// updated, repeatably
				current := created

				for _, price := range []string{"1.24", "1.25"} {
					updated, window := api.WriteItem(client, ctx, config,
						api.NewItemPayload().
							WithSKU(payload.SKU).
							WithPrice(price).
							Build())

					Expect(updated.CreatedAt).To(Equal(created.CreatedAt))
					api.VerifyWithinWindow(window, "updatedAt", updated.UpdatedAt)
					api.VerifyStoredItem(client, ctx, *updated)

					current = updated
				}

				// absent again
				resp, err := client.DeleteItem(ctx, current.SKU)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Body).To(BeEmpty())

				api.VerifyAbsent(client, ctx, current.SKU)
			})
		})
	})
})
