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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/sku-verifier/test/api"
)

var _ = Describe("Core SKU Management", func() {
	Context("When creating a new SKU", func() {
		Describe("Given a valid payload", func() {
			It("should return the stored item stamped within the request window", func() {
				payload := api.NewItemPayload().Build()

				item, window := api.CreateItemWithCleanup(client, ctx, config, payload)

				Expect(item.SKU).To(Equal(payload.SKU))
				api.VerifyWithinWindow(window, "createdAt", item.CreatedAt)
				api.VerifyWithinWindow(window, "updatedAt", item.UpdatedAt)
			})

			It("should return the same item from the single item endpoint", func() {
				item, _ := api.CreateItemWithCleanup(client, ctx, config,
					api.NewItemPayload().
						WithDescription("get test").
						WithPrice("9.99").
						Build())

				api.VerifyStoredItem(client, ctx, *item)
			})
		})
	})

	Context("When updating an existing SKU", func() {
		Describe("Given a second write with the same SKU", func() {
			It("should keep createdAt and refresh updatedAt", func() {
				payload := api.NewItemPayload().Build()

				created, createWindow := api.CreateItemWithCleanup(client, ctx, config, payload)
				api.VerifyStoredItem(client, ctx, *created)

				update := api.NewItemPayload().
					WithSKU(payload.SKU).
					WithDescription("post test updated").
					WithPrice("1.24").
					Build()

				updated, updateWindow := api.WriteItem(client, ctx, config, update)

				Expect(updated.CreatedAt).To(Equal(created.CreatedAt), "createdAt must not change on update")
				api.VerifyWithinWindow(createWindow, "createdAt", updated.CreatedAt)
				api.VerifyWithinWindow(updateWindow, "updatedAt", updated.UpdatedAt)

				api.VerifyStoredItem(client, ctx, *updated)
			})

			It("should treat an identical rewrite as an update", func() {
				payload := api.NewItemPayload().Build()

				created, _ := api.CreateItemWithCleanup(client, ctx, config, payload)
				rewritten, window := api.WriteItem(client, ctx, config, payload)

				Expect(rewritten.CreatedAt).To(Equal(created.CreatedAt))
				api.VerifyWithinWindow(window, "updatedAt", rewritten.UpdatedAt)

				items, err := client.ListItems(ctx)
				Expect(err).NotTo(HaveOccurred())

				count := 0

				for _, item := range items {
					if item.SKU == payload.SKU {
						count++
					}
				}

				Expect(count).To(Equal(1), "a rewrite must not create a duplicate")
			})
		})
	})

	Context("When deleting a SKU", func() {
		Describe("Given the SKU exists", func() {
			It("should return an empty body and remove the SKU", func() {
				item, _ := api.CreateItemWithCleanup(client, ctx, config, api.NewItemPayload().Build())

				resp, err := client.DeleteItem(ctx, item.SKU)
				Expect(err).NotTo(HaveOccurred(), "expected 200")
				Expect(resp.Body).To(BeEmpty(), "expected empty body")

				api.VerifyAbsent(client, ctx, item.SKU)
			})
		})
	})
})
