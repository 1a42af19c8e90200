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
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/sku-verifier/pkg/skuapi"
	"github.com/unikorn-cloud/sku-verifier/test/api"
)

var _ = Describe("Error Handling and Edge Cases", func() {
	Context("When addressing a SKU that was never written", func() {
		Describe("Given a freshly generated identifier", func() {
			It("should return not found on get", func() {
				envelope, err := client.GetItem(ctx, api.GenerateSKU())

				Expect(err).To(HaveOccurred(), "expected 404")
				Expect(envelope).To(BeNil())
				Expect(skuapi.StatusCode(err)).To(Equal(http.StatusNotFound))
			})

			It("should return not found on delete", func() {
				_, err := client.DeleteItem(ctx, api.GenerateSKU())

				Expect(err).To(HaveOccurred(), "expected 404")
				Expect(skuapi.IsNotFound(err)).To(BeTrue(), "expected 404, got %v", err)
			})
		})
	})

	Context("When addressing a SKU that has been deleted", func() {
		Describe("Given the delete succeeded", func() {
			It("should return not found on a repeated delete", func() {
				item, _ := api.CreateItemWithCleanup(client, ctx, config, api.NewItemPayload().Build())

				_, err := client.DeleteItem(ctx, item.SKU)
				Expect(err).NotTo(HaveOccurred())

				_, err = client.DeleteItem(ctx, item.SKU)
				Expect(skuapi.IsNotFound(err)).To(BeTrue(), "expected 404 on repeated delete, got %v", err)
			})
		})
	})
})
