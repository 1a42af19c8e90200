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

var _ = Describe("Boundary Value Testing", func() {
	Context("When writing a SKU with missing data", func() {
		DescribeTable("should reject the payload with 400 Bad Request",
			func(field string) {
				payload := api.NewItemPayload().
					WithEmptyField(field).
					Build()

				// A misbehaving service may store the record, make sure it is removed.
				if payload.SKU != "" {
					api.DeleteItemOnCleanup(client, ctx, payload.SKU)
				}

				item, err := client.PutItem(ctx, payload)

				Expect(err).To(HaveOccurred(), "expected 400 for empty %s", field)
				Expect(item).To(BeNil())
				Expect(skuapi.StatusCode(err)).To(Equal(http.StatusBadRequest), "expected 400 for empty %s, got %v", field, err)

				if payload.SKU != "" {
					api.VerifyAbsent(client, ctx, payload.SKU)
				}
			},
			Entry("empty sku", "sku"),
			Entry("empty description", "description"),
			Entry("empty price", "price"),
		)
	})
})
