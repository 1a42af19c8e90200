package suites

import (
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/sku-verifier/pkg/skuapi"
	"github.com/unikorn-cloud/sku-verifier/test/api"
)

var _ = Describe("Listing and Metadata", func() {
	Context("When listing the SKU collection", func() {
		Describe("Given the collection is reachable", func() {
			It("should return an array of items", func() {
				// Given: A reachable collection endpoint
				// When: I request the list of SKUs
				items, err := client.ListItems(ctx)

				// Then: The request succeeds and decodes as an item array
				Expect(err).NotTo(HaveOccurred(), "expected 200 listing skus")
				Expect(items).NotTo(BeNil())

				GinkgoWriter.Printf("Found %d skus\n", len(items))
			})

			It("should include a newly written SKU", func() {
				item, _ := api.CreateItemWithCleanup(client, ctx, config, api.NewItemPayload().Build())

				items, err := client.ListItems(ctx)
				Expect(err).NotTo(HaveOccurred())

				var listed []string
				for _, i := range items {
					listed = append(listed, i.SKU)
				}

				Expect(listed).To(ContainElement(item.SKU))
			})
		})

		Describe("Given existing items", func() {
			It("should return each listed item unchanged from the single item endpoint", func() {
				items, err := client.ListItems(ctx)
				Expect(err).NotTo(HaveOccurred())

				// Specs running in parallel delete their own records at any time.
				items = slices.DeleteFunc(items, func(item skuapi.Item) bool {
					return skuapi.IsGenerated(item.SKU)
				})

				if len(items) == 0 {
					Skip("collection holds no long lived records")
				}

				sample := min(config.ListSampleSize, len(items))

				for i := range sample {
					envelope := api.VerifyStoredItem(client, ctx, items[i])
					GinkgoWriter.Printf("sku %s retry attempts=%d\n", envelope.Item.SKU, *envelope.ResponseMetadata.RetryAttempts)
				}
			})
		})
	})
})
