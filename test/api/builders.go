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

package api

import (
	"github.com/unikorn-cloud/sku-verifier/pkg/skuapi"
)

// ItemPayloadBuilder builds SKU payloads for testing.  Each With* call
// returns a new builder so a base payload can be shared between specs.
type ItemPayloadBuilder struct {
	payload skuapi.ItemBase
}

// NewItemPayload creates a new payload builder with a fresh random SKU.
func NewItemPayload() ItemPayloadBuilder {
	return ItemPayloadBuilder{
		payload: skuapi.ItemBase{
			SKU:         GenerateSKU(),
			Description: "post test",
			Price:       "1.23",
		},
	}
}

// WithSKU sets the SKU identifier (pass empty string to blank it).
func (b ItemPayloadBuilder) WithSKU(sku string) ItemPayloadBuilder {
	b.payload.SKU = sku

	return b
}

// WithDescription sets the description.
func (b ItemPayloadBuilder) WithDescription(description string) ItemPayloadBuilder {
	b.payload.Description = description

	return b
}

// WithPrice sets the price.
func (b ItemPayloadBuilder) WithPrice(price string) ItemPayloadBuilder {
	b.payload.Price = price

	return b
}

// WithEmptyField blanks one of the writable fields by its JSON name.
func (b ItemPayloadBuilder) WithEmptyField(field string) ItemPayloadBuilder {
	switch field {
	case "sku":
		b.payload.SKU = ""
	case "description":
		b.payload.Description = ""
	case "price":
		b.payload.Price = ""
	}

	return b
}

// Build returns the completed payload.
func (b ItemPayloadBuilder) Build() skuapi.ItemBase {
	return b.payload
}
