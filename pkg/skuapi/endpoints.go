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

package skuapi

import (
	"fmt"
	"net/url"
)

// Endpoints contains all API endpoint patterns, relative to the stage root.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

func (e *Endpoints) ListItems() string {
	return "/skus"
}

func (e *Endpoints) CreateItem() string {
	return "/skus"
}

func (e *Endpoints) GetItem(sku string) string {
	return fmt.Sprintf("/skus/%s", url.PathEscape(sku))
}

func (e *Endpoints) DeleteItem(sku string) string {
	return fmt.Sprintf("/skus/%s", url.PathEscape(sku))
}
