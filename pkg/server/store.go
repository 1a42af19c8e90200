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

package server

import (
	"cmp"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/unikorn-cloud/sku-verifier/pkg/skuapi"
)

// Store is an in-memory SKU table keyed by SKU.
type Store struct {
	lock  sync.Mutex
	clock skuapi.Clock
	items map[string]skuapi.Item
}

// NewStore returns an empty store, a nil clock means time.Now.
func NewStore(clock skuapi.Clock) *Store {
	if clock == nil {
		clock = time.Now
	}

	return &Store{
		clock: clock,
		items: map[string]skuapi.Item{},
	}
}

func (s *Store) now() string {
	return strconv.FormatInt(s.clock().Unix(), 10)
}

// List returns all items ordered by SKU.
func (s *Store) List() []skuapi.Item {
	s.lock.Lock()
	defer s.lock.Unlock()

	items := make([]skuapi.Item, 0, len(s.items))

	for _, item := range s.items {
		items = append(items, item)
	}

	slices.SortFunc(items, func(a, b skuapi.Item) int {
		return cmp.Compare(a.SKU, b.SKU)
	})

	return items
}

// Get returns the item and whether it exists.
func (s *Store) Get(sku string) (skuapi.Item, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	item, ok := s.items[sku]

	return item, ok
}

// Put creates or replaces the item.  An existing record keeps its createdAt.
func (s *Store) Put(base skuapi.ItemBase) skuapi.Item {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := s.now()

	item := skuapi.Item{
		ItemBase:  base,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if existing, ok := s.items[base.SKU]; ok {
		item.CreatedAt = existing.CreatedAt
	}

	s.items[base.SKU] = item

	return item
}

// replace overwrites the record as given, faults use it to corrupt timestamps.
func (s *Store) replace(item skuapi.Item) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.items[item.SKU] = item
}

// Delete removes the item, returning false if it did not exist.
func (s *Store) Delete(sku string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.items[sku]; !ok {
		return false
	}

	delete(s.items, sku)

	return true
}
