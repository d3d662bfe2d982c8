// Copyright 2026 The WebProMedid Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/duvan51/webpromedid/internal/catalog"
)

// CatalogRepository implements catalog.Repository
type CatalogRepository struct {
	mu    sync.RWMutex
	items map[string]catalog.Item // id -> item
}

// NewCatalogRepository creates an empty catalog repository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{items: map[string]catalog.Item{}}
}

// Create stores item at the end of its tenant's list
func (r *CatalogRepository) Create(_ context.Context, item *catalog.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := 0
	for _, it := range r.items {
		if it.TenantID == item.TenantID && it.Kind == item.Kind && it.Position >= next {
			next = it.Position + 1
		}
	}
	item.Position = next

	stored := *item
	stored.Data = append(json.RawMessage(nil), item.Data...)
	r.items[item.ID] = stored
	return nil
}

// List returns a tenant's items of one kind in position order
func (r *CatalogRepository) List(_ context.Context, tenantID string, kind catalog.Kind) ([]*catalog.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*catalog.Item{}
	for _, it := range r.items {
		if it.TenantID == tenantID && it.Kind == kind {
			c := it
			c.Data = append(json.RawMessage(nil), it.Data...)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// Delete removes an item owned by tenantID
func (r *CatalogRepository) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]
	if !ok || it.TenantID != tenantID {
		return catalog.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}
