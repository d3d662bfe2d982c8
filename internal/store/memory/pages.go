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
	"time"

	"github.com/duvan51/webpromedid/internal/pageconfig"
)

type pageKey struct {
	tenantID string
	slug     string
}

// PageRepository implements pageconfig.Repository
type PageRepository struct {
	mu    sync.RWMutex
	pages map[pageKey]pageconfig.Page
}

// NewPageRepository creates an empty page repository
func NewPageRepository() *PageRepository {
	return &PageRepository{pages: map[pageKey]pageconfig.Page{}}
}

func clonePage(p pageconfig.Page) *pageconfig.Page {
	p.Document = append(json.RawMessage(nil), p.Document...)
	return &p
}

// Get retrieves a page
func (r *PageRepository) Get(_ context.Context, tenantID, slug string) (*pageconfig.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pages[pageKey{tenantID, slug}]
	if !ok {
		return nil, pageconfig.ErrPageNotFound
	}
	return clonePage(p), nil
}

// Create stores a new page at version 1
func (r *PageRepository) Create(_ context.Context, page *pageconfig.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pageKey{page.TenantID, page.Slug}
	if _, ok := r.pages[key]; ok {
		return pageconfig.ErrPageExists
	}
	page.Version = 1
	r.pages[key] = *clonePage(*page)
	return nil
}

// Update stores the document if the version still matches
func (r *PageRepository) Update(_ context.Context, page *pageconfig.Page, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pageKey{page.TenantID, page.Slug}
	stored, ok := r.pages[key]
	if !ok {
		return pageconfig.ErrPageNotFound
	}
	if stored.Version != expectedVersion {
		return pageconfig.ErrVersionConflict
	}

	stored.Document = append(json.RawMessage(nil), page.Document...)
	stored.Version = expectedVersion + 1
	stored.UpdatedAt = time.Now()
	r.pages[key] = stored

	page.ID = stored.ID
	page.Version = stored.Version
	page.CreatedAt = stored.CreatedAt
	page.UpdatedAt = stored.UpdatedAt
	return nil
}

// List returns the page slugs of a tenant in lexical order
func (r *PageRepository) List(_ context.Context, tenantID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slugs := []string{}
	for k := range r.pages {
		if k.tenantID == tenantID {
			slugs = append(slugs, k.slug)
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}
