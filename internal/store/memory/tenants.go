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

// Package memory implements the repositories in process memory. It backs
// STORE_DRIVER=memory and the HTTP tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/duvan51/webpromedid/internal/tenant"
)

// TenantRepository implements tenant.Repository
type TenantRepository struct {
	mu      sync.RWMutex
	tenants map[string]*tenant.Tenant // id -> tenant
}

// NewTenantRepository creates an empty tenant repository
func NewTenantRepository() *TenantRepository {
	return &TenantRepository{tenants: map[string]*tenant.Tenant{}}
}

// Create stores a new tenant, enforcing slug and domain uniqueness
func (r *TenantRepository) Create(_ context.Context, t *tenant.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(t); err != nil {
		return err
	}
	r.tenants[t.ID] = t.Clone()
	return nil
}

// GetByID retrieves a tenant by id
func (r *TenantRepository) GetByID(_ context.Context, id string) (*tenant.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return t.Clone(), nil
}

// GetBySlug retrieves a tenant by slug
func (r *TenantRepository) GetBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tenants {
		if t.Slug == slug {
			return t.Clone(), nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

// GetByCustomDomain prefers an exact match over a www-stripped match
func (r *TenantRepository) GetByCustomDomain(_ context.Context, host string) (*tenant.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var canonical *tenant.Tenant
	for _, t := range r.tenants {
		if t.CustomDomain == "" {
			continue
		}
		if t.CustomDomain == host {
			return t.Clone(), nil
		}
		if tenant.CanonicalHost(t.CustomDomain) == host {
			canonical = t
		}
	}
	if canonical != nil {
		return canonical.Clone(), nil
	}
	return nil, tenant.ErrTenantNotFound
}

// Update replaces a stored tenant
func (r *TenantRepository) Update(_ context.Context, t *tenant.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tenants[t.ID]; !ok {
		return tenant.ErrTenantNotFound
	}
	if err := r.checkUnique(t); err != nil {
		return err
	}
	r.tenants[t.ID] = t.Clone()
	return nil
}

// List returns tenants ordered by creation time
func (r *TenantRepository) List(_ context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*tenant.Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		all = append(all, t.Clone())
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// checkUnique must be called with the write lock held
func (r *TenantRepository) checkUnique(t *tenant.Tenant) error {
	key := tenant.CanonicalHost(t.CustomDomain)
	for id, other := range r.tenants {
		if id == t.ID {
			continue
		}
		if other.Slug == t.Slug {
			return tenant.ErrSlugTaken
		}
		if key != "" && tenant.CanonicalHost(other.CustomDomain) == key {
			return tenant.ErrDomainTaken
		}
	}
	return nil
}
