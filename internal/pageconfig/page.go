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

package pageconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultPage is the page slug used when none is requested.
const DefaultPage = "home"

// Page is a persisted page configuration. Document is stored opaque and
// merged with Defaults on load.
type Page struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	Slug      string          `json:"slug"`
	Document  json.RawMessage `json:"document"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Repository defines the interface for page persistence
type Repository interface {
	// Get returns ErrPageNotFound when the tenant has no such page.
	Get(ctx context.Context, tenantID, slug string) (*Page, error)

	// Create stores a new page at version 1. It returns ErrPageExists when
	// the (tenant, slug) pair is taken.
	Create(ctx context.Context, page *Page) error

	// Update stores page.Document if the stored version equals
	// expectedVersion, and sets page.Version to the new version. A mismatch
	// returns ErrVersionConflict.
	Update(ctx context.Context, page *Page, expectedVersion int) error

	// List returns the page slugs of a tenant.
	List(ctx context.Context, tenantID string) ([]string, error)
}

// NormalizePageSlug validates a page slug, defaulting to DefaultPage.
func NormalizePageSlug(slug string) (string, error) {
	if slug == "" {
		return DefaultPage, nil
	}
	if len(slug) > 64 {
		return "", fmt.Errorf("%w: too long", ErrInvalidPageSlug)
	}
	for _, r := range slug {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return "", fmt.Errorf("%w: %q", ErrInvalidPageSlug, slug)
		}
	}
	return slug, nil
}
