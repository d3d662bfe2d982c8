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

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/duvan51/webpromedid/internal/pageconfig"
)

// PageRepository implements pageconfig.Repository
type PageRepository struct {
	db *DB
}

// NewPageRepository creates a new page repository
func NewPageRepository(db *DB) *PageRepository {
	return &PageRepository{db: db}
}

// Get retrieves a page
func (r *PageRepository) Get(ctx context.Context, tenantID, slug string) (*pageconfig.Page, error) {
	var p pageconfig.Page
	var doc []byte
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, tenant_id, slug, document, version, created_at, updated_at
		FROM pages
		WHERE tenant_id = $1 AND slug = $2
	`, tenantID, slug).Scan(&p.ID, &p.TenantID, &p.Slug, &doc, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, pageconfig.ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	p.Document = doc
	return &p, nil
}

// Create creates a page at version 1
func (r *PageRepository) Create(ctx context.Context, page *pageconfig.Page) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO pages (id, tenant_id, slug, document, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 1, $5, $6)
	`, page.ID, page.TenantID, page.Slug, documentColumn(page.Document), page.CreatedAt, page.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && (constraint == "pages_tenant_slug_key" || constraint == "pages_pkey") {
			return pageconfig.ErrPageExists
		}
		return fmt.Errorf("failed to create page: %w", err)
	}
	page.Version = 1
	return nil
}

// Update stores the document if the stored version equals expectedVersion
func (r *PageRepository) Update(ctx context.Context, page *pageconfig.Page, expectedVersion int) error {
	err := r.db.pool.QueryRow(ctx, `
		UPDATE pages
		SET document = $3, version = version + 1, updated_at = $4
		WHERE tenant_id = $1 AND slug = $2 AND version = $5
		RETURNING id, version, created_at
	`, page.TenantID, page.Slug, documentColumn(page.Document), page.UpdatedAt, expectedVersion).
		Scan(&page.ID, &page.Version, &page.CreatedAt)
	if err == nil {
		return nil
	}
	if err != pgx.ErrNoRows {
		return fmt.Errorf("failed to update page: %w", err)
	}

	var exists bool
	if err := r.db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pages WHERE tenant_id = $1 AND slug = $2)`,
		page.TenantID, page.Slug,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check page: %w", err)
	}
	if !exists {
		return pageconfig.ErrPageNotFound
	}
	return pageconfig.ErrVersionConflict
}

// List returns the page slugs of a tenant
func (r *PageRepository) List(ctx context.Context, tenantID string) ([]string, error) {
	rows, err := r.db.pool.Query(ctx, `SELECT slug FROM pages WHERE tenant_id = $1 ORDER BY slug`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	if slugs == nil {
		slugs = []string{}
	}
	return slugs, nil
}

func documentColumn(doc []byte) []byte {
	if len(doc) == 0 {
		return []byte(`{}`)
	}
	return doc
}
