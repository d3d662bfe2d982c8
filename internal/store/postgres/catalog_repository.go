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

	"github.com/duvan51/webpromedid/internal/catalog"
)

// CatalogRepository implements catalog.Repository
type CatalogRepository struct {
	db *DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Create appends an item to its tenant's list of that kind
func (r *CatalogRepository) Create(ctx context.Context, item *catalog.Item) error {
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO catalog_items (id, tenant_id, kind, data, position, created_at)
		SELECT $1, $2, $3, $4, COALESCE(MAX(position) + 1, 0), $5
		FROM catalog_items
		WHERE tenant_id = $2 AND kind = $3
		RETURNING position
	`, item.ID, item.TenantID, string(item.Kind), documentColumn(item.Data), item.CreatedAt).Scan(&item.Position)
	if err != nil {
		return fmt.Errorf("failed to create catalog item: %w", err)
	}
	return nil
}

// List returns a tenant's items of one kind in position order
func (r *CatalogRepository) List(ctx context.Context, tenantID string, kind catalog.Kind) ([]*catalog.Item, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, tenant_id, kind, data, position, created_at
		FROM catalog_items
		WHERE tenant_id = $1 AND kind = $2
		ORDER BY position, id
	`, tenantID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	defer rows.Close()

	items := []*catalog.Item{}
	for rows.Next() {
		var it catalog.Item
		var kind string
		var data []byte
		if err := rows.Scan(&it.ID, &it.TenantID, &kind, &data, &it.Position, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		it.Kind = catalog.Kind(kind)
		it.Data = data
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	return items, nil
}

// Delete removes an item owned by tenantID
func (r *CatalogRepository) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM catalog_items WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete catalog item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

