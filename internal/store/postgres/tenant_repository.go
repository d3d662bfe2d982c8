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
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/duvan51/webpromedid/internal/tenant"
)

const tenantColumns = `id, name, slug, custom_domain, theme, config, status, created_at, updated_at`

// TenantRepository implements tenant.Repository
type TenantRepository struct {
	db *DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create creates a new tenant
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	domain, key := domainColumns(t.CustomDomain)
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO tenants (id, name, slug, custom_domain, custom_domain_key, theme, config, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, t.ID, t.Name, t.Slug, domain, key, t.Theme, configColumn(t.Config), t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return tenantWriteError("create", err)
	}
	return nil
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	return r.getOne(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
}

// GetBySlug retrieves a tenant by slug
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	return r.getOne(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug)
}

// GetByCustomDomain matches the stored domain exactly or by its www-stripped
// form, preferring the exact match.
func (r *TenantRepository) GetByCustomDomain(ctx context.Context, host string) (*tenant.Tenant, error) {
	return r.getOne(ctx, `
		SELECT `+tenantColumns+` FROM tenants
		WHERE custom_domain = $1 OR custom_domain_key = $1
		ORDER BY (custom_domain = $1) DESC
		LIMIT 1
	`, host)
}

// Update updates a tenant
func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	domain, key := domainColumns(t.CustomDomain)
	tag, err := r.db.pool.Exec(ctx, `
		UPDATE tenants
		SET name = $2, slug = $3, custom_domain = $4, custom_domain_key = $5, theme = $6, config = $7, status = $8, updated_at = $9
		WHERE id = $1
	`, t.ID, t.Name, t.Slug, domain, key, t.Theme, configColumn(t.Config), t.Status, t.UpdatedAt)
	if err != nil {
		return tenantWriteError("update", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// List lists tenants ordered by creation time
func (r *TenantRepository) List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+tenantColumns+` FROM tenants
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := []*tenant.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

func (r *TenantRepository) getOne(ctx context.Context, query string, arg string) (*tenant.Tenant, error) {
	t, err := scanTenant(r.db.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

func scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	var domain sql.NullString
	var config []byte
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &domain, &t.Theme, &config, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if domain.Valid {
		t.CustomDomain = domain.String
	}
	t.Config = json.RawMessage(config)
	return &t, nil
}

func domainColumns(domain string) (sql.NullString, sql.NullString) {
	if domain == "" {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: domain, Valid: true},
		sql.NullString{String: tenant.CanonicalHost(domain), Valid: true}
}

func configColumn(config json.RawMessage) []byte {
	if len(config) == 0 {
		return []byte(`{}`)
	}
	return config
}

func tenantWriteError(op string, err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		switch constraint {
		case "tenants_slug_key":
			return tenant.ErrSlugTaken
		case "tenants_custom_domain_key":
			return tenant.ErrDomainTaken
		}
	}
	return fmt.Errorf("failed to %s tenant: %w", op, err)
}
