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

package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/duvan51/webpromedid/internal/audit"
)

// CreateParams holds tenant creation input
type CreateParams struct {
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	CustomDomain string          `json:"custom_domain"`
	Theme        string          `json:"theme"`
	Config       json.RawMessage `json:"config"`
}

// UpdateParams holds a partial tenant update; nil fields are left as is.
type UpdateParams struct {
	Name         *string `json:"name"`
	Slug         *string `json:"slug"`
	CustomDomain *string `json:"custom_domain"`
	Theme        *string `json:"theme"`
}

// Service provides tenant management business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
	cache       Invalidator
}

// NewService creates a new tenant service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// WithInvalidator registers the cache to flush when a tenant changes
func (s *Service) WithInvalidator(cache Invalidator) *Service {
	s.cache = cache
	return s
}

// CreateTenant creates a new active tenant. The slug defaults to the
// normalized name.
func (s *Service) CreateTenant(ctx context.Context, p CreateParams) (*Tenant, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	slugInput := p.Slug
	if strings.TrimSpace(slugInput) == "" {
		slugInput = name
	}
	slug, err := NormalizeSlug(slugInput)
	if err != nil {
		return nil, err
	}
	domain, err := NormalizeDomain(p.CustomDomain)
	if err != nil {
		return nil, err
	}
	theme, err := normalizeTheme(p.Theme)
	if err != nil {
		return nil, err
	}
	config, err := normalizeConfig(p.Config)
	if err != nil {
		return nil, err
	}

	if err := s.checkSlug(ctx, slug, ""); err != nil {
		return nil, err
	}
	if err := s.checkDomain(ctx, domain, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	tenant := &Tenant{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         name,
		Slug:         slug,
		CustomDomain: domain,
		Theme:        theme,
		Config:       config,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, tenant); err != nil {
		if errors.Is(err, ErrSlugTaken) || errors.Is(err, ErrDomainTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.invalidate(ctx, tenant)
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantCreated,
		TenantID: tenant.ID,
		Resource: tenant.Slug,
		Metadata: map[string]any{"custom_domain": tenant.CustomDomain},
	})

	return tenant, nil
}

// GetTenant retrieves a tenant by ID
func (s *Service) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

// GetTenantBySlug retrieves a tenant by slug regardless of status
func (s *Service) GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// ListTenants lists tenants with pagination
func (s *Service) ListTenants(ctx context.Context, limit, offset int) ([]*Tenant, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// UpdateTenant applies a partial update
func (s *Service) UpdateTenant(ctx context.Context, id string, p UpdateParams) (*Tenant, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := current.Clone()
	next := current.Clone()

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		next.Name = name
	}
	if p.Slug != nil {
		slug, err := NormalizeSlug(*p.Slug)
		if err != nil {
			return nil, err
		}
		if slug != current.Slug {
			if err := s.checkSlug(ctx, slug, id); err != nil {
				return nil, err
			}
		}
		next.Slug = slug
	}
	if p.CustomDomain != nil {
		domain, err := NormalizeDomain(*p.CustomDomain)
		if err != nil {
			return nil, err
		}
		if domain != current.CustomDomain {
			if err := s.checkDomain(ctx, domain, id); err != nil {
				return nil, err
			}
		}
		next.CustomDomain = domain
	}
	if p.Theme != nil {
		theme, err := normalizeTheme(*p.Theme)
		if err != nil {
			return nil, err
		}
		next.Theme = theme
	}

	if err := s.save(ctx, before, next); err != nil {
		return nil, err
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantUpdated,
		TenantID: next.ID,
		Resource: next.Slug,
		Metadata: map[string]any{
			"previous_slug":   before.Slug,
			"previous_domain": before.CustomDomain,
			"custom_domain":   next.CustomDomain,
			"theme":           next.Theme,
		},
	})
	return next, nil
}

// UpdateConfig replaces the tenant's site-wide configuration document
func (s *Service) UpdateConfig(ctx context.Context, id string, raw json.RawMessage) (*Tenant, error) {
	config, err := normalizeConfig(raw)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	next.Config = config

	if err := s.save(ctx, current, next); err != nil {
		return nil, err
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantConfigUpdated,
		TenantID: next.ID,
		Resource: next.Slug,
	})
	return next, nil
}

// SetStatus activates or deactivates a tenant. Tenants are never deleted.
func (s *Service) SetStatus(ctx context.Context, id, status string) (*Tenant, error) {
	if status != StatusActive && status != StatusInactive {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	next := current.Clone()
	next.Status = status

	if err := s.save(ctx, current, next); err != nil {
		return nil, err
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantStatusChanged,
		TenantID: next.ID,
		Resource: next.Slug,
		Metadata: map[string]any{"from": current.Status, "to": next.Status},
	})
	return next, nil
}

func (s *Service) save(ctx context.Context, before, next *Tenant) error {
	next.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, next); err != nil {
		if errors.Is(err, ErrSlugTaken) || errors.Is(err, ErrDomainTaken) || errors.Is(err, ErrTenantNotFound) {
			return err
		}
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	s.invalidate(ctx, before)
	s.invalidate(ctx, next)
	return nil
}

func (s *Service) checkSlug(ctx context.Context, slug, selfID string) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	switch {
	case errors.Is(err, ErrTenantNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check slug: %w", err)
	case existing.ID != selfID:
		return fmt.Errorf("%w: %s", ErrSlugTaken, slug)
	}
	return nil
}

func (s *Service) checkDomain(ctx context.Context, domain, selfID string) error {
	if domain == "" {
		return nil
	}
	for _, host := range NewCandidates(domain).List() {
		existing, err := s.repo.GetByCustomDomain(ctx, host)
		switch {
		case errors.Is(err, ErrTenantNotFound):
			continue
		case err != nil:
			return fmt.Errorf("failed to check custom domain: %w", err)
		case existing.ID != selfID:
			return fmt.Errorf("%w: %s", ErrDomainTaken, domain)
		}
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, t *Tenant) {
	if s.cache != nil && t != nil {
		s.cache.InvalidateTenant(ctx, t)
	}
}

func normalizeTheme(id string) (string, error) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return DefaultThemeID, nil
	}
	if !IsKnownTheme(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, id)
	}
	return id, nil
}

func normalizeConfig(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return json.RawMessage(`{}`), nil
	}
	if !json.Valid(raw) || !strings.HasPrefix(trimmed, "{") {
		return nil, ErrInvalidConfig
	}
	return json.RawMessage(trimmed), nil
}
