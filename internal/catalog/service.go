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

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duvan51/webpromedid/internal/audit"
)

// Service provides catalog business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new catalog service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{repo: repo, auditLogger: auditLogger}
}

// List returns a tenant's items of one kind in position order
func (s *Service) List(ctx context.Context, tenantID string, kind Kind) ([]*Item, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, tenantID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	return items, nil
}

// Add appends a row to a tenant's list
func (s *Service) Add(ctx context.Context, tenantID string, kind Kind, data json.RawMessage) (*Item, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if !json.Valid(data) || len(data) == 0 || data[0] != '{' {
		return nil, ErrInvalidData
	}

	item := &Item{
		ID:        uuid.Must(uuid.NewV7()).String(),
		TenantID:  tenantID,
		Kind:      kind,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create catalog item: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeCatalogItemCreated,
		TenantID: tenantID,
		Resource: item.ID,
		Metadata: map[string]any{"kind": string(kind)},
	})
	return item, nil
}

// Remove deletes a row. Rows of other tenants are reported as not found.
func (s *Service) Remove(ctx context.Context, tenantID, id string) error {
	if tenantID == "" {
		return ErrTenantRequired
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete catalog item: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeCatalogItemDeleted,
		TenantID: tenantID,
		Resource: id,
	})
	return nil
}
