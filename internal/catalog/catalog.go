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

// Package catalog stores the tenant-scoped list rows shown on a site:
// products, locations and bundles. Rows are opaque JSON objects.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind is the type of a catalog row
type Kind string

const (
	KindProduct  Kind = "product"
	KindLocation Kind = "location"
	KindBundle   Kind = "bundle"
)

var (
	ErrInvalidKind    = errors.New("invalid catalog kind")
	ErrInvalidData    = errors.New("catalog item data must be a JSON object")
	ErrTenantRequired = errors.New("tenant id is required")
	ErrItemNotFound   = errors.New("catalog item not found")
)

// ParseKind validates a kind name
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindProduct, KindLocation, KindBundle:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Item is one catalog row
type Item struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	Kind      Kind            `json:"kind"`
	Data      json.RawMessage `json:"data"`
	Position  int             `json:"position"`
	CreatedAt time.Time       `json:"created_at"`
}

// Repository defines the interface for catalog storage. Every method is
// scoped by tenant.
type Repository interface {
	// Create stores item, assigning the next position within its kind.
	Create(ctx context.Context, item *Item) error
	List(ctx context.Context, tenantID string, kind Kind) ([]*Item, error)
	// Delete returns ErrItemNotFound when the item does not belong to tenantID.
	Delete(ctx context.Context, tenantID, id string) error
}
