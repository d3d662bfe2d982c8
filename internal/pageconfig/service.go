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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/duvan51/webpromedid/internal/audit"
	"github.com/duvan51/webpromedid/internal/docpath"
	"github.com/duvan51/webpromedid/internal/observability/logger"
	"github.com/duvan51/webpromedid/internal/visibility"
)

const instrumentationName = "github.com/duvan51/webpromedid/internal/pageconfig"

// DefaultMaxAttempts bounds how often an edit is re-applied after losing a
// concurrent save.
const DefaultMaxAttempts = 3

var tracer = otel.Tracer(instrumentationName)

// View is a merged page document as served to the renderer and the editor.
type View struct {
	TenantID string     `json:"tenant_id"`
	Slug     string     `json:"slug"`
	Version  int        `json:"version"`
	Document Document   `json:"document"`
	Plan     RenderPlan `json:"plan"`
}

func newView(tenantID, slug string, version int, doc Document) *View {
	return &View{
		TenantID: tenantID,
		Slug:     slug,
		Version:  version,
		Document: doc,
		Plan:     Plans(doc),
	}
}

// Service provides page configuration business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
	maxAttempts int
	saves       metric.Int64Counter
	conflicts   metric.Int64Counter
}

// NewService creates a new page configuration service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	meter := otel.Meter(instrumentationName)
	saves, _ := meter.Int64Counter("page.saves",
		metric.WithDescription("Page documents saved, by operation"))
	conflicts, _ := meter.Int64Counter("page.version_conflicts",
		metric.WithDescription("Saves rejected because a concurrent save won"))

	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
		maxAttempts: DefaultMaxAttempts,
		saves:       saves,
		conflicts:   conflicts,
	}
}

// WithMaxAttempts overrides the retry bound for edits.
func (s *Service) WithMaxAttempts(n int) *Service {
	if n > 0 {
		s.maxAttempts = n
	}
	return s
}

// Render returns the merged document of a page. It never persists; a
// missing page renders the defaults at version 0.
func (s *Service) Render(ctx context.Context, tenantID, slug string) (*View, error) {
	slug, err := NormalizePageSlug(slug)
	if err != nil {
		return nil, err
	}
	ctx, span := s.start(ctx, "pageconfig.Render", tenantID, slug)
	defer span.End()

	page, doc, err := s.load(ctx, tenantID, slug)
	if errors.Is(err, ErrPageNotFound) {
		return newView(tenantID, slug, 0, Defaults()), nil
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return newView(tenantID, slug, page.Version, doc), nil
}

// Open returns the page for editing, creating it from the defaults when it
// does not exist yet.
func (s *Service) Open(ctx context.Context, tenantID, slug string) (*View, error) {
	slug, err := NormalizePageSlug(slug)
	if err != nil {
		return nil, err
	}
	ctx, span := s.start(ctx, "pageconfig.Open", tenantID, slug)
	defer span.End()

	page, doc, err := s.open(ctx, tenantID, slug)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return newView(tenantID, slug, page.Version, doc), nil
}

// Pages lists the page slugs stored for a tenant.
func (s *Service) Pages(ctx context.Context, tenantID string) ([]string, error) {
	slugs, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return slugs, nil
}

// Replace stores doc wholesale if the page is still at expectedVersion. An
// expectedVersion of 0 creates the page.
func (s *Service) Replace(ctx context.Context, tenantID, slug string, doc Document, expectedVersion int) (*View, error) {
	slug, err := NormalizePageSlug(slug)
	if err != nil {
		return nil, err
	}
	ctx, span := s.start(ctx, "pageconfig.Replace", tenantID, slug)
	defer span.End()

	if err := validate(doc); err != nil {
		return nil, err
	}
	raw, err := doc.Marshal()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	page := &Page{
		TenantID:  tenantID,
		Slug:      slug,
		Document:  raw,
		UpdatedAt: now,
	}

	if expectedVersion == 0 {
		page.ID = uuid.Must(uuid.NewV7()).String()
		page.CreatedAt = now
		if err := s.repo.Create(ctx, page); err != nil {
			if errors.Is(err, ErrPageExists) {
				s.conflicts.Add(ctx, 1)
				return nil, ErrVersionConflict
			}
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	} else if err := s.repo.Update(ctx, page, expectedVersion); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			s.conflicts.Add(ctx, 1)
			return nil, err
		}
		return nil, fmt.Errorf("failed to replace page: %w", err)
	}

	s.saved(ctx, audit.TypePageReplaced, page, "replace")
	return newView(tenantID, slug, page.Version, doc), nil
}

// Edit applies edit to the current document and saves it. When a concurrent
// save wins, the edit is re-applied to the fresh document up to the
// configured number of attempts. Failed edits are never saved.
func (s *Service) Edit(ctx context.Context, tenantID, slug, op string, edit Edit) (*View, error) {
	slug, err := NormalizePageSlug(slug)
	if err != nil {
		return nil, err
	}
	ctx, span := s.start(ctx, "pageconfig.Edit", tenantID, slug)
	span.SetAttributes(attribute.String("page.operation", op))
	defer span.End()

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		page, doc, err := s.open(ctx, tenantID, slug)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		next, err := edit(doc)
		if err != nil {
			s.rejected(ctx, tenantID, slug, op, err)
			return nil, err
		}

		raw, err := next.Marshal()
		if err != nil {
			return nil, err
		}
		expected := page.Version
		page.Document = raw
		page.UpdatedAt = time.Now()

		if err := s.repo.Update(ctx, page, expected); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				s.conflicts.Add(ctx, 1)
				slog.DebugContext(ctx, "page edit lost a concurrent save, retrying",
					logger.TenantID(tenantID),
					logger.Page(slug),
					logger.Operation(op),
					logger.Attempt(attempt),
				)
				continue
			}
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to save page: %w", err)
		}

		s.saved(ctx, audit.TypePageUpdated, page, op)
		return newView(tenantID, slug, page.Version, next), nil
	}

	span.SetStatus(codes.Error, ErrVersionConflict.Error())
	return nil, ErrVersionConflict
}

// SetField writes value at a dot-separated path of the document.
func (s *Service) SetField(ctx context.Context, tenantID, slug, path string, value any) (*View, error) {
	p, err := docpath.Parse(path)
	if err != nil {
		slog.ErrorContext(ctx, "invalid document path",
			logger.TenantID(tenantID),
			logger.DocPath(path),
			logger.Error(err),
		)
		return nil, err
	}
	return s.Edit(ctx, tenantID, slug, "set_field:"+path, SetField(p, value))
}

// ToggleVisibility flips a section or field on one breakpoint.
func (s *Service) ToggleVisibility(ctx context.Context, tenantID, slug, unit string, bp visibility.Breakpoint) (*View, error) {
	return s.Edit(ctx, tenantID, slug, "toggle_visibility:"+unit, ToggleVisibility(unit, bp))
}

// MoveSection shifts a section one step in the render order.
func (s *Service) MoveSection(ctx context.Context, tenantID, slug string, id SectionID, dir Direction) (*View, error) {
	return s.Edit(ctx, tenantID, slug, "move_section:"+string(id), Move(id, dir))
}

// EnableSection appends a section to the render order.
func (s *Service) EnableSection(ctx context.Context, tenantID, slug string, id SectionID) (*View, error) {
	return s.Edit(ctx, tenantID, slug, "enable_section:"+string(id), Enable(id))
}

// DisableSection removes a section from the render order.
func (s *Service) DisableSection(ctx context.Context, tenantID, slug string, id SectionID) (*View, error) {
	return s.Edit(ctx, tenantID, slug, "disable_section:"+string(id), Disable(id))
}

// AddItem appends an empty item to a list and returns its index.
func (s *Service) AddItem(ctx context.Context, tenantID, slug string, list ListID) (*View, int, error) {
	view, err := s.Edit(ctx, tenantID, slug, "add_item:"+string(list), AddItem(list))
	if err != nil {
		return nil, 0, err
	}
	return view, ItemCount(view.Document, list) - 1, nil
}

// RemoveItem deletes the item at index from a list.
func (s *Service) RemoveItem(ctx context.Context, tenantID, slug string, list ListID, index int) (*View, error) {
	return s.Edit(ctx, tenantID, slug, "remove_item:"+string(list), RemoveItem(list, index))
}

// ToggleItemVisibility flips one list item on one breakpoint.
func (s *Service) ToggleItemVisibility(ctx context.Context, tenantID, slug string, list ListID, index int, bp visibility.Breakpoint) (*View, error) {
	return s.Edit(ctx, tenantID, slug, "toggle_item_visibility:"+string(list), ToggleItemVisibility(list, index, bp))
}

func (s *Service) start(ctx context.Context, name, tenantID, slug string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("page.slug", slug),
	))
}

// load reads and merges a stored page. Undecodable content falls back to
// the defaults so a damaged document still renders.
func (s *Service) load(ctx context.Context, tenantID, slug string) (*Page, Document, error) {
	page, err := s.repo.Get(ctx, tenantID, slug)
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			return nil, Document{}, err
		}
		return nil, Document{}, fmt.Errorf("failed to get page: %w", err)
	}

	doc, err := Load(page.Document, Defaults())
	var warn *LoadWarning
	switch {
	case errors.As(err, &warn):
		slog.WarnContext(ctx, "page sections fell back to defaults",
			logger.TenantID(tenantID),
			logger.Page(slug),
			slog.Any("sections", warn.Keys),
		)
	case err != nil:
		slog.ErrorContext(ctx, "stored page document is malformed, serving defaults",
			logger.TenantID(tenantID),
			logger.Page(slug),
			logger.Error(err),
		)
		doc = Defaults()
	}
	return page, doc, nil
}

func (s *Service) open(ctx context.Context, tenantID, slug string) (*Page, Document, error) {
	page, doc, err := s.load(ctx, tenantID, slug)
	if !errors.Is(err, ErrPageNotFound) {
		return page, doc, err
	}

	doc = Defaults()
	raw, err := doc.Marshal()
	if err != nil {
		return nil, Document{}, err
	}
	now := time.Now()
	page = &Page{
		ID:        uuid.Must(uuid.NewV7()).String(),
		TenantID:  tenantID,
		Slug:      slug,
		Document:  raw,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, page); err != nil {
		if errors.Is(err, ErrPageExists) {
			return s.load(ctx, tenantID, slug)
		}
		return nil, Document{}, fmt.Errorf("failed to create page: %w", err)
	}
	s.saved(ctx, audit.TypePageCreated, page, "create")
	return page, doc, nil
}

func (s *Service) saved(ctx context.Context, eventType string, page *Page, op string) {
	s.saves.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName(op))))

	s.auditLogger.Log(ctx, audit.Event{
		Type:     eventType,
		TenantID: page.TenantID,
		Resource: page.Slug,
		Metadata: map[string]any{
			"operation": op,
			"version":   page.Version,
		},
	})
}

func (s *Service) rejected(ctx context.Context, tenantID, slug, op string, err error) {
	attrs := []any{
		logger.TenantID(tenantID),
		logger.Page(slug),
		logger.Operation(op),
		logger.Error(err),
	}
	switch {
	case errors.Is(err, docpath.ErrTypeConflict):
		slog.WarnContext(ctx, "page edit rejected: path type conflict", attrs...)
	case errors.Is(err, docpath.ErrInvalidPath):
		slog.ErrorContext(ctx, "page edit rejected: invalid path", attrs...)
	default:
		slog.InfoContext(ctx, "page edit rejected", attrs...)
	}
}

// opName strips the operand so metric cardinality stays bounded.
func opName(op string) string {
	for i := 0; i < len(op); i++ {
		if op[i] == ':' {
			return op[:i]
		}
	}
	return op
}

// validate checks a wholesale document the way strict decoding checks
// edited ones.
func validate(doc Document) error {
	seen := make(map[SectionID]bool, len(doc.Order))
	for _, id := range doc.Order {
		if !id.IsOrderable() || seen[id] {
			return fmt.Errorf("%w: order entry %q", ErrInvalidValue, id)
		}
		seen[id] = true
	}
	for unit := range doc.Visibility {
		if err := validateUnit(doc, unit); err != nil {
			return err
		}
	}
	return nil
}
