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

package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/duvan51/webpromedid/internal/pageconfig"
	"github.com/duvan51/webpromedid/internal/visibility"
)

// ReplacePageRequest carries a full page document and the version it was read at
type ReplacePageRequest struct {
	Version  int             `json:"version"`
	Document json.RawMessage `json:"document"`
}

// SetFieldRequest assigns value at a dotted document path
type SetFieldRequest struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// ToggleVisibilityRequest flips one unit's visibility at a breakpoint
type ToggleVisibilityRequest struct {
	Unit       string `json:"unit"`
	Breakpoint string `json:"breakpoint"`
}

// AddItemResponse is the page after an append and the new item's index
type AddItemResponse struct {
	*pageconfig.View
	Index int `json:"index"`
}

// ListPages lists the saved page slugs of a tenant
// @Summary List Pages
// @Tags Pages
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} string
// @Router /admin/tenants/{tenantID}/pages [get]
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pageService.Pages(r.Context(), GetTenant(r.Context()).ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, pages)
}

// OpenPage opens a page for editing, creating it from the defaults if needed
// @Summary Open Page
// @Tags Pages
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param page path string true "Page slug"
// @Success 200 {object} pageconfig.View
// @Router /admin/tenants/{tenantID}/pages/{page} [get]
func (h *Handler) OpenPage(w http.ResponseWriter, r *http.Request) {
	view, err := h.pageService.Open(r.Context(), GetTenant(r.Context()).ID, chi.URLParam(r, "page"))
	h.respondView(w, r, view, err)
}

// ReplacePage stores a full document if the page is still at the given version
// @Summary Replace Page
// @Tags Pages
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param page path string true "Page slug"
// @Param request body ReplacePageRequest true "Document"
// @Success 200 {object} pageconfig.View
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/tenants/{tenantID}/pages/{page} [put]
func (h *Handler) ReplacePage(w http.ResponseWriter, r *http.Request) {
	var req ReplacePageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var m map[string]any
	if err := json.Unmarshal(req.Document, &m); err != nil || m == nil {
		respondError(w, http.StatusBadRequest, "document must be a JSON object")
		return
	}
	doc, err := pageconfig.FromMap(m, true)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	view, err := h.pageService.Replace(r.Context(), GetTenant(r.Context()).ID, chi.URLParam(r, "page"), doc, req.Version)
	h.respondView(w, r, view, err)
}

// SetPageField assigns a single field
// @Summary Set Page Field
// @Tags Pages
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param page path string true "Page slug"
// @Param request body SetFieldRequest true "Field"
// @Success 200 {object} pageconfig.View
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/tenants/{tenantID}/pages/{page}/fields [patch]
func (h *Handler) SetPageField(w http.ResponseWriter, r *http.Request) {
	var req SetFieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Value) == 0 {
		respondError(w, http.StatusBadRequest, "value is required")
		return
	}
	var value any
	if err := json.Unmarshal(req.Value, &value); err != nil {
		respondError(w, http.StatusBadRequest, "invalid value")
		return
	}

	view, err := h.pageService.SetField(r.Context(), GetTenant(r.Context()).ID, chi.URLParam(r, "page"), req.Path, value)
	h.respondView(w, r, view, err)
}

// TogglePageVisibility flips a section or field at one breakpoint
// @Summary Toggle Visibility
// @Tags Pages
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param page path string true "Page slug"
// @Param request body ToggleVisibilityRequest true "Unit"
// @Success 200 {object} pageconfig.View
// @Router /admin/tenants/{tenantID}/pages/{page}/visibility/toggle [post]
func (h *Handler) TogglePageVisibility(w http.ResponseWriter, r *http.Request) {
	var req ToggleVisibilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	bp, err := visibility.ParseBreakpoint(req.Breakpoint)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	view, err := h.pageService.ToggleVisibility(r.Context(), GetTenant(r.Context()).ID, chi.URLParam(r, "page"), req.Unit, bp)
	h.respondView(w, r, view, err)
}

// MovePageSection moves a section one step up or down the render order
// @Summary Move Section
// @Tags Pages
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param page path string true "Page slug"
// @Param section path string true "Section ID"
// @Success 200 {object} pageconfig.View
// @Router /admin/tenants/{tenantID}/pages/{page}/sections/{section}/move [post]
func (h *Handler) MovePageSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	dir, err := pageconfig.ParseDirection(req.Direction)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	view, err := h.pageService.MoveSection(r.Context(), GetTenant(r.Context()).ID, chi.URLParam(r, "page"),
		pageconfig.SectionID(chi.URLParam(r, "section")), dir)
	h.respondView(w, r, view, err)
}

// EnablePageSection appends a section to the render order
// @Summary Enable Section
// @Tags Pages
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param page path string true "Page slug"
// @Param section path string true "Section ID"
// @Success 200 {object} pageconfig.View
// @Router /admin/tenants/{tenantID}/pages/{page}/sections/{section}/enable [post]
func (h *Handler) EnablePageSection(w http.ResponseWriter, r *http.Request) {
	view, err := h.pageService.EnableSection(r.Context(), GetTenant(r.Context()).ID, chi.URLParam(r, "page"),
		pageconfig.SectionID(chi.URLParam(r, "section")))
	h.respondView(w, r, view, err)
}

// DisablePageSection removes a section from the render order, keeping its content
// @Summary Disable Section
// @Tags Pages
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param page path string true "Page slug"
// @Param section path string true "Section ID"
// @Success 200 {object} pageconfig.View
// @Router /admin/tenants/{tenantID}/pages/{page}/sections/{section}/disable [post]
func (h *Handler) DisablePageSection(w http.ResponseWriter, r *http.Request) {
	view, err := h.pageService.DisableSection(r.Context(), GetTenant(r.Context()).ID, chi.URLParam(r, "page"),
		pageconfig.SectionID(chi.URLParam(r, "section")))
	h.respondView(w, r, view, err)
}

// AddPageListItem appends an empty item to a list section
// @Summary Add List Item
// @Tags Pages
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param page path string true "Page slug"
// @Param list path string true "List ID"
// @Success 201 {object} AddItemResponse
// @Router /admin/tenants/{tenantID}/pages/{page}/lists/{list}/items [post]
func (h *Handler) AddPageListItem(w http.ResponseWriter, r *http.Request) {
	list, err := pageconfig.ParseListID(chi.URLParam(r, "list"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	view, index, err := h.pageService.AddItem(r.Context(), GetTenant(r.Context()).ID, chi.URLParam(r, "page"), list)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, AddItemResponse{View: view, Index: index})
}

// RemovePageListItem removes an item from a list section
// @Summary Remove List Item
// @Tags Pages
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param page path string true "Page slug"
// @Param list path string true "List ID"
// @Param index path int true "Item index"
// @Success 200 {object} pageconfig.View
// @Router /admin/tenants/{tenantID}/pages/{page}/lists/{list}/items/{index} [delete]
func (h *Handler) RemovePageListItem(w http.ResponseWriter, r *http.Request) {
	list, index, ok := listItemParams(w, r)
	if !ok {
		return
	}

	view, err := h.pageService.RemoveItem(r.Context(), GetTenant(r.Context()).ID, chi.URLParam(r, "page"), list, index)
	h.respondView(w, r, view, err)
}

// TogglePageListItemVisibility flips one list item at a breakpoint
// @Summary Toggle List Item Visibility
// @Tags Pages
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param page path string true "Page slug"
// @Param list path string true "List ID"
// @Param index path int true "Item index"
// @Success 200 {object} pageconfig.View
// @Router /admin/tenants/{tenantID}/pages/{page}/lists/{list}/items/{index}/visibility/toggle [post]
func (h *Handler) TogglePageListItemVisibility(w http.ResponseWriter, r *http.Request) {
	list, index, ok := listItemParams(w, r)
	if !ok {
		return
	}
	var req struct {
		Breakpoint string `json:"breakpoint"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	bp, err := visibility.ParseBreakpoint(req.Breakpoint)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	view, err := h.pageService.ToggleItemVisibility(r.Context(), GetTenant(r.Context()).ID, chi.URLParam(r, "page"), list, index, bp)
	h.respondView(w, r, view, err)
}

func listItemParams(w http.ResponseWriter, r *http.Request) (pageconfig.ListID, int, bool) {
	list, err := pageconfig.ParseListID(chi.URLParam(r, "list"))
	if err != nil {
		respondServiceError(w, r, err)
		return "", 0, false
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "index must be an integer")
		return "", 0, false
	}
	return list, index, true
}

func (h *Handler) respondView(w http.ResponseWriter, r *http.Request, view *pageconfig.View, err error) {
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
