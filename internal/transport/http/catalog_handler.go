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

	"github.com/go-chi/chi/v5"

	"github.com/duvan51/webpromedid/internal/catalog"
)

// ListCatalogItems lists the catalog entries of one kind
// @Summary List Catalog Items
// @Tags Catalog
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param kind path string true "product, location or bundle"
// @Success 200 {array} catalog.Item
// @Router /admin/tenants/{tenantID}/catalog/{kind} [get]
func (h *Handler) ListCatalogItems(w http.ResponseWriter, r *http.Request) {
	kind, err := catalog.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	items, err := h.catalogService.List(r.Context(), GetTenant(r.Context()).ID, kind)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*catalog.Item{}
	}
	respondJSON(w, http.StatusOK, items)
}

// AddCatalogItem appends a catalog entry
// @Summary Add Catalog Item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param kind path string true "product, location or bundle"
// @Success 201 {object} catalog.Item
// @Failure 400 {object} map[string]string
// @Router /admin/tenants/{tenantID}/catalog/{kind} [post]
func (h *Handler) AddCatalogItem(w http.ResponseWriter, r *http.Request) {
	kind, err := catalog.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	var data json.RawMessage
	if !decodeJSON(w, r, &data) {
		return
	}

	item, err := h.catalogService.Add(r.Context(), GetTenant(r.Context()).ID, kind, data)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// RemoveCatalogItem deletes a catalog entry
// @Summary Remove Catalog Item
// @Tags Catalog
// @Param tenantID path string true "Tenant ID"
// @Param kind path string true "product, location or bundle"
// @Param itemID path string true "Item ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/tenants/{tenantID}/catalog/{kind}/{itemID} [delete]
func (h *Handler) RemoveCatalogItem(w http.ResponseWriter, r *http.Request) {
	if _, err := catalog.ParseKind(chi.URLParam(r, "kind")); err != nil {
		respondServiceError(w, r, err)
		return
	}

	if err := h.catalogService.Remove(r.Context(), GetTenant(r.Context()).ID, chi.URLParam(r, "itemID")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
