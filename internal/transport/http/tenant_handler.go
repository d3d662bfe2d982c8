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

	"github.com/duvan51/webpromedid/internal/tenant"
)

// CreateTenant creates a new tenant
// @Summary Create Tenant
// @Description Creates a tenant with a unique slug and optional custom domain
// @Tags Tenants
// @Accept json
// @Produce json
// @Param request body tenant.CreateParams true "Tenant"
// @Success 201 {object} tenant.Tenant
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/tenants [post]
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenant.CreateParams
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := h.tenantService.CreateTenant(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

// ListTenants lists tenants
// @Summary List Tenants
// @Tags Tenants
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} tenant.Tenant
// @Router /admin/tenants [get]
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit <= 0 || limit > 100 || offset < 0 {
		respondError(w, http.StatusBadRequest, "invalid pagination")
		return
	}

	tenants, err := h.tenantService.ListTenants(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if tenants == nil {
		tenants = []*tenant.Tenant{}
	}
	respondJSON(w, http.StatusOK, tenants)
}

// GetTenant returns a tenant
// @Summary Get Tenant
// @Tags Tenants
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} tenant.Tenant
// @Failure 404 {object} map[string]string
// @Router /admin/tenants/{tenantID} [get]
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, GetTenant(r.Context()))
}

// UpdateTenant updates tenant attributes
// @Summary Update Tenant
// @Description Updates name, slug, custom domain or theme. Omitted fields are unchanged; an empty custom_domain clears it.
// @Tags Tenants
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param request body tenant.UpdateParams true "Changes"
// @Success 200 {object} tenant.Tenant
// @Failure 409 {object} map[string]string
// @Router /admin/tenants/{tenantID} [patch]
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenant.UpdateParams
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := h.tenantService.UpdateTenant(r.Context(), GetTenant(r.Context()).ID, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// SetTenantStatus activates or deactivates a tenant
// @Summary Set Tenant Status
// @Tags Tenants
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} tenant.Tenant
// @Router /admin/tenants/{tenantID}/status [put]
func (h *Handler) SetTenantStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := h.tenantService.SetStatus(r.Context(), GetTenant(r.Context()).ID, req.Status)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// UpdateTenantConfig replaces the tenant's free-form configuration
// @Summary Update Tenant Config
// @Tags Tenants
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} tenant.Tenant
// @Failure 400 {object} map[string]string
// @Router /admin/tenants/{tenantID}/config [put]
func (h *Handler) UpdateTenantConfig(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !decodeJSON(w, r, &raw) {
		return
	}

	t, err := h.tenantService.UpdateConfig(r.Context(), GetTenant(r.Context()).ID, raw)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return i
}
