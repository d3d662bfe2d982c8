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
	"net/http"

	"github.com/duvan51/webpromedid/internal/pageconfig"
	"github.com/duvan51/webpromedid/internal/tenant"
)

// SiteResponse is the render payload of the public site
type SiteResponse struct {
	PlatformMode bool                   `json:"platform_mode"`
	Tenant       *tenant.TenantContext  `json:"tenant"`
	Theme        *tenant.Theme          `json:"theme,omitempty"`
	Page         string                 `json:"page,omitempty"`
	Version      int                    `json:"version,omitempty"`
	Document     *pageconfig.Document   `json:"document,omitempty"`
	Plan         *pageconfig.RenderPlan `json:"plan,omitempty"`
}

// GetSite renders the page of the tenant that owns the request host
// @Summary Render Site
// @Description Resolves the request host and returns the merged page document and render plan
// @Tags Site
// @Produce json
// @Param page query string false "Page slug" default(home)
// @Success 200 {object} SiteResponse
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /site [get]
func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	res, ok := GetResolution(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "site resolution missing")
		return
	}

	switch {
	case res.Transient:
		respondError(w, http.StatusServiceUnavailable, "site temporarily unavailable")
		return
	case res.NotFound:
		respondError(w, http.StatusNotFound, "site not available")
		return
	case res.PlatformMode:
		resp := SiteResponse{PlatformMode: true}
		if res.Tenant != nil {
			tc := res.Context()
			resp.Tenant = &tc
		}
		respondJSON(w, http.StatusOK, resp)
		return
	}

	h.renderSite(w, r, res.Context(), r.URL.Query().Get("page"))
}

// GetPreview renders a tenant's page addressed by a preview token
// @Summary Render Preview
// @Description Renders the page named in a signed preview token regardless of the request host
// @Tags Site
// @Produce json
// @Param token query string true "Preview token"
// @Success 200 {object} SiteResponse
// @Failure 401 {object} map[string]string
// @Router /preview [get]
func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	claims, err := h.previewService.Verify(r.URL.Query().Get("token"))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid preview token")
		return
	}

	t, err := h.tenantService.GetTenant(r.Context(), claims.TenantID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	tc := tenant.ContextFor(t, false)
	tc.Preview = true
	h.renderSite(w, r, tc, claims.Page)
}

func (h *Handler) renderSite(w http.ResponseWriter, r *http.Request, tc tenant.TenantContext, page string) {
	view, err := h.pageService.Render(r.Context(), tc.TenantID, page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, SiteResponse{
		PlatformMode: false,
		Tenant:       &tc,
		Theme:        &tc.Theme,
		Page:         view.Slug,
		Version:      view.Version,
		Document:     &view.Document,
		Plan:         &view.Plan,
	})
}
