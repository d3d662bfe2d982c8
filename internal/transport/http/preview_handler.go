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
	"errors"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/duvan51/webpromedid/internal/audit"
	"github.com/duvan51/webpromedid/internal/pageconfig"
	"github.com/duvan51/webpromedid/internal/tenant"
)

// defaultMaxSessions bounds the number of live preview resolution sessions
const defaultMaxSessions = 1024

// SessionRegistry keeps one resolution session per editor. The least
// recently used session is closed when the registry is full.
type SessionRegistry struct {
	resolver *tenant.Resolver

	mu       sync.Mutex
	sessions *lru.Cache[string, *tenant.Session]
}

// NewSessionRegistry creates a registry holding at most size sessions
func NewSessionRegistry(resolver *tenant.Resolver, size int) *SessionRegistry {
	if size <= 0 {
		size = defaultMaxSessions
	}
	sessions, err := lru.NewWithEvict(size, func(_ string, s *tenant.Session) {
		s.Close()
	})
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &SessionRegistry{resolver: resolver, sessions: sessions}
}

// Session returns the session of subject, starting one if needed
func (sr *SessionRegistry) Session(subject string) *tenant.Session {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if s, ok := sr.sessions.Get(subject); ok {
		return s
	}
	s := sr.resolver.NewSession()
	sr.sessions.Add(subject, s)
	return s
}

// Len returns the number of live sessions
func (sr *SessionRegistry) Len() int {
	return sr.sessions.Len()
}

// Close closes every session
func (sr *SessionRegistry) Close() {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.sessions.Purge()
}

// PreviewTokenResponse is an issued preview token
type PreviewTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	URL       string    `json:"url"`
}

// IssuePreviewToken issues a preview token for one of the tenant's pages
// @Summary Issue Preview Token
// @Tags Preview
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 201 {object} PreviewTokenResponse
// @Router /admin/tenants/{tenantID}/preview-tokens [post]
func (h *Handler) IssuePreviewToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page string `json:"page"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	page, err := pageconfig.NormalizePageSlug(req.Page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	t := GetTenant(r.Context())
	token, exp, err := h.previewService.Issue(t.ID, page)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.options.Audit.Log(r.Context(), audit.Event{
		Type:      audit.TypePreviewTokenIssued,
		TenantID:  t.ID,
		Resource:  page,
		Metadata:  map[string]any{"expires_at": exp},
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	respondJSON(w, http.StatusCreated, PreviewTokenResponse{
		Token:     token,
		ExpiresAt: exp,
		URL:       "/api/v1/preview?token=" + token,
	})
}

// ResolvePreviewHost reports how a hostname would resolve
// @Summary Resolve Host
// @Description Resolves a hostname as the public site would. Calls sharing a subject supersede each other.
// @Tags Preview
// @Produce json
// @Param host query string true "Hostname"
// @Param subject query string false "Preview subject; a newer call for the same subject cancels an older one"
// @Success 200 {object} tenant.Resolution
// @Failure 409 {object} map[string]string
// @Router /admin/preview/resolve [get]
func (h *Handler) ResolvePreviewHost(w http.ResponseWriter, r *http.Request) {
	host := r.URL.Query().Get("host")
	if host == "" {
		respondError(w, http.StatusBadRequest, "host is required")
		return
	}

	subject := r.URL.Query().Get("subject")
	if subject == "" {
		respondJSON(w, http.StatusOK, h.resolver.Resolve(r.Context(), host))
		return
	}

	res, err := h.sessions.Session(subject).Resolve(r.Context(), host)
	if errors.Is(err, tenant.ErrStaleResolution) {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
