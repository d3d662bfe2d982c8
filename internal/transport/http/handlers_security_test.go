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

package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duvan51/webpromedid/internal/tenant"
	transportHTTP "github.com/duvan51/webpromedid/internal/transport/http"
)

// TestPurpose: Validates CSRF protection on state-changing admin endpoints.
// Scope: Unit Test
// Security: CSRF protection (CWE-352)
// Expected: Requests without X-CSRF-Token are rejected with 403; reads are allowed.
// Test Case ID: SEC-01
func TestSecurity_CSRFRequiredForMutations(t *testing.T) {
	env := newTestEnv(t, transportHTTP.Options{})

	req := newRequest(t, http.MethodPost, "/api/v1/admin/tenants", tenant.CreateParams{Name: "A"})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-CSRF-Token")

	rec = env.do(t, http.MethodGet, "/api/v1/admin/tenants", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestPurpose: Validates that X-Forwarded-Host only selects the tenant behind a trusted proxy.
// Scope: Unit Test
// Security: Host header spoofing (CWE-644)
// Expected: The header is ignored by default and honoured, first entry only, when TrustProxy is set.
// Test Case ID: SEC-02
func TestSecurity_ForwardedHostRequiresTrust(t *testing.T) {
	for _, trust := range []bool{false, true} {
		env := newTestEnv(t, transportHTTP.Options{TrustProxy: trust})
		env.createTenant(t, tenant.CreateParams{Name: "Victim", Slug: "victim"})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/site", nil)
		req.Host = "nobody.platform.test"
		req.Header.Set("X-Forwarded-Host", "victim.platform.test, proxy.internal")
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		if trust {
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"slug":"victim"`)
		} else {
			assert.Equal(t, http.StatusNotFound, rec.Code)
		}
	}
}

// TestPurpose: Validates per-client rate limiting of admin endpoints.
// Scope: Unit Test
// Security: Resource exhaustion (CWE-770)
// Expected: Requests beyond the burst return 429; other clients are unaffected.
// Test Case ID: SEC-03
func TestSecurity_RateLimit(t *testing.T) {
	rl := transportHTTP.NewRateLimiter(0.001, 2, false)
	t.Cleanup(rl.Stop)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := transportHTTP.RateLimitMiddleware(rl)(ok)

	send := func(addr, xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/tenants", nil)
		req.RemoteAddr = addr
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000", ""))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001", "1.2.3.4"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1002", "5.6.7.8"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000", ""))
}

// TestPurpose: Validates that admin request bodies are bounded.
// Scope: Unit Test
// Security: Resource exhaustion (CWE-400)
// Expected: A body over the limit is rejected with 400.
// Test Case ID: SEC-04
func TestSecurity_BodyLimit(t *testing.T) {
	env := newTestEnv(t, transportHTTP.Options{})
	ten := env.createTenant(t, tenant.CreateParams{Name: "A", Slug: "a"})

	big := `{"blob":"` + strings.Repeat("x", 2<<20) + `"}`
	rec := env.do(t, http.MethodPut, "/api/v1/admin/tenants/"+ten.ID+"/config", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	errDown := errors.New("db down")
	var fail error
	env := newTestEnv(t, transportHTTP.Options{Ready: func(context.Context) error { return fail }})

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"webpromedid"}`, rec.Body.String())

	fail = errDown
	rec = env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
