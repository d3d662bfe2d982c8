package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duvan51/webpromedid/internal/audit"
	"github.com/duvan51/webpromedid/internal/catalog"
	"github.com/duvan51/webpromedid/internal/pageconfig"
	"github.com/duvan51/webpromedid/internal/preview"
	"github.com/duvan51/webpromedid/internal/store/memory"
	"github.com/duvan51/webpromedid/internal/tenant"
	transportHTTP "github.com/duvan51/webpromedid/internal/transport/http"
)

type testEnv struct {
	router  http.Handler
	handler *transportHTTP.Handler
	tenants *tenant.Service
	pages   *pageconfig.Service
	preview *preview.Service
	audit   *audit.MemoryLogger
}

func newTestEnv(t *testing.T, opts transportHTTP.Options) *testEnv {
	t.Helper()
	return newTestEnvWithRepo(t, memory.NewTenantRepository(), opts)
}

func newTestEnvWithRepo(t *testing.T, repo tenant.Repository, opts transportHTTP.Options) *testEnv {
	t.Helper()

	auditLogger := audit.NewMemoryLogger()
	if opts.Audit == nil {
		opts.Audit = auditLogger
	}
	tenants := tenant.NewService(repo, auditLogger)
	pages := pageconfig.NewService(memory.NewPageRepository(), auditLogger)
	items := catalog.NewService(memory.NewCatalogRepository(), auditLogger)
	resolver := tenant.NewResolver(repo, tenant.ResolverConfig{
		PlatformHosts: []string{"platform.test"},
		MasterSlug:    "master",
		MaxRetries:    1,
	})
	previews, err := preview.NewService(strings.Repeat("k", 32), "webpromedid", 0)
	require.NoError(t, err)

	h := transportHTTP.NewHandler(tenants, resolver, pages, items, previews, opts)
	t.Cleanup(h.Close)

	rl := transportHTTP.NewRateLimiter(1000, 1000, opts.TrustProxy)
	t.Cleanup(rl.Stop)

	return &testEnv{
		router:  transportHTTP.NewRouter(h, rl),
		handler: h,
		tenants: tenants,
		pages:   pages,
		preview: previews,
		audit:   auditLogger,
	}
}

// do sends a request through the router. State-changing requests carry a
// CSRF header.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(t, method, path, body)
	if method != http.MethodGet {
		req.Header.Set("X-CSRF-Token", "test")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createTenant(t *testing.T, p tenant.CreateParams) *tenant.Tenant {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/admin/tenants", p)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out tenant.Tenant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return &out
}

func newRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
