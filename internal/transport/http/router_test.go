package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/duvan51/webpromedid/internal/tenant"
	transportHTTP "github.com/duvan51/webpromedid/internal/transport/http"
)

// TestRouterRoutes verifies the public and admin surfaces are mounted where
// clients expect them.
func TestRouterRoutes(t *testing.T) {
	env := newTestEnv(t, transportHTTP.Options{})
	r := env.router.(*chi.Mux)

	tests := []struct {
		name        string
		method      string
		path        string
		expectFound bool
	}{
		{"Health", "GET", "/health", true},
		{"Site", "GET", "/api/v1/site", true},
		{"Preview", "GET", "/api/v1/preview", true},
		{"Themes", "GET", "/api/v1/themes", true},
		{"Create Tenant", "POST", "/api/v1/admin/tenants", true},
		{"Tenant Status", "PUT", "/api/v1/admin/tenants/t1/status", true},
		{"Open Page", "GET", "/api/v1/admin/tenants/t1/pages/home", true},
		{"Move Section", "POST", "/api/v1/admin/tenants/t1/pages/home/sections/hero/move", true},
		{"Remove Item", "DELETE", "/api/v1/admin/tenants/t1/pages/home/lists/faq.items/items/0", true},
		{"Catalog", "POST", "/api/v1/admin/tenants/t1/catalog/product", true},
		{"Resolve Host", "GET", "/api/v1/admin/preview/resolve", true},
		{"No Site Writes", "POST", "/api/v1/site", false},
		{"No Admin Console Without FS", "GET", "/admin/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			assert.Equal(t, tt.expectFound, r.Match(rctx, tt.method, tt.path), "%s %s", tt.method, tt.path)
		})
	}
}

// TestRouterRejectsTenantDelete verifies tenants cannot be deleted over the
// admin API; only their status changes.
func TestRouterRejectsTenantDelete(t *testing.T) {
	env := newTestEnv(t, transportHTTP.Options{})
	ten := env.createTenant(t, tenant.CreateParams{Name: "Demo", Slug: "demo"})

	rec := env.do(t, http.MethodDelete, "/api/v1/admin/tenants/"+ten.ID, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/tenants/"+ten.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterServesAdminConsole(t *testing.T) {
	console := fstest.MapFS{
		"index.html":    {Data: []byte("<html>console</html>")},
		"assets/app.js": {Data: []byte("console.log(1)")},
	}
	env := newTestEnv(t, transportHTTP.Options{AdminFS: console})

	for path, want := range map[string]string{
		"/admin/":              "console</html>",
		"/admin/tenants/abc":   "console</html>",
		"/admin/assets/app.js": "console.log(1)",
	} {
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), want, path)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
}
