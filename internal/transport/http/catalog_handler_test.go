package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duvan51/webpromedid/internal/catalog"
	"github.com/duvan51/webpromedid/internal/tenant"
	transportHTTP "github.com/duvan51/webpromedid/internal/transport/http"
)

// TestPurpose: Validates catalog list management over HTTP.
// Scope: Unit Test
// Expected: Items are listed in insertion order, scoped by tenant, and removed once.
// Test Case ID: CAT-H-01
func TestCatalogHandler_Lifecycle(t *testing.T) {
	env := newTestEnv(t, transportHTTP.Options{})
	a := env.createTenant(t, tenant.CreateParams{Name: "A", Slug: "a"})
	b := env.createTenant(t, tenant.CreateParams{Name: "B", Slug: "b"})
	base := "/api/v1/admin/tenants/" + a.ID + "/catalog/product"

	rec := env.do(t, http.MethodPost, base, map[string]any{"name": "Consulta"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first catalog.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = env.do(t, http.MethodPost, base, map[string]any{"name": "Control"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []catalog.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.JSONEq(t, `{"name":"Control"}`, string(items[1].Data))

	rec = env.do(t, http.MethodGet, "/api/v1/admin/tenants/"+b.ID+"/catalog/product", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/api/v1/admin/tenants/"+b.ID+"/catalog/product/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, base+"/"+first.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, base+"/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandler_Validation(t *testing.T) {
	env := newTestEnv(t, transportHTTP.Options{})
	a := env.createTenant(t, tenant.CreateParams{Name: "A", Slug: "a"})
	base := "/api/v1/admin/tenants/" + a.ID + "/catalog/"

	rec := env.do(t, http.MethodGet, base+"service", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, base+"location", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, base+"location", `{"broken"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
