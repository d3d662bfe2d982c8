package memory

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duvan51/webpromedid/internal/audit"
	"github.com/duvan51/webpromedid/internal/catalog"
	"github.com/duvan51/webpromedid/internal/pageconfig"
	"github.com/duvan51/webpromedid/internal/tenant"
)

// TestPurpose: Validates that the in-memory tenant store enforces global slug and domain uniqueness.
// Scope: Unit Test
// Expected: A duplicate slug yields ErrSlugTaken; a domain differing only by www yields ErrDomainTaken.
// Test Case ID: MEM-01
func TestTenantRepository_Uniqueness(t *testing.T) {
	repo := NewTenantRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &tenant.Tenant{ID: "t1", Slug: "acme", CustomDomain: "www.acme.io"}))

	err := repo.Create(ctx, &tenant.Tenant{ID: "t2", Slug: "acme"})
	assert.ErrorIs(t, err, tenant.ErrSlugTaken)

	err = repo.Create(ctx, &tenant.Tenant{ID: "t2", Slug: "other", CustomDomain: "acme.io"})
	assert.ErrorIs(t, err, tenant.ErrDomainTaken)

	assert.NoError(t, repo.Update(ctx, &tenant.Tenant{ID: "t1", Slug: "acme", CustomDomain: "acme.io"}))
	assert.ErrorIs(t, repo.Update(ctx, &tenant.Tenant{ID: "missing", Slug: "x"}), tenant.ErrTenantNotFound)
}

func TestTenantRepository_Lookups(t *testing.T) {
	repo := NewTenantRepository()
	ctx := context.Background()
	in := &tenant.Tenant{ID: "t1", Slug: "acme", CustomDomain: "www.acme.io", Status: tenant.StatusActive}
	require.NoError(t, repo.Create(ctx, in))

	in.Slug = "mutated"
	got, err := repo.GetBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)

	got.Slug = "mutated"
	again, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "acme", again.Slug, "stored records are isolated from callers")

	for _, host := range []string{"www.acme.io", "acme.io"} {
		got, err := repo.GetByCustomDomain(ctx, host)
		require.NoError(t, err, host)
		assert.Equal(t, "t1", got.ID, host)
	}
	_, err = repo.GetByCustomDomain(ctx, "www.www.acme.io")
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	_, err = repo.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
}

func TestTenantRepository_List(t *testing.T) {
	repo := NewTenantRepository()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Create(ctx, &tenant.Tenant{ID: slug, Slug: slug, CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	all, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].Slug, all[1].Slug, all[2].Slug})

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].Slug)

	empty, err := repo.List(ctx, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// TestPurpose: Validates that the resolver and tenant service work end to end on the in-memory store.
// Scope: Integration Test
// Expected: A tenant created with a www domain resolves from the bare host and from its subdomain.
// Test Case ID: MEM-02
func TestTenantService_OnMemoryStore(t *testing.T) {
	repo := NewTenantRepository()
	svc := tenant.NewService(repo, audit.NewMemoryLogger())
	ctx := context.Background()

	created, err := svc.CreateTenant(ctx, tenant.CreateParams{Name: "Acme Dental", CustomDomain: "www.acme.io", Theme: "medical"})
	require.NoError(t, err)

	_, err = svc.CreateTenant(ctx, tenant.CreateParams{Name: "Copycat", CustomDomain: "acme.io"})
	assert.ErrorIs(t, err, tenant.ErrDomainTaken)

	r := tenant.NewResolver(repo, tenant.ResolverConfig{PlatformHosts: []string{"platform.com"}})
	res := r.Resolve(ctx, "acme.io")
	assert.Equal(t, tenant.KindCustomDomain, res.Kind)
	assert.Equal(t, created.ID, res.Tenant.ID)

	res = r.Resolve(ctx, "acme-dental.platform.com")
	assert.Equal(t, tenant.KindSubdomain, res.Kind)

	_, err = svc.SetStatus(ctx, created.ID, tenant.StatusInactive)
	require.NoError(t, err)
	assert.True(t, r.Resolve(ctx, "acme.io").NotFound)
}

// TestPurpose: Validates optimistic versioning of page documents.
// Scope: Unit Test
// Expected: Create starts at version 1; a stale expected version yields ErrVersionConflict.
// Test Case ID: MEM-03
func TestPageRepository_Versioning(t *testing.T) {
	repo := NewPageRepository()
	ctx := context.Background()

	page := &pageconfig.Page{ID: "p1", TenantID: "t1", Slug: "home", Document: json.RawMessage(`{}`)}
	require.NoError(t, repo.Create(ctx, page))
	assert.Equal(t, 1, page.Version)
	assert.ErrorIs(t, repo.Create(ctx, page), pageconfig.ErrPageExists)

	next := &pageconfig.Page{TenantID: "t1", Slug: "home", Document: json.RawMessage(`{"order":[]}`)}
	require.NoError(t, repo.Update(ctx, next, 1))
	assert.Equal(t, 2, next.Version)
	assert.Equal(t, "p1", next.ID)

	assert.ErrorIs(t, repo.Update(ctx, next, 1), pageconfig.ErrVersionConflict)
	missing := &pageconfig.Page{TenantID: "t2", Slug: "home"}
	assert.ErrorIs(t, repo.Update(ctx, missing, 1), pageconfig.ErrPageNotFound)

	got, err := repo.Get(ctx, "t1", "home")
	require.NoError(t, err)
	assert.JSONEq(t, `{"order":[]}`, string(got.Document))

	_, err = repo.Get(ctx, "t2", "home")
	assert.ErrorIs(t, err, pageconfig.ErrPageNotFound)

	require.NoError(t, repo.Create(ctx, &pageconfig.Page{TenantID: "t1", Slug: "about"}))
	slugs, err := repo.List(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"about", "home"}, slugs)
}

// TestPurpose: Validates that concurrent edits on the same page are all applied through version retries.
// Scope: Integration Test
// Expected: Every concurrent SetField lands and the final version counts each save.
// Test Case ID: MEM-04
func TestPageService_ConcurrentEdits(t *testing.T) {
	repo := NewPageRepository()
	svc := pageconfig.NewService(repo, audit.NewMemoryLogger()).WithMaxAttempts(50)
	ctx := context.Background()

	_, err := svc.Open(ctx, "t1", "home")
	require.NoError(t, err)

	fields := []string{"hero.title", "hero.subtitle", "cta.title", "faq.title"}
	var wg sync.WaitGroup
	for _, f := range fields {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			_, err := svc.SetField(ctx, "t1", "home", path, "set:"+path)
			assert.NoError(t, err, path)
		}(f)
	}
	wg.Wait()

	view, err := svc.Render(ctx, "t1", "home")
	require.NoError(t, err)
	assert.Equal(t, 1+len(fields), view.Version)
	assert.Equal(t, "set:hero.title", view.Document.Hero.Title)
	assert.Equal(t, "set:faq.title", view.Document.FAQ.Title)
}

// TestPurpose: Validates catalog item placement and tenant-scoped deletion.
// Scope: Unit Test
// Expected: Positions increase per tenant and kind; deleting another tenant's item yields ErrItemNotFound.
// Test Case ID: MEM-05
func TestCatalogRepository(t *testing.T) {
	repo := NewCatalogRepository()
	svc := catalog.NewService(repo, audit.NewMemoryLogger())
	ctx := context.Background()

	a, err := svc.Add(ctx, "t1", catalog.KindProduct, json.RawMessage(`{"name":"Cleaning"}`))
	require.NoError(t, err)
	b, err := svc.Add(ctx, "t1", catalog.KindProduct, json.RawMessage(`{"name":"Whitening"}`))
	require.NoError(t, err)
	loc, err := svc.Add(ctx, "t1", catalog.KindLocation, json.RawMessage(`{"city":"Bogota"}`))
	require.NoError(t, err)

	assert.Equal(t, 0, a.Position)
	assert.Equal(t, 1, b.Position)
	assert.Equal(t, 0, loc.Position)

	items, err := svc.List(ctx, "t1", catalog.KindProduct)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].ID)

	assert.ErrorIs(t, svc.Remove(ctx, "t2", a.ID), catalog.ErrItemNotFound)
	require.NoError(t, svc.Remove(ctx, "t1", a.ID))

	items, err = svc.List(ctx, "t1", catalog.KindProduct)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)

	other, err := svc.List(ctx, "t2", catalog.KindProduct)
	require.NoError(t, err)
	assert.Empty(t, other)
}
