package tenant

import (
	"encoding/json"
	"time"
)

// Tenant is one customer site served from the shared deployment
type Tenant struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	CustomDomain string          `json:"custom_domain,omitempty"`
	Theme        string          `json:"theme"`
	Config       json.RawMessage `json:"config,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// DefaultMasterSlug is the slug of the tenant served on the platform hosts
const DefaultMasterSlug = "master"

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// IsActive reports whether the tenant may be resolved
func (t *Tenant) IsActive() bool {
	return t != nil && t.Status == StatusActive
}

// Clone returns a copy that shares no mutable state with t
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}
	c := *t
	if t.Config != nil {
		c.Config = append(json.RawMessage(nil), t.Config...)
	}
	return &c
}

// TenantContext is the explicit site context handed to rendering. It is
// carried on the request context, never held globally.
type TenantContext struct {
	TenantID     string `json:"tenant_id,omitempty"`
	Slug         string `json:"slug,omitempty"`
	Name         string `json:"name,omitempty"`
	Theme        Theme  `json:"theme"`
	PlatformMode bool   `json:"platform_mode"`
	Preview      bool   `json:"preview,omitempty"`
}

// ContextFor builds the site context of a known tenant
func ContextFor(t *Tenant, platformMode bool) TenantContext {
	if t == nil {
		return TenantContext{Theme: LookupTheme(""), PlatformMode: platformMode}
	}
	return TenantContext{
		TenantID:     t.ID,
		Slug:         t.Slug,
		Name:         t.Name,
		Theme:        LookupTheme(t.Theme),
		PlatformMode: platformMode,
	}
}
