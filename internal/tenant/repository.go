package tenant

import (
	"context"
	"errors"
)

var (
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrInvalidSlug     = errors.New("invalid tenant slug")
	ErrInvalidDomain   = errors.New("invalid custom domain")
	ErrInvalidTheme    = errors.New("unknown theme")
	ErrInvalidConfig   = errors.New("tenant config must be a JSON document")
	ErrInvalidStatus   = errors.New("invalid tenant status")
	ErrNameRequired    = errors.New("tenant name is required")
	ErrSlugTaken       = errors.New("tenant slug already in use")
	ErrDomainTaken     = errors.New("custom domain already in use")
	ErrStaleResolution = errors.New("resolution superseded by a newer request")
)

// Lookup is the read side used by the resolver. Both methods return
// ErrTenantNotFound when nothing matches. Inactive tenants may be returned;
// the resolver checks status itself.
type Lookup interface {
	// GetByCustomDomain matches host against the stored domain exactly or
	// against its www-stripped form.
	GetByCustomDomain(ctx context.Context, host string) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
}

// Repository defines the interface for tenant storage
type Repository interface {
	Lookup
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	Update(ctx context.Context, tenant *Tenant) error
	List(ctx context.Context, limit, offset int) ([]*Tenant, error)
}

// Invalidator drops cached lookups for a tenant
type Invalidator interface {
	InvalidateTenant(ctx context.Context, t *Tenant)
}
