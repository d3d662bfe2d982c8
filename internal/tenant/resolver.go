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

package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/duvan51/webpromedid/internal/observability/logger"
)

const instrumentationName = "github.com/duvan51/webpromedid/internal/tenant"

var tracer = otel.Tracer(instrumentationName)

// Kind classifies how a hostname was resolved
type Kind string

const (
	KindCustomDomain   Kind = "custom_domain"
	KindSubdomain      Kind = "subdomain"
	KindPlatform       Kind = "platform"
	KindPlatformMaster Kind = "platform_master"
	KindNotFound       Kind = "not_found"
)

// Resolution is the outcome of resolving a hostname. Failures are flags,
// never errors.
type Resolution struct {
	Kind         Kind    `json:"kind"`
	Tenant       *Tenant `json:"tenant,omitempty"`
	PlatformMode bool    `json:"platform_mode"`
	NotFound     bool    `json:"not_found"`
	// Transient is set when a lookup failed instead of finding nothing.
	Transient bool   `json:"transient,omitempty"`
	Hostname  string `json:"hostname"`
}

// Context returns the explicit site context of the resolution.
func (r Resolution) Context() TenantContext {
	return ContextFor(r.Tenant, r.PlatformMode)
}

// ResolverConfig holds resolver configuration
type ResolverConfig struct {
	PlatformHosts   []string
	MasterSlug      string
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// Timeout bounds a shared resolution. It is detached from any single
	// caller's context.
	Timeout time.Duration
}

// Resolver maps request hostnames to tenants
type Resolver struct {
	lookup      Lookup
	platform    map[string]bool
	masterSlug  string
	cfg         ResolverConfig
	group       singleflight.Group
	resolutions metric.Int64Counter
}

// NewResolver creates a new resolver
func NewResolver(lookup Lookup, cfg ResolverConfig) *Resolver {
	platform := make(map[string]bool, len(cfg.PlatformHosts))
	for _, h := range cfg.PlatformHosts {
		if n := NormalizeHost(h); n != "" {
			platform[n] = true
		}
	}
	if cfg.MasterSlug == "" {
		cfg.MasterSlug = DefaultMasterSlug
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 50 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	counter, _ := otel.Meter(instrumentationName).Int64Counter("tenant.resolutions",
		metric.WithDescription("Hostname resolutions by outcome"))

	return &Resolver{
		lookup:      lookup,
		platform:    platform,
		masterSlug:  cfg.MasterSlug,
		cfg:         cfg,
		resolutions: counter,
	}
}

// Resolve resolves hostname. Concurrent calls for the same hostname share
// one set of lookups, run on a context detached from every caller. A caller
// whose ctx ends first gets a transient NotFound; the others keep waiting.
func (r *Resolver) Resolve(ctx context.Context, hostname string) Resolution {
	c := NewCandidates(hostname)
	ch := r.group.DoChan(c.Original, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.Timeout)
		defer cancel()
		return r.resolve(shared, c), nil
	})
	select {
	case res := <-ch:
		return res.Val.(Resolution)
	case <-ctx.Done():
		return Resolution{Kind: KindNotFound, NotFound: true, Transient: true, Hostname: c.Original}
	}
}

// IsPlatformHost reports whether hostname is one of the configured platform
// hosts, with or without www.
func (r *Resolver) IsPlatformHost(hostname string) bool {
	return r.isPlatform(NewCandidates(hostname))
}

func (r *Resolver) isPlatform(c Candidates) bool {
	for _, h := range c.List() {
		if r.platform[h] {
			return true
		}
	}
	return false
}

func (r *Resolver) resolve(ctx context.Context, c Candidates) Resolution {
	ctx, span := tracer.Start(ctx, "tenant.Resolve", trace.WithAttributes(
		attribute.String("tenant.hostname", c.Original),
	))
	defer span.End()

	res := r.tiers(ctx, c)

	span.SetAttributes(
		attribute.String("tenant.resolution_kind", string(res.Kind)),
		attribute.Bool("tenant.transient", res.Transient),
	)
	r.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(res.Kind)),
		attribute.Bool("transient", res.Transient),
	))

	attrs := []any{
		logger.Hostname(c.Original),
		logger.ResolutionKind(string(res.Kind)),
	}
	if res.Tenant != nil {
		attrs = append(attrs, logger.TenantID(res.Tenant.ID), logger.Slug(res.Tenant.Slug))
	}
	if res.Transient {
		slog.WarnContext(ctx, "tenant resolution failed on a store error", attrs...)
	} else {
		slog.DebugContext(ctx, "tenant resolved", attrs...)
	}
	return res
}

func (r *Resolver) tiers(ctx context.Context, c Candidates) Resolution {
	notFound := Resolution{Kind: KindNotFound, NotFound: true, Hostname: c.Original}
	transient := notFound
	transient.Transient = true

	if c.Original == "" {
		return notFound
	}

	for _, host := range c.List() {
		t, err := r.find(ctx, func(ctx context.Context) (*Tenant, error) {
			return r.lookup.GetByCustomDomain(ctx, host)
		})
		if err == nil {
			return Resolution{Kind: KindCustomDomain, Tenant: t, Hostname: c.Original}
		}
		if !errors.Is(err, ErrTenantNotFound) {
			return transient
		}
	}

	if !r.isPlatform(c) {
		slug := c.FirstLabel()
		if slug == "" {
			return notFound
		}
		t, err := r.find(ctx, func(ctx context.Context) (*Tenant, error) {
			return r.lookup.GetBySlug(ctx, slug)
		})
		switch {
		case err == nil:
			return Resolution{Kind: KindSubdomain, Tenant: t, Hostname: c.Original}
		case errors.Is(err, ErrTenantNotFound):
			return notFound
		default:
			return transient
		}
	}

	t, err := r.find(ctx, func(ctx context.Context) (*Tenant, error) {
		return r.lookup.GetBySlug(ctx, r.masterSlug)
	})
	switch {
	case err == nil:
		return Resolution{Kind: KindPlatformMaster, Tenant: t, PlatformMode: true, Hostname: c.Original}
	case errors.Is(err, ErrTenantNotFound):
		return Resolution{Kind: KindPlatform, PlatformMode: true, Hostname: c.Original}
	default:
		return transient
	}
}

// find runs one lookup, retrying store failures with exponential backoff.
// Inactive tenants are reported as ErrTenantNotFound.
func (r *Resolver) find(ctx context.Context, fn func(context.Context) (*Tenant, error)) (*Tenant, error) {
	var found *Tenant
	op := func() error {
		t, err := fn(ctx)
		if err != nil {
			if errors.Is(err, ErrTenantNotFound) {
				return backoff.Permanent(err)
			}
			return err
		}
		found = t
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxInterval = r.cfg.MaxInterval
	b.MaxElapsedTime = 0

	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(b, r.cfg.MaxRetries), ctx),
		func(err error, wait time.Duration) {
			slog.DebugContext(ctx, "tenant lookup failed, retrying",
				logger.Error(err),
				slog.Duration("wait", wait),
			)
		})
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to look up tenant: %w", err)
	}
	if !found.IsActive() {
		return nil, ErrTenantNotFound
	}
	return found, nil
}
