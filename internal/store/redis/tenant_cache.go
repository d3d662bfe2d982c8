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

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/duvan51/webpromedid/internal/observability/logger"
	"github.com/duvan51/webpromedid/internal/tenant"
)

const instrumentationName = "github.com/duvan51/webpromedid/internal/store/redis"

const (
	defaultPrefix      = "webpromedid:tenant:"
	defaultTTL         = 5 * time.Minute
	defaultNegativeTTL = 30 * time.Second
)

// entry is the cached form of a lookup. Missing records a negative result.
type entry struct {
	Tenant  *tenant.Tenant `json:"tenant,omitempty"`
	Missing bool           `json:"missing,omitempty"`
}

// TenantCache decorates a tenant.Lookup with a Redis read-through cache.
// Redis failures are logged and fall through to the wrapped lookup.
type TenantCache struct {
	client      *redis.Client
	next        tenant.Lookup
	prefix      string
	ttl         time.Duration
	negativeTTL time.Duration
	lookups     metric.Int64Counter
}

// NewTenantCache wraps next with a cache stored in client
func NewTenantCache(client *redis.Client, next tenant.Lookup, cfg Config) *TenantCache {
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.NegativeTTL <= 0 {
		cfg.NegativeTTL = defaultNegativeTTL
	}

	counter, _ := otel.Meter(instrumentationName).Int64Counter("tenant.cache.lookups",
		metric.WithDescription("Tenant cache lookups by result"))

	return &TenantCache{
		client:      client,
		next:        next,
		prefix:      cfg.Prefix,
		ttl:         cfg.TTL,
		negativeTTL: cfg.NegativeTTL,
		lookups:     counter,
	}
}

// GetByCustomDomain implements tenant.Lookup
func (c *TenantCache) GetByCustomDomain(ctx context.Context, host string) (*tenant.Tenant, error) {
	return c.get(ctx, domainKey(host), func() (*tenant.Tenant, error) {
		return c.next.GetByCustomDomain(ctx, host)
	})
}

// GetBySlug implements tenant.Lookup
func (c *TenantCache) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	return c.get(ctx, slugKey(slug), func() (*tenant.Tenant, error) {
		return c.next.GetBySlug(ctx, slug)
	})
}

// InvalidateTenant drops every key that may hold t, including negative
// entries for its slug and both forms of its domain.
func (c *TenantCache) InvalidateTenant(ctx context.Context, t *tenant.Tenant) {
	keys := c.keysFor(t)
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "failed to invalidate tenant cache",
			logger.Component("tenant_cache"),
			logger.Slug(t.Slug),
			logger.Error(err),
		)
	}
}

func (c *TenantCache) keysFor(t *tenant.Tenant) []string {
	if t == nil {
		return nil
	}
	var keys []string
	if t.Slug != "" {
		keys = append(keys, c.prefix+slugKey(t.Slug))
	}
	if t.CustomDomain != "" {
		canonical := tenant.CanonicalHost(t.CustomDomain)
		seen := map[string]bool{}
		for _, host := range []string{t.CustomDomain, canonical, "www." + canonical} {
			if !seen[host] {
				seen[host] = true
				keys = append(keys, c.prefix+domainKey(host))
			}
		}
	}
	return keys
}

func (c *TenantCache) get(ctx context.Context, key string, load func() (*tenant.Tenant, error)) (*tenant.Tenant, error) {
	key = c.prefix + key

	if e, ok := c.read(ctx, key); ok {
		c.count(ctx, "hit")
		if e.Missing {
			return nil, tenant.ErrTenantNotFound
		}
		return e.Tenant, nil
	}
	c.count(ctx, "miss")

	t, err := load()
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		c.write(ctx, key, entry{Missing: true}, c.negativeTTL)
		return nil, err
	case err != nil:
		return nil, err
	}
	c.write(ctx, key, entry{Tenant: t}, c.ttl)
	return t, nil
}

func (c *TenantCache) read(ctx context.Context, key string) (entry, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.WarnContext(ctx, "tenant cache read failed",
				logger.Component("tenant_cache"),
				logger.String("key", key),
				logger.Error(err),
			)
		}
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || (!e.Missing && e.Tenant == nil) {
		slog.WarnContext(ctx, "discarding corrupt tenant cache entry",
			logger.Component("tenant_cache"),
			logger.String("key", key),
		)
		c.client.Del(ctx, key)
		return entry{}, false
	}
	return e, true
}

func (c *TenantCache) write(ctx context.Context, key string, e entry, ttl time.Duration) {
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		slog.WarnContext(ctx, "tenant cache write failed",
			logger.Component("tenant_cache"),
			logger.String("key", key),
			logger.Error(err),
		)
	}
}

func (c *TenantCache) count(ctx context.Context, result string) {
	c.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func slugKey(slug string) string   { return "slug:" + slug }
func domainKey(host string) string { return "domain:" + host }
