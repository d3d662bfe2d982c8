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
	"context"

	"github.com/duvan51/webpromedid/internal/tenant"
)

type contextKey string

const (
	resolutionKey contextKey = "resolution"
	tenantKey     contextKey = "tenant"
)

// WithResolution stores the host resolution of the request
func WithResolution(ctx context.Context, res tenant.Resolution) context.Context {
	return context.WithValue(ctx, resolutionKey, res)
}

// GetResolution retrieves the host resolution from context.
func GetResolution(ctx context.Context) (tenant.Resolution, bool) {
	res, ok := ctx.Value(resolutionKey).(tenant.Resolution)
	return res, ok
}

// GetTenant retrieves the tenant addressed by an admin route.
func GetTenant(ctx context.Context) *tenant.Tenant {
	if val, ok := ctx.Value(tenantKey).(*tenant.Tenant); ok {
		return val
	}
	return nil
}
