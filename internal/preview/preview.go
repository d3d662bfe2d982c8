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

// Package preview issues and verifies the signed tokens that let an editor
// view a tenant's page before it is served on the tenant's own host.
package preview

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for tokens that are malformed, expired,
	// or signed by another key or issuer.
	ErrInvalidToken = errors.New("invalid preview token")

	ErrKeyTooShort = errors.New("preview signing key must be at least 32 bytes")
)

const minKeyLength = 32

// Claims carried by a preview token
type Claims struct {
	TenantID string `json:"tid"`
	Page     string `json:"page"`
	jwt.RegisteredClaims
}

// Service signs preview tokens with HS256
type Service struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a new preview token service
func NewService(key, issuer string, ttl time.Duration) (*Service, error) {
	if len(key) < minKeyLength {
		return nil, ErrKeyTooShort
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Service{
		key:    []byte(key),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue returns a token for page of tenantID and its expiry
func (s *Service) Issue(tenantID, page string) (string, time.Time, error) {
	if tenantID == "" {
		return "", time.Time{}, fmt.Errorf("%w: tenant id is required", ErrInvalidToken)
	}
	now := s.now()
	exp := now.Add(s.ttl)

	claims := Claims{
		TenantID: tenantID,
		Page:     page,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign preview token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses tokenString and returns its claims
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.TenantID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
