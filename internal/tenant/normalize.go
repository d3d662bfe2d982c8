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
	"fmt"
	"strings"
	"unicode"
)

const maxLabel = 63

var reservedSlugs = map[string]bool{
	"www": true,
}

// NormalizeSlug lowercases s and reduces it to [a-z0-9-]. Whitespace,
// underscores and dots become hyphens; other characters are dropped.
func NormalizeSlug(s string) (string, error) {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")

	if slug == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, s)
	}
	if len(slug) > maxLabel {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidSlug, maxLabel)
	}
	if reservedSlugs[slug] {
		return "", fmt.Errorf("%w: %q is reserved", ErrInvalidSlug, slug)
	}
	return slug, nil
}

// NormalizeHost lowercases a Host header value and strips the port and a
// trailing dot.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if strings.HasPrefix(host, "[") {
		if i := strings.IndexByte(host, ']'); i > 0 {
			return host[1:i]
		}
		return ""
	}
	if i := strings.LastIndexByte(host, ':'); i >= 0 && strings.Count(host, ":") == 1 {
		host = host[:i]
	}
	return strings.TrimSuffix(host, ".")
}

// CanonicalHost strips a leading "www." from an already normalized host.
func CanonicalHost(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// NormalizeDomain turns operator input into a stored custom domain. The
// scheme, path and port are dropped. An empty input means no domain.
func NormalizeDomain(s string) (string, error) {
	d := strings.TrimSpace(s)
	if d == "" {
		return "", nil
	}
	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	d = NormalizeHost(d)

	if !strings.Contains(d, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, s)
	}
	for _, label := range strings.Split(d, ".") {
		if label == "" || len(label) > maxLabel || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return "", fmt.Errorf("%w: %q", ErrInvalidDomain, s)
		}
		for _, r := range label {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
				return "", fmt.Errorf("%w: %q", ErrInvalidDomain, s)
			}
		}
	}
	return d, nil
}

// Candidates is the normalized form of a request hostname. Resolution tries
// Original before Canonical.
type Candidates struct {
	Original  string
	Canonical string
}

// NewCandidates normalizes host once for every resolution tier.
func NewCandidates(host string) Candidates {
	h := NormalizeHost(host)
	return Candidates{Original: h, Canonical: CanonicalHost(h)}
}

// List returns the distinct candidates, original first.
func (c Candidates) List() []string {
	if c.Original == "" {
		return nil
	}
	if c.Original == c.Canonical {
		return []string{c.Original}
	}
	return []string{c.Original, c.Canonical}
}

// FirstLabel returns the leftmost label of the canonical host.
func (c Candidates) FirstLabel() string {
	label, _, _ := strings.Cut(c.Canonical, ".")
	return label
}
