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
	"sync"
)

// Session serializes resolutions for one subject, such as an editor
// previewing hostnames. Starting a resolution cancels the previous one, and
// only the most recent resolution's result is returned.
type Session struct {
	resolver *Resolver

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSession starts an empty session bound to r
func (r *Resolver) NewSession() *Session {
	return &Session{resolver: r}
}

// Resolve resolves hostname. It returns ErrStaleResolution when a later call
// on the same session started before this one finished.
func (s *Session) Resolve(ctx context.Context, hostname string) (Resolution, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	// Not collapsed: cancelling this session must not affect other callers.
	res := s.resolver.resolve(ctx, NewCandidates(hostname))

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return Resolution{}, ErrStaleResolution
	}
	s.cancel = nil
	return res, nil
}

// Close cancels any in-flight resolution
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}
