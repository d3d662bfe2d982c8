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

package pageconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrPageNotFound      = errors.New("page not found")
	ErrPageExists        = errors.New("page already exists")
	ErrVersionConflict   = errors.New("page version conflict")
	ErrMalformedDocument = errors.New("malformed page document")
	ErrUnknownField      = errors.New("unknown field")
	ErrInvalidValue      = errors.New("invalid value")
	ErrUnknownSection    = errors.New("unknown section")
	ErrUnknownList       = errors.New("unknown list")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrInvalidPageSlug   = errors.New("invalid page slug")
)

// LoadWarning lists the document keys whose stored value could not be
// decoded and were replaced by their defaults. The accompanying Document is
// still usable.
type LoadWarning struct {
	Keys []string
}

func (w *LoadWarning) Error() string {
	return fmt.Sprintf("page document sections fell back to defaults: %s", strings.Join(w.Keys, ", "))
}
