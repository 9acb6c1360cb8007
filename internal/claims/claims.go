// Copyright 2026 Dominik Schlosser
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

// Package claims checks the temporal claims of a signed document.
package claims

import (
	"fmt"
	"time"

	"github.com/LGFdev/sanipasse/internal/certificate"
)

// Validate checks issuedAt and expiresAt against now. Nil claims are
// unbounded. Both checks run; when both fail the issued-in-future error is
// returned. That precedence comes from check order, not from any standard.
func Validate(issuedAt, expiresAt *time.Time, now time.Time) error {
	var future, expired error

	if issuedAt != nil && now.Before(*issuedAt) {
		future = &certificate.Error{
			Kind: certificate.KindIssuedInFuture,
			Msg:  fmt.Sprintf("issued at %s, after %s", issuedAt.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339)),
		}
	}
	if expiresAt != nil && expiresAt.Before(now) {
		expired = &certificate.Error{
			Kind: certificate.KindExpired,
			Msg:  fmt.Sprintf("expired at %s", expiresAt.UTC().Format(time.RFC3339)),
		}
	}

	if future != nil {
		return future
	}
	return expired
}
