/*
Copyright 2026 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cloud

import (
	"strings"

	"github.com/pkg/errors"
)

// DefaultScopePrefix is prepended to a location to derive its scope name.
const DefaultScopePrefix = "securitygroups-"

// ScopeForLocation derives the scope of a location by prepending prefix,
// e.g. "securitygroups-eastus".
func ScopeForLocation(prefix, location string) (Scope, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", errors.New("location is required to resolve a scope")
	}
	return Scope(prefix + strings.ToLower(location)), nil
}
