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

// ProvisioningState is the lifecycle state the provider reports for a resource.
type ProvisioningState string

const (
	ProvisioningStateSucceeded ProvisioningState = "Succeeded"
	ProvisioningStateUpdating  ProvisioningState = "Updating"
	ProvisioningStateDeleting  ProvisioningState = "Deleting"
	ProvisioningStateFailed    ProvisioningState = "Failed"
)

// Scope addresses the provider container resources live in, e.g. an Azure resource group.
type Scope string

// RuleGroup is a named collection of rules scoped to a location.
type RuleGroup struct {
	// ID is the slash encoded region and name of the group, see RegionAndID.
	ID string
	// Name is the local identifier of the group inside its scope.
	Name string
	// Location the group lives in.
	Location string
	// ProviderID is the full identifier assigned by the provider, if any.
	ProviderID        string
	ProvisioningState ProvisioningState
	Rules             []Rule
}

// RuleGroupProperties are the settings a group is created or updated with.
type RuleGroupProperties struct {
	Rules []Rule
	Tags  map[string]string
}

// DeleteHandle tracks an asynchronous group deletion.
type DeleteHandle struct {
	Scope Scope
	Name  string
}

// RegionAndID is the composite identifier of a group or a node: the region
// (location) and the local id, slash encoded as "region/id".
type RegionAndID struct {
	Region string
	ID     string
}

// ParseRegionAndID decodes a slash encoded identifier.
func ParseRegionAndID(encoded string) (RegionAndID, error) {
	region, id, ok := strings.Cut(encoded, "/")
	if !ok || region == "" || id == "" || strings.Contains(id, "/") {
		return RegionAndID{}, errors.Errorf("invalid identifier %q, expected <region>/<id>", encoded)
	}
	return RegionAndID{Region: region, ID: id}, nil
}

func (r RegionAndID) String() string {
	return r.Region + "/" + r.ID
}
