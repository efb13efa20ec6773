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
	"context"
)

// ResourceClient is implemented by the provider adapters and consumed by the
// security group synchronizer. Transport, authentication, retries and
// pagination are the responsibility of the implementation.
type ResourceClient interface {
	// ResolveScope returns the scope resources for the given location live in.
	ResolveScope(ctx context.Context, location string) (Scope, error)

	// ListGroups returns all the groups in a scope. An empty scope is not an error.
	ListGroups(ctx context.Context, scope Scope) ([]RuleGroup, error)

	// GetGroup returns the group with the given name, or nil if it does not exist.
	GetGroup(ctx context.Context, scope Scope, name string) (*RuleGroup, error)

	// CreateOrUpdateGroup creates the group or updates it if it already exists.
	CreateOrUpdateGroup(ctx context.Context, scope Scope, name, location string, properties RuleGroupProperties) (*RuleGroup, error)

	// DeleteGroup starts the deletion of a group. A nil handle means there was nothing to delete.
	DeleteGroup(ctx context.Context, scope Scope, name string) (*DeleteHandle, error)

	// ListRules returns the rules of a group.
	ListRules(ctx context.Context, scope Scope, group string) ([]Rule, error)

	// CreateOrUpdateRule creates the rule or updates it if it already exists.
	CreateOrUpdateRule(ctx context.Context, scope Scope, group, name string, properties RuleProperties) (*Rule, error)

	// DeleteRule deletes a rule previously returned by ListRules.
	DeleteRule(ctx context.Context, scope Scope, group string, rule Rule) error

	// WaitUntilAvailable blocks until the group reached a stable state. It returns
	// false if ctx expires first.
	WaitUntilAvailable(ctx context.Context, scope Scope, group string) (bool, error)

	// WaitUntilDeleted blocks until the deletion tracked by handle completed. It
	// returns false if ctx expires first.
	WaitUntilDeleted(ctx context.Context, handle DeleteHandle) (bool, error)

	// NodeSecurityGroups returns the names of the groups attached to the
	// network interfaces of a node.
	NodeSecurityGroups(ctx context.Context, scope Scope, node string) ([]string, error)
}
