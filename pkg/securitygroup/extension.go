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

package securitygroup

import (
	"context"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	kerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
)

const (
	// DefaultConvergenceTimeout bounds every wait for a group to become available.
	DefaultConvergenceTimeout = 5 * time.Minute

	maxConcurrentLocations = 8
)

// Extension manages security groups and their permissions on top of a
// cloud.ResourceClient.
//
// Every mutating call re-reads the group before planning; nothing is cached
// across calls. Concurrent mutations of the same group are not coordinated.
type Extension struct {
	client             cloud.ResourceClient
	log                logr.Logger
	locations          []string
	convergenceTimeout time.Duration
}

// Option is a configuration option supplied to NewExtension.
type Option func(*Extension)

// WithLogger sets the logger used by the Extension.
func WithLogger(log logr.Logger) Option {
	return func(e *Extension) {
		e.log = log
	}
}

// WithLocations sets the locations ListSecurityGroups looks into.
func WithLocations(locations []string) Option {
	return func(e *Extension) {
		e.locations = append([]string(nil), locations...)
	}
}

// WithConvergenceTimeout overrides DefaultConvergenceTimeout.
func WithConvergenceTimeout(timeout time.Duration) Option {
	return func(e *Extension) {
		if timeout > 0 {
			e.convergenceTimeout = timeout
		}
	}
}

// NewExtension returns an Extension operating through client.
func NewExtension(client cloud.ResourceClient, options ...Option) *Extension {
	e := &Extension{
		client:             client,
		log:                logr.Discard(),
		convergenceTimeout: DefaultConvergenceTimeout,
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// ListSecurityGroups returns the groups of all the configured locations.
func (e *Extension) ListSecurityGroups(ctx context.Context) ([]SecurityGroup, error) {
	results := make([][]SecurityGroup, len(e.locations))
	errs := make([]error, len(e.locations))

	g := errgroup.Group{}
	g.SetLimit(maxConcurrentLocations)
	for i, location := range e.locations {
		i, location := i, location
		g.Go(func() error {
			results[i], errs[i] = e.ListSecurityGroupsInLocation(ctx, location)
			return nil
		})
	}
	_ = g.Wait()
	if err := kerrors.NewAggregate(errs); err != nil {
		return nil, err
	}

	var groups []SecurityGroup
	for _, r := range results {
		groups = append(groups, r...)
	}
	return uniqueSorted(groups), nil
}

// ListSecurityGroupsInLocation returns the groups of a location.
func (e *Extension) ListSecurityGroupsInLocation(ctx context.Context, location string) ([]SecurityGroup, error) {
	e.log.V(1).Info("Getting security groups", "Location", location)

	scope, err := e.client.ResolveScope(ctx, location)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve scope for location %s", location)
	}
	ruleGroups, err := e.client.ListGroups(ctx, scope)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list security groups in %s", location)
	}

	groups := make([]SecurityGroup, 0, len(ruleGroups))
	for _, rg := range ruleGroups {
		groups = append(groups, ToSecurityGroup(rg))
	}
	return uniqueSorted(groups), nil
}

// ListSecurityGroupsForNode returns the groups attached to the network
// interfaces of a node, identified by its slash encoded region and name.
func (e *Extension) ListSecurityGroupsForNode(ctx context.Context, nodeID string) ([]SecurityGroup, error) {
	e.log.V(1).Info("Getting security groups for node", "Node", nodeID)

	node, err := cloud.ParseRegionAndID(nodeID)
	if err != nil {
		return nil, err
	}
	scope, err := e.client.ResolveScope(ctx, node.Region)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve scope for location %s", node.Region)
	}
	names, err := e.client.NodeSecurityGroups(ctx, scope, node.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get security groups of node %s", nodeID)
	}

	groups := []SecurityGroup{}
	for _, name := range names {
		rg, err := e.client.GetGroup(ctx, scope, name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get security group %s", name)
		}
		if rg == nil {
			continue
		}
		groups = append(groups, ToSecurityGroup(*rg))
	}
	return uniqueSorted(groups), nil
}

// GetSecurityGroupByID returns the group with the given slash encoded id.
func (e *Extension) GetSecurityGroupByID(ctx context.Context, id string) (*SecurityGroup, error) {
	e.log.V(1).Info("Getting security group", "SecurityGroup", id)

	target, err := e.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	group := ToSecurityGroup(*target.group)
	return &group, nil
}

// CreateSecurityGroup creates an empty group in location.
func (e *Extension) CreateSecurityGroup(ctx context.Context, name, location string) (*SecurityGroup, error) {
	e.log.V(1).Info("Creating security group", "Name", name, "Location", location)

	scope, err := e.client.ResolveScope(ctx, location)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve scope for location %s", location)
	}
	rg, err := e.client.CreateOrUpdateGroup(ctx, scope, name, location, cloud.RuleGroupProperties{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create security group %s in %s", name, location)
	}
	group := ToSecurityGroup(*rg)
	return &group, nil
}

// RemoveSecurityGroup deletes a group and waits for the deletion to complete.
// It returns false if there was nothing to delete or the deletion did not
// complete within the convergence timeout.
func (e *Extension) RemoveSecurityGroup(ctx context.Context, id string) (bool, error) {
	e.log.V(1).Info("Deleting security group", "SecurityGroup", id)

	regionAndID, err := cloud.ParseRegionAndID(id)
	if err != nil {
		return false, err
	}
	scope, err := e.client.ResolveScope(ctx, regionAndID.Region)
	if err != nil {
		return false, errors.Wrapf(err, "failed to resolve scope for location %s", regionAndID.Region)
	}
	handle, err := e.client.DeleteGroup(ctx, scope, regionAndID.ID)
	if err != nil {
		return false, errors.Wrapf(err, "failed to delete security group %s", id)
	}
	if handle == nil {
		return false, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, e.convergenceTimeout)
	defer cancel()
	deleted, err := e.client.WaitUntilDeleted(waitCtx, *handle)
	if err != nil {
		return false, errors.Wrapf(err, "failed to wait for security group %s deletion", id)
	}
	return deleted, nil
}

// AddIPPermission creates one inbound allow rule per CIDR block of permission
// and returns the refreshed group.
//
// All the rules of a permission share one name. Providers keying rules by name,
// such as Azure, replace the rule on every CIDR block and keep only the last
// source range. Providers keying rules by name and priority keep them all, and
// adding the same permission twice creates a second set of rules with new
// priorities.
func (e *Extension) AddIPPermission(ctx context.Context, permission IPPermission, groupID string) (*SecurityGroup, error) {
	if _, err := permission.Protocol.RuleProtocol(); err != nil {
		return nil, err
	}
	if err := permission.validatePorts(); err != nil {
		return nil, err
	}
	log := e.log.WithValues("SecurityGroup", groupID, "Rule", permission.RuleName())
	log.V(1).Info("Adding ip permission")
	e.logIgnoredInputs(log, permission)

	target, err := e.resolve(ctx, groupID)
	if err != nil {
		return nil, err
	}
	existing, err := e.client.ListRules(ctx, target.scope, target.group.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list rules of security group %s", groupID)
	}
	planned, err := PlanRules(permission, existing)
	if err != nil {
		return nil, err
	}

	for _, rule := range planned {
		log.V(1).Info("Creating network security rule", "Source", rule.Properties.SourceAddressPrefix(), "Priority", rule.Properties.Priority())
		if _, err := e.client.CreateOrUpdateRule(ctx, target.scope, target.group.Name, rule.Name, rule.Properties); err != nil {
			ruleMutationsTotal.WithLabelValues(mutationCreate, resultError).Inc()
			return nil, errors.Wrapf(err, "failed to create rule %s in security group %s", rule.Name, groupID)
		}
		ruleMutationsTotal.WithLabelValues(mutationCreate, resultSuccess).Inc()
		if err := e.waitUntilAvailable(ctx, target); err != nil {
			return nil, err
		}
	}

	return e.GetSecurityGroupByID(ctx, groupID)
}

// RemoveIPPermission deletes the inbound allow rules backing permission and
// returns the refreshed group. Rules that do not match every field of the
// permission are left untouched.
func (e *Extension) RemoveIPPermission(ctx context.Context, permission IPPermission, groupID string) (*SecurityGroup, error) {
	if _, err := permission.Protocol.RuleProtocol(); err != nil {
		return nil, err
	}
	log := e.log.WithValues("SecurityGroup", groupID, "Rule", permission.RuleName())
	log.V(1).Info("Deleting ip permissions")
	e.logIgnoredInputs(log, permission)

	target, err := e.resolve(ctx, groupID)
	if err != nil {
		return nil, err
	}
	existing, err := e.client.ListRules(ctx, target.scope, target.group.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list rules of security group %s", groupID)
	}
	matching, err := MatchingRules(existing, permission)
	if err != nil {
		return nil, err
	}

	for _, rule := range matching {
		log.V(1).Info("Deleting network security rule", "Name", rule.Name, "Priority", rule.Properties.Priority())
		if err := e.client.DeleteRule(ctx, target.scope, target.group.Name, rule); err != nil {
			ruleMutationsTotal.WithLabelValues(mutationDelete, resultError).Inc()
			return nil, errors.Wrapf(err, "failed to delete rule %s from security group %s", rule.Name, groupID)
		}
		ruleMutationsTotal.WithLabelValues(mutationDelete, resultSuccess).Inc()
		if err := e.waitUntilAvailable(ctx, target); err != nil {
			return nil, err
		}
	}

	return e.GetSecurityGroupByID(ctx, groupID)
}

// Capabilities returns the optional features supported by network security groups.
func (e *Extension) Capabilities() Capabilities {
	return Capabilities{
		TenantIDGroupNamePairs: e.SupportsTenantIDGroupNamePairs(),
		TenantIDGroupIDPairs:   e.SupportsTenantIDGroupIDPairs(),
		GroupIDs:               e.SupportsGroupIDs(),
		PortRangesForGroups:    e.SupportsPortRangesForGroups(),
		ExclusionCIDRBlocks:    e.SupportsExclusionCIDRBlocks(),
	}
}

func (e *Extension) SupportsTenantIDGroupNamePairs() bool { return false }
func (e *Extension) SupportsTenantIDGroupIDPairs() bool   { return false }
func (e *Extension) SupportsGroupIDs() bool               { return false }
func (e *Extension) SupportsPortRangesForGroups() bool    { return false }
func (e *Extension) SupportsExclusionCIDRBlocks() bool    { return false }

type target struct {
	id    cloud.RegionAndID
	scope cloud.Scope
	group *cloud.RuleGroup
}

// resolve maps a slash encoded group id to its scope and current state.
func (e *Extension) resolve(ctx context.Context, id string) (*target, error) {
	regionAndID, err := cloud.ParseRegionAndID(id)
	if err != nil {
		return nil, err
	}
	scope, err := e.client.ResolveScope(ctx, regionAndID.Region)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve scope for location %s", regionAndID.Region)
	}
	group, err := e.client.GetGroup(ctx, scope, regionAndID.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get security group %s", id)
	}
	if group == nil {
		return nil, &GroupNotFoundError{ID: id}
	}
	return &target{id: regionAndID, scope: scope, group: group}, nil
}

func (e *Extension) waitUntilAvailable(ctx context.Context, t *target) error {
	start := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, e.convergenceTimeout)
	defer cancel()

	available, err := e.client.WaitUntilAvailable(waitCtx, t.scope, t.group.Name)
	elapsed := time.Since(start).Seconds()
	switch {
	case ctx.Err() != nil:
		convergenceWaitSeconds.WithLabelValues(resultError).Observe(elapsed)
		return errors.Wrapf(ctx.Err(), "stopped waiting for security group %s", t.id)
	case err != nil && waitCtx.Err() == nil:
		convergenceWaitSeconds.WithLabelValues(resultError).Observe(elapsed)
		return errors.Wrapf(err, "failed to wait for security group %s", t.id)
	case err != nil || !available:
		convergenceWaitSeconds.WithLabelValues(resultTimeout).Observe(elapsed)
		return &ConvergenceTimeoutError{ID: t.id.String(), Timeout: e.convergenceTimeout}
	}
	convergenceWaitSeconds.WithLabelValues(resultSuccess).Observe(elapsed)
	return nil
}

func (e *Extension) logIgnoredInputs(log logr.Logger, permission IPPermission) {
	if len(permission.TenantIDGroupNamePairs) > 0 {
		log.V(1).Info("Ignoring tenant id and group name pairs, not supported by network security groups")
	}
	if len(permission.GroupIDs) > 0 {
		log.V(1).Info("Ignoring group ids, not supported by network security groups")
	}
	if len(permission.ExclusionCIDRBlocks) > 0 {
		log.V(1).Info("Ignoring exclusion CIDR blocks, not supported by network security groups")
	}
}

func uniqueSorted(groups []SecurityGroup) []SecurityGroup {
	seen := sets.New[string]()
	unique := make([]SecurityGroup, 0, len(groups))
	for _, g := range groups {
		if seen.Has(g.ID) {
			continue
		}
		seen.Insert(g.ID)
		unique = append(unique, g)
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].ID < unique[j].ID
	})
	return unique
}
