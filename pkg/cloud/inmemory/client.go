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

// Package inmemory implements a cloud.ResourceClient backed by memory.
//
// Rules are identified by name and priority, so creating a rule with an
// existing name and a new priority adds a rule instead of replacing it.
// Every mutation leaves the group in the Updating state for a configurable
// number of availability checks.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/wait"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
)

const defaultPollInterval = 10 * time.Millisecond

type groupKey struct {
	scope cloud.Scope
	name  string
}

type ruleKey struct {
	name     string
	priority int32
}

type group struct {
	location      string
	state         cloud.ProvisioningState
	pendingChecks int
	stuck         bool
	rules         map[ruleKey]cloud.RuleProperties
}

// Client is an in-memory cloud.ResourceClient. It is safe for concurrent use.
type Client struct {
	lock sync.RWMutex

	scopePrefix      string
	pollInterval     time.Duration
	convergenceDelay int

	groups map[groupKey]*group
	nodes  map[groupKey][]string
	calls  []string
}

var _ cloud.ResourceClient = &Client{}

// Option is a configuration option supplied to NewClient.
type Option func(*Client)

// WithScopePrefix sets the prefix used to derive a scope from a location.
func WithScopePrefix(prefix string) Option {
	return func(c *Client) {
		c.scopePrefix = prefix
	}
}

// WithPollInterval sets how often the wait functions check the group state.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// WithConvergenceDelay sets the number of availability checks a group stays
// in the Updating state after each mutation.
func WithConvergenceDelay(checks int) Option {
	return func(c *Client) {
		c.convergenceDelay = checks
	}
}

// NewClient returns an empty in-memory client.
func NewClient(options ...Option) *Client {
	c := &Client{
		scopePrefix:  cloud.DefaultScopePrefix,
		pollInterval: defaultPollInterval,
		groups:       map[groupKey]*group{},
		nodes:        map[groupKey][]string{},
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// AttachNode records that the network interfaces of node use the given groups.
func (c *Client) AttachNode(scope cloud.Scope, node string, groups ...string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	key := groupKey{scope: scope, name: node}
	c.nodes[key] = append(c.nodes[key], groups...)
}

// SetStuck makes a group never reach the Succeeded state again, or restores it.
func (c *Client) SetStuck(scope cloud.Scope, name string, stuck bool) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	g, ok := c.groups[groupKey{scope: scope, name: name}]
	if !ok {
		return errors.Errorf("security group %s not found in %s", name, scope)
	}
	g.stuck = stuck
	if stuck {
		g.state = cloud.ProvisioningStateUpdating
	}
	return nil
}

// Calls returns the mutating calls received so far, in order.
func (c *Client) Calls() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return append([]string(nil), c.calls...)
}

// ResolveScope implements cloud.ResourceClient.
func (c *Client) ResolveScope(_ context.Context, location string) (cloud.Scope, error) {
	return cloud.ScopeForLocation(c.scopePrefix, location)
}

// ListGroups implements cloud.ResourceClient.
func (c *Client) ListGroups(_ context.Context, scope cloud.Scope) ([]cloud.RuleGroup, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	groups := []cloud.RuleGroup{}
	for key, g := range c.groups {
		if key.scope == scope {
			groups = append(groups, c.toRuleGroup(key, g))
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
	return groups, nil
}

// GetGroup implements cloud.ResourceClient.
func (c *Client) GetGroup(_ context.Context, scope cloud.Scope, name string) (*cloud.RuleGroup, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	key := groupKey{scope: scope, name: name}
	g, ok := c.groups[key]
	if !ok {
		return nil, nil
	}
	rg := c.toRuleGroup(key, g)
	return &rg, nil
}

// CreateOrUpdateGroup implements cloud.ResourceClient.
func (c *Client) CreateOrUpdateGroup(_ context.Context, scope cloud.Scope, name, location string, properties cloud.RuleGroupProperties) (*cloud.RuleGroup, error) {
	if name == "" {
		return nil, errors.New("security group name is required")
	}
	c.lock.Lock()
	defer c.lock.Unlock()

	key := groupKey{scope: scope, name: name}
	g, ok := c.groups[key]
	if !ok {
		g = &group{location: location, rules: map[ruleKey]cloud.RuleProperties{}}
		c.groups[key] = g
	}
	for _, r := range properties.Rules {
		g.rules[ruleKey{name: r.Name, priority: r.Properties.Priority()}] = r.Properties
	}
	c.touch(g)
	c.record("CreateOrUpdateGroup", scope, name)

	rg := c.toRuleGroup(key, g)
	return &rg, nil
}

// DeleteGroup implements cloud.ResourceClient.
func (c *Client) DeleteGroup(_ context.Context, scope cloud.Scope, name string) (*cloud.DeleteHandle, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	key := groupKey{scope: scope, name: name}
	if _, ok := c.groups[key]; !ok {
		return nil, nil
	}
	delete(c.groups, key)
	c.record("DeleteGroup", scope, name)
	return &cloud.DeleteHandle{Scope: scope, Name: name}, nil
}

// ListRules implements cloud.ResourceClient.
func (c *Client) ListRules(_ context.Context, scope cloud.Scope, groupName string) ([]cloud.Rule, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	g, ok := c.groups[groupKey{scope: scope, name: groupName}]
	if !ok {
		return nil, errors.Errorf("security group %s not found in %s", groupName, scope)
	}
	return sortedRules(g), nil
}

// CreateOrUpdateRule implements cloud.ResourceClient.
func (c *Client) CreateOrUpdateRule(_ context.Context, scope cloud.Scope, groupName, name string, properties cloud.RuleProperties) (*cloud.Rule, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	g, ok := c.groups[groupKey{scope: scope, name: groupName}]
	if !ok {
		return nil, errors.Errorf("security group %s not found in %s", groupName, scope)
	}
	for key := range g.rules {
		if key.priority == properties.Priority() && key.name != name {
			return nil, errors.Errorf("priority %d is already used by rule %s", key.priority, key.name)
		}
	}
	g.rules[ruleKey{name: name, priority: properties.Priority()}] = properties
	c.touch(g)
	c.record("CreateOrUpdateRule", scope, fmt.Sprintf("%s/%s@%d", groupName, name, properties.Priority()))

	return &cloud.Rule{Name: name, Properties: properties}, nil
}

// DeleteRule implements cloud.ResourceClient.
func (c *Client) DeleteRule(_ context.Context, scope cloud.Scope, groupName string, rule cloud.Rule) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	g, ok := c.groups[groupKey{scope: scope, name: groupName}]
	if !ok {
		return errors.Errorf("security group %s not found in %s", groupName, scope)
	}
	key := ruleKey{name: rule.Name, priority: rule.Properties.Priority()}
	if _, ok := g.rules[key]; !ok {
		return errors.Errorf("rule %s with priority %d not found in security group %s", rule.Name, key.priority, groupName)
	}
	delete(g.rules, key)
	c.touch(g)
	c.record("DeleteRule", scope, fmt.Sprintf("%s/%s@%d", groupName, rule.Name, key.priority))
	return nil
}

// WaitUntilAvailable implements cloud.ResourceClient.
func (c *Client) WaitUntilAvailable(ctx context.Context, scope cloud.Scope, groupName string) (bool, error) {
	err := wait.PollUntilContextCancel(ctx, c.pollInterval, true, func(context.Context) (bool, error) {
		c.lock.Lock()
		defer c.lock.Unlock()

		g, ok := c.groups[groupKey{scope: scope, name: groupName}]
		if !ok {
			return false, errors.Errorf("security group %s not found in %s", groupName, scope)
		}
		if g.stuck {
			return false, nil
		}
		if g.pendingChecks > 0 {
			g.pendingChecks--
			return false, nil
		}
		g.state = cloud.ProvisioningStateSucceeded
		return true, nil
	})
	if err != nil {
		if wait.Interrupted(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// WaitUntilDeleted implements cloud.ResourceClient.
func (c *Client) WaitUntilDeleted(ctx context.Context, handle cloud.DeleteHandle) (bool, error) {
	err := wait.PollUntilContextCancel(ctx, c.pollInterval, true, func(context.Context) (bool, error) {
		c.lock.RLock()
		defer c.lock.RUnlock()

		_, exists := c.groups[groupKey{scope: handle.Scope, name: handle.Name}]
		return !exists, nil
	})
	if err != nil {
		if wait.Interrupted(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NodeSecurityGroups implements cloud.ResourceClient.
func (c *Client) NodeSecurityGroups(_ context.Context, scope cloud.Scope, node string) ([]string, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	groups, ok := c.nodes[groupKey{scope: scope, name: node}]
	if !ok {
		return nil, errors.Errorf("node %s not found in %s", node, scope)
	}
	return append([]string(nil), groups...), nil
}

func (c *Client) touch(g *group) {
	g.state = cloud.ProvisioningStateUpdating
	g.pendingChecks = c.convergenceDelay
}

func (c *Client) record(call string, scope cloud.Scope, target string) {
	c.calls = append(c.calls, fmt.Sprintf("%s %s/%s", call, scope, target))
}

func (c *Client) toRuleGroup(key groupKey, g *group) cloud.RuleGroup {
	return cloud.RuleGroup{
		ID:                cloud.RegionAndID{Region: g.location, ID: key.name}.String(),
		Name:              key.name,
		Location:          g.location,
		ProviderID:        fmt.Sprintf("/scopes/%s/securityGroups/%s", key.scope, key.name),
		ProvisioningState: g.state,
		Rules:             sortedRules(g),
	}
}

func sortedRules(g *group) []cloud.Rule {
	rules := make([]cloud.Rule, 0, len(g.rules))
	for key, properties := range g.rules {
		rules = append(rules, cloud.Rule{Name: key.name, Properties: properties})
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Properties.Priority() < rules[j].Properties.Priority()
	})
	return rules
}
