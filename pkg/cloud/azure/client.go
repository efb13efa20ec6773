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

// Package azure implements a cloud.ResourceClient over Azure network security groups.
package azure

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/utils/ptr"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
)

const (
	// ApplicationID is reported to Azure in the User-Agent of every request.
	ApplicationID = "secgroupctl"

	defaultPollInterval = 5 * time.Second

	// minPollFrequency is the lowest frequency runtime.Poller accepts outside of tests.
	minPollFrequency = time.Second
)

// Client is a cloud.ResourceClient backed by Azure Resource Manager.
// Scopes are resource group names.
type Client struct {
	groups     securityGroupsClient
	rules      securityRulesClient
	interfaces interfacesClient
	vms        virtualMachinesClient

	resourceGroup string
	scopePrefix   string
	pollInterval  time.Duration
}

var _ cloud.ResourceClient = &Client{}

// Option is a configuration option supplied to NewClient.
type Option func(*Client)

// WithResourceGroup makes every location resolve to the given resource group.
func WithResourceGroup(name string) Option {
	return func(c *Client) {
		c.resourceGroup = name
	}
}

// WithScopePrefix sets the prefix used to derive a resource group name from a location.
func WithScopePrefix(prefix string) Option {
	return func(c *Client) {
		c.scopePrefix = prefix
	}
}

// WithPollInterval sets how often long running operations and waits are polled.
// Long running operations are never polled more than once per second.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// NewClient returns a Client for the given subscription.
func NewClient(subscriptionID string, credential azcore.TokenCredential, options ...Option) (*Client, error) {
	if subscriptionID == "" {
		return nil, errors.New("azure subscription ID is required")
	}
	clientOptions := &arm.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Telemetry: policy.TelemetryOptions{ApplicationID: ApplicationID},
		},
	}
	factory, err := armnetwork.NewClientFactory(subscriptionID, credential, clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create network client factory")
	}
	vms, err := armcompute.NewVirtualMachinesClient(subscriptionID, credential, clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create virtual machines client")
	}
	return newClient(factory.NewSecurityGroupsClient(), factory.NewSecurityRulesClient(), factory.NewInterfacesClient(), vms, options...), nil
}

func newClient(groups securityGroupsClient, rules securityRulesClient, interfaces interfacesClient, vms virtualMachinesClient, options ...Option) *Client {
	c := &Client{
		groups:       groups,
		rules:        rules,
		interfaces:   interfaces,
		vms:          vms,
		scopePrefix:  cloud.DefaultScopePrefix,
		pollInterval: defaultPollInterval,
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// ResolveScope implements cloud.ResourceClient.
func (c *Client) ResolveScope(_ context.Context, location string) (cloud.Scope, error) {
	if c.resourceGroup != "" {
		return cloud.Scope(c.resourceGroup), nil
	}
	return cloud.ScopeForLocation(c.scopePrefix, location)
}

// ListGroups implements cloud.ResourceClient. A missing resource group has no groups.
func (c *Client) ListGroups(ctx context.Context, scope cloud.Scope) ([]cloud.RuleGroup, error) {
	groups := []cloud.RuleGroup{}
	pager := c.groups.NewListPager(string(scope), nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if IsNotFound(err) {
				return groups, nil
			}
			return nil, errors.Wrapf(err, "failed to list security groups in %s", scope)
		}
		for _, sg := range page.Value {
			group, err := toRuleGroup(sg)
			if err != nil {
				return nil, err
			}
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// GetGroup implements cloud.ResourceClient.
func (c *Client) GetGroup(ctx context.Context, scope cloud.Scope, name string) (*cloud.RuleGroup, error) {
	resp, err := c.groups.Get(ctx, string(scope), name, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to get security group %s in %s", name, scope)
	}
	group, err := toRuleGroup(&resp.SecurityGroup)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateOrUpdateGroup implements cloud.ResourceClient.
func (c *Client) CreateOrUpdateGroup(ctx context.Context, scope cloud.Scope, name, location string, properties cloud.RuleGroupProperties) (*cloud.RuleGroup, error) {
	if name == "" {
		return nil, errors.New("security group name is required")
	}
	poller, err := c.groups.BeginCreateOrUpdate(ctx, string(scope), name, toSecurityGroup(location, properties), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create security group %s in %s", name, scope)
	}
	resp, err := poller.PollUntilDone(ctx, c.pollOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create security group %s in %s", name, scope)
	}
	group, err := toRuleGroup(&resp.SecurityGroup)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup implements cloud.ResourceClient. The deletion is started but not
// awaited; use WaitUntilDeleted with the returned handle.
func (c *Client) DeleteGroup(ctx context.Context, scope cloud.Scope, name string) (*cloud.DeleteHandle, error) {
	group, err := c.GetGroup(ctx, scope, name)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, nil
	}
	if _, err := c.groups.BeginDelete(ctx, string(scope), name, nil); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to delete security group %s in %s", name, scope)
	}
	return &cloud.DeleteHandle{Scope: scope, Name: name}, nil
}

// ListRules implements cloud.ResourceClient.
func (c *Client) ListRules(ctx context.Context, scope cloud.Scope, group string) ([]cloud.Rule, error) {
	rules := []cloud.Rule{}
	pager := c.rules.NewListPager(string(scope), group, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list rules of security group %s in %s", group, scope)
		}
		for _, sr := range page.Value {
			rule, err := toRule(sr)
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// CreateOrUpdateRule implements cloud.ResourceClient.
func (c *Client) CreateOrUpdateRule(ctx context.Context, scope cloud.Scope, group, name string, properties cloud.RuleProperties) (*cloud.Rule, error) {
	poller, err := c.rules.BeginCreateOrUpdate(ctx, string(scope), group, name, toSecurityRule(name, properties), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create rule %s in security group %s", name, group)
	}
	resp, err := poller.PollUntilDone(ctx, c.pollOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create rule %s in security group %s", name, group)
	}
	rule, err := toRule(&resp.SecurityRule)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// DeleteRule implements cloud.ResourceClient. Azure identifies rules by name only.
func (c *Client) DeleteRule(ctx context.Context, scope cloud.Scope, group string, rule cloud.Rule) error {
	poller, err := c.rules.BeginDelete(ctx, string(scope), group, rule.Name, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to delete rule %s in security group %s", rule.Name, group)
	}
	if _, err := poller.PollUntilDone(ctx, c.pollOptions()); err != nil {
		return errors.Wrapf(err, "failed to delete rule %s in security group %s", rule.Name, group)
	}
	return nil
}

// WaitUntilAvailable implements cloud.ResourceClient. It fails fast when the
// group ends up in the Failed state.
func (c *Client) WaitUntilAvailable(ctx context.Context, scope cloud.Scope, group string) (bool, error) {
	err := wait.PollUntilContextCancel(ctx, c.pollInterval, true, func(ctx context.Context) (bool, error) {
		g, err := c.GetGroup(ctx, scope, group)
		if err != nil {
			return false, err
		}
		if g == nil {
			return false, errors.Errorf("security group %s not found in %s", group, scope)
		}
		switch g.ProvisioningState {
		case cloud.ProvisioningStateSucceeded:
			return true, nil
		case cloud.ProvisioningStateFailed:
			return false, errors.Errorf("security group %s in %s is in state %s", group, scope, g.ProvisioningState)
		default:
			return false, nil
		}
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
	err := wait.PollUntilContextCancel(ctx, c.pollInterval, true, func(ctx context.Context) (bool, error) {
		g, err := c.GetGroup(ctx, handle.Scope, handle.Name)
		if err != nil {
			return false, err
		}
		return g == nil, nil
	})
	if err != nil {
		if wait.Interrupted(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NodeSecurityGroups implements cloud.ResourceClient. The node is the name of a
// virtual machine; the groups are the ones attached to its network interfaces.
func (c *Client) NodeSecurityGroups(ctx context.Context, scope cloud.Scope, node string) ([]string, error) {
	vm, err := c.vms.Get(ctx, string(scope), node, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get virtual machine %s in %s", node, scope)
	}
	if vm.Properties == nil || vm.Properties.NetworkProfile == nil {
		return nil, nil
	}

	var groups []string
	for _, ref := range vm.Properties.NetworkProfile.NetworkInterfaces {
		if ref == nil || ref.ID == nil {
			continue
		}
		nicID, err := arm.ParseResourceID(*ref.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid network interface ID %q", *ref.ID)
		}
		nic, err := c.interfaces.Get(ctx, nicID.ResourceGroupName, nicID.Name, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get network interface %s", nicID.Name)
		}
		if nic.Properties == nil || nic.Properties.NetworkSecurityGroup == nil {
			continue
		}
		sgID, err := arm.ParseResourceID(ptr.Deref(nic.Properties.NetworkSecurityGroup.ID, ""))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid security group ID on network interface %s", nicID.Name)
		}
		groups = append(groups, sgID.Name)
	}
	return groups, nil
}

func (c *Client) pollOptions() *runtime.PollUntilDoneOptions {
	return &runtime.PollUntilDoneOptions{Frequency: max(c.pollInterval, minPollFrequency)}
}
