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
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
)

const (
	// MinPort is the lowest port of a permission.
	MinPort = 0
	// MaxPort is the highest port of a permission.
	MaxPort = 65535
)

// Protocol is the provider neutral IP protocol of a permission.
type Protocol string

const (
	ProtocolTCP  Protocol = "TCP"
	ProtocolUDP  Protocol = "UDP"
	ProtocolICMP Protocol = "ICMP"
	ProtocolAll  Protocol = "ALL"
)

var ruleProtocols = map[Protocol]cloud.RuleProtocol{
	ProtocolTCP:  cloud.RuleProtocolTCP,
	ProtocolUDP:  cloud.RuleProtocolUDP,
	ProtocolICMP: cloud.RuleProtocolICMP,
	ProtocolAll:  cloud.RuleProtocolAny,
}

// ParseProtocol returns the Protocol named by s, ignoring case.
// Unknown names are returned as is, and fail when mapped to a rule protocol.
func ParseProtocol(s string) Protocol {
	return Protocol(strings.ToUpper(strings.TrimSpace(s)))
}

// RuleProtocol maps p to the provider protocol.
func (p Protocol) RuleProtocol() (cloud.RuleProtocol, error) {
	rp, ok := ruleProtocols[p]
	if !ok {
		return "", &UnsupportedProtocolError{Protocol: p}
	}
	return rp, nil
}

func protocolFromRule(rp cloud.RuleProtocol) (Protocol, bool) {
	for p, candidate := range ruleProtocols {
		if candidate == rp {
			return p, true
		}
	}
	return "", false
}

// IPPermission is the caller intent for a set of inbound rules.
type IPPermission struct {
	Protocol   Protocol `json:"protocol"`
	FromPort   int      `json:"fromPort"`
	ToPort     int      `json:"toPort"`
	CIDRBlocks []string `json:"cidrBlocks,omitempty"`

	// TenantIDGroupNamePairs, GroupIDs and ExclusionCIDRBlocks are not supported
	// by network security groups and are ignored.
	TenantIDGroupNamePairs map[string][]string `json:"tenantIdGroupNamePairs,omitempty"`
	GroupIDs               []string            `json:"groupIds,omitempty"`
	ExclusionCIDRBlocks    []string            `json:"exclusionCidrBlocks,omitempty"`
}

// PortRange returns the destination port range of the rules backing p.
func (p IPPermission) PortRange() string {
	return fmt.Sprintf("%d-%d", p.FromPort, p.ToPort)
}

// RuleName returns the name of the rules backing p, e.g. TCP-22-22.
func (p IPPermission) RuleName() string {
	return fmt.Sprintf("%s-%s", p.Protocol, p.PortRange())
}

func (p IPPermission) validatePorts() error {
	if p.FromPort < MinPort || p.ToPort > MaxPort || p.FromPort > p.ToPort {
		return errors.Errorf("invalid port range %d-%d", p.FromPort, p.ToPort)
	}
	return nil
}

// SecurityGroup is the provider neutral view of a rule group.
type SecurityGroup struct {
	// ID is the slash encoded location and name of the group.
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Location      string         `json:"location"`
	ProviderID    string         `json:"providerId,omitempty"`
	IPPermissions []IPPermission `json:"ipPermissions,omitempty"`
}

// Capabilities describes the optional permission features the provider supports.
type Capabilities struct {
	TenantIDGroupNamePairs bool `json:"tenantIdGroupNamePairs"`
	TenantIDGroupIDPairs   bool `json:"tenantIdGroupIdPairs"`
	GroupIDs               bool `json:"groupIds"`
	PortRangesForGroups    bool `json:"portRangesForGroups"`
	ExclusionCIDRBlocks    bool `json:"exclusionCidrBlocks"`
}
