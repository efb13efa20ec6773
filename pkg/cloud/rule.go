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
	"fmt"

	"github.com/pkg/errors"
)

const (
	// AnyAddress is the provider wildcard for an address prefix or a port range.
	AnyAddress = "*"

	// AnyIPv4CIDR is the CIDR equivalent of AnyAddress.
	AnyIPv4CIDR = "0.0.0.0/0"

	// MinPriority is the lowest priority value a custom rule can be assigned.
	MinPriority int32 = 100

	// MaxPriority is the highest priority value a custom rule can be assigned.
	MaxPriority int32 = 4096
)

// RuleProtocol is the network protocol a rule applies to, as understood by the provider.
type RuleProtocol string

const (
	RuleProtocolTCP  RuleProtocol = "Tcp"
	RuleProtocolUDP  RuleProtocol = "Udp"
	RuleProtocolICMP RuleProtocol = "Icmp"
	RuleProtocolESP  RuleProtocol = "Esp"
	RuleProtocolAH   RuleProtocol = "Ah"
	RuleProtocolAny  RuleProtocol = "*"
)

// RuleDirection is the direction of the traffic a rule is evaluated against.
type RuleDirection string

const (
	RuleDirectionInbound  RuleDirection = "Inbound"
	RuleDirectionOutbound RuleDirection = "Outbound"
)

// RuleAccess defines whether matching traffic is allowed or denied.
type RuleAccess string

const (
	RuleAccessAllow RuleAccess = "Allow"
	RuleAccessDeny  RuleAccess = "Deny"
)

// RulePropertiesSpec carries the inputs for NewRuleProperties.
// Protocol, Direction, Access and Priority are required; empty prefixes and
// port ranges default to AnyAddress.
type RulePropertiesSpec struct {
	Protocol                 RuleProtocol
	Direction                RuleDirection
	Access                   RuleAccess
	Priority                 int32
	SourceAddressPrefix      string
	SourcePortRange          string
	DestinationAddressPrefix string
	DestinationPortRange     string
	Description              string
}

// RuleProperties are the provider settings of a security rule.
// Values are built with NewRuleProperties and never mutated afterwards.
type RuleProperties struct {
	protocol                 RuleProtocol
	direction                RuleDirection
	access                   RuleAccess
	priority                 int32
	sourceAddressPrefix      string
	sourcePortRange          string
	destinationAddressPrefix string
	destinationPortRange     string
	description              string
}

// NewRuleProperties validates spec and returns the corresponding RuleProperties.
func NewRuleProperties(spec RulePropertiesSpec) (RuleProperties, error) {
	switch spec.Protocol {
	case RuleProtocolTCP, RuleProtocolUDP, RuleProtocolICMP, RuleProtocolESP, RuleProtocolAH, RuleProtocolAny:
	case "":
		return RuleProperties{}, errors.New("rule protocol is required")
	default:
		return RuleProperties{}, errors.Errorf("invalid rule protocol %q", spec.Protocol)
	}
	switch spec.Direction {
	case RuleDirectionInbound, RuleDirectionOutbound:
	case "":
		return RuleProperties{}, errors.New("rule direction is required")
	default:
		return RuleProperties{}, errors.Errorf("invalid rule direction %q", spec.Direction)
	}
	switch spec.Access {
	case RuleAccessAllow, RuleAccessDeny:
	case "":
		return RuleProperties{}, errors.New("rule access is required")
	default:
		return RuleProperties{}, errors.Errorf("invalid rule access %q", spec.Access)
	}
	if spec.Priority == 0 {
		return RuleProperties{}, errors.New("rule priority is required")
	}
	if spec.Priority < MinPriority || spec.Priority > MaxPriority {
		return RuleProperties{}, errors.Errorf("rule priority %d is outside of the allowed range [%d, %d]", spec.Priority, MinPriority, MaxPriority)
	}

	return RuleProperties{
		protocol:                 spec.Protocol,
		direction:                spec.Direction,
		access:                   spec.Access,
		priority:                 spec.Priority,
		sourceAddressPrefix:      orAny(spec.SourceAddressPrefix),
		sourcePortRange:          orAny(spec.SourcePortRange),
		destinationAddressPrefix: orAny(spec.DestinationAddressPrefix),
		destinationPortRange:     orAny(spec.DestinationPortRange),
		description:              spec.Description,
	}, nil
}

// Spec returns the inputs that would rebuild p.
func (p RuleProperties) Spec() RulePropertiesSpec {
	return RulePropertiesSpec{
		Protocol:                 p.protocol,
		Direction:                p.direction,
		Access:                   p.access,
		Priority:                 p.priority,
		SourceAddressPrefix:      p.sourceAddressPrefix,
		SourcePortRange:          p.sourcePortRange,
		DestinationAddressPrefix: p.destinationAddressPrefix,
		DestinationPortRange:     p.destinationPortRange,
		Description:              p.description,
	}
}

func (p RuleProperties) Protocol() RuleProtocol           { return p.protocol }
func (p RuleProperties) Direction() RuleDirection         { return p.direction }
func (p RuleProperties) Access() RuleAccess               { return p.access }
func (p RuleProperties) Priority() int32                  { return p.priority }
func (p RuleProperties) SourceAddressPrefix() string      { return p.sourceAddressPrefix }
func (p RuleProperties) SourcePortRange() string          { return p.sourcePortRange }
func (p RuleProperties) DestinationAddressPrefix() string { return p.destinationAddressPrefix }
func (p RuleProperties) DestinationPortRange() string     { return p.destinationPortRange }
func (p RuleProperties) Description() string              { return p.description }

// Rule is a single entry of a RuleGroup.
type Rule struct {
	Name       string
	Properties RuleProperties
}

func (r Rule) String() string {
	p := r.Properties
	return fmt.Sprintf("%s[%s %s %s %s->%s:%s prio=%d]", r.Name, p.direction, p.access, p.protocol,
		p.sourceAddressPrefix, p.destinationAddressPrefix, p.destinationPortRange, p.priority)
}

func orAny(s string) string {
	if s == "" {
		return AnyAddress
	}
	return s
}
