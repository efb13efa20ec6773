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
	"github.com/pkg/errors"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
)

// BasePriority is assigned to the first rule of an empty group.
const BasePriority = cloud.MinPriority

// NextPriority returns the priority for a new rule: BasePriority if rules is
// empty, one more than the highest priority in rules otherwise.
func NextPriority(rules []cloud.Rule) int32 {
	if len(rules) == 0 {
		return BasePriority
	}
	highest := rules[0].Properties.Priority()
	for _, r := range rules[1:] {
		if p := r.Properties.Priority(); p > highest {
			highest = p
		}
	}
	return highest + 1
}

// PlanRules returns the rules to create for permission, one per CIDR block in
// order. Priorities start at NextPriority(existing) and are incremented locally
// for every planned rule.
func PlanRules(permission IPPermission, existing []cloud.Rule) ([]cloud.Rule, error) {
	protocol, err := permission.Protocol.RuleProtocol()
	if err != nil {
		return nil, err
	}

	name := permission.RuleName()
	priority := NextPriority(existing)
	planned := make([]cloud.Rule, 0, len(permission.CIDRBlocks))
	for _, cidr := range permission.CIDRBlocks {
		properties, err := cloud.NewRuleProperties(cloud.RulePropertiesSpec{
			Protocol:                 protocol,
			Direction:                cloud.RuleDirectionInbound,
			Access:                   cloud.RuleAccessAllow,
			Priority:                 priority,
			SourceAddressPrefix:      cidr,
			SourcePortRange:          cloud.AnyAddress,
			DestinationAddressPrefix: cloud.AnyAddress,
			DestinationPortRange:     permission.PortRange(),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to plan rule %s for %s", name, cidr)
		}
		planned = append(planned, cloud.Rule{Name: name, Properties: properties})
		priority++
	}
	return planned, nil
}
