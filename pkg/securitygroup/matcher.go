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
	"k8s.io/apimachinery/pkg/util/sets"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
)

// normalizePrefix turns the provider wildcard into the equivalent CIDR.
func normalizePrefix(prefix string) string {
	if prefix == cloud.AnyAddress {
		return cloud.AnyIPv4CIDR
	}
	return prefix
}

// ruleMatcher returns a predicate selecting the inbound allow rules created for permission.
func ruleMatcher(permission IPPermission) (func(cloud.Rule) bool, error) {
	protocol, err := permission.Protocol.RuleProtocol()
	if err != nil {
		return nil, err
	}
	portRange := permission.PortRange()
	sources := sets.New[string]()
	for _, cidr := range permission.CIDRBlocks {
		sources.Insert(normalizePrefix(cidr))
	}

	return func(rule cloud.Rule) bool {
		p := rule.Properties
		return p.DestinationPortRange() == portRange &&
			p.Protocol() == protocol &&
			p.Direction() == cloud.RuleDirectionInbound &&
			p.Access() == cloud.RuleAccessAllow &&
			sources.Has(normalizePrefix(p.SourceAddressPrefix()))
	}, nil
}

// Matches reports whether rule is one of the rules backing permission.
func Matches(rule cloud.Rule, permission IPPermission) (bool, error) {
	match, err := ruleMatcher(permission)
	if err != nil {
		return false, err
	}
	return match(rule), nil
}

// MatchingRules returns the rules backing permission, preserving their order.
func MatchingRules(rules []cloud.Rule, permission IPPermission) ([]cloud.Rule, error) {
	match, err := ruleMatcher(permission)
	if err != nil {
		return nil, err
	}
	matching := []cloud.Rule{}
	for _, r := range rules {
		if match(r) {
			matching = append(matching, r)
		}
	}
	return matching, nil
}
