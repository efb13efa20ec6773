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
	"sort"
	"strconv"
	"strings"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
)

// ToSecurityGroup converts a provider group into its provider neutral view.
//
// Only inbound allow rules can be expressed as permissions. Rules sharing
// protocol and destination port range are merged into a single permission,
// ordered by the priority of the first rule of each permission. Rules with an
// unknown protocol or an unparsable port range are skipped.
func ToSecurityGroup(group cloud.RuleGroup) SecurityGroup {
	rules := append([]cloud.Rule(nil), group.Rules...)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Properties.Priority() < rules[j].Properties.Priority()
	})

	var permissions []IPPermission
	index := map[string]int{}
	for _, r := range rules {
		permission, ok := toIPPermission(r)
		if !ok {
			continue
		}
		key := permission.RuleName()
		i, seen := index[key]
		if !seen {
			index[key] = len(permissions)
			permissions = append(permissions, permission)
			continue
		}
		permissions[i].CIDRBlocks = appendUnique(permissions[i].CIDRBlocks, permission.CIDRBlocks...)
	}

	id := group.ID
	if id == "" {
		id = cloud.RegionAndID{Region: group.Location, ID: group.Name}.String()
	}
	return SecurityGroup{
		ID:            id,
		Name:          group.Name,
		Location:      group.Location,
		ProviderID:    group.ProviderID,
		IPPermissions: permissions,
	}
}

func toIPPermission(rule cloud.Rule) (IPPermission, bool) {
	p := rule.Properties
	if p.Direction() != cloud.RuleDirectionInbound || p.Access() != cloud.RuleAccessAllow {
		return IPPermission{}, false
	}
	protocol, ok := protocolFromRule(p.Protocol())
	if !ok {
		return IPPermission{}, false
	}
	from, to, ok := parsePortRange(p.DestinationPortRange())
	if !ok {
		return IPPermission{}, false
	}
	return IPPermission{
		Protocol:   protocol,
		FromPort:   from,
		ToPort:     to,
		CIDRBlocks: []string{normalizePrefix(p.SourceAddressPrefix())},
	}, true
}

// parsePortRange accepts "*", "<port>" and "<from>-<to>".
func parsePortRange(portRange string) (int, int, bool) {
	if portRange == cloud.AnyAddress {
		return MinPort, MaxPort, true
	}
	fromStr, toStr, isRange := strings.Cut(portRange, "-")
	if !isRange {
		toStr = fromStr
	}
	from, err := strconv.Atoi(fromStr)
	if err != nil {
		return 0, 0, false
	}
	to, err := strconv.Atoi(toStr)
	if err != nil {
		return 0, 0, false
	}
	return from, to, true
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}
