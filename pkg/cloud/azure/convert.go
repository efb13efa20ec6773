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

package azure

import (
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/pkg/errors"
	"k8s.io/utils/ptr"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
)

// toRule converts an Azure security rule. Plural address prefixes and port
// ranges are joined with commas when the singular field is not set.
func toRule(sr *armnetwork.SecurityRule) (cloud.Rule, error) {
	if sr == nil || sr.Properties == nil {
		return cloud.Rule{}, errors.New("security rule has no properties")
	}
	name := ptr.Deref(sr.Name, "")
	p := sr.Properties
	properties, err := cloud.NewRuleProperties(cloud.RulePropertiesSpec{
		Protocol:                 cloud.RuleProtocol(ptr.Deref(p.Protocol, "")),
		Direction:                cloud.RuleDirection(ptr.Deref(p.Direction, "")),
		Access:                   cloud.RuleAccess(ptr.Deref(p.Access, "")),
		Priority:                 ptr.Deref(p.Priority, 0),
		SourceAddressPrefix:      singleOrJoined(p.SourceAddressPrefix, p.SourceAddressPrefixes),
		SourcePortRange:          singleOrJoined(p.SourcePortRange, p.SourcePortRanges),
		DestinationAddressPrefix: singleOrJoined(p.DestinationAddressPrefix, p.DestinationAddressPrefixes),
		DestinationPortRange:     singleOrJoined(p.DestinationPortRange, p.DestinationPortRanges),
		Description:              ptr.Deref(p.Description, ""),
	})
	if err != nil {
		return cloud.Rule{}, errors.Wrapf(err, "failed to convert security rule %s", name)
	}
	return cloud.Rule{Name: name, Properties: properties}, nil
}

func toSecurityRule(name string, properties cloud.RuleProperties) armnetwork.SecurityRule {
	sr := armnetwork.SecurityRule{
		Name: ptr.To(name),
		Properties: &armnetwork.SecurityRulePropertiesFormat{
			Protocol:                 ptr.To(armnetwork.SecurityRuleProtocol(properties.Protocol())),
			Direction:                ptr.To(armnetwork.SecurityRuleDirection(properties.Direction())),
			Access:                   ptr.To(armnetwork.SecurityRuleAccess(properties.Access())),
			Priority:                 ptr.To(properties.Priority()),
			SourceAddressPrefix:      ptr.To(properties.SourceAddressPrefix()),
			SourcePortRange:          ptr.To(properties.SourcePortRange()),
			DestinationAddressPrefix: ptr.To(properties.DestinationAddressPrefix()),
			DestinationPortRange:     ptr.To(properties.DestinationPortRange()),
		},
	}
	if d := properties.Description(); d != "" {
		sr.Properties.Description = ptr.To(d)
	}
	return sr
}

func toRuleGroup(sg *armnetwork.SecurityGroup) (cloud.RuleGroup, error) {
	if sg == nil {
		return cloud.RuleGroup{}, errors.New("security group is nil")
	}
	name := ptr.Deref(sg.Name, "")
	location := ptr.Deref(sg.Location, "")
	group := cloud.RuleGroup{
		ID:         cloud.RegionAndID{Region: location, ID: name}.String(),
		Name:       name,
		Location:   location,
		ProviderID: ptr.Deref(sg.ID, ""),
	}
	if sg.Properties == nil {
		return group, nil
	}
	if sg.Properties.ProvisioningState != nil {
		group.ProvisioningState = cloud.ProvisioningState(*sg.Properties.ProvisioningState)
	}
	for _, sr := range sg.Properties.SecurityRules {
		rule, err := toRule(sr)
		if err != nil {
			return cloud.RuleGroup{}, errors.Wrapf(err, "failed to convert security group %s", name)
		}
		group.Rules = append(group.Rules, rule)
	}
	return group, nil
}

func toSecurityGroup(location string, properties cloud.RuleGroupProperties) armnetwork.SecurityGroup {
	sg := armnetwork.SecurityGroup{
		Location:   ptr.To(location),
		Properties: &armnetwork.SecurityGroupPropertiesFormat{},
	}
	for _, r := range properties.Rules {
		sr := toSecurityRule(r.Name, r.Properties)
		sg.Properties.SecurityRules = append(sg.Properties.SecurityRules, &sr)
	}
	if len(properties.Tags) > 0 {
		sg.Tags = map[string]*string{}
		for k, v := range properties.Tags {
			sg.Tags[k] = ptr.To(v)
		}
	}
	return sg
}

func singleOrJoined(single *string, plural []*string) string {
	if s := ptr.Deref(single, ""); s != "" {
		return s
	}
	values := make([]string, 0, len(plural))
	for _, p := range plural {
		if p != nil && *p != "" {
			values = append(values, *p)
		}
	}
	return strings.Join(values, ",")
}
