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
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	. "github.com/onsi/gomega"
	"k8s.io/utils/ptr"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
)

func TestToRuleJoinsPluralFields(t *testing.T) {
	g := NewWithT(t)

	rule, err := toRule(&armnetwork.SecurityRule{
		Name: ptr.To("ipsec"),
		Properties: &armnetwork.SecurityRulePropertiesFormat{
			Protocol:              ptr.To(armnetwork.SecurityRuleProtocolEsp),
			Direction:             ptr.To(armnetwork.SecurityRuleDirectionInbound),
			Access:                ptr.To(armnetwork.SecurityRuleAccessDeny),
			Priority:              ptr.To(int32(4000)),
			SourceAddressPrefixes: []*string{ptr.To("10.0.0.0/24"), nil, ptr.To("10.1.0.0/24")},
			DestinationPortRanges: []*string{ptr.To("500"), ptr.To("4500")},
			Description:           ptr.To("vpn"),
		},
	})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(rule.Name).To(Equal("ipsec"))
	g.Expect(rule.Properties.Protocol()).To(Equal(cloud.RuleProtocolESP))
	g.Expect(rule.Properties.Access()).To(Equal(cloud.RuleAccessDeny))
	g.Expect(rule.Properties.SourceAddressPrefix()).To(Equal("10.0.0.0/24,10.1.0.0/24"))
	g.Expect(rule.Properties.SourcePortRange()).To(Equal("*"))
	g.Expect(rule.Properties.DestinationAddressPrefix()).To(Equal("*"))
	g.Expect(rule.Properties.DestinationPortRange()).To(Equal("500,4500"))
	g.Expect(rule.Properties.Description()).To(Equal("vpn"))
}

func TestToRuleRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		rule *armnetwork.SecurityRule
	}{
		{name: "nil rule"},
		{name: "no properties", rule: &armnetwork.SecurityRule{Name: ptr.To("r")}},
		{name: "no priority", rule: &armnetwork.SecurityRule{
			Name: ptr.To("r"),
			Properties: &armnetwork.SecurityRulePropertiesFormat{
				Protocol:  ptr.To(armnetwork.SecurityRuleProtocolTCP),
				Direction: ptr.To(armnetwork.SecurityRuleDirectionInbound),
				Access:    ptr.To(armnetwork.SecurityRuleAccessAllow),
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			_, err := toRule(tt.rule)
			g.Expect(err).To(HaveOccurred())
		})
	}
}

func TestToSecurityGroup(t *testing.T) {
	g := NewWithT(t)

	properties, err := cloud.NewRuleProperties(cloud.RulePropertiesSpec{
		Protocol:    cloud.RuleProtocolUDP,
		Direction:   cloud.RuleDirectionInbound,
		Access:      cloud.RuleAccessAllow,
		Priority:    100,
		Description: "dns",
	})
	g.Expect(err).ToNot(HaveOccurred())

	sg := toSecurityGroup("eastus", cloud.RuleGroupProperties{
		Rules: []cloud.Rule{{Name: "UDP-53-53", Properties: properties}},
		Tags:  map[string]string{"owner": "platform"},
	})
	g.Expect(*sg.Location).To(Equal("eastus"))
	g.Expect(sg.Tags).To(HaveKeyWithValue("owner", ptr.To("platform")))
	g.Expect(sg.Properties.SecurityRules).To(HaveLen(1))
	g.Expect(*sg.Properties.SecurityRules[0].Name).To(Equal("UDP-53-53"))
	g.Expect(*sg.Properties.SecurityRules[0].Properties.Protocol).To(Equal(armnetwork.SecurityRuleProtocolUDP))
	g.Expect(*sg.Properties.SecurityRules[0].Properties.Description).To(Equal("dns"))

	group, err := toRuleGroup(&armnetwork.SecurityGroup{
		Name:       ptr.To("web"),
		Location:   sg.Location,
		Properties: sg.Properties,
	})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(group.ID).To(Equal("eastus/web"))
	g.Expect(group.Rules).To(HaveLen(1))
	g.Expect(group.Rules[0].Properties).To(Equal(properties))
}
