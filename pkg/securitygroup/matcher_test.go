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
	"testing"

	. "github.com/onsi/gomega"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
)

func TestMatches(t *testing.T) {
	permission := IPPermission{
		Protocol:   ProtocolTCP,
		FromPort:   22,
		ToPort:     22,
		CIDRBlocks: []string{"10.0.0.0/24", "0.0.0.0/0"},
	}

	tests := []struct {
		name string
		opts []ruleOption
		want bool
	}{
		{
			name: "all conditions hold",
			want: true,
		},
		{
			name: "wrong port range",
			opts: []ruleOption{func(s *cloud.RulePropertiesSpec) { s.DestinationPortRange = "22-23" }},
		},
		{
			name: "single port is not the same range",
			opts: []ruleOption{func(s *cloud.RulePropertiesSpec) { s.DestinationPortRange = "22" }},
		},
		{
			name: "wrong protocol",
			opts: []ruleOption{func(s *cloud.RulePropertiesSpec) { s.Protocol = cloud.RuleProtocolUDP }},
		},
		{
			name: "wrong direction",
			opts: []ruleOption{func(s *cloud.RulePropertiesSpec) { s.Direction = cloud.RuleDirectionOutbound }},
		},
		{
			name: "wrong access",
			opts: []ruleOption{func(s *cloud.RulePropertiesSpec) { s.Access = cloud.RuleAccessDeny }},
		},
		{
			name: "source not requested",
			opts: []ruleOption{func(s *cloud.RulePropertiesSpec) { s.SourceAddressPrefix = "192.168.0.0/16" }},
		},
		{
			name: "wildcard source matches 0.0.0.0/0",
			opts: []ruleOption{func(s *cloud.RulePropertiesSpec) { s.SourceAddressPrefix = "*" }},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			got, err := Matches(newRule(g, "TCP-22-22", 100, tt.opts...), permission)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(got).To(Equal(tt.want))
		})
	}
}

func TestMatchesWildcardIsOneDirectional(t *testing.T) {
	g := NewWithT(t)

	anySource := newRule(g, "TCP-22-22", 100, func(s *cloud.RulePropertiesSpec) { s.SourceAddressPrefix = "*" })
	specific := IPPermission{Protocol: ProtocolTCP, FromPort: 22, ToPort: 22, CIDRBlocks: []string{"10.0.0.0/24"}}

	got, err := Matches(anySource, specific)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got).To(BeFalse())

	anyRequest := IPPermission{Protocol: ProtocolTCP, FromPort: 22, ToPort: 22, CIDRBlocks: []string{"0.0.0.0/0"}}
	got, err = Matches(anySource, anyRequest)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got).To(BeTrue())
}

func TestMatchesProtocolMapping(t *testing.T) {
	tests := []struct {
		protocol Protocol
		rule     cloud.RuleProtocol
	}{
		{protocol: ProtocolTCP, rule: cloud.RuleProtocolTCP},
		{protocol: ProtocolUDP, rule: cloud.RuleProtocolUDP},
		{protocol: ProtocolICMP, rule: cloud.RuleProtocolICMP},
		{protocol: ProtocolAll, rule: cloud.RuleProtocolAny},
	}
	for _, tt := range tests {
		t.Run(string(tt.protocol), func(t *testing.T) {
			g := NewWithT(t)

			r := newRule(g, "r", 100, func(s *cloud.RulePropertiesSpec) { s.Protocol = tt.rule })
			got, err := Matches(r, IPPermission{Protocol: tt.protocol, FromPort: 22, ToPort: 22, CIDRBlocks: []string{"10.0.0.0/24"}})
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(got).To(BeTrue())
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		g := NewWithT(t)

		_, err := Matches(newRule(g, "r", 100), IPPermission{Protocol: "GRE", FromPort: 22, ToPort: 22})
		g.Expect(err).To(HaveOccurred())
		g.Expect(IsUnsupportedProtocol(err)).To(BeTrue())
	})
}

func TestMatchingRules(t *testing.T) {
	g := NewWithT(t)

	allow := newRule(g, "TCP-22-22", 100)
	deny := newRule(g, "deny-ssh", 101, func(s *cloud.RulePropertiesSpec) { s.Access = cloud.RuleAccessDeny })
	other := newRule(g, "TCP-22-22", 102, func(s *cloud.RulePropertiesSpec) { s.SourceAddressPrefix = "10.1.0.0/24" })
	allowAgain := newRule(g, "TCP-22-22", 103)

	got, err := MatchingRules([]cloud.Rule{allow, deny, other, allowAgain},
		IPPermission{Protocol: ProtocolTCP, FromPort: 22, ToPort: 22, CIDRBlocks: []string{"10.0.0.0/24"}})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got).To(Equal([]cloud.Rule{allow, allowAgain}))

	got, err = MatchingRules(nil, IPPermission{Protocol: ProtocolTCP, FromPort: 22, ToPort: 22})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got).To(BeEmpty())
}
