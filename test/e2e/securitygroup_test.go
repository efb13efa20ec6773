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
package e2e

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud/inmemory"
	"sigs.k8s.io/cluster-api-securitygroups/pkg/securitygroup"
)

var _ = Describe("Security group lifecycle", func() {
	var (
		ext    *securitygroup.Extension
		client *inmemory.Client
		scope  cloud.Scope
	)

	BeforeEach(func() {
		ext, client = newExtension(2, 5*time.Second)
		scope = cloud.Scope(cloud.DefaultScopePrefix + "eastus")

		By("Creating the web security group")
		group, err := ext.CreateSecurityGroup(ctx, "web", "eastus")
		Expect(err).ToNot(HaveOccurred())
		Expect(group.ID).To(Equal("eastus/web"))
		Expect(group.IPPermissions).To(BeEmpty())
	})

	It("Should create one rule per CIDR block with increasing priorities", func() {
		permission := securitygroup.IPPermission{
			Protocol:   securitygroup.ProtocolTCP,
			FromPort:   22,
			ToPort:     22,
			CIDRBlocks: []string{"10.0.0.0/24", "10.1.0.0/24"},
		}
		group, err := ext.AddIPPermission(ctx, permission, "eastus/web")
		Expect(err).ToNot(HaveOccurred())
		Expect(group.IPPermissions).To(ConsistOf(permission))

		rules, err := client.ListRules(ctx, scope, "web")
		Expect(err).ToNot(HaveOccurred())
		Expect(rules).To(HaveLen(2))
		Expect(rules[0].Name).To(Equal("TCP-22-22"))
		Expect(rules[0].Properties.Priority()).To(Equal(securitygroup.BasePriority))
		Expect(rules[1].Properties.Priority()).To(Equal(securitygroup.BasePriority + 1))
		Expect(rules[1].Properties.SourceAddressPrefix()).To(Equal("10.1.0.0/24"))

		By("Adding a second permission after the existing rules")
		_, err = ext.AddIPPermission(ctx, securitygroup.IPPermission{
			Protocol:   securitygroup.ProtocolUDP,
			FromPort:   53,
			ToPort:     53,
			CIDRBlocks: []string{"0.0.0.0/0"},
		}, "eastus/web")
		Expect(err).ToNot(HaveOccurred())
		rules, err = client.ListRules(ctx, scope, "web")
		Expect(err).ToNot(HaveOccurred())
		Expect(rules).To(HaveLen(3))
		Expect(rules[2].Properties.Priority()).To(Equal(securitygroup.BasePriority + 2))
	})

	It("Should remove only the rules matching the permission", func() {
		_, err := ext.AddIPPermission(ctx, securitygroup.IPPermission{
			Protocol:   securitygroup.ProtocolTCP,
			FromPort:   443,
			ToPort:     443,
			CIDRBlocks: []string{"10.0.0.0/24", "10.1.0.0/24"},
		}, "eastus/web")
		Expect(err).ToNot(HaveOccurred())

		group, err := ext.RemoveIPPermission(ctx, securitygroup.IPPermission{
			Protocol:   securitygroup.ProtocolTCP,
			FromPort:   443,
			ToPort:     443,
			CIDRBlocks: []string{"10.0.0.0/24"},
		}, "eastus/web")
		Expect(err).ToNot(HaveOccurred())
		Expect(group.IPPermissions).To(HaveLen(1))
		Expect(group.IPPermissions[0].CIDRBlocks).To(Equal([]string{"10.1.0.0/24"}))

		By("Ignoring a permission with a different port range")
		group, err = ext.RemoveIPPermission(ctx, securitygroup.IPPermission{
			Protocol:   securitygroup.ProtocolTCP,
			FromPort:   80,
			ToPort:     443,
			CIDRBlocks: []string{"10.1.0.0/24"},
		}, "eastus/web")
		Expect(err).ToNot(HaveOccurred())
		Expect(group.IPPermissions).To(HaveLen(1))
	})

	It("Should list the group in its location only", func() {
		_, err := ext.CreateSecurityGroup(ctx, "db", "westeurope")
		Expect(err).ToNot(HaveOccurred())

		groups, err := ext.ListSecurityGroups(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(groups).To(HaveLen(2))
		Expect(groups[0].ID).To(Equal("eastus/web"))
		Expect(groups[1].ID).To(Equal("westeurope/db"))

		groups, err = ext.ListSecurityGroupsInLocation(ctx, "westeurope")
		Expect(err).ToNot(HaveOccurred())
		Expect(groups).To(HaveLen(1))
		Expect(groups[0].Name).To(Equal("db"))
	})

	It("Should list the groups attached to a node", func() {
		client.AttachNode(scope, "worker-0", "web")

		groups, err := ext.ListSecurityGroupsForNode(ctx, "eastus/worker-0")
		Expect(err).ToNot(HaveOccurred())
		Expect(groups).To(HaveLen(1))
		Expect(groups[0].ID).To(Equal("eastus/web"))
	})

	It("Should delete the group once", func() {
		deleted, err := ext.RemoveSecurityGroup(ctx, "eastus/web")
		Expect(err).ToNot(HaveOccurred())
		Expect(deleted).To(BeTrue())

		_, err = ext.GetSecurityGroupByID(ctx, "eastus/web")
		Expect(securitygroup.IsGroupNotFound(err)).To(BeTrue())

		deleted, err = ext.RemoveSecurityGroup(ctx, "eastus/web")
		Expect(err).ToNot(HaveOccurred())
		Expect(deleted).To(BeFalse())
	})

	It("Should reject an unsupported protocol before calling the cloud", func() {
		calls := client.Calls()
		_, err := ext.AddIPPermission(ctx, securitygroup.IPPermission{
			Protocol:   securitygroup.Protocol("sctp"),
			FromPort:   1,
			ToPort:     1,
			CIDRBlocks: []string{"10.0.0.0/24"},
		}, "eastus/web")
		Expect(securitygroup.IsUnsupportedProtocol(err)).To(BeTrue())
		Expect(client.Calls()).To(Equal(calls))
	})
})

var _ = Describe("Security group convergence", func() {
	It("Should keep the applied rule and report a timeout when the group does not converge", func() {
		ext, client := newExtension(0, 50*time.Millisecond)
		scope := cloud.Scope(cloud.DefaultScopePrefix + "eastus")

		_, err := ext.CreateSecurityGroup(ctx, "web", "eastus")
		Expect(err).ToNot(HaveOccurred())
		Expect(client.SetStuck(scope, "web", true)).To(Succeed())

		_, err = ext.AddIPPermission(ctx, securitygroup.IPPermission{
			Protocol:   securitygroup.ProtocolTCP,
			FromPort:   22,
			ToPort:     22,
			CIDRBlocks: []string{"10.0.0.0/24", "10.1.0.0/24"},
		}, "eastus/web")
		Expect(securitygroup.IsConvergenceTimeout(err)).To(BeTrue())

		By("Checking that only the first rule was applied")
		rules, err := client.ListRules(ctx, scope, "web")
		Expect(err).ToNot(HaveOccurred())
		Expect(rules).To(HaveLen(1))
		Expect(rules[0].Properties.SourceAddressPrefix()).To(Equal("10.0.0.0/24"))
	})
})
