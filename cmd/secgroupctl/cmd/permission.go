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

package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/securitygroup"
)

type permissionOptions struct {
	protocol       string
	fromPort       int
	toPort         int
	cidrs          []string
	tenantGroups   []string
	groupIDs       []string
	exclusionCIDRs []string
	output         string
}

var (
	apo = &permissionOptions{}
	rpo = &permissionOptions{}
)

var addPermissionCmd = &cobra.Command{
	Use:   "add-permission GROUP_ID",
	Short: "Allow inbound traffic into a security group",
	Long: LongDesc(`
		Allow inbound traffic into a security group by creating one rule per source CIDR.
		Each rule gets the next free priority; adding the same permission twice creates
		a second set of rules.`),
	Example: Examples(`
		# Allow SSH from two networks.
		secgroupctl add-permission eastus/web --protocol tcp --from-port 22 --to-port 22 --cidr 10.0.0.0/24 --cidr 10.1.0.0/24`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ext, err := newExtension()
		if err != nil {
			return err
		}
		return runAddPermission(cmd.Context(), cmd.OutOrStdout(), ext, args[0], apo)
	},
}

var removePermissionCmd = &cobra.Command{
	Use:   "remove-permission GROUP_ID",
	Short: "Remove the rules backing an inbound permission",
	Long: LongDesc(`
		Remove the inbound allow rules whose protocol, port range and source match the permission.
		A source of * in an existing rule matches 0.0.0.0/0.`),
	Example: Examples(`
		secgroupctl remove-permission eastus/web --protocol tcp --from-port 22 --to-port 22 --cidr 0.0.0.0/0`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ext, err := newExtension()
		if err != nil {
			return err
		}
		return runRemovePermission(cmd.Context(), cmd.OutOrStdout(), ext, args[0], rpo)
	},
}

func init() {
	for _, c := range []struct {
		cmd *cobra.Command
		o   *permissionOptions
	}{{addPermissionCmd, apo}, {removePermissionCmd, rpo}} {
		c.cmd.Flags().StringVar(&c.o.protocol, "protocol", "tcp", "Protocol of the permission: tcp, udp, icmp or all")
		c.cmd.Flags().IntVar(&c.o.fromPort, "from-port", 0, "First port of the permission")
		c.cmd.Flags().IntVar(&c.o.toPort, "to-port", 0, "Last port of the permission")
		c.cmd.Flags().StringSliceVar(&c.o.cidrs, "cidr", nil, "Source CIDR block; may be repeated")
		c.cmd.Flags().StringSliceVar(&c.o.tenantGroups, "tenant-group", nil, "Source tenant/group pair; not supported, ignored")
		c.cmd.Flags().StringSliceVar(&c.o.groupIDs, "group-id", nil, "Source security group ID; not supported, ignored")
		c.cmd.Flags().StringSliceVar(&c.o.exclusionCIDRs, "exclude-cidr", nil, "CIDR block to exclude; not supported, ignored")
		addOutputFlag(c.cmd, &c.o.output)
	}

	RootCmd.AddCommand(addPermissionCmd, removePermissionCmd)
}

func (o *permissionOptions) permission() (securitygroup.IPPermission, error) {
	p := securitygroup.IPPermission{
		Protocol:            securitygroup.ParseProtocol(o.protocol),
		FromPort:            o.fromPort,
		ToPort:              o.toPort,
		CIDRBlocks:          o.cidrs,
		GroupIDs:            o.groupIDs,
		ExclusionCIDRBlocks: o.exclusionCIDRs,
	}
	for _, pair := range o.tenantGroups {
		tenant, group, ok := strings.Cut(pair, "/")
		if !ok || tenant == "" || group == "" {
			return securitygroup.IPPermission{}, errors.Errorf("invalid tenant/group pair %q", pair)
		}
		if p.TenantIDGroupNamePairs == nil {
			p.TenantIDGroupNamePairs = map[string][]string{}
		}
		p.TenantIDGroupNamePairs[tenant] = append(p.TenantIDGroupNamePairs[tenant], group)
	}
	return p, nil
}

func runAddPermission(ctx context.Context, out io.Writer, ext *securitygroup.Extension, groupID string, o *permissionOptions) error {
	p, err := o.permission()
	if err != nil {
		return err
	}
	group, err := ext.AddIPPermission(ctx, p, groupID)
	if err != nil {
		return err
	}
	return printSecurityGroup(out, o.output, group)
}

func runRemovePermission(ctx context.Context, out io.Writer, ext *securitygroup.Extension, groupID string, o *permissionOptions) error {
	p, err := o.permission()
	if err != nil {
		return err
	}
	group, err := ext.RemoveIPPermission(ctx, p, groupID)
	if err != nil {
		return err
	}
	return printSecurityGroup(out, o.output, group)
}
