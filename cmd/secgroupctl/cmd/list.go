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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/securitygroup"
)

type listOptions struct {
	location string
	node     string
	output   string
}

var lo = &listOptions{}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List security groups",
	Long: LongDesc(`
		List the security groups of every configured location, of a single location,
		or the ones attached to the network interfaces of a node.`),
	Example: Examples(`
		# List the security groups of all the locations in the config file.
		secgroupctl list

		# List the security groups in a location.
		secgroupctl list --location eastus

		# List the security groups attached to a virtual machine.
		secgroupctl list --node eastus/worker-0 -o yaml`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ext, err := newExtension()
		if err != nil {
			return err
		}
		return runList(cmd.Context(), cmd.OutOrStdout(), ext, lo)
	},
}

func init() {
	listCmd.Flags().StringVar(&lo.location, "location", "", "Only list the security groups in this location")
	listCmd.Flags().StringVar(&lo.node, "node", "", "Only list the security groups attached to this node, as location/name")
	addOutputFlag(listCmd, &lo.output)

	RootCmd.AddCommand(listCmd)
}

func runList(ctx context.Context, out io.Writer, ext *securitygroup.Extension, o *listOptions) error {
	var groups []securitygroup.SecurityGroup
	var err error
	switch {
	case o.location != "" && o.node != "":
		return errors.New("--location and --node are mutually exclusive")
	case o.node != "":
		groups, err = ext.ListSecurityGroupsForNode(ctx, o.node)
	case o.location != "":
		groups, err = ext.ListSecurityGroupsInLocation(ctx, o.location)
	default:
		groups, err = ext.ListSecurityGroups(ctx)
	}
	if err != nil {
		return err
	}
	return printSecurityGroups(out, o.output, groups)
}
