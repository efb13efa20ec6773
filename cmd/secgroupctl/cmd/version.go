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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sigs.k8s.io/cluster-api-securitygroups/version"
)

// Version provides the version information of secgroupctl.
type Version struct {
	ClientVersion *version.Info `json:"secgroupctl"`
}

type versionOptions struct {
	output string
}

var vo = &versionOptions{}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print secgroupctl version.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runVersion(cmd.OutOrStdout(), vo)
	},
}

func init() {
	versionCmd.Flags().StringVarP(&vo.output, "output", "o", "", "Output format; available options are 'yaml', 'json' and 'short'")

	RootCmd.AddCommand(versionCmd)
}

func runVersion(out io.Writer, o *versionOptions) error {
	clientVersion := version.Get()
	v := Version{
		ClientVersion: &clientVersion,
	}

	if o.output == "short" {
		_, err := fmt.Fprintln(out, v.ClientVersion.String())
		return err
	}
	if ok, err := printObject(out, o.output, &v); ok {
		return err
	}
	_, err := fmt.Fprintf(out, "secgroupctl version: %#v\n", *v.ClientVersion)
	return err
}
