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
	"github.com/spf13/cobra"
)

type capabilitiesOptions struct {
	output string
}

var cpo = &capabilitiesOptions{}

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Print the optional permission features supported by the provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ext, err := newExtension()
		if err != nil {
			return err
		}
		return printCapabilities(cmd.OutOrStdout(), cpo.output, ext.Capabilities())
	},
}

func init() {
	addOutputFlag(capabilitiesCmd, &cpo.output)

	RootCmd.AddCommand(capabilitiesCmd)
}
