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
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloudcontrol"
)

type disksOptions struct {
	output string
}

var dko = &disksOptions{}

var disksCmd = &cobra.Command{
	Use:   "disks FILE",
	Short: "Validate and print cloud control disk documents",
	Long: LongDesc(`
		Read a JSON or YAML document holding one disk or a list of disks, as returned by
		the cloud control API, validate it and print it. Use - to read from stdin.`),
	Example: Examples(`
		secgroupctl disks server-disks.json -o yaml`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "failed to open %s", args[0])
			}
			defer f.Close()
			in = f
		}
		return runDisks(in, cmd.OutOrStdout(), dko)
	},
}

func init() {
	addOutputFlag(disksCmd, &dko.output)

	RootCmd.AddCommand(disksCmd)
}

func runDisks(in io.Reader, out io.Writer, o *disksOptions) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "failed to read disk document")
	}
	disks, err := cloudcontrol.ParseDisks(data)
	if err != nil {
		return err
	}
	return printDisks(out, o.output, disks)
}
