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

// Package cmd implements the secgroupctl commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	logf "sigs.k8s.io/cluster-api-securitygroups/pkg/log"
)

var (
	cfgFile   string
	verbosity = new(int)
)

// RootCmd is the secgroupctl root command.
var RootCmd = &cobra.Command{
	Use:          "secgroupctl",
	Short:        "secgroupctl manages network security groups and their rules",
	SilenceUsage: true,
	Long: LongDesc(`
		Manage network security groups: list, create and delete them, and add or remove
		inbound permissions, each translated into one rule per source CIDR with its own priority.

		The provider config value selects the cloud: azure (default) or inmemory. The inmemory
		provider starts empty on every invocation and forgets its groups when the command exits;
		it is meant for trying out flags and output formats within a single command.`),
	PersistentPreRun: func(*cobra.Command, []string) {
		logf.SetLogger(logf.NewLogger(logf.WithThreshold(verbosity)))
	},
}

// Execute runs the root command and exits with a non zero code on failure.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func init() {
	RootCmd.SetGlobalNormalizationFunc(wordSepNormalizeFunc)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Path to the secgroupctl config file (default is $XDG_CONFIG_HOME/cluster-api/secgroupctl.yaml or $HOME/.cluster-api/secgroupctl.yaml)")
	RootCmd.PersistentFlags().IntVarP(verbosity, "v", "v", 0,
		"Set the log level verbosity; 1 shows the planned rules and the ignored inputs.")
}

// wordSepNormalizeFunc accepts flag names written with underscores, e.g. --from_port.
func wordSepNormalizeFunc(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

const Indentation = `  `

// LongDesc normalizes a command's long description to follow the conventions.
func LongDesc(s string) string {
	if len(s) == 0 {
		return s
	}
	return normalizer{s}.heredoc().trim().string
}

// Examples normalizes a command's examples to follow the conventions.
func Examples(s string) string {
	if len(s) == 0 {
		return s
	}
	return normalizer{s}.trim().indent().string
}

type normalizer struct {
	string
}

func (s normalizer) heredoc() normalizer {
	s.string = heredoc.Doc(s.string)
	return s
}

func (s normalizer) trim() normalizer {
	s.string = strings.TrimSpace(s.string)
	return s
}

func (s normalizer) indent() normalizer {
	splitLines := strings.Split(s.string, "\n")
	indentedLines := make([]string, 0, len(splitLines))
	for _, line := range splitLines {
		trimmed := strings.TrimSpace(line)
		indented := Indentation + trimmed
		indentedLines = append(indentedLines, indented)
	}
	s.string = strings.Join(indentedLines, "\n")
	return s
}
