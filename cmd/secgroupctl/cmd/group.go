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
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/securitygroup"
)

type getOptions struct {
	output string
}

type createOptions struct {
	location string
	output   string
}

var (
	gto = &getOptions{}
	cro = &createOptions{}
)

var getCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Get a security group by ID",
	Example: Examples(`
		secgroupctl get eastus/web -o json`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ext, err := newExtension()
		if err != nil {
			return err
		}
		return runGet(cmd.Context(), cmd.OutOrStdout(), ext, args[0], gto)
	},
}

var createCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create an empty security group",
	Example: Examples(`
		secgroupctl create web --location eastus`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ext, err := newExtension()
		if err != nil {
			return err
		}
		return runCreate(cmd.Context(), cmd.OutOrStdout(), ext, args[0], cro)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a security group and wait for the deletion to complete",
	Example: Examples(`
		secgroupctl delete eastus/web`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ext, err := newExtension()
		if err != nil {
			return err
		}
		return runDelete(cmd.Context(), cmd.OutOrStdout(), ext, args[0])
	},
}

func init() {
	addOutputFlag(getCmd, &gto.output)

	createCmd.Flags().StringVar(&cro.location, "location", "", "Location of the security group")
	_ = createCmd.MarkFlagRequired("location")
	addOutputFlag(createCmd, &cro.output)

	RootCmd.AddCommand(getCmd, createCmd, deleteCmd)
}

func runGet(ctx context.Context, out io.Writer, ext *securitygroup.Extension, id string, o *getOptions) error {
	group, err := ext.GetSecurityGroupByID(ctx, id)
	if err != nil {
		return err
	}
	return printSecurityGroup(out, o.output, group)
}

func runCreate(ctx context.Context, out io.Writer, ext *securitygroup.Extension, name string, o *createOptions) error {
	group, err := ext.CreateSecurityGroup(ctx, name, o.location)
	if err != nil {
		return err
	}
	return printSecurityGroup(out, o.output, group)
}

func runDelete(ctx context.Context, out io.Writer, ext *securitygroup.Extension, id string) error {
	deleted, err := ext.RemoveSecurityGroup(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.Errorf("security group %s was not deleted", id)
	}
	_, err = fmt.Fprintf(out, "Security group %s deleted\n", id)
	return err
}
