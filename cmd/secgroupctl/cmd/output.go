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
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloudcontrol"
	"sigs.k8s.io/cluster-api-securitygroups/pkg/securitygroup"
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
	outputJSON  = "json"
)

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", outputTable,
		fmt.Sprintf("Output format; available options are '%s', '%s' and '%s'", outputTable, outputYAML, outputJSON))
}

// printObject writes obj as yaml or json; ok is false for the table format.
func printObject(w io.Writer, format string, obj interface{}) (ok bool, err error) {
	switch format {
	case outputYAML:
		y, err := yaml.Marshal(obj)
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprint(w, string(y))
		return true, err
	case outputJSON:
		j, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprintln(w, string(j))
		return true, err
	case outputTable, "":
		return false, nil
	default:
		return true, errors.Errorf("invalid output format: %s", format)
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	return table
}

// printSecurityGroups writes one row per permission, or a single row for a
// group without permissions.
func printSecurityGroups(w io.Writer, format string, groups []securitygroup.SecurityGroup) error {
	if ok, err := printObject(w, format, groups); ok {
		return err
	}

	table := newTable(w, "ID", "NAME", "LOCATION", "PROTOCOL", "PORTS", "SOURCES")
	for _, g := range groups {
		if len(g.IPPermissions) == 0 {
			table.Append([]string{g.ID, g.Name, g.Location, "", "", ""})
			continue
		}
		for _, p := range g.IPPermissions {
			table.Append([]string{g.ID, g.Name, g.Location, string(p.Protocol), p.PortRange(), strings.Join(p.CIDRBlocks, ",")})
		}
	}
	table.Render()
	return nil
}

func printSecurityGroup(w io.Writer, format string, group *securitygroup.SecurityGroup) error {
	if ok, err := printObject(w, format, group); ok {
		return err
	}
	return printSecurityGroups(w, format, []securitygroup.SecurityGroup{*group})
}

func printCapabilities(w io.Writer, format string, c securitygroup.Capabilities) error {
	if ok, err := printObject(w, format, c); ok {
		return err
	}

	table := newTable(w, "CAPABILITY", "SUPPORTED")
	table.Append([]string{"TenantIDGroupNamePairs", supported(c.TenantIDGroupNamePairs)})
	table.Append([]string{"TenantIDGroupIDPairs", supported(c.TenantIDGroupIDPairs)})
	table.Append([]string{"GroupIDs", supported(c.GroupIDs)})
	table.Append([]string{"PortRangesForGroups", supported(c.PortRangesForGroups)})
	table.Append([]string{"ExclusionCIDRBlocks", supported(c.ExclusionCIDRBlocks)})
	table.Render()
	return nil
}

// supported colors the value when stdout is a terminal; color.NoColor is set otherwise.
func supported(v bool) string {
	if v {
		return green.Sprint(strconv.FormatBool(v))
	}
	return red.Sprint(strconv.FormatBool(v))
}

func printDisks(w io.Writer, format string, disks []cloudcontrol.Disk) error {
	if ok, err := printObject(w, format, disks); ok {
		return err
	}

	table := newTable(w, "ID", "SCSI ID", "SIZE (GB)", "SPEED", "STATE")
	for _, d := range disks {
		table.Append([]string{d.ID, optionalInt(d.SCSIID), optionalInt(d.SizeGB), d.Speed, string(d.State)})
	}
	table.Render()
	return nil
}

func optionalInt(v *int32) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(int(*v))
}
