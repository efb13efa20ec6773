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

// Package cloudcontrol contains the domain values of the cloud control API.
package cloudcontrol

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"sigs.k8s.io/yaml"
)

// DiskState is the lifecycle state of a Disk.
type DiskState string

const (
	DiskStateNormal          DiskState = "NORMAL"
	DiskStatePendingAdd      DiskState = "PENDING_ADD"
	DiskStatePendingChange   DiskState = "PENDING_CHANGE"
	DiskStatePendingDelete   DiskState = "PENDING_DELETE"
	DiskStateFailedAdd       DiskState = "FAILED_ADD"
	DiskStateFailedChange    DiskState = "FAILED_CHANGE"
	DiskStateFailedDelete    DiskState = "FAILED_DELETE"
	DiskStateRequiresSupport DiskState = "REQUIRES_SUPPORT"
	DiskStateDeleted         DiskState = "DELETED"

	// DiskStateUnrecognized replaces any state this package does not know about.
	DiskStateUnrecognized DiskState = "UNRECOGNIZED"
)

var knownDiskStates = sets.New[DiskState](
	DiskStateNormal,
	DiskStatePendingAdd,
	DiskStatePendingChange,
	DiskStatePendingDelete,
	DiskStateFailedAdd,
	DiskStateFailedChange,
	DiskStateFailedDelete,
	DiskStateRequiresSupport,
	DiskStateDeleted,
)

// UnmarshalJSON implements json.Unmarshaler.
func (s *DiskState) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return errors.Wrap(err, "disk state must be a string")
	}
	*s = ParseDiskState(value)
	return nil
}

// ParseDiskState returns the state named by value. Unknown values map to
// DiskStateUnrecognized, the empty string stays empty.
func ParseDiskState(value string) DiskState {
	if value == "" {
		return ""
	}
	state := DiskState(value)
	if !knownDiskStates.Has(state) {
		return DiskStateUnrecognized
	}
	return state
}

// Disk is a disk attached to a server. Speed is the only required field.
type Disk struct {
	ID     string    `json:"id,omitempty"`
	SCSIID *int32    `json:"scsiId,omitempty"`
	SizeGB *int32    `json:"sizeGb,omitempty"`
	Speed  string    `json:"speed"`
	State  DiskState `json:"state,omitempty"`
}

// NewDisk returns a validated Disk.
func NewDisk(id string, scsiID, sizeGB *int32, speed string, state DiskState) (Disk, error) {
	d := Disk{
		ID:     id,
		SCSIID: scsiID,
		SizeGB: sizeGB,
		Speed:  speed,
		State:  state,
	}
	if err := d.Validate(); err != nil {
		return Disk{}, err
	}
	return d, nil
}

// Validate checks the invariants of d.
func (d Disk) Validate() error {
	if d.Speed == "" {
		return errors.New("disk speed is required")
	}
	if d.SCSIID != nil && *d.SCSIID < 0 {
		return errors.Errorf("disk scsiId %d must not be negative", *d.SCSIID)
	}
	if d.SizeGB != nil && *d.SizeGB <= 0 {
		return errors.Errorf("disk sizeGb %d must be positive", *d.SizeGB)
	}
	return nil
}

// ParseDisks decodes a JSON or YAML document holding either a single disk or a
// list of disks, and validates each of them. Unknown fields are rejected.
func ParseDisks(data []byte) ([]Disk, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse disk document")
	}

	var disks []Disk
	if isList(jsonData) {
		if err := yaml.UnmarshalStrict(jsonData, &disks); err != nil {
			return nil, errors.Wrap(err, "failed to decode disk list")
		}
	} else {
		var disk Disk
		if err := yaml.UnmarshalStrict(jsonData, &disk); err != nil {
			return nil, errors.Wrap(err, "failed to decode disk")
		}
		disks = []Disk{disk}
	}
	for i, d := range disks {
		if err := d.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid disk at index %d", i)
		}
	}
	return disks, nil
}

func isList(jsonData []byte) bool {
	trimmed := bytes.TrimSpace(jsonData)
	return len(trimmed) > 0 && trimmed[0] == '['
}
