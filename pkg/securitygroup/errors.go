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

package securitygroup

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// GroupNotFoundError is returned when a security group does not exist.
type GroupNotFoundError struct {
	ID string
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("security group %s was not found", e.ID)
}

// UnsupportedProtocolError is returned when a protocol has no provider mapping.
type UnsupportedProtocolError struct {
	Protocol Protocol
}

func (e *UnsupportedProtocolError) Error() string {
	return fmt.Sprintf("protocol %q is not supported by network security rules", e.Protocol)
}

// ConvergenceTimeoutError is returned when a group did not reach a stable state
// after a mutation. Mutations applied before the timeout are not rolled back.
type ConvergenceTimeoutError struct {
	ID      string
	Timeout time.Duration
}

func (e *ConvergenceTimeoutError) Error() string {
	return fmt.Sprintf("security group %s was not updated within %s", e.ID, e.Timeout)
}

// IsGroupNotFound reports whether err, or any error it wraps, is a GroupNotFoundError.
func IsGroupNotFound(err error) bool {
	var target *GroupNotFoundError
	return errors.As(err, &target)
}

// IsUnsupportedProtocol reports whether err, or any error it wraps, is an UnsupportedProtocolError.
func IsUnsupportedProtocol(err error) bool {
	var target *UnsupportedProtocolError
	return errors.As(err, &target)
}

// IsConvergenceTimeout reports whether err, or any error it wraps, is a ConvergenceTimeoutError.
func IsConvergenceTimeout(err error) bool {
	var target *ConvergenceTimeoutError
	return errors.As(err, &target)
}
