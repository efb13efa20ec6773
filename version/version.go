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

// Package version reports the build information injected with -ldflags, e.g.
//
//	-X sigs.k8s.io/cluster-api-securitygroups/version.gitVersion=v0.1.0
package version

import (
	"fmt"
	"runtime"
)

const (
	defaultVersion   = "v0.0.0"
	defaultShortHash = "0000000"
)

var (
	// gitVersion is the version being released.
	gitVersion string
	// gitCommit is the short form of the git hash of the commit being built.
	gitCommit string
	// buildDate is the date of the build in ISO8601 format.
	buildDate string
)

// Info describes a binary.
type Info struct {
	GitVersion string `json:"gitVersion"`
	GitCommit  string `json:"gitCommit"`
	BuildDate  string `json:"buildDate,omitempty"`
	GoVersion  string `json:"goVersion"`
	Platform   string `json:"platform"`
}

// Get returns the build information of the running binary.
func Get() Info {
	info := Info{
		GitVersion: gitVersion,
		GitCommit:  gitCommit,
		BuildDate:  buildDate,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if info.GitVersion == "" {
		info.GitVersion = defaultVersion
	}
	if info.GitCommit == "" {
		info.GitCommit = defaultShortHash
	}
	return info
}

// String returns the short form, e.g. v0.1.0+0a1b2c3.
func (i Info) String() string {
	return fmt.Sprintf("%s+%s", i.GitVersion, i.GitCommit)
}
