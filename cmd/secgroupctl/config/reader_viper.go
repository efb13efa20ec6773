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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"k8s.io/client-go/util/homedir"

	logf "sigs.k8s.io/cluster-api-securitygroups/pkg/log"
)

const (
	// ConfigFolder defines the name of the config folder under $home.
	ConfigFolder = ".cluster-api"
	// ConfigFolderXDG defines the name of the config folder under $XDG_CONFIG_HOME.
	ConfigFolderXDG = "cluster-api"
	// ConfigName defines the name of the config file under ConfigFolder.
	ConfigName = "secgroupctl"
)

// viperReader implements Reader using viper as backend for reading from environment variables
// and from a secgroupctl config file.
type viperReader struct {
	v           *viper.Viper
	configPaths []string
}

type viperReaderOption func(*viperReader)

func injectConfigPaths(configPaths []string) viperReaderOption {
	return func(vr *viperReader) {
		vr.configPaths = configPaths
	}
}

// NewViperReader returns a Reader backed by a config file and environment variables.
func NewViperReader() Reader {
	return newViperReader()
}

func newViperReader(opts ...viperReaderOption) *viperReader {
	vr := &viperReader{
		v:           viper.New(),
		configPaths: []string{
			filepath.Join(xdg.ConfigHome, ConfigFolderXDG),
			filepath.Join(homedir.HomeDir(), ConfigFolder),
		},
	}
	for _, o := range opts {
		o(vr)
	}
	return vr
}

// Init initialize the viperReader.
func (r *viperReader) Init(path string) error {
	log := logf.Log()

	// Keys use the - delimiter, which is not allowed in environment variable names,
	// so azure-subscription-id is read from AZURE_SUBSCRIPTION_ID.
	r.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	r.v.AllowEmptyEnv(true)
	r.v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return errors.Wrap(err, "failed to check if secgroupctl config file exists")
		}
		r.v.SetConfigFile(path)
	} else {
		if !r.checkDefaultConfig() {
			log.V(5).Info("No default config file available")
			return nil
		}
		r.v.SetConfigName(ConfigName)
		for _, p := range r.configPaths {
			r.v.AddConfigPath(p)
		}
	}

	if err := r.v.ReadInConfig(); err != nil {
		return errors.Wrap(err, "failed to read secgroupctl config file")
	}
	log.V(5).Info("Using configuration", "File", r.v.ConfigFileUsed())
	return nil
}

func (r *viperReader) Get(key string) (string, error) {
	if r.v.Get(key) == nil {
		return "", errors.Errorf("Failed to get value for variable %q. Please set the variable value using os env variables or using the secgroupctl config file", key)
	}
	return r.v.GetString(key), nil
}

func (r *viperReader) Set(key, value string) {
	r.v.Set(key, value)
}

func (r *viperReader) UnmarshalKey(key string, rawval interface{}) error {
	return r.v.UnmarshalKey(key, rawval)
}

// checkDefaultConfig checks the existence of the default config.
// Returns true if it finds a supported config file in the available config
// folders.
func (r *viperReader) checkDefaultConfig() bool {
	for _, path := range r.configPaths {
		for _, ext := range viper.SupportedExts {
			f := filepath.Join(path, fmt.Sprintf("%s.%s", ConfigName, ext))
			if _, err := os.Stat(f); err == nil {
				return true
			}
		}
	}
	return false
}
