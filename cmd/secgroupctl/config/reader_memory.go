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
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// MemoryReader provides a reader implementation backed by a map.
type MemoryReader struct {
	variables map[string]string
}

var _ Reader = &MemoryReader{}

// NewMemoryReader return a new MemoryReader.
func NewMemoryReader() *MemoryReader {
	return &MemoryReader{
		variables: map[string]string{},
	}
}

// Init initialize the reader.
func (f *MemoryReader) Init(_ string) error {
	return nil
}

// Get gets a value for the given key.
func (f *MemoryReader) Get(key string) (string, error) {
	if val, ok := f.variables[key]; ok {
		return val, nil
	}
	return "", errors.Errorf("value for variable %q is not set", key)
}

// Set sets a value for the given key.
func (f *MemoryReader) Set(key, value string) {
	f.variables[key] = value
}

// WithVar sets a value for the given key and returns the reader, for chaining.
func (f *MemoryReader) WithVar(key, value string) *MemoryReader {
	f.Set(key, value)
	return f
}

// UnmarshalKey gets a value for the given key, then unmarshal it.
func (f *MemoryReader) UnmarshalKey(key string, rawval interface{}) error {
	data, err := f.Get(key)
	if err != nil {
		return nil //nolint:nilerr // We expect to not error if the key is not present
	}
	return yaml.Unmarshal([]byte(data), rawval)
}
