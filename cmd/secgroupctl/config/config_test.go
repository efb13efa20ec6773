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
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		reader  *MemoryReader
		want    *Config
		wantErr bool
	}{
		{
			name:   "inmemory defaults",
			reader: NewMemoryReader().WithVar(ProviderKey, "InMemory"),
			want: &Config{
				Provider:            ProviderInMemory,
				ResourceGroupPrefix: "securitygroups-",
				ConvergenceTimeout:  5 * time.Minute,
				PollInterval:        5 * time.Second,
			},
		},
		{
			name: "azure with every value set",
			reader: NewMemoryReader().
				WithVar(SubscriptionIDKey, "00000000-0000-0000-0000-000000000000").
				WithVar(ResourceGroupKey, "shared").
				WithVar(ResourceGroupPrefixKey, "capi-").
				WithVar(LocationsKey, "[eastus, westeurope]").
				WithVar(ConvergenceTimeoutKey, "90s").
				WithVar(PollIntervalKey, "2s"),
			want: &Config{
				Provider:            ProviderAzure,
				SubscriptionID:      "00000000-0000-0000-0000-000000000000",
				ResourceGroup:       "shared",
				ResourceGroupPrefix: "capi-",
				Locations:           []string{"eastus", "westeurope"},
				ConvergenceTimeout:  90 * time.Second,
				PollInterval:        2 * time.Second,
			},
		},
		{
			name: "comma separated locations",
			reader: NewMemoryReader().
				WithVar(ProviderKey, "inmemory").
				WithVar(LocationsKey, "eastus, ,westeurope"),
			want: &Config{
				Provider:            ProviderInMemory,
				ResourceGroupPrefix: "securitygroups-",
				Locations:           []string{"eastus", "westeurope"},
				ConvergenceTimeout:  5 * time.Minute,
				PollInterval:        5 * time.Second,
			},
		},
		{
			name:    "azure requires a subscription",
			reader:  NewMemoryReader(),
			wantErr: true,
		},
		{
			name:    "unknown provider",
			reader:  NewMemoryReader().WithVar(ProviderKey, "gcp"),
			wantErr: true,
		},
		{
			name:    "invalid duration",
			reader:  NewMemoryReader().WithVar(ProviderKey, "inmemory").WithVar(ConvergenceTimeoutKey, "soon"),
			wantErr: true,
		},
		{
			name:    "negative poll interval",
			reader:  NewMemoryReader().WithVar(ProviderKey, "inmemory").WithVar(PollIntervalKey, "-1s"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			got, err := Load(tt.reader)
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())
				return
			}
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(got).To(Equal(tt.want))
		})
	}
}
