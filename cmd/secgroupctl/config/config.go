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
	"strings"
	"time"

	"github.com/pkg/errors"

	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
	"sigs.k8s.io/cluster-api-securitygroups/pkg/securitygroup"
)

// Keys of the configuration values.
const (
	ProviderKey            = "provider"
	SubscriptionIDKey      = "azure-subscription-id"
	ResourceGroupKey       = "azure-resource-group"
	ResourceGroupPrefixKey = "resource-group-prefix"
	LocationsKey           = "locations"
	ConvergenceTimeoutKey  = "convergence-timeout"
	PollIntervalKey        = "poll-interval"
)

// Provider names the cloud.ResourceClient implementation to use.
type Provider string

const (
	ProviderAzure Provider = "azure"
	// ProviderInMemory starts empty and keeps its state for the lifetime of a
	// single process, so commands run separately never share groups.
	ProviderInMemory Provider = "inmemory"
)

// DefaultPollInterval is how often provider operations are polled when
// poll-interval is not set.
const DefaultPollInterval = 5 * time.Second

// Config is the resolved secgroupctl configuration.
type Config struct {
	Provider            Provider
	SubscriptionID      string
	ResourceGroup       string
	ResourceGroupPrefix string
	Locations           []string
	ConvergenceTimeout  time.Duration
	PollInterval        time.Duration
}

// Load reads the configuration from r, applying defaults for unset values.
func Load(r Reader) (*Config, error) {
	c := &Config{
		Provider:            ProviderAzure,
		ResourceGroupPrefix: cloud.DefaultScopePrefix,
		ConvergenceTimeout:  securitygroup.DefaultConvergenceTimeout,
		PollInterval:        DefaultPollInterval,
	}

	if v := get(r, ProviderKey); v != "" {
		c.Provider = Provider(strings.ToLower(v))
	}
	c.SubscriptionID = get(r, SubscriptionIDKey)
	c.ResourceGroup = get(r, ResourceGroupKey)
	if v := get(r, ResourceGroupPrefixKey); v != "" {
		c.ResourceGroupPrefix = v
	}

	c.Locations = getList(r, LocationsKey)

	var err error
	if c.ConvergenceTimeout, err = getDuration(r, ConvergenceTimeoutKey, c.ConvergenceTimeout); err != nil {
		return nil, err
	}
	if c.PollInterval, err = getDuration(r, PollIntervalKey, c.PollInterval); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the configuration is usable for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderAzure:
		if c.SubscriptionID == "" {
			return errors.Errorf("%s is required when provider is %s", SubscriptionIDKey, ProviderAzure)
		}
	case ProviderInMemory:
	default:
		return errors.Errorf("invalid provider %q, valid values are %q and %q", c.Provider, ProviderAzure, ProviderInMemory)
	}
	if c.ConvergenceTimeout <= 0 {
		return errors.Errorf("%s must be positive", ConvergenceTimeoutKey)
	}
	if c.PollInterval <= 0 {
		return errors.Errorf("%s must be positive", PollIntervalKey)
	}
	return nil
}

func get(r Reader, key string) string {
	v, err := r.Get(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// getList accepts both a list and a comma separated string.
func getList(r Reader, key string) []string {
	var values []string
	if err := r.UnmarshalKey(key, &values); err != nil {
		values = strings.Split(get(r, key), ",")
	}
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getDuration(r Reader, key string, defaultValue time.Duration) (time.Duration, error) {
	v := get(r, key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid value for %s", key)
	}
	return d, nil
}
