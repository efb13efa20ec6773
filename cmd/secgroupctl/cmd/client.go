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
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/pkg/errors"

	"sigs.k8s.io/cluster-api-securitygroups/cmd/secgroupctl/config"
	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud"
	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud/azure"
	"sigs.k8s.io/cluster-api-securitygroups/pkg/cloud/inmemory"
	logf "sigs.k8s.io/cluster-api-securitygroups/pkg/log"
	"sigs.k8s.io/cluster-api-securitygroups/pkg/securitygroup"
)

// newExtension builds the Extension every command operates through.
var newExtension = func() (*securitygroup.Extension, error) {
	r := config.NewViperReader()
	if err := r.Init(cfgFile); err != nil {
		return nil, err
	}
	c, err := config.Load(r)
	if err != nil {
		return nil, err
	}
	client, err := newResourceClient(c)
	if err != nil {
		return nil, err
	}
	return extensionFor(c, client), nil
}

func newResourceClient(c *config.Config) (cloud.ResourceClient, error) {
	switch c.Provider {
	case config.ProviderAzure:
		credential, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get Azure credentials")
		}
		options := []azure.Option{
			azure.WithScopePrefix(c.ResourceGroupPrefix),
			azure.WithPollInterval(c.PollInterval),
		}
		if c.ResourceGroup != "" {
			options = append(options, azure.WithResourceGroup(c.ResourceGroup))
		}
		return azure.NewClient(c.SubscriptionID, credential, options...)
	case config.ProviderInMemory:
		logf.Log().Info("Using the inmemory provider, security groups are not kept after this command exits")
		return inmemory.NewClient(
			inmemory.WithScopePrefix(c.ResourceGroupPrefix),
			inmemory.WithPollInterval(c.PollInterval),
		), nil
	default:
		return nil, errors.Errorf("invalid provider %q", c.Provider)
	}
}

func extensionFor(c *config.Config, client cloud.ResourceClient) *securitygroup.Extension {
	return securitygroup.NewExtension(client,
		securitygroup.WithLogger(logf.Log().WithName("securitygroup")),
		securitygroup.WithLocations(c.Locations),
		securitygroup.WithConvergenceTimeout(c.ConvergenceTimeout),
	)
}
