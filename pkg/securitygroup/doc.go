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
/*
Package securitygroup manages security groups and their inbound permissions on
top of a cloud.ResourceClient.

An IPPermission is stored as one inbound allow rule per CIDR block, all named
after the permission's protocol and port range and each with its own priority.
Providers that identify rules by name only, such as Azure, overwrite the rule on
every CIDR block, so only the last source range of a permission is kept there.

Rule mutations and convergence waits are recorded in prometheus metrics
registered on prometheus.DefaultRegisterer. Callers embedding an Extension must
serve prometheus.DefaultGatherer, e.g. with promhttp.Handler(), to expose them.
*/
package securitygroup
