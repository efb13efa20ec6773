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
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(ruleMutationsTotal)
	prometheus.MustRegister(convergenceWaitSeconds)
}

const (
	mutationCreate = "create"
	mutationDelete = "delete"

	resultSuccess = "success"
	resultError   = "error"
	resultTimeout = "timeout"
)

var (
	ruleMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "securitygroup_rule_mutations_total",
			Help: "Number of security rule create and delete calls issued, by result.",
		}, []string{
			"operation", "result",
		},
	)
	convergenceWaitSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "securitygroup_convergence_wait_seconds",
			Help:    "Time spent waiting for a security group to become available after a mutation.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{
			"result",
		},
	)
)
