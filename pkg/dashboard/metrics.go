// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Composition metrics
	compositionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herder_dashboard_compositions_total",
			Help: "Total number of dashboard compositions",
		},
		[]string{"mode", "result"},
	)

	compositionPanels = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "herder_dashboard_panels",
			Help:    "Number of panels in composed dashboards",
			Buckets: []float64{1, 5, 10, 20, 40, 80, 160},
		},
	)
)
