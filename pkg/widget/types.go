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

package widget

// GridColumns is the width of the dashboard grid.
const GridColumns = 24

// Type identifies the property variant carried by a Panel.
type Type string

const (
	// TypeMetric is a metric chart or single-value panel.
	TypeMetric Type = "metric"
	// TypeLog is a Logs-Insights query table.
	TypeLog Type = "log"
	// TypeText is a markdown panel, used for section headers.
	TypeText Type = "text"
)

// String returns the string representation of the Type.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known panel types.
func (t Type) IsValid() bool {
	switch t {
	case TypeMetric, TypeLog, TypeText:
		return true
	default:
		return false
	}
}

// Width is a panel width in grid columns.
type Width int

const (
	// WidthQuarter spans a quarter of the grid.
	WidthQuarter Width = 6
	// WidthHalf spans half of the grid.
	WidthHalf Width = 12
	// WidthFull spans the whole grid.
	WidthFull Width = 24
)

// IsValid reports whether w is one of the supported widths.
func (w Width) IsValid() bool {
	switch w {
	case WidthQuarter, WidthHalf, WidthFull:
		return true
	default:
		return false
	}
}

// SupportedWidths returns the allowed panel widths.
func SupportedWidths() []Width {
	return []Width{WidthQuarter, WidthHalf, WidthFull}
}

// MetricView selects how a metric panel renders.
type MetricView string

const (
	// ViewSingleValue renders the latest value of each metric.
	ViewSingleValue MetricView = "singleValue"
	// ViewTimeSeries renders a line graph.
	ViewTimeSeries MetricView = "timeSeries"
)

// IsValid reports whether v is a supported metric view.
func (v MetricView) IsValid() bool {
	return v == ViewSingleValue || v == ViewTimeSeries
}

// LogView is the only view a log panel supports.
const LogView = "table"

// Standard panel heights.
const (
	HeaderHeight = 1
	LogHeight    = 6
)

// Section is an ordered group of panels authored with y-coordinates relative
// to a local origin of 0.
type Section []Panel
