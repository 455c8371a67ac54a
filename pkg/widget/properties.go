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

import (
	"fmt"
	"strings"

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
)

// Properties is the type-specific payload of a Panel. The set of
// implementations is closed: TextProperties, LogProperties and
// MetricProperties.
type Properties interface {
	// Type returns the panel type this payload belongs to.
	Type() Type

	validate() error
}

// TextProperties is the payload of a text panel.
type TextProperties struct {
	Markdown string `json:"markdown" yaml:"markdown"`
}

// Type implements Properties.
func (TextProperties) Type() Type { return TypeText }

func (p TextProperties) validate() error {
	if strings.TrimSpace(p.Markdown) == "" {
		return invalidField("properties.markdown", p.Markdown, "text panel markdown is required")
	}
	return nil
}

// LogProperties is the payload of a log panel.
type LogProperties struct {
	Query   string `json:"query" yaml:"query"`
	Region  string `json:"region" yaml:"region"`
	Stacked bool   `json:"stacked" yaml:"stacked"`
	Title   string `json:"title" yaml:"title"`
	View    string `json:"view" yaml:"view"`
}

// Type implements Properties.
func (LogProperties) Type() Type { return TypeLog }

func (p LogProperties) validate() error {
	if strings.TrimSpace(p.Query) == "" {
		return invalidField("properties.query", p.Query, "log panel query is required")
	}
	if p.View != LogView {
		return invalidField("properties.view", p.View, fmt.Sprintf("log panel view must be %q", LogView))
	}
	return nil
}

// MetricProperties is the payload of a metric panel. Metric rows are passed
// through as authored; dimension names are not checked.
type MetricProperties struct {
	Metrics  []Metric   `json:"metrics" yaml:"metrics"`
	View     MetricView `json:"view" yaml:"view"`
	Stacked  *bool      `json:"stacked,omitempty" yaml:"stacked,omitempty"`
	Region   string     `json:"region" yaml:"region"`
	Stat     string     `json:"stat" yaml:"stat"`
	Period   int        `json:"period" yaml:"period"`
	Title    string     `json:"title,omitempty" yaml:"title,omitempty"`
	YAxis    *YAxis     `json:"yAxis,omitempty" yaml:"yAxis,omitempty"`
	Legend   *Legend    `json:"legend,omitempty" yaml:"legend,omitempty"`
	LiveData *bool      `json:"liveData,omitempty" yaml:"liveData,omitempty"`
}

// Type implements Properties.
func (MetricProperties) Type() Type { return TypeMetric }

func (p MetricProperties) validate() error {
	if len(p.Metrics) == 0 {
		return invalidField("properties.metrics", len(p.Metrics), "metric panel needs at least one metric row")
	}
	if !p.View.IsValid() {
		return invalidField("properties.view", p.View,
			fmt.Sprintf("metric panel view must be %q or %q", ViewSingleValue, ViewTimeSeries))
	}
	if p.Period < 0 {
		return invalidField("properties.period", p.Period, "metric panel period cannot be negative")
	}
	return nil
}

// YAxis configures the vertical axes of a time series panel.
type YAxis struct {
	Left  *Axis `json:"left,omitempty" yaml:"left,omitempty"`
	Right *Axis `json:"right,omitempty" yaml:"right,omitempty"`
}

// Axis configures one vertical axis.
type Axis struct {
	ShowUnits *bool    `json:"showUnits,omitempty" yaml:"showUnits,omitempty"`
	Label     string   `json:"label,omitempty" yaml:"label,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Legend positions the metric legend.
type Legend struct {
	Position string `json:"position" yaml:"position"`
}

func invalidField(field string, value any, msg string) error {
	return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, msg, map[string]any{
		"field": field,
		"value": value,
	})
}
