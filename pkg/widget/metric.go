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
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Shorthand tokens understood inside metric rows.
const (
	// Same repeats the value at the same position in the previous row.
	Same = "."
	// SameAsAbove repeats every leading value of the previous row.
	SameAsAbove = "..."
)

// Metric is one row of a metric panel. On the wire it is a JSON array of
// strings, optionally terminated by an options object:
//
//	["AWS/SNS", "NumberOfMessagesPublished", "TopicName", "bounces", {"id": "m1"}]
type Metric struct {
	Fields  []string
	Options *MetricOptions
}

// MetricOptions is the trailing rendering object of a metric row.
type MetricOptions struct {
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	Color      string `json:"color,omitempty" yaml:"color,omitempty"`
	Stat       string `json:"stat,omitempty" yaml:"stat,omitempty"`
	Period     int    `json:"period,omitempty" yaml:"period,omitempty"`
	Region     string `json:"region,omitempty" yaml:"region,omitempty"`
	Visible    *bool  `json:"visible,omitempty" yaml:"visible,omitempty"`
}

// Row returns a metric row made of fields.
func Row(fields ...string) Metric {
	return Metric{Fields: fields}
}

// Expression returns a math-expression row.
func Expression(expr, label, id string) Metric {
	return Metric{Options: &MetricOptions{Expression: expr, Label: label, ID: id}}
}

// WithOptions returns a copy of m carrying opts.
func (m Metric) WithOptions(opts MetricOptions) Metric {
	m.Options = &opts
	return m
}

func (m Metric) values() []any {
	out := make([]any, 0, len(m.Fields)+1)
	for _, f := range m.Fields {
		out = append(out, f)
	}
	if m.Options != nil {
		out = append(out, m.Options)
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (m Metric) MarshalJSON() ([]byte, error) {
	return marshalJSON(m.values())
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("metric row must be an array: %w", err)
	}

	out := Metric{Fields: []string{}}
	for i, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 {
			continue
		}
		switch trimmed[0] {
		case '"':
			var s string
			if err := json.Unmarshal(trimmed, &s); err != nil {
				return fmt.Errorf("metric row item %d: %w", i, err)
			}
			out.Fields = append(out.Fields, s)
		case '{':
			if i != len(items)-1 {
				return fmt.Errorf("metric row item %d: options object must be last", i)
			}
			var opts MetricOptions
			if err := json.Unmarshal(trimmed, &opts); err != nil {
				return fmt.Errorf("metric row item %d: %w", i, err)
			}
			out.Options = &opts
		default:
			return fmt.Errorf("metric row item %d: expected string or object", i)
		}
	}
	*m = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m Metric) MarshalYAML() (any, error) {
	return m.values(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Metric) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("metric row must be a sequence (line %d)", value.Line)
	}

	out := Metric{Fields: []string{}}
	for i, item := range value.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out.Fields = append(out.Fields, item.Value)
		case yaml.MappingNode:
			if i != len(value.Content)-1 {
				return fmt.Errorf("metric row item %d: options mapping must be last (line %d)", i, item.Line)
			}
			var opts MetricOptions
			if err := item.Decode(&opts); err != nil {
				return fmt.Errorf("metric row item %d: %w", i, err)
			}
			out.Options = &opts
		default:
			return fmt.Errorf("metric row item %d: expected scalar or mapping (line %d)", i, item.Line)
		}
	}
	*m = out
	return nil
}
