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

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
)

// Panel is one rectangular widget on the dashboard grid. Panels are values:
// helpers that reposition a panel return a modified copy.
type Panel struct {
	Height     int
	Width      Width
	X          int
	Y          int
	Properties Properties
}

// Type returns the panel type implied by its properties.
func (p Panel) Type() Type {
	if p.Properties == nil {
		return ""
	}
	return p.Properties.Type()
}

// WithY returns a copy of p positioned at row y.
func (p Panel) WithY(y int) Panel {
	p.Y = y
	return p
}

// Bottom returns the first grid row below the panel.
func (p Panel) Bottom() int {
	return p.Y + p.Height
}

// Validate checks the panel geometry and its properties.
func (p Panel) Validate() error {
	if p.Properties == nil {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "panel properties are required")
	}
	if p.Height <= 0 {
		return invalidField("height", p.Height, "panel height must be positive")
	}
	if !p.Width.IsValid() {
		return invalidField("width", int(p.Width),
			fmt.Sprintf("panel width must be one of %v", SupportedWidths()))
	}
	if p.X < 0 {
		return invalidField("x", p.X, "panel x cannot be negative")
	}
	if p.Y < 0 {
		return invalidField("y", p.Y, "panel y cannot be negative")
	}
	if p.X+int(p.Width) > GridColumns {
		return invalidField("x", p.X,
			fmt.Sprintf("panel overflows the %d column grid", GridColumns))
	}
	return p.Properties.validate()
}

// wirePanel is the document shape of a panel.
type wirePanel struct {
	Height     int        `json:"height" yaml:"height"`
	Width      Width      `json:"width" yaml:"width"`
	X          int        `json:"x" yaml:"x"`
	Y          int        `json:"y" yaml:"y"`
	Type       Type       `json:"type" yaml:"type"`
	Properties Properties `json:"properties" yaml:"properties"`
}

func (p Panel) wire() wirePanel {
	return wirePanel{
		Height:     p.Height,
		Width:      p.Width,
		X:          p.X,
		Y:          p.Y,
		Type:       p.Type(),
		Properties: p.Properties,
	}
}

// MarshalJSON implements json.Marshaler.
func (p Panel) MarshalJSON() ([]byte, error) {
	return marshalJSON(p.wire())
}

// marshalJSON encodes v without HTML escaping so query operators such as
// "<" and "&" survive verbatim.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Panel) MarshalYAML() (any, error) {
	return p.wire(), nil
}

// UnmarshalJSON implements json.Unmarshaler. The property variant is chosen
// by the type field.
func (p *Panel) UnmarshalJSON(data []byte) error {
	var raw struct {
		Height     int             `json:"height"`
		Width      Width           `json:"width"`
		X          int             `json:"x"`
		Y          int             `json:"y"`
		Type       Type            `json:"type"`
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	props, err := decodeProperties(raw.Type, func(v any) error {
		if len(raw.Properties) == 0 {
			return nil
		}
		return json.Unmarshal(raw.Properties, v)
	})
	if err != nil {
		return err
	}

	*p = Panel{Height: raw.Height, Width: raw.Width, X: raw.X, Y: raw.Y, Properties: props}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Panel) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Height     int       `yaml:"height"`
		Width      Width     `yaml:"width"`
		X          int       `yaml:"x"`
		Y          int       `yaml:"y"`
		Type       Type      `yaml:"type"`
		Properties yaml.Node `yaml:"properties"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	props, err := decodeProperties(raw.Type, func(v any) error {
		if raw.Properties.Kind == 0 {
			return nil
		}
		return raw.Properties.Decode(v)
	})
	if err != nil {
		return err
	}

	*p = Panel{Height: raw.Height, Width: raw.Width, X: raw.X, Y: raw.Y, Properties: props}
	return nil
}

func decodeProperties(t Type, decode func(any) error) (Properties, error) {
	switch t {
	case TypeText:
		var v TextProperties
		if err := decode(&v); err != nil {
			return nil, fmt.Errorf("failed to decode text properties: %w", err)
		}
		return v, nil
	case TypeLog:
		var v LogProperties
		if err := decode(&v); err != nil {
			return nil, fmt.Errorf("failed to decode log properties: %w", err)
		}
		return v, nil
	case TypeMetric:
		var v MetricProperties
		if err := decode(&v); err != nil {
			return nil, fmt.Errorf("failed to decode metric properties: %w", err)
		}
		return v, nil
	default:
		return nil, invalidField("type", string(t), fmt.Sprintf("unknown panel type %q", t))
	}
}
