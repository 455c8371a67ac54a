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

package layout

import (
	"fmt"

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
	"github.com/cloudherder/cloudherder/pkg/widget"
)

// Result is the output of Stack.
type Result struct {
	// Floor is the first free row after the stacked panels.
	Floor int `json:"floor" yaml:"floor"`

	// Panels holds the repositioned panels in input order.
	Panels []widget.Panel `json:"panels" yaml:"panels"`
}

// Stack places sections one below the other. Panels of each section are
// shifted by the current offset, and after each section the offset becomes
// the bottom edge of the last panel accumulated so far. An empty section
// leaves the offset untouched. An empty or nil list yields Floor 0.
//
// All panels are validated before any are placed; the first invalid panel
// is reported with its section and panel index.
func Stack(sections []widget.Section) (*Result, error) {
	total := 0
	for si, section := range sections {
		for pi, p := range section {
			if err := p.Validate(); err != nil {
				return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
					fmt.Sprintf("invalid panel %d in section %d", pi, si), err,
					map[string]any{"section": si, "panel": pi})
			}
		}
		total += len(section)
	}

	panels := make([]widget.Panel, 0, total)
	offset := 0
	for _, section := range sections {
		for _, p := range section {
			panels = append(panels, p.WithY(p.Y+offset))
		}
		if len(panels) > 0 {
			offset = panels[len(panels)-1].Bottom()
		}
	}

	return &Result{Floor: offset, Panels: panels}, nil
}
