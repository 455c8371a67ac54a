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
	"github.com/cloudherder/cloudherder/pkg/query"
)

// SectionHeader returns a full-width text panel at row 0 rendering title as
// a level-one markdown heading.
func SectionHeader(title string) Panel {
	return SectionHeaderAt(title, 0)
}

// SectionHeaderAt is SectionHeader placed at row y.
func SectionHeaderAt(title string, y int) Panel {
	return Panel{
		Height:     HeaderHeight,
		Width:      WidthFull,
		X:          0,
		Y:          y,
		Properties: TextProperties{Markdown: "# " + title},
	}
}

// LogWidgetArgs describes a single log panel.
type LogWidgetArgs struct {
	X            int
	Y            int
	LogGroupName string
	BaseQuery    string
	Title        string
	Region       string
}

// NewLogWidget returns a full-width log panel querying args.LogGroupName.
func NewLogWidget(args LogWidgetArgs) Panel {
	return Panel{
		Height: LogHeight,
		Width:  WidthFull,
		X:      args.X,
		Y:      args.Y,
		Properties: LogProperties{
			Query:   query.Build(args.LogGroupName, args.BaseQuery),
			Region:  args.Region,
			Stacked: false,
			Title:   args.Title,
			View:    LogView,
		},
	}
}

// QueryArgs names a base query against one log group.
type QueryArgs struct {
	Name         string `json:"name" yaml:"name"`
	LogGroupName string `json:"logGroupName" yaml:"logGroupName"`
	Query        string `json:"query" yaml:"query"`
}

// NewLogWidgets returns one log panel per query, stacked from yStart with no
// gaps.
func NewLogWidgets(queries []QueryArgs, yStart int, region string) []Panel {
	panels := make([]Panel, 0, len(queries))
	for i, q := range queries {
		panels = append(panels, NewLogWidget(LogWidgetArgs{
			X:            0,
			Y:            yStart + i*LogHeight,
			LogGroupName: q.LogGroupName,
			BaseQuery:    q.Query,
			Title:        q.Name + " Log Query Results",
			Region:       region,
		}))
	}
	return panels
}

// NewMetric returns a metric panel with the given geometry.
func NewMetric(x, y int, width Width, height int, props MetricProperties) Panel {
	return Panel{
		Height:     height,
		Width:      width,
		X:          x,
		Y:          y,
		Properties: props,
	}
}
