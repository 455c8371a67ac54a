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
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"k8s.io/utils/ptr"

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
	"github.com/cloudherder/cloudherder/pkg/header"
	"github.com/cloudherder/cloudherder/pkg/layout"
	"github.com/cloudherder/cloudherder/pkg/naming"
	"github.com/cloudherder/cloudherder/pkg/widget"
)

const (
	// IngestionTitle is the header of the closing section.
	IngestionTitle = "Log Ingestion Metrics"

	// IngestionChartTitle is the title of the closing metric panel.
	IngestionChartTitle = "Log Group Events per Hour"

	ingestionHeight = 3
	ingestionPeriod = 3600

	modeAssemble = "assemble"
	modeCompose  = "compose"
)

// Body is the dashboard body document.
type Body struct {
	Widgets []widget.Panel `json:"widgets" yaml:"widgets"`
}

// Dashboard is a named dashboard body.
type Dashboard struct {
	header.Header `json:",inline" yaml:",inline"`

	Name string `json:"name" yaml:"name"`
	Body Body   `json:"body" yaml:"body"`
}

// BodyJSON returns the compact JSON form of the body, as expected by a
// dashboard body field. HTML characters are not escaped.
func (d *Dashboard) BodyJSON() (string, error) {
	if d == nil {
		return "", cnserrors.New(cnserrors.ErrCodeInvalidRequest, "dashboard is nil")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d.Body); err != nil {
		return "", cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to serialize dashboard body", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// TableHeader implements serializer.TableRenderer.
func (d *Dashboard) TableHeader() []string {
	return []string{"TYPE", "X", "Y", "W", "H", "TITLE"}
}

// TableRows implements serializer.TableRenderer.
func (d *Dashboard) TableRows() [][]string {
	rows := make([][]string, 0, len(d.Body.Widgets))
	for _, p := range d.Body.Widgets {
		rows = append(rows, []string{
			p.Type().String(),
			strconv.Itoa(p.X),
			strconv.Itoa(p.Y),
			strconv.Itoa(int(p.Width)),
			strconv.Itoa(p.Height),
			panelTitle(p),
		})
	}
	return rows
}

func panelTitle(p widget.Panel) string {
	switch props := p.Properties.(type) {
	case widget.TextProperties:
		return strings.TrimPrefix(props.Markdown, "# ")
	case widget.LogProperties:
		return props.Title
	case widget.MetricProperties:
		return props.Title
	default:
		return ""
	}
}

// Option is a functional option for configuring an Assembler.
type Option func(*Assembler)

// WithResourcePrefix sets the deployment prefix. The dashboard name and the
// default ingestion log groups are derived from it.
func WithResourcePrefix(prefix string) Option {
	return func(a *Assembler) {
		a.prefix = prefix
	}
}

// WithRegion sets the region of the ingestion panel.
func WithRegion(region string) Option {
	return func(a *Assembler) {
		a.region = region
	}
}

// WithLogGroups overrides the log groups charted by the ingestion panel.
func WithLogGroups(lg naming.LogGroups) Option {
	return func(a *Assembler) {
		a.logGroups = lg
	}
}

// WithVersion records the tool version in the dashboard metadata.
func WithVersion(version string) Option {
	return func(a *Assembler) {
		a.version = version
	}
}

// WithName overrides the dashboard name.
func WithName(name string) Option {
	return func(a *Assembler) {
		a.name = name
	}
}

// Assembler turns sections into a Dashboard. It holds no per-call state
// and may be shared between goroutines.
type Assembler struct {
	prefix    string
	region    string
	name      string
	version   string
	logGroups naming.LogGroups
}

// NewAssembler returns an Assembler configured with opts.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the dashboard name.
func (a *Assembler) Name() string {
	if a.name != "" {
		return a.name
	}
	return a.prefix + "-dashboard"
}

func (a *Assembler) metadata() map[string]string {
	if a.version == "" {
		return nil
	}
	return map[string]string{"version": a.version}
}

// LogGroups returns the log groups charted by the ingestion panel.
func (a *Assembler) LogGroups() naming.LogGroups {
	if !a.logGroups.IsZero() {
		return a.logGroups
	}
	return naming.DefaultLogGroups(a.prefix)
}

// Assemble stacks sections and appends the log ingestion section at the
// floor of the stacked layout.
func (a *Assembler) Assemble(sections ...widget.Section) (*Dashboard, error) {
	return a.build(modeAssemble, sections)
}

// Compose stacks sections without the closing ingestion section.
func (a *Assembler) Compose(sections ...widget.Section) (*Dashboard, error) {
	return a.build(modeCompose, sections)
}

func (a *Assembler) build(mode string, sections []widget.Section) (*Dashboard, error) {
	d, err := a.compose(mode, sections)
	if err != nil {
		compositionsTotal.WithLabelValues(mode, "error").Inc()
		return nil, err
	}
	compositionsTotal.WithLabelValues(mode, "success").Inc()
	compositionPanels.Observe(float64(len(d.Body.Widgets)))

	slog.Debug("dashboard composed",
		"name", d.Name,
		"mode", mode,
		"sections", len(sections),
		"widgets", len(d.Body.Widgets))

	return d, nil
}

func (a *Assembler) compose(mode string, sections []widget.Section) (*Dashboard, error) {
	if a.prefix == "" && a.name == "" {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "resource prefix is required")
	}

	res, err := layout.Stack(sections)
	if err != nil {
		return nil, err
	}

	widgets := res.Panels
	if mode == modeAssemble {
		if a.prefix == "" && a.logGroups.IsZero() {
			return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest,
				"resource prefix or log groups are required for the ingestion section")
		}
		widgets = append(widgets, IngestionSection(res.Floor, a.region, a.LogGroups())...)
	}

	return &Dashboard{
		Header: header.Header{
			Kind:       header.KindDashboard,
			APIVersion: header.APIVersion,
			Metadata:   a.metadata(),
		},
		Name: a.Name(),
		Body: Body{Widgets: widgets},
	}, nil
}

// IngestionSection returns the closing header and metric panel placed at
// floor.
func IngestionSection(floor int, region string, lg naming.LogGroups) []widget.Panel {
	groups := lg.All()
	rows := make([]widget.Metric, 0, len(groups))
	for i, g := range groups {
		if i == 0 {
			rows = append(rows, widget.Row("AWS/Logs", "IncomingLogEvents", "LogGroupName", g))
			continue
		}
		rows = append(rows, widget.Row(widget.SameAsAbove, g))
	}

	return []widget.Panel{
		widget.SectionHeaderAt(IngestionTitle, floor),
		widget.NewMetric(0, floor+1, widget.WidthFull, ingestionHeight, widget.MetricProperties{
			Metrics: rows,
			View:    widget.ViewSingleValue,
			Stacked: ptr.To(false),
			Region:  region,
			Stat:    "Sum",
			Period:  ingestionPeriod,
			Title:   IngestionChartTitle,
		}),
	}
}

// String implements fmt.Stringer.
func (d *Dashboard) String() string {
	return fmt.Sprintf("%s (%d widgets)", d.Name, len(d.Body.Widgets))
}
