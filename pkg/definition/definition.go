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

package definition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudherder/cloudherder/pkg/dashboard"
	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
	"github.com/cloudherder/cloudherder/pkg/header"
	"github.com/cloudherder/cloudherder/pkg/naming"
	"github.com/cloudherder/cloudherder/pkg/section"
	"github.com/cloudherder/cloudherder/pkg/serializer"
	"github.com/cloudherder/cloudherder/pkg/widget"
)

// Definition declares one dashboard.
type Definition struct {
	header.Header `json:",inline" yaml:",inline"`

	Spec Spec `json:"spec" yaml:"spec"`
}

// Spec is the body of a Definition.
type Spec struct {
	naming.Prefix `json:",inline" yaml:",inline"`

	Region string `json:"region" yaml:"region"`

	// DashboardName overrides the name derived from the prefix.
	DashboardName string `json:"dashboardName,omitempty" yaml:"dashboardName,omitempty"`

	// LogGroups overrides the log groups of the ingestion section.
	LogGroups *naming.LogGroups `json:"logGroups,omitempty" yaml:"logGroups,omitempty"`

	// Ingestion appends the log ingestion section. Defaults to true.
	Ingestion *bool `json:"ingestion,omitempty" yaml:"ingestion,omitempty"`

	Sections []Section `json:"sections" yaml:"sections"`
}

// Section declares one dashboard section. Only the fields of its Type are
// read.
type Section struct {
	Type section.Type `json:"type" yaml:"type"`

	// alb
	TargetGroup  string `json:"targetGroup,omitempty" yaml:"targetGroup,omitempty"`
	LoadBalancer string `json:"loadBalancer,omitempty" yaml:"loadBalancer,omitempty"`

	// rds
	Instance   string             `json:"instance,omitempty" yaml:"instance,omitempty"`
	LogQueries []widget.QueryArgs `json:"logQueries,omitempty" yaml:"logQueries,omitempty"`

	// ses
	ConfigurationSet string       `json:"configurationSet,omitempty" yaml:"configurationSet,omitempty"`
	BounceQueue      *BounceQueue `json:"bounceQueue,omitempty" yaml:"bounceQueue,omitempty"`

	// bounceQueue
	Topic string `json:"topic,omitempty" yaml:"topic,omitempty"`
	Queue string `json:"queue,omitempty" yaml:"queue,omitempty"`

	// panels
	Title  string         `json:"title,omitempty" yaml:"title,omitempty"`
	Panels []widget.Panel `json:"panels,omitempty" yaml:"panels,omitempty"`
}

// BounceQueue names the bounce notification topic and queue of an SES
// section.
type BounceQueue struct {
	Topic string `json:"topic" yaml:"topic"`
	Queue string `json:"queue" yaml:"queue"`
}

// New returns a Definition for prefix with its header set.
func New(prefix naming.Prefix, region string, sections ...Section) *Definition {
	d := &Definition{
		Spec: Spec{
			Prefix:   prefix,
			Region:   region,
			Sections: sections,
		},
	}
	d.Kind = header.KindDashboardDefinition
	d.APIVersion = header.APIVersion
	return d
}

// Load reads a Definition from a file, an HTTP(S) URL or a ConfigMap URI
// and validates it.
func Load(path string) (*Definition, error) {
	return LoadWithKubeconfig(path, "")
}

// LoadWithKubeconfig is Load with an explicit kubeconfig for ConfigMap URIs.
func LoadWithKubeconfig(path, kubeconfig string) (*Definition, error) {
	d, err := serializer.FromFileWithKubeconfig[Definition](path, kubeconfig)
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("definition loaded", "path", path, "prefix", d.Spec.Prefix.String(), "sections", len(d.Spec.Sections))
	return d, nil
}

// Parse decodes and validates a Definition from data.
func Parse(format serializer.Format, data []byte) (*Definition, error) {
	d, err := serializer.FromBytes[Definition](format, data)
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the header, the prefix and every section.
func (d *Definition) Validate() error {
	if d == nil {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "definition is nil")
	}
	if d.Kind != header.KindDashboardDefinition {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported kind %q", d.Kind),
			map[string]any{"field": "kind", "expected": header.KindDashboardDefinition.String()})
	}
	if d.APIVersion != header.APIVersion {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported apiVersion %q", d.APIVersion),
			map[string]any{"field": "apiVersion", "expected": header.APIVersion})
	}
	if err := d.Spec.Prefix.Validate(); err != nil {
		return err
	}
	if d.Spec.Region == "" {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "region is required",
			map[string]any{"field": "region"})
	}
	if lg := d.Spec.LogGroups; lg != nil {
		for _, g := range lg.All() {
			if g == "" {
				return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
					"logGroups must name application, container and database groups",
					map[string]any{"field": "logGroups"})
			}
		}
	}
	for i, s := range d.Spec.Sections {
		if err := s.validate(); err != nil {
			return cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid section %d", i), err,
				map[string]any{"section": i, "type": s.Type.String()})
		}
	}
	return nil
}

func (s Section) validate() error {
	required := func(field, value string) error {
		if value == "" {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("%s section requires %s", s.Type, field),
				map[string]any{"field": field})
		}
		return nil
	}

	switch s.Type {
	case section.TypeALB:
		if err := required("targetGroup", s.TargetGroup); err != nil {
			return err
		}
		return required("loadBalancer", s.LoadBalancer)
	case section.TypeRDS:
		for i, q := range s.LogQueries {
			if q.Name == "" || q.LogGroupName == "" || q.Query == "" {
				return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
					fmt.Sprintf("rds section logQueries[%d] requires name, logGroupName and query", i),
					map[string]any{"field": "logQueries", "query": i})
			}
		}
		return nil
	case section.TypeSES:
		if s.BounceQueue != nil {
			if err := required("bounceQueue.topic", s.BounceQueue.Topic); err != nil {
				return err
			}
			return required("bounceQueue.queue", s.BounceQueue.Queue)
		}
		return nil
	case section.TypeBounceQueue:
		if err := required("topic", s.Topic); err != nil {
			return err
		}
		return required("queue", s.Queue)
	case section.TypePanels:
		if len(s.Panels) == 0 {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				"panels section requires at least one panel",
				map[string]any{"field": "panels"})
		}
		for j, p := range s.Panels {
			if err := p.Validate(); err != nil {
				return cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidRequest,
					fmt.Sprintf("invalid panel %d", j), err, map[string]any{"panel": j})
			}
		}
		return nil
	default:
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown section type %q", s.Type),
			map[string]any{"field": "type"})
	}
}

// IngestionEnabled reports whether the log ingestion section is appended.
func (s Spec) IngestionEnabled() bool {
	return s.Ingestion == nil || *s.Ingestion
}

// instance returns the database instance of an RDS section, defaulting to
// the deployment database.
func (s Spec) instance(sec Section) string {
	if sec.Instance != "" {
		return sec.Instance
	}
	return s.Prefix.String() + "-db"
}

// logQueries returns the log queries of an RDS section. A nil list selects
// the default Postgres error queries; an empty list selects none.
func (s Spec) logQueries(sec Section) []widget.QueryArgs {
	if sec.LogQueries != nil {
		return sec.LogQueries
	}
	return section.PostgresErrorQueries(section.RDSLogGroup(s.instance(sec)))
}

// Sections returns the widget sections in declaration order.
func (d *Definition) Sections() []widget.Section {
	spec := d.Spec
	out := make([]widget.Section, 0, len(spec.Sections))
	for _, sec := range spec.Sections {
		switch sec.Type {
		case section.TypeALB:
			out = append(out, section.ALB(section.ALBArgs{
				Prefix:       spec.Prefix,
				Region:       spec.Region,
				TargetGroup:  sec.TargetGroup,
				LoadBalancer: sec.LoadBalancer,
			}))
		case section.TypeRDS:
			out = append(out, section.RDS(section.RDSArgs{
				Prefix:     spec.Prefix,
				Region:     spec.Region,
				Instance:   spec.instance(sec),
				LogQueries: spec.logQueries(sec),
			}))
		case section.TypeSES:
			args := section.SESArgs{
				Prefix:           spec.Prefix,
				Region:           spec.Region,
				ConfigurationSet: sec.ConfigurationSet,
			}
			if bq := sec.BounceQueue; bq != nil {
				args.BounceQueue = &section.BounceQueueArgs{
					Prefix: spec.Prefix,
					Region: spec.Region,
					Topic:  bq.Topic,
					Queue:  bq.Queue,
				}
			}
			out = append(out, section.SES(args))
		case section.TypeBounceQueue:
			out = append(out, section.BounceQueue(section.BounceQueueArgs{
				Prefix: spec.Prefix,
				Region: spec.Region,
				Topic:  sec.Topic,
				Queue:  sec.Queue,
			}))
		case section.TypePanels:
			s := make(widget.Section, 0, len(sec.Panels)+1)
			if sec.Title != "" {
				s = append(s, widget.SectionHeader(sec.Title))
				for _, p := range sec.Panels {
					s = append(s, p.WithY(p.Y+widget.HeaderHeight))
				}
			} else {
				s = append(s, sec.Panels...)
			}
			out = append(out, s)
		}
	}
	return out
}

// Build validates the definition and assembles its dashboard.
func (d *Definition) Build(ctx context.Context, opts ...dashboard.Option) (*dashboard.Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeTimeout, "dashboard build canceled", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	base := []dashboard.Option{
		dashboard.WithResourcePrefix(d.Spec.Prefix.String()),
		dashboard.WithRegion(d.Spec.Region),
	}
	if d.Spec.DashboardName != "" {
		base = append(base, dashboard.WithName(d.Spec.DashboardName))
	}
	if d.Spec.LogGroups != nil {
		base = append(base, dashboard.WithLogGroups(*d.Spec.LogGroups))
	}
	a := dashboard.NewAssembler(append(base, opts...)...)

	if d.Spec.IngestionEnabled() {
		return a.Assemble(d.Sections()...)
	}
	return a.Compose(d.Sections()...)
}

// QueryDefinitions returns the saved log queries of every RDS section.
func (d *Definition) QueryDefinitions() []section.QueryDefinition {
	var queries []widget.QueryArgs
	for _, sec := range d.Spec.Sections {
		if sec.Type == section.TypeRDS {
			queries = append(queries, d.Spec.logQueries(sec)...)
		}
	}
	return section.QueryDefinitions(queries)
}
