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

package naming

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
)

var segmentPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Prefix identifies a deployment. Org is optional; the remaining segments
// other than ServiceID are required.
type Prefix struct {
	Org       string `json:"org,omitempty" yaml:"org,omitempty"`
	Env       string `json:"environment" yaml:"environment"`
	Name      string `json:"name" yaml:"name"`
	ServiceID string `json:"serviceId,omitempty" yaml:"serviceId,omitempty"`
}

// String joins the non-empty segments with '-'.
func (p Prefix) String() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Org, p.Env, p.Name, p.ServiceID} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-")
}

// Label is the human readable form used in section headers. The service
// id, when present, is separated by a space and capitalized.
func (p Prefix) Label() string {
	base := Prefix{Org: p.Org, Env: p.Env, Name: p.Name}.String()
	if p.ServiceID == "" {
		return base
	}
	return base + " " + CapitalizeWord(p.ServiceID)
}

// Dashboard returns the dashboard name for the prefix.
func (p Prefix) Dashboard() string {
	return p.String() + "-dashboard"
}

// Validate checks that the required segments are present and are lower
// case DNS-style labels.
func (p Prefix) Validate() error {
	segments := []struct {
		field    string
		value    string
		required bool
	}{
		{"org", p.Org, false},
		{"environment", p.Env, true},
		{"name", p.Name, true},
		{"serviceId", p.ServiceID, false},
	}
	for _, s := range segments {
		if s.value == "" {
			if s.required {
				return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
					fmt.Sprintf("prefix %s is required", s.field),
					map[string]any{"field": s.field})
			}
			continue
		}
		if !segmentPattern.MatchString(s.value) {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("prefix %s %q must match %s", s.field, s.value, segmentPattern),
				map[string]any{"field": s.field, "value": s.value})
		}
	}
	return nil
}

// CapitalizeWord upper-cases the first letter of s and leaves the rest as is.
func CapitalizeWord(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	// Casers are stateful and cannot be shared between goroutines.
	return cases.Upper(language.Und).String(s[:size]) + s[size:]
}

// LogGroups lists the log groups whose ingestion volume is charted at the
// bottom of every dashboard.
type LogGroups struct {
	Application string `json:"application" yaml:"application"`
	Container   string `json:"container" yaml:"container"`
	Database    string `json:"database" yaml:"database"`
}

// DefaultLogGroups returns the conventional log groups for prefix.
func DefaultLogGroups(prefix string) LogGroups {
	return LogGroups{
		Application: prefix + "-log-grp",
		Container:   fmt.Sprintf("/aws/ecs/containerinsights/%s-ecs-cluster/performance", prefix),
		Database:    fmt.Sprintf("/aws/rds/instance/%s-db/postgresql", prefix),
	}
}

// All returns the log group names in chart order.
func (l LogGroups) All() []string {
	return []string{l.Application, l.Container, l.Database}
}

// IsZero reports whether no log group is set.
func (l LogGroups) IsZero() bool {
	return l == LogGroups{}
}
