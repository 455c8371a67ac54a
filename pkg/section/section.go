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

package section

import (
	"k8s.io/utils/ptr"

	"github.com/cloudherder/cloudherder/pkg/naming"
	"github.com/cloudherder/cloudherder/pkg/query"
	"github.com/cloudherder/cloudherder/pkg/widget"
)

// Type identifies a section builder.
type Type string

const (
	TypeALB         Type = "alb"
	TypeRDS         Type = "rds"
	TypeSES         Type = "ses"
	TypeBounceQueue Type = "bounceQueue"
	TypePanels      Type = "panels"
)

// String returns the string representation of the Type.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether t names a known section type.
func (t Type) IsValid() bool {
	switch t {
	case TypeALB, TypeRDS, TypeSES, TypeBounceQueue, TypePanels:
		return true
	default:
		return false
	}
}

// Common statistics and periods.
const (
	statSum     = "Sum"
	statAverage = "Average"
	statMinimum = "Minimum"

	fiveMinutes    = 300
	fifteenMinutes = 900
	oneHour        = 3600
)

// leftAxisFromZero is the y-axis used by the send and queue graphs.
func leftAxisFromZero() *widget.YAxis {
	return &widget.YAxis{
		Left: &widget.Axis{
			ShowUnits: ptr.To(true),
			Min:       ptr.To(0.0),
		},
	}
}

// ALBArgs configures the load balancer section.
type ALBArgs struct {
	Prefix       naming.Prefix
	Region       string
	TargetGroup  string
	LoadBalancer string
}

// ALB returns request, status code and healthy host panels for one target
// group behind a load balancer.
func ALB(args ALBArgs) widget.Section {
	dims := []string{"TargetGroup", args.TargetGroup, "LoadBalancer", args.LoadBalancer}
	same := []string{widget.Same, widget.Same, widget.Same, widget.Same}

	return widget.Section{
		widget.SectionHeader(args.Prefix.Label() + " ALB Metrics"),
		widget.NewMetric(0, 1, widget.WidthFull, 3, widget.MetricProperties{
			Metrics: []widget.Metric{
				widget.Row(append([]string{"AWS/ApplicationELB", "RequestCount"}, dims...)...),
				widget.Row(append([]string{widget.Same, "HTTPCode_Target_2XX_Count"}, same...)...),
				widget.Row(append([]string{widget.Same, "HTTPCode_Target_3XX_Count"}, same...)...),
				widget.Row(append([]string{widget.Same, "HTTPCode_Target_4XX_Count"}, same...)...),
				widget.Row(append([]string{widget.Same, "TargetResponseTime"}, same...)...).
					WithOptions(widget.MetricOptions{Stat: statAverage}),
			},
			View:   widget.ViewSingleValue,
			Region: args.Region,
			Stat:   statSum,
			Period: fifteenMinutes,
			Title:  args.Prefix.String() + " Target Group Health",
		}),
		widget.NewMetric(0, 7, widget.WidthFull, 6, widget.MetricProperties{
			Metrics: []widget.Metric{
				widget.Row(append([]string{"AWS/ApplicationELB", "HealthyHostCount"}, dims...)...),
			},
			View:    widget.ViewTimeSeries,
			Stacked: ptr.To(false),
			Region:  args.Region,
			Stat:    statMinimum,
			Period:  fiveMinutes,
		}),
	}
}

// RDSArgs configures the database section.
type RDSArgs struct {
	Prefix     naming.Prefix
	Region     string
	Instance   string
	LogQueries []widget.QueryArgs
}

// rdsLogStart is the first row below the RDS metric panels.
const rdsLogStart = 13

// RDS returns connection, CPU, throughput and network panels for a primary
// instance and its "-replica", followed by one log panel per query.
func RDS(args RDSArgs) widget.Section {
	replica := args.Instance + "-replica"
	rows := func(metric string) []widget.Metric {
		return []widget.Metric{
			widget.Row("AWS/RDS", metric, "DBInstanceIdentifier", args.Instance),
			widget.Row(widget.SameAsAbove, replica),
		}
	}
	quarter := func(x int, metric, title, stat string, period int) widget.Panel {
		return widget.NewMetric(x, 1, widget.WidthQuarter, 6, widget.MetricProperties{
			Metrics: rows(metric),
			View:    widget.ViewTimeSeries,
			Stacked: ptr.To(false),
			Region:  args.Region,
			Stat:    stat,
			Period:  period,
			Title:   title,
		})
	}

	s := widget.Section{
		widget.SectionHeader(args.Prefix.String() + " RDS Metrics"),
		quarter(0, "DatabaseConnections", "Database Connections", statSum, fifteenMinutes),
		quarter(6, "CPUUtilization", "", statAverage, fiveMinutes),
		quarter(12, "WriteThroughput", "", statAverage, fiveMinutes),
		quarter(18, "ReadThroughput", "", statAverage, fiveMinutes),
		widget.NewMetric(0, 7, widget.WidthFull, 6, widget.MetricProperties{
			Metrics: []widget.Metric{
				widget.Row("AWS/RDS", "NetworkReceiveThroughput", "DBInstanceIdentifier", args.Instance),
				widget.Row(widget.SameAsAbove, replica).WithOptions(widget.MetricOptions{Color: "#2ca02c"}),
				widget.Row(widget.Same, "NetworkTransmitThroughput", widget.Same, args.Instance).
					WithOptions(widget.MetricOptions{Color: "#ff7f0e"}),
				widget.Row(widget.SameAsAbove, replica),
			},
			View:    widget.ViewTimeSeries,
			Stacked: ptr.To(false),
			Region:  args.Region,
			Stat:    statSum,
			Period:  oneHour,
			Title:   "Network Traffic",
		}),
	}
	return append(s, widget.NewLogWidgets(args.LogQueries, rdsLogStart, args.Region)...)
}

// RDSLogGroup returns the Postgres log group of instance.
func RDSLogGroup(instance string) string {
	return "/aws/rds/instance/" + instance + "/postgresql"
}

// PostgresErrorQuery lists Postgres log lines that are not plain LOG
// entries, parsed into their prefix fields.
const PostgresErrorQuery = `filter @message not like /:LOG:/
    | parse @message '* * *:*(*):*@*:[*]:*: *' as date,time,timezone,sourceIp,sourcePort,username,database,pid,level,message
    | filter level not in ['LOG']
    | display @logStream,@timestamp,sourceIp,username,database,pid,level,message
    ` + query.Footer

// PostgresErrorQueries returns the default log queries for a Postgres log
// group.
func PostgresErrorQueries(logGroup string) []widget.QueryArgs {
	return []widget.QueryArgs{
		{Name: "psql-error-query", LogGroupName: logGroup, Query: PostgresErrorQuery},
	}
}

// SESArgs configures the email section. BounceQueue is optional.
type SESArgs struct {
	Prefix           naming.Prefix
	Region           string
	ConfigurationSet string
	BounceQueue      *BounceQueueArgs
}

// ConfigurationSetName returns the conventional configuration set name.
func ConfigurationSetName(p naming.Prefix) string {
	return p.String() + "-ses-config-set"
}

// SES returns send statistics for a configuration set. When BounceQueue is
// set, its panels follow in the same section.
func SES(args SESArgs) widget.Section {
	cfg := args.ConfigurationSet
	if cfg == "" {
		cfg = ConfigurationSetName(args.Prefix)
	}
	title := cfg + " SES Config Set Send Statistics"

	rows := func() []widget.Metric {
		return []widget.Metric{
			widget.Row("AWS/SES", "Send", "X-SES-CONFIGURATION-SET", cfg).WithOptions(widget.MetricOptions{Label: "Sent"}),
			widget.Row(widget.Same, "Delivery", widget.Same, widget.Same).WithOptions(widget.MetricOptions{Label: "Delivered"}),
			widget.Row(widget.Same, "Bounce", widget.Same, widget.Same).WithOptions(widget.MetricOptions{Label: "Bounced"}),
			widget.Row(widget.Same, "Reject", widget.Same, widget.Same).WithOptions(widget.MetricOptions{Label: "Rejected"}),
			widget.Row(widget.Same, "Complaint", widget.Same, widget.Same).WithOptions(widget.MetricOptions{Label: "Complaint"}),
		}
	}

	s := widget.Section{
		widget.SectionHeader(args.Prefix.String() + " SES Metrics"),
		widget.NewMetric(0, 1, widget.WidthFull, 3, widget.MetricProperties{
			Metrics: rows(),
			View:    widget.ViewSingleValue,
			Region:  args.Region,
			Stat:    statSum,
			Period:  oneHour,
			Title:   title,
		}),
		widget.NewMetric(0, 4, widget.WidthFull, 6, widget.MetricProperties{
			Metrics:  rows(),
			View:     widget.ViewTimeSeries,
			Stacked:  ptr.To(false),
			Region:   args.Region,
			Stat:     statSum,
			Period:   fiveMinutes,
			Title:    title,
			YAxis:    leftAxisFromZero(),
			Legend:   &widget.Legend{Position: "right"},
			LiveData: ptr.To(false),
		}),
	}
	if args.BounceQueue != nil {
		s = append(s, BounceQueue(*args.BounceQueue)...)
	}
	return s
}

// BounceQueueArgs configures the bounce notification topic and queue
// section.
type BounceQueueArgs struct {
	Prefix naming.Prefix
	Region string
	Topic  string
	Queue  string
}

// bounceQueueStart is the header row of the bounce queue panels, directly
// below the SES panels they are usually combined with.
const bounceQueueStart = 10

// BounceQueue returns SNS publish and SQS message panels side by side.
func BounceQueue(args BounceQueueArgs) widget.Section {
	deployment := naming.Prefix{Org: args.Prefix.Org, Env: args.Prefix.Env, Name: args.Prefix.Name}
	y := bounceQueueStart + 1

	return widget.Section{
		widget.SectionHeaderAt(deployment.String()+" Bounce Queue Metrics", bounceQueueStart),
		widget.NewMetric(0, y, widget.WidthHalf, 3, widget.MetricProperties{
			Metrics: []widget.Metric{
				{Options: &widget.MetricOptions{
					Expression: "IF(m1, 100*(m2/m1))",
					Label:      "NotificationFailureRate",
					ID:         "e1",
					Region:     args.Region,
				}},
				widget.Row("AWS/SNS", "NumberOfNotificationsPublished", "TopicName", args.Topic).
					WithOptions(widget.MetricOptions{ID: "m1"}),
				widget.Row(widget.Same, "NumberOfMessagesFailed", widget.Same, widget.Same).
					WithOptions(widget.MetricOptions{ID: "m2"}),
			},
			View:   widget.ViewSingleValue,
			Region: args.Region,
			Stat:   statSum,
			Period: fifteenMinutes,
			Title:  "SNS Publish Metrics",
		}),
		widget.NewMetric(0, y+3, widget.WidthHalf, 6, widget.MetricProperties{
			Metrics: []widget.Metric{
				widget.Row("AWS/SNS", "NumberOfMessagesPublished", "TopicName", args.Topic).
					WithOptions(widget.MetricOptions{ID: "m1"}),
				widget.Row(widget.Same, "NumberOfNotificationsFailed", widget.Same, widget.Same).
					WithOptions(widget.MetricOptions{ID: "m2"}),
			},
			View:    widget.ViewTimeSeries,
			Stacked: ptr.To(false),
			Region:  args.Region,
			Stat:    statSum,
			Period:  fifteenMinutes,
			Title:   "SNS Publish Metrics Graph",
			YAxis:   leftAxisFromZero(),
		}),
		widget.NewMetric(12, y, widget.WidthHalf, 3, widget.MetricProperties{
			Metrics: []widget.Metric{
				widget.Row("AWS/SQS", "NumberOfMessagesSent", "QueueName", args.Queue),
				widget.Row(widget.Same, "NumberOfMessagesReceived", widget.Same, widget.Same),
				widget.Row(widget.Same, "NumberOfMessagesDeleted", widget.Same, widget.Same),
				widget.Row(widget.Same, "ApproximateAgeOfOldestMessage", widget.Same, widget.Same).
					WithOptions(widget.MetricOptions{Stat: statAverage}),
			},
			View:   widget.ViewSingleValue,
			Region: args.Region,
			Stat:   statSum,
			Period: fifteenMinutes,
			Title:  "SQS Message Metrics",
		}),
		widget.NewMetric(12, y+3, widget.WidthHalf, 6, widget.MetricProperties{
			Metrics: []widget.Metric{
				widget.Row("AWS/SQS", "NumberOfMessagesSent", "QueueName", args.Queue),
				widget.Row(widget.Same, "NumberOfMessagesReceived", widget.Same, widget.Same),
				widget.Row(widget.Same, "NumberOfMessagesDeleted", widget.Same, widget.Same),
			},
			View:    widget.ViewTimeSeries,
			Stacked: ptr.To(false),
			Region:  args.Region,
			Stat:    statSum,
			Period:  fifteenMinutes,
			Title:   "SQS Message Metrics Graph",
			YAxis:   leftAxisFromZero(),
		}),
	}
}

// QueryDefinition is a saved Logs-Insights query bound to log groups.
type QueryDefinition struct {
	Name          string   `json:"name" yaml:"name"`
	LogGroupNames []string `json:"logGroupNames" yaml:"logGroupNames"`
	QueryString   string   `json:"queryString" yaml:"queryString"`
}

// QueryDefinitions returns one saved query per log query.
func QueryDefinitions(queries []widget.QueryArgs) []QueryDefinition {
	out := make([]QueryDefinition, 0, len(queries))
	for _, q := range queries {
		out = append(out, QueryDefinition{
			Name:          q.Name,
			LogGroupNames: []string{q.LogGroupName},
			QueryString:   query.Definition(q.Query),
		})
	}
	return out
}
