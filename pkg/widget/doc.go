// Package widget models dashboard panels and the constructors used to
// author them.
//
// A Panel is a value positioned on a 24 column grid. Its payload is one of
// three property variants, and the panel type written to the document is
// derived from that variant:
//
//	TextProperties   -> "text"
//	LogProperties    -> "log"
//	MetricProperties -> "metric"
//
// Sections are authored with y-coordinates relative to their own origin and
// placed onto the dashboard by the layout package.
//
// Usage:
//
//	section := widget.Section{
//	    widget.SectionHeader("orders ALB Metrics"),
//	    widget.NewMetric(0, 1, widget.WidthFull, 3, widget.MetricProperties{
//	        Metrics: []widget.Metric{
//	            widget.Row("AWS/ApplicationELB", "RequestCount", "TargetGroup", tg),
//	        },
//	        View:   widget.ViewSingleValue,
//	        Region: "us-east-1",
//	        Stat:   "Sum",
//	        Period: 900,
//	    }),
//	}
//
// Log panels embed a query built by the query package:
//
//	panels := widget.NewLogWidgets([]widget.QueryArgs{
//	    {Name: "errors", LogGroupName: lg, Query: "filter @message like /ERROR/"},
//	}, 7, "us-east-1")
package widget
