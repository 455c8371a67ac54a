package widget

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"k8s.io/utils/ptr"

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
	"github.com/cloudherder/cloudherder/pkg/query"
)

func TestSectionHeader(t *testing.T) {
	p := SectionHeader("orders ALB Metrics")

	assert.Equal(t, TypeText, p.Type())
	assert.Equal(t, 1, p.Height)
	assert.Equal(t, WidthFull, p.Width)
	assert.Equal(t, 0, p.X)
	assert.Equal(t, 0, p.Y)
	assert.Equal(t, TextProperties{Markdown: "# orders ALB Metrics"}, p.Properties)
	assert.NoError(t, p.Validate())

	at := SectionHeaderAt("Log Ingestion Metrics", 17)
	assert.Equal(t, 17, at.Y)
}

func TestNewLogWidget(t *testing.T) {
	p := NewLogWidget(LogWidgetArgs{
		X:            0,
		Y:            13,
		LogGroupName: "/aws/rds/instance/db/postgresql",
		BaseQuery:    "filter @message like /ERROR/",
		Title:        "errors",
		Region:       "us-east-1",
	})

	require.Equal(t, TypeLog, p.Type())
	assert.Equal(t, LogHeight, p.Height)
	assert.Equal(t, WidthFull, p.Width)
	assert.Equal(t, 13, p.Y)

	props, ok := p.Properties.(LogProperties)
	require.True(t, ok)
	assert.Equal(t, query.Build("/aws/rds/instance/db/postgresql", "filter @message like /ERROR/"), props.Query)
	assert.Equal(t, "table", props.View)
	assert.False(t, props.Stacked)
	assert.Equal(t, "us-east-1", props.Region)
	assert.NoError(t, p.Validate())
}

func TestNewLogWidgets(t *testing.T) {
	queries := []QueryArgs{
		{Name: "a", LogGroupName: "g", Query: "filter 1"},
		{Name: "b", LogGroupName: "g", Query: "filter 2"},
		{Name: "c", LogGroupName: "g", Query: "filter 3"},
	}

	panels := NewLogWidgets(queries, 13, "eu-west-1")
	require.Len(t, panels, 3)

	for i, p := range panels {
		assert.Equal(t, 13+6*i, p.Y)
		assert.Equal(t, queries[i].Name+" Log Query Results", p.Properties.(LogProperties).Title)
	}

	assert.Empty(t, NewLogWidgets(nil, 0, "eu-west-1"))
}

func TestPanelWithYReturnsCopy(t *testing.T) {
	orig := SectionHeader("x")
	moved := orig.WithY(9)

	assert.Equal(t, 0, orig.Y)
	assert.Equal(t, 9, moved.Y)
	assert.Equal(t, 10, moved.Bottom())
}

func TestPanelValidate(t *testing.T) {
	metric := MetricProperties{
		Metrics: []Metric{Row("AWS/Logs", "IncomingLogEvents")},
		View:    ViewSingleValue,
		Stat:    "Sum",
		Period:  3600,
	}

	tests := []struct {
		name    string
		panel   Panel
		wantErr bool
		field   string
	}{
		{name: "valid metric", panel: NewMetric(0, 0, WidthFull, 3, metric)},
		{name: "valid quarter at right edge", panel: NewMetric(18, 0, WidthQuarter, 6, metric)},
		{name: "nil properties", panel: Panel{Height: 1, Width: WidthFull}, wantErr: true},
		{name: "zero height", panel: NewMetric(0, 0, WidthFull, 0, metric), wantErr: true, field: "height"},
		{name: "unsupported width", panel: NewMetric(0, 0, Width(8), 3, metric), wantErr: true, field: "width"},
		{name: "negative x", panel: NewMetric(-1, 0, WidthHalf, 3, metric), wantErr: true, field: "x"},
		{name: "negative y", panel: NewMetric(0, -2, WidthHalf, 3, metric), wantErr: true, field: "y"},
		{name: "overflows grid", panel: NewMetric(18, 0, WidthHalf, 3, metric), wantErr: true, field: "x"},
		{
			name:    "metric without rows",
			panel:   NewMetric(0, 0, WidthFull, 3, MetricProperties{View: ViewTimeSeries}),
			wantErr: true,
			field:   "properties.metrics",
		},
		{
			name:    "metric bad view",
			panel:   NewMetric(0, 0, WidthFull, 3, MetricProperties{Metrics: metric.Metrics, View: "pie"}),
			wantErr: true,
			field:   "properties.view",
		},
		{
			name:    "log without query",
			panel:   Panel{Height: 6, Width: WidthFull, Properties: LogProperties{View: LogView}},
			wantErr: true,
			field:   "properties.query",
		},
		{
			name:    "log wrong view",
			panel:   Panel{Height: 6, Width: WidthFull, Properties: LogProperties{Query: "q", View: "chart"}},
			wantErr: true,
			field:   "properties.view",
		},
		{
			name:    "text without markdown",
			panel:   Panel{Height: 1, Width: WidthFull, Properties: TextProperties{}},
			wantErr: true,
			field:   "properties.markdown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.panel.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeInvalidRequest))
			if tt.field != "" {
				var se *cnserrors.StructuredError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tt.field, se.Context["field"])
			}
		})
	}
}

func TestPanelJSONShape(t *testing.T) {
	p := NewMetric(0, 1, WidthFull, 3, MetricProperties{
		Metrics: []Metric{
			Row("AWS/Logs", "IncomingLogEvents", "LogGroupName", "a-log-grp"),
			Row(SameAsAbove, "b-log-grp"),
		},
		View:    ViewSingleValue,
		Stacked: ptr.To(false),
		Region:  "us-east-1",
		Stat:    "Sum",
		Period:  3600,
		Title:   "Log Group Events per Hour",
	})

	data, err := json.Marshal(p)
	require.NoError(t, err)

	want := `{"height":3,"width":24,"x":0,"y":1,"type":"metric","properties":{` +
		`"metrics":[["AWS/Logs","IncomingLogEvents","LogGroupName","a-log-grp"],["...","b-log-grp"]],` +
		`"view":"singleValue","stacked":false,"region":"us-east-1","stat":"Sum","period":3600,` +
		`"title":"Log Group Events per Hour"}}`
	assert.JSONEq(t, want, string(data))

	var back Panel
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}

func TestPanelJSONUnknownType(t *testing.T) {
	var p Panel
	err := json.Unmarshal([]byte(`{"height":1,"width":24,"type":"gauge","properties":{}}`), &p)
	require.Error(t, err)
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeInvalidRequest))
}

func TestPanelYAML(t *testing.T) {
	doc := `
height: 6
width: 24
x: 0
y: 7
type: log
properties:
  query: "SOURCE 'g'"
  region: us-east-1
  stacked: false
  title: errors
  view: table
`
	var p Panel
	require.NoError(t, yaml.Unmarshal([]byte(doc), &p))
	assert.Equal(t, TypeLog, p.Type())
	assert.Equal(t, 7, p.Y)
	assert.Equal(t, "errors", p.Properties.(LogProperties).Title)

	out, err := yaml.Marshal(p)
	require.NoError(t, err)

	var back Panel
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, p, back)
}

func TestMetricRowOptions(t *testing.T) {
	row := Row("AWS/SNS", "NumberOfNotificationsPublished", "TopicName", "bounces").
		WithOptions(MetricOptions{ID: "m1"})

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `["AWS/SNS","NumberOfNotificationsPublished","TopicName","bounces",{"id":"m1"}]`, string(data))

	expr := Expression("IF(m1, 100*(m2/m1))", "NotificationFailureRate", "e1")
	data, err = json.Marshal(expr)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"expression":"IF(m1, 100*(m2/m1))","label":"NotificationFailureRate","id":"e1"}]`, string(data))

	var back Metric
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Empty(t, back.Fields)
	require.NotNil(t, back.Options)
	assert.Equal(t, "e1", back.Options.ID)
}

func TestMetricRowRejectsMisplacedOptions(t *testing.T) {
	var m Metric
	assert.Error(t, json.Unmarshal([]byte(`[{"id":"m1"},"AWS/SNS"]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`["AWS/SNS", 3]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"id":"m1"}`), &m))

	assert.Error(t, yaml.Unmarshal([]byte(`[{id: m1}, AWS/SNS]`), &m))
	assert.Error(t, yaml.Unmarshal([]byte(`id: m1`), &m))
}

func TestMetricRowYAML(t *testing.T) {
	var m Metric
	require.NoError(t, yaml.Unmarshal([]byte(`[AWS/SQS, NumberOfMessagesSent, QueueName, q, {stat: Average}]`), &m))
	assert.Equal(t, []string{"AWS/SQS", "NumberOfMessagesSent", "QueueName", "q"}, m.Fields)
	require.NotNil(t, m.Options)
	assert.Equal(t, "Average", m.Options.Stat)
}

func TestWidthAndViewHelpers(t *testing.T) {
	for _, w := range SupportedWidths() {
		assert.True(t, w.IsValid())
	}
	assert.False(t, Width(0).IsValid())
	assert.True(t, ViewTimeSeries.IsValid())
	assert.False(t, MetricView("bar").IsValid())
	assert.True(t, TypeMetric.IsValid())
	assert.False(t, Type("gauge").IsValid())
	assert.Equal(t, "log", TypeLog.String())
}

func TestPanelJSONDoesNotEscapeHTML(t *testing.T) {
	p := NewLogWidget(LogWidgetArgs{
		LogGroupName: "g",
		BaseQuery:    "filter duration > 100 and status < 500",
		Title:        "slow & failing",
		Region:       "us-east-1",
	})

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(p))
	data := buf.Bytes()
	assert.Contains(t, string(data), "duration > 100 and status < 500")
	assert.Contains(t, string(data), "slow & failing")
}
