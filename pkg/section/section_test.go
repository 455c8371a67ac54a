package section

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudherder/cloudherder/pkg/layout"
	"github.com/cloudherder/cloudherder/pkg/naming"
	"github.com/cloudherder/cloudherder/pkg/widget"
)

var testPrefix = naming.Prefix{Org: "pu", Env: "dev", Name: "orders"}

func geometry(s widget.Section) [][4]int {
	out := make([][4]int, 0, len(s))
	for _, p := range s {
		out = append(out, [4]int{p.X, p.Y, int(p.Width), p.Height})
	}
	return out
}

func requireValid(t *testing.T, s widget.Section) {
	t.Helper()
	for i, p := range s {
		require.NoError(t, p.Validate(), "panel %d", i)
	}
}

func TestALB(t *testing.T) {
	p := testPrefix
	p.ServiceID = "api"
	s := ALB(ALBArgs{Prefix: p, Region: "us-east-1", TargetGroup: "tg", LoadBalancer: "lb"})
	requireValid(t, s)

	assert.Equal(t, [][4]int{{0, 0, 24, 1}, {0, 1, 24, 3}, {0, 7, 24, 6}}, geometry(s))
	assert.Equal(t, widget.TextProperties{Markdown: "# pu-dev-orders Api ALB Metrics"}, s[0].Properties)

	health := s[1].Properties.(widget.MetricProperties)
	assert.Equal(t, "pu-dev-orders-api Target Group Health", health.Title)
	assert.Equal(t, 900, health.Period)
	require.Len(t, health.Metrics, 5)
	assert.Equal(t, []string{"AWS/ApplicationELB", "RequestCount", "TargetGroup", "tg", "LoadBalancer", "lb"}, health.Metrics[0].Fields)
	assert.Equal(t, []string{".", "HTTPCode_Target_4XX_Count", ".", ".", ".", "."}, health.Metrics[3].Fields)
	require.NotNil(t, health.Metrics[4].Options)
	assert.Equal(t, "Average", health.Metrics[4].Options.Stat)

	hosts := s[2].Properties.(widget.MetricProperties)
	assert.Equal(t, "Minimum", hosts.Stat)
	assert.Empty(t, hosts.Title)
}

func TestRDS(t *testing.T) {
	lg := RDSLogGroup("orders-db")
	s := RDS(RDSArgs{Prefix: testPrefix, Region: "us-east-1", Instance: "orders-db", LogQueries: PostgresErrorQueries(lg)})
	requireValid(t, s)

	assert.Equal(t, [][4]int{
		{0, 0, 24, 1},
		{0, 1, 6, 6}, {6, 1, 6, 6}, {12, 1, 6, 6}, {18, 1, 6, 6},
		{0, 7, 24, 6},
		{0, 13, 24, 6},
	}, geometry(s))

	conns := s[1].Properties.(widget.MetricProperties)
	assert.Equal(t, "Database Connections", conns.Title)
	assert.Equal(t, []string{"...", "orders-db-replica"}, conns.Metrics[1].Fields)

	network := s[5].Properties.(widget.MetricProperties)
	assert.Equal(t, "Network Traffic", network.Title)
	assert.Equal(t, "#ff7f0e", network.Metrics[2].Options.Color)

	logs := s[6].Properties.(widget.LogProperties)
	assert.Equal(t, "psql-error-query Log Query Results", logs.Title)
	assert.True(t, strings.HasPrefix(logs.Query, "SOURCE '/aws/rds/instance/orders-db/postgresql'"))
	assert.True(t, strings.HasSuffix(logs.Query, "| limit 40"))
}

func TestRDSWithoutQueries(t *testing.T) {
	s := RDS(RDSArgs{Prefix: testPrefix, Instance: "db"})
	assert.Len(t, s, 6)
}

func TestSESWithBounceQueue(t *testing.T) {
	s := SES(SESArgs{
		Prefix: testPrefix,
		Region: "eu-west-1",
		BounceQueue: &BounceQueueArgs{
			Prefix: testPrefix,
			Region: "eu-west-1",
			Topic:  "bounces",
			Queue:  "bounce-q",
		},
	})
	requireValid(t, s)

	assert.Equal(t, [][4]int{
		{0, 0, 24, 1}, {0, 1, 24, 3}, {0, 4, 24, 6},
		{0, 10, 24, 1},
		{0, 11, 12, 3}, {0, 14, 12, 6}, {12, 11, 12, 3}, {12, 14, 12, 6},
	}, geometry(s))

	stats := s[1].Properties.(widget.MetricProperties)
	assert.Equal(t, "pu-dev-orders-ses-config-set SES Config Set Send Statistics", stats.Title)
	assert.Equal(t, "Bounced", stats.Metrics[2].Options.Label)

	graph := s[2].Properties.(widget.MetricProperties)
	require.NotNil(t, graph.Legend)
	assert.Equal(t, "right", graph.Legend.Position)
	require.NotNil(t, graph.LiveData)
	assert.False(t, *graph.LiveData)

	assert.Equal(t, widget.TextProperties{Markdown: "# pu-dev-orders Bounce Queue Metrics"}, s[3].Properties)

	data, err := json.Marshal(s[4])
	require.NoError(t, err)
	assert.Contains(t, string(data),
		`[{"expression":"IF(m1, 100*(m2/m1))","label":"NotificationFailureRate","id":"e1","region":"eu-west-1"}]`)
}

func TestSESWithoutBounceQueue(t *testing.T) {
	s := SES(SESArgs{Prefix: testPrefix, ConfigurationSet: "custom"})
	require.Len(t, s, 3)
	assert.Equal(t, "custom SES Config Set Send Statistics", s[1].Properties.(widget.MetricProperties).Title)
}

func TestBounceQueueDropsServiceID(t *testing.T) {
	p := testPrefix
	p.ServiceID = "mailer"
	s := BounceQueue(BounceQueueArgs{Prefix: p, Topic: "t", Queue: "q"})
	assert.Equal(t, widget.TextProperties{Markdown: "# pu-dev-orders Bounce Queue Metrics"}, s[0].Properties)
}

func TestSectionsStack(t *testing.T) {
	alb := ALB(ALBArgs{Prefix: testPrefix, TargetGroup: "tg", LoadBalancer: "lb"})
	rds := RDS(RDSArgs{Prefix: testPrefix, Instance: "db"})

	res, err := layout.Stack([]widget.Section{alb, rds})
	require.NoError(t, err)

	// ALB ends at 13, so the RDS header lands there.
	assert.Equal(t, 13, res.Panels[3].Y)
	assert.Equal(t, 26, res.Floor)
}

func TestQueryDefinitions(t *testing.T) {
	defs := QueryDefinitions(PostgresErrorQueries("lg"))
	require.Len(t, defs, 1)
	assert.Equal(t, "psql-error-query", defs[0].Name)
	assert.Equal(t, []string{"lg"}, defs[0].LogGroupNames)
	assert.True(t, strings.HasPrefix(defs[0].QueryString, "fields @timestamp, @message\n    | filter @message not like /:LOG:/"))
}

func TestTypeIsValid(t *testing.T) {
	for _, typ := range []Type{TypeALB, TypeRDS, TypeSES, TypeBounceQueue, TypePanels} {
		assert.True(t, typ.IsValid(), typ.String())
	}
	assert.False(t, Type("lambda").IsValid())
}
