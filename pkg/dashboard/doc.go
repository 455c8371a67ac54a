// Package dashboard assembles stacked sections into a dashboard body
// document.
//
// Assemble stacks the given sections and closes the dashboard with a "Log
// Ingestion Metrics" section charting hourly events of the deployment's
// log groups:
//
//	a := dashboard.NewAssembler(
//	    dashboard.WithResourcePrefix("pu-prod-orders"),
//	    dashboard.WithRegion("us-east-1"),
//	)
//	d, err := a.Assemble(albSection, rdsSection)
//	if err != nil {
//	    return err
//	}
//	body, err := d.BodyJSON()
//
// Compose is the same without the closing section and is used for
// dashboards scoped to a single resource.
package dashboard
