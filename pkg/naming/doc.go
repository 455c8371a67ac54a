// Package naming derives resource names from a deployment prefix.
//
// Every dashboard, log group and metric dimension the engine references is
// built from one Prefix, so the naming convention is configuration rather
// than code:
//
//	p := naming.Prefix{Org: "pu", Env: "prod", Name: "orders", ServiceID: "api"}
//	p.String()          // "pu-prod-orders-api"
//	p.Dashboard()       // "pu-prod-orders-api-dashboard"
//	naming.DefaultLogGroups(p.String())
package naming
