// Package section provides ready-made dashboard sections for the managed
// resources a deployment typically runs: an application load balancer, a
// Postgres RDS instance, an SES configuration set and its bounce queue.
//
// Each builder returns a widget.Section authored at a local origin of 0, so
// sections can be passed straight to dashboard.Assembler:
//
//	p := naming.Prefix{Org: "pu", Env: "prod", Name: "orders"}
//	alb := section.ALB(section.ALBArgs{
//	    Prefix:       p,
//	    Region:       "us-east-1",
//	    TargetGroup:  "targetgroup/orders/0123456789abcdef",
//	    LoadBalancer: "app/orders/0123456789abcdef",
//	})
package section
