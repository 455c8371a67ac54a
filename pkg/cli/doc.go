// Package cli implements the herder command-line interface.
//
// # Overview
//
// herder turns dashboard definitions into CloudWatch-style dashboard
// documents. A definition names the deployment prefix, the region and an
// ordered list of sections; herder stacks the sections onto a 24 column grid,
// closes the dashboard with a log ingestion section and writes the result.
//
// # Commands
//
// render - Render one definition:
//
//	herder render -d orders.yaml [--body | --queries] [-o FILE] [-t json|yaml|table]
//
// validate - Check definitions without writing anything:
//
//	herder validate -d orders.yaml -d billing.json
//
// query - Print the sanitized query text of a log panel:
//
//	herder query -g pu-dev-orders-log-grp -q 'filter @message like /ERROR/'
//
// bundle - Render many definitions into a directory or OCI artifact:
//
//	herder bundle -d orders.yaml -d billing.json -o ./dashboards
//	herder bundle -d orders.yaml -o oci://ghcr.io/acme/dashboards:v1
//
// # Global Flags
//
//	--log-level   debug, info, warn or error (env HERDER_LOG_LEVEL, LOG_LEVEL)
//	--help, -h    Show command help
//	--version, -v Show version information
//
// # Inputs and Outputs
//
// Definitions are read from files, HTTP(S) URLs or ConfigMaps
// (cm://namespace/name). Output goes to stdout by default, or to the path
// given with --output, which also accepts cm:// targets. JSON output never
// escapes HTML characters, so query operators such as "<" and "&" are
// written verbatim.
//
// Environment variables prefixed with HERDER_ provide defaults for most
// flags; explicit flags take precedence.
package cli
