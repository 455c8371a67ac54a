// Package query builds the Logs-Insights query strings embedded in log panels.
//
// A built query has the shape:
//
//	SOURCE '<logGroupName>'
//	    | fields @timestamp, @message
//	    | <baseQuery>
//
// Build passes the assembled text through Sanitize, which leaves the text
// intact apart from backslash-escaping any '"' or '\' characters it contains.
package query
