// Package logging provides structured logging utilities for cloudherder components.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so the CLI and the API server emit the same JSON records. It supports
// environment-based log level configuration, module/version context injection,
// and source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("herderd", version)
//	    slog.Info("rendering dashboard", "name", d.Name, "panels", len(d.Body.Widgets))
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("herder", "v1.0.0", "warn")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug herder render -f dashboard.yaml
//	LOG_LEVEL=error herderd
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "dashboard assembled",
//	    "module": "herder",
//	    "version": "v1.0.0",
//	    "panels": 14
//	}
package logging
