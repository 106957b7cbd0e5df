// Package logging provides a simple leveled logging interface for the
// RAW loader service and its command line tools.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (per-tier extraction outcomes)
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced with SetLevel (the rawdev CLI does this for its -v flag).
//
// Prefixed returns a Logger that tags every line with a component name,
// which the extraction tiers use to keep concurrent slot output readable.
package logging
