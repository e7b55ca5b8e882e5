// Package logging provides a small leveled logger for the preview pipeline.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the process
//
// The log level is configured via the LOG_LEVEL environment variable (DEBUG=1
// forces debug). All output goes to standard error: standard output is reserved
// for the JSON result written by the command-line entry point.
//
// Messages that belong to one job are written through a JobLogger obtained
// from ForJob, which prefixes each line with the job identifier.
package logging
