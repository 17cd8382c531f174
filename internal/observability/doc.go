// Package observability builds the process logger and records HTTP request
// metrics.
package observability
