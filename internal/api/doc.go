// Package api contains the HTTP handlers binding the analysis task
// engine to the REST surface: task submission, status/result polling,
// listing, deletion, the analyst catalog and health endpoints.
//
// Handlers translate internal errors to status codes via
// MapErrorToStatusCode and only ever send sanitized messages to clients;
// full errors go to the structured log with the request's trace ID.
package api
