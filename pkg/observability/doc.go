// Package observability provides structured logging, Prometheus metrics
// and health probes for the chronicle service.
//
// Logging is JSON via stdlib slog, with request id and actor propagated
// through context. Metrics cover the HTTP surface plus the two domain
// operations: trail searches and restore attempts (labelled by outcome).
package observability
