// Package trail is the durable, queryable audit log of actions taken on
// managed content.
//
// # Event Index
//
// Each AuditEvent projects the attributes usable as filter and sort keys:
// event id, correlation id, category, name, actor name and creation time,
// plus an opaque payload. Content-related events embed a content.Snapshot
// there.
//
// Events are append-only: created once at the time of the audited action,
// never mutated, removed only by retention cleanup.
//
// # Stores
//
// DBStore compiles filter queries to PostgreSQL; MemStore evaluates them
// in memory with identical semantics, for tests and dev mode.
//
// # HTTP API
//
//	GET  /trail/events?q=<filter>&limit=&offset=
//	POST /trail/events
//	GET  /trail/events/{id}
//	GET  /trail/export?q=<filter>&format=json|csv|ndjson
//	GET  /trail/categories
package trail
