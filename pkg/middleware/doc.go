// Package middleware provides the HTTP middleware chain shared by all
// chronicle routes: request-id tagging, actor extraction, request logging
// and request metrics.
package middleware
