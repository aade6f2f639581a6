/*
Package observability turns runner lifecycle events into logs and metrics.

Hooks built here plug into domain.LifecycleHooks: LogHooks writes structured
slog records, Metrics records Prometheus counters, and Compose fans one event
out to several hook sets.
*/
package observability
