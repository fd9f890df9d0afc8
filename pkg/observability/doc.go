/*
Package observability turns engine lifecycle events into Prometheus metrics and
structured log lines.

Both are delivered as domain.LifecycleHooks; Combine merges several sets so a host
can register metrics and logging at once.
*/
package observability
