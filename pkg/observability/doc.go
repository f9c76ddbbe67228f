/*
Package observability turns simulator lifecycle events into Prometheus
metrics and structured log records.

Both are exposed as domain.LifecycleHooks so they can be chained and passed
to the simulator with turing.WithLifecycleHooks.
*/
package observability
