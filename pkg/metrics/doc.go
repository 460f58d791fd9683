// Package metrics defines the Prometheus counters exposed by the
// notification server and the handler that serves them.
package metrics
