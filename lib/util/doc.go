// Package util provides small shared components used by the store, the
// persistence layer and the RPC server.
//
// The package contains:
//   - metrics: named counters and histograms (backed by VictoriaMetrics/metrics)
//     for commands, sessions and snapshot flushes, plus the Prometheus writer
//     used by the landing page
package util
