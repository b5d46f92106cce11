package util

import (
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Metric names
// --------------------------------------------------------------------------

const (
	metricCommands       = `redidb_commands_total{command=%q}`
	metricCommandErrors  = `redidb_command_errors_total{command=%q}`
	metricAuthFailures   = `redidb_auth_failures_total`
	metricSessionsActive = `redidb_sessions_active`
	metricFlushes        = `redidb_snapshot_flushes_total`
	metricFlushErrors    = `redidb_snapshot_flush_errors_total`
	metricFlushDuration  = `redidb_snapshot_flush_duration_seconds`
	metricLoadFailures   = `redidb_snapshot_load_failures_total`
)

// --------------------------------------------------------------------------
// Session and command metrics
// --------------------------------------------------------------------------

// CountCommand records a handled command and whether it failed.
//
// Thread-safe: This method is safe for concurrent use
func CountCommand(command string, failed bool) {
	metrics.GetOrCreateCounter(fmt.Sprintf(metricCommands, command)).Inc()
	if failed {
		metrics.GetOrCreateCounter(fmt.Sprintf(metricCommandErrors, command)).Inc()
	}
}

// CountAuthFailure records a rejected auth handshake.
func CountAuthFailure() {
	metrics.GetOrCreateCounter(metricAuthFailures).Inc()
}

// SessionOpened increments the number of active sessions.
func SessionOpened() {
	metrics.GetOrCreateCounter(metricSessionsActive).Inc()
}

// SessionClosed decrements the number of active sessions.
func SessionClosed() {
	metrics.GetOrCreateCounter(metricSessionsActive).Dec()
}

// --------------------------------------------------------------------------
// Persistence metrics
// --------------------------------------------------------------------------

// ObserveFlush records a snapshot flush that started at start.
func ObserveFlush(start time.Time, err error) {
	metrics.GetOrCreateCounter(metricFlushes).Inc()
	metrics.GetOrCreateHistogram(metricFlushDuration).UpdateDuration(start)
	if err != nil {
		metrics.GetOrCreateCounter(metricFlushErrors).Inc()
	}
}

// CountLoadFailure records a snapshot that could not be loaded at startup.
func CountLoadFailure() {
	metrics.GetOrCreateCounter(metricLoadFailures).Inc()
}

// FlushErrors returns the number of failed flushes since process start.
func FlushErrors() uint64 {
	return metrics.GetOrCreateCounter(metricFlushErrors).Get()
}

// --------------------------------------------------------------------------
// Export
// --------------------------------------------------------------------------

// WritePrometheus writes all metrics in Prometheus text format to w.
func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, true)
}
