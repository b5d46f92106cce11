// Package landing implements the optional HTTP server of rediDB. It serves a
// static page on "/" and the process metrics in Prometheus text format on
// "/metrics". The database protocol itself never goes through HTTP.
package landing
