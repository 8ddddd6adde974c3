// Package health serves the proxy's liveness and readiness endpoints.
//
// Liveness only reports that the process is up. Readiness aggregates the
// registered checks; the main one is the backend check, which reports the
// cached result of a Prober that polls the backend's health path on a cron
// schedule. Readiness requests never call the backend directly.
package health
