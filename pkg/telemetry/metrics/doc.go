// Package metrics exposes flashgate's Prometheus metrics.
//
// Metrics (namespace and subsystem default to "flashgate" and "proxy"):
//   - flashgate_proxy_requests_total{route,method,code}: inbound requests answered
//   - flashgate_proxy_rejections_total{route,reason}: requests answered without a backend call
//   - flashgate_proxy_backend_request_duration_seconds{route}: backend round trip latency
//   - flashgate_proxy_backend_errors_total{route,kind}: backend transport failures and non-2xx answers
//   - flashgate_proxy_backend_up: 1 when the last backend probe succeeded
//   - flashgate_proxy_backend_probe_duration_seconds: last probe latency
//
// A Collector owns its registry, so tests can create as many as they like.
package metrics
