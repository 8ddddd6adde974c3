package tls

import "crypto/tls"

// ServerConfig returns a server configuration that takes its certificate
// from r on every handshake.
func ServerConfig(minVersion string, r *CertificateReloader) *tls.Config {
	return &tls.Config{
		MinVersion:     parseMinVersion(minVersion),
		GetCertificate: r.GetCertificate,
	}
}

// parseMinVersion maps "1.2" and "1.3" to their constants. Anything else,
// including TLS 1.0 and 1.1, yields TLS 1.2.
func parseMinVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
