/*
Package tls serves the proxy over HTTPS.

A CertificateReloader loads the certificate and key from disk and checks the
files for changes on an interval, so renewed certificates are served without
a restart:

	reloader := tls.NewCertificateReloader(certFile, keyFile, 5*time.Minute, logger)
	if err := reloader.Load(); err != nil {
		return err
	}
	go reloader.Run(ctx)

	srv.TLSConfig = tls.ServerConfig("1.2", reloader)
	err := srv.ServeTLS(ln, "", "")

Expired or not-yet-valid certificates are rejected when loaded. A
certificate that expires within ExpiryWarning is logged at warn level.
*/
package tls
