package tls

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ErrNoCertificate is returned by GetCertificate before a successful Load.
var ErrNoCertificate = errors.New("no certificate loaded")

// CertificateReloader holds the serving certificate and reloads it when the
// certificate or key file changes on disk.
type CertificateReloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	cert    *tls.Certificate
	certMod time.Time
	keyMod  time.Time
}

// NewCertificateReloader creates a reloader for the given files. A nil
// logger uses slog.Default.
func NewCertificateReloader(certFile, keyFile string, interval time.Duration, logger *slog.Logger) *CertificateReloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Load reads the certificate and key unconditionally.
func (r *CertificateReloader) Load() error {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return fmt.Errorf("certificate file: %w", err)
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return fmt.Errorf("key file: %w", err)
	}

	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}
	if err := ValidateCertificate(&cert, r.now()); err != nil {
		return err
	}

	r.mu.Lock()
	r.cert = &cert
	r.certMod = certInfo.ModTime()
	r.keyMod = keyInfo.ModTime()
	r.mu.Unlock()

	r.logCertificate(&cert)
	return nil
}

// Reload loads the files again if either changed since the last load. It
// reports whether a new certificate is being served. A failed reload keeps
// the previous certificate.
func (r *CertificateReloader) Reload() (bool, error) {
	if !r.changed() {
		return false, nil
	}
	if err := r.Load(); err != nil {
		return false, err
	}
	return true, nil
}

// Run calls Reload every interval until ctx is done.
func (r *CertificateReloader) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reloaded, err := r.Reload()
			if err != nil {
				r.logger.Error("failed to reload certificate",
					"error", err,
					"cert_file", r.certFile,
				)
				continue
			}
			if reloaded {
				r.logger.Info("certificate reloaded", "cert_file", r.certFile)
			}
		}
	}
}

func (r *CertificateReloader) changed() bool {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return false
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return !certInfo.ModTime().Equal(r.certMod) || !keyInfo.ModTime().Equal(r.keyMod)
}

// Certificate returns the certificate being served, or nil before Load.
func (r *CertificateReloader) Certificate() *tls.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *CertificateReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cert := r.Certificate()
	if cert == nil {
		return nil, ErrNoCertificate
	}
	return cert, nil
}

func (r *CertificateReloader) logCertificate(cert *tls.Certificate) {
	leaf, err := Leaf(cert)
	if err != nil {
		return
	}
	remaining := leaf.NotAfter.Sub(r.now())
	attrs := []any{
		"subject", leaf.Subject.CommonName,
		"issuer", leaf.Issuer.CommonName,
		"expires_at", leaf.NotAfter.Format(time.RFC3339),
		"expires_in_days", int(remaining.Hours() / 24),
	}
	if remaining < ExpiryWarning {
		r.logger.Warn("certificate expiring soon", attrs...)
		return
	}
	r.logger.Info("certificate loaded", attrs...)
}
