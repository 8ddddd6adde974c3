package main

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"studysharper/flashgate/pkg/cli"
	securityTLS "studysharper/flashgate/pkg/security/tls"
)

var certsInfoCmd = &cobra.Command{
	Use:   "info CERT_FILE",
	Short: "Display certificate details",
	Long: `Display the subject, issuer, validity window and SANs of a PEM
certificate. Use --output json for scripting.

Examples:
  flashgate certs info certs/cert.pem
  flashgate certs info -o json certs/cert.pem`,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runCertsInfo,
}

var certsValidateFlags struct {
	cert string
	key  string
	ca   string
}

var certsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a certificate before serving it",
	Long: `Check that a certificate is currently valid, that it matches its key
(--key) and that it chains to a CA bundle (--ca).

Examples:
  flashgate certs validate --cert certs/cert.pem --key certs/key.pem
  flashgate certs validate --cert server.pem --ca ca.pem`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runCertsValidate,
}

func init() {
	certsCmd.AddCommand(certsInfoCmd)
	certsCmd.AddCommand(certsValidateCmd)

	certsValidateCmd.Flags().StringVar(&certsValidateFlags.cert, "cert", "", "certificate file (required)")
	certsValidateCmd.Flags().StringVar(&certsValidateFlags.key, "key", "", "private key file")
	certsValidateCmd.Flags().StringVar(&certsValidateFlags.ca, "ca", "", "CA bundle to verify the chain against")
	_ = certsValidateCmd.MarkFlagRequired("cert")
}

type certInfo securityTLS.CertificateInfo

func (c certInfo) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", c.Subject)
	fmt.Fprintf(&b, "Issuer:  %s\n", c.Issuer)
	fmt.Fprintf(&b, "Serial:  %s\n", c.SerialNumber)
	fmt.Fprintf(&b, "Valid:   %s to %s\n", c.NotBefore.Format(time.RFC3339), c.NotAfter.Format(time.RFC3339))
	switch {
	case c.Expired:
		fmt.Fprintf(&b, "Status:  ✗ expired on %s\n", c.NotAfter.Format("2006-01-02"))
	case c.ExpiringSoon:
		fmt.Fprintf(&b, "Status:  ⚠ expires in %d days\n", c.DaysRemaining)
	default:
		fmt.Fprintf(&b, "Status:  ✓ valid (%d days remaining)\n", c.DaysRemaining)
	}
	if len(c.DNSNames) > 0 {
		fmt.Fprintf(&b, "DNS:     %s\n", strings.Join(c.DNSNames, ", "))
	}
	if len(c.IPAddresses) > 0 {
		fmt.Fprintf(&b, "IP:      %s\n", strings.Join(c.IPAddresses, ", "))
	}
	fmt.Fprintf(&b, "Keys:    %s / %s", c.PublicKeyAlgorithm, c.SignatureAlgorithm)
	return b.String()
}

func runCertsInfo(cmd *cobra.Command, args []string) error {
	cert, err := securityTLS.ReadCertificate(args[0])
	if err != nil {
		return cli.NewCommandError("certs info", err)
	}
	info := certInfo(securityTLS.Inspect(cert, time.Now()))
	return render(cmd, info, info)
}

func runCertsValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	now := time.Now()

	cert, err := securityTLS.ReadCertificate(certsValidateFlags.cert)
	if err != nil {
		return cli.NewCommandError("certs validate", err)
	}

	if certsValidateFlags.key != "" {
		if _, err := tls.LoadX509KeyPair(certsValidateFlags.cert, certsValidateFlags.key); err != nil {
			fmt.Fprintln(out, "✗ Certificate and key do not match")
			return cli.NewCommandError("certs validate", err)
		}
		fmt.Fprintln(out, "✓ Certificate and key match")
	}

	if certsValidateFlags.ca != "" {
		caPEM, err := os.ReadFile(certsValidateFlags.ca)
		if err != nil {
			return cli.NewCommandError("certs validate", err)
		}
		if err := securityTLS.VerifyChain(cert, caPEM, now); err != nil {
			fmt.Fprintln(out, "✗ Certificate chain invalid")
			return cli.NewCommandError("certs validate", err)
		}
		fmt.Fprintln(out, "✓ Certificate chain valid")
	}

	info := securityTLS.Inspect(cert, now)
	if now.Before(info.NotBefore) {
		return cli.NewCommandError("certs validate", errors.New("certificate is not yet valid"))
	}
	if info.Expired {
		fmt.Fprintf(out, "✗ Certificate expired on %s\n", info.NotAfter.Format("2006-01-02"))
		return cli.NewCommandError("certs validate", errors.New("certificate expired"))
	}
	fmt.Fprintf(out, "✓ Certificate valid until %s\n", info.NotAfter.Format("2006-01-02"))
	if info.ExpiringSoon {
		fmt.Fprintf(out, "⚠ Certificate expires in %d days\n", info.DaysRemaining)
	}
	return nil
}
