package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"studysharper/flashgate/pkg/cli"
	securityTLS "studysharper/flashgate/pkg/security/tls"
)

var certsCmd = &cobra.Command{
	Use:   "certs",
	Short: "Manage TLS certificates for the proxy",
	Long: `Manage TLS certificates used when proxy.tls.enabled is set.

Examples:
  # Generate a development certificate for localhost
  flashgate certs generate --host localhost,127.0.0.1 --output-dir certs/

  # Inspect it and check it matches its key
  flashgate certs info certs/cert.pem
  flashgate certs validate --cert certs/cert.pem --key certs/key.pem`,
}

var certsGenerateFlags struct {
	hosts    []string
	validity int
	output   string
}

var certsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a self-signed certificate",
	Long: `Generate a self-signed ECDSA certificate and key for local HTTPS.

Self-signed certificates are for development only. Browsers will warn
about them until the certificate is trusted locally.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runCertsGenerate,
}

func init() {
	rootCmd.AddCommand(certsCmd)
	certsCmd.AddCommand(certsGenerateCmd)

	certsGenerateCmd.Flags().StringSliceVar(&certsGenerateFlags.hosts, "host", []string{"localhost", "127.0.0.1"}, "hostnames and IPs the certificate is valid for")
	certsGenerateCmd.Flags().IntVar(&certsGenerateFlags.validity, "validity", 365, "validity in days")
	certsGenerateCmd.Flags().StringVar(&certsGenerateFlags.output, "output-dir", "certs", "output directory")
}

func runCertsGenerate(cmd *cobra.Command, args []string) error {
	var hosts []string
	for _, h := range certsGenerateFlags.hosts {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	if len(hosts) == 0 {
		return cli.NewConfigError("host", "at least one host is required")
	}
	if certsGenerateFlags.validity <= 0 {
		return cli.NewConfigError("validity", "must be a positive number of days")
	}

	validity := time.Duration(certsGenerateFlags.validity) * 24 * time.Hour
	certPEM, keyPEM, err := securityTLS.GenerateSelfSigned(hosts, validity)
	if err != nil {
		return cli.NewCommandError("certs generate", err)
	}
	certPath, keyPath, err := securityTLS.WriteKeyPair(certsGenerateFlags.output, certPEM, keyPEM)
	if err != nil {
		return cli.NewCommandError("certs generate", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Certificate: %s\n", certPath)
	fmt.Fprintf(out, "✓ Private key: %s\n", keyPath)
	fmt.Fprintf(out, "  Hosts: %s\n", strings.Join(hosts, ", "))
	fmt.Fprintf(out, "  Valid for %d days\n", certsGenerateFlags.validity)
	return nil
}
