package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
)

// configureTLS sets up TLS configuration based on the mode
func (s *Server) configureTLS(ctx context.Context, httpServer *http.Server) error {
	addr := httpServer.Addr

	switch s.TLSConfig.Mode {
	case "server":
		fmt.Printf("Starting server with HTTPS (server-only TLS) on https://%s\n", addr)
		fmt.Println("TLS mode: Server-only (no client certificates required)")
	case "mutual":
		fmt.Printf("Starting server with mTLS (mutual TLS) on https://%s\n", addr)
		fmt.Println("TLS mode: Mutual (client certificates required)")
	case "disabled", "":
		fmt.Printf("Starting server on http://%s\n", addr)
		fmt.Println("TLS mode: Disabled (HTTP only)")
		return nil
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", s.TLSConfig.Mode)
	}

	certManager := NewCertificateManager(&s.TLSConfig, s.Logger)
	certManager.AddReloadCallback(func(success bool, err error) {
		if !success {
			s.Logger.LogError(err, "Failed to reload TLS certificates")
		}
	})
	if err := certManager.Start(ctx); err != nil {
		return err
	}
	s.CertificateManager = certManager
	if certManager.Watching() {
		fmt.Println("TLS auto-reload: ENABLED (file watching)")
	}

	tlsConfig, err := s.buildTLSConfig()
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	httpServer.TLSConfig = tlsConfig
	return nil
}

// buildTLSConfig creates the TLS configuration around the certificate manager
func (s *Server) buildTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:     tlsVersion(s.TLSConfig.MinVersion),
		GetCertificate: s.CertificateManager.GetServerCertificate,
		ClientAuth:     tls.NoClientCert,
	}

	if s.TLSConfig.Mode != "mutual" {
		return tlsConfig, nil
	}

	pool := s.CertificateManager.GetCACertPool()
	if pool == nil {
		return nil, fmt.Errorf("CA certificate is required for mutual TLS mode")
	}
	tlsConfig.ClientCAs = pool
	tlsConfig.ClientAuth = clientAuthPolicy(s.TLSConfig.ClientAuthPolicy)
	// Verify against the live pool so a reloaded CA takes effect.
	if tlsConfig.ClientAuth == tls.RequireAndVerifyClientCert {
		tlsConfig.ClientAuth = tls.RequireAnyClientCert
		tlsConfig.VerifyPeerCertificate = s.CertificateManager.VerifyPeerCertificate
	}

	return tlsConfig, nil
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

// clientAuthPolicy returns the appropriate client authentication policy
func clientAuthPolicy(policy string) tls.ClientAuthType {
	switch policy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}
