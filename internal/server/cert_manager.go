package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"careerfit/internal/config"
	"careerfit/internal/errors"
	"careerfit/internal/watch"
)

// CertificateManager serves the TLS certificate pair and CA pool, reloading
// them from disk when the files change.
type CertificateManager struct {
	mu sync.RWMutex

	serverCert       *tls.Certificate
	caCertPool       *x509.CertPool
	serverCertExpiry time.Time
	lastReloadTime   time.Time

	config  *config.TLSConfig
	watcher *watch.Watcher
	logger  *errors.Logger

	reloadCallbacks []ReloadCallback

	reloadCount        int64
	reloadSuccessCount int64
	reloadFailureCount int64
	lastReloadSuccess  bool
	lastReloadError    string
}

// ReloadCallback is called when certificates are reloaded
type ReloadCallback func(success bool, err error)

// CertificateMetrics holds metrics about certificate operations
type CertificateMetrics struct {
	ReloadCount        int64     `json:"reload_count"`
	ReloadSuccessCount int64     `json:"reload_success_count"`
	ReloadFailureCount int64     `json:"reload_failure_count"`
	LastReloadTime     time.Time `json:"last_reload_time"`
	LastReloadSuccess  bool      `json:"last_reload_success"`
	LastReloadError    string    `json:"last_reload_error,omitempty"`
}

// NewCertificateManager creates a new certificate manager
func NewCertificateManager(tlsConfig *config.TLSConfig, logger *errors.Logger) *CertificateManager {
	return &CertificateManager{config: tlsConfig, logger: logger}
}

// Start loads the certificates and, when enabled, watches their files
func (cm *CertificateManager) Start(ctx context.Context) error {
	if err := cm.loadCertificates(); err != nil {
		return fmt.Errorf("failed to load initial certificates: %w", err)
	}

	if !cm.config.WatchFiles {
		return nil
	}

	w, err := watch.New([]string{cm.config.CertFile, cm.config.KeyFile, cm.config.CAFile},
		cm.config.DebounceDelay, cm.triggerReload, cm.logger)
	if err != nil {
		return fmt.Errorf("failed to create certificate watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start certificate watcher: %w", err)
	}
	cm.watcher = w
	return nil
}

// Stop stops watching the certificate files
func (cm *CertificateManager) Stop() {
	if cm.watcher != nil {
		cm.watcher.Stop()
	}
	if cm.logger != nil {
		cm.logger.Info("Certificate manager stopped")
	}
}

// Watching reports whether certificate files are being watched
func (cm *CertificateManager) Watching() bool {
	return cm.watcher != nil
}

// GetServerCertificate returns the current server certificate for TLS handshakes
func (cm *CertificateManager) GetServerCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCert == nil {
		return nil, fmt.Errorf("no server certificate available")
	}

	if time.Now().After(cm.serverCertExpiry) {
		serverName := ""
		if hello != nil {
			serverName = hello.ServerName
		}
		if cm.logger != nil {
			cm.logger.LogError(fmt.Errorf("server certificate expired"), "Server certificate expired",
				"expiry", cm.serverCertExpiry,
				"server_name", serverName)
		}
		return nil, fmt.Errorf("server certificate expired")
	}

	return cm.serverCert, nil
}

// GetCACertPool returns the current CA certificate pool
func (cm *CertificateManager) GetCACertPool() *x509.CertPool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.caCertPool
}

// VerifyPeerCertificate verifies peer certificates using the current CA pool
func (cm *CertificateManager) VerifyPeerCertificate(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("no peer certificates provided")
	}

	cert, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("failed to parse peer certificate: %w", err)
	}

	pool := cm.GetCACertPool()
	if pool == nil {
		return fmt.Errorf("no CA certificate pool available")
	}

	opts := x509.VerifyOptions{
		Roots:     pool,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	if _, err := cert.Verify(opts); err != nil {
		return fmt.Errorf("peer certificate verification failed: %w", err)
	}
	return nil
}

// ReloadCertificates manually triggers a certificate reload
func (cm *CertificateManager) ReloadCertificates() error {
	return cm.loadCertificates()
}

// AddReloadCallback adds a callback to be called when certificates are reloaded
func (cm *CertificateManager) AddReloadCallback(callback ReloadCallback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.reloadCallbacks = append(cm.reloadCallbacks, callback)
}

// CheckExpiry returns the time until the server certificate expires
func (cm *CertificateManager) CheckExpiry() (time.Duration, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCertExpiry.IsZero() {
		return 0, fmt.Errorf("no certificates loaded")
	}
	return time.Until(cm.serverCertExpiry), nil
}

// GetMetrics returns certificate management metrics
func (cm *CertificateManager) GetMetrics() CertificateMetrics {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return CertificateMetrics{
		ReloadCount:        cm.reloadCount,
		ReloadSuccessCount: cm.reloadSuccessCount,
		ReloadFailureCount: cm.reloadFailureCount,
		LastReloadTime:     cm.lastReloadTime,
		LastReloadSuccess:  cm.lastReloadSuccess,
		LastReloadError:    cm.lastReloadError,
	}
}

// loadCertificates reads the pair and CA from disk and swaps them in. On
// failure the previous certificates stay in place.
func (cm *CertificateManager) loadCertificates() error {
	cert, expiry, pool, err := cm.readCertificates()

	cm.mu.Lock()
	cm.reloadCount++
	if err != nil {
		cm.reloadFailureCount++
		cm.lastReloadSuccess = false
		cm.lastReloadError = err.Error()
	} else {
		cm.serverCert = cert
		cm.serverCertExpiry = expiry
		cm.caCertPool = pool
		cm.lastReloadTime = time.Now()
		cm.reloadSuccessCount++
		cm.lastReloadSuccess = true
		cm.lastReloadError = ""
	}
	callbacks := append([]ReloadCallback(nil), cm.reloadCallbacks...)
	cm.mu.Unlock()

	for _, cb := range callbacks {
		cb(err == nil, err)
	}
	return err
}

func (cm *CertificateManager) readCertificates() (*tls.Certificate, time.Time, *x509.CertPool, error) {
	pair, err := tls.LoadX509KeyPair(cm.config.CertFile, cm.config.KeyFile)
	if err != nil {
		return nil, time.Time{}, nil, fmt.Errorf("failed to load server cert/key: %w", err)
	}

	leaf := pair.Leaf
	if leaf == nil {
		leaf, err = x509.ParseCertificate(pair.Certificate[0])
		if err != nil {
			return nil, time.Time{}, nil, fmt.Errorf("failed to parse server certificate: %w", err)
		}
		pair.Leaf = leaf
	}

	var pool *x509.CertPool
	if cm.config.CAFile != "" {
		caPEM, err := os.ReadFile(cm.config.CAFile)
		if err != nil {
			return nil, time.Time{}, nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		pool = x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, time.Time{}, nil, fmt.Errorf("failed to append CA cert")
		}
	}

	return &pair, leaf.NotAfter, pool, nil
}

func (cm *CertificateManager) triggerReload() {
	if err := cm.loadCertificates(); err != nil {
		if cm.logger != nil {
			cm.logger.LogError(err, "Certificate reload failed, keeping previous certificates")
		}
		return
	}
	if cm.logger != nil {
		cm.logger.Info("Certificates reloaded", "expiry", cm.currentExpiry())
	}
}

func (cm *CertificateManager) currentExpiry() time.Time {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.serverCertExpiry
}
