package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"careerfit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSelfSigned(t *testing.T, certFile, keyFile string, notAfter time.Time) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: "localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0600))
}

func TestCertificateManagerReload(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "tls.crt")
	keyFile := filepath.Join(dir, "tls.key")
	writeSelfSigned(t, certFile, keyFile, time.Now().Add(48*time.Hour))

	cm := NewCertificateManager(&config.TLSConfig{CertFile: certFile, KeyFile: keyFile, CAFile: certFile}, nil)
	require.NoError(t, cm.Start(t.Context()))
	defer cm.Stop()
	assert.False(t, cm.Watching())

	first, err := cm.GetServerCertificate(nil)
	require.NoError(t, err)
	ttl, err := cm.CheckExpiry()
	require.NoError(t, err)
	assert.InDelta(t, (48 * time.Hour).Hours(), ttl.Hours(), 0.1)
	assert.NotNil(t, cm.GetCACertPool())

	writeSelfSigned(t, certFile, keyFile, time.Now().Add(30*24*time.Hour))
	require.NoError(t, cm.ReloadCertificates())
	second, err := cm.GetServerCertificate(nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.Leaf.SerialNumber, second.Leaf.SerialNumber)

	// A broken key keeps the previous pair in place.
	require.NoError(t, os.WriteFile(keyFile, []byte("garbage"), 0600))
	assert.Error(t, cm.ReloadCertificates())
	still, err := cm.GetServerCertificate(nil)
	require.NoError(t, err)
	assert.Equal(t, second.Leaf.SerialNumber, still.Leaf.SerialNumber)

	m := cm.GetMetrics()
	assert.Equal(t, int64(3), m.ReloadCount)
	assert.Equal(t, int64(2), m.ReloadSuccessCount)
	assert.Equal(t, int64(1), m.ReloadFailureCount)
	assert.False(t, m.LastReloadSuccess)
}

func TestCertificateManagerExpired(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "tls.crt")
	keyFile := filepath.Join(dir, "tls.key")
	writeSelfSigned(t, certFile, keyFile, time.Now().Add(-time.Minute))

	cm := NewCertificateManager(&config.TLSConfig{CertFile: certFile, KeyFile: keyFile}, nil)
	require.NoError(t, cm.Start(t.Context()))
	_, err := cm.GetServerCertificate(nil)
	assert.Error(t, err)
}

func TestBuildMutualTLSConfig(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "tls.crt")
	keyFile := filepath.Join(dir, "tls.key")
	writeSelfSigned(t, certFile, keyFile, time.Now().Add(time.Hour))

	tlsCfg := config.TLSConfig{Mode: "mutual", CertFile: certFile, KeyFile: keyFile, CAFile: certFile, MinVersion: "1.3"}
	cm := NewCertificateManager(&tlsCfg, nil)
	require.NoError(t, cm.Start(t.Context()))

	s := &Server{TLSConfig: tlsCfg, CertificateManager: cm}
	built, err := s.buildTLSConfig()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0304), built.MinVersion)
	assert.NotNil(t, built.VerifyPeerCertificate)
	assert.NotNil(t, built.ClientCAs)

	certPEM, err := os.ReadFile(certFile)
	require.NoError(t, err)
	block, _ := pem.Decode(certPEM)
	assert.NoError(t, cm.VerifyPeerCertificate([][]byte{block.Bytes}, nil))
}
