// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/oliverandrich/go-redirector/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestCert writes a short lived self-signed certificate to dir.
func writeTestCert(t *testing.T, dir string) (string, string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return certFile, keyFile
}

func TestSetupTLS_Off(t *testing.T) {
	for _, mode := range []string{"off", "", "OFF"} {
		result, err := SetupTLS(&config.Config{TLS: config.TLSConfig{Mode: mode}})
		require.NoError(t, err)
		assert.Equal(t, TLSModeOff, result.Mode)
		assert.Nil(t, result.TLSConfig)
	}
}

func TestSetupTLS_UnknownMode(t *testing.T) {
	_, err := SetupTLS(&config.Config{TLS: config.TLSConfig{Mode: "selfsigned"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown TLS mode")
}

func TestSetupTLS_Manual(t *testing.T) {
	certFile, keyFile := writeTestCert(t, t.TempDir())

	result, err := SetupTLS(&config.Config{TLS: config.TLSConfig{
		Mode:     "manual",
		CertFile: certFile,
		KeyFile:  keyFile,
	}})
	require.NoError(t, err)

	assert.Equal(t, TLSModeManual, result.Mode)
	require.NotNil(t, result.TLSConfig)
	assert.Len(t, result.TLSConfig.Certificates, 1)
	assert.Equal(t, uint16(tls.VersionTLS12), result.TLSConfig.MinVersion)
}

func TestSetupTLS_ManualErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		certFile string
		keyFile  string
		contains string
	}{
		{"missing paths", "", "", "requires both"},
		{"missing key", filepath.Join(dir, "cert.pem"), "", "requires both"},
		{"files absent", filepath.Join(dir, "cert.pem"), filepath.Join(dir, "key.pem"), "failed to load certificate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SetupTLS(&config.Config{TLS: config.TLSConfig{
				Mode:     "manual",
				CertFile: tt.certFile,
				KeyFile:  tt.keyFile,
			}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestSetupTLS_ACMEValidation(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		email    string
		contains string
	}{
		{"localhost", "localhost", "admin@example.com", "public host name"},
		{"ip address", "203.0.113.7", "admin@example.com", "not an IP address"},
		{"no email", "example.com", "", "TLS_EMAIL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SetupTLS(&config.Config{
				Server: config.ServerConfig{Host: tt.host, Port: 443},
				TLS:    config.TLSConfig{Mode: "acme", Email: tt.email, CertDir: t.TempDir()},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestSetupTLS_ACME(t *testing.T) {
	certDir := t.TempDir()

	result, err := SetupTLS(&config.Config{
		Server: config.ServerConfig{Host: "go.example.com", Port: 443},
		TLS:    config.TLSConfig{Mode: "acme", Email: "admin@example.com", CertDir: certDir},
	})
	require.NoError(t, err)

	assert.Equal(t, TLSModeACME, result.Mode)
	assert.NotNil(t, result.TLSConfig)
	assert.NotNil(t, result.HTTPHandler)
	assert.DirExists(t, filepath.Join(certDir, "acme"))
}

func TestFingerprint(t *testing.T) {
	certFile, keyFile := writeTestCert(t, t.TempDir())
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	require.NoError(t, err)

	fp := fingerprint(&cert)
	assert.Len(t, strings.Split(fp, ":"), 32)
	assert.Equal(t, strings.ToUpper(fp), fp)

	assert.Empty(t, fingerprint(&tls.Certificate{}))
}
