package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrNoCertsFound is returned when PEM data holds no certificate.
	ErrNoCertsFound = errors.New("tlsroots: no certificates found")
)

// Pool is a set of trusted root certificates.
type Pool struct {
	certPool *x509.CertPool
	added    int
}

// NewPool returns a pool seeded with the system roots, or an empty pool
// where the platform exposes none.
func NewPool() *Pool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	return &Pool{certPool: pool}
}

// NewEmptyPool returns a pool without system roots.
func NewEmptyPool() *Pool {
	return &Pool{certPool: x509.NewCertPool()}
}

// Add loads roots from path, which is a PEM file or a directory of
// .pem, .crt and .cer files.
func (p *Pool) Add(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("tlsroots: %w", err)
	}
	if !fi.IsDir() {
		return p.addFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read dir %s: %w", path, err)
	}
	before := p.added
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pem", ".crt", ".cer":
			if err := p.addFile(filepath.Join(path, e.Name())); err != nil {
				return err
			}
		}
	}
	if p.added == before {
		return fmt.Errorf("tlsroots: %s: %w", path, ErrNoCertsFound)
	}
	return nil
}

func (p *Pool) addFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read %s: %w", path, err)
	}
	if err := p.AddPEM(data); err != nil {
		return fmt.Errorf("%w (%s)", err, path)
	}
	return nil
}

// AddPEM adds every CERTIFICATE block of pemData.
func (p *Pool) AddPEM(pemData []byte) error {
	var n int
	for len(pemData) > 0 {
		var block *pem.Block
		block, pemData = pem.Decode(pemData)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		p.certPool.AddCert(cert)
		n++
	}
	if n == 0 {
		return ErrNoCertsFound
	}
	p.added += n
	return nil
}

// Added returns the number of certificates added beyond the seed.
func (p *Pool) Added() int {
	return p.added
}

// TLSConfig returns a client config trusting this pool.
func (p *Pool) TLSConfig() *tls.Config {
	return &tls.Config{
		RootCAs:    p.certPool,
		MinVersion: tls.VersionTLS12,
	}
}

// HTTPClient returns a client whose transport trusts the system roots
// plus the roots found at caPath. An empty caPath yields a plain client.
func HTTPClient(caPath string, timeout time.Duration) (*http.Client, error) {
	if caPath == "" {
		return &http.Client{Timeout: timeout}, nil
	}

	pool := NewPool()
	if err := pool.Add(caPath); err != nil {
		return nil, err
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = pool.TLSConfig()
	return &http.Client{Timeout: timeout, Transport: tr}, nil
}
