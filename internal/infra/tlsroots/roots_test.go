package tlsroots

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func generateTestCertPEM(t *testing.T) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "fitplan test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func TestAddPEM(t *testing.T) {
	certPEM := generateTestCertPEM(t)

	tests := []struct {
		name    string
		data    []byte
		added   int
		wantErr error
	}{
		{"one", certPEM, 1, nil},
		{"bundle", append(append([]byte{}, certPEM...), certPEM...), 2, nil},
		{"key block only", pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: []byte{1}}), 0, ErrNoCertsFound},
		{"empty", nil, 0, ErrNoCertsFound},
		{"garbage", []byte("not pem"), 0, ErrNoCertsFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewEmptyPool()
			err := p.AddPEM(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddPEM() error = %v, want %v", err, tt.wantErr)
			}
			if p.Added() != tt.added {
				t.Errorf("Added() = %d, want %d", p.Added(), tt.added)
			}
		})
	}
}

func TestAddPEM_InvalidCert(t *testing.T) {
	bad := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte("junk")})
	if err := NewEmptyPool().AddPEM(bad); err == nil || errors.Is(err, ErrNoCertsFound) {
		t.Errorf("AddPEM() error = %v, want parse error", err)
	}
}

func TestAdd_FileAndDir(t *testing.T) {
	dir := t.TempDir()
	certPEM := generateTestCertPEM(t)
	for name, data := range map[string][]byte{
		"a.pem":     certPEM,
		"b.CRT":     certPEM,
		"notes.txt": []byte("ignored"),
	} {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o700); err != nil {
		t.Fatal(err)
	}

	p := NewEmptyPool()
	if err := p.Add(filepath.Join(dir, "a.pem")); err != nil {
		t.Fatalf("Add(file) error = %v", err)
	}
	if err := p.Add(dir); err != nil {
		t.Fatalf("Add(dir) error = %v", err)
	}
	if p.Added() != 3 {
		t.Errorf("Added() = %d, want 3", p.Added())
	}
}

func TestAdd_Errors(t *testing.T) {
	empty := t.TempDir()
	if err := NewEmptyPool().Add(empty); !errors.Is(err, ErrNoCertsFound) {
		t.Errorf("Add(empty dir) error = %v", err)
	}
	if err := NewEmptyPool().Add(filepath.Join(empty, "missing.pem")); err == nil {
		t.Error("Add(missing) should fail")
	}
}

func TestTLSConfig(t *testing.T) {
	cfg := NewPool().TLSConfig()
	if cfg.RootCAs == nil || cfg.MinVersion < 0x0303 {
		t.Errorf("TLSConfig() = %+v", cfg)
	}
}

func TestHTTPClient_TrustsPrivateCA(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "trusted")
	}))
	defer srv.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	der := srv.Certificate().Raw
	if err := os.WriteFile(caFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600); err != nil {
		t.Fatal(err)
	}

	plain, err := HTTPClient("", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := plain.Get(srv.URL); err == nil {
		t.Error("plain client accepted a private CA")
	}

	client, err := HTTPClient(caFile, 5*time.Second)
	if err != nil {
		t.Fatalf("HTTPClient() error = %v", err)
	}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "trusted" || client.Timeout != 5*time.Second {
		t.Errorf("body = %q, timeout = %v", body, client.Timeout)
	}
}
