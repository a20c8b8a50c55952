// Package sealed encrypts values at rest on top of any storage.Store.
package sealed

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the required key length in bytes for every supported cipher.
const KeySize = 32

// CipherType identifies the AEAD algorithm that sealed a value.
type CipherType byte

const (
	CipherAESGCM   CipherType = 'a'
	CipherChaCha20 CipherType = 'c'
)

// String returns the algorithm name.
func (t CipherType) String() string {
	switch t {
	case CipherAESGCM:
		return "aes-256-gcm"
	case CipherChaCha20:
		return "chacha20-poly1305"
	default:
		return "unknown"
	}
}

var (
	errKeySize        = errors.New("sealed: key must be 32 bytes")
	errUnknownCipher  = errors.New("sealed: unknown cipher type")
	errCiphertextSize = errors.New("sealed: ciphertext too short")
)

// PreferredCipher picks AES-GCM where the CPU has AES instructions and
// ChaCha20-Poly1305 elsewhere.
func PreferredCipher() CipherType {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return CipherAESGCM
	default:
		return CipherChaCha20
	}
}

func newAEAD(t CipherType, key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, errKeySize
	}
	switch t {
	case CipherAESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case CipherChaCha20:
		return chacha20poly1305.New(key)
	default:
		return nil, errUnknownCipher
	}
}

// seal encrypts plaintext and prepends a random nonce.
func seal(aead cipher.AEAD, plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// open splits the nonce off and authenticates the ciphertext.
func open(aead cipher.AEAD, ciphertext, additionalData []byte) ([]byte, error) {
	if len(ciphertext) < aead.NonceSize()+aead.Overhead() {
		return nil, errCiphertextSize
	}
	nonce := ciphertext[:aead.NonceSize()]
	return aead.Open(nil, nonce, ciphertext[aead.NonceSize():], additionalData)
}
