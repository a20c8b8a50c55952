package sealed

import (
	"context"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/fitplan-go/internal/storage"
)

// valuePrefix marks a sealed value: "fps1" + cipher byte + ":" + base64.
const valuePrefix = "fps1"

// ErrTampered is returned when a sealed value fails authentication.
var ErrTampered = errors.New("sealed: value failed authentication")

// Store encrypts values before delegating to the inner store.
//
// The storage key is bound as additional data, so a value copied under
// another key does not decrypt.
type Store struct {
	inner   storage.Store
	primary CipherType
	aeads   map[CipherType]cipher.AEAD
}

// New wraps inner with the given 32-byte key.
func New(inner storage.Store, key []byte) (*Store, error) {
	aeads := make(map[CipherType]cipher.AEAD, 2)
	for _, t := range []CipherType{CipherAESGCM, CipherChaCha20} {
		aead, err := newAEAD(t, key)
		if err != nil {
			return nil, err
		}
		aeads[t] = aead
	}
	return &Store{
		inner:   inner,
		primary: PreferredCipher(),
		aeads:   aeads,
	}, nil
}

// NewFromHex wraps inner with a hex-encoded key.
func NewFromHex(inner storage.Store, hexKey string) (*Store, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, fmt.Errorf("sealed: decode key: %w", err)
	}
	return New(inner, key)
}

// Cipher returns the cipher used for new writes.
func (s *Store) Cipher() CipherType {
	return s.primary
}

// Get retrieves and decrypts a value.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	raw, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return s.unseal(key, raw)
}

// Set encrypts and stores a value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	ct, err := seal(s.aeads[s.primary], []byte(value), []byte(key))
	if err != nil {
		return fmt.Errorf("sealed: encrypt: %w", err)
	}
	encoded := valuePrefix + string(rune(s.primary)) + ":" + base64.RawStdEncoding.EncodeToString(ct)
	return s.inner.Set(ctx, key, encoded)
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// Close closes the inner store.
func (s *Store) Close() error {
	return s.inner.Close()
}

func (s *Store) unseal(key, raw string) (string, error) {
	// fps1 + cipher byte + ':'
	if len(raw) < len(valuePrefix)+2 || !strings.HasPrefix(raw, valuePrefix) || raw[len(valuePrefix)+1] != ':' {
		return "", fmt.Errorf("%w: missing header", ErrTampered)
	}
	aead, ok := s.aeads[CipherType(raw[len(valuePrefix)])]
	if !ok {
		return "", errUnknownCipher
	}

	ct, err := base64.RawStdEncoding.DecodeString(raw[len(valuePrefix)+2:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTampered, err)
	}
	pt, err := open(aead, ct, []byte(key))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTampered, err)
	}
	return string(pt), nil
}
