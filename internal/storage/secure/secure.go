// Package secure encrypts values before handing them to a plain store. It
// backs the refresh token, which must never sit on disk in clear text.
package secure

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-stock-app/internal/storage"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const saltKey = "secure_store_salt"

var ErrDecrypt = errors.New("secure: cannot decrypt value")

type Store struct {
	backing storage.Store
	prefix  string
	key     []byte
}

// New derives the encryption key from passphrase with Argon2id. The salt is
// generated once and kept in the backing store next to the values.
func New(ctx context.Context, backing storage.Store, prefix, passphrase string) (*Store, error) {
	if passphrase == "" {
		return nil, errors.New("secure: empty passphrase")
	}
	s := &Store{backing: backing, prefix: prefix}

	salt, err := s.loadOrCreateSalt(ctx)
	if err != nil {
		return nil, err
	}
	s.key = argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, chacha20poly1305.KeySize)
	return s, nil
}

func (s *Store) loadOrCreateSalt(ctx context.Context) ([]byte, error) {
	encoded, err := s.backing.Get(ctx, s.name(saltKey))
	if err == nil {
		return base64.StdEncoding.DecodeString(encoded)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("read salt: %w", err)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	if err := s.backing.Set(ctx, s.name(saltKey), base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("write salt: %w", err)
	}
	return salt, nil
}

func (s *Store) name(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "." + key
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	encoded, err := s.backing.Get(ctx, s.name(key))
	if err != nil {
		return "", err
	}
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecrypt
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", err
	}
	if len(sealed) < aead.NonceSize() {
		return "", ErrDecrypt
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(key))
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(value)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	// The key name is bound as additional data so values cannot be swapped
	// between keys.
	sealed := aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return s.backing.Set(ctx, s.name(key), base64.StdEncoding.EncodeToString(sealed))
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = s.name(k)
	}
	return s.backing.Delete(ctx, names...)
}
