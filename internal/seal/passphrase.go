// Package seal protects the card front with an optional passphrase, so only
// the person it is meant for can open it.
package seal

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ---- Argon2id Parameters

const (
	argon2Time    = 2         // iterations
	argon2Memory  = 19 * 1024 // 19 MB
	argon2Threads = 1         // parallelism
	argon2KeyLen  = 32        // output length
	saltLen       = 16        // salt length
)

var (
	ErrNotSealed     = errors.New("card is not sealed")
	ErrInvalidFormat = errors.New("invalid seal file format")
)

// ---- Hash Format
// $argon2id$v=19$m=19456,t=2,p=1$<salt>$<hash>

// Hash derives an Argon2id hash of the passphrase in PHC string format.
func Hash(passphrase []byte) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify reports whether passphrase matches the encoded hash, comparing in
// constant time.
func Verify(passphrase []byte, encoded string) (bool, error) {
	salt, want, err := decode(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func decode(encoded string) (salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, ErrInvalidFormat
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, fmt.Errorf("decoding salt: %w", err)
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, fmt.Errorf("decoding hash: %w", err)
	}
	return salt, key, nil
}

// ---- Seal File

// Store reads and writes the seal hash at a fixed path.
type Store struct {
	Path string
}

// Seal hashes passphrase and writes it, replacing any previous seal.
func (s Store) Seal(passphrase []byte) error {
	hash, err := Hash(passphrase)
	if err != nil {
		return fmt.Errorf("hashing passphrase: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return fmt.Errorf("creating seal directory: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(hash+"\n"), 0600); err != nil {
		return fmt.Errorf("writing seal file: %w", err)
	}
	return nil
}

// Load returns the stored hash, or ErrNotSealed.
func (s Store) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotSealed
		}
		return "", fmt.Errorf("reading seal file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Sealed reports whether a seal exists.
func (s Store) Sealed() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Unseal removes the seal. Removing a missing seal is not an error.
func (s Store) Unseal() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing seal file: %w", err)
	}
	return nil
}

// Check verifies passphrase against the stored seal.
func (s Store) Check(passphrase []byte) (bool, error) {
	hash, err := s.Load()
	if err != nil {
		return false, err
	}
	return Verify(passphrase, hash)
}
