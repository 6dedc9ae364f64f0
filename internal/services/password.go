package services

import (
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/yukikurage/personal-task-api/internal/constants"
	"github.com/yukikurage/personal-task-api/internal/utils"
)

var ErrMalformedSalt = errors.New("malformed password salt")

// PasswordHasher computes deterministic salted password hashes.
type PasswordHasher interface {
	// GenerateSalt returns a fresh random salt in the encoding Hash expects.
	GenerateSalt() (string, error)

	// Hash returns the hash of plaintext under salt. The same inputs always
	// produce the same output.
	Hash(plaintext, salt string) (string, error)
}

// Argon2Hasher implements PasswordHasher with Argon2id over base64 salts.
type Argon2Hasher struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

// NewArgon2Hasher returns an Argon2id hasher with the RFC 9106 second
// recommended parameter set.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		Time:    3,
		Memory:  64 * 1024,
		Threads: 4,
		KeyLen:  32,
	}
}

func (h *Argon2Hasher) GenerateSalt() (string, error) {
	return utils.GenerateSalt(constants.SaltLength)
}

func (h *Argon2Hasher) Hash(plaintext, salt string) (string, error) {
	rawSalt, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedSalt, err)
	}
	if len(rawSalt) < 8 {
		return "", fmt.Errorf("%w: salt must be at least 8 bytes", ErrMalformedSalt)
	}

	key := argon2.IDKey([]byte(plaintext), rawSalt, h.Time, h.Memory, h.Threads, h.KeyLen)
	return base64.RawStdEncoding.EncodeToString(key), nil
}

// ValidatePassword hashes plaintext with salt and reports whether the result
// equals storedHash exactly. Hashing errors are returned unchanged.
func ValidatePassword(hasher PasswordHasher, plaintext, storedHash, salt string) (bool, error) {
	hash, err := hasher.Hash(plaintext, salt)
	if err != nil {
		return false, err
	}
	return hash == storedHash, nil
}
