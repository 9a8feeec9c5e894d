// Package auth provides password hashing and token signing primitives.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id defaults (OWASP 2024 recommended minimum).
const (
	defaultTime    = 3
	defaultMemory  = 64 * 1024 // 64 MB
	defaultThreads = 4

	argon2KeyLen  = 32
	argon2SaltLen = 16
)

var (
	// ErrInvalidHash indicates the hash format is invalid.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrIncompatibleVersion indicates the hash version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// Params are the Argon2id cost parameters. Stronger parameters slow
// brute force independently of CPU speed.
type Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
}

// DefaultParams returns the default Argon2id cost parameters.
func DefaultParams() Params {
	return Params{
		Memory:      defaultMemory,
		Time:        defaultTime,
		Parallelism: defaultThreads,
	}
}

// Hasher produces and verifies Argon2id password digests in PHC string format.
type Hasher struct {
	params Params
}

// NewHasher creates a Hasher with the given cost parameters.
// Zero-valued fields fall back to the defaults.
func NewHasher(p Params) *Hasher {
	defaults := DefaultParams()
	if p.Memory == 0 {
		p.Memory = defaults.Memory
	}
	if p.Time == 0 {
		p.Time = defaults.Time
	}
	if p.Parallelism == 0 {
		p.Parallelism = defaults.Parallelism
	}
	return &Hasher{params: p}
}

// Hash creates an Argon2id digest of the given password.
// Returns the digest in PHC string format:
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.Time,
		h.params.Memory,
		h.params.Parallelism,
		argon2KeyLen,
	)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Parallelism,
		b64Salt,
		b64Hash,
	), nil
}

// Verify checks if the password matches the digest.
// A malformed or empty digest verifies as false rather than erroring,
// so accounts without a stored digest safely fail credential checks.
// Uses constant-time comparison to prevent timing attacks.
func (h *Hasher) Verify(password, encodedHash string) bool {
	match, err := verify(password, encodedHash)
	if err != nil {
		return false
	}
	return match
}

func verify(password, encodedHash string) (bool, error) {
	// Parse the PHC string format
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, ErrInvalidHash
	}

	if parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, ErrInvalidHash
	}
	if version != argon2.Version {
		return false, ErrIncompatibleVersion
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrInvalidHash
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrInvalidHash
	}

	// Compute hash with the parameters stored in the digest so older
	// digests keep verifying after a cost bump.
	computedHash := argon2.IDKey(
		[]byte(password),
		salt,
		time,
		memory,
		threads,
		uint32(len(expectedHash)),
	)

	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1, nil
}
