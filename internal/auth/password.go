// Package auth — password credential primitives.
//
// WHY PBKDF2 WITH AN EXPLICIT SALT?
// PBKDF2 is a password-based key derivation function: it runs HMAC-SHA256 in a
// loop (100,000 rounds here) so that deriving one hash is cheap for a login but
// brutal for an attacker trying billions of guesses against a stolen database.
//
// Unlike bcrypt, PBKDF2's output does not embed its salt — we generate a random
// salt per user at registration and store it in its own column/field next to the
// hash. Two users with the same password therefore get unrelated hashes, and
// precomputed rainbow tables are useless.
//
// NEVER store passwords in plain text or with a single fast hash (MD5, SHA-256).
// A GPU rig does billions of plain SHA-256 per second; it does ~10,000 PBKDF2
// derivations per second at this iteration count.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// defaultIterations is the PBKDF2 round count.
	//
	// 100,000 iterations of HMAC-SHA256 is the long-standing NIST floor for
	// PBKDF2 and takes on the order of 50–100ms on a modern server — negligible
	// for a login, expensive for an offline cracker.
	defaultIterations = 100_000

	// saltLength is the number of random bytes in a freshly generated salt.
	// 16 bytes = 128 bits: collisions across registrations are negligible by
	// construction, so no uniqueness check against the store is needed.
	saltLength = 16

	// keyLength is the derived digest size in bytes (SHA-256 output size).
	keyLength = 32
)

// PasswordService derives and verifies salted password digests.
//
// It's a struct (not free functions) so the iteration count can be injected in
// tests — a low count makes the test suite fast without changing the logic
// under test.
type PasswordService struct {
	iterations int
}

// NewPasswordService creates a PasswordService with the production iteration
// count (100,000).
func NewPasswordService() *PasswordService {
	return &PasswordService{iterations: defaultIterations}
}

// NewPasswordServiceForTest creates a PasswordService with a custom (low)
// iteration count. Use from tests in other packages to keep suites fast.
//
// Do NOT use in production — a low round count defeats the point of a KDF.
func NewPasswordServiceForTest(iterations int) *PasswordService {
	return &PasswordService{iterations: iterations}
}

// GenerateSalt returns a fresh cryptographically random salt.
//
// Called exactly once per user, at registration. The salt is not a secret —
// it is stored in the clear next to the hash — but it MUST be unpredictable
// and MUST never be reused across users.
func (p *PasswordService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("auth: generating salt: %w", err)
	}
	return salt, nil
}

// DeriveKey computes the PBKDF2-HMAC-SHA256 digest of (password, salt).
//
// DETERMINISTIC: the same (password, salt) pair always yields the same digest —
// that is what makes verification possible without ever storing the password.
// Different salts yield unrelated digests for the same password.
//
// The construction has no data-dependent early exit: the full round count runs
// regardless of the input, so derivation time reveals nothing about where a
// guess diverges from the real password.
func (p *PasswordService) DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, p.iterations, keyLength, sha256.New)
}

// Verify reports whether password derives to the expected digest under salt.
//
// TIMING SAFETY:
// The digest comparison uses crypto/subtle.ConstantTimeCompare, which examines
// every byte regardless of where the first mismatch is. A plain bytes.Equal
// would let an attacker measure how many leading bytes matched.
func (p *PasswordService) Verify(password string, salt, expected []byte) bool {
	derived := p.DeriveKey(password, salt)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}
