package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the entropy of an issued token before encoding.
// 32 bytes = 256 bits — unguessable by construction; two tokens colliding is
// as likely as guessing one outright.
const tokenBytes = 32

// IssueToken mints a fresh opaque bearer token.
//
// BEARER TOKEN:
// Possession of the string is the whole credential — there is no signature, no
// embedded claims, no expiry. The server simply appends the issued value to the
// owning user's token list. That opacity is deliberate: there is nothing inside
// the token for a client (or attacker) to decode or forge.
//
// base64 RawURLEncoding makes the value safe to put in URLs, headers, and JSON
// without escaping, and drops the trailing '=' padding.
func IssueToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: issuing token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
