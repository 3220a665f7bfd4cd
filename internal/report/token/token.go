// Package token issues the single-use contact confirmation secret. The raw
// token is handed out exactly once; only its hash may be persisted, so a
// compromised store cannot be replayed against the confirmation endpoint.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// rawBytes is the entropy of the raw token before hex encoding.
const rawBytes = 32

// TTL is how long a confirmation token stays valid.
const TTL = 7 * 24 * time.Hour

// Token pairs the one-time raw secret with its storable form.
type Token struct {
	// Raw is returned to the caller once and never persisted.
	Raw string
	// Hash is the SHA-256 hex digest of Raw, safe to store.
	Hash string
	// ExpiresAt is issuance time plus TTL.
	ExpiresAt time.Time
}

// Issue generates a cryptographically random token valid from now.
func Issue(now time.Time) (Token, error) {
	buf := make([]byte, rawBytes)
	if _, err := rand.Read(buf); err != nil {
		return Token{}, fmt.Errorf("generate token: %w", err)
	}
	raw := hex.EncodeToString(buf)
	return Token{
		Raw:       raw,
		Hash:      Hash(raw),
		ExpiresAt: now.Add(TTL),
	}, nil
}

// Hash returns the SHA-256 hex digest of a raw token. A confirmation request
// is validated by hashing the presented token and comparing against storage.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
