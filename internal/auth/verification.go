package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// VerificationTokenBytes is the entropy of a plain verification token.
	VerificationTokenBytes = 20
	// VerificationTokenExpiry is how long an emailed verification link stays valid.
	VerificationTokenExpiry = 10 * time.Minute
)

// VerificationToken is a freshly issued one-time token. Plain goes to the
// user, Hash and ExpiresAt go to the store.
type VerificationToken struct {
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

// IssueVerificationToken generates a random hex token with its SHA-256 digest
// and an expiry relative to now.
func IssueVerificationToken(now time.Time) (VerificationToken, error) {
	buf := make([]byte, VerificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return VerificationToken{}, fmt.Errorf("generate verification token: %w", err)
	}
	plain := hex.EncodeToString(buf)
	return VerificationToken{
		Plain:     plain,
		Hash:      HashToken(plain),
		ExpiresAt: now.Add(VerificationTokenExpiry),
	}, nil
}

// HashToken re-derives the stored digest from a presented plain token.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
