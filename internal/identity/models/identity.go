package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"securevote/internal/biometric"
	id "securevote/pkg/domain"
)

// Identity is the vault's record for one enrolled voter. The real-world
// identifier is gone by the time this struct exists; only derived values
// remain.
type Identity struct {
	Handle      id.VoterHandle
	ContactHash string
	Templates   []biometric.Template
	EnrolledAt  time.Time
}

// handleIterations trades derivation cost against enrollment throughput.
// Derivation must stay deterministic, so the pepper is the only secret input.
const handleIterations = 4096

// DeriveHandle computes the irreversible voter handle from a real-world
// identifier. Identical identifiers always derive identical handles, which is
// what makes duplicate-enrollment detection possible without storing
// plaintext.
func DeriveHandle(realIdentifier, pepper string) id.VoterHandle {
	normalized := normalize(realIdentifier)
	key := pbkdf2.Key([]byte(normalized), []byte(pepper), handleIterations, sha256.Size, sha256.New)
	return id.VoterHandle(hex.EncodeToString(key))
}

// DeriveContactRef computes the irreversible contact reference handed to the
// delivery collaborator.
func DeriveContactRef(contact, pepper string) string {
	normalized := normalize(contact)
	key := pbkdf2.Key([]byte(normalized), []byte(pepper), handleIterations, sha256.Size, sha256.New)
	return hex.EncodeToString(key)
}

func normalize(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}
