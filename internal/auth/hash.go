// Package auth derives account ids and credential hashes.
//
// The hash is a deterministic digest so the same (password, email) pair
// always reproduces the same stored value. It is a data-format contract, not
// a hardened credential scheme: there is no per-record random salt and no
// stretching. A deployment that needs real password security must swap this
// for a memory-hard function and migrate stored hashes.
package auth

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// credentialSep joins password and normalized email before hashing, so the
// same password yields a different hash per account.
const credentialSep = "\x1f"

// idLen is the number of hex characters kept from the email digest.
const idLen = 16

// NormalizeEmail lower-cases and trims an email address. Two inputs that
// normalize equally always map to the same identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeriveID computes the stable identity id for an email address.
func DeriveID(email string) string {
	sum := sha3.Sum256([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])[:idLen]
}

// HashCredential computes the stored hash for a password, salted by the
// normalized email. Deterministic and one-way.
func HashCredential(password, email string) string {
	sum := sha3.Sum256([]byte(password + credentialSep + NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}
