// Package auth issues user identities and checks the key presented with each
// request against the stored salted hash.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"questforge/internal/app/ports"
)

const (
	CredentialStatusActive = "active"

	userKeyBytes = 32
	saltBytes    = 16
	userIDBytes  = 9
)

var (
	ErrInvalidRequest     = errors.New("invalid auth request")
	ErrInvalidCredentials = errors.New("invalid user credentials")
)

// issueCredential mints a user ID and key for a sign-up at now. Only the
// salted hash of the key goes into the record; the key itself is returned
// once to the caller.
func issueCredential(now time.Time) (ports.UserCredentialRecord, string, error) {
	idPart, err := randomToken(userIDBytes)
	if err != nil {
		return ports.UserCredentialRecord{}, "", fmt.Errorf("user id: %w", err)
	}
	key, err := randomToken(userKeyBytes)
	if err != nil {
		return ports.UserCredentialRecord{}, "", fmt.Errorf("user key: %w", err)
	}
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return ports.UserCredentialRecord{}, "", fmt.Errorf("key salt: %w", err)
	}
	return ports.UserCredentialRecord{
		UserID:    "usr_" + now.Format("20060102") + "_" + idPart,
		KeySalt:   salt,
		KeyHash:   hashUserKey(salt, key),
		Status:    CredentialStatusActive,
		CreatedAt: now,
	}, key, nil
}

// hashUserKey is sha256(salt || key).
func hashUserKey(salt []byte, key string) []byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(key))
	return h.Sum(nil)
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
