package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"orgst/config"
)

// inviteTokenScope keys the invitation digest separately from other uses of
// the application secret.
const inviteTokenScope = "orgst.invitation"

// GenerateInviteToken returns a high-entropy invitation token. The plaintext
// is handed to the invitee exactly once; only its digest is persisted.
func GenerateInviteToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashInviteToken computes the keyed one-way digest stored in place of the
// plaintext invitation token.
func HashInviteToken(token string) string {
	mac := hmac.New(sha256.New, []byte(inviteTokenScope+config.AppConfig.SecretKey))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// GenerateTempPassword returns a random temporary password for admin-only
// provisioning. It is returned to the provisioner once and never re-derivable.
func GenerateTempPassword() (string, error) {
	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
