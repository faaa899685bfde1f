package authcore

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint derives the stable client key used for captcha storage and
// attempt counting from the request's IP and user-agent string. Stable-ish
// by design: it only needs to hold together for the lockout window.
func Fingerprint(clientIP, userAgent string) string {
	sum := sha256.Sum256([]byte(clientIP + "\x00" + userAgent))
	return hex.EncodeToString(sum[:16])
}
