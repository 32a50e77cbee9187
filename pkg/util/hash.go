package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ContactKeyPrefix marks document IDs derived from a contact's identity.
const ContactKeyPrefix = "c_"

const contactKeyHexLen = 24

// HashContactKey derives a stable document ID for a contact from its cleaned,
// lower-cased name and normalized phone. A contact without a usable phone
// is keyed by name alone.
func HashContactKey(name, phone string) string {
	parts := []string{strings.ToLower(CleanCell(name))}
	if p := NormalizePhone(phone); p != "" {
		parts = append(parts, p)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return ContactKeyPrefix + hex.EncodeToString(sum[:])[:contactKeyHexLen]
}
