package querysparql

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainQuery separates query fingerprints from any other hash in the
// catalog. The version suffix allows a future algorithm change.
const DomainQuery = "sparqlq/query/v1"

// Fingerprint returns the content-addressed identity of compiled query text.
// Format: hex(SHA256(domain + 0x00 + text)).
func Fingerprint(text string) string {
	h := sha256.New()
	h.Write([]byte(DomainQuery))
	h.Write([]byte{0x00})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
