package component

import (
	"crypto/sha1"
	"encoding/hex"
)

// Digest computes the XEP-0114 handshake value: the lowercase hex SHA-1 of
// the stream ID immediately followed by the shared secret.
func Digest(streamID, secret string) string {
	sum := sha1.Sum([]byte(streamID + secret))
	return hex.EncodeToString(sum[:])
}
