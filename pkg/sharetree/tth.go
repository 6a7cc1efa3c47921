package sharetree

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
)

// TTHSize is the length in bytes of a Tiger Tree Hash value.
const TTHSize = 24

// base32Encoding is the unpadded RFC 4648 alphabet AirDC++ uses to render
// TTH and CID values as text (e.g. in magnet links and filelist XML).
var base32Encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// TTHValue is the 24-byte Tiger Tree Hash root used throughout the share
// index as the primary file-identity key. Equality and hashing are
// bitwise; TTHValue is comparable and usable as a map key directly.
//
// Grounded on the teacher's ContentHash type (pkg/metadata/object.go):
// a fixed-size byte array with String()/Parse helpers, here sized for
// Tiger (24 bytes) instead of SHA-256 (32 bytes) and base32- rather than
// hex-encoded to match the DC wire format.
type TTHValue [TTHSize]byte

// IsZero reports whether v is the all-zero placeholder value.
func (v TTHValue) IsZero() bool {
	return v == TTHValue{}
}

// String returns the base32 encoding of v.
func (v TTHValue) String() string {
	return base32Encoding.EncodeToString(v[:])
}

// ParseTTH decodes a base32-encoded TTH string.
func ParseTTH(s string) (TTHValue, error) {
	var v TTHValue
	raw, err := base32Encoding.DecodeString(strings.ToUpper(s))
	if err != nil {
		return v, &ShareException{Code: ErrMalformed, Message: "invalid TTH base32 encoding"}
	}
	if len(raw) != TTHSize {
		return v, &ShareException{Code: ErrMalformed, Message: "TTH must decode to 24 bytes"}
	}
	copy(v[:], raw)
	return v, nil
}

// GenerateDirectoryTTH deterministically synthesizes a directory's search
// identity from its lowercased name and total size, so that directory
// search hits can be addressed the same way file hits are, without a
// real tiger-tree computation over directory content.
//
// Grounded on the original source's ValueGenerator::generateDirectoryTTH
// (airdcpp-core/airdcpp/util/ValueGenerator.h) — the header specifies the
// contract ("calculates TTH value from the lowercase filename and size")
// but not the exact mixing function, so this expansion picks a concrete,
// deterministic one: SHA-256 of "<lowercase name>\x00<size>" truncated to
// 24 bytes. Using SHA-256 (stdlib crypto/sha256) rather than a real Tiger
// implementation is acceptable here because directory TTHs are never
// verified against file content — they only need to be stable and
// collision-resistant within a session, which this satisfies.
func GenerateDirectoryTTH(lowerName string, size int64) TTHValue {
	h := sha256.New()
	h.Write([]byte(lowerName))
	h.Write([]byte{0})
	var sizeBuf [8]byte
	for i := 0; i < 8; i++ {
		sizeBuf[i] = byte(size >> (8 * i))
	}
	h.Write(sizeBuf[:])

	sum := h.Sum(nil)
	var v TTHValue
	copy(v[:], sum[:TTHSize])
	return v
}

// CIDSize is the length in bytes of a client identifier.
const CIDSize = 24

// CID identifies a client (peer) on the network. It is the same shape as
// TTHValue but kept as a distinct type so the two identity spaces can
// never be confused at compile time.
type CID [CIDSize]byte

// String returns the base32 encoding of the CID.
func (c CID) String() string {
	return base32Encoding.EncodeToString(c[:])
}

// ParseCID decodes a base32-encoded CID string.
func ParseCID(s string) (CID, error) {
	var c CID
	raw, err := base32Encoding.DecodeString(strings.ToUpper(s))
	if err != nil {
		return c, &ShareException{Code: ErrMalformed, Message: "invalid CID base32 encoding"}
	}
	if len(raw) != CIDSize {
		return c, &ShareException{Code: ErrMalformed, Message: "CID must decode to 24 bytes"}
	}
	copy(c[:], raw)
	return c, nil
}
