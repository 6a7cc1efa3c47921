package search

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base32"
	"errors"
)

// sudpKeySize is the AES-128 key length used for encrypted UDP search
// result delivery.
const sudpKeySize = 16

var sudpBase32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// DecodeSUDPKey decodes a base32-encoded 16-byte SUDP key, as carried
// in a search request's "KY" parameter.
func DecodeSUDPKey(encoded string) ([]byte, error) {
	key, err := sudpBase32.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(key) != sudpKeySize {
		return nil, errors.New("search: SUDP key must decode to 16 bytes")
	}
	return key, nil
}

// EncryptSUDP encrypts cmd for delivery as an encrypted UDP search
// result, per spec.md §5's SUDP scheme.
//
// Grounded on the original source's SearchManager::encryptSUDP
// (SearchManager.cpp): 16 random bytes are prepended to the plaintext,
// PKCS#5 padding is computed from the *original* command length (not
// the IV-prefixed length) and appended, then the whole buffer is
// encrypted with AES-128-CBC under a zero outer IV — the random prefix
// bytes serve as the real per-message IV, folded into the ciphertext
// itself rather than carried alongside it.
func EncryptSUDP(key []byte, cmd string) ([]byte, error) {
	if len(key) != sudpKeySize {
		return nil, errors.New("search: SUDP key must be 16 bytes")
	}

	prefix := make([]byte, sudpKeySize)
	if _, err := rand.Read(prefix); err != nil {
		return nil, err
	}

	pad := sudpKeySize - (len(cmd) & 15)
	plain := make([]byte, 0, len(prefix)+len(cmd)+pad)
	plain = append(plain, prefix...)
	plain = append(plain, cmd...)
	for i := 0; i < pad; i++ {
		plain = append(plain, byte(pad))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	zeroIV := make([]byte, aes.BlockSize)
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, zeroIV).CryptBlocks(out, plain)

	return out, nil
}

// DecryptSUDP reverses EncryptSUDP, validating and stripping the
// PKCS#5 padding and the 16-byte random prefix.
//
// Grounded on SearchManager::decryptSUDP: decrypts under a zero IV,
// reads the trailing pad-length byte, validates every one of the last
// padlen bytes equals padlen, and returns everything between the
// 16-byte prefix and the padding.
func DecryptSUDP(key []byte, data []byte) (string, bool) {
	if len(key) != sudpKeySize || len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", false
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", false
	}

	zeroIV := make([]byte, aes.BlockSize)
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, zeroIV).CryptBlocks(out, data)

	padlen := int(out[len(out)-1])
	if padlen < 1 || padlen > sudpKeySize {
		return "", false
	}
	if len(out) < sudpKeySize+padlen {
		return "", false
	}
	for i := 0; i < padlen; i++ {
		if out[len(out)-padlen+i] != byte(padlen) {
			return "", false
		}
	}

	return string(out[sudpKeySize : len(out)-padlen]), true
}
