package search_test

import (
	"testing"

	"github.com/adc-share/sharecore/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSUDPRoundTripsExactVector(t *testing.T) {
	key, err := search.DecodeSUDPKey("DR6AOECCMYK5DQ2VDATONKFSWU")
	require.NoError(t, err)
	require.Len(t, key, 16)

	plaintext := "URES SI30744059452 SL8 FN/Downloads/ DM1644168099 FI440 FO124 TORLHTR7KH7GV7W"

	encrypted, err := search.EncryptSUDP(key, plaintext)
	require.NoError(t, err)
	assert.Equal(t, 0, len(encrypted)%16)

	decrypted, ok := search.DecryptSUDP(key, encrypted)
	require.True(t, ok)
	assert.Equal(t, plaintext, decrypted)
}

func TestSUDPRoundTripsEmptyAndBlockAlignedCommands(t *testing.T) {
	key := make([]byte, 16)
	for i := range key {
		key[i] = byte(i)
	}

	for _, cmd := range []string{"", "sixteen bytes!!!", "a"} {
		encrypted, err := search.EncryptSUDP(key, cmd)
		require.NoError(t, err)

		decrypted, ok := search.DecryptSUDP(key, encrypted)
		require.True(t, ok)
		assert.Equal(t, cmd, decrypted)
	}
}

func TestSUDPDecryptRejectsWrongKey(t *testing.T) {
	key1 := make([]byte, 16)
	key2 := make([]byte, 16)
	key2[0] = 1

	encrypted, err := search.EncryptSUDP(key1, "hello world")
	require.NoError(t, err)

	_, ok := search.DecryptSUDP(key2, encrypted)
	assert.False(t, ok)
}

func TestSUDPDecryptRejectsTruncatedData(t *testing.T) {
	key := make([]byte, 16)
	_, ok := search.DecryptSUDP(key, []byte{1, 2, 3})
	assert.False(t, ok)
}
