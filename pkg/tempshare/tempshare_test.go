package tempshare_test

import (
	"testing"

	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/adc-share/sharecore/pkg/tempshare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTempShareUnrestrictedIsIdempotentPerUser(t *testing.T) {
	m := tempshare.NewManager()
	tth := sharetree.GenerateDirectoryTTH("clip.mkv", 777)

	info1, added1 := m.AddTempShare(tth, "clip.mkv", "/tmp/clip.mkv", 777, nil)
	require.True(t, added1)

	info2, added2 := m.AddTempShare(tth, "clip.mkv", "/tmp/clip.mkv", 777, nil)
	assert.False(t, added2)
	assert.Equal(t, info1.Token, info2.Token)
}

func TestIsTempSharedRespectsUserRestriction(t *testing.T) {
	m := tempshare.NewManager()
	tth := sharetree.GenerateDirectoryTTH("private.bin", 42)

	var alice tempshare.UserID
	alice[0] = 1
	var bob tempshare.UserID
	bob[0] = 2

	_, added := m.AddTempShare(tth, "private.bin", "/tmp/p.bin", 42, &alice)
	require.True(t, added)

	_, ok := m.IsTempShared(tth, &alice)
	assert.True(t, ok)

	_, ok = m.IsTempShared(tth, &bob)
	assert.False(t, ok)
}

func TestRemoveTempShare(t *testing.T) {
	m := tempshare.NewManager()
	tth := sharetree.GenerateDirectoryTTH("gone.bin", 1)

	info, added := m.AddTempShare(tth, "gone.bin", "/tmp/gone.bin", 1, nil)
	require.True(t, added)

	removed, ok := m.RemoveTempShare(info.Token)
	require.True(t, ok)
	assert.Equal(t, info, removed)

	_, ok = m.IsTempShared(tth, nil)
	assert.False(t, ok)

	_, ok = m.RemoveTempShare(info.Token)
	assert.False(t, ok)
}
