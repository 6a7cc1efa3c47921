package search_test

import (
	"testing"
	"time"

	"github.com/adc-share/sharecore/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerGeneratesUsableSUDPKey(t *testing.T) {
	m := search.NewManager()

	encoded, err := m.GenerateSUDPKey()
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)

	key, err := search.DecodeSUDPKey(encoded)
	require.NoError(t, err)

	encrypted, err := search.EncryptSUDP(key, "hello")
	require.NoError(t, err)

	plain, ok := m.DecryptIncoming(encrypted)
	require.True(t, ok)
	assert.Equal(t, "hello", plain)
}

func TestManagerDecryptIncomingTriesMostRecentKeyFirst(t *testing.T) {
	m := search.NewManager()

	_, err := m.GenerateSUDPKey()
	require.NoError(t, err)
	encoded2, err := m.GenerateSUDPKey()
	require.NoError(t, err)

	key2, err := search.DecodeSUDPKey(encoded2)
	require.NoError(t, err)

	encrypted, err := search.EncryptSUDP(key2, "second key wins")
	require.NoError(t, err)

	plain, ok := m.DecryptIncoming(encrypted)
	require.True(t, ok)
	assert.Equal(t, "second key wins", plain)
}

func TestManagerInstanceLifecycle(t *testing.T) {
	m := search.NewManager()

	inst := m.CreateInstance("owner-1", 0)
	assert.Equal(t, 1, m.InstanceCount())

	got, err := m.GetInstance(inst.Token)
	require.NoError(t, err)
	assert.Same(t, inst, got)

	removed, err := m.RemoveInstance(inst.Token)
	require.NoError(t, err)
	assert.Same(t, inst, removed)
	assert.Equal(t, 0, m.InstanceCount())

	_, err = m.GetInstance(inst.Token)
	assert.Error(t, err)
}

func TestManagerCullsExpiredInstances(t *testing.T) {
	m := search.NewManager()
	m.CreateInstance("owner", time.Millisecond)

	m.Start()
	defer m.Stop()

	assert.Eventually(t, func() bool {
		return m.InstanceCount() == 0
	}, 3*time.Second, 5*time.Millisecond)
}
