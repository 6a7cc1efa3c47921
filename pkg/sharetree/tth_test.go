package sharetree_test

import (
	"testing"

	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTHRoundTrip(t *testing.T) {
	var v sharetree.TTHValue
	for i := range v {
		v[i] = byte(i * 7)
	}

	encoded := v.String()
	decoded, err := sharetree.ParseTTH(encoded)
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
}

func TestTTHZero(t *testing.T) {
	var v sharetree.TTHValue
	assert.True(t, v.IsZero())

	v[0] = 1
	assert.False(t, v.IsZero())
}

func TestParseTTHRejectsMalformed(t *testing.T) {
	_, err := sharetree.ParseTTH("not-valid-base32!!")
	require.Error(t, err)

	var se *sharetree.ShareException
	require.ErrorAs(t, err, &se)
	assert.Equal(t, sharetree.ErrMalformed, se.Code)
}

func TestParseTTHRejectsWrongLength(t *testing.T) {
	_, err := sharetree.ParseTTH("AAAA")
	require.Error(t, err)

	var se *sharetree.ShareException
	require.ErrorAs(t, err, &se)
	assert.Equal(t, sharetree.ErrMalformed, se.Code)
}

func TestGenerateDirectoryTTHDeterministic(t *testing.T) {
	a := sharetree.GenerateDirectoryTTH("music", 1024)
	b := sharetree.GenerateDirectoryTTH("music", 1024)
	assert.Equal(t, a, b)

	c := sharetree.GenerateDirectoryTTH("music", 2048)
	assert.NotEqual(t, a, c)

	d := sharetree.GenerateDirectoryTTH("movies", 1024)
	assert.NotEqual(t, a, d)
}

func TestCIDRoundTrip(t *testing.T) {
	var c sharetree.CID
	for i := range c {
		c[i] = byte(255 - i)
	}

	encoded := c.String()
	decoded, err := sharetree.ParseCID(encoded)
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
}
