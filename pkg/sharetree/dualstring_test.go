package sharetree_test

import (
	"testing"

	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/stretchr/testify/assert"
)

func TestDualStringInvariant(t *testing.T) {
	d := sharetree.NewDualString("Music Collection")
	assert.Equal(t, "Music Collection", d.String())
	assert.Equal(t, "music collection", d.Lower())
}

func TestDualStringAlreadyLower(t *testing.T) {
	d := sharetree.NewDualString("already-lower")
	assert.Equal(t, "already-lower", d.String())
	assert.Equal(t, "already-lower", d.Lower())
}

func TestDualStringEmpty(t *testing.T) {
	d := sharetree.NewDualString("")
	assert.True(t, d.IsEmpty())
}

func TestDirectoryContentInfoAdd(t *testing.T) {
	a := sharetree.DirectoryContentInfo{Files: 3, Directories: 1}
	b := sharetree.DirectoryContentInfo{Files: 2, Directories: 4}

	sum := a.Add(b)
	assert.Equal(t, sharetree.DirectoryContentInfo{Files: 5, Directories: 5}, sum)
}
