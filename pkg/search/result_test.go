package search_test

import (
	"testing"
	"time"

	"github.com/adc-share/sharecore/pkg/search"
	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/stretchr/testify/assert"
)

func TestResultFileNameIsLastAdcSegment(t *testing.T) {
	var user sharetree.CID
	tth := sharetree.GenerateDirectoryTTH("f", 1)
	r := search.NewResult(user, "hub", search.KindFile, 1, 1, 10, "/share/docs/readme.txt", "", tth, "t", time.Unix(1, 0), "1000", sharetree.DirectoryContentInfo{})

	assert.Equal(t, "readme.txt", r.FileName())
}

func TestResultFileNameHandlesDirectoryTrailingSlash(t *testing.T) {
	var user sharetree.CID
	tth := sharetree.GenerateDirectoryTTH("d", 0)
	r := search.NewResult(user, "hub", search.KindDirectory, 1, 1, 0, "/share/docs/", "", tth, "t", time.Unix(1, 0), "1000", sharetree.DirectoryContentInfo{})

	assert.Equal(t, "docs", r.FileName())
}

func TestResultConnectionIntParsesNumericPrefix(t *testing.T) {
	var user sharetree.CID
	tth := sharetree.GenerateDirectoryTTH("f", 1)
	r := search.NewResult(user, "hub", search.KindFile, 1, 1, 10, "/f", "", tth, "t", time.Unix(1, 0), "2500", sharetree.DirectoryContentInfo{})

	assert.Equal(t, int64(2500), r.ConnectionInt())
}

func TestResultConnectionIntNonNumericIsZero(t *testing.T) {
	var user sharetree.CID
	tth := sharetree.GenerateDirectoryTTH("f", 1)
	r := search.NewResult(user, "hub", search.KindFile, 1, 1, 10, "/f", "", tth, "t", time.Unix(1, 0), "unknown", sharetree.DirectoryContentInfo{})

	assert.Equal(t, int64(0), r.ConnectionInt())
}

func TestNewResultAssignsMonotonicIDs(t *testing.T) {
	var user sharetree.CID
	tth := sharetree.GenerateDirectoryTTH("f", 1)
	a := search.NewResult(user, "hub", search.KindFile, 1, 1, 10, "/f", "", tth, "t", time.Unix(1, 0), "1000", sharetree.DirectoryContentInfo{})
	b := search.NewResult(user, "hub", search.KindFile, 1, 1, 10, "/f", "", tth, "t", time.Unix(1, 0), "1000", sharetree.DirectoryContentInfo{})

	assert.Greater(t, b.ID, a.ID)
}
