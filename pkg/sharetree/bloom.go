package sharetree

import (
	"hash/fnv"
	"math"
)

// BloomHashFuncs is the number of independent hash functions the share
// bloom filter uses, matching the original source's `BloomFilter<5>`
// instantiation for `ShareBloom`.
const BloomHashFuncs = 5

// bloomNGram is the fixed substring length fed into the filter instead
// of whole names. Search tokens are arbitrary substrings of a stored
// name (spec.md §8 scenario 3: the token "matrix" must find the file
// "matrix.s01e01.mkv"), so membership has to be answered at the
// n-gram level: if every trigram of a token is a trigram of some
// stored name, the token could be a substring of that name; if any
// trigram of the token was never added, the token cannot appear
// anywhere, which is exactly the "no false negatives" guarantee a
// bloom filter must keep. Byte-level n-grams are safe for UTF-8 names
// since a substring relationship between two strings always implies
// the same relationship between their encoded bytes.
const bloomNGram = 3

// ShareBloom is a fixed-size k-hash bloom filter fed with the n-grams of
// every lowercased directory and file name in the tree. It is used to
// short-circuit searches whose tokens cannot possibly appear anywhere in
// the share, at the cost of false positives (never false negatives).
//
// Grounded on SPEC_FULL.md §3/§4.2's description of `ShareBloom` as a
// k-hash bloom filter over lowercased tokens; the original source
// declares it as `BloomFilter<5>` from a header not present in the
// retrieved pack, so the bit-derivation scheme here (double hashing via
// two independent FNV variants, per Kirsch-Mitzenmacher) is this
// expansion's own choice, grounded instead on the standard
// double-hashing construction used by most production bloom filters
// (the teacher itself has no bloom filter to crib from). The n-gram feed (rather than
// whole-name feed) is grounded on the original source calling
// `bloom->match(pattern)` with arbitrary query substrings
// (`airdcpp-core/airdcpp/share/ShareTree.cpp`), which only a
// substring-capable filter can answer correctly.
type ShareBloom struct {
	bits []uint64
	m    uint64
}

// NewShareBloom creates a bloom filter sized for approximately
// expectedItems entries at a false-positive rate near 3% (2^-5 for
// BloomHashFuncs = 5 at the bit count optimalBits picks).
func NewShareBloom(expectedItems int) *ShareBloom {
	if expectedItems < 1 {
		expectedItems = 1
	}
	m := optimalBits(expectedItems, BloomHashFuncs)
	words := (m + 63) / 64
	return &ShareBloom{bits: make([]uint64, words), m: uint64(m)}
}

func optimalBits(n, k int) int {
	// m = -(n * ln(p)) / (ln(2)^2), solved backwards from k = (m/n)ln(2)
	// so that k stays fixed at BloomHashFuncs rather than being derived
	// from a target false-positive rate directly.
	ln2 := math.Ln2
	m := float64(n) * float64(k) / ln2
	if m < 64 {
		m = 64
	}
	return int(math.Ceil(m))
}

// Add feeds every n-gram of a lowercased name into the filter (the
// whole name too, if it is shorter than bloomNGram).
func (b *ShareBloom) Add(lower string) {
	for _, gram := range ngrams(lower) {
		b.addRaw(gram)
	}
}

func (b *ShareBloom) addRaw(token string) {
	h1, h2 := splitHash(token)
	for i := 0; i < BloomHashFuncs; i++ {
		idx := (h1 + uint64(i)*h2) % b.m
		b.bits[idx/64] |= 1 << (idx % 64)
	}
}

// Contains reports whether lower may be a substring of some name added
// to the filter. A false result is definitive; a true result may be a
// false positive. Tokens shorter than bloomNGram bypass the filter
// entirely (returning true unconditionally) since they were never fed
// in as their own n-gram and checking them would risk a false
// negative.
func (b *ShareBloom) Contains(lower string) bool {
	if len(lower) < bloomNGram {
		return true
	}
	for _, gram := range ngrams(lower) {
		if !b.containsRaw(gram) {
			return false
		}
	}
	return true
}

func (b *ShareBloom) containsRaw(token string) bool {
	h1, h2 := splitHash(token)
	for i := 0; i < BloomHashFuncs; i++ {
		idx := (h1 + uint64(i)*h2) % b.m
		if b.bits[idx/64]&(1<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}

// ngrams returns every bloomNGram-length byte substring of s, or s
// itself if it is shorter than bloomNGram.
func ngrams(s string) []string {
	if len(s) <= bloomNGram {
		return []string{s}
	}
	grams := make([]string, 0, len(s)-bloomNGram+1)
	for i := 0; i+bloomNGram <= len(s); i++ {
		grams = append(grams, s[i:i+bloomNGram])
	}
	return grams
}

// Size returns the number of bits backing the filter, used for
// diagnostics (the index command prints the bloom size).
func (b *ShareBloom) Size() int {
	return int(b.m)
}

func splitHash(s string) (h1, h2 uint64) {
	a := fnv.New64a()
	a.Write([]byte(s))
	h1 = a.Sum64()

	b := fnv.New64()
	b.Write([]byte(s))
	h2 = b.Sum64()
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}
