package sharetree

// indices holds the three global lookup structures plus the bloom
// filter that must always exactly reflect the tree's current contents.
// A single ShareTree owns one indices value and guards every access to
// it (and to the tree itself) with its own RWMutex — indices carries no
// locking of its own.
//
// Grounded directly on the original source's ShareTreeMaps struct
// (share/ShareDirectory.h): rootPaths, lowerDirNameMap, tthIndex, plus a
// bloom accessor. multimap semantics (lowerDirNameMap and tthIndex may
// each map one key to several directories/files — distinct roots can
// share a virtual name, distinct real files can share a TTH) are
// expressed with `map[K][]V` since Go has no builtin multimap.
type indices struct {
	rootPaths       map[string]*ShareDirectory
	lowerDirNameMap map[string][]*ShareDirectory
	tthIndex        map[TTHValue][]*ShareFile
	bloom           *ShareBloom
}

func newIndices(expectedBloomItems int) *indices {
	return &indices{
		rootPaths:       make(map[string]*ShareDirectory),
		lowerDirNameMap: make(map[string][]*ShareDirectory),
		tthIndex:        make(map[TTHValue][]*ShareFile),
		bloom:           NewShareBloom(expectedBloomItems),
	}
}

func (ix *indices) addDirName(dir *ShareDirectory) {
	nameLower := dir.VirtualNameLower()
	ix.lowerDirNameMap[nameLower] = append(ix.lowerDirNameMap[nameLower], dir)
	ix.bloom.Add(nameLower)
}

func (ix *indices) removeDirName(dir *ShareDirectory) {
	nameLower := dir.VirtualNameLower()
	list := ix.lowerDirNameMap[nameLower]
	for i, d := range list {
		if d == dir {
			ix.lowerDirNameMap[nameLower] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(ix.lowerDirNameMap[nameLower]) == 0 {
		delete(ix.lowerDirNameMap, nameLower)
	}
}

func (ix *indices) addTTH(f *ShareFile) {
	ix.tthIndex[f.TTH] = append(ix.tthIndex[f.TTH], f)
	ix.bloom.Add(f.Name.Lower())
}

func (ix *indices) removeTTH(f *ShareFile) {
	list := ix.tthIndex[f.TTH]
	for i, x := range list {
		if x == f {
			ix.tthIndex[f.TTH] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(ix.tthIndex[f.TTH]) == 0 {
		delete(ix.tthIndex, f.TTH)
	}
}
