package pkg

// CheckResult is the outcome of DuplicateIndex.CheckAndRegister.
type CheckResult struct {
	Duplicate bool
	// Canonical is the path registered for the digest. For a unique result it
	// is the path that was just registered.
	Canonical string
}

// DuplicateIndex maps a content digest to the first path seen with it.
// A digest maps to at most one canonical path at any time.
type DuplicateIndex struct {
	canonical map[string]string
}

func NewDuplicateIndex() *DuplicateIndex {
	return &DuplicateIndex{canonical: make(map[string]string)}
}

// CheckAndRegister registers path as canonical for digest on first encounter.
// Later encounters report the existing canonical path and register nothing.
func (d *DuplicateIndex) CheckAndRegister(digest, path string) CheckResult {
	if existing, ok := d.canonical[digest]; ok {
		return CheckResult{Duplicate: true, Canonical: existing}
	}
	d.canonical[digest] = path
	return CheckResult{Canonical: path}
}

// Seed registers an already organized file. It reports false, leaving the
// index unchanged, when the digest is already known.
func (d *DuplicateIndex) Seed(digest, path string) bool {
	if _, ok := d.canonical[digest]; ok {
		return false
	}
	d.canonical[digest] = path
	return true
}

// Update points an existing digest at the file's new location after a move.
func (d *DuplicateIndex) Update(digest, path string) {
	if _, ok := d.canonical[digest]; ok {
		d.canonical[digest] = path
	}
}

// Forget removes digest, e.g. when its canonical file could not be placed.
func (d *DuplicateIndex) Forget(digest string) {
	delete(d.canonical, digest)
}

// Lookup returns the canonical path for digest, if any.
func (d *DuplicateIndex) Lookup(digest string) (string, bool) {
	p, ok := d.canonical[digest]
	return p, ok
}

func (d *DuplicateIndex) Len() int { return len(d.canonical) }
