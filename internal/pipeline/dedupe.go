package pipeline

import "github.com/zeebo/xxh3"

// dedupeSet remembers 64-bit xxh3 hashes of every row written so far. Fields
// are hashed with a NUL separator; a hash collision (or a NUL byte sitting
// exactly at a field boundary) would drop a non-duplicate row, which is an
// accepted trade-off for constant-size-per-row memory on multi-gigabyte
// inputs.
type dedupeSet struct {
	h    xxh3.Hasher
	seen map[uint64]struct{}
}

func newDedupeSet() *dedupeSet {
	return &dedupeSet{seen: make(map[uint64]struct{})}
}

// isDuplicate records the row's hash and reports whether it was already
// present.
func (d *dedupeSet) isDuplicate(fields []string) bool {
	d.h.Reset()
	for i, f := range fields {
		if i > 0 {
			_, _ = d.h.Write([]byte{0})
		}
		_, _ = d.h.WriteString(f)
	}
	sum := d.h.Sum64()
	if _, ok := d.seen[sum]; ok {
		return true
	}
	d.seen[sum] = struct{}{}
	return false
}
