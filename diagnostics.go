package bloomfwd

// ClassDiagnostics reports the collision accounting the source computes
// per prefix-length class after a build: the hash table's bucket
// collision count and the Bloom filter's saturated-cell count, both
// useful for judging whether a class's designed (n, p) undersold the
// real prefix distribution.
type ClassDiagnostics struct {
	Length          uint8
	Entries         int
	CollisionCount  uint64
	SaturatedCells  uint64
	BitmapBits      uint32
	NumHashes       int
}

// Diagnostics returns one ClassDiagnostics per populated class, longest
// length first.
func (t *Table[K]) Diagnostics() []ClassDiagnostics {
	out := make([]ClassDiagnostics, 0, len(t.byLengthDesc))
	for _, length := range t.byLengthDesc {
		c := t.classes[length]
		out = append(out, ClassDiagnostics{
			Length:         length,
			Entries:        c.ht.Len(),
			CollisionCount: c.ht.CollisionCount(),
			SaturatedCells: c.cbf.SaturatedCells(),
			BitmapBits:     c.cbf.BitmapLen(),
			NumHashes:      c.cbf.NumHashes(),
		})
	}
	return out
}
