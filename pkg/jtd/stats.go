package jtd

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// FieldStat reports how many documents reached a path. Array positions are
// folded into the wildcard segment.
type FieldStat struct {
	Pointer   string  `json:"pointer"`
	Documents uint64  `json:"documents"`
	Frequency float64 `json:"frequency"`
}

// pathStats maps a wildcard pointer to the ordinals of documents that reached it.
type pathStats struct {
	docs map[string]*roaring.Bitmap
}

func newPathStats() *pathStats {
	return &pathStats{docs: make(map[string]*roaring.Bitmap)}
}

func (s *pathStats) record(path Path, doc uint32) {
	key := path.pattern()
	bm, ok := s.docs[key]
	if !ok {
		bm = roaring.New()
		s.docs[key] = bm
	}
	bm.Add(doc)
}

func (s *pathStats) join(o *pathStats) {
	for key, bm := range o.docs {
		if mine, ok := s.docs[key]; ok {
			mine.Or(bm)
		} else {
			s.docs[key] = bm
		}
	}
}

// Stats returns per-path document counts sorted by pointer. It is nil unless
// the Inferrer was built WithStats.
func (in *Inferrer) Stats() []FieldStat {
	if in.stats == nil {
		return nil
	}
	out := make([]FieldStat, 0, len(in.stats.docs))
	for key, bm := range in.stats.docs {
		n := bm.GetCardinality()
		stat := FieldStat{Pointer: key, Documents: n}
		if in.docs > 0 {
			stat.Frequency = float64(n) / float64(in.docs)
		}
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Pointer < out[j].Pointer
	})
	return out
}
