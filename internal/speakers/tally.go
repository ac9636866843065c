package speakers

import "sort"

// TagCount pairs a raw caption tag with how often it was seen.
type TagCount struct {
	Tag   string
	Count int
}

// Tally accumulates unmatched speaker tags across episodes so operators can
// extend the map. Not safe for concurrent use.
type Tally struct {
	counts map[string]int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Record counts one occurrence of a raw tag. Empty tags are ignored.
func (t *Tally) Record(tag string) {
	if t == nil || tag == "" {
		return
	}
	t.counts[tag]++
}

// Merge folds another tally into this one.
func (t *Tally) Merge(other *Tally) {
	if t == nil || other == nil {
		return
	}
	for tag, count := range other.counts {
		t.counts[tag] += count
	}
}

// Total reports the number of recorded misses.
func (t *Tally) Total() int {
	if t == nil {
		return 0
	}
	total := 0
	for _, count := range t.counts {
		total += count
	}
	return total
}

// Counts returns tags ordered by descending count, then tag for stability.
func (t *Tally) Counts() []TagCount {
	if t == nil || len(t.counts) == 0 {
		return nil
	}
	out := make([]TagCount, 0, len(t.counts))
	for tag, count := range t.counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
