package merger

import (
	"sort"

	"capstan/internal/vtt"
)

// DefaultGapThreshold is the silence length, in seconds, above which a gap in
// caption coverage is reported.
const DefaultGapThreshold = 5.0

// Options tune merging.
type Options struct {
	// GapThreshold is the minimum silence, in seconds, reported as a
	// capture gap. Zero or negative disables gap detection.
	GapThreshold float64
}

// Gap is a stretch of the episode with no caption coverage. It usually means
// the browser capture was started late or segments failed to download.
type Gap struct {
	// Index is the position in the merged cue list after which the gap occurs.
	Index int
	// Start is the end time of the last cue before the gap.
	Start float64
	// End is the start time of the first cue after the gap.
	End float64
	// Seconds is the gap length.
	Seconds float64
}

// Result is the merged episode transcript plus merge bookkeeping.
type Result struct {
	Cues []vtt.Cue
	// Duplicates counts exact-duplicate cues dropped from segment overlap.
	Duplicates int
	// Malformed sums the malformed cue counts of all input segments.
	Malformed int
	// Gaps lists coverage gaps longer than the threshold, in time order.
	Gaps []Gap
}

// Merge combines parsed segments into one transcript ordered by cue time.
// Exact duplicates are removed keeping the first occurrence; cues that
// overlap in time but differ in text are all kept.
func Merge(segments []vtt.Document, opts Options) Result {
	var result Result

	total := 0
	for _, segment := range segments {
		result.Malformed += segment.Malformed
		total += len(segment.Cues)
	}

	cues := make([]vtt.Cue, 0, total)
	for _, segment := range segments {
		cues = append(cues, segment.Cues...)
	}

	sort.SliceStable(cues, func(i, j int) bool {
		if cues[i].Start != cues[j].Start {
			return cues[i].Start < cues[j].Start
		}
		if cues[i].End != cues[j].End {
			return cues[i].End < cues[j].End
		}
		return cues[i].Text < cues[j].Text
	})

	seen := make(map[vtt.Cue]struct{}, len(cues))
	merged := cues[:0]
	for _, cue := range cues {
		if _, dup := seen[cue]; dup {
			result.Duplicates++
			continue
		}
		seen[cue] = struct{}{}
		merged = append(merged, cue)
	}
	result.Cues = merged

	if opts.GapThreshold > 0 {
		result.Gaps = findGaps(merged, opts.GapThreshold)
	}
	return result
}

func findGaps(cues []vtt.Cue, threshold float64) []Gap {
	var gaps []Gap
	covered := 0.0
	for i, cue := range cues {
		if i == 0 {
			covered = cue.End
			continue
		}
		if delta := cue.Start - covered; delta > threshold {
			gaps = append(gaps, Gap{
				Index:   i,
				Start:   covered,
				End:     cue.Start,
				Seconds: delta,
			})
		}
		if cue.End > covered {
			covered = cue.End
		}
	}
	return gaps
}
