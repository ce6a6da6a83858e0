package gencode

import "sort"

// intervalIndex provides O(log n + k) overlap queries using a sorted-slice
// approach. Transcripts are indexed once and never modified after build.
type intervalIndex struct {
	intervals []txInterval
	maxEnd    []int64 // maxEnd[i] = max(end) for intervals[:i+1]
}

type txInterval struct {
	start      int64
	end        int64
	transcript *Transcript
}

// buildIndex creates an interval index from a slice of transcripts.
func buildIndex(transcripts []*Transcript) *intervalIndex {
	if len(transcripts) == 0 {
		return &intervalIndex{}
	}

	intervals := make([]txInterval, len(transcripts))
	for i, t := range transcripts {
		intervals[i] = txInterval{start: t.Start, end: t.End, transcript: t}
	}

	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].start == intervals[j].start {
			return intervals[i].end < intervals[j].end
		}
		return intervals[i].start < intervals[j].start
	})

	// Build prefix-max array: maxEnd[i] = max(end) for intervals[:i+1].
	// The overlap scan walks downward from the last candidate start, so
	// the early-exit check needs the running maximum over everything at
	// or before position i.
	maxEnd := make([]int64, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = intervals[i].end
		if maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &intervalIndex{intervals: intervals, maxEnd: maxEnd}
}

// overlapping returns all transcripts whose half-open range intersects
// [start, end).
func (ix *intervalIndex) overlapping(start, end int64) []*Transcript {
	if len(ix.intervals) == 0 {
		return nil
	}

	var result []*Transcript

	// Binary search: find first interval with start >= end.
	// Every overlapping interval must start before the query end, so
	// candidates are [0, hi).
	hi := sort.Search(len(ix.intervals), func(i int) bool {
		return ix.intervals[i].start >= end
	})

	for i := hi - 1; i >= 0; i-- {
		// maxEnd[i] covers intervals[:i+1]. Once it cannot reach the
		// query start, nothing at or before i overlaps and the scan
		// can stop.
		if ix.maxEnd[i] <= start {
			break
		}
		if ix.intervals[i].end > start {
			result = append(result, ix.intervals[i].transcript)
		}
	}

	return result
}
