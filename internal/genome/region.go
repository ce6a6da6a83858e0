// Package genome provides genomic interval primitives.
package genome

import "fmt"

// Region is a genomic interval in 0-based half-open coordinates,
// following the BED convention.
type Region struct {
	Chrom string
	Start int64
	End   int64
}

// ValidationError reports a region that violates the interval invariant.
type ValidationError struct {
	Region Region
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid region %s:%d-%d: %s",
		e.Region.Chrom, e.Region.Start, e.Region.End, e.Reason)
}

// Validate checks the interval invariant: non-negative start, end > start.
func (r Region) Validate() error {
	if r.Start < 0 {
		return &ValidationError{Region: r, Reason: "negative start"}
	}
	if r.End <= r.Start {
		return &ValidationError{Region: r, Reason: "end must be greater than start"}
	}
	return nil
}

// Length returns the number of bases the region spans.
func (r Region) Length() int64 {
	return r.End - r.Start
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// Overlaps reports whether the region shares at least one base with the
// half-open interval [start, end). Chromosomes are not compared; callers
// restrict candidates to the region's chromosome first.
func (r Region) Overlaps(start, end int64) bool {
	return r.Start < end && start < r.End
}

// Distance returns the distance between the region and the half-open
// interval [start, end) on the same chromosome. Overlapping intervals are
// at distance 0; disjoint intervals are at gap+1, so bookended intervals
// report distance 1. This matches the pyranges nearest convention.
func (r Region) Distance(start, end int64) int64 {
	if r.Overlaps(start, end) {
		return 0
	}
	if start >= r.End {
		return start - r.End + 1
	}
	return r.Start - end + 1
}
