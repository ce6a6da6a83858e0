package nearest

import (
	"runtime"
	"sync"

	"github.com/alexpreynolds/nearest-transcripts/internal/genome"
)

// WorkItem holds a parsed site ready for matching.
type WorkItem struct {
	Seq  int
	Site genome.Region
}

// WorkResult holds the matches for a single site.
type WorkResult struct {
	Seq     int
	Site    genome.Region
	Matches []Match
}

// ParallelFind matches work items using a pool of workers. The transcript
// set is read-only during the run, so workers share it without locking.
// Results arrive in completion order; use OrderedCollect to consume them in
// sequence-number order. If workers is 0, runtime.NumCPU() is used.
func (m *Matcher) ParallelFind(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- WorkResult{
					Seq:     item.Seq,
					Site:    item.Site,
					Matches: m.FindNearest(item.Site),
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them as soon
// as the next expected sequence number is available. Blocks until the
// results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
