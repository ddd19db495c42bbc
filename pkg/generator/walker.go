package generator

import (
	"math/rand"

	"github.com/NoahDarveau/MarkovMario/pkg/corpus"
)

// Walk is the slice sequence chosen for one level.
type Walk struct {
	Path []*corpus.Slice

	// Retries counts rejected candidates, Fallbacks counts columns where
	// no candidate was accepted within MaxRetries.
	Retries   int
	Fallbacks int

	// Organic is set when the walk stopped on a sampled end slice.
	Organic bool
}

// Walker performs the weighted random walk over an index.
type Walker struct {
	idx     *corpus.Index
	sampler Sampler
	cfg     Config
}

func NewWalker(idx *corpus.Index, cfg Config) *Walker {
	return &Walker{
		idx:     idx,
		sampler: NewSampler(idx),
		cfg:     cfg,
	}
}

// Walk produces a path of at most width slices. Column 0 is a start slice, the last
// column is an end slice and every other column is neither.
func (w *Walker) Walk(width int, rng *rand.Rand) (*Walk, error) {
	if width < 2 {
		return nil, ErrInvalidWidth
	}

	starts := w.idx.Starts()
	ends := w.idx.Ends()
	if len(starts) == 0 {
		return nil, corpus.ErrNoStartSlice
	}
	if len(ends) == 0 {
		return nil, corpus.ErrNoEndSlice
	}

	walk := &Walk{Path: make([]*corpus.Slice, 0, width)}

	// 1. Start
	cur := starts[rng.Intn(len(starts))]
	walk.Path = append(walk.Path, cur)

	// 2. Intermediate columns
	for x := 1; x < width-1; x++ {
		next, stop, err := w.step(cur, x == width-2, rng, walk)
		if err != nil {
			return nil, err
		}
		walk.Path = append(walk.Path, next)
		if stop {
			walk.Organic = true
			return walk, nil
		}
		cur = next
	}

	// 3. Forced end
	walk.Path = append(walk.Path, ends[rng.Intn(len(ends))])
	return walk, nil
}

// step picks the slice for one intermediate column. stop reports an organic end.
func (w *Walker) step(cur *corpus.Slice, last bool, rng *rand.Rand, walk *Walk) (next *corpus.Slice, stop bool, err error) {
	var best *corpus.Slice
	bestDelta := 0

	if !cur.IsDeadEnd() {
		for attempt := 0; attempt < w.cfg.MaxRetries; attempt++ {
			cand := w.sampler.Next(cur, rng)

			delta, guarded := w.jumpDelta(cur, cand)
			switch {
			case cand.IsStart():
				walk.Retries++
				continue
			case cand.IsEnd():
				if w.cfg.Policy.Termination == TerminateOrganic && !guarded {
					return cand, true, nil
				}
				walk.Retries++
				continue
			case cand.IsDeadEnd() && !last:
				// Never advance into a state the walk cannot leave.
				walk.Retries++
				continue
			case guarded:
				if best == nil || delta < bestDelta {
					best, bestDelta = cand, delta
				}
				walk.Retries++
				continue
			}
			return cand, false, nil
		}
	}

	// Retry budget exhausted: best over-jump, then the current slice again, then any filler.
	walk.Fallbacks++
	if best != nil {
		return best, false, nil
	}
	if !cur.IsStart() && !cur.IsEnd() && !cur.IsDeadEnd() {
		return cur, false, nil
	}
	fillers := w.idx.Fillers()
	if len(fillers) == 0 {
		return nil, false, ErrNoFillerSlice
	}
	return fillers[rng.Intn(len(fillers))], false, nil
}

// jumpDelta returns the ground height difference between two slices and whether
// the height guard rejects it. Columns without ground are never guarded.
func (w *Walker) jumpDelta(from, to *corpus.Slice) (int, bool) {
	if !w.cfg.Policy.HeightGuard {
		return 0, false
	}
	a, b := from.GroundHeight(), to.GroundHeight()
	if a == corpus.NoGround || b == corpus.NoGround {
		return 0, false
	}
	delta := a - b
	if delta < 0 {
		delta = -delta
	}
	return delta, delta > w.cfg.JumpThreshold
}
