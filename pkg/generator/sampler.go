package generator

import (
	"fmt"
	"math/rand"

	"github.com/NoahDarveau/MarkovMario/pkg/corpus"
)

// Sampler draws frequency-weighted successors from an index.
type Sampler struct {
	idx *corpus.Index
}

func NewSampler(idx *corpus.Index) Sampler {
	return Sampler{idx: idx}
}

// Next returns a successor of from, chosen with probability count/total.
// from must not be a dead end; callers check IsDeadEnd first.
func (s Sampler) Next(from *corpus.Slice, rng *rand.Rand) *corpus.Slice {
	total := from.TotalTransitions()
	if total == 0 {
		panic(fmt.Sprintf("generator: sampling successor of dead-end slice %d", from.ID()))
	}
	next := s.idx.Slice(from.Successor(rng.Intn(total)))
	if next == nil {
		panic(fmt.Sprintf("generator: slice %d has a transition outside the index", from.ID()))
	}
	return next
}
