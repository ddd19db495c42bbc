package corpus

import (
	"strings"

	"github.com/NoahDarveau/MarkovMario/pkg/tiles"
)

// NoGround is returned by GroundHeight when a column has nothing to stand on.
const NoGround = -1

// Transition counts how many times slice To followed the owning slice in the corpus.
type Transition struct {
	To    int `json:"to"`
	Count int `json:"count"`
}

// Slice is one unique column of the corpus together with its outgoing transitions.
// Cells are stored as a string: two slices are the same node iff their strings are equal.
type Slice struct {
	id     int
	cells  string
	start  bool
	end    bool
	ground int

	// next keeps insertion order so sampling is reproducible for a fixed seed.
	next  []Transition
	pos   map[int]int
	total int
}

func newSlice(id int, cells string) *Slice {
	return &Slice{
		id:     id,
		cells:  cells,
		start:  strings.IndexByte(cells, byte(tiles.Start)) >= 0,
		end:    strings.IndexByte(cells, byte(tiles.End)) >= 0,
		ground: GroundHeight(cells),
		pos:    make(map[int]int),
	}
}

// GroundHeight scans cells from the bottom row and returns the row of the top tile of the
// lowest solid run that has open space above it, or NoGround.
func GroundHeight(cells string) int {
	ret := NoGround
	for i := len(cells) - 1; i >= 0; i-- {
		if tiles.IsSolid(tiles.Tile(cells[i])) {
			ret = i
		} else if ret > NoGround {
			return ret
		}
	}
	// Either no solid tile at all, or the solid run reaches the top row.
	return NoGround
}

// recordFollowup is the only place transition counts change.
func (s *Slice) recordFollowup(to int) {
	if i, ok := s.pos[to]; ok {
		s.next[i].Count++
	} else {
		s.pos[to] = len(s.next)
		s.next = append(s.next, Transition{To: to, Count: 1})
	}
	s.total++
}

func (s *Slice) clone() *Slice {
	c := *s
	c.next = make([]Transition, len(s.next))
	copy(c.next, s.next)
	c.pos = make(map[int]int, len(s.pos))
	for k, v := range s.pos {
		c.pos[k] = v
	}
	return &c
}

// ID is the position of the slice in its index.
func (s *Slice) ID() int { return s.id }

// Cells returns the column top to bottom.
func (s *Slice) Cells() string { return s.cells }

func (s *Slice) Cell(row int) tiles.Tile { return tiles.Tile(s.cells[row]) }

func (s *Slice) Height() int { return len(s.cells) }

func (s *Slice) IsStart() bool { return s.start }

func (s *Slice) IsEnd() bool { return s.end }

// GroundHeight is a row index (0 = top), or NoGround.
func (s *Slice) GroundHeight() int { return s.ground }

func (s *Slice) TotalTransitions() int { return s.total }

// IsDeadEnd reports whether the slice was never followed by another column.
func (s *Slice) IsDeadEnd() bool { return s.total == 0 }

// Transitions returns a copy of the outgoing transitions in insertion order.
func (s *Slice) Transitions() []Transition {
	out := make([]Transition, len(s.next))
	copy(out, s.next)
	return out
}

// Successor maps a draw in [0, TotalTransitions()) onto the transition whose cumulative
// count range contains it. It returns -1 for draws outside that range.
func (s *Slice) Successor(draw int) int {
	if draw < 0 {
		return -1
	}
	for _, tr := range s.next {
		if draw < tr.Count {
			return tr.To
		}
		draw -= tr.Count
	}
	return -1
}

// Count returns how many times slice `to` followed s.
func (s *Slice) Count(to int) int {
	if i, ok := s.pos[to]; ok {
		return s.next[i].Count
	}
	return 0
}

func (s *Slice) String() string { return s.cells }
