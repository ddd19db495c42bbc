package corpus

import (
	"fmt"
	"io"

	"github.com/NoahDarveau/MarkovMario/pkg/tiles"
)

// DefaultHeight is the row count of the stock corpus.
const DefaultHeight = 16

// Stats summarizes an index.
type Stats struct {
	Height      int `json:"height"`
	Levels      int `json:"levels"`
	Rejected    int `json:"rejected"`
	Columns     int `json:"columns"`
	Slices      int `json:"slices"`
	Starts      int `json:"starts"`
	Ends        int `json:"ends"`
	Fillers     int `json:"fillers"`
	DeadEnds    int `json:"deadEnds"`
	Transitions int `json:"transitions"`
}

// Builder accumulates example levels into a transition table.
type Builder struct {
	height   int
	slices   []*Slice
	byCells  map[string]int
	starts   []int
	ends     []int
	levels   int
	rejected int
	columns  int
}

func NewBuilder(height int) *Builder {
	return &Builder{
		height:  height,
		byCells: make(map[string]int),
	}
}

func (b *Builder) Height() int { return b.height }

// Add ingests one level given column by column. A rejected level leaves the builder unchanged.
func (b *Builder) Add(name string, columns [][]tiles.Tile) error {
	if len(columns) == 0 {
		b.rejected++
		return &ParseError{File: name, Err: ErrEmptyLevel}
	}
	for x, col := range columns {
		if len(col) != b.height {
			b.rejected++
			return &ParseError{
				File:   name,
				Err:    ErrMalformedLevel,
				Reason: fmt.Sprintf("column %d has %d tiles, want %d", x, len(col), b.height),
			}
		}
	}

	var last *Slice
	for _, col := range columns {
		cur := b.intern(col)
		if last != nil {
			last.recordFollowup(cur.id)
		}
		last = cur
	}

	b.levels++
	b.columns += len(columns)
	return nil
}

// AddText parses r with ParseColumns and ingests the result.
func (b *Builder) AddText(name string, r io.Reader) error {
	columns, err := ParseColumns(r, b.height)
	if err != nil {
		b.rejected++
		if pe, ok := err.(*ParseError); ok {
			pe.File = name
		}
		return err
	}
	return b.Add(name, columns)
}

// intern returns the existing slice with the same cells or registers a new one.
func (b *Builder) intern(col []tiles.Tile) *Slice {
	buf := make([]byte, len(col))
	for i, t := range col {
		buf[i] = byte(t)
	}
	key := string(buf)

	if id, ok := b.byCells[key]; ok {
		return b.slices[id]
	}

	s := newSlice(len(b.slices), key)
	b.slices = append(b.slices, s)
	b.byCells[key] = s.id
	if s.start {
		b.starts = append(b.starts, s.id)
	}
	if s.end {
		b.ends = append(b.ends, s.id)
	}
	return s
}

// Build snapshots the builder into an immutable Index. The builder stays usable.
func (b *Builder) Build() (*Index, error) {
	if len(b.starts) == 0 {
		return nil, fmt.Errorf("build index from %d levels: %w", b.levels, ErrNoStartSlice)
	}
	if len(b.ends) == 0 {
		return nil, fmt.Errorf("build index from %d levels: %w", b.levels, ErrNoEndSlice)
	}

	idx := &Index{
		height:  b.height,
		slices:  make([]*Slice, len(b.slices)),
		byCells: make(map[string]int, len(b.byCells)),
		starts:  append([]int(nil), b.starts...),
		ends:    append([]int(nil), b.ends...),
	}
	for i, s := range b.slices {
		idx.slices[i] = s.clone()
	}
	for k, v := range b.byCells {
		idx.byCells[k] = v
	}

	st := Stats{
		Height:   b.height,
		Levels:   b.levels,
		Rejected: b.rejected,
		Columns:  b.columns,
		Slices:   len(idx.slices),
		Starts:   len(idx.starts),
		Ends:     len(idx.ends),
	}
	for _, s := range idx.slices {
		st.Transitions += s.total
		if s.IsDeadEnd() {
			st.DeadEnds++
		}
		if !s.start && !s.end && !s.IsDeadEnd() {
			idx.fillers = append(idx.fillers, s.id)
		}
	}
	st.Fillers = len(idx.fillers)
	idx.stats = st

	return idx, nil
}

// Index is the read-only slice table used by generation. It is safe for concurrent use.
type Index struct {
	height  int
	slices  []*Slice
	byCells map[string]int
	starts  []int
	ends    []int
	fillers []int
	stats   Stats
}

func (i *Index) Height() int { return i.height }

func (i *Index) Len() int { return len(i.slices) }

// Slice returns the slice with the given id, or nil.
func (i *Index) Slice(id int) *Slice {
	if id < 0 || id >= len(i.slices) {
		return nil
	}
	return i.slices[id]
}

func (i *Index) Slices() []*Slice {
	return append([]*Slice(nil), i.slices...)
}

func (i *Index) Starts() []*Slice { return i.pick(i.starts) }

func (i *Index) Ends() []*Slice { return i.pick(i.ends) }

// Fillers are slices that are neither start nor end and have at least one transition.
func (i *Index) Fillers() []*Slice { return i.pick(i.fillers) }

func (i *Index) pick(ids []int) []*Slice {
	out := make([]*Slice, len(ids))
	for k, id := range ids {
		out[k] = i.slices[id]
	}
	return out
}

// Lookup finds the slice whose cells equal the given column.
func (i *Index) Lookup(cells string) (*Slice, bool) {
	id, ok := i.byCells[cells]
	if !ok {
		return nil, false
	}
	return i.slices[id], true
}

func (i *Index) Stats() Stats { return i.stats }
