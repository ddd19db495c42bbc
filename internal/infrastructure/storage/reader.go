package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/NoahDarveau/MarkovMario/pkg/level"
	"github.com/NoahDarveau/MarkovMario/pkg/tiles"
)

var ErrBadArchive = errors.New("not a level archive")

// Upper bound on width*height, well above any real corpus.
const maxCells = 1 << 24

func (s *ArchiveService) Load(path string) (*LevelRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(bufio.NewReader(f))
}

func readBinary(r io.Reader) (*LevelRecord, error) {
	var header LevelFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("%w: magic %q", ErrBadArchive, header.Magic[:])
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.Width < 0 || header.Height < 0 || int64(header.Width)*int64(header.Height) > maxCells {
		return nil, fmt.Errorf("%w: size %dx%d", ErrBadArchive, header.Width, header.Height)
	}
	if header.Columns < 0 || header.Columns > header.Width {
		return nil, fmt.Errorf("%w: %d columns in width %d", ErrBadArchive, header.Columns, header.Width)
	}

	policy := make([]byte, header.PolicyLen)
	if _, err := io.ReadFull(r, policy); err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}

	grid := level.New(int(header.Width), int(header.Height))
	row := make([]byte, header.Width)
	for y := 0; y < grid.Height(); y++ {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", y, err)
		}
		for x, c := range row {
			grid.SetCell(x, y, tiles.Tile(c))
		}
	}

	return &LevelRecord{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Policy:    string(policy),
		Columns:   int(header.Columns),
		Organic:   header.Flags&FlagOrganic != 0,
		Repaired:  header.Flags&FlagRepaired != 0,
		Grid:      grid,
	}, nil
}

// List returns the archive files in SaveDir sorted by name.
func (s *ArchiveService) List() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.SaveDir, "*"+fileExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
