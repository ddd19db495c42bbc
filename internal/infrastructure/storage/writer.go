package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/NoahDarveau/MarkovMario/pkg/level"
)

const (
	MagicHeader string = `MKLV` // 4 bytes
	Version1    uint32 = 1
)

const (
	FlagOrganic uint16 = 1 << iota
	FlagRepaired
)

const (
	maxPolicyLen = 255
	fileExt      = ".mklv"
)

// LevelFileHeader is the fixed-size head of an archived level.
// binary.Write can encode it in one call: only arrays and numbers.
type LevelFileHeader struct {
	Magic     [4]byte
	Version   uint32
	Seed      int64
	Timestamp int64 // unix milliseconds
	Width     int32
	Height    int32
	Columns   int32
	Flags     uint16
	PolicyLen uint16
}

// LevelRecord is one archived level. Cells follow the header row by row.
type LevelRecord struct {
	Seed      int64
	Timestamp int64
	Policy    string
	Columns   int
	Organic   bool
	Repaired  bool
	Grid      *level.Map
}

// ArchiveService stores generated levels as .mklv files.
type ArchiveService struct {
	SaveDir string
}

func NewArchiveService(dir string) (*ArchiveService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &ArchiveService{SaveDir: dir}, nil
}

// Save writes rec and returns the file path.
func (s *ArchiveService) Save(rec *LevelRecord) (string, error) {
	filename := fmt.Sprintf("level_%d_%s_%d%s", rec.Seed, rec.Policy, rec.Timestamp, fileExt)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeBinary(w, rec); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return path, nil
}

func writeBinary(w io.Writer, rec *LevelRecord) error {
	if rec.Grid == nil {
		return fmt.Errorf("level record has no grid")
	}
	if len(rec.Policy) > maxPolicyLen {
		return fmt.Errorf("policy name too long: %d", len(rec.Policy))
	}
	if strings.ContainsAny(rec.Policy, `/\`) {
		return fmt.Errorf("policy name %q contains a path separator", rec.Policy)
	}

	header := LevelFileHeader{
		Version:   Version1,
		Seed:      rec.Seed,
		Timestamp: rec.Timestamp,
		Width:     int32(rec.Grid.Width()),
		Height:    int32(rec.Grid.Height()),
		Columns:   int32(rec.Columns),
		PolicyLen: uint16(len(rec.Policy)),
	}
	copy(header.Magic[:], MagicHeader)
	if rec.Organic {
		header.Flags |= FlagOrganic
	}
	if rec.Repaired {
		header.Flags |= FlagRepaired
	}

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := io.WriteString(w, rec.Policy); err != nil {
		return err
	}

	row := make([]byte, rec.Grid.Width())
	for y := 0; y < rec.Grid.Height(); y++ {
		for x := range row {
			row[x] = byte(rec.Grid.Cell(x, y))
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
