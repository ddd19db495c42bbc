package corpus

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFS_SkipsBrokenFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"lvl-1.txt":    {Data: []byte("M--\r\n#--\r\n--F\r\n")},
		"lvl-2.txt":    {Data: []byte("M---\n#--\n---F\n")},
		"lvl-3.txt":    {Data: []byte("")},
		"nested/x.txt": {Data: []byte("garbage")},
		"lvl-4.txt":    {Data: []byte("M-X\n#-X\n-XF\n")},
	}

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	idx, err := LoadFS(fsys, ".", 3, log)
	require.NoError(t, err)

	st := idx.Stats()
	assert.Equal(t, 2, st.Levels)
	assert.Equal(t, 2, st.Rejected)
	assert.Contains(t, buf.String(), "lvl-2.txt")
	assert.Contains(t, buf.String(), "lvl-3.txt")
	assert.NotContains(t, buf.String(), "nested")
}

func TestLoadFS_NoStart(t *testing.T) {
	fsys := fstest.MapFS{
		"a.txt": {Data: []byte("---\n#--\n--F\n")},
	}
	_, err := LoadFS(fsys, ".", 3, nil)
	assert.ErrorIs(t, err, ErrNoStartSlice)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("M--\n#--\n--F\n"), 0o644))

	idx, err := LoadDir(dir, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())

	_, err = LoadDir(filepath.Join(dir, "missing"), 3, nil)
	assert.Error(t, err)
}

func TestParseColumns(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		height  int
		want    []string
		wantErr error
	}{
		{
			name:   "plain",
			input:  "M--\n#--\n--F",
			height: 3,
			want:   []string{"M#-", "---", "--F"},
		},
		{
			name:   "carriage returns, nul bytes and trailing blank lines",
			input:  "M-\r\n\x00X-\r\n\n\n",
			height: 2,
			want:   []string{"MX", "--"},
		},
		{
			name:    "wrong row count",
			input:   "M-\nX-\n--\n",
			height:  2,
			wantErr: ErrMalformedLevel,
		},
		{
			name:    "row longer than the first",
			input:   "M-\nX--\n",
			height:  2,
			wantErr: ErrMalformedLevel,
		},
		{
			name:    "empty",
			input:   "\n\n",
			height:  2,
			wantErr: ErrEmptyLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColumns(strings.NewReader(tt.input), tt.height)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			var cells []string
			for _, col := range got {
				b := make([]byte, len(col))
				for i, c := range col {
					b[i] = byte(c)
				}
				cells = append(cells, string(b))
			}
			assert.Equal(t, tt.want, cells)
		})
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{File: "a.txt", Line: 3, Err: ErrMalformedLevel, Reason: "bad"}
	assert.Equal(t, "corpus a.txt:3: malformed level: bad", err.Error())

	err = &ParseError{Err: ErrEmptyLevel}
	assert.Equal(t, "corpus <input>: level has no columns", err.Error())
}
