package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/sirupsen/logrus"

	"github.com/NoahDarveau/MarkovMario/pkg/logger"
)

// LoadDir reads every regular file in dir as one example level and builds the index.
func LoadDir(dir string, height int, log logrus.FieldLogger) (*Index, error) {
	return LoadFS(os.DirFS(dir), ".", height, log)
}

// LoadFS is LoadDir over an fs.FS. Unreadable or malformed files are logged and skipped;
// only a corpus without start or end slices is an error.
func LoadFS(fsys fs.FS, dir string, height int, log logrus.FieldLogger) (*Index, error) {
	log = logger.Or(log)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir %q: %w", dir, err)
	}

	b := NewBuilder(height)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := path.Join(dir, entry.Name())
		log.WithField("file", name).Debug("Reading corpus level")

		f, err := fsys.Open(name)
		if err != nil {
			log.WithError(err).WithField("file", name).Warn("Skipping unreadable corpus file")
			continue
		}
		err = b.AddText(name, f)
		f.Close()
		if err != nil {
			log.WithError(err).WithField("file", name).Warn("Skipping malformed corpus file")
		}
	}

	idx, err := b.Build()
	if err != nil {
		return nil, err
	}

	st := idx.Stats()
	log.WithFields(logrus.Fields{
		"levels":   st.Levels,
		"rejected": st.Rejected,
		"slices":   st.Slices,
		"starts":   st.Starts,
		"ends":     st.Ends,
	}).Info("Corpus index built")
	return idx, nil
}
