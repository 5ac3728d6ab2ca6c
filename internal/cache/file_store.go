package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	vaultFilename = "quick.swe"
	metaFilename  = "quick.meta.json"
)

// FileStore keeps the quick-access copy under a directory, one file for the
// still-encrypted vault bytes and one for the metadata record.
type FileStore struct {
	dir string
	log zerolog.Logger
}

func NewFileStore(dir string, log zerolog.Logger) *FileStore {
	return &FileStore{dir: dir, log: log}
}

func (s *FileStore) Put(sealed []byte, meta Metadata) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	meta.Tag = metaTag(sealed)
	mb, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(s.dir, vaultFilename), sealed); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(s.dir, metaFilename), mb); err != nil {
		return err
	}
	s.log.Debug().Str("dir", s.dir).Int("bytes", len(sealed)).Msg("quick access cached")
	return nil
}

func (s *FileStore) Get() ([]byte, Metadata, error) {
	sealed, err := os.ReadFile(filepath.Join(s.dir, vaultFilename))
	if errors.Is(err, os.ErrNotExist) {
		return nil, Metadata{}, ErrNoQuickAccess
	}
	if err != nil {
		return nil, Metadata{}, err
	}

	var meta Metadata
	mb, err := os.ReadFile(filepath.Join(s.dir, metaFilename))
	if err == nil {
		if json.Unmarshal(mb, &meta) != nil {
			meta = Metadata{}
		}
	}
	checked := checkMeta(sealed, meta)
	if checked.Username == "" && meta.Username != "" {
		s.log.Warn().Str("dir", s.dir).Msg("quick access metadata did not match cached vault, discarding")
	}
	return sealed, checked, nil
}

func (s *FileStore) Clear() error {
	for _, name := range []string{vaultFilename, metaFilename} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// writeAtomic stages to a temp file in the same directory and renames into
// place, so a crashed write never leaves a torn cache.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
