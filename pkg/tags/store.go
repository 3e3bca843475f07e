package tags

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/agentstation/rfcindex/pkg/constants"
	"github.com/agentstation/rfcindex/pkg/errors"
)

// Store persists the tag dictionary.
type Store interface {
	Read() (*Dictionary, error)
	Write(d *Dictionary) error
}

// FileStore keeps the dictionary as a JSON list of entries in one file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the dictionary in dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, constants.TagDictionaryFilename)}
}

// Path returns the dictionary file path.
func (s *FileStore) Path() string {
	return s.path
}

// Read loads the dictionary. A missing file is a NotFound error.
func (s *FileStore) Read() (*Dictionary, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &errors.NotFoundError{Resource: "tag dictionary", ID: s.path}
		}
		return nil, errors.WrapIO("read", s.path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.WrapJSON(s.path, err)
	}
	return NewDictionary(entries), nil
}

// Write replaces the dictionary file atomically.
func (s *FileStore) Write(d *Dictionary) error {
	data, err := json.MarshalIndent(d.Entries(), "", "  ")
	if err != nil {
		return errors.WrapJSON(s.path, err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(s.path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create directory", filepath.Dir(s.path), err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return errors.WrapIO("write", s.path, err)
	}
	return nil
}
