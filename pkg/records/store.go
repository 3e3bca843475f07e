package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"

	"github.com/agentstation/rfcindex/pkg/constants"
	"github.com/agentstation/rfcindex/pkg/errors"
	"github.com/agentstation/rfcindex/pkg/logging"
)

// Store persists records keyed by document number.
type Store interface {
	// Save writes the record, replacing any previous one for the same number.
	Save(r *Record) error
	// Open loads one record, upgrading older schema versions in memory.
	Open(number int) (*Record, error)
	// Exists reports whether a record file exists for number.
	Exists(number int) (bool, error)
	// Delete removes the record for number.
	Delete(number int) error
	// All loads every record, sorted by number. The first failure aborts.
	All() ([]*Record, error)
	// Numbers lists the numbers that have a record file, sorted.
	Numbers() ([]int, error)
}

// recordFilePattern matches record filenames such as "0050.json".
var recordFilePattern = regexp.MustCompile(`^(\d+)\.json$`)

// FileStore stores one JSON file per record in a directory.
type FileStore struct {
	dir    string
	logger *zerolog.Logger
}

// StoreOption configures a FileStore.
type StoreOption func(*FileStore)

// WithStoreLogger sets the logger used for skipped directory entries.
func WithStoreLogger(logger *zerolog.Logger) StoreOption {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileStore returns a store rooted at dir. The directory is created on first save.
func NewFileStore(dir string, opts ...StoreOption) *FileStore {
	s := &FileStore{dir: dir, logger: logging.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory holding the record files.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file path of the record for number, e.g. "metadata/0050.json".
func (s *FileStore) Path(number int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%0*d.json", constants.RecordNumberWidth, number))
}

// Save implements Store. The file is replaced atomically and always written
// at the current schema version.
func (s *FileStore) Save(r *Record) error {
	if r == nil {
		return errors.NewValidationError("record", nil, "cannot be nil")
	}
	if r.Number <= 0 {
		return errors.NewValidationError("number", r.Number, "must be positive")
	}

	out := r.Clone()
	out.Version = constants.MetadataVersion
	normalizeLists(out)

	path := s.Path(r.Number)
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.WrapJSON(path, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create directory", s.dir, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return errors.WrapIO("write", path, err)
	}
	r.Version = out.Version
	return nil
}

// Open implements Store.
func (s *FileStore) Open(number int) (*Record, error) {
	path := s.Path(number)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &errors.NotFoundError{Resource: "record", ID: strconv.Itoa(number)}
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return decodeRecord(path, data)
}

// Exists implements Store.
func (s *FileStore) Exists(number int) (bool, error) {
	path := s.Path(number)
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, errors.WrapIO("stat", path, err)
	}
}

// Delete implements Store.
func (s *FileStore) Delete(number int) error {
	path := s.Path(number)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &errors.NotFoundError{Resource: "record", ID: strconv.Itoa(number)}
		}
		return errors.WrapIO("delete", path, err)
	}
	return nil
}

// All implements Store.
func (s *FileStore) All() ([]*Record, error) {
	numbers, err := s.Numbers()
	if err != nil {
		return nil, err
	}
	all := make([]*Record, 0, len(numbers))
	for _, n := range numbers {
		r, err := s.Open(n)
		if err != nil {
			return nil, err
		}
		all = append(all, r)
	}
	return all, nil
}

// Numbers implements Store. A missing directory yields no numbers.
func (s *FileStore) Numbers() ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []int{}, nil
		}
		return nil, errors.WrapIO("list", s.dir, err)
	}

	numbers := make([]int, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			s.logger.Warn().Err(err).Str("entry", entry.Name()).Msg("Skipping unreadable directory entry")
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		m := recordFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		if entry.Name() != filepath.Base(s.Path(n)) {
			s.logger.Warn().Str("entry", entry.Name()).Msg("Skipping record file with non-canonical name")
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers, nil
}

// decodeRecord reads the version first, upgrades older documents, then
// decodes strictly into the current shape.
func decodeRecord(path string, data []byte) (*Record, error) {
	var header struct {
		Version *uint64 `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, errors.WrapJSON(path, err)
	}
	if header.Version == nil {
		return nil, errors.WrapJSON(path, errors.New("missing version field"))
	}

	version := *header.Version
	if version > constants.MetadataVersion {
		return nil, &errors.UnsupportedVersionError{
			Path:      path,
			Version:   version,
			Supported: constants.MetadataVersion,
		}
	}
	if version < constants.MetadataVersion {
		upgraded, err := upgrade(version, data)
		if err != nil {
			return nil, errors.WrapJSON(path, err)
		}
		data = upgraded
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil, errors.WrapJSON(path, err)
	}
	if r.Number <= 0 {
		return nil, errors.WrapJSON(path, errors.New("missing or invalid number field"))
	}
	if r.Filename == "" {
		return nil, errors.WrapJSON(path, errors.New("missing filename field"))
	}
	normalizeLists(&r)
	return &r, nil
}

// normalizeLists replaces nil lists so they serialize as [] rather than null.
func normalizeLists(r *Record) {
	if r.FeatureName == nil {
		r.FeatureName = []string{}
	}
	if r.Issues == nil {
		r.Issues = []string{}
	}
	if r.Teams == nil {
		r.Teams = []Team{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
}
