package sessionstore

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/mawere/uniport/core/session"
)

// FileStore persists the session entries as a single JSON document. Writes go
// through a temp file + rename so the full triple lands in one step and a
// reader can never observe a half-written session.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ session.Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return ""
	}
	return entries[key]
}

func (s *FileStore) Set(entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	curr, err := s.read()
	if err != nil {
		return err
	}
	for k, v := range entries {
		curr[k] = v
	}
	return s.write(curr)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "clearing session file")
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := ioutil.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, errors.Wrap(err, "reading session file")
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		// a corrupt file is no session at all
		return make(map[string]string), nil
	}
	return entries, nil
}

func (s *FileStore) write(entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "encoding session entries")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}

	tmp, err := ioutil.TempFile(dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, "creating session temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing session temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing session temp file")
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return errors.Wrap(err, "restricting session file mode")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "committing session file")
}
