package kv

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
)

var _ Store = (*File)(nil)

// File is a Store persisted as a single JSON object on disk. The whole
// map is rewritten on every mutation via a temp-file rename, so a crash
// mid-write never leaves a truncated store behind.
type File struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

// OpenFile opens (or creates) a file-backed store at path. A missing or
// malformed file yields an empty store; only I/O failures are errors.
func OpenFile(path string) (*File, error) {
	f := &File{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, errors.Wrapf(err, "read store %s", path)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &f.data); err != nil {
			// Malformed persisted data falls back to empty rather than
			// propagating; the next flush rewrites the file.
			f.data = make(map[string]string)
		}
	}
	return f, nil
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.data[key]
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.data[key] = value
	return f.flush()
}

func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.data, key)
	return f.flush()
}

// flush writes the current map to disk. Caller must hold f.mu.
func (f *File) flush() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode store")
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".store-*")
	if err != nil {
		return errors.Wrap(err, "create temp store")
	}

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "write temp store")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "close temp store")
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(err, "replace store %s", f.path)
	}
	return nil
}
