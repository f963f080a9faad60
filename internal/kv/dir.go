package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

const (
	valueSuffix  = ".json"
	lockFileName = ".lock"
)

// Dir stores each key as a JSON file inside a directory. Writers in separate
// processes are serialised through a lock file; readers never block because
// values are replaced with an atomic rename.
type Dir struct {
	root      string
	lock      *flock.Flock
	ensureDir sync.Once
	ensureErr error
}

// NewDir returns a medium rooted at dir. The directory is created lazily.
func NewDir(dir string) *Dir {
	return &Dir{
		root: dir,
		lock: flock.New(filepath.Join(dir, lockFileName)),
	}
}

func (d *Dir) ensure() error {
	d.ensureDir.Do(func() {
		d.ensureErr = os.MkdirAll(d.root, 0o750)
	})
	return d.ensureErr
}

// Get implements Medium.
func (d *Dir) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	//nolint:gosec // G304: path is derived from an escaped key inside the medium root
	data, err := os.ReadFile(d.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %q: %w", key, err)
	}
	return data, true, nil
}

// Set implements Medium.
func (d *Dir) Set(_ context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := d.ensure(); err != nil {
		return fmt.Errorf("failed to create medium directory: %w", err)
	}

	if err := d.lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() {
		_ = d.lock.Unlock()
	}()

	tmp, err := os.CreateTemp(d.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %q: %w", key, err)
	}
	if err := os.Rename(tmpPath, d.pathFor(key)); err != nil {
		cleanup()
		return fmt.Errorf("replace %q: %w", key, err)
	}
	return nil
}

// Delete implements Medium.
func (d *Dir) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := os.Stat(d.root); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err := d.lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() {
		_ = d.lock.Unlock()
	}()

	if err := os.Remove(d.pathFor(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Keys implements Medium.
func (d *Dir) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, valueSuffix) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, valueSuffix))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (d *Dir) pathFor(key string) string {
	return filepath.Join(d.root, escapeKey(key)+valueSuffix)
}

func escapeKey(key string) string {
	// QueryEscape leaves '.' alone, which would allow "..".
	escaped := strings.ReplaceAll(url.QueryEscape(key), "+", "%20")
	return strings.ReplaceAll(escaped, ".", "%2E")
}
