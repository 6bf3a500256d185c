// Package store persists accepted submissions as a single JSON array on disk.
//
// The in-memory log is the source of truth for ordering. Each append rewrites
// the whole array to a temporary file in the target directory and renames it
// over the output path, so readers of the file only ever see the previous or
// the next complete log.
package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/goccy/go-json"
)

// Option configures a Store.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	fileMode fs.FileMode
}

// WithLogger routes store diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithFileMode sets the permissions applied to the output file.
func WithFileMode(mode fs.FileMode) Option {
	return func(cfg *config) {
		if mode != 0 {
			cfg.fileMode = mode
		}
	}
}

// Store owns the response log for one output path. It is safe for concurrent
// use; appends are serialised through a single writer slot.
type Store struct {
	path     string
	fileMode fs.FileMode
	logger   *slog.Logger

	// writer admits one append at a time. A channel instead of a mutex lets
	// waiters give up when their request context ends.
	writer chan struct{}

	mu      sync.RWMutex
	records []Record
}

// Open loads the log at path. A missing or empty file yields an empty log; a
// file that is not a valid response log fails with ErrCorrupt.
func Open(path string, options ...Option) (*Store, error) {
	cfg := config{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		fileMode: 0o644,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if path == "" {
		return nil, &Error{Op: "open", Path: path, Kind: ErrRead, Err: errors.New("output path is required")}
	}

	records, err := load(path)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("store.open", slog.String("path", path), slog.Int("records", len(records)))

	return &Store{
		path:     path,
		fileMode: cfg.fileMode,
		logger:   cfg.logger,
		writer:   make(chan struct{}, 1),
		records:  records,
	}, nil
}

// Path returns the output file location.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns a copy of the log in append order.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out
}

// Append adds rec to the log and returns once the new log has been flushed
// and renamed into place. On failure neither the file nor the in-memory log
// change.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.mu.RLock()
	next := make([]Record, len(s.records), len(s.records)+1)
	copy(next, s.records)
	s.mu.RUnlock()
	next = append(next, rec.Clone())

	payload, err := encode(next)
	if err != nil {
		return &Error{Op: "encode", Path: s.path, Kind: ErrWrite, Err: err}
	}
	if err := s.replace(payload); err != nil {
		s.logger.Error("store.append.failed", slog.String("path", s.path), slog.Any("error", err))
		return err
	}

	s.mu.Lock()
	s.records = next
	s.mu.Unlock()

	s.logger.Debug("store.append", slog.String("path", s.path), slog.Int("records", len(next)))
	return nil
}

// ForeignKeys returns the sorted set of answer keys present in the log that are
// not in known. A non-empty result means the schema changed since those
// records were written.
func (s *Store) ForeignKeys(known []string) []string {
	expected := make(map[string]struct{}, len(known))
	for _, name := range known {
		expected[name] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, rec := range s.records {
		for key := range rec.Answers {
			if _, ok := expected[key]; !ok {
				seen[key] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}

func (s *Store) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.writer
}

func (s *Store) replace(payload []byte) (err error) {
	fail := func(op string, cause error) error {
		return &Error{Op: op, Path: s.path, Kind: ErrWrite, Err: cause}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail("mkdir", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fail("create temp", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(payload); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		return fail("close", err)
	}
	if err := os.Chmod(tmpName, s.fileMode); err != nil {
		return fail("chmod", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fail("rename", err)
	}
	syncDir(dir)
	return nil
}

// syncDir flushes the rename to disk where the platform allows it.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

func load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Op: "read", Path: path, Kind: ErrRead, Err: err}
	}
	return decode(path, data)
}

func decode(path string, data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, &Error{Op: "decode", Path: path, Kind: ErrCorrupt, Err: errors.New("response log must be a JSON array")}
	}
	var records []Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, &Error{Op: "decode", Path: path, Kind: ErrCorrupt, Err: err}
	}
	return records, nil
}

func encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(payload, '\n'), nil
}
