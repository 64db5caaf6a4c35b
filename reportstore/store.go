// Package reportstore persists local run reports through a lode Store.
//
// Reports are written as single objects at <prefix>/<filename>. The backing
// store is chosen by the report driver: "local" writes under a filesystem
// root, "s3" writes to a bucket. Tests use lode's in-memory store.
package reportstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/justapithecus/lode/lode"

	"github.com/pithecene-io/qasereport/config"
	"github.com/pithecene-io/qasereport/iox"
)

// ErrInvalidName is returned for filenames containing separators or "..".
var ErrInvalidName = errors.New("invalid report file name")

// Writer stores an encoded report and returns the location it was written
// to: a filesystem path for the local driver, an s3:// URL for s3.
type Writer interface {
	Put(ctx context.Context, filename string, data []byte) (string, error)
}

// Store is a lode-backed report store. The underlying lode.Store is created
// lazily on first use.
type Store struct {
	factory lode.StoreFactory
	prefix  string
	desc    string
	locate  func(key string) string

	once     sync.Once
	store    lode.Store
	storeErr error
}

// Verify Store implements Writer.
var _ Writer = (*Store)(nil)

// New creates a store over factory. prefix is prepended to every key and
// desc names the location in log output. Put returns bare keys.
func New(factory lode.StoreFactory, prefix, desc string) *Store {
	return &Store{
		factory: factory,
		prefix:  strings.Trim(prefix, "/"),
		desc:    desc,
		locate:  func(key string) string { return key },
	}
}

// NewFS creates a filesystem store rooted at root, creating it if needed.
// Put returns paths joined onto root.
func NewFS(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("report path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, WrapInitError(err, root)
	}
	return OpenFS(root), nil
}

// OpenFS opens a filesystem store over an existing root without creating
// it. A missing root surfaces as ErrNotFound on first use.
func OpenFS(root string) *Store {
	s := New(lode.NewFSFactory(root), "", root)
	s.locate = func(key string) string { return filepath.Join(root, filepath.FromSlash(key)) }
	return s
}

// NewMemory creates an in-memory store.
func NewMemory() *Store {
	return New(lode.NewMemoryFactory(), "", "memory")
}

// FromConfig builds the store selected by cfg.ReportDriver. For the s3
// driver, cfg.ReportPath is "bucket/prefix".
func FromConfig(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.ReportDriver {
	case config.DriverLocal, "":
		return NewFS(cfg.ReportPath)
	case config.DriverS3:
		return NewS3(ctx, S3ConfigFrom(cfg))
	default:
		return nil, fmt.Errorf("%w: unknown report driver %q", config.ErrInvalid, cfg.ReportDriver)
	}
}

// Open is FromConfig for readers: the local driver opens the report path
// without creating it.
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	if cfg.ReportDriver == config.DriverLocal || cfg.ReportDriver == "" {
		if cfg.ReportPath == "" {
			return nil, errors.New("report path is required")
		}
		return OpenFS(cfg.ReportPath), nil
	}
	return FromConfig(ctx, cfg)
}

// OpenLocation resolves a report reference to the store holding it and the
// file name within that store. ref is one of:
//
//	s3://bucket/prefix/name   an object in an s3 bucket
//	dir/name                  a file on the local filesystem
//	name                      a report in the store configured by cfg
//
// S3 connection settings (region, endpoint, path style) come from cfg.
func OpenLocation(ctx context.Context, cfg config.Config, ref string) (*Store, string, error) {
	if rest, ok := strings.CutPrefix(ref, "s3://"); ok {
		dir, name := path.Split(rest)
		s3cfg := S3ConfigFrom(cfg)
		s3cfg.Bucket, s3cfg.Prefix = ParseS3Path(dir)
		store, err := NewS3(ctx, s3cfg)
		return store, name, err
	}
	if dir, name := filepath.Split(ref); dir != "" {
		return OpenFS(filepath.Clean(dir)), name, nil
	}
	store, err := Open(ctx, cfg)
	return store, ref, err
}

// Location describes where reports are written.
func (s *Store) Location() string { return s.desc }

// Put writes data at <prefix>/<filename>.
func (s *Store) Put(ctx context.Context, filename string, data []byte) (string, error) {
	if err := validateName(filename); err != nil {
		return "", err
	}
	store, err := s.getOrCreateStore()
	if err != nil {
		return "", WrapInitError(err, s.desc)
	}

	key := s.key(filename)
	if err := store.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return "", WrapWriteError(err, key)
	}
	return s.locate(key), nil
}

// Get reads the report stored under filename.
func (s *Store) Get(ctx context.Context, filename string) ([]byte, error) {
	if err := validateName(filename); err != nil {
		return nil, err
	}
	store, err := s.getOrCreateStore()
	if err != nil {
		return nil, WrapInitError(err, s.desc)
	}

	key := s.key(filename)
	rc, err := store.Get(ctx, key)
	if err != nil {
		return nil, WrapReadError(err, key)
	}
	defer iox.DiscardClose(rc)

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, WrapReadError(err, key)
	}
	return data, nil
}

// List returns the file names of all stored reports, sorted. Names are
// relative to the prefix and can be passed to Get.
func (s *Store) List(ctx context.Context) ([]string, error) {
	store, err := s.getOrCreateStore()
	if err != nil {
		return nil, WrapInitError(err, s.desc)
	}
	keys, err := store.List(ctx, s.prefix)
	if err != nil {
		return nil, NewStorageError(classifyError(err), "list", s.prefix, err)
	}

	names := make([]string, 0, len(keys))
	for _, key := range keys {
		name := strings.TrimPrefix(strings.TrimPrefix(key, s.prefix), "/")
		if validateName(name) == nil {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (s *Store) getOrCreateStore() (lode.Store, error) {
	s.once.Do(func() {
		s.store, s.storeErr = s.factory()
	})
	return s.store, s.storeErr
}

func (s *Store) key(filename string) string {
	if s.prefix == "" {
		return filename
	}
	return path.Join(s.prefix, filename)
}

func validateName(filename string) error {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, filename)
	}
	return nil
}
