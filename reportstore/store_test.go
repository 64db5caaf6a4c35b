package reportstore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/justapithecus/lode/lode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithecene-io/qasereport/config"
)

// failingStore is a lode.Store whose writes fail with PutErr.
type failingStore struct {
	PutErr   error
	PutCalls int
}

func (s *failingStore) Put(_ context.Context, _ string, _ io.Reader) error {
	s.PutCalls++
	return s.PutErr
}

func (s *failingStore) Get(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *failingStore) Exists(_ context.Context, _ string) (bool, error) { return false, nil }

func (s *failingStore) List(_ context.Context, _ string) ([]string, error) { return nil, nil }

func (s *failingStore) Delete(_ context.Context, _ string) error { return nil }

func (s *failingStore) ReadRange(_ context.Context, _ string, _, _ int64) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (s *failingStore) ReaderAt(_ context.Context, _ string) (io.ReaderAt, error) {
	return nil, errors.New("not implemented")
}

var _ lode.Store = (*failingStore)(nil)

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	key, err := s.Put(ctx, "qase-report-1.json", []byte(`{"title":"run"}`))
	require.NoError(t, err)
	assert.Equal(t, "qase-report-1.json", key)

	data, err := s.Get(ctx, "qase-report-1.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"run"}`, string(data))
}

func TestStore_Prefix(t *testing.T) {
	ctx := context.Background()
	s := New(lode.NewMemoryFactory(), "/reports/", "memory")

	key, err := s.Put(ctx, "a.json", []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, "reports/a.json", key)

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json"}, names)

	data, err := s.Get(ctx, names[0])
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestStore_RejectsInvalidNames(t *testing.T) {
	s := NewMemory()
	for _, name := range []string{"", "../x.json", "a/b.json", `a\b.json`} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(context.Background(), name, []byte("{}"))
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}
}

func TestStore_FactoryFailure(t *testing.T) {
	calls := 0
	s := New(func() (lode.Store, error) {
		calls++
		return nil, errors.New("NoCredentialProviders: no valid providers in chain")
	}, "", "s3://bucket")

	_, err := s.Put(context.Background(), "a.json", []byte("{}"))
	require.ErrorIs(t, err, ErrAuth)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "init", storageErr.Op)

	_, err = s.Put(context.Background(), "b.json", []byte("{}"))
	require.Error(t, err)
	assert.Equal(t, 1, calls, "factory is only invoked once")
}

func TestStore_WriteFailureClassified(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"disk full", syscall.ENOSPC, ErrDiskFull},
		{"permission", errors.New("open /x: permission denied"), ErrPermissionDenied},
		{"access denied", errors.New("AccessDenied: 403 Forbidden"), ErrAccessDenied},
		{"network", errors.New("dial tcp 10.0.0.1:443: connection refused"), ErrNetwork},
		{"unknown", errors.New("boom"), ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &failingStore{PutErr: tt.err}
			s := New(func() (lode.Store, error) { return fs, nil }, "", "failing")

			_, err := s.Put(context.Background(), "a.json", []byte("{}"))
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, fs.PutCalls)
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	_, err := NewMemory().Get(context.Background(), "missing.json")
	require.Error(t, err)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "read", storageErr.Op)
}

func TestNewFS(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "build", "qase-report")

	s, err := NewFS(root)
	require.NoError(t, err)
	assert.DirExists(t, root)
	assert.Equal(t, root, s.Location())

	loc, err := s.Put(ctx, "r.json", []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "r.json"), loc)
	assert.FileExists(t, loc)

	data, err := s.Get(ctx, "r.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestOpenFS_DoesNotCreateRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	_, err := OpenFS(root).Get(context.Background(), "r.json")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoDirExists(t, root)
}

func TestOpenFS_GetMissingFile(t *testing.T) {
	_, err := OpenFS(t.TempDir()).Get(context.Background(), "r.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenFS_List(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewFS(root)
	require.NoError(t, err)
	for _, name := range []string{"b.json", "a.msgpack"} {
		_, err := s.Put(ctx, name, []byte("{}"))
		require.NoError(t, err)
	}

	names, err := OpenFS(root).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.msgpack", "b.json"}, names)
}

func TestNewFS_EmptyRoot(t *testing.T) {
	_, err := NewFS("")
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.ReportPath = t.TempDir()

	s, err := FromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.ReportPath, s.Location())

	cfg.ReportDriver = "ftp"
	_, err = FromConfig(context.Background(), cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestFromConfig_S3(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")
	cfg := config.Defaults()
	cfg.ReportDriver = config.DriverS3
	cfg.ReportPath = "qa-bucket/nightly"
	cfg.ReportEndpoint = "http://127.0.0.1:9000"

	s, err := FromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "s3://qa-bucket/nightly", s.Location())
	assert.Equal(t, "s3://qa-bucket/nightly/r.json", s.locate("r.json"))
}

func TestS3ConfigFrom(t *testing.T) {
	cfg := config.Defaults()
	cfg.ReportPath = "s3://qa-bucket/nightly/"
	cfg.ReportRegion = "eu-central-1"
	cfg.ReportEndpoint = "http://minio.local:9000"
	cfg.ReportPathStyle = true

	assert.Equal(t, S3Config{
		Bucket:       "qa-bucket",
		Prefix:       "nightly",
		Region:       "eu-central-1",
		Endpoint:     "http://minio.local:9000",
		UsePathStyle: true,
	}, S3ConfigFrom(cfg))
}

func TestParseS3Path(t *testing.T) {
	tests := []struct {
		in, bucket, prefix string
	}{
		{"bucket", "bucket", ""},
		{"bucket/reports", "bucket", "reports"},
		{"bucket/ci/reports/", "bucket", "ci/reports"},
		{"s3://bucket/x", "bucket", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bucket, prefix := ParseS3Path(tt.in)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}

func TestS3Config_Validate(t *testing.T) {
	cfg := S3Config{}
	assert.Error(t, cfg.Validate())
	cfg.Bucket = "b"
	assert.NoError(t, cfg.Validate())
}

func TestOpen_LocalDoesNotCreate(t *testing.T) {
	cfg := config.Defaults()
	cfg.ReportPath = filepath.Join(t.TempDir(), "reports")

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.ReportPath, s.Location())
	assert.NoDirExists(t, cfg.ReportPath)
}

func TestOpenLocation(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")
	ctx := context.Background()
	cfg := config.Defaults()
	cfg.ReportPath = filepath.Join(t.TempDir(), "configured")

	tests := []struct {
		name         string
		ref          string
		wantLocation string
		wantName     string
	}{
		{"bare name", "r.json", cfg.ReportPath, "r.json"},
		{"local path", filepath.Join("build", "out", "r.json"), filepath.Join("build", "out"), "r.json"},
		{"s3 url", "s3://qa-bucket/nightly/r.msgpack", "s3://qa-bucket/nightly", "r.msgpack"},
		{"s3 bucket root", "s3://qa-bucket/r.json", "s3://qa-bucket", "r.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, name, err := OpenLocation(ctx, cfg, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLocation, s.Location())
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestOpenLocation_ReadsWrittenReport(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewFS(root)
	require.NoError(t, err)
	loc, err := s.Put(ctx, "r.json", []byte(`{"title":"run"}`))
	require.NoError(t, err)

	store, name, err := OpenLocation(ctx, config.Defaults(), loc)
	require.NoError(t, err)
	data, err := store.Get(ctx, name)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"run"}`, string(data))
}
