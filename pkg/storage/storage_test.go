package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/JaimeStill/jurispanel/pkg/lifecycle"
	"github.com/JaimeStill/jurispanel/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFilesystem(t *testing.T) storage.System {
	t.Helper()

	cfg := &storage.Config{Backend: storage.BackendFilesystem, Root: t.TempDir()}
	sys, err := storage.New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("start: %v", err)
	}
	lc.WaitForStartup()

	return sys
}

func TestFilesystemRoundTrip(t *testing.T) {
	ctx := context.Background()
	sys := newFilesystem(t)
	key := "documents/1a2b3c/pauta.pdf"
	data := []byte("%PDF-1.4 pauta")

	if err := sys.Upload(ctx, key, bytes.NewReader(data), "application/pdf"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	exists, err := sys.Exists(ctx, key)
	if err != nil || !exists {
		t.Fatalf("exists: got %v, %v", exists, err)
	}

	obj, err := sys.Download(ctx, key)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(obj.Body)
	obj.Body.Close()

	if !bytes.Equal(got, data) {
		t.Errorf("body: got %q, want %q", got, data)
	}
	if obj.ContentType != "application/pdf" {
		t.Errorf("content type: got %s", obj.ContentType)
	}
	if obj.ContentLength != int64(len(data)) {
		t.Errorf("content length: got %d, want %d", obj.ContentLength, len(data))
	}

	if err := sys.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := sys.Download(ctx, key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("download after delete: got %v, want ErrNotFound", err)
	}
	if err := sys.Delete(ctx, key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestKeyValidation(t *testing.T) {
	ctx := context.Background()
	sys := newFilesystem(t)

	tests := []struct {
		name string
		key  string
		want error
	}{
		{"empty", "", storage.ErrEmptyKey},
		{"traversal", "../etc/passwd", storage.ErrInvalidKey},
		{"nested traversal", "documents/../../x", storage.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "text/plain"); !errors.Is(err, tt.want) {
				t.Errorf("upload: got %v, want %v", err, tt.want)
			}
			if _, err := sys.Download(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("download: got %v, want %v", err, tt.want)
			}
			if _, err := sys.Exists(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("exists: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewAzure(t *testing.T) {
	cfg := &storage.Config{
		Backend:          storage.BackendAzure,
		ContainerName:    "documents",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys == nil {
		t.Fatal("New() returned nil system")
	}

	cfg.ConnectionString = "not-a-connection-string"
	if _, err := storage.New(cfg, discardLogger()); err == nil {
		t.Fatal("expected error for invalid connection string")
	}
}

func TestNewS3(t *testing.T) {
	cfg := &storage.Config{
		Backend:   storage.BackendS3,
		Bucket:    "jurispanel",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	}

	sys, err := storage.New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys == nil {
		t.Fatal("New() returned nil system")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"empty key", storage.ErrEmptyKey, http.StatusBadRequest},
		{"invalid key", storage.ErrInvalidKey, http.StatusBadRequest},
		{"wrapped not found", errors.Join(errors.New("ctx"), storage.ErrNotFound), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		env     map[string]string
		check   func(t *testing.T, c storage.Config)
		wantErr bool
	}{
		{
			name: "defaults to filesystem",
			cfg:  storage.Config{},
			check: func(t *testing.T, c storage.Config) {
				if c.Backend != "filesystem" || c.Root != "data" || c.ContainerName != "documents" {
					t.Errorf("defaults: got %+v", c)
				}
			},
		},
		{
			name: "env selects azure",
			cfg:  storage.Config{},
			env:  map[string]string{"TEST_STORAGE_BACKEND": "azure", "TEST_STORAGE_CONN": "conn"},
			check: func(t *testing.T, c storage.Config) {
				if c.Backend != "azure" || c.ConnectionString != "conn" {
					t.Errorf("env: got %+v", c)
				}
			},
		},
		{
			name:    "azure without credentials",
			cfg:     storage.Config{Backend: "azure"},
			wantErr: true,
		},
		{
			name: "azure with account url",
			cfg:  storage.Config{Backend: "azure", AccountURL: "https://acct.blob.core.windows.net/"},
		},
		{
			name:    "s3 without bucket",
			cfg:     storage.Config{Backend: "s3"},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			cfg:     storage.Config{Backend: "gcs"},
			wantErr: true,
		},
	}

	env := &storage.Env{Backend: "TEST_STORAGE_BACKEND", ConnectionString: "TEST_STORAGE_CONN"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := tt.cfg
			err := cfg.Finalize(env)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("finalize: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := storage.Config{Backend: "filesystem", Root: "data"}
	base.Merge(&storage.Config{Backend: "s3", Bucket: "archive"})

	if base.Backend != "s3" || base.Bucket != "archive" || base.Root != "data" {
		t.Errorf("merge: got %+v", base)
	}
}
