package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"time"

	"github.com/JaimeStill/jurispanel/internal/gateway"
	"github.com/JaimeStill/jurispanel/pkg/contenthash"
	"github.com/JaimeStill/jurispanel/pkg/storage"
)

// Ingested is a converted upload together with the source record it is, or
// will be, archived under.
type Ingested struct {
	Document gateway.Document
	Source   Source

	data []byte
}

// System converts and archives uploads and serves archived originals.
type System interface {
	Handler() *Handler

	// Prepare converts up and computes its source record without storing
	// anything.
	Prepare(up Upload) (*Ingested, error)
	// Archive stores a prepared original under
	// documents/<content-hash>/<filename>.
	Archive(ctx context.Context, in *Ingested) error
	// Ingest prepares and archives up in one step.
	Ingest(ctx context.Context, up Upload) (*Ingested, error)
	// Download opens an archived original by storage key.
	Download(ctx context.Context, key string) (*storage.Object, error)
}

type archive struct {
	storage storage.System
	logger  *slog.Logger
	now     func() time.Time
}

// New creates the documents system over blob storage.
func New(store storage.System, logger *slog.Logger) System {
	return &archive{
		storage: store,
		logger:  logger.With("system", "documents"),
		now:     time.Now,
	}
}

func (a *archive) Handler() *Handler {
	return NewHandler(a, a.logger)
}

func (a *archive) Prepare(up Upload) (*Ingested, error) {
	doc, pages, err := Convert(a.logger, up)
	if err != nil {
		return nil, err
	}

	filename := sanitizeFilename(up.Filename)
	hash := contenthash.Sum(doc.HashInput())

	return &Ingested{
		Document: doc,
		Source: Source{
			Filename:    filename,
			MimeType:    detectContentType(up.Filename, up.ContentType, up.Data),
			Size:        int64(len(up.Data)),
			PageCount:   pages,
			StorageKey:  buildStorageKey(hash, filename),
			ContentHash: hash,
			UploadedAt:  a.now().UTC(),
		},
		data: up.Data,
	}, nil
}

func (a *archive) Archive(ctx context.Context, in *Ingested) error {
	key := in.Source.StorageKey
	if err := a.storage.Upload(ctx, key, bytes.NewReader(in.data), in.Source.MimeType); err != nil {
		return fmt.Errorf("archive document: %w", err)
	}

	a.logger.Info("document archived", "key", key, "size", len(in.data))
	return nil
}

func (a *archive) Ingest(ctx context.Context, up Upload) (*Ingested, error) {
	in, err := a.Prepare(up)
	if err != nil {
		return nil, err
	}
	if err := a.Archive(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

func (a *archive) Download(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := a.storage.Download(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return obj, err
}

func buildStorageKey(hash, filename string) string {
	return fmt.Sprintf("documents/%s/%s", hash, filename)
}

var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		return "documento.txt"
	}
	return unsafeFilename.ReplaceAllString(name, "_")
}
