package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/JaimeStill/jurispanel/pkg/lifecycle"
)

// azureBlobs keeps pauta documents in one Azure Blob Storage container.
type azureBlobs struct {
	client    *azblob.Client
	container *container.Client
	name      string
	logger    *slog.Logger
}

// newAzure authenticates with the connection string when one is set and
// falls back to DefaultAzureCredential against AccountURL.
func newAzure(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azureClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &azureBlobs{
		client:    client,
		container: client.ServiceClient().NewContainerClient(cfg.ContainerName),
		name:      cfg.ContainerName,
		logger:    logger.With("container", cfg.ContainerName),
	}, nil
}

func azureClient(cfg *Config) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		return azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	return azblob.NewClient(cfg.AccountURL, cred, nil)
}

// Start creates the container if it is missing.
func (a *azureBlobs) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		_, err := a.container.Create(lc.Context(), nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			a.logger.Error("container setup failed", "error", err)
			return
		}
		a.logger.Info("container ready")
	})
	return nil
}

func (a *azureBlobs) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := a.client.UploadStream(ctx, a.name, key, r, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	return azureError("upload", key, err)
}

func (a *azureBlobs) Download(ctx context.Context, key string) (*Object, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	resp, err := a.client.DownloadStream(ctx, a.name, key, nil)
	if err != nil {
		return nil, azureError("download", key, err)
	}

	obj := &Object{Body: resp.Body}
	if resp.ContentType != nil {
		obj.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		obj.ContentLength = *resp.ContentLength
	}
	return obj, nil
}

func (a *azureBlobs) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := a.client.DeleteBlob(ctx, a.name, key, nil)
	return azureError("delete", key, err)
}

func (a *azureBlobs) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	_, err := a.container.NewBlobClient(key).GetProperties(ctx, nil)
	switch err := azureError("stat", key, err); {
	case err == nil:
		return true, nil
	case err == ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

func azureError(op, key string, err error) error {
	switch {
	case err == nil:
		return nil
	case bloberror.HasCode(err, bloberror.BlobNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s blob %s: %w", op, key, err)
	}
}
