package objectstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Backups moves one exported database folder between local disk and the
// configured bucket.
type Backups struct {
	client *minio.Client
	cfg    Config
}

// New validates the configuration and builds the client.
func New(cfg Config) (*Backups, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}
	return &Backups{client: client, cfg: cfg}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (b *Backups) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", b.cfg.Bucket, err)
	}
	if exists {
		return nil
	}
	return b.client.MakeBucket(ctx, b.cfg.Bucket, minio.MakeBucketOptions{Region: b.cfg.Region})
}

// UploadDir uploads every file in dir under the configured prefix.
func (b *Backups) UploadDir(ctx context.Context, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		key := path.Join(b.cfg.Prefix, filepath.ToSlash(rel))
		if _, err := b.client.FPutObject(ctx, b.cfg.Bucket, key, p, minio.PutObjectOptions{}); err != nil {
			return fmt.Errorf("uploading %s: %w", key, err)
		}
		return nil
	})
}

// DownloadDir downloads everything under the configured prefix into dir.
func (b *Backups) DownloadDir(ctx context.Context, dir string) error {
	objects := b.client.ListObjects(ctx, b.cfg.Bucket, minio.ListObjectsOptions{
		Prefix:    b.cfg.Prefix + "/",
		Recursive: true,
	})

	found := false
	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("listing %s/%s: %w", b.cfg.Bucket, b.cfg.Prefix, obj.Err)
		}
		found = true

		rel, err := filepath.Rel(b.cfg.Prefix, filepath.FromSlash(obj.Key))
		if err != nil {
			return err
		}
		local := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
			return err
		}
		if err := b.client.FGetObject(ctx, b.cfg.Bucket, obj.Key, local, minio.GetObjectOptions{}); err != nil {
			return fmt.Errorf("downloading %s: %w", obj.Key, err)
		}
	}
	if !found {
		return fmt.Errorf("no backup found under %s/%s", b.cfg.Bucket, b.cfg.Prefix)
	}
	return nil
}
