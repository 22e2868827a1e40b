package patch

import (
	"context"
	"fmt"
	"strings"

	"patch-tracker/core/storage"

	"github.com/minio/minio-go/v7"
)

// Archive keeps the raw markup of every persisted patch document so parses
// can be replayed after a parser fix without refetching.
type Archive struct {
	client storage.Client
	bucket string
}

// NewArchive creates an archive writing into the given bucket.
func NewArchive(client storage.Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// EnsureBucket creates the archive bucket if it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// SavePatchHTML stores one document's markup under patches/{game}/{version}.html.
func (a *Archive) SavePatchHTML(ctx context.Context, game, version, html string) error {
	name := objectName(game, version)
	reader := strings.NewReader(html)
	_, err := a.client.PutObject(ctx, a.bucket, name, reader, int64(len(html)), minio.PutObjectOptions{
		ContentType: "text/html; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("archive %s: %w", name, err)
	}
	return nil
}

// HasPatchHTML reports whether a document's markup is already archived.
func (a *Archive) HasPatchHTML(ctx context.Context, game, version string) (bool, error) {
	_, err := a.client.StatObject(ctx, a.bucket, objectName(game, version), minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func objectName(game, version string) string {
	return fmt.Sprintf("patches/%s/%s.html", game, version)
}
