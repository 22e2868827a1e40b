// Package storage provides an abstraction layer for the raw-document archive.
//
// It wraps the MinIO Go client to provide a narrow interface for the
// operations the archive needs: bucket checks and object put/get/stat. The
// abstraction supports both AWS S3 and self-hosted MinIO instances, and makes
// archive interactions mockable for unit testing (see core/storage/mocks).
//
// The archive holds one object per persisted patch,
// "patches/{game}/{version}.html", written best-effort after a successful
// parse. Nothing in the pipeline ever deletes from it.
package storage
