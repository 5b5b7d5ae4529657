// Package storage abstracts where exported files land.
//
// Catalog exports are the main producer. Two drivers are wired at boot:
// "local" (always available, the default) and "s3" (registered when
// S3_BUCKET is configured; works against AWS, MinIO and R2).
//
//	storage.Connect()
//	storage.Put("exports/catalog.json", data)     // default disk
//	storage.Use("s3").Put("exports/backup.json", data)
package storage

import (
	"io"
	"time"
)

// Disk is implemented by every storage driver. Paths are slash-separated
// and relative to the disk's root; drivers create parent directories on
// write.
type Disk interface {
	Put(path string, content []byte) error
	PutStream(path string, r io.Reader) error

	// Get slurps the whole file; GetStream hands back a reader the caller
	// must close.
	Get(path string) ([]byte, error)
	GetStream(path string) (io.ReadCloser, error)

	Exists(path string) bool
	Size(path string) (int64, error)
	LastModified(path string) (time.Time, error)

	// URL is where a client can fetch the file from.
	URL(path string) string

	// Delete is idempotent; removing a missing file is not an error.
	Delete(path string) error

	// Files lists regular files directly inside directory, non-recursive.
	Files(directory string) ([]string, error)
}
