// Package archive persists trader reports (signal records, go/no-go results,
// live summaries) on a local filesystem or an S3-compatible bucket.
package archive

import "context"

// Store is a flat keyed report archive. Paths use forward slashes and are
// relative to the archive root.
type Store interface {
	// Write stores data at the given path, creating parents as needed.
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path.
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths under the prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data at the given path.
	Delete(ctx context.Context, path string) error

	// Exists checks if data exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)
}
