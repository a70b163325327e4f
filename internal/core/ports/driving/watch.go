package driving

import "context"

// WatchService ingests files as they appear in a directory.
type WatchService interface {
	// IngestExisting ingests every supported file already present in dir.
	IngestExisting(ctx context.Context, dir string) error

	// Watch blocks, ingesting created or modified files, until ctx is done.
	Watch(ctx context.Context, dir string) error
}
