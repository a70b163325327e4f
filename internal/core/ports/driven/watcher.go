package driven

import "context"

// FileOperation describes what happened to a watched file.
type FileOperation int

// File operations reported by a FileWatcher.
const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

// String returns the operation name.
func (o FileOperation) String() string {
	switch o {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// FileEvent is a change to a file inside a watched directory.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileWatcher reports changes to files in a directory.
type FileWatcher interface {
	// Watch starts monitoring dir. The returned channel is closed when ctx
	// is cancelled or the watcher is stopped.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop releases the underlying watcher.
	Stop() error
}
