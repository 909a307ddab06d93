package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/voicememo/recsync/models"
)

// Catalog is the sending peer's view of locally created recordings. The
// sender agent only ever reads the pending set and removes entries from it;
// recording creation is the host application's concern.
type Catalog interface {
	// Add registers a freshly created recording as pending synchronization.
	Add(ctx context.Context, rec models.Recording) error

	// PendingIDs returns the identifiers of recordings awaiting
	// synchronization.
	PendingIDs(ctx context.Context) ([]string, error)

	// FileExists reports whether the recording's source file is readable on
	// disk right now.
	FileExists(id string) bool

	// PathFor returns the absolute path of the recording's source file.
	PathFor(id string) string

	// RemoveFromPending drops a recording from the pending set, either
	// because it synced or because its source file is gone for good.
	RemoveFromPending(ctx context.Context, id string) error
}

// ChecksumStore persists the in-flight checksum map across process
// restarts. Load runs once at startup; Save runs after every in-flight
// mutation. The agent serializes Save calls itself, so implementations see
// at most one writer at a time even though mutations originate on several
// goroutines.
type ChecksumStore interface {
	Load() (map[string]string, error)
	Save(checksums map[string]string) error
}

// Registrar is the receiving peer's catalog of verified recordings.
type Registrar interface {
	// Register makes a verified recording available to the receiving peer.
	// Registering the same identifier twice is not an error: the transport
	// delivers at least once and duplicates are expected.
	Register(ctx context.Context, rec models.Recording) error

	// Remove reconciles a sender-side tombstone. Removing an unknown
	// identifier is a no-op.
	Remove(ctx context.Context, id string) error
}

// FileStorage moves received recording files into their permanent location
// on the receiving peer.
type FileStorage interface {
	// Store moves the file at srcPath into permanent storage under the
	// recording identifier and returns the final readable path.
	Store(srcPath, recordingID string) (string, error)

	// Remove deletes a stored file, e.g. after a checksum mismatch.
	Remove(path string) error
}
