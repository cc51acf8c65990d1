// Package store loads story snapshots from their backing storage.
//
// The layout engines never touch storage: the hosting shell loads a
// [story.Snapshot] through a Store and hands it over. Two backends are
// provided: [FileStore] for JSON snapshot files (CLI usage) and
// [MongoStore] for a MongoDB-backed project database (server usage).
// Stores read and write whole snapshots; fine-grained entity CRUD belongs
// to the surrounding application.
package store

import (
	"context"
	"errors"

	"github.com/hessam/chronos/pkg/story"
)

// ErrProjectNotFound is returned when the named project has no stored
// snapshot.
var ErrProjectNotFound = errors.New("project not found")

// Store is the interface snapshot backends implement.
type Store interface {
	// LoadSnapshot returns the snapshot for the named project.
	// Returns ErrProjectNotFound when the project does not exist.
	LoadSnapshot(ctx context.Context, project string) (story.Snapshot, error)

	// SaveSnapshot replaces the stored snapshot for the named project.
	SaveSnapshot(ctx context.Context, project string, snap story.Snapshot) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
