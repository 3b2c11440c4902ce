// package models defines the data model for the catalog mirror service:
// the resolved Spotify entity graph (artists, albums, tracks, playlists)
// and the persistent user accounts.
package models

import (
	"time"
)

// Model defines the base interface for persistent account-style models.
// Catalog entities (Artist, Album, Track, Playlist) are plain values keyed
// by their Spotify id and do not implement it.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks the model's data and reports the first problem
}

// Repository defines the interface for data access operations on a Model.
type Repository[T Model] interface {
	Create(model T) error     // Create inserts a new model into the database
	Get(id string) (T, error) // Get retrieves a model by its ID
	Update(model T) error     // Update modifies an existing model in the database
	Delete(id string) error   // Delete removes a model from the database by its ID
}
