package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hazelvane/melodex/internal/models"
	"github.com/hazelvane/melodex/internal/shared"
)

// EntityStore persists resolved catalog entities as JSON payloads keyed by
// (kind, id) in a single table. Save is an idempotent upsert, so concurrent
// resolvers writing equivalent content for the same id are harmless.
//
// It implements the catalog package's per-kind store interfaces.
type EntityStore struct {
	db *sql.DB
}

// NewEntityStore creates an EntityStore over the given database connection.
func NewEntityStore(db *sql.DB) *EntityStore {
	return &EntityStore{db: db}
}

// find loads the payload for (kind, id) into dest. Returns
// [shared.ErrNotFound] on a miss.
func (s *EntityStore) find(kind models.EntityKind, id string, dest any) error {
	query := `
		SELECT payload FROM entities WHERE kind = ? AND id = ?
	`

	var payload []byte
	err := s.db.QueryRow(query, kind, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s %s", shared.ErrNotFound, kind, id)
	}
	if err != nil {
		return fmt.Errorf("failed to query %s %s: %w", kind, id, err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", kind, id, err)
	}
	return nil
}

// save upserts the payload for (kind, id).
func (s *EntityStore) save(kind models.EntityKind, id string, entity any) error {
	if id == "" {
		return fmt.Errorf("%w: %s id is required", shared.ErrInvalidInput, kind)
	}

	payload, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", kind, id, err)
	}

	now := time.Now()
	query := `
		INSERT INTO entities (kind, id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`

	if _, err := s.db.Exec(query, kind, id, payload, now, now); err != nil {
		return fmt.Errorf("failed to save %s %s: %w", kind, id, err)
	}
	return nil
}

// Count returns the number of stored entities of the given kind.
func (s *EntityStore) Count(kind models.EntityKind) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM entities WHERE kind = ?", kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s entities: %w", kind, err)
	}
	return count, nil
}

// FindArtist retrieves a stored artist by id.
func (s *EntityStore) FindArtist(id string) (*models.Artist, error) {
	var artist models.Artist
	if err := s.find(models.KindArtist, id, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// SaveArtist upserts an artist.
func (s *EntityStore) SaveArtist(artist *models.Artist) error {
	return s.save(models.KindArtist, artist.ID, artist)
}

// FindAlbum retrieves a stored album by id.
func (s *EntityStore) FindAlbum(id string) (*models.Album, error) {
	var album models.Album
	if err := s.find(models.KindAlbum, id, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// SaveAlbum upserts an album.
func (s *EntityStore) SaveAlbum(album *models.Album) error {
	return s.save(models.KindAlbum, album.ID, album)
}

// FindTrack retrieves a stored track by id.
func (s *EntityStore) FindTrack(id string) (*models.Track, error) {
	var track models.Track
	if err := s.find(models.KindTrack, id, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// SaveTrack upserts a track.
func (s *EntityStore) SaveTrack(track *models.Track) error {
	return s.save(models.KindTrack, track.ID, track)
}

// FindPlaylist retrieves a stored playlist by id.
func (s *EntityStore) FindPlaylist(id string) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := s.find(models.KindPlaylist, id, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// SavePlaylist upserts a playlist.
func (s *EntityStore) SavePlaylist(playlist *models.Playlist) error {
	return s.save(models.KindPlaylist, playlist.ID, playlist)
}
