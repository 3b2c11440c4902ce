package models

// EntityKind names a cacheable catalog entity type.
type EntityKind string

const (
	KindArtist   EntityKind = "artist"
	KindAlbum    EntityKind = "album"
	KindTrack    EntityKind = "track"
	KindPlaylist EntityKind = "playlist"
)

// AlbumType is Spotify's album classification.
type AlbumType string

const (
	AlbumTypeAlbum       AlbumType = "album"
	AlbumTypeSingle      AlbumType = "single"
	AlbumTypeCompilation AlbumType = "compilation"
)

// ReleaseDatePrecision indicates how much of a release date is meaningful.
type ReleaseDatePrecision string

const (
	PrecisionYear  ReleaseDatePrecision = "year"
	PrecisionMonth ReleaseDatePrecision = "month"
	PrecisionDay   ReleaseDatePrecision = "day"
)

// Image is an immutable image descriptor. Width and height are nil when the
// upstream payload omits them; callers must treat unknown as distinct from
// zero.
type Image struct {
	URL    string `json:"url"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
}

// Artist is a fully resolved Spotify artist.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Popularity int      `json:"popularity"`
	Followers  int      `json:"followers"`
	Genres     []string `json:"genres"`
	Images     []Image  `json:"images"`
	Href       string   `json:"href"`
	URI        string   `json:"uri"`
}

// AlbumRef is a track's weak back-reference to its album: the id plus the
// display fields a frontend needs, never an owning pointer. This avoids a
// Track <-> Album ownership cycle.
type AlbumRef struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Track is a fully resolved Spotify track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	DurationMS int      `json:"durationMs"`
	Explicit   bool     `json:"explicit"`
	Popularity int      `json:"popularity"`
	Artists    []Artist `json:"artists"`
	Album      AlbumRef `json:"album"`
	Href       string   `json:"href"`
	URI        string   `json:"uri"`
}

// Album is a fully resolved Spotify album. Tracks always holds the complete
// track list; partial (single-page) listings are never surfaced.
type Album struct {
	ID                   string               `json:"id"`
	Name                 string               `json:"name"`
	AlbumType            AlbumType            `json:"albumType"`
	TotalTracks          int                  `json:"totalTracks"`
	Popularity           int                  `json:"popularity"`
	ReleaseDate          string               `json:"releaseDate"`
	ReleaseDatePrecision ReleaseDatePrecision `json:"releaseDatePrecision"`
	Images               []Image              `json:"images"`
	Artists              []Artist             `json:"artists"`
	Tracks               []Track              `json:"tracks"`
	Href                 string               `json:"href"`
	URI                  string               `json:"uri"`
}

// AlbumSummary is the simplified album representation used in listings
// (an artist's discography); it carries no track or popularity data and is
// not a resolved Album.
type AlbumSummary struct {
	ID                   string               `json:"id"`
	Name                 string               `json:"name"`
	AlbumType            AlbumType            `json:"albumType"`
	TotalTracks          int                  `json:"totalTracks"`
	ReleaseDate          string               `json:"releaseDate"`
	ReleaseDatePrecision ReleaseDatePrecision `json:"releaseDatePrecision"`
	Images               []Image              `json:"images"`
	Href                 string               `json:"href"`
	URI                  string               `json:"uri"`
}

// Playlist is a fully resolved Spotify playlist. Track order matches the
// upstream listing exactly, including across pagination boundaries.
// Public is nil when the owner's visibility setting is unknown.
type Playlist struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Collaborative    bool    `json:"collaborative"`
	Public           *bool   `json:"public"`
	OwnerID          string  `json:"ownerId"`
	OwnerDisplayName string  `json:"ownerDisplayName"`
	Images           []Image `json:"images"`
	Tracks           []Track `json:"tracks"`
	Href             string  `json:"href"`
	URI              string  `json:"uri"`
}
