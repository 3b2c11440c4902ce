// package services implements the client side of the Spotify Web API: typed
// wire payloads, a client-credentials token provider, and the HTTP client the
// aggregation pipeline fetches raw entities through.
//
// Response shapes follow https://developer.spotify.com/documentation/web-api/reference/
// and keep the provider's field names verbatim; parsing into these records is
// the only place raw JSON is touched.
package services

// Per-kind ceilings for the several-entities endpoints. The API rejects
// larger id lists, so callers must split before issuing a batch.
const (
	MaxArtistBatch = 20
	MaxAlbumBatch  = 20
	MaxTrackBatch  = 50
)

// SpotifyImage represents an image resource. Width and height are omitted by
// the API for some resources; nil means unknown.
type SpotifyImage struct {
	URL    string `json:"url"`
	Width  *int   `json:"width"`
	Height *int   `json:"height"`
}

type followers struct {
	Total int `json:"total"`
}

// SpotifyArtist represents a full Spotify artist.
type SpotifyArtist struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Genres     []string       `json:"genres"`
	Images     []SpotifyImage `json:"images"`
	Popularity int            `json:"popularity"`
	Followers  followers      `json:"followers"`
	Href       string         `json:"href"`
	URI        string         `json:"uri"`
}

// SpotifySimpleArtist is the simplified artist reference embedded in track
// and album listings: id and name only, no genres, images, or popularity.
type SpotifySimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Href string `json:"href"`
	URI  string `json:"uri"`
}

// SpotifySimpleAlbum is the simplified album embedded in full track payloads
// and artist discographies.
type SpotifySimpleAlbum struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	AlbumType            string                `json:"album_type"`
	TotalTracks          int                   `json:"total_tracks"`
	ReleaseDate          string                `json:"release_date"`
	ReleaseDatePrecision string                `json:"release_date_precision"`
	Images               []SpotifyImage        `json:"images"`
	Artists              []SpotifySimpleArtist `json:"artists"`
	Href                 string                `json:"href"`
	URI                  string                `json:"uri"`
}

// SpotifySimpleTrack is the simplified track used in an album's track
// listing; it carries neither album nor popularity.
type SpotifySimpleTrack struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	DurationMS int                   `json:"duration_ms"`
	Explicit   bool                  `json:"explicit"`
	Artists    []SpotifySimpleArtist `json:"artists"`
	Href       string                `json:"href"`
	URI        string                `json:"uri"`
}

// SpotifyTrack represents a full Spotify track.
type SpotifyTrack struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	DurationMS int                   `json:"duration_ms"`
	Explicit   bool                  `json:"explicit"`
	Popularity int                   `json:"popularity"`
	Artists    []SpotifySimpleArtist `json:"artists"`
	Album      SpotifySimpleAlbum    `json:"album"`
	Href       string                `json:"href"`
	URI        string                `json:"uri"`
}

// SpotifyTrackPage is one page of an album's track listing.
type SpotifyTrackPage struct {
	Items  []SpotifySimpleTrack `json:"items"`
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
	Next   *string              `json:"next"`
}

// SpotifyAlbum represents a full Spotify album. Tracks holds the first page
// of the listing; Tracks.Next is non-nil when more pages exist.
type SpotifyAlbum struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	AlbumType            string                `json:"album_type"`
	TotalTracks          int                   `json:"total_tracks"`
	Popularity           int                   `json:"popularity"`
	ReleaseDate          string                `json:"release_date"`
	ReleaseDatePrecision string                `json:"release_date_precision"`
	Images               []SpotifyImage        `json:"images"`
	Artists              []SpotifySimpleArtist `json:"artists"`
	Tracks               SpotifyTrackPage      `json:"tracks"`
	Href                 string                `json:"href"`
	URI                  string                `json:"uri"`
}

// SpotifyAlbumPage is one page of an artist's discography.
type SpotifyAlbumPage struct {
	Items []SpotifySimpleAlbum `json:"items"`
	Total int                  `json:"total"`
	Next  *string              `json:"next"`
}

// SpotifyOwner identifies a playlist's owner.
type SpotifyOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylistTrack wraps a track inside a playlist listing. Track is nil
// for entries the API can no longer resolve (removed or local files).
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPlaylistTrackPage is one page of a playlist's track listing.
type SpotifyPlaylistTrackPage struct {
	Items []SpotifyPlaylistTrack `json:"items"`
	Total int                    `json:"total"`
	Next  *string                `json:"next"`
}

// SpotifyPlaylist represents a full Spotify playlist. Public is nil when the
// API reports the visibility as unknown.
type SpotifyPlaylist struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	Collaborative bool                     `json:"collaborative"`
	Public        *bool                    `json:"public"`
	Owner         SpotifyOwner             `json:"owner"`
	Images        []SpotifyImage           `json:"images"`
	Tracks        SpotifyPlaylistTrackPage `json:"tracks"`
	Href          string                   `json:"href"`
	URI           string                   `json:"uri"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

type simplePlaylistTracks struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist is the simplified playlist object used in listings.
type SpotifySimplePlaylist struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Owner       SpotifyOwner         `json:"owner"`
	Public      *bool                `json:"public"`
	Tracks      simplePlaylistTracks `json:"tracks"`
	Images      []SpotifyImage       `json:"images"`
	URI         string               `json:"uri"`
}

// SpotifyPaginatedPlaylists is a paginated response of a user's playlists.
type SpotifyPaginatedPlaylists struct {
	Items    []SpotifySimplePlaylist `json:"items"`
	Total    int                     `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
}
