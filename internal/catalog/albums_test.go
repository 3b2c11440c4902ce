package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hazelvane/melodex/internal/services"
	"github.com/hazelvane/melodex/internal/shared"
)

// albumFixture wires a full album with its track listing split across pages.
// Each page beyond the first is registered under a cursor URL.
func albumFixture(api *fakeUpstream, albumID string, trackIDs []string, perPage int) {
	var items []services.SpotifySimpleTrack
	for _, id := range trackIDs {
		items = append(items, services.SpotifySimpleTrack{
			ID:      id,
			Name:    "Song " + id,
			Artists: []services.SpotifySimpleArtist{simpleArtistRef("a1", "Album Artist")},
		})
		api.tracks[id] = fullTrack(id, "Song "+id, albumID, "a1")
	}

	var pages [][]services.SpotifySimpleTrack
	for start := 0; start < len(items); start += perPage {
		end := start + perPage
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[start:end])
	}
	if len(pages) == 0 {
		pages = [][]services.SpotifySimpleTrack{nil}
	}

	cursor := func(i int) *string {
		if i >= len(pages)-1 {
			return nil
		}
		url := fmt.Sprintf("page:%s:%d", albumID, i+1)
		return &url
	}

	for i := 1; i < len(pages); i++ {
		api.trackPages[fmt.Sprintf("page:%s:%d", albumID, i)] = services.SpotifyTrackPage{
			Items: pages[i],
			Total: len(items),
			Next:  cursor(i),
		}
	}

	api.albums[albumID] = services.SpotifyAlbum{
		ID:          albumID,
		Name:        "Album " + albumID,
		AlbumType:   "album",
		TotalTracks: len(items),
		Artists:     []services.SpotifySimpleArtist{simpleArtistRef("a1", "Album Artist")},
		Tracks: services.SpotifyTrackPage{
			Items: pages[0],
			Total: len(items),
			Next:  cursor(0),
		},
	}
}

func TestResolveAlbum(t *testing.T) {
	t.Run("CompletesMultiPageListing", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "Album Artist")

		var trackIDs []string
		for i := 0; i < 137; i++ {
			trackIDs = append(trackIDs, fmt.Sprintf("t%03d", i))
		}
		albumFixture(api, "al1", trackIDs, 50)
		resolver, _ := newTestResolver(api)

		album, err := resolver.ResolveAlbum(context.Background(), "al1")
		if err != nil {
			t.Fatalf("failed to resolve album: %v", err)
		}

		if len(album.Tracks) != 137 {
			t.Fatalf("expected 137 tracks, got %d", len(album.Tracks))
		}
		for i, id := range trackIDs {
			if album.Tracks[i].ID != id {
				t.Fatalf("position %d: expected %s, got %s", i, id, album.Tracks[i].ID)
			}
		}
		// 137 items at 50 per page means two continuation fetches.
		if got := api.callCount("TrackPage"); got != 2 {
			t.Errorf("expected 2 page fetches, got %d", got)
		}
		// 137 full payloads re-fetched in ceiling-50 batches.
		if got := api.callCount("SeveralTracks"); got != 3 {
			t.Errorf("expected 3 track batch calls, got %d", got)
		}
	})

	t.Run("AlbumArtistsSharedWithTracks", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "Album Artist")
		albumFixture(api, "al1", []string{"t1", "t2"}, 50)
		resolver, _ := newTestResolver(api)

		if _, err := resolver.ResolveAlbum(context.Background(), "al1"); err != nil {
			t.Fatalf("failed to resolve album: %v", err)
		}
		// The album's own artist covers every track; one batch call.
		if got := api.callCount("SeveralArtists"); got != 1 {
			t.Errorf("expected 1 artist batch call, got %d", got)
		}
	})

	t.Run("CachedAlbumNeverRefreshed", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "Album Artist")
		albumFixture(api, "al1", []string{"t1"}, 50)
		resolver, _ := newTestResolver(api)

		if _, err := resolver.ResolveAlbum(context.Background(), "al1"); err != nil {
			t.Fatalf("failed to warm album: %v", err)
		}
		if _, err := resolver.ResolveAlbum(context.Background(), "al1"); err != nil {
			t.Fatalf("failed to resolve cached album: %v", err)
		}
		if got := api.callCount("Album"); got != 1 {
			t.Errorf("expected 1 upstream call, got %d", got)
		}
	})

	t.Run("ReloadForcesFetch", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "Album Artist")
		albumFixture(api, "al1", []string{"t1"}, 50)
		resolver, stores := newTestResolver(api)

		if _, err := resolver.ResolveAlbum(context.Background(), "al1"); err != nil {
			t.Fatalf("failed to warm album: %v", err)
		}
		if _, err := resolver.ReloadAlbum(context.Background(), "al1"); err != nil {
			t.Fatalf("failed to reload album: %v", err)
		}
		if got := api.callCount("Album"); got != 2 {
			t.Errorf("expected 2 upstream calls, got %d", got)
		}
		if stores.saves["album:al1"] != 2 {
			t.Errorf("expected 2 saves, got %d", stores.saves["album:al1"])
		}
	})

	t.Run("PageLimitExceeded", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "Album Artist")
		albumFixture(api, "al1", []string{"t1", "t2", "t3", "t4", "t5", "t6"}, 1)
		stores := newMemoryStores()
		resolver := NewResolver(api, Stores{Artists: stores, Albums: stores, Tracks: stores, Playlists: stores}, nil, 3)

		_, err := resolver.ResolveAlbum(context.Background(), "al1")
		if !errors.Is(err, shared.ErrPageLimitExceeded) {
			t.Errorf("expected ErrPageLimitExceeded, got %v", err)
		}
	})

	t.Run("BatchShortfallIsHardError", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "Album Artist")
		albumFixture(api, "al1", []string{"t1", "t2"}, 50)
		// The listing names t2 but the full payload is gone upstream.
		delete(api.tracks, "t2")
		resolver, _ := newTestResolver(api)

		_, err := resolver.ResolveAlbum(context.Background(), "al1")
		if !errors.Is(err, shared.ErrBatchSizeMismatch) {
			t.Errorf("expected ErrBatchSizeMismatch, got %v", err)
		}
	})

	t.Run("ListingItemMissingID", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "Album Artist")
		albumFixture(api, "al1", []string{"t1"}, 50)
		album := api.albums["al1"]
		album.Tracks.Items = append(album.Tracks.Items, services.SpotifySimpleTrack{Name: "No ID"})
		api.albums["al1"] = album
		resolver, _ := newTestResolver(api)

		_, err := resolver.ResolveAlbum(context.Background(), "al1")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestResolveAlbums(t *testing.T) {
	t.Run("PreservesRequestOrder", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "Album Artist")
		albumFixture(api, "al1", []string{"t1"}, 50)
		albumFixture(api, "al2", []string{"t2"}, 50)
		albumFixture(api, "al3", []string{"t3"}, 50)
		resolver, _ := newTestResolver(api)

		albums, err := resolver.ResolveAlbums(context.Background(), []string{"al2", "al3", "al1", "al2"})
		if err != nil {
			t.Fatalf("failed to resolve albums: %v", err)
		}

		want := []string{"al2", "al3", "al1"}
		if len(albums) != len(want) {
			t.Fatalf("expected %d albums, got %d", len(want), len(albums))
		}
		for i, id := range want {
			if albums[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, albums[i].ID)
			}
		}
		if got := api.callCount("SeveralAlbums"); got != 1 {
			t.Errorf("expected 1 batch call, got %d", got)
		}
	})

	t.Run("StoreHitsSkipUpstream", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "Album Artist")
		albumFixture(api, "al1", []string{"t1"}, 50)
		albumFixture(api, "al2", []string{"t2"}, 50)
		resolver, _ := newTestResolver(api)

		if _, err := resolver.ResolveAlbum(context.Background(), "al1"); err != nil {
			t.Fatalf("failed to warm album: %v", err)
		}

		albums, err := resolver.ResolveAlbums(context.Background(), []string{"al1", "al2"})
		if err != nil {
			t.Fatalf("failed to resolve albums: %v", err)
		}
		if len(albums) != 2 {
			t.Errorf("expected 2 albums, got %d", len(albums))
		}
		if got := api.callCount("Album"); got != 1 {
			t.Errorf("expected the warm call only, got %d", got)
		}
	})
}

func TestResolveArtistAlbums(t *testing.T) {
	t.Run("WalksDiscographyPages", func(t *testing.T) {
		api := newFakeUpstream()
		next := "page:disco:1"
		api.discographies["a1"] = services.SpotifyAlbumPage{
			Items: []services.SpotifySimpleAlbum{
				{ID: "al1", Name: "First", AlbumType: "album"},
			},
			Total: 2,
			Next:  &next,
		}
		api.albumPages[next] = services.SpotifyAlbumPage{
			Items: []services.SpotifySimpleAlbum{
				{ID: "al2", Name: "Second", AlbumType: "single"},
			},
			Total: 2,
		}
		resolver, _ := newTestResolver(api)

		summaries, err := resolver.ResolveArtistAlbums(context.Background(), "a1")
		if err != nil {
			t.Fatalf("failed to resolve discography: %v", err)
		}
		if len(summaries) != 2 {
			t.Fatalf("expected 2 summaries, got %d", len(summaries))
		}
		if summaries[0].ID != "al1" || summaries[1].ID != "al2" {
			t.Errorf("unexpected order: %s, %s", summaries[0].ID, summaries[1].ID)
		}
	})
}

func TestResolveArtistTopTracks(t *testing.T) {
	api := newFakeUpstream()
	api.artists["a1"] = fullArtist("a1", "Headliner")
	api.tracks["t1"] = fullTrack("t1", "Hit", "al1", "a1")
	api.tracks["t2"] = fullTrack("t2", "Deep Cut", "al1", "a1")
	resolver, _ := newTestResolver(api)

	tracks, err := resolver.ResolveArtistTopTracks(context.Background(), "a1")
	if err != nil {
		t.Fatalf("failed to resolve top tracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Errorf("expected 2 tracks, got %d", len(tracks))
	}
	if got := api.callCount("SeveralArtists"); got != 1 {
		t.Errorf("expected 1 artist batch call, got %d", got)
	}
}
