package catalog

import (
	"context"
	"testing"

	"github.com/hazelvane/melodex/internal/services"
)

func playlistFixture(api *fakeUpstream, id string, entries []services.SpotifyPlaylistTrack, perPage int) {
	var pages [][]services.SpotifyPlaylistTrack
	for start := 0; start < len(entries); start += perPage {
		end := start + perPage
		if end > len(entries) {
			end = len(entries)
		}
		pages = append(pages, entries[start:end])
	}
	if len(pages) == 0 {
		pages = [][]services.SpotifyPlaylistTrack{nil}
	}

	cursor := func(i int) *string {
		if i >= len(pages)-1 {
			return nil
		}
		url := "page:" + id + ":next"
		return &url
	}

	for i := 1; i < len(pages); i++ {
		api.playlistTrackPages["page:"+id+":next"] = services.SpotifyPlaylistTrackPage{
			Items: pages[i],
			Total: len(entries),
			Next:  cursor(i),
		}
	}

	api.playlists[id] = services.SpotifyPlaylist{
		ID:    id,
		Name:  "Playlist " + id,
		Owner: services.SpotifyOwner{ID: "owner1", DisplayName: "Owner"},
		Tracks: services.SpotifyPlaylistTrackPage{
			Items: pages[0],
			Total: len(entries),
			Next:  cursor(0),
		},
	}
}

func entryFor(track services.SpotifyTrack) services.SpotifyPlaylistTrack {
	return services.SpotifyPlaylistTrack{AddedAt: "2024-01-01T00:00:00Z", Track: &track}
}

func TestResolvePlaylist(t *testing.T) {
	t.Run("SkipsRemovedEntries", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "First")
		albumFixture(api, "al1", []string{"t1", "t2"}, 50)

		playlistFixture(api, "p1", []services.SpotifyPlaylistTrack{
			entryFor(api.tracks["t1"]),
			{AddedAt: "2024-01-02T00:00:00Z", Track: nil},
			entryFor(api.tracks["t2"]),
		}, 50)
		resolver, _ := newTestResolver(api)

		playlist, err := resolver.ResolvePlaylist(context.Background(), "p1")
		if err != nil {
			t.Fatalf("failed to resolve playlist: %v", err)
		}
		if len(playlist.Tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(playlist.Tracks))
		}
		if playlist.Tracks[0].ID != "t1" || playlist.Tracks[1].ID != "t2" {
			t.Errorf("unexpected order: %s, %s", playlist.Tracks[0].ID, playlist.Tracks[1].ID)
		}
	})

	t.Run("OrderSpansPages", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "First")
		albumFixture(api, "al1", []string{"t1", "t2", "t3", "t4"}, 50)

		playlistFixture(api, "p1", []services.SpotifyPlaylistTrack{
			entryFor(api.tracks["t1"]),
			entryFor(api.tracks["t2"]),
			entryFor(api.tracks["t3"]),
			entryFor(api.tracks["t4"]),
		}, 2)
		resolver, _ := newTestResolver(api)

		playlist, err := resolver.ResolvePlaylist(context.Background(), "p1")
		if err != nil {
			t.Fatalf("failed to resolve playlist: %v", err)
		}

		want := []string{"t1", "t2", "t3", "t4"}
		if len(playlist.Tracks) != len(want) {
			t.Fatalf("expected %d tracks, got %d", len(want), len(playlist.Tracks))
		}
		for i, id := range want {
			if playlist.Tracks[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, playlist.Tracks[i].ID)
			}
		}
		if got := api.callCount("PlaylistTrackPage"); got != 1 {
			t.Errorf("expected 1 page fetch, got %d", got)
		}
	})

	t.Run("AlbumRefsBatchResolved", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "First")
		albumFixture(api, "al1", []string{"t1", "t2"}, 50)
		albumFixture(api, "al2", []string{"t3"}, 50)

		playlistFixture(api, "p1", []services.SpotifyPlaylistTrack{
			entryFor(api.tracks["t1"]),
			entryFor(api.tracks["t2"]),
			entryFor(api.tracks["t3"]),
		}, 50)
		resolver, _ := newTestResolver(api)

		playlist, err := resolver.ResolvePlaylist(context.Background(), "p1")
		if err != nil {
			t.Fatalf("failed to resolve playlist: %v", err)
		}

		if playlist.Tracks[0].Album.Name != "Album al1" {
			t.Errorf("expected display ref to carry the album name, got %q", playlist.Tracks[0].Album.Name)
		}
		if playlist.Tracks[2].Album.ID != "al2" {
			t.Errorf("expected album ref al2, got %s", playlist.Tracks[2].Album.ID)
		}
		// Two distinct albums, one batch request.
		if got := api.callCount("SeveralAlbums"); got != 1 {
			t.Errorf("expected 1 album batch call, got %d", got)
		}
	})

	t.Run("AlwaysConsultsUpstream", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "First")
		albumFixture(api, "al1", []string{"t1"}, 50)
		playlistFixture(api, "p1", []services.SpotifyPlaylistTrack{entryFor(api.tracks["t1"])}, 50)
		resolver, stores := newTestResolver(api)

		if _, err := resolver.ResolvePlaylist(context.Background(), "p1"); err != nil {
			t.Fatalf("failed to resolve playlist: %v", err)
		}
		if _, err := resolver.ResolvePlaylist(context.Background(), "p1"); err != nil {
			t.Fatalf("failed to resolve playlist again: %v", err)
		}
		if got := api.callCount("Playlist"); got != 2 {
			t.Errorf("expected 2 upstream calls, got %d", got)
		}
		if stores.saves["playlist:p1"] != 2 {
			t.Errorf("expected write-through on both resolutions, got %d", stores.saves["playlist:p1"])
		}
	})

	t.Run("OwnerAndMetadataMapped", func(t *testing.T) {
		api := newFakeUpstream()
		api.artists["a1"] = fullArtist("a1", "First")
		albumFixture(api, "al1", []string{"t1"}, 50)
		playlistFixture(api, "p1", []services.SpotifyPlaylistTrack{entryFor(api.tracks["t1"])}, 50)
		resolver, _ := newTestResolver(api)

		playlist, err := resolver.ResolvePlaylist(context.Background(), "p1")
		if err != nil {
			t.Fatalf("failed to resolve playlist: %v", err)
		}
		if playlist.OwnerID != "owner1" || playlist.OwnerDisplayName != "Owner" {
			t.Errorf("owner not mapped: %s / %s", playlist.OwnerID, playlist.OwnerDisplayName)
		}
		if playlist.Public != nil {
			t.Errorf("expected unknown visibility to stay nil")
		}
	})
}
