package tool

import (
	"context"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	"github.com/tanpawarit/Chative-Music-Store-Support/agent/musicdb"
)

func TestSongsByGenreEmptyReportsNoSongs(t *testing.T) {
	t.Parallel()

	catalog, _ := BuildForAgent(contractx.AgentTypeMusic, &fakeRepo{})
	out, err := catalog.Execute(context.Background(), contractx.Scope{}, call("c", ToolSongsByGenre, `{"genre":"Polka"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Failed() {
		t.Fatalf("empty genre must not be an error result: %s", out.Error)
	}
	content := Content(out)
	if !strings.Contains(content, "No songs found for the genre: Polka") {
		t.Fatalf("content = %s", content)
	}
	if !strings.Contains(content, `"songs":[]`) {
		t.Fatalf("empty songs must serialize as []: %s", content)
	}
}

func TestSongsByGenreFound(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{genre: []musicdb.Track{{SongName: "Highway to Hell", ArtistName: "AC/DC"}}}
	catalog, _ := BuildForAgent(contractx.AgentTypeMusic, repo)
	out, _ := catalog.Execute(context.Background(), contractx.Scope{}, call("c", ToolSongsByGenre, `{"genre":"Rock"}`))
	got, ok := out.Result.(GenreSongs)
	if !ok {
		t.Fatalf("unexpected result type: %T", out.Result)
	}
	if got.Message != "" || len(got.Songs) != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestMusicToolsNeedNoVerification(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{albums: []musicdb.Album{{Title: "Let There Be Rock", ArtistName: "AC/DC"}}}
	catalog, _ := BuildForAgent(contractx.AgentTypeMusic, repo)
	out, err := catalog.Execute(context.Background(), contractx.Scope{}, call("c", ToolAlbumsByArtist, `{"artist":"AC/DC"}`))
	if err != nil || out.Failed() {
		t.Fatalf("Execute() = %+v, %v", out, err)
	}
	if repo.queries.Load() != 1 {
		t.Fatalf("queries = %d, want 1", repo.queries.Load())
	}
}
