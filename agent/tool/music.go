package tool

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	"github.com/tanpawarit/Chative-Music-Store-Support/agent/musicdb"
)

const (
	ToolAlbumsByArtist = "get_albums_by_artist"
	ToolTracksByArtist = "get_tracks_by_artist"
	ToolSongsByGenre   = "get_songs_by_genre"
	ToolCheckForSongs  = "check_for_songs"
)

type GenreSongs struct {
	Genre   string          `json:"genre"`
	Songs   []musicdb.Track `json:"songs"`
	Message string          `json:"message,omitempty"`
}

func MusicTools(repo musicdb.Repository) []Spec {
	return []Spec{
		{
			Name: ToolAlbumsByArtist,
			Desc: "Get albums by an artist.",
			Params: []Param{
				{Name: "artist", Type: ParamString, Desc: "Artist name, partial matches allowed", Required: true},
			},
			Run: func(ctx context.Context, args Args, _ contractx.Scope) (any, error) {
				return repo.AlbumsByArtist(ctx, args.String("artist"))
			},
		},
		{
			Name: ToolTracksByArtist,
			Desc: "Get songs by an artist (or similar artists).",
			Params: []Param{
				{Name: "artist", Type: ParamString, Desc: "Artist name, partial matches allowed", Required: true},
			},
			Run: func(ctx context.Context, args Args, _ contractx.Scope) (any, error) {
				return repo.TracksByArtist(ctx, args.String("artist"))
			},
		},
		{
			Name: ToolSongsByGenre,
			Desc: "Fetch songs from the database that match a specific genre, one song per artist.",
			Params: []Param{
				{Name: "genre", Type: ParamString, Desc: "The genre of the songs to fetch", Required: true},
			},
			Run: func(ctx context.Context, args Args, _ contractx.Scope) (any, error) {
				genre := args.String("genre")
				songs, err := repo.SongsByGenre(ctx, genre)
				if err != nil {
					return nil, err
				}
				if songs == nil {
					songs = []musicdb.Track{}
				}
				out := GenreSongs{Genre: genre, Songs: songs}
				if len(songs) == 0 {
					out.Message = fmt.Sprintf("No songs found for the genre: %s", genre)
				}
				return out, nil
			},
		},
		{
			Name: ToolCheckForSongs,
			Desc: "Check if a song exists by its name.",
			Params: []Param{
				{Name: "song_title", Type: ParamString, Desc: "Song title, partial matches allowed", Required: true},
			},
			Run: func(ctx context.Context, args Args, _ contractx.Scope) (any, error) {
				return repo.TracksByTitle(ctx, args.String("song_title"))
			},
		},
	}
}
