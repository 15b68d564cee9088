package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songalchemy/internal/shared"
)

func (r *Runner) SpotifyProfile(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	user, err := catalog.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user)
	}

	r.writePlainf("%s (%s), %d followers\n", user.DisplayName, user.ID, user.Followers)
	return nil
}

func (r *Runner) SpotifyTopTracks(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	tracks, err := catalog.TopTracks(ctx, int(cmd.Int("limit")), cmd.String("range"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks)
	}

	for i, track := range tracks {
		r.writePlainf("%2d. %s - %s\n", i+1, track.Name, strings.Join(track.Artists, ", "))
	}

	return nil
}

func (r *Runner) SpotifyTopArtists(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	artists, err := catalog.TopArtists(ctx, int(cmd.Int("limit")), cmd.String("range"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists)
	}

	for i, artist := range artists {
		r.writePlainf("%2d. %s\n", i+1, artist.Name)
	}

	return nil
}

func (r *Runner) SpotifyPlaylists(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	playlists, err := catalog.UserPlaylists(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists)
	}

	for _, playlist := range playlists {
		visibility := "private"
		if playlist.Public {
			visibility = "public"
		}

		r.writePlainf("%s  %s (%d tracks, %s)\n", playlist.ID, playlist.Name, playlist.TrackCount, visibility)
	}

	return nil
}

func (r *Runner) SpotifyPlaylistTracks(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.Args().First()
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	tracks, err := catalog.PlaylistTracks(ctx, playlistID, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks)
	}

	for i, track := range tracks {
		r.writePlainf("%2d. %s - %s\n", i+1, track.Name, strings.Join(track.Artists, ", "))
	}

	return nil
}

func (r *Runner) SpotifyDeletePlaylist(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.Args().First()
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	if err := catalog.DeletePlaylist(ctx, playlistID); err != nil {
		return err
	}

	r.writePlainf("Removed playlist %s from your library.\n", playlistID)
	return nil
}
