package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songalchemy/internal/shared"
)

func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.history.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists)
	}

	if len(playlists) == 0 {
		r.writePlainln("No saved playlists yet.")
		return nil
	}

	for _, playlist := range playlists {
		r.writePlainf("%s  %s (%d tracks, %s)\n  %s\n",
			playlist.ID, playlist.Title, playlist.TrackCount,
			playlist.CreatedAt.Format("2006-01-02"), playlist.URL())
	}

	return nil
}

func (r *Runner) HistoryRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: history entry id", shared.ErrMissingArgument)
	}

	if err := r.history.Delete(id); err != nil {
		return err
	}

	r.writePlainln("Removed.")
	return nil
}
