package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songalchemy/internal/shared"
)

// PodcastGenerate recommends podcasts for a prompt and optionally follows
// them.
func (r *Runner) PodcastGenerate(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.generateEngine()
	if err != nil {
		return err
	}

	prompt := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if prompt == "" {
		return fmt.Errorf("%w: prompt", shared.ErrMissingArgument)
	}

	progress, wait := r.progressPrinter()

	result, err := engine.GeneratePodcasts(ctx, progress, prompt, int(cmd.Int("count")))

	close(progress)
	wait()

	if err != nil {
		return err
	}

	r.writePlainf("%s\n%s\n\n", result.Title, result.Description)

	for i, show := range result.Shows {
		r.writePlainf("%2d. %s (%s)\n", i+1, show.Name, show.Publisher)
	}

	if !cmd.Bool("follow") {
		return nil
	}

	if err := engine.FollowShows(ctx, nil, result.Shows); err != nil {
		return err
	}

	r.writePlainf("\nFollowed %d shows.\n", len(result.Shows))
	return nil
}

// PodcastEpisodes lists a show's recent episodes.
func (r *Runner) PodcastEpisodes(ctx context.Context, cmd *cli.Command) error {
	showID := cmd.Args().First()
	if showID == "" {
		return fmt.Errorf("%w: show id", shared.ErrMissingArgument)
	}

	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	episodes, err := catalog.ShowEpisodes(ctx, showID, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	for i, episode := range episodes {
		minutes := episode.DurationMS / 60000
		r.writePlainf("%2d. %s (%dm, %s)\n", i+1, episode.Name, minutes, episode.ReleaseDate)
	}

	return nil
}
