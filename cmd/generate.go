package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songalchemy/internal/formatter"
	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/shared"
	"github.com/desertthunder/songalchemy/internal/tasks"
)

// Generate runs the prompt-to-playlist pipeline from the command line.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.generateEngine()
	if err != nil {
		return err
	}

	size := int(cmd.Int("size"))
	if size <= 0 {
		size = r.playlistSize()
	}

	progress, wait := r.progressPrinter()

	var result *tasks.GenerateResult

	if cmd.Bool("surprise") {
		result, err = engine.Surprise(ctx, progress, size, true)
	} else {
		prompt := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
		if prompt == "" && !cmd.IsSet("vibe") {
			return fmt.Errorf("%w: prompt (or --surprise)", shared.ErrMissingArgument)
		}

		result, err = engine.Generate(ctx, progress, tasks.GenerateRequest{
			Prompt:        prompt,
			VibeReference: cmd.String("vibe"),
			Size:          size,
			Tuning:        tuningFromFlags(cmd),
		})
	}

	close(progress)
	wait()

	if err != nil {
		return err
	}

	playlist := result.Playlist

	if cmd.Bool("json") {
		if err := r.writeJSON(playlist); err != nil {
			return err
		}
	} else {
		r.writePlain(string(formatter.ToText(playlist)))
	}

	if len(playlist.Tracks) < result.Requested {
		r.writePlainf("\nMatched %d of %d requested tracks.\n", len(playlist.Tracks), result.Requested)
	}

	if output := cmd.String("output"); output != "" {
		if err := formatter.WriteFile(playlist, output); err != nil {
			return err
		}

		r.writePlainf("Wrote playlist to %s\n", output)
	}

	if cmd.Bool("share") {
		url, err := engine.Share(ctx, nil)
		if err != nil {
			return err
		}

		r.writePlainf("\nShare link: %s\n", url)
		return nil
	}

	if cmd.Bool("save") {
		saved, err := engine.Save(ctx, nil)
		if err != nil {
			return err
		}

		r.writePlainf("\nSaved %q (%s)\n", saved.Title, saved.URL())
	}

	return nil
}

// progressPrinter consumes pipeline updates and renders them as log lines.
// The returned wait function blocks until the channel drains.
func (r *Runner) progressPrinter() (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)

		for update := range progress {
			switch update.Phase {
			case tasks.ResolvePhase:
				if update.Matched {
					r.logger.Info("matched", "track", update.Item, "step", fmt.Sprintf("%d/%d", update.Step, update.Total))
				} else {
					r.logger.Warn("no match", "track", update.Item)
				}
			default:
				if update.Message != "" {
					r.logger.Info(update.Message)
				}
			}
		}
	}()

	return progress, func() { <-done }
}

// tuningFromFlags builds a tuning profile when any axis flag is set. Unset
// axes sit at the neutral midpoint.
func tuningFromFlags(cmd *cli.Command) *models.Tuning {
	axes := []string{"acoustic", "energetic", "happy", "danceable", "popular"}

	any := false
	for _, axis := range axes {
		if cmd.IsSet(axis) {
			any = true
			break
		}
	}

	if !any {
		return nil
	}

	value := func(axis string) float64 {
		if cmd.IsSet(axis) {
			return clamp01(cmd.Float(axis))
		}

		return 0.5
	}

	return &models.Tuning{
		Acoustic:  value("acoustic"),
		Energetic: value("energetic"),
		Happy:     value("happy"),
		Danceable: value("danceable"),
		Popular:   value("popular"),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
