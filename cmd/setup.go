package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songalchemy/internal/shared"
	"github.com/desertthunder/songalchemy/internal/store"
)

func (r *Runner) SetupInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlainf("Wrote %s. Add your Spotify client id and re-run.\n", path)
	return nil
}

// SetupKeys stores API keys and the backend choice in the credential store,
// where they override the config file.
func (r *Runner) SetupKeys(ctx context.Context, cmd *cli.Command) error {
	updated := 0

	if key := cmd.String("openai"); key != "" {
		if err := r.durable.Set(store.KeyOpenAIKey, key); err != nil {
			return err
		}

		r.writePlainln("Stored OpenAI API key.")
		updated++
	}

	if key := cmd.String("gemini"); key != "" {
		if err := r.durable.Set(store.KeyGeminiKey, key); err != nil {
			return err
		}

		r.writePlainln("Stored Gemini API key.")
		updated++
	}

	if backend := cmd.String("backend"); backend != "" {
		if backend != "openai" && backend != "gemini" {
			return fmt.Errorf("%w: backend must be openai or gemini", shared.ErrInvalidInput)
		}

		if err := r.durable.Set(store.KeyBackend, backend); err != nil {
			return err
		}

		r.writePlainf("Suggestion backend set to %s.\n", backend)
		updated++
	}

	if updated == 0 {
		r.writePlainln("Nothing to do. Pass --openai, --gemini, or --backend.")
	}

	return nil
}
