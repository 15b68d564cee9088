package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songalchemy/internal/ui"
)

// TUI starts the interactive playlist generator.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.generateEngine()
	if err != nil {
		return err
	}

	size := int(cmd.Int("size"))
	if size <= 0 {
		size = r.playlistSize()
	}

	model := ui.NewModel(ctx, engine, size)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err = program.Run()
	return err
}
