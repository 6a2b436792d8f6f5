package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gmlsem/internal/project"
	"gmlsem/internal/ui"
)

type openOutcome struct {
	proj *project.Project
	err  error
}

func openWithUI(ctx context.Context, title, path string, opts []project.Option) (*project.Project, error) {
	events := make(chan project.Progress, 256)
	outcomeCh := make(chan openOutcome, 1)

	go func() {
		o := append(opts[:len(opts):len(opts)], project.WithProgress(func(p project.Progress) { events <- p }))
		proj, err := project.Open(ctx, path, o...)
		outcomeCh <- openOutcome{proj: proj, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, ui.LoadTotal, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// keep the loader from blocking if the UI quit early
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		if outcome.proj != nil {
			outcome.proj.Close()
		}
		return nil, uiErr
	}
	return outcome.proj, outcome.err
}
