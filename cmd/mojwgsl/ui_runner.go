package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mojwgsl/internal/driver"
	"mojwgsl/internal/pipeline"
	"mojwgsl/internal/ui"
)

type convertOutcome struct {
	result *driver.Result
	err    error
}

func runConvertWithUI(ctx context.Context, title string, files, labels []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan convertOutcome, 1)

	go func() {
		opts.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.Convert(ctx, opts)
		outcomeCh <- convertOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, labels, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// UI мог завершиться раньше драйвера
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
