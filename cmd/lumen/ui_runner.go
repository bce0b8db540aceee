package main

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lumen/internal/buildpipeline"
	"lumen/internal/ui"
)

type outcome[T any] struct {
	result T
	err    error
}

// runWithUI runs work in a goroutine and renders its events with the
// Bubble Tea progress view until the event channel closes.
func runWithUI[T any](title string, stages []buildpipeline.Stage, work func(buildpipeline.ProgressSink) (T, error)) (T, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan outcome[T], 1)

	go func() {
		res, err := work(buildpipeline.ChannelSink{Ch: events})
		outcomeCh <- outcome[T]{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, stages, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы не заблокировать сборку
		go func() {
			for range events {
			}
		}()
	}
	out := <-outcomeCh
	if uiErr != nil {
		return out.result, uiErr
	}
	return out.result, out.err
}

// progressSink is the plain line printer used on a terminal with --ui=off.
// Redirected output gets no progress at all.
func progressSink(g globalOptions, w io.Writer) buildpipeline.ProgressSink {
	if g.quiet || g.ui != uiModeOff || !isTerminal(os.Stdout) {
		return nil
	}
	return ui.NewLineSink(w)
}
