// Grounded on the teacher's cmd/surge/ui_runner.go: spin the long-running
// work on a goroutine feeding a channel, hand a bubbletea program the
// receive end, and block on both finishing.
package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"movelint/internal/diagcache"
	"movelint/internal/driver"
	"movelint/internal/registry"
	"movelint/internal/ui"
)

type dirOutcome struct {
	results []driver.NamedResult
	err     error
}

func lintDirectoryWithUI(ctx context.Context, path string, settings registry.Settings, cache *diagcache.Cache) ([]driver.NamedResult, error) {
	total, err := countMoveFiles(path)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return driver.LintDirectory(ctx, path, settings, cache, settingsDigest(settings), nil)
	}

	events := make(chan ui.Tick, total)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		results, err := driver.LintDirectory(ctx, path, settings, cache, settingsDigest(settings), func(done, total int) {
			events <- ui.Tick{Done: done, Total: total}
		})
		outcomeCh <- dirOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking "+path, total, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()

	outcome := <-outcomeCh
	if outcome.err != nil {
		return nil, outcome.err
	}
	return outcome.results, uiErr
}

func countMoveFiles(path string) (int, error) {
	files, err := driver.ListMoveFiles(path)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}
