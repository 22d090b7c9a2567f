package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/macropower/cleave/api/v1beta1/enzymesets"
	"github.com/macropower/cleave/pkg/enzyme"
	"github.com/macropower/cleave/pkg/log"
)

// WatchFunc receives each reload of a watched file. Exactly one of set and
// err is non-nil.
type WatchFunc func(set *enzymesets.EnzymeSet, err error)

// Watch reloads the EnzymeSet at path whenever it changes and passes the
// result to fn. The directory is watched rather than the file, so editors
// that replace files on save are handled. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn WatchFunc, opts ...LoaderOpt) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}

	logger := log.WithContext(ctx)

	defer func() {
		err := watcher.Close()
		if err != nil {
			logger.ErrorContext(ctx, "close watcher", slog.Any("err", err))
		}
	}()

	err = watcher.Add(filepath.Dir(absPath))
	if err != nil {
		return fmt.Errorf("add path to watcher: %w", err)
	}

	logger.DebugContext(ctx, "watching enzyme set", slog.String("path", absPath))

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(evt.Name) != absPath {
				continue
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) || evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
				continue
			}

			logger.DebugContext(ctx, "enzyme set changed", slog.String("event", evt.String()))

			fn(LoadEnzymeSetFile(ctx, absPath, opts...))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			fn(nil, fmt.Errorf("watch %s: %w", absPath, err))
		}
	}
}

// WatchRegistry keeps reg in sync with the built-in catalogue overlaid with
// paths, as built by [LoadRegistry]. When any of paths changes, the whole
// registry is rebuilt and swapped in with [enzyme.Registry.Reset], so
// enzymes removed from a file stop being served and built-in enzymes they
// overrode come back. A reload that fails leaves reg untouched.
// WatchRegistry blocks until ctx is done.
func WatchRegistry(ctx context.Context, reg *enzyme.Registry, paths []string, opts ...LoaderOpt) error {
	logger := log.WithContext(ctx)

	var mu sync.Mutex

	reload := func(path string) WatchFunc {
		return func(_ *enzymesets.EnzymeSet, err error) {
			if err != nil {
				logger.ErrorContext(ctx, "reload enzymes", slog.String("path", path), slog.Any("err", err))

				return
			}

			mu.Lock()
			defer mu.Unlock()

			next, err := LoadRegistry(ctx, paths, opts...)
			if err != nil {
				logger.ErrorContext(ctx, "reload enzymes", slog.String("path", path), slog.Any("err", err))

				return
			}

			reg.Reset(next)

			logger.InfoContext(ctx, "reloaded enzymes",
				slog.String("path", path),
				slog.Int("count", reg.Len()),
			)
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, path := range paths {
		g.Go(func() error {
			return Watch(gCtx, path, reload(path), opts...)
		})
	}

	return g.Wait() //nolint:wrapcheck // Watch errors are already wrapped.
}
