package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"

	"github.com/pimeo/iopole-search-params-builder/manifest"
	"github.com/pimeo/iopole-search-params-builder/script"
)

// paramsFlag collects repeatable -param key=value pairs for Lua scripts.
type paramsFlag map[string]any

func (p paramsFlag) String() string {
	pairs := make([]string, 0, len(p))
	for k, v := range p {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(pairs, ",")
}

func (p paramsFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	p[key] = value
	return nil
}

func main() {
	var (
		filePath string
		watch    bool
	)
	scriptParams := paramsFlag{}

	flag.StringVar(&filePath, "f", "", "query definition file (.yaml, .yml or .lua)")
	flag.BoolVar(&watch, "watch", false, "re-render whenever the file changes")
	flag.Var(scriptParams, "param", "script parameter as key=value (repeatable)")
	flag.Parse()

	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}),
	).With("run_id", uuid.NewString())

	if filePath == "" {
		logger.Error("no input file. use -f.")
		os.Exit(1)
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling to catch Ctrl+C (SIGINT) or Terminate (SIGTERM)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received signal. shutting down.", "signal", sig)
		cancel()
	}()

	if err := render(logger, filePath, scriptParams); err != nil {
		logger.Error("render failed.", "error", err)
		if !watch {
			os.Exit(1)
		}
	}

	if !watch {
		return
	}

	if err := watchAndRender(ctx, logger, filePath, scriptParams); err != nil {
		logger.Error("watch failed.", "error", err)
		os.Exit(1)
	}

	logger.Info("stopped.")
}

func render(logger *slog.Logger, filePath string, scriptParams map[string]any) error {
	switch ext := filepath.Ext(filePath); ext {
	case ".yaml", ".yml":
		p, err := manifest.Load(filePath)
		if err != nil {
			return err
		}

		fmt.Println(p.Query)
		logger.Info("rendered manifest.", "file", filePath, "encoded", p.Values().Encode())
		return nil

	case ".lua":
		runner, err := script.NewRunner(filePath)
		if err != nil {
			return err
		}

		q, err := runner.Run(scriptParams)
		if err != nil {
			return err
		}

		fmt.Println(q)
		logger.Info("rendered script.", "file", filePath)
		return nil

	default:
		return fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// watchAndRender re-renders on every write to the file until the
// context is cancelled. Render failures are logged, not fatal, so a
// half-saved file doesn't kill the session.
func watchAndRender(ctx context.Context, logger *slog.Logger, filePath string, scriptParams map[string]any) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filePath); err != nil {
		return fmt.Errorf("cannot add file to watcher: %w", err)
	}

	logger.Info("watching.", "file", filePath)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if err := render(logger, filePath, scriptParams); err != nil {
				logger.Error("render failed.", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error.", "error", err)
		}
	}
}
