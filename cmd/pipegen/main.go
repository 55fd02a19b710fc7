// Command pipegen builds the pipes described by a plant file and writes
// them out as meshes and preview images.
//
// Usage:
//
//	pipegen -config plant.toml -out build -stl -obj -png
//
// With -watch pipegen keeps running and rebuilds every time the plant
// file changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

type options struct {
	config   string
	out      string
	stl      bool
	obj      bool
	png      bool
	solid    bool
	cells    int
	wall     float64
	material string
	size     int
	progress float64
	clash    float64
	watch    bool
	level    slog.Level
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "pipegen:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options
	fs := flag.NewFlagSet("pipegen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.config, "config", "plant.toml", "plant file (.toml, .yaml or .yml)")
	fs.StringVar(&opts.out, "out", ".", "output directory")
	fs.BoolVar(&opts.stl, "stl", true, "write the surface of every pipe to plant.stl")
	fs.BoolVar(&opts.obj, "obj", false, "write every pipe with its texture coordinates to plant.obj")
	fs.BoolVar(&opts.png, "png", false, "render a preview to plant.png")
	fs.BoolVar(&opts.solid, "solid", false, "write a watertight solid of every pipe to <name>_solid.stl")
	fs.Float64Var(&opts.wall, "wall", 0, "hollow solids out leaving a wall this thick, 0 keeps them solid")
	fs.IntVar(&opts.cells, "cells", 0, "marching cubes cells along the longest side of a solid")
	fs.StringVar(&opts.material, "material", "", "compensate solids for the shrinkage of a print material (pla)")
	fs.IntVar(&opts.size, "size", 800, "preview width in pixels, the height is 3/4 of it")
	fs.Float64Var(&opts.progress, "progress", 0, "flow progress in [0,1] shown in the preview")
	fs.Float64Var(&opts.clash, "clash", 0, "report pipes closer than this as clashing")
	fs.BoolVar(&opts.watch, "watch", false, "rebuild when the plant file changes")
	fs.TextVar(&opts.level, "log", slog.LevelInfo, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments %q", fs.Args())
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: opts.level}))

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return err
	}
	b := &builder{opts: opts, logger: logger, stdout: stdout}
	err := b.build()
	if !opts.watch {
		return err
	}
	if err != nil {
		logger.Error("build failed", "config", opts.config, "err", err)
	}
	return watch(ctx, opts.config, logger, b.build)
}

// watch calls rebuild every time the file at path is written. Editors
// often replace files instead of writing them so the directory is watched.
func watch(ctx context.Context, path string, logger *slog.Logger, rebuild func() error) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}
	logger.Info("watching", "config", path)

	// Saving a file triggers bursts of events. Wait for them to settle.
	const settle = 100 * time.Millisecond
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.After(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch", "err", err)
		case <-pending:
			pending = nil
			if err := rebuild(); err != nil {
				logger.Error("build failed", "config", path, "err", err)
			}
		}
	}
}
