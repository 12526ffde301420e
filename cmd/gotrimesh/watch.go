package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-analyze a mesh whenever it changes",
		Long: `Print the info report of an STL file, or the tet report of a tetgen
mesh, and print it again each time the input files are written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, a, cmd, args[0])
		},
	}
}

// watchedFiles lists the files a mesh is read from
func watchedFiles(filename string) []string {
	if strings.EqualFold(filepath.Ext(filename), ".node") {
		base := strings.TrimSuffix(filename, filepath.Ext(filename))
		return []string{filename, base + ".ele", base + ".face"}
	}
	return []string{filename}
}

func runWatch(ctx context.Context, a *app, cmd *cobra.Command, filename string) error {
	report := func() error {
		a.recorder.Reset()
		if strings.EqualFold(filepath.Ext(filename), ".node") {
			return runTet(a, cmd, filename)
		}
		return runInfo(a, cmd, filename)
	}
	if err := report(); err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(a.cfg.Debounce, a.sink())
	if err != nil {
		return err
	}
	defer fw.Close()

	// Callbacks fire on timer goroutines; reports must not interleave.
	var mu sync.Mutex
	err = fw.Watch(watchedFiles(filename), func(path string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(cmd.OutOrStdout(), "\n--- %s changed ---\n\n", filepath.Base(path))
		if err := report(); err != nil {
			diag.Logf(a.sink(), diag.LevelError, diag.KindNone, "%v", err)
		}
	})
	if err != nil {
		return err
	}
	fw.Start()
	diag.Logf(a.sink(), diag.LevelInfo, diag.KindNone, "watching %s (debounce %s)", filename, a.cfg.Debounce)

	<-ctx.Done()
	return nil
}
