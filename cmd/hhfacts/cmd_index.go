package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hhfacts/index"
	"github.com/dhamidi/hhfacts/store"
)

var (
	_ index.Sink       = (*store.Store)(nil)
	_ index.HashLookup = (*store.Store)(nil)
)

func newIndexCmd(a *app) *cobra.Command {
	var dbPath string
	var workers int
	var watch bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "index [dir]",
		Short: "Extract the facts of every source file into the facts database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := a.project
			if len(args) == 1 {
				root = args[0]
			}
			if workers == 0 {
				workers = a.cfg.Index.Workers
			}

			discovery, err := index.NewDiscovery(root, a.cfg.Index.Include, a.cfg.Index.Exclude)
			if err != nil {
				return err
			}

			st, err := store.Open(a.storePath(dbPath))
			if err != nil {
				return err
			}
			defer st.Close()

			var progress index.ProgressReporter = index.NoopProgress{}
			if !quiet {
				progress = index.NewBarProgress(a.stderr)
			}
			ix, err := index.New(discovery, st, index.Options{
				Env:       a.env(cmd, ""),
				Workers:   workers,
				CacheSize: a.cfg.Index.CacheSize,
				Progress:  progress,
			})
			if err != nil {
				return err
			}
			defer ix.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			files, err := discovery.Discover(ctx)
			if err != nil {
				return err
			}
			if err := pruneStore(st, ix, files); err != nil {
				return err
			}
			if _, err := ix.Run(ctx, files); err != nil {
				return err
			}

			if !watch {
				return nil
			}
			return watchProject(ctx, a, ix, quiet)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "facts database (default from store.path)")
	cmd.Flags().IntVar(&workers, "workers", 0, "files processed in parallel (default one per CPU)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and reindex files as they change")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not show progress")
	addCompatFlags(cmd)

	return cmd
}

// pruneStore forgets stored files that discovery no longer finds.
func pruneStore(st *store.Store, ix *index.Indexer, files []string) error {
	stored, err := st.Files()
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}
	var gone []string
	for _, f := range stored {
		if !present[f] {
			gone = append(gone, f)
		}
	}
	return ix.Remove(gone)
}

func watchProject(ctx context.Context, a *app, ix *index.Indexer, quiet bool) error {
	ix.SetProgress(index.NoopProgress{})
	w, err := index.NewWatcher(ix, 300*time.Millisecond)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	w.OnBatch = func(stats index.Stats, err error) {
		if err == nil && !quiet {
			a.warnf("%s", stats)
		}
	}
	w.Start(ctx)
	defer w.Stop()

	if !quiet {
		a.warnf("watching for changes, press Ctrl-C to stop")
	}
	<-ctx.Done()
	return nil
}
