package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/maypok86/otter"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/hhfacts/hack/facts"
	"github.com/dhamidi/hhfacts/hack/parser"
)

var log = commonlog.GetLogger("hhfacts.index")

// Sink receives the facts of indexed files together with the parser mode
// (parser.Env.Mode) they were extracted with. Calls come from a single
// goroutine.
type Sink interface {
	PutFile(path string, f *facts.Facts, mode string) error
	RemoveFile(path string) error
}

// HashLookup is implemented by sinks that remember what they stored.
// Files whose content hash and parser mode are both unchanged are
// skipped. FileHash is called from the workers concurrently.
type HashLookup interface {
	FileHash(path string) (hash, mode string, err error)
}

type Stats struct {
	Files        int
	Unchanged    int
	Errors       int
	SyntaxErrors int
	CacheHits    int
	Declarations int
	Duration     time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("indexed %d files (%d unchanged, %d with syntax errors, %d failed, %d cache hits), %d declarations in %v",
		s.Files, s.Unchanged, s.SyntaxErrors, s.Errors, s.CacheHits, s.Declarations, s.Duration.Round(time.Millisecond))
}

type Options struct {
	Env parser.Env
	// Workers bounds the number of files processed at once; 0 means one
	// per CPU.
	Workers int
	// CacheSize is the number of facts kept by content hash; 0 disables
	// the cache.
	CacheSize int
	Progress  ProgressReporter
}

type Indexer struct {
	discovery *Discovery
	sink      Sink
	env       parser.Env
	workers   int
	cache     *otter.Cache[string, *facts.Facts]
	progress  ProgressReporter
	mu        sync.Mutex
}

func New(discovery *Discovery, sink Sink, opts Options) (*Indexer, error) {
	ix := &Indexer{
		discovery: discovery,
		sink:      sink,
		env:       opts.Env,
		workers:   opts.Workers,
		progress:  opts.Progress,
	}
	if ix.workers <= 0 {
		ix.workers = runtime.GOMAXPROCS(0)
	}
	if ix.progress == nil {
		ix.progress = NoopProgress{}
	}
	if opts.CacheSize > 0 {
		cache, err := otter.MustBuilder[string, *facts.Facts](opts.CacheSize).Build()
		if err != nil {
			return nil, fmt.Errorf("build facts cache: %w", err)
		}
		ix.cache = &cache
	}
	return ix, nil
}

// Close releases the cache.
func (ix *Indexer) Close() {
	if ix.cache != nil {
		ix.cache.Close()
	}
}

// SetProgress replaces the reporter used by later runs.
func (ix *Indexer) SetProgress(p ProgressReporter) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.progress = p
}

type outcome struct {
	path      string
	facts     *facts.Facts
	unchanged bool
	cacheHit  bool
	err       error
}

// Run indexes the given relative paths. Files that cannot be read or
// tokenized are counted and logged; only sink failures and cancellation
// stop the run.
func (ix *Indexer) Run(ctx context.Context, files []string) (Stats, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	start := time.Now()
	var stats Stats
	ix.progress.Start(len(files))

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	results := make(chan outcome)
	var sinkErr error
	written := make(chan struct{})
	go func() {
		defer close(written)
		for o := range results {
			if sinkErr != nil {
				continue
			}
			if err := ix.record(o, &stats); err != nil {
				sinkErr = err
				cancel(err)
			}
			ix.progress.FileDone(o.path)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)
	for _, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			o := ix.process(file)
			select {
			case results <- o:
				return nil
			case <-gctx.Done():
				return context.Cause(gctx)
			}
		})
	}
	waitErr := g.Wait()
	close(results)
	<-written

	stats.Duration = time.Since(start)
	ix.progress.Finish(stats)

	switch {
	case sinkErr != nil:
		return stats, fmt.Errorf("store facts: %w", sinkErr)
	case waitErr != nil:
		return stats, waitErr
	case ctx.Err() != nil:
		return stats, context.Cause(ctx)
	}
	return stats, nil
}

func (ix *Indexer) record(o outcome, stats *Stats) error {
	switch {
	case o.err != nil:
		stats.Errors++
		log.Warningf("skipping %s: %v", o.path, o.err)
		return nil
	case o.unchanged:
		stats.Unchanged++
		return nil
	}
	stats.Files++
	if o.cacheHit {
		stats.CacheHits++
	}
	if o.facts.HadErrors {
		stats.SyntaxErrors++
	}
	stats.Declarations += o.facts.DeclarationCount()
	log.Debug("indexed", "file", o.path, "declarations", o.facts.DeclarationCount())
	return ix.sink.PutFile(o.path, o.facts, ix.env.Mode())
}

func (ix *Indexer) process(path string) outcome {
	data, err := os.ReadFile(ix.discovery.Abs(path))
	if err != nil {
		return outcome{path: path, err: err}
	}
	hash := facts.ContentHash(data)

	if lookup, ok := ix.sink.(HashLookup); ok {
		stored, mode, err := lookup.FileHash(path)
		if err == nil && stored == hash && mode == ix.env.Mode() {
			return outcome{path: path, unchanged: true}
		}
	}

	if ix.cache != nil {
		if f, ok := ix.cache.Get(hash); ok {
			return outcome{path: path, facts: f, cacheHit: true}
		}
	}

	f, err := facts.FromText(data, ix.env)
	if err != nil {
		if errors.Is(err, parser.ErrUntokenizable) {
			err = fmt.Errorf("not a source file: %w", err)
		}
		return outcome{path: path, err: err}
	}
	if ix.cache != nil {
		ix.cache.Set(hash, f)
	}
	return outcome{path: path, facts: f}
}

// Remove drops deleted files from the sink.
func (ix *Indexer) Remove(paths []string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, path := range paths {
		if err := ix.sink.RemoveFile(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		log.Debug("removed", "file", path)
	}
	return nil
}
