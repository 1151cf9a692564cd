package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/starkandwayne/goutils/ansi"

	"github.com/siftlang/sift/internal/baseline"
	"github.com/siftlang/sift/internal/config"
	"github.com/siftlang/sift/pkg/sift"
	"github.com/siftlang/sift/pkg/sift/sink"
)

// watchState holds the analysis settings derived from the current
// config: sift.Options and the baseline filter. Both can change
// mid-run when --config names a file and that file is edited, so every
// read and write goes through mu.
type watchState struct {
	mu    sync.RWMutex
	sopts sift.Options
	bl    *baseline.Baseline
}

func (ws *watchState) set(sopts sift.Options, bl *baseline.Baseline) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.sopts = sopts
	ws.bl = bl
}

func (ws *watchState) get() (sift.Options, *baseline.Baseline) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.sopts, ws.bl
}

// runWatch implements `sift watch -f <ast.json>`: a ticker-driven poll
// loop comparing os.Stat mod-times, the same shape as
// internal/config/watcher.go's FileWatcher.watchLoop, but re-running
// the analyzer instead of reloading a config file on every change
// (spec.md 6.8). When --config names a sift config file, its scope
// bounds and baseline file are honored for every re-analysis, and the
// config file itself is watched via internal/config's FileWatcher so
// edits to it take effect without restarting the watch.
func runWatch(opts watchOpts) error {
	if opts.File == "" {
		usage()
		return nil
	}

	mgr := config.NewManager()
	if opts.ConfigPath != "" {
		if err := mgr.Load(opts.ConfigPath); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	if opts.Profile != "" {
		if err := config.NewProfileManager(mgr).ApplyProfile(opts.Profile); err != nil {
			return fmt.Errorf("applying profile %s: %w", opts.Profile, err)
		}
	}

	state := &watchState{}
	applyConfig := func(cfg *config.Config) error {
		bl := baseline.Empty()
		if cfg.Sources.BaselineFile != "" {
			var err error
			bl, err = baseline.Load(cfg.Sources.BaselineFile)
			if err != nil {
				return fmt.Errorf("loading baseline: %w", err)
			}
		}
		state.set(sift.Options{MaxLoopIterations: cfg.Scope.MaxLoopIterations}, bl)
		return nil
	}
	if err := applyConfig(mgr.Get()); err != nil {
		return err
	}

	if opts.ConfigPath != "" {
		mgr.OnChange(func(cfg *config.Config) {
			if err := applyConfig(cfg); err != nil {
				fmt.Fprintln(os.Stderr, ansi.Sprintf("@R{config reload: %s}", err.Error()))
				return
			}
			fmt.Fprintln(os.Stderr, ansi.Sprintf("@G{--- config %s reloaded ---}", opts.ConfigPath))
		})
		configWatcher := config.NewFileWatcher(mgr, nil)
		if err := configWatcher.Watch(opts.ConfigPath); err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
		defer configWatcher.Stop()
	}

	s := sink.Sink(sink.Stdout{W: os.Stdout})

	stat, err := os.Stat(opts.File)
	if err != nil {
		return fmt.Errorf("watching %s: %w", opts.File, err)
	}
	lastModTime := stat.ModTime()

	if err := watchOnce(opts.File, state, s); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			return nil
		case <-ticker.C:
			stat, err := os.Stat(opts.File)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintf(os.Stderr, "watch: %s no longer exists\n", opts.File)
					continue
				}
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			if !stat.ModTime().After(lastModTime) {
				continue
			}
			lastModTime = stat.ModTime()
			if err := watchOnce(opts.File, state, s); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
}

// watchOnce re-reads, re-parses, and re-analyzes the watched file under
// state's current settings, filters the result through its baseline,
// and writes what survives to s.
func watchOnce(path string, state *watchState, s sink.Sink) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	root, err := loadAST(path, data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	sopts, bl := state.get()
	result, err := sift.Analyze(root, sopts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	filtered := bl.Filter(result.Diagnostics)
	fmt.Fprintln(os.Stderr, ansi.Sprintf("@G{--- %s re-analyzed, %d diagnostic(s) ---}", path, len(filtered)))
	return s.Write(filtered)
}
