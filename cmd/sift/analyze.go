package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/siftlang/sift/internal/baseline"
	"github.com/siftlang/sift/pkg/sift"
	"github.com/siftlang/sift/pkg/sift/ast"
	"github.com/siftlang/sift/pkg/sift/sink"
)

func runAnalyze(opts analyzeOpts) error {
	if opts.Help || len(opts.Files) == 0 {
		usage()
		return nil
	}

	cfg, err := resolveConfig(opts.ConfigPath, opts.Profile)
	if err != nil {
		return err
	}

	baselinePath := opts.Baseline
	if baselinePath == "" {
		baselinePath = cfg.Sources.BaselineFile
	}
	bl := baseline.Empty()
	if baselinePath != "" {
		var err error
		bl, err = baseline.Load(baselinePath)
		if err != nil {
			return err
		}
	}

	sopts := sift.Options{MaxLoopIterations: cfg.Scope.MaxLoopIterations}

	var all []sift.Record
	var failures sift.MultiError
	for _, file := range opts.Files {
		data, err := readInput(file)
		if err != nil {
			failures.Append(fmt.Errorf("%s: %w", file, err))
			continue
		}

		root, err := loadAST(file, data)
		if err != nil {
			failures.Append(fmt.Errorf("%s: %w", file, err))
			continue
		}

		result, err := sift.Analyze(root, sopts)
		if err != nil {
			failures.Append(fmt.Errorf("%s: %w", file, err))
			continue
		}
		all = append(all, result.Diagnostics...)
	}
	if err := failures.OrNil(); err != nil {
		return err
	}

	if opts.WriteBaseline != "" {
		out := baseline.Empty()
		for _, r := range all {
			out.Accept(r.Fingerprint)
		}
		if err := baseline.Render(opts.WriteBaseline, out); err != nil {
			return err
		}
	}

	filtered := bl.Filter(all)

	s, err := resolveSink(opts)
	if err != nil {
		return err
	}
	if err := s.Write(filtered); err != nil {
		return err
	}

	hasError := false
	for _, r := range filtered {
		if r.Severity == sift.SeverityError {
			hasError = true
		}
	}
	if hasError {
		exit(1)
	}
	return nil
}

func resolveSink(opts analyzeOpts) (sink.Sink, error) {
	switch opts.Sink {
	case "", "stdout":
		return sink.Stdout{W: os.Stdout}, nil
	case "jsonfile":
		if opts.JSONFileOut == "" {
			return nil, fmt.Errorf("--sink jsonfile requires --json-file")
		}
		return sink.JSONFile{Path: opts.JSONFileOut}, nil
	case "nats":
		if opts.NATSURL == "" {
			return nil, fmt.Errorf("--sink nats requires --nats-url")
		}
		return sink.DialNATS(sink.NATSConfig{URL: opts.NATSURL, Subject: opts.NATSSubject, Retries: 3})
	default:
		return nil, fmt.Errorf("unknown --sink %q", opts.Sink)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// loadAST picks the AST decoder by the input's file extension: ".yml"
// or ".yaml" goes through ast.LoadYAML, everything else (including
// stdin, "-") is treated as JSON.
func loadAST(path string, data []byte) (*sift.Node, error) {
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return ast.LoadYAML(data)
	}
	return ast.LoadJSON(data)
}
