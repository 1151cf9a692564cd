package main

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
)

// runDiff implements `sift diff <before.json> <after.json>`: compares
// two JSON diagnostic snapshots and prints a human diff, the same
// ytbx.LoadFiles + dyff.CompareInputFiles combination
// cmd/graft/main.go's own diffFiles helper uses for comparing two YAML
// trees (spec.md 6.5).
func runDiff(opts diffOpts) error {
	if len(opts.Files) != 2 {
		usage()
		return nil
	}

	from, to, err := ytbx.LoadFiles(opts.Files[0], opts.Files[1])
	if err != nil {
		return err
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return err
	}

	reportWriter := &dyff.HumanReport{
		Report:       report,
		NoTableStyle: false,
		OmitHeader:   true,
	}

	var buf bytes.Buffer
	out := bufio.NewWriter(&buf)
	if err := reportWriter.WriteReport(out); err != nil {
		return err
	}
	out.Flush()

	fmt.Print(buf.String())
	if len(report.Diffs) > 0 {
		exit(1)
	}
	return nil
}
