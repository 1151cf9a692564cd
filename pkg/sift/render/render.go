// Package render turns sift.Record values into one block per record plus
// a one-line count summary (spec.md 6), colorized
// via starkandwayne/goutils/ansi the same way cmd/graft/main.go decides
// whether to colorize its own merge/diff output.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"

	"github.com/siftlang/sift/pkg/sift"
)

// severityTag returns the ansi-colorized severity label for a record,
// @R{...} for error, @Y{...} for warning, @c{...} for info - the same
// bracket-tag convention cmd/graft/main.go uses for @R{...}/@m{...}.
func severityTag(sev sift.Severity) string {
	switch sev {
	case sift.SeverityError:
		return ansi.Sprintf("@R{error}")
	case sift.SeverityWarning:
		return ansi.Sprintf("@Y{warning}")
	default:
		return ansi.Sprintf("@c{info}")
	}
}

// pathString renders a Path for display, substituting the literal
// string "Always" for the empty path - an unconditioned diagnostic
// holds under every world, and "Always" says that plainly where an
// empty string would read as a rendering bug.
func pathString(p sift.Path) string {
	s := p.String()
	if s == "" {
		return "Always"
	}
	return s
}

// One renders a single diagnostic record as a human-readable block:
//
//	<loc>: warning: <message> [KIND]
//	  under: <path>
func One(w io.Writer, rec sift.Record) {
	fmt.Fprintf(w, "%s: %s: %s [%s]\n", rec.Loc.String(), severityTag(rec.Severity), rec.Message, rec.Kind)
	fmt.Fprintf(w, "  under: %s\n", pathString(rec.Path))
}

// Summary renders the trailing one-line count summary, e.g.
// "3 diagnostic(s): 1 error(s), 2 warning(s)".
func Summary(w io.Writer, recs []sift.Record) {
	var errs, warns, infos int
	for _, r := range recs {
		switch r.Severity {
		case sift.SeverityError:
			errs++
		case sift.SeverityWarning:
			warns++
		default:
			infos++
		}
	}
	parts := []string{}
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errs))
	}
	if warns > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warns))
	}
	if infos > 0 {
		parts = append(parts, fmt.Sprintf("%d info", infos))
	}
	if len(parts) == 0 {
		fmt.Fprintln(w, "0 diagnostics")
		return
	}
	fmt.Fprintf(w, "%d diagnostic(s): %s\n", len(recs), strings.Join(parts, ", "))
}

// All renders one block per record and the trailing
// summary - the full report `cmd/sift analyze` prints to stdout.
func All(w io.Writer, recs []sift.Record) {
	for _, r := range recs {
		One(w, r)
	}
	Summary(w, recs)
}

// ColorEnabled mirrors cmd/graft/main.go's own --color on/off/auto
// handling: "auto" checks whether f is a terminal via go-isatty.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}
