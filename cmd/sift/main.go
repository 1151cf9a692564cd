// Command sift is the analyzer's CLI entry point, ported from
// cmd/graft/main.go: github.com/voxelbrain/goptions for flag parsing
// (one xOpts struct per subcommand, exactly as the teacher defines
// mergeOpts/jsonOpts), github.com/mattn/go-isatty for TTY detection,
// github.com/starkandwayne/goutils/ansi for colorized output.
package main

import (
	"fmt"
	"os"

	"github.com/starkandwayne/goutils/ansi"
	"github.com/voxelbrain/goptions"

	"github.com/siftlang/sift/pkg/sift"
	"github.com/siftlang/sift/pkg/sift/render"
)

// Version holds the current version of sift, overridable at link time
// the same way cmd/graft/main.go's Version var is.
var Version = "(development)"

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		usage()
	}
}

var exit = func(code int) {
	os.Exit(code)
}

var usage = func() {
	goptions.PrintHelp()
	exit(1)
}

type analyzeOpts struct {
	Baseline        string             `goptions:"--baseline, description='Path to a baseline file of accepted fingerprints to suppress'"`
	WriteBaseline   string             `goptions:"--write-baseline, description='Write every diagnostic produced by this run to a new baseline file at this path'"`
	ConfigPath      string             `goptions:"--config, description='Path to a sift config file'"`
	Profile         string             `goptions:"--profile, description='Named config profile to apply: default, strict, lenient, or ci'"`
	Sink            string             `goptions:"--sink, description='Where to send diagnostics: stdout (default), jsonfile, or nats'"`
	JSONFileOut     string             `goptions:"--json-file, description='Output path for --sink jsonfile'"`
	NATSURL         string             `goptions:"--nats-url, description='NATS server URL for --sink nats'"`
	NATSSubject     string             `goptions:"--nats-subject, description='NATS subject for --sink nats'"`
	Help            bool               `goptions:"--help, -h"`
	Files           goptions.Remainder `goptions:"description='AST JSON files to analyze; use - for STDIN'"`
}

type fixturesOpts struct {
	Strict bool               `goptions:"--strict, description='Refuse to convert non-string node keys to strings'"`
	YAML   bool               `goptions:"--yaml, description='Emit normalized YAML instead of JSON'"`
	Help   bool               `goptions:"--help, -h"`
	Files  goptions.Remainder `goptions:"description='convert <fixture.yml>... - converts YAML AST fixtures to canonical JSON'"`
}

type diffOpts struct {
	Files goptions.Remainder `goptions:"description='Two JSON diagnostic snapshots to compare'"`
}

type watchOpts struct {
	File       string `goptions:"-f, --file, description='AST JSON file to watch and re-analyze on change'"`
	ConfigPath string `goptions:"--config, description='Path to a sift config file'"`
	Profile    string `goptions:"--profile, description='Named config profile to apply: default, strict, lenient, or ci'"`
}

type inspectOpts struct {
	Files goptions.Remainder `goptions:"description='<ast.json> <dotted.path> - resolve a dotted path into a loaded AST document'"`
}

type profilesOpts struct {
	List    bool     `goptions:"--list, description='List the available named profiles'"`
	Show    string   `goptions:"--show, description='Print a named profile as YAML'"`
	Compare []string `goptions:"--compare, description='Compare two profiles by name (repeat to pass both)'"`
	Help    bool     `goptions:"--help, -h"`
}

func main() {
	var options struct {
		Color    string `goptions:"--color, description='Control color output (on/off/auto, default: auto)'"`
		Version  bool   `goptions:"-v, --version, description='Display version information'"`
		Action   goptions.Verbs
		Analyze  analyzeOpts  `goptions:"analyze"`
		Fixtures fixturesOpts `goptions:"fixtures"`
		Diff     diffOpts     `goptions:"diff"`
		Watch    watchOpts    `goptions:"watch"`
		Inspect  inspectOpts  `goptions:"inspect"`
		Profiles profilesOpts `goptions:"profiles"`
	}
	getopts(&options)

	if options.Version {
		fmt.Printf("sift - Version %s\n", Version)
		exit(0)
		return
	}

	colorOut := render.ColorEnabled(options.Color, os.Stdout)
	ansi.Color(colorOut)

	var err error
	switch options.Action {
	case "analyze":
		err = runAnalyze(options.Analyze)
	case "fixtures":
		err = runFixtures(options.Fixtures)
	case "diff":
		err = runDiff(options.Diff)
	case "watch":
		err = runWatch(options.Watch)
	case "inspect":
		err = runInspect(options.Inspect)
	case "profiles":
		err = runProfiles(options.Profiles)
	default:
		usage()
		return
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, ansi.Sprintf("@R{%s}", err.Error()))
		if sift.IsSiftError(err) {
			// an analyzer fault (malformed AST, invariant violation,
			// bad config) is distinct from a plain CLI/IO error.
			exit(3)
			return
		}
		exit(2)
		return
	}
	exit(0)
}
