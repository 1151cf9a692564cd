package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/siftlang/sift/internal/config"
)

// resolveConfig loads the effective configuration for a command: the
// default config, optionally overlaid with a config file, optionally
// overlaid further with a named profile (default, strict, lenient, ci).
func resolveConfig(configPath, profile string) (*config.Config, error) {
	mgr := config.NewManager()

	if configPath != "" {
		if err := mgr.Load(configPath); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if profile != "" {
		if err := config.NewProfileManager(mgr).ApplyProfile(profile); err != nil {
			return nil, fmt.Errorf("applying profile %s: %w", profile, err)
		}
	}

	return mgr.Get(), nil
}

// runProfiles implements `sift profiles`: list the named config profiles
// (default, strict, lenient, ci), print one as YAML, or compare two.
func runProfiles(opts profilesOpts) error {
	pm := config.NewProfileManager(config.NewManager())

	switch {
	case opts.Show != "":
		cfg, err := pm.LoadProfile(opts.Show)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil

	case len(opts.Compare) == 2:
		diff, err := pm.CompareProfiles(opts.Compare[0], opts.Compare[1])
		if err != nil {
			return err
		}
		if len(diff) == 0 {
			fmt.Printf("%s and %s agree on every compared setting\n", opts.Compare[0], opts.Compare[1])
			return nil
		}
		for field, values := range diff {
			fmt.Printf("%s: %v\n", field, values)
		}
		return nil

	case len(opts.Compare) != 0:
		return fmt.Errorf("--compare requires exactly two profile names, got %d", len(opts.Compare))

	default:
		names, err := pm.ListProfiles()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}
}
