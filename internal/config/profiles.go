package config

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var profilesFS embed.FS

// ProfileManager manages named configuration profiles: default, strict,
// lenient, and ci, plus whatever custom profiles the caller derives from
// them with CreateCustomProfile.
type ProfileManager struct {
	manager *Manager
}

// NewProfileManager creates a new profile manager
func NewProfileManager(manager *Manager) *ProfileManager {
	return &ProfileManager{
		manager: manager,
	}
}

// ListProfiles returns all available profile names
func (pm *ProfileManager) ListProfiles() ([]string, error) {
	entries, err := profilesFS.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("reading profiles directory: %w", err)
	}

	var profiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			profileName := strings.TrimSuffix(entry.Name(), ".yaml")
			profiles = append(profiles, profileName)
		}
	}

	return profiles, nil
}

// LoadProfile loads a profile by name, layering its overrides on top of
// DefaultConfig so a profile only needs to specify what it changes.
func (pm *ProfileManager) LoadProfile(profileName string) (*Config, error) {
	profilePath := filepath.Join("profiles", profileName+".yaml")

	data, err := profilesFS.ReadFile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", profileName, err)
	}

	config := DefaultConfig()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", profileName, err)
	}

	config.Profile = profileName

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("validating profile %s: %w", profileName, err)
	}

	return config, nil
}

// ApplyProfile loads a named profile and merges it onto the manager's
// current configuration.
func (pm *ProfileManager) ApplyProfile(profileName string) error {
	profile, err := pm.LoadProfile(profileName)
	if err != nil {
		return err
	}

	current := pm.manager.Get()
	merged := MergeConfigs(current, profile)

	return pm.manager.Update(func(cfg *Config) {
		*cfg = *merged
	})
}

// CompareProfiles compares two profiles and returns the settings that differ.
func (pm *ProfileManager) CompareProfiles(profile1, profile2 string) (map[string]interface{}, error) {
	cfg1, err := pm.LoadProfile(profile1)
	if err != nil {
		return nil, fmt.Errorf("loading profile %s: %w", profile1, err)
	}

	cfg2, err := pm.LoadProfile(profile2)
	if err != nil {
		return nil, fmt.Errorf("loading profile %s: %w", profile2, err)
	}

	differences := make(map[string]interface{})

	if cfg1.Scope.StrictMode != cfg2.Scope.StrictMode {
		differences["scope.strict_mode"] = map[string]bool{
			profile1: cfg1.Scope.StrictMode,
			profile2: cfg2.Scope.StrictMode,
		}
	}

	if cfg1.Scope.MaxLoopIterations != cfg2.Scope.MaxLoopIterations {
		differences["scope.max_loop_iterations"] = map[string]int{
			profile1: cfg1.Scope.MaxLoopIterations,
			profile2: cfg2.Scope.MaxLoopIterations,
		}
	}

	if cfg1.Diagnostics.MinSeverity != cfg2.Diagnostics.MinSeverity {
		differences["diagnostics.min_severity"] = map[string]string{
			profile1: cfg1.Diagnostics.MinSeverity,
			profile2: cfg2.Diagnostics.MinSeverity,
		}
	}

	if cfg1.Diagnostics.OutputFormat != cfg2.Diagnostics.OutputFormat {
		differences["diagnostics.output_format"] = map[string]string{
			profile1: cfg1.Diagnostics.OutputFormat,
			profile2: cfg2.Diagnostics.OutputFormat,
		}
	}

	if cfg1.Performance.Concurrency.MaxWorkers != cfg2.Performance.Concurrency.MaxWorkers {
		differences["performance.concurrency.max_workers"] = map[string]int{
			profile1: cfg1.Performance.Concurrency.MaxWorkers,
			profile2: cfg2.Performance.Concurrency.MaxWorkers,
		}
	}

	if cfg1.Performance.Memory.MaxHeapObjects != cfg2.Performance.Memory.MaxHeapObjects {
		differences["performance.memory.max_heap_objects"] = map[string]int64{
			profile1: cfg1.Performance.Memory.MaxHeapObjects,
			profile2: cfg2.Performance.Memory.MaxHeapObjects,
		}
	}

	return differences, nil
}

// RecommendProfile recommends a profile based on how a run is expected
// to be used.
func (pm *ProfileManager) RecommendProfile(characteristics ProfileCharacteristics) (string, error) {
	profiles, err := pm.ListProfiles()
	if err != nil {
		return "", err
	}

	bestProfile := "default"
	bestScore := 0

	for _, profile := range profiles {
		score := pm.scoreProfile(profile, characteristics)
		if score > bestScore {
			bestScore = score
			bestProfile = profile
		}
	}

	return bestProfile, nil
}

// ProfileCharacteristics describes the run a profile is being picked for.
type ProfileCharacteristics struct {
	Strictness    StrictnessLevel `yaml:"strictness"`
	CIPipeline    bool            `yaml:"ci_pipeline"`
	DocumentCount DocumentCount   `yaml:"document_count"`
}

// StrictnessLevel is how aggressively the analyzer should treat
// uncertain findings.
type StrictnessLevel string

const (
	StrictnessLow    StrictnessLevel = "low"
	StrictnessMedium StrictnessLevel = "medium"
	StrictnessHigh   StrictnessLevel = "high"
)

// DocumentCount is how many source files a single invocation analyzes.
type DocumentCount string

const (
	DocumentCountFew  DocumentCount = "few"  // < 10
	DocumentCountMany DocumentCount = "many" // 10 - 100
	DocumentCountMass DocumentCount = "mass" // > 100
)

// scoreProfile scores how well a profile matches the characteristics.
func (pm *ProfileManager) scoreProfile(profileName string, characteristics ProfileCharacteristics) int {
	score := 0

	switch profileName {
	case "strict":
		if characteristics.Strictness == StrictnessHigh {
			score += 3
		}
		if !characteristics.CIPipeline {
			score += 1
		}

	case "lenient":
		if characteristics.Strictness == StrictnessLow {
			score += 3
		}

	case "ci":
		if characteristics.CIPipeline {
			score += 3
		}
		if characteristics.DocumentCount == DocumentCountMass {
			score += 2
		}

	case "default":
		score = 1
	}

	return score
}

// GetCurrentProfile returns the name of the currently active profile
func (pm *ProfileManager) GetCurrentProfile() string {
	return pm.manager.Get().Profile
}

// CreateCustomProfile creates a custom profile based on current configuration
func (pm *ProfileManager) CreateCustomProfile(name string) (*Config, error) {
	current := pm.manager.Get()

	custom := *current
	custom.Profile = name
	custom.Version = "custom"

	return &custom, nil
}

// GetDefaultProfiles returns the built-in profile set in Go form, the same
// shape the embedded profiles/*.yaml files unmarshal into. Used by tests
// and by callers that want the presets without going through the
// embedded filesystem.
func GetDefaultProfiles() map[string]*Config {
	base := DefaultConfig()

	strict := DefaultConfig()
	strict.Profile = "strict"
	strict.Scope.StrictMode = true
	strict.Scope.MaxLoopIterations = 32
	strict.Diagnostics.MinSeverity = "info"

	lenient := DefaultConfig()
	lenient.Profile = "lenient"
	lenient.Scope.StrictMode = false
	lenient.Scope.MaxLoopIterations = 128
	lenient.Diagnostics.MinSeverity = "error"
	lenient.Logging.Level = "warn"

	ci := DefaultConfig()
	ci.Profile = "ci"
	ci.Diagnostics.MinSeverity = "warning"
	ci.Diagnostics.OutputFormat = "json"
	ci.Diagnostics.ColorOutput = false
	ci.Logging.Format = "json"
	ci.Logging.EnableColor = false
	ci.Performance.Concurrency.MaxWorkers = 0
	ci.Performance.Concurrency.EnableAdaptive = true
	ci.Performance.Cache.TTL = 1 * time.Minute

	return map[string]*Config{
		"default": base,
		"strict":  strict,
		"lenient": lenient,
		"ci":      ci,
	}
}
