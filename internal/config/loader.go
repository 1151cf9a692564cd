package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Loader handles configuration loading from various sources.
type Loader struct {
	envPrefix string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{envPrefix: "SIFT_"}
}

// LoadFromEnvironment loads configuration from environment variables.
func (l *Loader) LoadFromEnvironment(cfg *Config) error {
	return l.applyEnvOverrides(reflect.ValueOf(cfg).Elem(), "")
}

func applyEnvOverrides(cfg *Config) error {
	return (&Loader{envPrefix: "SIFT_"}).LoadFromEnvironment(cfg)
}

// applyEnvOverrides recursively applies environment variable overrides.
func (l *Loader) applyEnvOverrides(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		envTag := fieldType.Tag.Get("env")

		var envName string
		if envTag != "" {
			envName = envTag
		} else {
			fieldName := strings.ToUpper(fieldType.Name)
			if prefix != "" {
				envName = l.envPrefix + prefix + "_" + fieldName
			} else {
				envName = l.envPrefix + fieldName
			}
		}

		switch field.Kind() {
		case reflect.Struct:
			newPrefix := prefix
			if newPrefix != "" {
				newPrefix += "_"
			}
			newPrefix += strings.ToUpper(fieldType.Name)
			if err := l.applyEnvOverrides(field, newPrefix); err != nil {
				return err
			}

		case reflect.String:
			if value := os.Getenv(envName); value != "" {
				field.SetString(value)
			}

		case reflect.Bool:
			if value := os.Getenv(envName); value != "" {
				boolVal, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("parsing bool from %s: %w", envName, err)
				}
				field.SetBool(boolVal)
			}

		case reflect.Int, reflect.Int64:
			if value := os.Getenv(envName); value != "" {
				intVal, err := strconv.ParseInt(value, 10, 64)
				if err != nil {
					return fmt.Errorf("parsing int from %s: %w", envName, err)
				}
				field.SetInt(intVal)
			}

		case reflect.Float64:
			if value := os.Getenv(envName); value != "" {
				floatVal, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return fmt.Errorf("parsing float from %s: %w", envName, err)
				}
				field.SetFloat(floatVal)
			}

		case reflect.Slice:
			// Enabled/disabled diagnostic kinds aren't overridden
			// piecemeal from the environment; they come from the config
			// file or profile. Each element of a slice of structs (the
			// stub sources) gets the same overrides as a nested struct.
			if field.Type().Elem().Kind() == reflect.Struct {
				newPrefix := prefix
				if newPrefix != "" {
					newPrefix += "_"
				}
				newPrefix += strings.ToUpper(fieldType.Name)
				for j := 0; j < field.Len(); j++ {
					if err := l.applyEnvOverrides(field.Index(j), newPrefix); err != nil {
						return err
					}
				}
			}

		case reflect.Map:
			if fieldType.Name == "Features" {
				l.loadFeaturesFromEnv(field, envName)
			}

		default:
			if field.Type() == reflect.TypeOf(time.Duration(0)) {
				if value := os.Getenv(envName); value != "" {
					duration, err := time.ParseDuration(value)
					if err != nil {
						return fmt.Errorf("parsing duration from %s: %w", envName, err)
					}
					field.Set(reflect.ValueOf(duration))
				}
			}
		}
	}

	return nil
}

// loadFeaturesFromEnv loads feature flags from environment variables like
// SIFT_FEATURES_FEATURENAME=true.
func (l *Loader) loadFeaturesFromEnv(field reflect.Value, prefix string) {
	environ := os.Environ()
	featurePrefix := prefix + "_"

	if field.IsNil() {
		field.Set(reflect.MakeMap(field.Type()))
	}

	for _, env := range environ {
		if strings.HasPrefix(env, featurePrefix) {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				featureName := strings.ToLower(strings.TrimPrefix(parts[0], featurePrefix))
				if value, err := strconv.ParseBool(parts[1]); err == nil {
					field.SetMapIndex(reflect.ValueOf(featureName), reflect.ValueOf(value))
				}
			}
		}
	}
}

// MergeConfigs merges multiple configurations, with later configs taking
// precedence over earlier ones.
func MergeConfigs(base *Config, overlays ...*Config) *Config {
	result := *base

	for _, overlay := range overlays {
		if overlay == nil {
			continue
		}

		mergeDiagnostics(&result.Diagnostics, &overlay.Diagnostics)
		mergeScope(&result.Scope, &overlay.Scope)
		mergeSources(&result.Sources, &overlay.Sources)
		mergePerformance(&result.Performance, &overlay.Performance)
		mergeLogging(&result.Logging, &overlay.Logging)

		if overlay.Features != nil {
			if result.Features == nil {
				result.Features = make(map[string]bool)
			}
			for k, v := range overlay.Features {
				result.Features[k] = v
			}
		}

		if overlay.Version != "" {
			result.Version = overlay.Version
		}
		if overlay.Profile != "" {
			result.Profile = overlay.Profile
		}
	}

	return &result
}

func mergeDiagnostics(base, overlay *DiagnosticsConfig) {
	if overlay.MinSeverity != "" {
		base.MinSeverity = overlay.MinSeverity
	}
	if len(overlay.EnabledKinds) > 0 {
		base.EnabledKinds = overlay.EnabledKinds
	}
	if len(overlay.DisabledKinds) > 0 {
		base.DisabledKinds = overlay.DisabledKinds
	}
	if overlay.OutputFormat != "" {
		base.OutputFormat = overlay.OutputFormat
	}
	base.ColorOutput = overlay.ColorOutput
}

func mergeScope(base, overlay *ScopeConfig) {
	if overlay.MaxLoopIterations > 0 {
		base.MaxLoopIterations = overlay.MaxLoopIterations
	}
	if overlay.MaxCallDepth > 0 {
		base.MaxCallDepth = overlay.MaxCallDepth
	}
	base.StrictMode = overlay.StrictMode
}

func mergeSources(base, overlay *SourcesConfig) {
	if len(overlay.Stubs) > 0 {
		base.Stubs = overlay.Stubs
	}
	if overlay.BaselineFile != "" {
		base.BaselineFile = overlay.BaselineFile
	}
}

func mergeParser(base, overlay *ParserConfig) {
	base.StrictYAML = overlay.StrictYAML
	if overlay.MaxDocumentSize > 0 {
		base.MaxDocumentSize = overlay.MaxDocumentSize
	}
}

func mergePerformance(base, overlay *PerformanceConfig) {
	base.EnableCaching = overlay.EnableCaching
	base.EnableParallel = overlay.EnableParallel

	mergeCache(&base.Cache, &overlay.Cache)
	mergeConcurrency(&base.Concurrency, &overlay.Concurrency)
	mergeMemory(&base.Memory, &overlay.Memory)
	mergeParser(&base.Parser, &overlay.Parser)
}

func mergeCache(base, overlay *CacheConfig) {
	if overlay.PathCacheSize > 0 {
		base.PathCacheSize = overlay.PathCacheSize
	}
	if overlay.OperatorCacheSize > 0 {
		base.OperatorCacheSize = overlay.OperatorCacheSize
	}
	if overlay.FileCacheSize > 0 {
		base.FileCacheSize = overlay.FileCacheSize
	}
	if overlay.TTL > 0 {
		base.TTL = overlay.TTL
	}
	base.EnableWarmup = overlay.EnableWarmup
}

func mergeConcurrency(base, overlay *ConcurrencyConfig) {
	if overlay.MaxWorkers >= 0 {
		base.MaxWorkers = overlay.MaxWorkers
	}
	if overlay.QueueSize > 0 {
		base.QueueSize = overlay.QueueSize
	}
	if overlay.BatchSize > 0 {
		base.BatchSize = overlay.BatchSize
	}
	base.EnableAdaptive = overlay.EnableAdaptive
}

func mergeMemory(base, overlay *MemoryConfig) {
	if overlay.MaxHeapObjects >= 0 {
		base.MaxHeapObjects = overlay.MaxHeapObjects
	}
	if overlay.GCPercent >= 0 {
		base.GCPercent = overlay.GCPercent
	}
	base.EnablePooling = overlay.EnablePooling
}

func mergeLogging(base, overlay *LoggingConfig) {
	if overlay.Level != "" {
		base.Level = overlay.Level
	}
	if overlay.Format != "" {
		base.Format = overlay.Format
	}
	if overlay.Output != "" {
		base.Output = overlay.Output
	}
	base.EnableColor = overlay.EnableColor
}
