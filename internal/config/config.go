// Package config provides a unified configuration system for sift.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete sift configuration.
type Config struct {
	// Diagnostics configuration
	Diagnostics DiagnosticsConfig `yaml:"diagnostics" json:"diagnostics"`

	// Scope configuration (loop/call bounds, strictness)
	Scope ScopeConfig `yaml:"scope" json:"scope"`

	// Sources configuration (stub sources, baseline suppression)
	Sources SourcesConfig `yaml:"sources" json:"sources"`

	// Performance configuration
	Performance PerformanceConfig `yaml:"performance" json:"performance"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Feature flags
	Features map[string]bool `yaml:"features" json:"features"`

	// Metadata
	Version string `yaml:"version" json:"version"`
	Profile string `yaml:"profile" json:"profile"`
}

// DiagnosticsConfig controls which diagnostic kinds/severities are emitted.
type DiagnosticsConfig struct {
	MinSeverity    string   `yaml:"min_severity" json:"min_severity" default:"warning"`
	EnabledKinds   []string `yaml:"enabled_kinds" json:"enabled_kinds"`
	DisabledKinds  []string `yaml:"disabled_kinds" json:"disabled_kinds"`
	ColorOutput    bool     `yaml:"color_output" json:"color_output" default:"true"`
	OutputFormat   string   `yaml:"output_format" json:"output_format" default:"text"`
}

// ScopeConfig contains core analysis-scope settings.
type ScopeConfig struct {
	// BaselineFile (see SourcesConfig) suppresses known diagnostics; this
	// section instead bounds how far the analyzer explores.
	MaxLoopIterations int  `yaml:"max_loop_iterations" json:"max_loop_iterations" default:"64"`
	MaxCallDepth      int  `yaml:"max_call_depth" json:"max_call_depth" default:"256"`
	StrictMode        bool `yaml:"strict_mode" json:"strict_mode" default:"false"`
}

// StubSourceConfig describes one remote source of type stubs (s3,
// secretsmanager, ssm, vault).
type StubSourceConfig struct {
	Type    string `yaml:"type" json:"type"`
	Address string `yaml:"address" json:"address" env:"SIFT_STUB_ADDRESS"`
	Prefix  string `yaml:"prefix" json:"prefix"`
	Region  string `yaml:"region" json:"region" env:"AWS_REGION"`
	Token   string `yaml:"token" json:"token" env:"VAULT_TOKEN"`
	Timeout string `yaml:"timeout" json:"timeout" default:"30s"`
}

// SourcesConfig contains stub-source and baseline settings.
type SourcesConfig struct {
	Stubs        []StubSourceConfig `yaml:"stubs" json:"stubs"`
	BaselineFile string             `yaml:"baseline_file" json:"baseline_file"`
}

// ParserConfig contains parser settings.
type ParserConfig struct {
	StrictYAML      bool `yaml:"strict_yaml" json:"strict_yaml" default:"false"`
	MaxDocumentSize int  `yaml:"max_document_size" json:"max_document_size" default:"10485760"` // 10MB
}

// PerformanceConfig contains performance tuning settings.
type PerformanceConfig struct {
	EnableCaching  bool `yaml:"enable_caching" json:"enable_caching" default:"true"`
	EnableParallel bool `yaml:"enable_parallel" json:"enable_parallel" default:"true"`

	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Memory      MemoryConfig      `yaml:"memory" json:"memory"`
	Parser      ParserConfig      `yaml:"parser" json:"parser"`
}

// CacheConfig contains cache-related settings for path/mapping memoization.
type CacheConfig struct {
	PathCacheSize    int           `yaml:"path_cache_size" json:"path_cache_size" default:"10000"`
	OperatorCacheSize int          `yaml:"operator_cache_size" json:"operator_cache_size" default:"5000"`
	FileCacheSize    int           `yaml:"file_cache_size" json:"file_cache_size" default:"100"`
	TTL              time.Duration `yaml:"ttl" json:"ttl" default:"5m"`
	EnableWarmup     bool          `yaml:"enable_warmup" json:"enable_warmup" default:"false"`
}

// ConcurrencyConfig contains concurrency settings for fixture batches.
type ConcurrencyConfig struct {
	MaxWorkers     int  `yaml:"max_workers" json:"max_workers" default:"0"` // 0 = auto
	QueueSize      int  `yaml:"queue_size" json:"queue_size" default:"1000"`
	BatchSize      int  `yaml:"batch_size" json:"batch_size" default:"10"`
	EnableAdaptive bool `yaml:"enable_adaptive" json:"enable_adaptive" default:"true"`
}

// MemoryConfig contains heap/object-pool management settings.
type MemoryConfig struct {
	MaxHeapObjects int64 `yaml:"max_heap_objects" json:"max_heap_objects" default:"0"` // 0 = unlimited
	GCPercent      int   `yaml:"gc_percent" json:"gc_percent" default:"100"`
	EnablePooling  bool  `yaml:"enable_pooling" json:"enable_pooling" default:"true"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level" default:"info" env:"SIFT_LOG_LEVEL"`
	Format      string `yaml:"format" json:"format" default:"text"`
	Output      string `yaml:"output" json:"output" default:"stderr"`
	EnableColor bool   `yaml:"enable_color" json:"enable_color" default:"true"`
}

// Manager manages configuration loading, validation, and hot-reloading.
type Manager struct {
	config      *Config
	configPath  string
	mu          sync.RWMutex
	changeHooks []func(*Config)
	stopWatcher chan struct{}
	watcherDone chan struct{}
}

// NewManager creates a new configuration manager.
func NewManager() *Manager {
	return &Manager{
		config:      DefaultConfig(),
		changeHooks: make([]func(*Config), 0),
		stopWatcher: make(chan struct{}),
		watcherDone: make(chan struct{}),
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Diagnostics: DiagnosticsConfig{
			MinSeverity:  "warning",
			ColorOutput:  true,
			OutputFormat: "text",
		},
		Scope: ScopeConfig{
			MaxLoopIterations: 64,
			MaxCallDepth:      256,
			StrictMode:        false,
		},
		Sources: SourcesConfig{},
		Performance: PerformanceConfig{
			EnableCaching:  true,
			EnableParallel: true,
			Cache: CacheConfig{
				PathCacheSize:     10000,
				OperatorCacheSize: 5000,
				FileCacheSize:     100,
				TTL:               5 * time.Minute,
				EnableWarmup:      false,
			},
			Concurrency: ConcurrencyConfig{
				MaxWorkers:     0,
				QueueSize:      1000,
				BatchSize:      10,
				EnableAdaptive: true,
			},
			Memory: MemoryConfig{
				MaxHeapObjects: 0,
				GCPercent:      100,
				EnablePooling:  true,
			},
			Parser: ParserConfig{
				StrictYAML:      false,
				MaxDocumentSize: 10 * 1024 * 1024,
			},
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "text",
			Output:      "stderr",
			EnableColor: true,
		},
		Features: make(map[string]bool),
		Version:  "1.0",
		Profile:  "default",
	}
}

// Load loads configuration from a file.
func (m *Manager) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expandedPath, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(config); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := Validate(config); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	m.config = config
	m.configPath = expandedPath
	m.notifyChangeHooks(config)
	return nil
}

// LoadProfile loads a named configuration profile.
func (m *Manager) LoadProfile(profileName string) error {
	pm := NewProfileManager(m)
	cfg, err := pm.LoadProfile(profileName)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
	m.notifyChangeHooks(cfg)
	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Update applies mutate to a copy of the current configuration, validates
// the result, and swaps it in only if validation passes.
func (m *Manager) Update(mutate func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	updated := *m.config
	mutate(&updated)

	if err := Validate(&updated); err != nil {
		return err
	}

	m.config = &updated
	m.notifyChangeHooks(&updated)
	return nil
}

// OnChange registers a hook invoked whenever the configuration is reloaded.
func (m *Manager) OnChange(hook func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changeHooks = append(m.changeHooks, hook)
}

func (m *Manager) notifyChangeHooks(cfg *Config) {
	for _, hook := range m.changeHooks {
		hook(cfg)
	}
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return abs, nil
}
