package config

import (
	"os"
	"testing"
	"time"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("expected loader to be created")
	}
	if loader.envPrefix != "SIFT_" {
		t.Errorf("expected env prefix 'SIFT_', got '%s'", loader.envPrefix)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	os.Setenv("SIFT_LOG_LEVEL", "debug")
	os.Setenv("SIFT_FEATURES_TEST_FEATURE", "true")
	os.Setenv("SIFT_FEATURES_ANOTHER_FEATURE", "false")

	defer func() {
		os.Unsetenv("SIFT_LOG_LEVEL")
		os.Unsetenv("SIFT_FEATURES_TEST_FEATURE")
		os.Unsetenv("SIFT_FEATURES_ANOTHER_FEATURE")
	}()

	cfg := DefaultConfig()
	loader := NewLoader()

	if err := loader.LoadFromEnvironment(cfg); err != nil {
		t.Fatalf("unexpected error loading from environment: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Logging.Level)
	}

	if !cfg.Features["test_feature"] {
		t.Error("expected test_feature to be true")
	}

	if cfg.Features["another_feature"] {
		t.Error("expected another_feature to be false")
	}
}

func TestLoadFromEnvironmentStubAddress(t *testing.T) {
	os.Setenv("SIFT_STUB_ADDRESS", "https://stubs.test.internal")
	defer os.Unsetenv("SIFT_STUB_ADDRESS")

	cfg := DefaultConfig()
	cfg.Sources.Stubs = []StubSourceConfig{{Type: "s3"}}

	if err := NewLoader().LoadFromEnvironment(cfg); err != nil {
		t.Fatalf("unexpected error loading from environment: %v", err)
	}

	if cfg.Sources.Stubs[0].Address != "https://stubs.test.internal" {
		t.Errorf("expected stub address to be overridden, got '%s'", cfg.Sources.Stubs[0].Address)
	}
}

func TestMergeConfigs(t *testing.T) {
	base := DefaultConfig()
	base.Scope.StrictMode = false
	base.Performance.Cache.PathCacheSize = 1000
	base.Features = map[string]bool{"feature1": true}

	overlay1 := &Config{
		Scope: ScopeConfig{
			StrictMode: true,
		},
		Performance: PerformanceConfig{
			Cache: CacheConfig{
				PathCacheSize: 2000,
			},
		},
		Features: map[string]bool{"feature2": true},
	}

	overlay2 := &Config{
		Performance: PerformanceConfig{
			Cache: CacheConfig{
				OperatorCacheSize: 5000,
			},
		},
		Features: map[string]bool{"feature1": false},
		Version:  "2.0",
	}

	result := MergeConfigs(base, overlay1, overlay2)

	// Bool fields have no "unset" state: overlay2's zero StrictMode is the
	// last value applied, the same rule TestMergeMemory checks for
	// EnablePooling.
	if result.Scope.StrictMode {
		t.Error("expected strict mode to be false, the value of the last overlay")
	}

	if result.Performance.Cache.PathCacheSize != 2000 {
		t.Errorf("expected path cache size 2000, got %d", result.Performance.Cache.PathCacheSize)
	}

	if result.Performance.Cache.OperatorCacheSize != 5000 {
		t.Errorf("expected operator cache size 5000, got %d", result.Performance.Cache.OperatorCacheSize)
	}

	if result.Version != "2.0" {
		t.Errorf("expected version '2.0', got '%s'", result.Version)
	}

	if result.Features["feature1"] {
		t.Error("expected feature1 to be false (overridden)")
	}

	if !result.Features["feature2"] {
		t.Error("expected feature2 to be true")
	}
}

func TestMergeConfigsWithNil(t *testing.T) {
	base := DefaultConfig()
	base.Scope.StrictMode = true

	result := MergeConfigs(base, nil, nil)

	if result.Scope.StrictMode != base.Scope.StrictMode {
		t.Error("strict mode should be preserved when merging with nil")
	}

	if result.Version != base.Version {
		t.Error("version should be preserved when merging with nil")
	}
}

func TestMergeCache(t *testing.T) {
	base := &CacheConfig{
		PathCacheSize: 1000,
		TTL:           5 * time.Minute,
		EnableWarmup:  false,
	}

	overlay := &CacheConfig{
		PathCacheSize:     2000,
		OperatorCacheSize: 3000,
		TTL:               10 * time.Minute,
		EnableWarmup:      true,
	}

	mergeCache(base, overlay)

	if base.PathCacheSize != 2000 {
		t.Errorf("expected path cache size 2000, got %d", base.PathCacheSize)
	}

	if base.OperatorCacheSize != 3000 {
		t.Errorf("expected operator cache size 3000, got %d", base.OperatorCacheSize)
	}

	if base.TTL != 10*time.Minute {
		t.Errorf("expected TTL 10m, got %v", base.TTL)
	}

	if !base.EnableWarmup {
		t.Error("expected EnableWarmup to be true")
	}
}

func TestMergeConcurrency(t *testing.T) {
	base := &ConcurrencyConfig{
		MaxWorkers:     4,
		QueueSize:      1000,
		EnableAdaptive: false,
	}

	overlay := &ConcurrencyConfig{
		MaxWorkers:     8,
		BatchSize:      50,
		EnableAdaptive: true,
	}

	mergeConcurrency(base, overlay)

	if base.MaxWorkers != 8 {
		t.Errorf("expected max workers 8, got %d", base.MaxWorkers)
	}

	if base.QueueSize != 1000 {
		t.Errorf("expected queue size to be preserved as 1000, got %d", base.QueueSize)
	}

	if base.BatchSize != 50 {
		t.Errorf("expected batch size 50, got %d", base.BatchSize)
	}

	if !base.EnableAdaptive {
		t.Error("expected EnableAdaptive to be true")
	}
}

func TestMergeMemory(t *testing.T) {
	base := &MemoryConfig{
		MaxHeapObjects: 1024,
		GCPercent:      100,
		EnablePooling:  true,
	}

	overlay := &MemoryConfig{
		MaxHeapObjects: 2048,
		GCPercent:      75,
		EnablePooling:  false,
	}

	mergeMemory(base, overlay)

	if base.MaxHeapObjects != 2048 {
		t.Errorf("expected max heap objects 2048, got %d", base.MaxHeapObjects)
	}

	if base.GCPercent != 75 {
		t.Errorf("expected GC percent 75, got %d", base.GCPercent)
	}

	if base.EnablePooling {
		t.Error("expected EnablePooling to be overridden to false")
	}
}
