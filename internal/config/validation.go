package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Validate validates the entire configuration.
func Validate(cfg *Config) error {
	var errors ValidationErrors

	if errs := validateDiagnostics(&cfg.Diagnostics); len(errs) > 0 {
		errors = append(errors, errs...)
	}
	if errs := validateScope(&cfg.Scope); len(errs) > 0 {
		errors = append(errors, errs...)
	}
	if errs := validateSources(&cfg.Sources); len(errs) > 0 {
		errors = append(errors, errs...)
	}
	if errs := validatePerformance(&cfg.Performance); len(errs) > 0 {
		errors = append(errors, errs...)
	}
	if errs := validateLogging(&cfg.Logging); len(errs) > 0 {
		errors = append(errors, errs...)
	}

	if cfg.Version == "" {
		errors = append(errors, ValidationError{
			Field:   "version",
			Value:   cfg.Version,
			Message: "version cannot be empty",
		})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func validateDiagnostics(cfg *DiagnosticsConfig) ValidationErrors {
	var errors ValidationErrors

	validSeverities := []string{"info", "warning", "error"}
	if !contains(validSeverities, cfg.MinSeverity) {
		errors = append(errors, ValidationError{
			Field:   "diagnostics.min_severity",
			Value:   cfg.MinSeverity,
			Message: fmt.Sprintf("must be one of: %v", validSeverities),
		})
	}

	validFormats := []string{"text", "json"}
	if !contains(validFormats, cfg.OutputFormat) {
		errors = append(errors, ValidationError{
			Field:   "diagnostics.output_format",
			Value:   cfg.OutputFormat,
			Message: fmt.Sprintf("must be one of: %v", validFormats),
		})
	}

	for _, k := range cfg.EnabledKinds {
		if contains(cfg.DisabledKinds, k) {
			errors = append(errors, ValidationError{
				Field:   "diagnostics.enabled_kinds",
				Value:   k,
				Message: "kind is both enabled and disabled",
			})
		}
	}

	return errors
}

func validateScope(cfg *ScopeConfig) ValidationErrors {
	var errors ValidationErrors

	if cfg.MaxLoopIterations <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scope.max_loop_iterations",
			Value:   cfg.MaxLoopIterations,
			Message: "must be greater than 0",
		})
	}
	if cfg.MaxCallDepth <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scope.max_call_depth",
			Value:   cfg.MaxCallDepth,
			Message: "must be greater than 0",
		})
	}

	return errors
}

func validateSources(cfg *SourcesConfig) ValidationErrors {
	var errors ValidationErrors

	validTypes := []string{"s3", "secretsmanager", "ssm", "vault"}
	for i, stub := range cfg.Stubs {
		if !contains(validTypes, stub.Type) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("sources.stubs[%d].type", i),
				Value:   stub.Type,
				Message: fmt.Sprintf("must be one of: %v", validTypes),
			})
		}
		if stub.Address != "" {
			if u, err := url.Parse(stub.Address); err != nil {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("sources.stubs[%d].address", i),
					Value:   stub.Address,
					Message: fmt.Sprintf("invalid URL: %v", err),
				})
			} else if u.Scheme == "" || u.Host == "" {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("sources.stubs[%d].address", i),
					Value:   stub.Address,
					Message: "invalid URL: must have scheme and host",
				})
			}
		}
	}

	if cfg.BaselineFile != "" {
		if _, err := os.Stat(cfg.BaselineFile); err != nil {
			errors = append(errors, ValidationError{
				Field:   "sources.baseline_file",
				Value:   cfg.BaselineFile,
				Message: fmt.Sprintf("warning: baseline file unreadable: %v", err),
			})
		}
	}

	return errors
}

func validateParserCfg(cfg *ParserConfig) ValidationErrors {
	var errors ValidationErrors

	if cfg.MaxDocumentSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "performance.parser.max_document_size",
			Value:   cfg.MaxDocumentSize,
			Message: "must be greater than 0",
		})
	}
	if cfg.MaxDocumentSize > 100*1024*1024 {
		errors = append(errors, ValidationError{
			Field:   "performance.parser.max_document_size",
			Value:   cfg.MaxDocumentSize,
			Message: "warning: very large document size may cause memory issues",
		})
	}

	return errors
}

func validatePerformance(cfg *PerformanceConfig) ValidationErrors {
	var errors ValidationErrors

	if errs := validateCache(&cfg.Cache); len(errs) > 0 {
		errors = append(errors, errs...)
	}
	if errs := validateConcurrency(&cfg.Concurrency); len(errs) > 0 {
		errors = append(errors, errs...)
	}
	if errs := validateMemory(&cfg.Memory); len(errs) > 0 {
		errors = append(errors, errs...)
	}
	if errs := validateParserCfg(&cfg.Parser); len(errs) > 0 {
		errors = append(errors, errs...)
	}

	return errors
}

func validateCache(cfg *CacheConfig) ValidationErrors {
	var errors ValidationErrors

	if cfg.PathCacheSize < 0 {
		errors = append(errors, ValidationError{
			Field: "performance.cache.path_cache_size", Value: cfg.PathCacheSize, Message: "cannot be negative",
		})
	}
	if cfg.OperatorCacheSize < 0 {
		errors = append(errors, ValidationError{
			Field: "performance.cache.operator_cache_size", Value: cfg.OperatorCacheSize, Message: "cannot be negative",
		})
	}
	if cfg.FileCacheSize < 0 {
		errors = append(errors, ValidationError{
			Field: "performance.cache.file_cache_size", Value: cfg.FileCacheSize, Message: "cannot be negative",
		})
	}
	if cfg.TTL < 0 {
		errors = append(errors, ValidationError{
			Field: "performance.cache.ttl", Value: cfg.TTL, Message: "cannot be negative",
		})
	}

	return errors
}

func validateConcurrency(cfg *ConcurrencyConfig) ValidationErrors {
	var errors ValidationErrors

	if cfg.MaxWorkers < 0 {
		errors = append(errors, ValidationError{
			Field: "performance.concurrency.max_workers", Value: cfg.MaxWorkers, Message: "cannot be negative",
		})
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	if cfg.MaxWorkers > runtime.NumCPU()*4 {
		errors = append(errors, ValidationError{
			Field:   "performance.concurrency.max_workers",
			Value:   cfg.MaxWorkers,
			Message: fmt.Sprintf("warning: very high worker count (%d) for %d CPUs", cfg.MaxWorkers, runtime.NumCPU()),
		})
	}
	if cfg.QueueSize <= 0 {
		errors = append(errors, ValidationError{
			Field: "performance.concurrency.queue_size", Value: cfg.QueueSize, Message: "must be greater than 0",
		})
	}
	if cfg.BatchSize <= 0 {
		errors = append(errors, ValidationError{
			Field: "performance.concurrency.batch_size", Value: cfg.BatchSize, Message: "must be greater than 0",
		})
	}

	return errors
}

func validateMemory(cfg *MemoryConfig) ValidationErrors {
	var errors ValidationErrors

	if cfg.MaxHeapObjects < 0 {
		errors = append(errors, ValidationError{
			Field: "performance.memory.max_heap_objects", Value: cfg.MaxHeapObjects, Message: "cannot be negative",
		})
	}
	if cfg.GCPercent < 0 {
		errors = append(errors, ValidationError{
			Field: "performance.memory.gc_percent", Value: cfg.GCPercent, Message: "cannot be negative",
		})
	}

	return errors
}

func validateLogging(cfg *LoggingConfig) ValidationErrors {
	var errors ValidationErrors

	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if !contains(validLevels, strings.ToLower(cfg.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   cfg.Level,
			Message: fmt.Sprintf("must be one of: %v", validLevels),
		})
	}

	validFormats := []string{"text", "json", "logfmt"}
	if !contains(validFormats, cfg.Format) {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("must be one of: %v", validFormats),
		})
	}

	if cfg.Output != "stdout" && cfg.Output != "stderr" {
		dir := filepath.Dir(cfg.Output)
		if _, err := os.Stat(dir); err != nil {
			errors = append(errors, ValidationError{
				Field:   "logging.output",
				Value:   cfg.Output,
				Message: fmt.Sprintf("directory does not exist: %s", dir),
			})
		}
	}

	return errors
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
