package config

import (
	"testing"
	"time"
)

func TestValidateValidConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Errorf("valid config should not have validation errors: %v", err)
	}
}

func TestValidateEmptyVersion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for empty version")
	}

	if !containsSubstring(err.Error(), "version cannot be empty") {
		t.Errorf("expected 'version cannot be empty' error, got: %v", err)
	}
}

func TestValidateInvalidMinSeverity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Diagnostics.MinSeverity = "invalid"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid min severity")
	}

	if !containsSubstring(err.Error(), "must be one of") {
		t.Errorf("expected 'must be one of' error, got: %v", err)
	}
}

func TestValidateInvalidOutputFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Diagnostics.OutputFormat = "invalid"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid output format")
	}

	if !containsSubstring(err.Error(), "must be one of") {
		t.Errorf("expected 'must be one of' error, got: %v", err)
	}
}

func TestValidateKindEnabledAndDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Diagnostics.EnabledKinds = []string{"UNDEFINED_VAR"}
	cfg.Diagnostics.DisabledKinds = []string{"UNDEFINED_VAR"}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for a kind that is both enabled and disabled")
	}

	if !containsSubstring(err.Error(), "both enabled and disabled") {
		t.Errorf("expected 'both enabled and disabled' error, got: %v", err)
	}
}

func TestValidateNonPositiveLoopIterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scope.MaxLoopIterations = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for zero max loop iterations")
	}

	if !containsSubstring(err.Error(), "must be greater than 0") {
		t.Errorf("expected 'must be greater than 0' error, got: %v", err)
	}
}

func TestValidateNegativeCacheSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Performance.Cache.PathCacheSize = -1

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for negative cache size")
	}

	if !containsSubstring(err.Error(), "cannot be negative") {
		t.Errorf("expected 'cannot be negative' error, got: %v", err)
	}
}

func TestValidateNegativeTTL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Performance.Cache.TTL = -1 * time.Second

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for negative TTL")
	}

	if !containsSubstring(err.Error(), "cannot be negative") {
		t.Errorf("expected 'cannot be negative' error, got: %v", err)
	}
}

func TestValidateZeroQueueSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Performance.Concurrency.QueueSize = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for zero queue size")
	}

	if !containsSubstring(err.Error(), "must be greater than 0") {
		t.Errorf("expected 'must be greater than 0' error, got: %v", err)
	}
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "invalid"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid log level")
	}

	if !containsSubstring(err.Error(), "must be one of") {
		t.Errorf("expected 'must be one of' error, got: %v", err)
	}
}

func TestValidateInvalidLogFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Format = "invalid"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid log format")
	}

	if !containsSubstring(err.Error(), "must be one of") {
		t.Errorf("expected 'must be one of' error, got: %v", err)
	}
}

func TestValidateStubAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sources.Stubs = []StubSourceConfig{{Type: "s3", Address: "not-a-url"}}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid stub address")
	}

	if !containsSubstring(err.Error(), "must have scheme and host") {
		t.Errorf("expected 'must have scheme and host' error, got: %v", err)
	}
}

func TestValidateStubType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sources.Stubs = []StubSourceConfig{{Type: "ftp"}}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for an unsupported stub type")
	}

	if !containsSubstring(err.Error(), "must be one of") {
		t.Errorf("expected 'must be one of' error, got: %v", err)
	}
}

func TestValidateParserMaxDocumentSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Performance.Parser.MaxDocumentSize = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for zero max document size")
	}

	if !containsSubstring(err.Error(), "must be greater than 0") {
		t.Errorf("expected 'must be greater than 0' error, got: %v", err)
	}
}

func TestValidateParserLargeDocumentSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Performance.Parser.MaxDocumentSize = 200 * 1024 * 1024 // 200MB

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation warning for very large document size")
	}

	if !containsSubstring(err.Error(), "warning: very large document size") {
		t.Errorf("expected large document size warning, got: %v", err)
	}
}

func TestValidationErrors(t *testing.T) {
	var errors ValidationErrors
	errors = append(errors, ValidationError{
		Field:   "test1",
		Value:   "value1",
		Message: "error1",
	})
	errors = append(errors, ValidationError{
		Field:   "test2",
		Value:   "value2",
		Message: "error2",
	})

	errorStr := errors.Error()
	if !containsSubstring(errorStr, "test1") {
		t.Error("error string should contain test1")
	}
	if !containsSubstring(errorStr, "error1") {
		t.Error("error string should contain error1")
	}
	if !containsSubstring(errorStr, "test2") {
		t.Error("error string should contain test2")
	}
	if !containsSubstring(errorStr, "error2") {
		t.Error("error string should contain error2")
	}

	var emptyErrors ValidationErrors
	if emptyErrors.Error() != "" {
		t.Error("empty validation errors should return empty string")
	}
}

// containsSubstring is a small test helper; strings.Contains isn't
// imported here to keep this file's only import besides testing scoped
// to what the time-based tests need.
func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return substr == ""
}
