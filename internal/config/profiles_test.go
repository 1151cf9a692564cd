package config

import "testing"

func TestListProfilesIncludesBuiltins(t *testing.T) {
	pm := NewProfileManager(NewManager())
	names, err := pm.ListProfiles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]bool{"default": false, "strict": false, "lenient": false, "ci": false}
	for _, name := range names {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %q among the listed profiles, got %v", name, names)
		}
	}
}

func TestLoadProfileStrictEnablesStrictMode(t *testing.T) {
	pm := NewProfileManager(NewManager())
	cfg, err := pm.LoadProfile("strict")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Scope.StrictMode {
		t.Error("expected the strict profile to enable scope.strict_mode")
	}
	if cfg.Profile != "strict" {
		t.Errorf("expected profile name 'strict', got %q", cfg.Profile)
	}
}

func TestLoadProfileUnknownNameErrors(t *testing.T) {
	pm := NewProfileManager(NewManager())
	if _, err := pm.LoadProfile("does-not-exist"); err == nil {
		t.Fatal("expected an error loading an unknown profile")
	}
}

func TestApplyProfileUpdatesManager(t *testing.T) {
	mgr := NewManager()
	pm := NewProfileManager(mgr)

	if err := pm.ApplyProfile("ci"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := mgr.Get()
	if cfg.Diagnostics.OutputFormat != "json" {
		t.Errorf("expected the ci profile's json output format to be applied, got %q", cfg.Diagnostics.OutputFormat)
	}
	if cfg.Diagnostics.ColorOutput {
		t.Error("expected the ci profile to disable color output")
	}
}

func TestCompareProfilesReportsDifferences(t *testing.T) {
	pm := NewProfileManager(NewManager())
	diff, err := pm.CompareProfiles("strict", "lenient")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := diff["scope.strict_mode"]; !ok {
		t.Errorf("expected scope.strict_mode to differ between strict and lenient, got %v", diff)
	}
	if _, ok := diff["scope.max_loop_iterations"]; !ok {
		t.Errorf("expected scope.max_loop_iterations to differ between strict and lenient, got %v", diff)
	}
}

func TestCompareProfilesIdenticalReturnsEmpty(t *testing.T) {
	pm := NewProfileManager(NewManager())
	diff, err := pm.CompareProfiles("default", "default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diff) != 0 {
		t.Errorf("expected no differences comparing a profile to itself, got %v", diff)
	}
}

func TestRecommendProfileForCIPipeline(t *testing.T) {
	pm := NewProfileManager(NewManager())
	got, err := pm.RecommendProfile(ProfileCharacteristics{CIPipeline: true, DocumentCount: DocumentCountMass})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ci" {
		t.Errorf("expected 'ci' to be recommended for a CI pipeline analyzing many documents, got %q", got)
	}
}

func TestRecommendProfileForHighStrictness(t *testing.T) {
	pm := NewProfileManager(NewManager())
	got, err := pm.RecommendProfile(ProfileCharacteristics{Strictness: StrictnessHigh})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "strict" {
		t.Errorf("expected 'strict' to be recommended for high strictness, got %q", got)
	}
}

func TestGetCurrentProfileReflectsManagerState(t *testing.T) {
	mgr := NewManager()
	pm := NewProfileManager(mgr)

	if pm.GetCurrentProfile() != "default" {
		t.Errorf("expected 'default' before any profile is applied, got %q", pm.GetCurrentProfile())
	}

	if err := pm.ApplyProfile("lenient"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pm.GetCurrentProfile() != "lenient" {
		t.Errorf("expected 'lenient' after applying it, got %q", pm.GetCurrentProfile())
	}
}

func TestCreateCustomProfileDerivesFromCurrent(t *testing.T) {
	mgr := NewManager()
	if err := mgr.Update(func(cfg *Config) { cfg.Scope.MaxCallDepth = 42 }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pm := NewProfileManager(mgr)
	custom, err := pm.CreateCustomProfile("my-team")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if custom.Profile != "my-team" {
		t.Errorf("expected profile name 'my-team', got %q", custom.Profile)
	}
	if custom.Scope.MaxCallDepth != 42 {
		t.Errorf("expected the custom profile to inherit the current max call depth, got %d", custom.Scope.MaxCallDepth)
	}
}

func TestGetDefaultProfilesCoversAllNames(t *testing.T) {
	profiles := GetDefaultProfiles()
	for _, name := range []string{"default", "strict", "lenient", "ci"} {
		cfg, ok := profiles[name]
		if !ok {
			t.Fatalf("expected a default-profile entry for %q", name)
		}
		if err := Validate(cfg); err != nil {
			t.Errorf("default profile %q failed validation: %v", name, err)
		}
	}
}
