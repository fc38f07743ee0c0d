package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "AXIOM" {
		t.Errorf("expected Name=AXIOM, got %s", cfg.Name)
	}
	if cfg.Curator.Model != "gemini-3-flash-preview" {
		t.Errorf("expected gemini-3-flash-preview, got %s", cfg.Curator.Model)
	}
	if cfg.Curator.Temperature != 0.7 {
		t.Errorf("expected Temperature=0.7, got %v", cfg.Curator.Temperature)
	}
	if cfg.Checkout.ManifestMessage != "Shipment Manifest Generated" {
		t.Errorf("unexpected manifest message %q", cfg.Checkout.ManifestMessage)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"gate tick", cfg.GetGateTickInterval(), 16 * time.Millisecond},
		{"gate settle", cfg.GetGateSettleDelay(), time.Second},
		{"checkout tick", cfg.GetCheckoutTickInterval(), 16 * time.Millisecond},
		{"checkout close", cfg.GetCheckoutCloseDelay(), 4 * time.Second},
		{"notification", cfg.GetNotificationVisible(), 3 * time.Second},
		{"curator timeout", cfg.Curator.GetTimeout(), 30 * time.Second},
		{"frame", cfg.UI.GetFrameInterval(), 16 * time.Millisecond},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, tc.got)
		}
	}

	// Garbage falls back to the default.
	cfg.Gate.SettleDelay = "soon"
	cfg.Checkout.CloseDelay = "-2s"
	if got := cfg.GetGateSettleDelay(); got != time.Second {
		t.Errorf("expected fallback 1s, got %v", got)
	}
	if got := cfg.GetCheckoutCloseDelay(); got != 4*time.Second {
		t.Errorf("expected fallback 4s, got %v", got)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "axiom.yaml")

	cfg := DefaultConfig()
	cfg.Curator.APIKey = "k-test"
	cfg.Checkout.Step = 5
	cfg.Logging.DebugMode = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Curator.APIKey != "k-test" {
		t.Errorf("expected APIKey=k-test, got %s", loaded.Curator.APIKey)
	}
	if loaded.Checkout.Step != 5 {
		t.Errorf("expected Step=5, got %v", loaded.Checkout.Step)
	}
	if !loaded.Logging.DebugMode {
		t.Error("expected debug mode to round trip")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gate.Step != 2 {
		t.Errorf("expected default gate step, got %v", cfg.Gate.Step)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "axiom.yaml")
	if err := os.WriteFile(path, []byte("gate:\n  settle_delay: 250ms\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.GetGateSettleDelay(); got != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", got)
	}
	if cfg.Checkout.ManifestMessage != "Shipment Manifest Generated" {
		t.Errorf("default lost on partial load: %q", cfg.Checkout.ManifestMessage)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axiom.yaml")
	if err := os.WriteFile(path, []byte("gate: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Checkout.Step = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero checkout step")
	}

	cfg = DefaultConfig()
	cfg.Curator.Temperature = 3
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for temperature out of range")
	}

	cfg = DefaultConfig()
	cfg.Ledger.DSN = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty dsn")
	}
}

func TestIsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	if lc.IsCategoryEnabled("checkout") {
		t.Error("categories are off outside debug mode")
	}
	lc.DebugMode = true
	if !lc.IsCategoryEnabled("checkout") {
		t.Error("unspecified categories are on in debug mode")
	}
	lc.Categories = map[string]bool{"curator": false}
	if lc.IsCategoryEnabled("curator") {
		t.Error("explicitly disabled category reported on")
	}
	if lc.ZapLevel() != "info" {
		t.Errorf("expected info fallback, got %s", lc.ZapLevel())
	}
}
