package main

import "testing"

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("KASA_ALPACA_CONFIG", "")
	configPath = ""
	if got := resolveConfigPath(); got != defaultConfigPath {
		t.Errorf("resolveConfigPath() = %q, want %q", got, defaultConfigPath)
	}

	t.Setenv("KASA_ALPACA_CONFIG", "/etc/kasa-alpaca/config.yaml")
	if got := resolveConfigPath(); got != "/etc/kasa-alpaca/config.yaml" {
		t.Errorf("resolveConfigPath() = %q, want env override", got)
	}

	configPath = "/tmp/override.yaml"
	defer func() { configPath = "" }()
	if got := resolveConfigPath(); got != "/tmp/override.yaml" {
		t.Errorf("resolveConfigPath() = %q, want flag override", got)
	}
}

func TestServerURL(t *testing.T) {
	if got := serverURL("127.0.0.1", 5555); got != "http://127.0.0.1:5555" {
		t.Errorf("serverURL() = %q", got)
	}
}
