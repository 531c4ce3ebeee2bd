package cli

import (
	"testing"
	"time"
)

// Test command initialization and registration
func TestCommandsRegistered(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}

	commands := rootCmd.Commands()
	expectedCommands := map[string]bool{
		"analyze":    false,
		"partitions": false,
		"seed":       false,
	}

	for _, cmd := range commands {
		// Extract command name (handles "analyze [logfile]" -> "analyze")
		cmdName := cmd.Use
		for key := range expectedCommands {
			if len(cmdName) >= len(key) && cmdName[:len(key)] == key {
				expectedCommands[key] = true
				break
			}
		}
	}

	for cmdName, found := range expectedCommands {
		if !found {
			t.Errorf("expected command '%s' to be registered with root command", cmdName)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	flags := []string{"config", "output"}
	for _, flagName := range flags {
		flag := rootCmd.PersistentFlags().Lookup(flagName)
		if flag == nil {
			t.Errorf("expected global flag '%s' to be defined", flagName)
		}
	}
}

func TestAnalyzeCommandFlags(t *testing.T) {
	if analyzeCmd == nil {
		t.Fatal("analyzeCmd should not be nil")
	}

	flags := []string{"top", "min-failures", "statuses", "out", "metrics-file"}
	for _, flagName := range flags {
		flag := analyzeCmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("expected flag '%s' to be defined on analyze command", flagName)
		}
	}
}

func TestSeedCommandFlags(t *testing.T) {
	if seedCmd == nil {
		t.Fatal("seedCmd should not be nil")
	}

	flags := []string{"count", "out", "window", "malformed-rate", "seed"}
	for _, flagName := range flags {
		flag := seedCmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("expected flag '%s' to be defined on seed command", flagName)
		}
	}
}

func TestParseStatuses(t *testing.T) {
	statuses, err := parseStatuses("404, 500,403")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(statuses) != 3 || statuses[0] != 404 || statuses[1] != 500 || statuses[2] != 403 {
		t.Errorf("unexpected statuses: %v", statuses)
	}

	if _, err := parseStatuses("404,abc"); err == nil {
		t.Error("expected error for non-numeric status")
	}
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"24h": 24 * time.Hour,
		"7d":  7 * 24 * time.Hour,
		"30m": 30 * time.Minute,
	}
	for in, want := range cases {
		got, err := parseDuration(in)
		if err != nil {
			t.Errorf("parseDuration(%q): unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("parseDuration(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := parseDuration("bogus"); err == nil {
		t.Error("expected error for invalid duration")
	}
}
