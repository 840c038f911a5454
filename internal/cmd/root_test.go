package cmd

import (
	"testing"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "framecheck" {
		t.Errorf("Use = %q, want %q", cmd.Use, "framecheck")
	}
	if !cmd.SilenceUsage {
		t.Error("SilenceUsage should be enabled")
	}

	subcommands := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, name := range []string{"analyze", "history"} {
		if !subcommands[name] {
			t.Errorf("root command missing %q subcommand", name)
		}
	}
}
