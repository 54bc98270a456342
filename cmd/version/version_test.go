package version

import (
	"bytes"
	"context"
	"testing"

	"github.com/urfave/cli/v3"
)

func TestGetCommand(t *testing.T) {
	t.Parallel()

	cmd := GetCommand()

	if cmd == nil {
		t.Fatal("GetCommand() returned nil")
	}
	if cmd.Name != "version" {
		t.Errorf("command name = %q; want %q", cmd.Name, "version")
	}
	if cmd.Usage == "" {
		t.Error("command usage should not be empty")
	}
	if cmd.Action == nil {
		t.Fatal("command action should not be nil")
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
	}{
		{"custom version", "1.2.3"},
		{"semver version", "v2.0.0-beta1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			if err := printVersion(&out, tt.version); err != nil {
				t.Fatalf("printVersion() error = %v", err)
			}
			if out.String() != tt.version+"\n" {
				t.Errorf("printVersion() wrote %q; want %q", out.String(), tt.version+"\n")
			}
		})
	}
}

func TestAction_WritesToCommandWriter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := GetCommand().Action(context.Background(), &cli.Command{Writer: &out}); err != nil {
		t.Fatalf("Action() error = %v", err)
	}
	if out.Len() == 0 {
		t.Error("Action() should print a version")
	}
}

func TestVersion_DefaultValue(t *testing.T) {
	t.Parallel()

	if Version == "" {
		t.Error("Version should have a default value")
	}
}
