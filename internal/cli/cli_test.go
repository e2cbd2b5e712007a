package cli

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Bravo-Actual/timegrid/pkg/buildinfo"
	"github.com/Bravo-Actual/timegrid/pkg/pipeline"
)

func TestNew(t *testing.T) {
	c := New(io.Discard, LogInfo)
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.Logger == nil {
		t.Fatal("New() should set a logger")
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.SetLogLevel(LogDebug)

	if got := c.Logger.GetLevel(); got != log.DebugLevel {
		t.Errorf("GetLevel() = %v, want %v", got, log.DebugLevel)
	}
}

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "timegrid" {
		t.Errorf("Use = %q, want %q", root.Use, "timegrid")
	}
	if root.Version != buildinfo.Version {
		t.Errorf("Version = %q, want %q", root.Version, buildinfo.Version)
	}
	if !root.SilenceUsage {
		t.Error("SilenceUsage should be set")
	}

	want := []string{"render", "conflicts", "freebusy", "import", "agenda", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("RootCommand() is missing the %q command", name)
		}
	}

	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("RootCommand() should register the --config flag")
	}
}

func TestSetCLIDefaults(t *testing.T) {
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	if opts.View == "" {
		t.Error("setCLIDefaults() should set a default view")
	}
	if opts.PixelsPerHour == 0 {
		t.Error("setCLIDefaults() should set a pixel density")
	}
	if len(opts.Formats) == 0 {
		t.Error("setCLIDefaults() should set a default format")
	}
	if !opts.Grid || !opts.Headers {
		t.Error("setCLIDefaults() should enable grid and headers for CLI output")
	}
}
