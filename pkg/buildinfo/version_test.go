package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func reset(t *testing.T, version, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestFromModule(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.2.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abcdef0123456789"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	t.Run("defaults", func(t *testing.T) {
		reset(t, "dev", "none", "unknown")
		fromModule(info)
		if Version != "v0.2.1" || Commit != "abcdef0123456789" || Date != "2026-01-02T03:04:05Z" {
			t.Errorf("got %s %s %s", Version, Commit, Date)
		}
	})

	t.Run("ldflags win", func(t *testing.T) {
		reset(t, "v1.0.0", "1234567", "today")
		fromModule(info)
		if Version != "v1.0.0" || Commit != "1234567" || Date != "today" {
			t.Errorf("got %s %s %s", Version, Commit, Date)
		}
	})

	t.Run("devel", func(t *testing.T) {
		reset(t, "dev", "none", "unknown")
		fromModule(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		if Version != "dev" {
			t.Errorf("Version = %s", Version)
		}
	})
}

func TestShort(t *testing.T) {
	reset(t, "v1.0.0", "abcdef0123456789", "today")
	if got := Short(); got != "v1.0.0 (abcdef0)" {
		t.Errorf("Short() = %q", got)
	}
}

func TestTemplate(t *testing.T) {
	reset(t, "v1.0.0", "abc", "today")
	got := Template()
	for _, want := range []string{"{{.Name}}", "v1.0.0", "commit: abc", "built: today"} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() missing %q: %s", want, got)
		}
	}
	if !strings.Contains(String(), "version: v1.0.0") {
		t.Errorf("String() = %s", String())
	}
}
