package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/magdock/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
		dir, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("/tmp/xdg", "magdock"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, ".cache", "magdock"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestCacheCommands(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	root := New(io.Discard, LogInfo).RootCommand()

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(args)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	if got := strings.TrimSpace(run("cache", "path")); got != filepath.Join(xdg, "magdock") {
		t.Errorf("cache path = %q", got)
	}
	if got := run("cache", "clear"); !strings.Contains(got, "Cache is empty") {
		t.Errorf("clear on missing dir = %q", got)
	}

	fc, err := cache.NewFileCache(filepath.Join(xdg, "magdock"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"snapshot:a", "snapshot:b"} {
		if err := fc.Set(ctx, k, []byte("<svg/>"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if got := run("cache", "clear"); !strings.Contains(got, "Cleared 2 cached snapshots") {
		t.Errorf("clear = %q", got)
	}
	if _, ok, _ := fc.Get(ctx, "snapshot:a"); ok {
		t.Error("entry survived cache clear")
	}
}
