package apps

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	done := make(chan struct{}, 5)
	for k := 0; k < 5; k++ {
		d.trigger(func() {
			calls.Add(1)
			done <- struct{}{}
		})
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced callback never ran")
	}
	time.Sleep(60 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.trigger(func() { calls.Add(1) })
	d.cancel()
	time.Sleep(60 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("calls = %d after cancel", n)
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apps.toml")
	if err := os.WriteFile(path, []byte("[[app]]\nid='a'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	type result struct {
		m   *Manifest
		err error
	}
	got := make(chan result, 4)
	w, err := NewWatcher(path, func(m *Manifest, err error) { got <- result{m, err} }, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(path, []byte("[[app]]\nid='a'\n[[app]]\nid='b'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-got:
		if r.err != nil {
			t.Fatalf("reload error: %v", r.err)
		}
		if len(r.m.Apps) != 2 {
			t.Errorf("reloaded apps = %+v", r.m.Apps)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apps.toml")
	if err := os.WriteFile(path, []byte("[[app]]\nid='a'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := make(chan struct{}, 4)
	w, err := NewWatcher(path, func(*Manifest, error) { got <- struct{}{} }, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	go w.Run(context.Background())

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-got:
		t.Error("reload for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewWatcherRejectsUnsupportedPath(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "apps.json"), func(*Manifest, error) {}); err == nil {
		t.Error("NewWatcher accepted .json")
	}
}
