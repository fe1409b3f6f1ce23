package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSidecarWatcherFiresOnTargetWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.json")

	sw, err := NewSidecarWatcher(20 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer sw.Close()

	fired := make(chan string, 1)
	if err := sw.SetPath(path, func(p string) { fired <- p }); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(`{"coord": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-fired:
		if filepath.Base(got) != "scan.json" {
			t.Errorf("unexpected path %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not fire")
	}
}

func TestSidecarWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.json")

	sw, err := NewSidecarWatcher(10 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer sw.Close()

	fired := make(chan string, 1)
	if err := sw.SetPath(path, func(p string) { fired <- p }); err != nil {
		t.Fatal(err)
	}

	// Backups and unrelated files in the same folder must not trigger.
	if err := os.WriteFile(path+".20260101-120000.bak", []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-fired:
		t.Errorf("watcher fired for sibling %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSidecarWatcherPause(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.json")

	sw, err := NewSidecarWatcher(10 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer sw.Close()

	fired := make(chan string, 1)
	if err := sw.SetPath(path, func(p string) { fired <- p }); err != nil {
		t.Fatal(err)
	}

	sw.Pause()
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
		t.Fatal("paused watcher must not fire")
	case <-time.After(200 * time.Millisecond):
	}

	sw.Resume()
	if err := os.WriteFile(path, []byte(`{"coord": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("resumed watcher did not fire")
	}
}
