package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk() error = %v", err)
	}

	value := bytes.Repeat([]byte("pcm sample data "), 1024)
	if err := d.Put("What is mitosis?", value); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := d.Get("What is mitosis?")
	if !ok {
		t.Fatal("Get() miss for stored key")
	}
	if !bytes.Equal(got, value) {
		t.Error("Get() returned different value")
	}

	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}

func TestGetMiss(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk() error = %v", err)
	}

	if _, ok := d.Get("never stored"); ok {
		t.Error("Get() hit for missing key")
	}
}

func TestKeysMayContainAnything(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk() error = %v", err)
	}

	keys := []string{
		"plain",
		"slash/and\\backslash",
		"newline\nand spaces  ",
		"unicode: ميتوكوندريا 线粒体",
	}
	for _, key := range keys {
		if err := d.Put(key, []byte(key)); err != nil {
			t.Fatalf("Put(%q) error = %v", key, err)
		}
	}
	for _, key := range keys {
		got, ok := d.Get(key)
		if !ok || string(got) != key {
			t.Errorf("Get(%q) = %q, %v", key, got, ok)
		}
	}
}

func TestCorruptEntryRemoved(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDisk(dir)
	if err != nil {
		t.Fatalf("NewDisk() error = %v", err)
	}

	if err := d.Put("key", []byte("value")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Truncate the entry behind the store's back.
	matches, _ := filepath.Glob(filepath.Join(dir, "*.zst"))
	if len(matches) != 1 {
		t.Fatalf("entries on disk = %d, want 1", len(matches))
	}
	if err := os.WriteFile(matches[0], []byte("not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := d.Get("key"); ok {
		t.Error("Get() hit for corrupt entry")
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after corrupt entry removal", d.Len())
	}
}

func TestPutOverwrites(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk() error = %v", err)
	}

	if err := d.Put("key", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := d.Put("key", []byte("new")); err != nil {
		t.Fatal(err)
	}

	got, _ := d.Get("key")
	if string(got) != "new" {
		t.Errorf("Get() = %q, want %q", got, "new")
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}
