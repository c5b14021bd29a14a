package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_CreateAndOpen(t *testing.T) {
	fs := OSFileSystem{}
	path := filepath.Join(t.TempDir(), "out.csv")

	w, err := fs.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := io.WriteString(w, "t,x1\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := fs.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "t,x1\n" {
		t.Errorf("got %q, want %q", data, "t,x1\n")
	}
}

func TestOSFileSystem_OpenMissing(t *testing.T) {
	_, err := OSFileSystem{}.Open(filepath.Join(t.TempDir(), "missing.csv"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/data/../test.txt", []byte("hello, world"))

	data, err := mfs.ReadFile("/test.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "hello, world" {
		t.Errorf("got %q, want %q", data, "hello, world")
	}

	r, err := mfs.Open("/test.txt")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	got, _ := io.ReadAll(r)
	if string(got) != "hello, world" {
		t.Errorf("Open read %q", got)
	}
}

func TestMemoryFileSystem_CreateVisibleOnClose(t *testing.T) {
	mfs := NewMemoryFileSystem()
	w, err := mfs.Create("/out/a.png")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("abc")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if data, _ := mfs.ReadFile("/out/a.png"); len(data) != 0 {
		t.Errorf("expected empty file before Close, got %q", data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if data, _ := mfs.ReadFile("/out/a.png"); string(data) != "abc" {
		t.Errorf("got %q after Close", data)
	}
	if names := mfs.Names(); len(names) != 1 || names[0] != "/out/a.png" {
		t.Errorf("Names() = %v", names)
	}
}

func TestMemoryFileSystem_OpenMissing(t *testing.T) {
	_, err := NewMemoryFileSystem().Open("/nope")
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

var _ FileSystem = OSFileSystem{}
var _ FileSystem = (*MemoryFileSystem)(nil)
