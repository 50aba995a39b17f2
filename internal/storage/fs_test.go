package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/starford/modcat/internal/apperr"
)

func tempTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func listPaths(t *testing.T, f *FS) []string {
	t.Helper()
	entries, err := f.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var out []string
	for _, e := range entries {
		out = append(out, e.Path)
	}
	sort.Strings(out)
	return out
}

func TestList(t *testing.T) {
	dir := tempTree(t,
		"a.h",
		"sub/b.cpp",
		"sub/deep/CMakeLists.txt",
		"image.png",
		"sub/notes.MD",
	)
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	got := listPaths(t, s)
	want := []string{"a.h", "sub/b.cpp", "sub/deep/CMakeLists.txt"}
	if len(got) != len(want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestListSkipsHiddenDirs(t *testing.T) {
	dir := tempTree(t,
		"keep.h",
		".git/config.txt",
		"sub/.cache/x.cpp",
		"sub/.hidden.h",
	)
	s, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	got := listPaths(t, s)
	// Hidden files are kept, only hidden directories are pruned.
	want := []string{"keep.h", "sub/.hidden.h"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestListFilenames(t *testing.T) {
	dir := tempTree(t, "x/y/tracktion_Reverb.cpp")
	s, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := s.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Filename != "tracktion_Reverb.cpp" || entries[0].Path != "x/y/tracktion_Reverb.cpp" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestWithExtensions(t *testing.T) {
	dir := tempTree(t, "a.h", "b.go")
	s, err := NewFS(dir, WithExtensions([]string{".go"}))
	if err != nil {
		t.Fatal(err)
	}
	got := listPaths(t, s)
	if len(got) != 1 || got[0] != "b.go" {
		t.Errorf("paths = %v", got)
	}
}

func TestListFromDotRoot(t *testing.T) {
	dir := tempTree(t, "a.h")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	s, err := NewFS(".")
	if err != nil {
		t.Fatal(err)
	}
	if got := listPaths(t, s); len(got) != 1 || got[0] != "a.h" {
		t.Errorf("paths = %v", got)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"../../etc", "../outside", "/etc"} {
		if _, err := s.List(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, apperr.ErrRootNotFound) {
		t.Errorf("err = %v, want ErrRootNotFound", err)
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "modcat-test-*")
	if err != nil {
		t.Fatal(err)
	}
	_ = f.Close()
	_, err = NewFS(f.Name())
	if !errors.Is(err, apperr.ErrNotADirectory) {
		t.Errorf("err = %v, want ErrNotADirectory", err)
	}
}

func TestListSkipsUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := tempTree(t,
		"a.h",
		"locked/hidden_from_walk.h",
		"open/b.cpp",
	)
	locked := filepath.Join(dir, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	f, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	got := listPaths(t, f)
	want := []string{"a.h", "open/b.cpp"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
