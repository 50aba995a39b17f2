package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/modcat/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatcher(t *testing.T, root string) *atomic.Int32 {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var calls atomic.Int32
	cfg := Config{
		Root:     root,
		Debounce: 50 * time.Millisecond,
		Relevant: func(name string) bool { return strings.HasSuffix(name, ".h") },
	}
	go func() {
		_ = Watch(ctx, cfg, testutil.Logger(), func() { calls.Add(1) })
	}()
	time.Sleep(100 * time.Millisecond)
	return &calls
}

func TestWatch_NewFileTriggersRebuild(t *testing.T) {
	root := t.TempDir()
	calls := startWatcher(t, root)

	_ = os.WriteFile(filepath.Join(root, "new.h"), []byte("x"), 0o644)

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "new file did not trigger onChange")
}

func TestWatch_BurstIsDebounced(t *testing.T) {
	root := t.TempDir()
	calls := startWatcher(t, root)

	for i := 0; i < 5; i++ {
		_ = os.WriteFile(filepath.Join(root, "f"+string(rune('a'+i))+".h"), []byte("x"), 0o644)
	}

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "burst did not trigger onChange")
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n > 2 {
		t.Errorf("onChange called %d times for one burst", n)
	}
}

func TestWatch_IrrelevantFileIgnored(t *testing.T) {
	root := t.TempDir()
	calls := startWatcher(t, root)

	_ = os.WriteFile(filepath.Join(root, "image.png"), []byte("x"), 0o644)
	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("onChange called %d times for an irrelevant file", n)
	}
}

func TestWatch_NewDirectoryWatched(t *testing.T) {
	root := t.TempDir()
	calls := startWatcher(t, root)

	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "new directory did not trigger onChange")

	before := calls.Load()
	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(sub, "deep.h"), []byte("x"), 0o644)
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() > before
	}, "file in new directory did not trigger onChange")
}

func TestWatch_HiddenDirectoryIgnored(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	calls := startWatcher(t, root)

	_ = os.WriteFile(filepath.Join(root, ".git", "x.h"), []byte("x"), 0o644)
	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("onChange called %d times for a hidden directory", n)
	}
}
