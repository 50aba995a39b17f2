package catalogservice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/modcat/internal/apperr"
	"github.com/starford/modcat/internal/models"
	"github.com/starford/modcat/internal/storage"
	"github.com/starford/modcat/internal/testutil"
)

func testService(t *testing.T, files ...string) (*Service, string) {
	t.Helper()
	root := testutil.TestTree(t, files...)
	store, err := storage.NewFS(root, storage.WithLogger(testutil.Logger()))
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(store, nil, testutil.Logger())
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	return svc, root
}

func TestRebuildAndSnapshot(t *testing.T) {
	svc, _ := testService(t,
		"engine/plugins/effects/tracktion_Reverb.cpp",
		"randomdir/readme.md",
	)
	report, sum := svc.Snapshot()
	if report.TotalFiles != 2 {
		t.Errorf("total = %d", report.TotalFiles)
	}
	if len(sum) != 64 {
		t.Errorf("checksum = %q", sum)
	}
}

func TestRebuildReportsChange(t *testing.T) {
	svc, root := testService(t, "a.h")

	changed, err := svc.Rebuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("unchanged tree should not report a change")
	}

	testutil.WriteFile(t, root, "b.h")
	changed, err = svc.Rebuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("new file should report a change")
	}
	if report, _ := svc.Snapshot(); report.TotalFiles != 2 {
		t.Errorf("total = %d, want 2", report.TotalFiles)
	}
}

func TestRebuildFailsWhenRootRemoved(t *testing.T) {
	svc, root := testService(t, "a.h")
	if err := os.RemoveAll(root); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Rebuild(context.Background()); err == nil {
		t.Error("expected error after root removal")
	}
	// The previous catalog stays in place.
	if report, _ := svc.Snapshot(); report.TotalFiles != 1 {
		t.Errorf("total = %d, want 1", report.TotalFiles)
	}
}

// gatedProvider holds its first List call until release is closed and then
// returns the old tree; every later call returns the new tree at once.
type gatedProvider struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (p *gatedProvider) Root() string { return "/gated" }

func (p *gatedProvider) List(string) ([]models.Entry, error) {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.mu.Unlock()

	if first {
		close(p.entered)
		<-p.release
		return []models.Entry{{Path: "old.h", Filename: "old.h"}}, nil
	}
	return []models.Entry{
		{Path: "new.h", Filename: "new.h"},
		{Path: "newer.h", Filename: "newer.h"},
	}, nil
}

func TestRebuildSerializesOverlappingCalls(t *testing.T) {
	store := &gatedProvider{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(store, nil, testutil.Logger())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := svc.Rebuild(context.Background()); err != nil {
			t.Errorf("first rebuild: %v", err)
		}
	}()
	<-store.entered

	go func() {
		defer wg.Done()
		if _, err := svc.Rebuild(context.Background()); err != nil {
			t.Errorf("second rebuild: %v", err)
		}
	}()

	// Give the second rebuild a chance to overtake the first one.
	time.Sleep(50 * time.Millisecond)
	close(store.release)
	wg.Wait()

	report, _ := svc.Snapshot()
	if report.TotalFiles != 2 || report.Files[0].Path != "new.h" {
		t.Errorf("catalog after both rebuilds: total=%d files=%+v, want the newer tree", report.TotalFiles, report.Files)
	}
}

func TestGetFile(t *testing.T) {
	svc, _ := testService(t, "tracktion_engine/midi/tracktion_MidiChannel.h")

	rec, err := svc.GetFile(context.Background(), "tracktion_engine/midi/tracktion_MidiChannel.h")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if rec.Description != "MIDI channel" || rec.Category != "midi" {
		t.Errorf("record = %+v", rec)
	}

	if _, err := svc.GetFile(context.Background(), "nope.h"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListFiles(t *testing.T) {
	svc, _ := testService(t,
		"engine/plugins/a.h",
		"engine/plugins/b.h",
		"engine/plugins/c.h",
		"misc/d.md",
	)
	files, total := svc.ListFiles(context.Background(), "plugins", 2, 1)
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(files) != 2 || files[0].Filename != "b.h" || files[1].Filename != "c.h" {
		t.Errorf("files = %+v", files)
	}

	all, total := svc.ListFiles(context.Background(), "", 0, 0)
	if total != 4 || len(all) != 4 {
		t.Errorf("all = %d/%d", len(all), total)
	}
}

func TestSearch(t *testing.T) {
	svc, _ := testService(t,
		"engine/plugins/effects/tracktion_Reverb.cpp",
		"engine/plugins/effects/tracktion_Delay.cpp",
	)
	got := svc.Search(context.Background(), "ROOM SIZE", 10)
	if len(got) != 1 || got[0].Filename != "tracktion_Reverb.cpp" {
		t.Errorf("search = %+v", got)
	}
	if got := svc.Search(context.Background(), "  ", 10); len(got) != 0 {
		t.Errorf("blank query = %+v", got)
	}
}

func TestRebuildExportsToIndex(t *testing.T) {
	root := testutil.TestTree(t, "juce/juce_core.h", "x/y.txt")
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	db := testutil.TestDB(t)
	svc := NewService(store, db, testutil.Logger())
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}

	meta, err := db.Meta()
	if err != nil {
		t.Fatal(err)
	}
	_, sum := svc.Snapshot()
	if meta.TotalFiles != 2 || meta.Checksum != sum {
		t.Errorf("meta = %+v, checksum = %s", meta, sum)
	}
}

func TestClassify(t *testing.T) {
	rec := Classify(filepath.Join("engine", "plugins", "effects", "tracktion_Reverb.cpp"))
	if rec.Category != "plugins" || rec.Filename != "tracktion_Reverb.cpp" || rec.Directory != "engine/plugins/effects" {
		t.Errorf("record = %+v", rec)
	}
	if rec := Classify("/randomdir/readme.md"); rec.Description != "Module file: readme.md" || rec.Path != "randomdir/readme.md" {
		t.Errorf("record = %+v", rec)
	}
}
