package batch_test

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"phototag/internal/batch"
	"phototag/internal/catalog"
	"phototag/internal/config"
	"phototag/internal/logging"
	"phototag/internal/preview"
	"phototag/internal/reachability"
	"phototag/internal/sidecar"
	"phototag/internal/testsupport"
)

type fakeGenerator struct {
	mu     sync.Mutex
	tags   []string
	detect map[string]bool
	err    error
	calls  int
}

func (f *fakeGenerator) GenerateTags(ctx context.Context, img image.Image) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.tags...), nil
}

func (f *fakeGenerator) Detect(ctx context.Context, img image.Image, criterion string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.detect[criterion], nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type harness struct {
	cfg     *config.Config
	fixture *testsupport.Catalog
	store   *catalog.Store
	gen     *fakeGenerator
	dir     string
}

// newCatalogHarness builds a three-photo catalog whose photos live in a
// real temp directory, covering every rendition source: photo 1 has a
// pyramid blob, photo 2 only a standard preview, photo 3 no preview at all
// but a loadable original on disk.
func newCatalogHarness(t *testing.T, opts ...testsupport.ConfigOption) *harness {
	t.Helper()

	fixture := testsupport.NewCatalog(t)
	dir := t.TempDir()
	for i, name := range []string{"alpha", "beta", "gamma"} {
		id := int64(i + 1)
		fixture.AddPhoto(testsupport.FixturePhoto{
			ID: id, AbsolutePath: dir + "/", BaseName: name, Extension: "jpg", Format: "JPG",
		})
	}
	fixture.AddPyramidBlob(1, testsupport.PNGBytes(t, 4, 4))
	fixture.AddStandardPreview(2, 1024, testsupport.PNGBytes(t, 4, 4))
	testsupport.WritePNG(t, filepath.Join(dir, "gamma.jpg"), 4, 4)

	store, err := catalog.Open(fixture.Path(), logging.NewNop())
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return &harness{
		cfg:     testsupport.NewConfig(t, opts...),
		fixture: fixture,
		store:   store,
		gen:     &fakeGenerator{tags: []string{"Sunset", "Beach"}},
		dir:     dir,
	}
}

func (h *harness) coordinator(t *testing.T, progress batch.ProgressFunc) *batch.Coordinator {
	t.Helper()
	return batch.NewCoordinator(batch.Deps{
		Config:       h.cfg,
		Catalog:      h.store,
		Previews:     preview.NewResolver(h.store, logging.NewNop()),
		Sidecars:     sidecar.NewStore(logging.NewNop()),
		Generator:    h.gen,
		Reachability: reachability.NewCache(logging.NewNop()),
		Logger:       logging.NewNop(),
		Progress:     progress,
	})
}

func (h *harness) source() batch.Source {
	return batch.Source{Kind: batch.SourceCatalog, Path: h.fixture.Path()}
}

func TestRunCatalogEndToEnd(t *testing.T) {
	h := newCatalogHarness(t)
	coord := h.coordinator(t, nil)

	summary, err := coord.Run(context.Background(), h.source())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Status != batch.StatusCompleted {
		t.Fatalf("unexpected status %q", summary.Status)
	}
	want := batch.Counters{
		Analyzed: 3, Tagged: 3, CatalogWrites: 3, SidecarWrites: 3,
	}
	if summary.Counters != want {
		t.Fatalf("unexpected counters: %+v", summary.Counters)
	}

	// Both destinations carry the suffixed tags.
	got, err := h.store.Tags(context.Background(), 1)
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Beach_ai", "Sunset_ai"}) {
		t.Fatalf("unexpected catalog tags: %v", got)
	}

	sidecars := sidecar.NewStore(logging.NewNop())
	got, err = sidecars.ReadTags(filepath.Join(h.dir, "alpha.jpg"))
	if err != nil {
		t.Fatalf("ReadTags: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Sunset_ai", "Beach_ai"}) {
		t.Fatalf("unexpected sidecar tags: %v", got)
	}

	if _, err := batch.Load(h.cfg.StateFile()); !errors.Is(err, batch.ErrNoSavedState) {
		t.Fatalf("expected no saved state after completion, got %v", err)
	}
}

func TestPauseAndResume(t *testing.T) {
	h := newCatalogHarness(t)

	var coord *batch.Coordinator
	coord = h.coordinator(t, func(p batch.Progress) {
		if p.Current == 1 {
			coord.RequestPause()
		}
	})

	summary, err := coord.Run(context.Background(), h.source())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Status != batch.StatusPaused {
		t.Fatalf("unexpected status %q", summary.Status)
	}
	if summary.Processed != 1 {
		t.Fatalf("expected 1 processed before pause, got %d", summary.Processed)
	}
	if h.gen.callCount() != 1 {
		t.Fatalf("expected 1 generator call, got %d", h.gen.callCount())
	}

	st, err := batch.Load(h.cfg.StateFile())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.Current != 1 || st.Total != 3 {
		t.Fatalf("unexpected saved cursor: %+v", st)
	}

	// A fresh coordinator resumes exactly at the cursor; the first photo is
	// not re-analyzed but still fires a progress notification.
	var seen []int
	resumed := h.coordinator(t, func(p batch.Progress) {
		seen = append(seen, p.Current)
	})
	summary, err = resumed.Resume(context.Background())
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if summary.Status != batch.StatusCompleted {
		t.Fatalf("unexpected status %q", summary.Status)
	}
	if summary.Counters.Analyzed != 3 {
		t.Fatalf("expected counters carried across resume, got %+v", summary.Counters)
	}
	if h.gen.callCount() != 3 {
		t.Fatalf("expected 3 generator calls overall, got %d", h.gen.callCount())
	}
	if !reflect.DeepEqual(seen, []int{1, 2, 3}) {
		t.Fatalf("unexpected progress sequence: %v", seen)
	}
}

func TestStopDiscardsState(t *testing.T) {
	h := newCatalogHarness(t)

	var coord *batch.Coordinator
	coord = h.coordinator(t, func(p batch.Progress) {
		if p.Current == 1 {
			coord.RequestStop()
		}
	})

	summary, err := coord.Run(context.Background(), h.source())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Status != batch.StatusStopped {
		t.Fatalf("unexpected status %q", summary.Status)
	}
	if summary.Processed != 1 {
		t.Fatalf("expected 1 processed before stop, got %d", summary.Processed)
	}
	if _, err := batch.Load(h.cfg.StateFile()); !errors.Is(err, batch.ErrNoSavedState) {
		t.Fatalf("expected discarded state, got %v", err)
	}

	// A stopped run is not resumable.
	if _, err := h.coordinator(t, nil).Resume(context.Background()); !errors.Is(err, batch.ErrNoSavedState) {
		t.Fatalf("expected resume to fail after stop, got %v", err)
	}
}

func TestUnreachablePhotoSkipped(t *testing.T) {
	fixture := testsupport.NewCatalog(t)
	fixture.AddPhoto(testsupport.FixturePhoto{
		ID: 1, AbsolutePath: "/Volumes/NoSuchDrive/", BaseName: "a", Extension: "jpg", Format: "JPG",
	})
	store, err := catalog.Open(fixture.Path(), logging.NewNop())
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	h := &harness{
		cfg:     testsupport.NewConfig(t),
		fixture: fixture,
		store:   store,
		gen:     &fakeGenerator{tags: []string{"Sunset"}},
	}
	coord := h.coordinator(t, nil)

	summary, err := coord.Run(context.Background(), h.source())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Counters.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %+v", summary.Counters)
	}
	if h.gen.callCount() != 0 {
		t.Fatalf("expected no generator calls, got %d", h.gen.callCount())
	}
}

func TestRunFolderSource(t *testing.T) {
	dir := t.TempDir()
	testsupport.WritePNG(t, filepath.Join(dir, "b.png"), 4, 4)
	testsupport.WritePNG(t, filepath.Join(dir, "nested", "a.png"), 4, 4)

	cfg := testsupport.NewConfig(t, testsupport.WithDestinations(false, true))
	gen := &fakeGenerator{tags: []string{"Forest"}}
	coord := batch.NewCoordinator(batch.Deps{
		Config:       cfg,
		Sidecars:     sidecar.NewStore(logging.NewNop()),
		Generator:    gen,
		Reachability: reachability.NewCache(logging.NewNop()),
		Logger:       logging.NewNop(),
	})

	summary, err := coord.Run(context.Background(),
		batch.Source{Kind: batch.SourceFolder, Path: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Status != batch.StatusCompleted {
		t.Fatalf("unexpected status %q", summary.Status)
	}
	if summary.Counters.SidecarWrites != 2 || summary.Counters.CatalogWrites != 0 {
		t.Fatalf("unexpected counters: %+v", summary.Counters)
	}

	sidecars := sidecar.NewStore(logging.NewNop())
	got, err := sidecars.ReadTags(filepath.Join(dir, "nested", "a.png"))
	if err != nil {
		t.Fatalf("ReadTags: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Forest_ai"}) {
		t.Fatalf("unexpected sidecar tags: %v", got)
	}
}

func TestTargetedMode(t *testing.T) {
	h := newCatalogHarness(t, testsupport.WithTargetedMode("a dog", "Dog"))
	h.gen.detect = map[string]bool{"a dog": true}
	coord := h.coordinator(t, nil)

	summary, err := coord.Run(context.Background(), h.source())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Counters.Tagged != 3 {
		t.Fatalf("unexpected counters: %+v", summary.Counters)
	}

	got, err := h.store.Tags(context.Background(), 2)
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Dog_ai"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
}

func TestRunRefusedWhileLocked(t *testing.T) {
	h := newCatalogHarness(t)

	lock := flock.New(h.cfg.LockFile())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire test lock: locked=%v err=%v", locked, err)
	}
	defer func() { _ = lock.Unlock() }()

	if _, err := h.coordinator(t, nil).Run(context.Background(), h.source()); !errors.Is(err, batch.ErrRunActive) {
		t.Fatalf("expected ErrRunActive, got %v", err)
	}
}

func TestAbortOnErrorSavesState(t *testing.T) {
	h := newCatalogHarness(t)
	h.cfg.Processing.SkipOnError = false
	h.gen.err = errors.New("model offline")
	coord := h.coordinator(t, nil)

	summary, err := coord.Run(context.Background(), h.source())
	if err == nil {
		t.Fatal("expected run to abort")
	}
	if summary == nil || summary.Status != batch.StatusStopped {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	st, loadErr := batch.Load(h.cfg.StateFile())
	if loadErr != nil {
		t.Fatalf("expected saved state for resume, got %v", loadErr)
	}
	if st.Current != 1 {
		t.Fatalf("unexpected cursor %d", st.Current)
	}
}
