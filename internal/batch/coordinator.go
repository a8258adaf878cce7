package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"phototag/internal/catalog"
	"phototag/internal/config"
	"phototag/internal/imaging"
	"phototag/internal/logging"
	"phototag/internal/preview"
	"phototag/internal/reachability"
	"phototag/internal/sidecar"
	"phototag/internal/tagger"
	"phototag/internal/tags"
)

// Status is the coordinator's run state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusStopped   Status = "stopped"
	StatusCompleted Status = "completed"
)

// ErrRunActive is returned when another process holds the run lock.
var ErrRunActive = errors.New("another tagging run is active")

// Progress is delivered to the progress callback after every photo.
type Progress struct {
	Current  int
	Total    int
	Photo    string
	Counters Counters
}

// ProgressFunc receives per-photo progress updates.
type ProgressFunc func(Progress)

// Summary describes how a run ended.
type Summary struct {
	Status    Status
	Processed int
	Total     int
	Counters  Counters
}

// Deps wires the coordinator to its collaborators. Catalog and Previews
// are nil for folder-only runs; Sidecars may be nil when the sidecar
// destination is disabled.
type Deps struct {
	Config       *config.Config
	Catalog      *catalog.Store
	Previews     *preview.Resolver
	Sidecars     *sidecar.Store
	Generator    tagger.Generator
	Reachability *reachability.Cache
	Logger       *slog.Logger
	Progress     ProgressFunc
}

// Coordinator drives one tagging run at a time.
type Coordinator struct {
	cfg       *config.Config
	store     *catalog.Store
	previews  *preview.Resolver
	sidecars  *sidecar.Store
	generator tagger.Generator
	reach     *reachability.Cache
	logger    *slog.Logger
	progress  ProgressFunc

	mu     sync.Mutex
	status Status

	pauseRequested atomic.Bool
	stopRequested  atomic.Bool
}

// NewCoordinator constructs a coordinator in the Idle state.
func NewCoordinator(deps Deps) *Coordinator {
	return &Coordinator{
		cfg:       deps.Config,
		store:     deps.Catalog,
		previews:  deps.Previews,
		sidecars:  deps.Sidecars,
		generator: deps.Generator,
		reach:     deps.Reachability,
		logger:    logging.NewComponentLogger(deps.Logger, "batch"),
		progress:  deps.Progress,
		status:    StatusIdle,
	}
}

// Status returns the coordinator's current state.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// RequestPause asks the run to pause after the current photo.
func (c *Coordinator) RequestPause() {
	c.pauseRequested.Store(true)
}

// RequestStop asks the run to stop after the current photo, discarding any
// saved state.
func (c *Coordinator) RequestStop() {
	c.stopRequested.Store(true)
}

// Run starts a fresh run over the given source.
func (c *Coordinator) Run(ctx context.Context, source Source) (*Summary, error) {
	items, err := c.buildItems(ctx, source)
	if err != nil {
		return nil, err
	}
	st := &State{
		Source:       source,
		Destinations: c.cfg.Destinations,
		Model:        c.cfg.Ollama.Model,
		Mode:         c.cfg.Tagging.Mode,
		Mappings:     c.cfg.Tagging.Mappings,
		Total:        len(items),
	}
	return c.process(ctx, st, items)
}

// Resume continues a previously paused run from its saved cursor. The photo
// set is rebuilt from the saved source; a changed set invalidates the
// cursor and is an error.
func (c *Coordinator) Resume(ctx context.Context) (*Summary, error) {
	st, err := Load(c.cfg.StateFile())
	if err != nil {
		return nil, err
	}
	items, err := c.buildItems(ctx, st.Source)
	if err != nil {
		return nil, err
	}
	if len(items) != st.Total {
		return nil, fmt.Errorf("photo set changed while paused: had %d photos, now %d", st.Total, len(items))
	}

	c.logger.Info("resuming run",
		logging.Int("cursor", st.Current),
		logging.Int("total", st.Total),
		logging.String("source", st.Source.Path))
	return c.process(ctx, st, items)
}

func (c *Coordinator) buildItems(ctx context.Context, source Source) ([]Item, error) {
	switch source.Kind {
	case SourceCatalog:
		if c.store == nil {
			return nil, errors.New("catalog source requires an open catalog")
		}
		return CatalogItems(ctx, c.store)
	case SourceFolder:
		return FolderItems(source.Path, c.cfg.Processing.Extensions)
	default:
		return nil, fmt.Errorf("unknown source kind %q", source.Kind)
	}
}

func (c *Coordinator) process(ctx context.Context, st *State, items []Item) (*Summary, error) {
	lock := flock.New(c.cfg.LockFile())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrRunActive
	}
	defer func() {
		_ = lock.Unlock()
	}()

	c.pauseRequested.Store(false)
	c.stopRequested.Store(false)
	if c.reach != nil {
		c.reach.Reset()
	}
	c.setStatus(StatusRunning)

	// On resume, replay progress for the photos already done so observers
	// start from the right position.
	if c.progress != nil {
		for i := 0; i < st.Current && i < len(items); i++ {
			c.progress(Progress{
				Current:  i + 1,
				Total:    st.Total,
				Photo:    items[i].FileName,
				Counters: st.Counters,
			})
		}
	}

	for i := st.Current; i < len(items); i++ {
		if c.stopRequested.Load() {
			if err := Discard(c.cfg.StateFile()); err != nil {
				return nil, err
			}
			c.setStatus(StatusStopped)
			c.logger.Info("run stopped", logging.Int("processed", st.Current))
			return c.summary(st), nil
		}
		if c.pauseRequested.Load() {
			return c.pause(st)
		}
		if ctx.Err() != nil {
			if _, err := c.pause(st); err != nil {
				return nil, err
			}
			return c.summary(st), ctx.Err()
		}

		item := items[i]
		if err := c.processPhoto(ctx, st, item); err != nil {
			st.Counters.Failed++
			c.logger.Error("photo failed",
				logging.Int64(logging.FieldPhotoID, item.CatalogID),
				logging.String(logging.FieldPhotoPath, item.Path),
				logging.Error(err))
			if !c.cfg.Processing.SkipOnError {
				st.Current = i + 1
				if saveErr := Save(c.cfg.StateFile(), st); saveErr != nil {
					return nil, errors.Join(err, saveErr)
				}
				c.setStatus(StatusStopped)
				return c.summary(st), err
			}
		}
		st.Current = i + 1

		if c.progress != nil {
			c.progress(Progress{
				Current:  st.Current,
				Total:    st.Total,
				Photo:    item.FileName,
				Counters: st.Counters,
			})
		}
	}

	if err := Discard(c.cfg.StateFile()); err != nil {
		return nil, err
	}
	c.setStatus(StatusCompleted)
	c.logger.Info("run completed",
		logging.Int("analyzed", st.Counters.Analyzed),
		logging.Int("tagged", st.Counters.Tagged),
		logging.Int("failed", st.Counters.Failed))
	return c.summary(st), nil
}

func (c *Coordinator) pause(st *State) (*Summary, error) {
	if err := Save(c.cfg.StateFile(), st); err != nil {
		return nil, err
	}
	c.setStatus(StatusPaused)
	c.logger.Info("run paused",
		logging.Int("cursor", st.Current),
		logging.Int("total", st.Total))
	return c.summary(st), nil
}

// processPhoto runs the full pipeline for one photo: rendition, model,
// destination writes. Destinations are independent; one failing does not
// keep tags out of the other.
func (c *Coordinator) processPhoto(ctx context.Context, st *State, item Item) error {
	img, err := c.resolveImage(ctx, item)
	if err != nil {
		return err
	}
	if img == nil {
		st.Counters.Skipped++
		c.logger.Debug("no usable rendition",
			logging.Int64(logging.FieldPhotoID, item.CatalogID),
			logging.String(logging.FieldPhotoPath, item.Path))
		return nil
	}

	generated, err := c.generateTags(ctx, st, img)
	if err != nil {
		return err
	}
	st.Counters.Analyzed++
	if len(generated) == 0 {
		return nil
	}
	if c.cfg.Tagging.SuffixEnabled {
		generated = tags.ApplySuffix(generated, c.cfg.Tagging.Suffix)
	}

	var writeErrs []error
	tagged := false

	if st.Destinations.Catalog && item.CatalogID != 0 && c.store != nil {
		added, err := c.store.AddTags(ctx, item.CatalogID, generated)
		if err != nil {
			writeErrs = append(writeErrs, fmt.Errorf("catalog write: %w", err))
		} else {
			tagged = true
			if added > 0 {
				st.Counters.CatalogWrites++
			}
		}
	}

	if st.Destinations.Sidecar && c.sidecars != nil {
		switch {
		case item.Path == "" || !c.reach.Reachable(item.Path):
			st.Counters.SidecarSkipped++
			c.logger.Debug("sidecar skipped, photo directory unreachable",
				logging.String(logging.FieldPhotoPath, item.Path))
		default:
			if err := c.sidecars.WriteTags(item.Path, generated); err != nil {
				writeErrs = append(writeErrs, fmt.Errorf("sidecar write: %w", err))
			} else {
				tagged = true
				st.Counters.SidecarWrites++
			}
		}
	}

	if tagged {
		st.Counters.Tagged++
	}
	return errors.Join(writeErrs...)
}

// resolveImage picks the rendition to analyze: catalog previews first, the
// original file only when its mount is reachable. A nil image with nil
// error means the photo has nothing usable and should be skipped.
func (c *Coordinator) resolveImage(ctx context.Context, item Item) (image.Image, error) {
	if c.previews != nil && item.CatalogID != 0 {
		asset, err := c.previews.Resolve(ctx, item.CatalogID)
		if err != nil {
			return nil, err
		}
		if asset != nil {
			return asset.Image, nil
		}
	}

	if item.Path == "" || !c.reach.Reachable(item.Path) {
		return nil, nil
	}
	img, _, err := imaging.LoadFile(item.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return img, nil
}

func (c *Coordinator) generateTags(ctx context.Context, st *State, img image.Image) ([]string, error) {
	if st.Mode == "targeted" {
		var out []string
		for _, mapping := range st.Mappings {
			detected, err := c.generator.Detect(ctx, img, mapping.Criterion)
			if err != nil {
				return nil, err
			}
			if detected {
				out = append(out, mapping.Tag)
			}
		}
		return tags.Normalize(out), nil
	}
	return c.generator.GenerateTags(ctx, img)
}

func (c *Coordinator) summary(st *State) *Summary {
	return &Summary{
		Status:    c.Status(),
		Processed: st.Current,
		Total:     st.Total,
		Counters:  st.Counters,
	}
}

func (c *Coordinator) setStatus(status Status) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}
