package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"phototag/internal/config"
)

const stateVersion = 1

// ErrNoSavedState is returned by Load when no paused run exists.
var ErrNoSavedState = errors.New("no saved batch state")

// Counters tracks per-run outcomes. Analyzed counts photos that reached
// the model; Tagged counts those that ended up with at least one new tag.
type Counters struct {
	Analyzed       int `json:"analyzed"`
	Tagged         int `json:"tagged"`
	CatalogWrites  int `json:"catalog_writes"`
	SidecarWrites  int `json:"sidecar_writes"`
	SidecarSkipped int `json:"sidecar_skipped"`
	Skipped        int `json:"skipped"`
	Failed         int `json:"failed"`
}

// State is the serialized form of a paused run. The settings snapshot lets
// Resume detect and reject a config that drifted while paused in ways that
// would change what the cursor means.
type State struct {
	Version      int                 `json:"version"`
	SavedAt      time.Time           `json:"saved_at"`
	Source       Source              `json:"source"`
	Destinations config.Destinations `json:"destinations"`
	Model        string              `json:"model"`
	Mode         string              `json:"mode"`
	Mappings     []config.Mapping    `json:"mappings,omitempty"`
	Current      int                 `json:"current"`
	Total        int                 `json:"total"`
	Counters     Counters            `json:"counters"`
}

// Save writes the state atomically so a crash mid-save leaves either the
// previous state or the new one, never a torn file.
func Save(path string, st *State) error {
	st.Version = stateVersion
	st.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode batch state: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write batch state: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename batch state: %w", err)
	}
	return nil
}

// Load reads a previously saved state. A missing file yields
// ErrNoSavedState; an unreadable or version-mismatched file is an error so
// the caller can tell the user rather than silently restart.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSavedState
		}
		return nil, fmt.Errorf("read batch state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse batch state %s: %w", path, err)
	}
	if st.Version != stateVersion {
		return nil, fmt.Errorf("batch state version %d not supported", st.Version)
	}
	return &st, nil
}

// Discard removes the saved state. Absence is not an error.
func Discard(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("discard batch state: %w", err)
	}
	return nil
}
