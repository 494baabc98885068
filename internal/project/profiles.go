// Package project persists named bin-spec presets (e.g. "40ft reefer", "EUR
// pallet cage") so a caller can reuse a container shape and tuning across
// runs without repeating it on every request.
package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/moschd/binstow/internal/model"
)

// DefaultProfilesDir returns the default directory for storing custom presets.
func DefaultProfilesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(configDir, "binstow")
	return dir, nil
}

// DefaultProfilesPath returns the default file path for custom presets.
func DefaultProfilesPath() (string, error) {
	dir, err := DefaultProfilesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "presets.json"), nil
}

// SaveCustomProfiles saves custom bin presets to a JSON file.
func SaveCustomProfiles(path string, presets []model.BinPreset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomProfiles loads custom bin presets from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.BinPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.BinPreset{}, nil
		}
		return nil, err
	}

	var presets []model.BinPreset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, err
	}

	// Ensure loaded presets are not marked as built-in
	for i := range presets {
		presets[i].IsBuiltIn = false
	}
	return presets, nil
}

// SaveCustomProfilesToDefault saves custom presets to the default path.
func SaveCustomProfilesToDefault(presets []model.BinPreset) error {
	path, err := DefaultProfilesPath()
	if err != nil {
		return err
	}
	return SaveCustomProfiles(path, presets)
}

// LoadCustomProfilesFromDefault loads custom presets from the default path.
func LoadCustomProfilesFromDefault() ([]model.BinPreset, error) {
	path, err := DefaultProfilesPath()
	if err != nil {
		return nil, err
	}
	return LoadCustomProfiles(path)
}

// ExportProfile exports a single preset to a JSON file (for sharing).
func ExportProfile(path string, preset model.BinPreset) error {
	preset.IsBuiltIn = false
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile imports a single preset from a JSON file.
func ImportProfile(path string) (model.BinPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.BinPreset{}, err
	}

	var preset model.BinPreset
	if err := json.Unmarshal(data, &preset); err != nil {
		return model.BinPreset{}, err
	}

	preset.IsBuiltIn = false
	if preset.Name == "" {
		return model.BinPreset{}, errors.New("imported preset has no name")
	}
	return preset, nil
}

// BuiltInProfiles returns a handful of common container shapes shipped with
// the tool. They are not persisted; callers may save a copy of one as a
// custom preset via SaveCustomProfiles.
func BuiltInProfiles() []model.BinPreset {
	return []model.BinPreset{
		{
			Name:        "20ft standard container",
			Description: "ISO 20' dry container, interior mm",
			IsBuiltIn:   true,
			Bin: model.BinSpec{
				Type:             "20ft-standard",
				Width:            5898,
				Depth:            2352,
				Height:           2393,
				MaxWeight:        28200,
				GravityStrength:  100,
				SortMethod:       model.SortVolume,
				PackingDirection: model.PackingBottomUp,
			},
		},
		{
			Name:        "40ft reefer container",
			Description: "ISO 40' refrigerated container, interior mm",
			IsBuiltIn:   true,
			Bin: model.BinSpec{
				Type:             "40ft-reefer",
				Width:            11560,
				Depth:            2290,
				Height:           2260,
				MaxWeight:        27700,
				GravityStrength:  100,
				SortMethod:       model.SortVolume,
				PackingDirection: model.PackingBottomUp,
			},
		},
		{
			Name:        "EUR pallet cage",
			Description: "EUR pallet cage, interior mm",
			IsBuiltIn:   true,
			Bin: model.BinSpec{
				Type:             "eur-pallet-cage",
				Width:            1200,
				Depth:            800,
				Height:           970,
				MaxWeight:        500,
				GravityStrength:  100,
				SortMethod:       model.SortOptimized,
				PackingDirection: model.PackingBottomUp,
			},
		},
	}
}
