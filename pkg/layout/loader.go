package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-scorecontrol/pkg/document"
	"github.com/goliatone/go-scorecontrol/pkg/model"
)

// ErrInvalidScreen reports a screen definition that cannot be used.
var ErrInvalidScreen = errors.New("layout: invalid screen")

// LoadFS walks the provided filesystem and parses JSON/YAML screen files.
// When fsys is nil or no screen files are present, the returned catalog is
// empty.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{screens: make(map[string]Screen)}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isScreenFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("layout: read %s: %w", path, err)
		}

		screen, err := parseScreen(data, path)
		if err != nil {
			return err
		}
		screen.ID = strings.TrimSpace(screen.ID)
		if screen.ID == "" {
			return fmt.Errorf("%w: file %s defines a screen without id", ErrInvalidScreen, path)
		}
		if _, exists := catalog.screens[screen.ID]; exists {
			return fmt.Errorf("%w: duplicate screen %q (file %s)", ErrInvalidScreen, screen.ID, path)
		}
		if screen.Rounds == 0 {
			screen.Rounds = DefaultRounds
		}
		screen.Source = path
		if err := screen.Validate(); err != nil {
			return err
		}
		catalog.screens[screen.ID] = screen
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

func parseScreen(data []byte, source string) (Screen, error) {
	var screen Screen
	if len(strings.TrimSpace(string(data))) == 0 {
		return Screen{}, fmt.Errorf("%w: file %s is empty", ErrInvalidScreen, source)
	}

	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &screen); err != nil {
			return Screen{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidScreen, source, err)
		}
		return screen, nil
	}

	if err := yaml.Unmarshal(data, &screen); err != nil {
		return Screen{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidScreen, source, err)
	}
	return screen, nil
}

// Validate checks every layout, path and action of the screen.
func (s Screen) Validate() error {
	wrap := func(part string, err error) error {
		return fmt.Errorf("%w: screen %q %s: %v", ErrInvalidScreen, s.ID, part, err)
	}

	if s.Rounds < 0 {
		return wrap("rounds", fmt.Errorf("negative round count %d", s.Rounds))
	}
	if err := s.Header.Validate(); err != nil {
		return wrap("header", err)
	}
	if len(s.Columns) == 0 {
		return wrap("columns", errors.New("at least one column is required"))
	}
	for _, col := range s.Columns {
		if err := col.Fields.Validate(); err != nil {
			return wrap("column "+col.Name, err)
		}
		if len(col.Round) == 0 {
			continue
		}
		if _, err := document.ParsePath(col.RoundsPath); err != nil {
			return wrap("column "+col.Name+" roundsPath", err)
		}
		if err := col.RoundLayout(0).Validate(); err != nil {
			return wrap("column "+col.Name+" round", err)
		}
	}
	for _, list := range s.Lists {
		if _, err := document.ParsePath(list.Path); err != nil {
			return wrap("list "+list.Title, err)
		}
		if err := list.Fields.Validate(); err != nil {
			return wrap("list "+list.Title, err)
		}
	}
	for _, action := range s.Actions {
		if action.ID == "" {
			return wrap("action", fmt.Errorf("action %q has no id", action.Label))
		}
		for _, set := range action.Set {
			if _, err := document.ParsePath(set.Path); err != nil {
				return wrap("action "+action.ID, err)
			}
			if _, err := model.ResetScalar(set.Value); err != nil {
				return wrap("action "+action.ID, err)
			}
		}
	}
	for _, file := range s.Overlay {
		if strings.TrimSpace(file.File) == "" || filepath.IsAbs(file.File) || strings.Contains(file.File, "..") {
			return wrap("overlay", fmt.Errorf("file name %q must be a relative name", file.File))
		}
		if _, err := document.ParsePath(file.Path); err != nil {
			return wrap("overlay "+file.File, err)
		}
	}
	return nil
}

func isScreenFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
