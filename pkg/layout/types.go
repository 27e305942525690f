package layout

import (
	"sort"

	"github.com/goliatone/go-scorecontrol/pkg/model"
)

// DefaultRounds is the number of round tabs when a screen leaves it unset.
const DefaultRounds = 5

// Catalog keeps the parsed screens. It is safe for concurrent readers when
// treated as immutable after construction.
type Catalog struct {
	screens map[string]Screen
}

// Screen describes one game's scoreboard.
type Screen struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Source string `json:"-" yaml:"-"`
	// Rounds is the number of round tabs rendered per column.
	Rounds int `json:"rounds" yaml:"rounds"`
	// Header holds fields shown above both columns.
	Header  model.Layout  `json:"header" yaml:"header"`
	Columns []Column      `json:"columns" yaml:"columns"`
	Lists   []List        `json:"lists" yaml:"lists"`
	Actions []Action      `json:"actions" yaml:"actions"`
	Overlay []OverlayFile `json:"overlay" yaml:"overlay"`
}

// Column is one player's side of the board.
type Column struct {
	Name   string       `json:"name" yaml:"name"`
	Title  string       `json:"title" yaml:"title"`
	Fields model.Layout `json:"fields" yaml:"fields"`
	// RoundsPath is the array holding one score record per round. The board
	// grows it to the screen's round count before binding round fields.
	RoundsPath string `json:"roundsPath" yaml:"roundsPath"`
	// Round is expanded once per round with {roundNumber} and {roundIndex}.
	Round model.Layout `json:"round" yaml:"round"`
}

// List is a record list edited in its own tab.
type List struct {
	Title  string       `json:"title" yaml:"title"`
	Tab    string       `json:"tab" yaml:"tab"`
	Path   string       `json:"path" yaml:"path"`
	Fields model.Layout `json:"fields" yaml:"fields"`
}

// Action writes fixed values with one click.
type Action struct {
	ID    string       `json:"id" yaml:"id"`
	Label string       `json:"label" yaml:"label"`
	Set   []Assignment `json:"set" yaml:"set"`
}

// Assignment is a single path/value write.
type Assignment struct {
	Path  string `json:"path" yaml:"path"`
	Value any    `json:"value" yaml:"value"`
}

// OverlayFile maps a document path to a text file read by the streaming
// software.
type OverlayFile struct {
	File string `json:"file" yaml:"file"`
	Path string `json:"path" yaml:"path"`
}

// Screen returns the screen registered under id.
func (c *Catalog) Screen(id string) (Screen, bool) {
	if c == nil {
		return Screen{}, false
	}
	s, ok := c.screens[id]
	return s, ok
}

// IDs returns the screen ids, sorted.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.screens))
	for id := range c.screens {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the catalog holds any screens.
func (c *Catalog) Empty() bool {
	return c == nil || len(c.screens) == 0
}

// Action returns the action with id.
func (s Screen) Action(id string) (Action, bool) {
	for _, a := range s.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// RoundLayout expands the column's round template for the zero based round
// index.
func (c Column) RoundLayout(index int) model.Layout {
	return c.Round.Expand(model.RoundVars(index))
}
