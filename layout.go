package rbmk

import (
	"fmt"

	"github.com/spf13/viper"
)

// noNeighbor is the neighbor-list sentinel for "no channel in this direction".
const noNeighbor = -1

// Channel is one entry of the immutable core layout (§3): a stable index,
// integer grid coordinates, a Cartesian centre in centimetres, and a
// category. Channels never move or get renumbered once a CoreLayout is
// built.
type Channel struct {
	Index    int
	GridI    int
	GridJ    int
	X, Y     float64 // Cartesian centre, cm
	Category RodCategory
}

// CoreLayout is the immutable channel/neighbor description the spatial
// engine (C6) operates over. Neighbors is a flat array of length N·4 (up,
// down, left, right), using noNeighbor as the no-neighbor sentinel, so the
// spatial pass can walk it without allocating (per the design note on
// neighbor topology).
type CoreLayout struct {
	Channels  []Channel
	Neighbors []int
}

// N returns the channel count.
func (l *CoreLayout) N() int {
	return len(l.Channels)
}

// NeighborsOf returns the up-to-four neighbor indices of channel i, each
// either a valid channel index or noNeighbor.
func (l *CoreLayout) NeighborsOf(i int) [4]int {
	var out [4]int
	copy(out[:], l.Neighbors[i*4:i*4+4])
	return out
}

// ChannelsByCategory returns the indices of every channel of the given
// category, in stable index order. This is a convenience read over
// get_fuel_channels (§6) so a consumer inspecting one rod group does not
// have to linear-scan the whole layout itself.
func (l *CoreLayout) ChannelsByCategory(cat RodCategory) []int {
	idx := make([]int, 0)
	for _, ch := range l.Channels {
		if ch.Category == cat {
			idx = append(idx, ch.Index)
		}
	}
	return idx
}

// gridKey packs grid coordinates into a lookup key for neighbor discovery.
type gridKey struct{ i, j int }

// buildLayoutFromCells assembles a CoreLayout from a flat list of (category,
// i, j) cells, computing Cartesian centres and the flat neighbor array. Cell
// order determines channel index order (I3/I6 — index order must be stable
// once assigned).
func buildLayoutFromCells(cells []cellSpec) *CoreLayout {
	channels := make([]Channel, len(cells))
	lookup := make(map[gridKey]int, len(cells))
	for idx, c := range cells {
		channels[idx] = Channel{
			Index:    idx,
			GridI:    c.i,
			GridJ:    c.j,
			X:        float64(c.i) * ChannelPitch,
			Y:        float64(c.j) * ChannelPitch,
			Category: c.category,
		}
		lookup[gridKey{c.i, c.j}] = idx
	}

	neighbors := make([]int, len(channels)*4)
	dirs := [4]gridKey{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for idx, ch := range channels {
		for d, dir := range dirs {
			if other, ok := lookup[gridKey{ch.GridI + dir.i, ch.GridJ + dir.j}]; ok {
				neighbors[idx*4+d] = other
			} else {
				neighbors[idx*4+d] = noNeighbor
			}
		}
	}
	return &CoreLayout{Channels: channels, Neighbors: neighbors}
}

type cellSpec struct {
	i, j     int
	category RodCategory
}

// DefaultLayout generates the built-in circular-lattice core layout used
// when no layout file is configured (§6's "layout-description file" input
// is an external, swappable artifact; this is the core's fallback so the
// module is runnable standalone). It approximates the ~1661-channel RBMK
// lattice described in spec.md §2 with a circular mask over a square grid
// and a deterministic rod-placement pattern.
func DefaultLayout() *CoreLayout {
	const radius = 23
	cells := make([]cellSpec, 0, 1700)
	n := 0
	for i := -radius; i <= radius; i++ {
		for j := -radius; j <= radius; j++ {
			if i*i+j*j > radius*radius {
				continue
			}
			cat := categoryForCell(i, j)
			cells = append(cells, cellSpec{i: i, j: j, category: cat})
			n++
		}
	}
	return buildLayoutFromCells(cells)
}

// layoutCell is the on-disk shape of one entry in the layout-description
// file (§6: "a keyed mapping from channel category to a sequence of
// {grid_x, grid_y} pairs").
type layoutCell struct {
	GridX int `mapstructure:"grid_x"`
	GridY int `mapstructure:"grid_y"`
}

// categoryNames maps the layout file's string keys onto RodCategory, the
// inverse of RodCategory.String().
var categoryNames = map[string]RodCategory{
	"fuel":            CategoryFuel,
	"manual":          CategoryManualRod,
	"automatic":       CategoryAutomaticRod,
	"local-automatic": CategoryLocalAutomaticRod,
	"shortened":       CategoryShortenedRod,
	"emergency":       CategoryEmergencyRod,
}

// LoadLayout reads an immutable core-layout description from a TOML/YAML/
// JSON file (viper auto-detects by extension), a keyed mapping from channel
// category name to a sequence of {grid_x, grid_y} pairs, and builds a
// CoreLayout from it the same way DefaultLayout builds its built-in one.
// Map iteration order is not guaranteed by Go, so channel index order across
// categories is not reproducible between loads of the same file; callers
// that need a stable index order across runs should prefer DefaultLayout.
func LoadLayout(path string) (*CoreLayout, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("rbmk: reading layout %s: %w", path, err)
	}

	var raw map[string][]layoutCell
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("rbmk: parsing layout %s: %w", path, err)
	}

	cells := make([]cellSpec, 0, 1700)
	for name, coords := range raw {
		cat, ok := categoryNames[name]
		if !ok {
			return nil, fmt.Errorf("rbmk: layout %s: unknown channel category %q", path, name)
		}
		for _, c := range coords {
			cells = append(cells, cellSpec{i: c.GridX, j: c.GridY, category: cat})
		}
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("rbmk: layout %s: no channels defined", path)
	}
	return buildLayoutFromCells(cells), nil
}

// categoryForCell assigns a deterministic rod/fuel category to a grid cell.
// Roughly one cell in twenty carries a rod (84 of DefaultLayout's 1653
// channels), each category on its own sub-lattice so every category is
// represented; the remainder are plain fuel channels.
func categoryForCell(i, j int) RodCategory {
	// Keep the very centre as fuel so no emergency rod sits on the innermost
	// cell.
	if i == 0 && j == 0 {
		return CategoryFuel
	}
	switch {
	case i%8 == 0 && j%8 == 0:
		return CategoryEmergencyRod
	case i%8 == 0 && j%8 == 4:
		return CategoryAutomaticRod
	case i%8 == 4 && j%8 == 0:
		return CategoryLocalAutomaticRod
	case i%8 == 4 && j%8 == 4:
		return CategoryShortenedRod
	case i%4 == 2 && j%4 == 2:
		return CategoryManualRod
	default:
		return CategoryFuel
	}
}
