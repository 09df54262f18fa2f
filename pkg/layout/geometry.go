package layout

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/drawbridge/pkg/errors"
)

// Geometry bundles the spacing and sizing constants for every diagram kind.
// All values are page units. The zero value is unusable; start from
// [DefaultGeometry] and override selectively, which is also how TOML config
// files are applied.
type Geometry struct {
	Flowchart FlowchartGeometry `toml:"flowchart"`
	Sequence  SequenceGeometry  `toml:"sequence"`
	ER        ERGeometry        `toml:"er"`
	State     StateGeometry     `toml:"state"`
}

// FlowchartGeometry sizes flowchart nodes and the leveled rows or columns
// they are arranged into. Canvas dimensions are only used for centering
// levels, not for clipping.
type FlowchartGeometry struct {
	NodeWidth    int `toml:"node_width"`
	NodeHeight   int `toml:"node_height"`
	SpacingX     int `toml:"spacing_x"`
	SpacingY     int `toml:"spacing_y"`
	OffsetX      int `toml:"offset_x"`
	OffsetY      int `toml:"offset_y"`
	CanvasWidth  int `toml:"canvas_width"`
	CanvasHeight int `toml:"canvas_height"`
}

// SequenceGeometry sizes the single participant row.
type SequenceGeometry struct {
	NodeWidth  int `toml:"node_width"`
	NodeHeight int `toml:"node_height"`
	SpacingX   int `toml:"spacing_x"`
	OffsetX    int `toml:"offset_x"`
	OffsetY    int `toml:"offset_y"`
}

// ERGeometry sizes the entity grid. Entity height grows with the attribute
// count: header plus one attribute row each, never below the base height.
type ERGeometry struct {
	NodeWidth    int `toml:"node_width"`
	BaseHeight   int `toml:"base_height"`
	HeaderHeight int `toml:"header_height"`
	AttrHeight   int `toml:"attr_height"`
	SpacingX     int `toml:"spacing_x"`
	SpacingY     int `toml:"spacing_y"`
	OffsetX      int `toml:"offset_x"`
	OffsetY      int `toml:"offset_y"`
}

// StateGeometry sizes the state grid.
type StateGeometry struct {
	NodeWidth  int `toml:"node_width"`
	NodeHeight int `toml:"node_height"`
	SpacingX   int `toml:"spacing_x"`
	SpacingY   int `toml:"spacing_y"`
	OffsetX    int `toml:"offset_x"`
	OffsetY    int `toml:"offset_y"`
}

// DefaultGeometry returns the built-in layout constants. Canvas dimensions
// match the serializer's A4 page size so centered levels land on the page.
func DefaultGeometry() Geometry {
	return Geometry{
		Flowchart: FlowchartGeometry{
			NodeWidth:    150,
			NodeHeight:   80,
			SpacingX:     200,
			SpacingY:     150,
			OffsetX:      50,
			OffsetY:      50,
			CanvasWidth:  827,
			CanvasHeight: 1169,
		},
		Sequence: SequenceGeometry{
			NodeWidth:  150,
			NodeHeight: 60,
			SpacingX:   200,
			OffsetX:    50,
			OffsetY:    50,
		},
		ER: ERGeometry{
			NodeWidth:    200,
			BaseHeight:   100,
			HeaderHeight: 30,
			AttrHeight:   20,
			SpacingX:     250,
			SpacingY:     200,
			OffsetX:      50,
			OffsetY:      50,
		},
		State: StateGeometry{
			NodeWidth:  150,
			NodeHeight: 70,
			SpacingX:   200,
			SpacingY:   150,
			OffsetX:    50,
			OffsetY:    50,
		},
	}
}

// LoadGeometry reads a TOML file and overlays it on the defaults, so a config
// only needs to name the values it changes.
func LoadGeometry(path string) (Geometry, error) {
	g := DefaultGeometry()

	data, err := os.ReadFile(path)
	if err != nil {
		return g, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read geometry config")
	}
	if err := toml.Unmarshal(data, &g); err != nil {
		return g, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse geometry config")
	}
	return g, nil
}
