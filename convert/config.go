package convert

import "fmt"

// Config is the immutable stencil configuration. It is resolved once
// before the pipeline runs and threaded by value through every stage;
// identical inputs and Config always produce an identical solid tree.
type Config struct {
	// Thickness is the stencil plate thickness in mm.
	Thickness float64 `toml:"thickness"`

	// LedgeEnabled adds an alignment ledge around the board outline.
	LedgeEnabled bool `toml:"ledge"`
	// LedgeFullPerimeter keeps the whole ledge ring instead of the
	// default half, which leaves one board side free for finger access.
	LedgeFullPerimeter bool `toml:"ledge_full_perimeter"`
	// LedgeThickness is the ledge extrusion height in mm. It should not
	// exceed the PCB thickness and must be at least the plate thickness.
	LedgeThickness float64 `toml:"ledge_thickness"`
	// Gap is the width in mm of the ledge ring around the outline.
	Gap float64 `toml:"gap"`

	// HoleSizeIncrease uniformly grows (or, negative, shrinks) every
	// pad hole boundary in mm.
	HoleSizeIncrease float64 `toml:"hole_size_increase"`

	// FlipStencil mirrors the stencil for bottom-layer boards.
	FlipStencil bool `toml:"flip"`

	// FrameEnabled adds a rectangular frame instead of a ledge; ignored
	// when LedgeEnabled is set.
	FrameEnabled   bool    `toml:"frame"`
	FrameWidth     float64 `toml:"frame_width"`
	FrameHeight    float64 `toml:"frame_height"`
	FrameThickness float64 `toml:"frame_thickness"`

	// StencilWidth, StencilHeight and StencilMargin control the
	// generated outline when no outline drawing is supplied: either a
	// forced width/height or the paste bounding box plus margin.
	StencilWidth  float64 `toml:"stencil_width"`
	StencilHeight float64 `toml:"stencil_height"`
	StencilMargin float64 `toml:"stencil_margin"`
}

// DefaultConfig returns the documented defaults: a 0.2mm plate with a
// half-perimeter ledge of 1.2mm thickness.
func DefaultConfig() Config {
	return Config{
		Thickness:      0.2,
		LedgeEnabled:   true,
		LedgeThickness: 1.2,
		FrameThickness: 1.2,
	}
}

// Validate reports configurations that cannot produce a printable
// stencil.
func (c Config) Validate() error {
	if c.Thickness <= 0 {
		return fmt.Errorf("thickness must be positive, got %g", c.Thickness)
	}
	if c.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %g", c.Gap)
	}
	if c.LedgeEnabled && c.LedgeThickness < c.Thickness {
		return fmt.Errorf("ledge thickness %g must be at least stencil thickness %g", c.LedgeThickness, c.Thickness)
	}
	if c.FrameEnabled && !c.LedgeEnabled {
		if c.FrameThickness < c.Thickness {
			return fmt.Errorf("frame thickness %g must be at least stencil thickness %g", c.FrameThickness, c.Thickness)
		}
		if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
			return fmt.Errorf("frame requires positive width and height")
		}
	}
	return nil
}
