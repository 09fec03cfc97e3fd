package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/stencilgen/stencilgen/convert"
	"github.com/stencilgen/stencilgen/gerber"
	"github.com/stencilgen/stencilgen/scad"
)

// convertOpts holds the command-line flags for the root conversion
// command. The embedded Config carries the geometry parameters; the
// remaining fields control input and output handling.
type convertOpts struct {
	cfg        convert.Config
	configFile string // optional TOML file seeding cfg before flags apply
	noLedge    bool   // inverse of cfg.LedgeEnabled, friendlier as a flag
}

func defaultConvertOpts() convertOpts {
	return convertOpts{cfg: convert.DefaultConfig()}
}

func (o *convertOpts) register(fs *pflag.FlagSet) {
	fs.Float64VarP(&o.cfg.Thickness, "thickness", "t", o.cfg.Thickness, "stencil plate thickness in mm")
	fs.BoolVarP(&o.noLedge, "no-ledge", "n", false, "omit the positioning ledge")
	fs.BoolVar(&o.cfg.LedgeFullPerimeter, "full-perimeter", o.cfg.LedgeFullPerimeter, "keep the ledge around the whole perimeter instead of one half")
	fs.Float64VarP(&o.cfg.LedgeThickness, "ledge-thickness", "L", o.cfg.LedgeThickness, "ledge thickness in mm")
	fs.Float64VarP(&o.cfg.Gap, "gap", "g", o.cfg.Gap, "clearance between board outline and ledge in mm")
	fs.Float64VarP(&o.cfg.HoleSizeIncrease, "increase-hole-size", "i", o.cfg.HoleSizeIncrease, "grow (or shrink, if negative) every hole by this many mm")
	fs.BoolVar(&o.cfg.FlipStencil, "flip", o.cfg.FlipStencil, "mirror the stencil for bottom-layer paste")
	fs.BoolVar(&o.cfg.FrameEnabled, "frame", o.cfg.FrameEnabled, "surround the stencil with a rectangular frame instead of a ledge")
	fs.Float64Var(&o.cfg.FrameWidth, "frame-width", o.cfg.FrameWidth, "outer frame width in mm")
	fs.Float64Var(&o.cfg.FrameHeight, "frame-height", o.cfg.FrameHeight, "outer frame height in mm")
	fs.Float64Var(&o.cfg.FrameThickness, "frame-thickness", o.cfg.FrameThickness, "frame thickness in mm")
	fs.Float64Var(&o.cfg.StencilWidth, "width", o.cfg.StencilWidth, "force stencil width in mm (outline-less mode)")
	fs.Float64Var(&o.cfg.StencilHeight, "height", o.cfg.StencilHeight, "force stencil height in mm (outline-less mode)")
	fs.Float64Var(&o.cfg.StencilMargin, "margin", o.cfg.StencilMargin, "margin around the paste bounding box in mm (outline-less mode)")
	fs.StringVarP(&o.configFile, "config", "c", "", "TOML file with default settings, overridden by flags")
}

// resolve merges the optional TOML defaults file with the parsed
// flags. Flags the user passed win over the file, the file wins over
// the built-in defaults.
func (o *convertOpts) resolve(fs *pflag.FlagSet) (convert.Config, error) {
	cfg := o.cfg
	if o.configFile != "" {
		fileCfg := convert.DefaultConfig()
		if _, err := toml.DecodeFile(o.configFile, &fileCfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", o.configFile, err)
		}
		flagged := cfg
		cfg = fileCfg
		for name, apply := range map[string]func(){
			"thickness":          func() { cfg.Thickness = flagged.Thickness },
			"full-perimeter":     func() { cfg.LedgeFullPerimeter = flagged.LedgeFullPerimeter },
			"ledge-thickness":    func() { cfg.LedgeThickness = flagged.LedgeThickness },
			"gap":                func() { cfg.Gap = flagged.Gap },
			"increase-hole-size": func() { cfg.HoleSizeIncrease = flagged.HoleSizeIncrease },
			"flip":               func() { cfg.FlipStencil = flagged.FlipStencil },
			"frame":              func() { cfg.FrameEnabled = flagged.FrameEnabled },
			"frame-width":        func() { cfg.FrameWidth = flagged.FrameWidth },
			"frame-height":       func() { cfg.FrameHeight = flagged.FrameHeight },
			"frame-thickness":    func() { cfg.FrameThickness = flagged.FrameThickness },
			"width":              func() { cfg.StencilWidth = flagged.StencilWidth },
			"height":             func() { cfg.StencilHeight = flagged.StencilHeight },
			"margin":             func() { cfg.StencilMargin = flagged.StencilMargin },
		} {
			if fs.Changed(name) {
				apply()
			}
		}
	}
	if o.noLedge {
		cfg.LedgeEnabled = false
	}
	return cfg, nil
}

// runConvert is the root command body: parse the drawings, run the
// pipeline, then write the .scad program or render the .stl mesh.
// The outline argument may be "-" to derive the outline from the
// paste layer instead.
func runConvert(ctx context.Context, opts *convertOpts, fs *pflag.FlagSet, outlinePath, pastePath, outPath string) error {
	logger := loggerFromContext(ctx)

	cfg, err := opts.resolve(fs)
	if err != nil {
		return err
	}

	var outline *gerber.File
	if outlinePath != "-" {
		outline, err = parseDrawing(outlinePath)
		if err != nil {
			return err
		}
	}
	paste, err := parseDrawing(pastePath)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := convert.Process(outline, paste, cfg)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		logger.Warn(w.String())
	}
	prog.done(fmt.Sprintf("Assembled stencil: %.1f mm² plate, %d holes (%d dropped), %.2f mm³",
		res.Stats.OutlineArea, res.Stats.HoleCount, res.Stats.DroppedHoles, res.Stats.PlateVolume))

	if strings.EqualFold(filepath.Ext(outPath), ".stl") {
		return renderSTL(ctx, res, outPath)
	}
	if err := os.WriteFile(outPath, scad.Marshal(res.Solid), 0o644); err != nil {
		return err
	}
	logger.Infof("Wrote %s", outPath)
	return nil
}

func renderSTL(ctx context.Context, res *convert.Result, outPath string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	if err := scad.NewEngine().Render(ctx, res.Solid, outPath); err != nil {
		return err
	}
	stats, err := scad.ReadMeshStats(outPath)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", outPath, err)
	}
	size := stats.Size()
	prog.done(fmt.Sprintf("Rendered %s: %d triangles, %.1f x %.1f x %.1f mm",
		outPath, stats.Triangles, size[0], size[1], size[2]))
	return nil
}

func parseDrawing(path string) (*gerber.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	parsed, err := gerber.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return parsed, nil
}
