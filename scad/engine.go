package scad

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/stencilgen/stencilgen/solid"
)

// EnvBin names the environment variable overriding the openscad binary.
const EnvBin = "OPENSCAD_BIN"

// Engine renders solid trees to STL by invoking the openscad binary.
type Engine struct {
	// Bin is the openscad executable. Empty means the OPENSCAD_BIN
	// environment variable, falling back to "openscad" on PATH.
	Bin string
}

// NewEngine returns an engine resolved against the environment.
func NewEngine() *Engine {
	return &Engine{Bin: binPath()}
}

func binPath() string {
	if bin := os.Getenv(EnvBin); bin != "" {
		return bin
	}
	return "openscad"
}

func (e *Engine) bin() string {
	if e.Bin != "" {
		return e.Bin
	}
	return binPath()
}

// Render writes the solid tree to a temporary .scad program and invokes
// openscad to produce stlPath. The temporary program is removed on
// return; a failing render reports openscad's stderr.
func (e *Engine) Render(ctx context.Context, s solid.Solid, stlPath string) error {
	scadPath := filepath.Join(os.TempDir(), uuid.NewString()+".scad")
	if err := os.WriteFile(scadPath, Marshal(s), 0o644); err != nil {
		return fmt.Errorf("write scad program: %w", err)
	}
	defer os.Remove(scadPath)
	return e.RenderFile(ctx, scadPath, stlPath)
}

// RenderFile invokes openscad on an existing .scad program.
func (e *Engine) RenderFile(ctx context.Context, scadPath, stlPath string) error {
	cmd := exec.CommandContext(ctx, e.bin(), "-o", stlPath, scadPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return fmt.Errorf("%s: %w: %s", e.bin(), err, msg)
		}
		return fmt.Errorf("%s: %w", e.bin(), err)
	}
	return nil
}
