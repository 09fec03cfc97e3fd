package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// Called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the stencilgen CLI and returns an error if any command
// fails. The root command performs the conversion itself:
//
//	stencilgen [flags] <outline-file> <paste-file> <output-file>
//
// Pass "-" as the outline file to derive the stencil outline from the
// paste layer's bounding box instead. The output file's extension
// selects the format: .scad writes the OpenSCAD program, .stl renders
// a mesh through the openscad binary.
func Execute() error {
	var verbose bool
	opts := defaultConvertOpts()

	root := &cobra.Command{
		Use:          "stencilgen <outline-file> <paste-file> <output-file>",
		Short:        "stencilgen converts PCB fabrication drawings into 3D-printable solder stencils",
		Long:         `stencilgen reads a board outline drawing and a solder-paste drawing, punches the paste pads through a thin plate, adds a positioning ledge or frame, and writes the result as an OpenSCAD program or a rendered STL mesh.`,
		Version:      version,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), &opts, cmd.Flags(), args[0], args[1], args[2])
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("stencilgen %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	opts.register(root.Flags())

	root.AddCommand(newServeCmd())

	return root.ExecuteContext(context.Background())
}
