package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/gotrimesh/internal/config"
	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/stl"
	"github.com/philipparndt/gotrimesh/pkg/tetgen"
	"github.com/philipparndt/gotrimesh/pkg/trimesh"
	"github.com/philipparndt/gotrimesh/version"
	"github.com/spf13/cobra"
)

// app carries the state shared by all subcommands of one invocation
type app struct {
	configPath string
	cfg        config.Config
	logger     *diag.Logger
	recorder   *diag.Recorder
}

func (a *app) sink() diag.Sink {
	return diag.Tee{a.logger, a.recorder}
}

func (a *app) options() []trimesh.Option {
	return a.cfg.Options(a.sink())
}

// setup loads the config file and applies the flags the user set on top
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("knn") {
		cfg.KNN, _ = flags.GetInt("knn")
	}
	if flags.Changed("radius") {
		cfg.NeighborRadius, _ = flags.GetFloat64("radius")
	}
	if flags.Changed("radius-factor") {
		cfg.RadiusFactor, _ = flags.GetFloat64("radius-factor")
	}
	if flags.Changed("verbosity") {
		cfg.Verbosity, _ = flags.GetString("verbosity")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	a.logger = diag.NewLogger(cmd.ErrOrStderr(), cfg.Level())
	a.recorder = &diag.Recorder{}
	return nil
}

// loadMesh reads an STL file, or the boundary surface of a tetgen mesh
// given by its .node file.
func (a *app) loadMesh(path string) (*trimesh.Mesh, string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		model, err := stl.Parse(path)
		if err != nil {
			return nil, "", fmt.Errorf("error parsing STL file: %w", err)
		}
		return model.Mesh(a.options()...), model.Name, nil
	case ".node":
		tm, err := tetgen.Read(path, a.options()...)
		if err != nil {
			return nil, "", fmt.Errorf("error reading tetgen mesh: %w", err)
		}
		return tm.Surface(), "", nil
	}
	return nil, "", fmt.Errorf("unsupported file type %q (want .stl or .node)", filepath.Ext(path))
}

// printDiagnostics summarizes the anomalies recorded while running a command
func (a *app) printDiagnostics(cmd *cobra.Command) {
	kinds := []diag.Kind{diag.KindMalformed, diag.KindDegenerate, diag.KindInsufficientData}
	total := 0
	for _, k := range kinds {
		total += a.recorder.Count(k)
	}
	if total == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nDiagnostics:")
	for _, k := range kinds {
		if n := a.recorder.Count(k); n > 0 {
			fmt.Fprintf(out, "  %s: %d\n", k, n)
		}
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "gotrimesh",
		Short: "Inspect triangle and tetrahedral meshes",
		Long: `gotrimesh loads STL and tetgen meshes and reports their connectivity,
normals, curvature and element quality.`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	pf.Int("workers", 0, "Worker goroutines for parallel loops (0 = all CPUs)")
	pf.Int("knn", trimesh.DefaultKNN, "Neighbours fitted per point-cloud normal")
	pf.Float64("radius", 0, "Point-cloud search radius (0 = derived from spacing)")
	pf.Float64("radius-factor", trimesh.DefaultRadiusFactor, "Scale of the derived search radius (negative = unlimited)")
	pf.StringP("verbosity", "v", "warn", "Diagnostics level: error, warn, info or debug")

	rootCmd.AddCommand(
		newInfoCmd(a),
		newNormalsCmd(a),
		newCurvatureCmd(a),
		newTopologyCmd(a),
		newTetCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
