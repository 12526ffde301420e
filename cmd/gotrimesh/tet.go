package main

import (
	"fmt"

	"github.com/philipparndt/gotrimesh/pkg/analysis"
	"github.com/philipparndt/gotrimesh/pkg/tetgen"
	"github.com/spf13/cobra"
)

func newTetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tet [file.node]",
		Short: "Analyze a tetgen tetrahedral mesh",
		Long: `Read X.node, X.ele and the optional X.face and report element volumes,
dihedral angles, facet areas and the boundary surface.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTet(a, cmd, args[0])
		},
	}
}

func runTet(a *app, cmd *cobra.Command, filename string) error {
	mesh, err := tetgen.Read(filename, a.options()...)
	if err != nil {
		return fmt.Errorf("error reading tetgen mesh: %w", err)
	}
	result := analysis.AnalyzeTetMesh(mesh)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Tetrahedral Mesh Information")
	fmt.Fprintln(out, "============================")
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Elements:")
	fmt.Fprintf(out, "  Nodes: %d\n", result.NodeCount)
	fmt.Fprintf(out, "  Tetrahedra: %d\n", result.ElementCount)
	fmt.Fprintf(out, "  Total Volume: %.6f cubic units\n", result.TotalVolume)
	fmt.Fprintf(out, "  Min Volume: %.6f cubic units\n", result.MinVolume)
	fmt.Fprintf(out, "  Max Volume: %.6f cubic units\n", result.MaxVolume)
	fmt.Fprintf(out, "  Min Facet Area: %.6f square units\n", result.MinFacetArea)
	fmt.Fprintf(out, "  Max Facet Area: %.6f square units\n", result.MaxFacetArea)
	fmt.Fprintf(out, "  Min Dihedral: %s\n", analysis.FormatAngle(result.MinDihedral))
	fmt.Fprintf(out, "  Max Dihedral: %s\n\n", analysis.FormatAngle(result.MaxDihedral))

	fmt.Fprintln(out, "Boundary Surface")
	fmt.Fprintln(out, "----------------")
	printReport(out, result.SurfaceReport)
	a.printDiagnostics(cmd)
	return nil
}
