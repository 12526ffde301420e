package main

import (
	"fmt"
	"io"

	"github.com/philipparndt/gotrimesh/pkg/analysis"
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Display general information about a mesh",
		Long:  "Show dimensions, element counts, surface area, volume, topology and edge statistics of an STL file or tetgen surface.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(a, cmd, args[0])
		},
	}
}

func runInfo(a *app, cmd *cobra.Command, filename string) error {
	mesh, name, err := a.loadMesh(filename)
	if err != nil {
		return err
	}

	result := analysis.AnalyzeMesh(mesh)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Mesh Information")
	fmt.Fprintln(out, "================")
	if name != "" {
		fmt.Fprintf(out, "Name: %s\n", name)
	}
	fmt.Fprintf(out, "File: %s\n\n", filename)
	printReport(out, result)
	a.printDiagnostics(cmd)
	return nil
}

func printReport(out io.Writer, result *analysis.MeasurementResult) {
	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Vertices: %d\n", result.VertexCount)
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "  Boundary Edges: %d\n", result.BoundaryEdges)
	fmt.Fprintf(out, "  Closed: %t\n", result.Closed)
	fmt.Fprintf(out, "  Euler Characteristic: %d\n", result.EulerCharacteristic)
	fmt.Fprintf(out, "  Mean Valence: %.3f\n", result.MeanValence)
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n", analysis.FormatVector(result.BoundingBox.Center()))
	fmt.Fprintf(out, "  Bounding Sphere Radius: %.6f units\n\n", result.BoundingSphere.Radius)

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Fprintf(out, "  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Fprintf(out, "  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Fprintf(out, "  Diagonal: %.6f units\n", result.BoundingBox.Diagonal())
	if result.Closed {
		fmt.Fprintf(out, "  Volume: %.6f cubic units\n\n", result.Volume)
	} else {
		fmt.Fprintln(out, "  Volume: n/a (open mesh)")
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n", result.AvgEdgeLength)
	fmt.Fprintf(out, "  Feature Size: %.6f units\n\n", result.FeatureSize)

	fmt.Fprintln(out, "Dihedral Angles:")
	fmt.Fprintf(out, "  Minimum: %s\n", analysis.FormatAngle(result.MinDihedral))
	fmt.Fprintf(out, "  Maximum: %s\n", analysis.FormatAngle(result.MaxDihedral))
}
