package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/philipparndt/gotrimesh/pkg/analysis"
	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"github.com/philipparndt/gotrimesh/pkg/trimesh"
	"github.com/spf13/cobra"
)

type topologyFlags struct {
	count     int
	longest   bool
	shortest  bool
	boundary  bool
	faces     bool
	minLength float64
	maxLength float64
	near      []float64
}

func newTopologyCmd(a *app) *cobra.Command {
	f := &topologyFlags{}
	cmd := &cobra.Command{
		Use:   "topology [file]",
		Short: "Analyze edges, faces and connectivity",
		Long: `List edges with the faces on either side, find longest, shortest,
boundary or length-filtered edges, list the largest faces, and locate the
vertex nearest to a point.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh, _, err := a.loadMesh(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			result := analysis.AnalyzeMesh(mesh)

			if len(f.near) > 0 {
				if len(f.near) != 3 {
					return fmt.Errorf("--near needs 3 coordinates, got %d", len(f.near))
				}
				p := geometry.NewVector3(f.near[0], f.near[1], f.near[2])
				printNearest(out, mesh, p)
				return nil
			}
			if f.faces {
				printFaces(out, mesh, f.count)
				return nil
			}
			printEdges(out, result, f)
			a.printDiagnostics(cmd)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&f.count, "count", "n", 10, "Number of entries to display")
	flags.BoolVarP(&f.longest, "longest", "l", false, "Show longest edges")
	flags.BoolVarP(&f.shortest, "shortest", "s", false, "Show shortest edges")
	flags.BoolVarP(&f.boundary, "boundary", "b", false, "Show boundary edges only")
	flags.BoolVar(&f.faces, "faces", false, "Show the largest faces instead of edges")
	flags.Float64Var(&f.minLength, "min", 0.0, "Minimum edge length filter")
	flags.Float64Var(&f.maxLength, "max", 0.0, "Maximum edge length filter")
	flags.Float64SliceVar(&f.near, "near", nil, "Find the vertex nearest to x,y,z")
	cmd.MarkFlagsMutuallyExclusive("longest", "shortest", "boundary")
	return cmd
}

func printEdges(out io.Writer, result *analysis.MeasurementResult, f *topologyFlags) {
	var edges []analysis.EdgeInfo
	var title string

	switch {
	case f.longest:
		edges = analysis.FindLongestEdges(result, f.count)
		title = fmt.Sprintf("Top %d Longest Edges", len(edges))
	case f.shortest:
		edges = analysis.FindShortestEdges(result, f.count)
		title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
	case f.boundary:
		for _, e := range result.AllEdges {
			if e.Across == trimesh.NoFace {
				edges = append(edges, e)
			}
		}
		title = fmt.Sprintf("Boundary Edges (found %d)", len(edges))
	case f.maxLength > 0:
		edges = analysis.FindEdgesByLength(result, f.minLength, f.maxLength)
		title = fmt.Sprintf("Edges between %.6f and %.6f units (found %d)", f.minLength, f.maxLength, len(edges))
	default:
		edges = result.AllEdges
		title = fmt.Sprintf("All Edges (showing first %d of %d)", min(f.count, len(edges)), len(edges))
	}
	if len(edges) > f.count {
		edges = edges[:f.count]
	}

	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Total edges in mesh: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "Boundary edges: %d\n", result.BoundaryEdges)
	fmt.Fprintf(out, "Min edge length: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "Max edge length: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "Avg edge length: %.6f units\n\n", result.AvgEdgeLength)

	if len(edges) == 0 {
		fmt.Fprintln(out, "No edges found matching the criteria.")
		return
	}
	fmt.Fprintf(out, "%-6s %-8s %-8s %-8s %-8s %-15s\n", "Index", "Start", "End", "Face", "Across", "Length")
	fmt.Fprintln(out, "---------------------------------------------------------")
	for i, e := range edges {
		across := "-"
		if e.Across != trimesh.NoFace {
			across = fmt.Sprint(e.Across)
		}
		fmt.Fprintf(out, "%-6d %-8d %-8d %-8d %-8s %-15.6f\n", i+1, e.Start, e.End, e.Face, across, e.Length)
	}
}

func printFaces(out io.Writer, mesh *trimesh.Mesh, count int) {
	areas := mesh.FaceAreas()
	order := make([]int, len(areas))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return areas[order[i]] > areas[order[j]] })
	if count < len(order) {
		order = order[:count]
	}

	fmt.Fprintf(out, "Top %d Largest Faces\n", len(order))
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Total faces: %d\n", len(areas))
	fmt.Fprintf(out, "Total surface area: %.6f square units\n\n", mesh.Stat(trimesh.StatTotal, trimesh.StatFaceArea))

	faces := mesh.Faces()
	for _, i := range order {
		fmt.Fprintf(out, "Face #%d %v:\n", i, faces[i])
		fmt.Fprintf(out, "  Area: %.6f square units\n", areas[i])
		fmt.Fprintf(out, "  Centroid: %s\n", analysis.FormatVector(mesh.Centroid(i)))
		fmt.Fprintf(out, "  Normal: %s\n\n", analysis.FormatVector(mesh.TriNorm(i).Normalize()))
	}
}

func printNearest(out io.Writer, mesh *trimesh.Mesh, p geometry.Vector3) {
	fmt.Fprintln(out, "Nearest Vertex")
	fmt.Fprintln(out, "==============")
	fmt.Fprintf(out, "Point: %s\n", analysis.FormatVector(p))

	idx, dist := analysis.FindNearestVertex(mesh, p)
	if idx < 0 {
		fmt.Fprintln(out, "Mesh has no vertices.")
		return
	}
	fmt.Fprintf(out, "Vertex #%d: %s\n", idx, analysis.FormatVector(mesh.Vertices()[idx]))
	fmt.Fprintf(out, "Distance: %.6f units\n", dist)
	fmt.Fprintf(out, "Valence: %d\n", len(mesh.Neighbors()[idx]))
	fmt.Fprintf(out, "Boundary: %t\n", mesh.IsBoundary(idx))
}
