package main

import (
	"encoding/json"
	"fmt"

	"github.com/philipparndt/gotrimesh/pkg/analysis"
	"github.com/spf13/cobra"
)

func newNormalsCmd(a *app) *cobra.Command {
	var (
		count  int
		points bool
		packed bool
	)
	cmd := &cobra.Command{
		Use:   "normals [file]",
		Short: "Compute per-vertex normals",
		Long: `Compute unit per-vertex normals. Faces are averaged with Max weights;
with --points the faces are dropped and normals are fitted to the nearest
points of each vertex instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh, _, err := a.loadMesh(args[0])
			if err != nil {
				return err
			}
			if points {
				mesh.SetFaces(nil)
			}

			out := cmd.OutOrStdout()
			if packed {
				mesh.RefreshPacked()
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(mesh.Packed()); err != nil {
					return fmt.Errorf("failed to encode packed mesh: %w", err)
				}
				return nil
			}

			normals := mesh.Normals()
			vertices := mesh.Vertices()
			mode := "face-weighted"
			if points {
				mode = "point cloud"
			}
			fmt.Fprintf(out, "Vertex Normals (%s, showing %d of %d)\n", mode, min(count, len(normals)), len(normals))
			fmt.Fprintln(out, "====================")
			fmt.Fprintf(out, "%-8s %-35s %-35s\n", "Index", "Position", "Normal")
			for i := 0; i < len(normals) && i < count; i++ {
				fmt.Fprintf(out, "%-8d %-35s %-35s\n", i,
					analysis.FormatVector(vertices[i]),
					analysis.FormatVector(normals[i]))
			}
			a.printDiagnostics(cmd)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of vertices to display")
	cmd.Flags().BoolVarP(&points, "points", "p", false, "Treat the vertices as an unstructured point cloud")
	cmd.Flags().BoolVar(&packed, "packed", false, "Print the packed float32 layout as JSON")
	return cmd
}
