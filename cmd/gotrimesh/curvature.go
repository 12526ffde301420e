package main

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gotrimesh/pkg/analysis"
	"github.com/spf13/cobra"
)

func newCurvatureCmd(a *app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "curvature [file]",
		Short: "Estimate principal curvatures",
		Long:  "Estimate per-vertex principal curvatures and directions and list the most strongly curved vertices.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh, _, err := a.loadMesh(args[0])
			if err != nil {
				return err
			}

			s := analysis.SummarizeCurvature(mesh)
			curv1, curv2, pdir1, _ := mesh.Curvatures()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Curvature Summary")
			fmt.Fprintln(out, "=================")
			fmt.Fprintf(out, "Mean curvature:     min %.6f  max %.6f  avg %.6f\n", s.MinMean, s.MaxMean, s.AvgMean)
			fmt.Fprintf(out, "Gaussian curvature: min %.6f  max %.6f  avg %.6f\n", s.MinGaussian, s.MaxGaussian, s.AvgGaussian)
			fmt.Fprintf(out, "Total Gaussian curvature: %.6f (%.3f x 2pi)\n\n", s.TotalGaussian, s.TotalGaussian/(2*math.Pi))

			order := make([]int, len(curv1))
			for i := range order {
				order[i] = i
			}
			sort.SliceStable(order, func(i, j int) bool {
				hi := math.Abs(curv1[order[i]] + curv2[order[i]])
				hj := math.Abs(curv1[order[j]] + curv2[order[j]])
				return hi > hj
			})
			if count < len(order) {
				order = order[:count]
			}

			fmt.Fprintf(out, "Top %d Curved Vertices\n", len(order))
			fmt.Fprintf(out, "%-8s %-14s %-14s %-35s\n", "Index", "k1", "k2", "Direction 1")
			for _, v := range order {
				fmt.Fprintf(out, "%-8d %-14.6f %-14.6f %-35s\n", v, curv1[v], curv2[v], analysis.FormatVector(pdir1[v]))
			}
			a.printDiagnostics(cmd)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of vertices to display")
	return cmd
}
