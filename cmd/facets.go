// file: cmd/facets.go
// version: 1.0.0
// guid: 5e8a1c3f-2b7d-4096-a4e1-7c9f0b2d6e83

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/elsayedebiad/qsr-final-sub001/internal/filter"
	"github.com/elsayedebiad/qsr-final-sub001/internal/matcher"
)

var facetsCmd = &cobra.Command{
	Use:   "facets [dimension...]",
	Short: "Show option counts per filter dimension",
	Long: `Print how many discoverable candidates each option of a dimension
would select on its own. With --suggest, rank the options of a single
dimension against a partial query instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validConfig(); err != nil {
			return err
		}
		suggest, _ := cmd.Flags().GetString("suggest")
		showEmpty, _ := cmd.Flags().GetBool("all")

		dims := make([]filter.Dimension, 0, len(args))
		for _, a := range args {
			d, ok := filter.ParseDimension(a)
			if !ok {
				return fmt.Errorf("unknown dimension %q", a)
			}
			dims = append(dims, d)
		}
		if suggest != "" && len(dims) != 1 {
			return fmt.Errorf("--suggest needs exactly one dimension")
		}

		repo, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer repo.Close()
		eval, err := newEvaluator()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if suggest != "" {
			opts := filter.Options(dims[0])
			if opts == nil {
				opts = filter.UniqueValues(repo.Snapshot(), dims[0])
			}
			for _, s := range matcher.Suggest(suggest, opts, 10) {
				fmt.Fprintln(out, s)
			}
			return nil
		}

		if len(dims) == 0 {
			dims = nil
		}
		printFacets(out, eval.Facets(repo.Snapshot(), dims), showEmpty)
		return nil
	},
}

func init() {
	facetsCmd.Flags().String("suggest", "", "rank options of one dimension against this query")
	facetsCmd.Flags().Bool("all", false, "include options with no matches")
}

func printFacets(w io.Writer, facets []filter.Facet, showEmpty bool) {
	for _, f := range facets {
		fmt.Fprintf(w, "%s (%d)\n", f.Dimension, f.Total)
		for _, o := range f.Options {
			if o.Count == 0 && !showEmpty {
				continue
			}
			fmt.Fprintf(w, "  %-24s %d\n", o.Value, o.Count)
		}
	}
}
