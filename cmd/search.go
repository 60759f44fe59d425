// file: cmd/search.go
// version: 1.0.0
// guid: 0d4b7e2a-6c19-4f83-b5a2-8e1c3f9d7a60

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elsayedebiad/qsr-final-sub001/internal/filter"
	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "List candidates matching a search term and filters",
	Long: `Search the loaded records. Filters are given as dimension=value pairs,
for example --filter nationality=FILIPINO --filter age=21-30. Skills may be
repeated or comma-separated with --skill.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validConfig(); err != nil {
			return err
		}
		filters, _ := cmd.Flags().GetStringArray("filter")
		skills, _ := cmd.Flags().GetStringSlice("skill")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		state, err := parseFilterFlags(filters, skills)
		if err != nil {
			return err
		}
		term := ""
		if len(args) == 1 {
			term = args[0]
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

		matches := eval.Evaluate(repo.Snapshot(), state, term)
		return printCandidates(cmd.OutOrStdout(), matches, limit, asJSON)
	},
}

func init() {
	searchCmd.Flags().StringArray("filter", nil, "dimension=value filter (repeatable)")
	searchCmd.Flags().StringSlice("skill", nil, "required skill key (repeatable)")
	searchCmd.Flags().Int("limit", 50, "maximum rows to print (0 for all)")
	searchCmd.Flags().Bool("json", false, "print records as JSON")
}

// parseFilterFlags turns dimension=value pairs into a filter state. Unknown
// dimensions are rejected.
func parseFilterFlags(pairs, skills []string) (*filter.FilterState, error) {
	q := url.Values{}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q must be dimension=value", p)
		}
		d, known := filter.ParseDimension(strings.TrimSpace(name))
		if !known {
			return nil, fmt.Errorf("unknown filter dimension %q", name)
		}
		q.Add(string(d), strings.TrimSpace(value))
	}
	for _, s := range skills {
		q.Add(string(filter.DimSkills), s)
	}
	return filter.FilterStateFromQuery(q), nil
}

func printCandidates(w io.Writer, recs []models.CandidateRecord, limit int, asJSON bool) error {
	shown := recs
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(shown)
	}

	if len(recs) == 0 {
		fmt.Fprintln(w, "No candidates matched.")
		return nil
	}
	for i := range shown {
		rec := &shown[i]
		fmt.Fprintf(w, "%-8s %-28s %-10s %-14s %-14s %s\n",
			rec.Key(), truncateString(rec.DisplayName(), 28), rec.ReferenceCode,
			truncateString(rec.Nationality, 14), truncateString(rec.Position, 14), rec.Status)
	}
	if len(shown) < len(recs) {
		fmt.Fprintf(w, "... %d more\n", len(recs)-len(shown))
	}
	fmt.Fprintf(w, "%d candidates\n", len(recs))
	return nil
}

func truncateString(in string, max int) string {
	r := []rune(in)
	if len(r) <= max {
		return in
	}
	return string(r[:max-1]) + "…"
}
