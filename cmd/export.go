// file: cmd/export.go
// version: 1.0.0
// guid: 7c2e9f14-3a8b-4d56-9e0a-1b6f4c8d2e97

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/elsayedebiad/qsr-final-sub001/internal/config"
	"github.com/elsayedebiad/qsr-final-sub001/internal/export"
	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
	"github.com/elsayedebiad/qsr-final-sub001/internal/server"
)

var exportCmd = &cobra.Command{
	Use:   "export [id...]",
	Short: "Render candidate CVs to image files",
	Long: `Render the given record ids, or every candidate selected by --search
and --filter, to one image per record. Records are processed one at a
time; a failed record is logged and skipped. Press Ctrl+C to stop after
the record in progress.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyExportFlags(cmd); err != nil {
			return err
		}
		if err := validConfig(); err != nil {
			return err
		}
		filters, _ := cmd.Flags().GetStringArray("filter")
		skills, _ := cmd.Flags().GetStringSlice("skill")
		term, _ := cmd.Flags().GetString("search")
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		repo, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer repo.Close()

		ids := args
		if len(ids) == 0 {
			if len(filters) == 0 && len(skills) == 0 && term == "" {
				return fmt.Errorf("give record ids or select records with --search/--filter")
			}
			state, err := parseFilterFlags(filters, skills)
			if err != nil {
				return err
			}
			eval, err := newEvaluator()
			if err != nil {
				return err
			}
			ids = recordIDs(eval.Evaluate(repo.Snapshot(), state, term))
		}

		store, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		settings, err := server.ExportSettingsFromConfig(config.AppConfig)
		if err != nil {
			return err
		}
		svc, err := server.NewExportService(repo, store, nil, settings)
		if err != nil {
			return err
		}
		defer svc.Close()

		return runExport(ctx, cmd.OutOrStdout(), svc, ids, quiet)
	},
}

func init() {
	addExportFlags(exportCmd)
}

func addExportFlags(c *cobra.Command) {
	c.Flags().StringArray("filter", nil, "dimension=value filter selecting the records (repeatable)")
	c.Flags().StringSlice("skill", nil, "required skill key (repeatable)")
	c.Flags().String("search", "", "search term selecting the records")
	c.Flags().String("dir", "", "output directory (overrides export_dir)")
	c.Flags().String("format", "", "png or jpeg (overrides export_format)")
	c.Flags().Bool("zip", false, "bundle the images into one zip file")
	c.Flags().Duration("delay", -1, "pause between records (overrides export_delay)")
	c.Flags().Bool("quiet", false, "hide the progress bar")
}

// applyExportFlags copies explicitly set export flags over the config.
func applyExportFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("dir") {
		config.AppConfig.ExportDir, _ = f.GetString("dir")
	}
	if f.Changed("format") {
		v, _ := f.GetString("format")
		if v == "jpg" {
			v = "jpeg"
		}
		config.AppConfig.ExportFormat = v
	}
	if f.Changed("zip") {
		config.AppConfig.ExportZip, _ = f.GetBool("zip")
	}
	if f.Changed("delay") {
		d, _ := f.GetDuration("delay")
		if d < 0 {
			return fmt.Errorf("--delay must not be negative")
		}
		config.AppConfig.ExportDelay = d
	}
	return nil
}

func recordIDs(recs []models.CandidateRecord) []string {
	ids := make([]string, 0, len(recs))
	for i := range recs {
		if k := recs[i].Key(); k != "" {
			ids = append(ids, k)
		}
	}
	return ids
}

func runExport(ctx context.Context, w io.Writer, svc *server.ExportService, ids []string, quiet bool) error {
	session, err := svc.Prepare(ids)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Exporting %d records (session %s)\n", len(session.Tasks()), session.ID)

	var rep export.Reporter
	var bar *barReporter
	if !quiet {
		bar = newBarReporter(w)
		rep = bar
	}
	sum, output, err := svc.RunSync(ctx, session, rep)
	if bar != nil {
		bar.finish()
	}
	if err != nil {
		return err
	}

	if session.IsClosed() && sum.Succeeded+sum.Failed < sum.Total {
		fmt.Fprintf(w, "Stopped after %d of %d records\n", sum.Succeeded+sum.Failed, sum.Total)
	}
	fmt.Fprintln(w, sum.String())
	fmt.Fprintf(w, "Output: %s\n", output)
	return nil
}

// barReporter draws session progress as a terminal progress bar and prints
// warnings and errors above it.
type barReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newBarReporter(w io.Writer) *barReporter {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("exporting"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
	return &barReporter{w: w, bar: bar}
}

func (r *barReporter) UpdateProgress(current, _ int, message string) error {
	r.bar.Describe(message)
	return r.bar.Set(current)
}

func (r *barReporter) Log(level, message string, details *string) error {
	if level != "warn" && level != "error" {
		return nil
	}
	_ = r.bar.Clear()
	if details != nil {
		fmt.Fprintf(r.w, "[%s] %s: %s\n", level, message, *details)
	} else {
		fmt.Fprintf(r.w, "[%s] %s\n", level, message)
	}
	return nil
}

func (r *barReporter) finish() {
	_ = r.bar.Finish()
	fmt.Fprintln(r.w)
}
