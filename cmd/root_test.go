// file: cmd/root_test.go
// version: 2.1.0
// guid: 7eae8d0c-7fda-4f45-8f73-5d1e0c7c9f1a

package cmd

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/elsayedebiad/qsr-final-sub001/internal/config"
	"github.com/elsayedebiad/qsr-final-sub001/internal/filter"
	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
	"github.com/elsayedebiad/qsr-final-sub001/internal/testutil"
)

// resetFlags puts every flag back to its default and marks it unset.
func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func resetCommandFlags(c *cobra.Command) {
	for _, sub := range c.Commands() {
		resetFlags(sub.Flags())
		resetCommandFlags(sub)
	}
}

// isolateRootState clears viper, the root and subcommand flags and
// cfgFile now and again when the test ends, so flag values set by one
// Execute call never reach the next test's config.
func isolateRootState(t *testing.T) {
	t.Helper()
	reset := func() {
		resetFlags(rootCmd.PersistentFlags())
		resetCommandFlags(rootCmd)
		cfgFile = ""
		viper.Reset()
		bindRootFlags()
	}
	origConfig := config.AppConfig
	t.Cleanup(func() {
		reset()
		config.AppConfig = origConfig
	})
	reset()
}

// useConfig installs a config pointing at a records file with the sample
// records and small render waits, restoring the previous config afterwards.
func useConfig(t *testing.T) string {
	t.Helper()
	isolateRootState(t)
	dir := t.TempDir()
	path := testutil.WriteRecordsFile(t, dir, testutil.SampleRecords())

	config.AppConfig = config.Config{
		RecordsSource:      path,
		RecordsType:        "file",
		DatabasePath:       filepath.Join(dir, "history"),
		ExportDir:          filepath.Join(dir, "out"),
		ExportFormat:       "png",
		ExportPixelRatio:   1,
		ExportBackground:   "#ffffff",
		ExportLayoutWait:   50 * time.Millisecond,
		ExportResourceWait: 100 * time.Millisecond,
		ExportTaskTimeout:  30 * time.Second,
	}
	return dir
}

func TestSetupFileLogging(t *testing.T) {
	tempDir := t.TempDir()

	prevWriter := log.Writer()
	prevFlags := log.Flags()
	defer func() {
		log.SetOutput(prevWriter)
		log.SetFlags(prevFlags)
	}()

	path := filepath.Join(tempDir, "logs", "cv-gallery.log")
	logFile, err := setupFileLogging(path)
	if err != nil {
		t.Fatalf("setupFileLogging failed: %v", err)
	}
	defer logFile.Close()

	log.Printf("[INFO] hello")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] hello") {
		t.Fatalf("expected log line in file, got %q", data)
	}
}

func TestInitConfigReadsFileAndEnv(t *testing.T) {
	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	dbPath := filepath.Join(tempDir, "db", "history")
	content := "records_source: gallery.json\nexport_format: jpg\ndatabase_path: " + dbPath + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	isolateRootState(t)
	t.Setenv("CVG_PORT", "9100")
	cfgFile = cfgPath

	initConfig()

	if config.AppConfig.RecordsSource != "gallery.json" {
		t.Errorf("expected records source from file, got %q", config.AppConfig.RecordsSource)
	}
	if config.AppConfig.ExportFormat != "jpeg" {
		t.Errorf("expected jpg to normalize to jpeg, got %q", config.AppConfig.ExportFormat)
	}
	if config.AppConfig.Port != 9100 {
		t.Errorf("expected env override for port, got %d", config.AppConfig.Port)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("expected database directory to exist: %v", err)
	}
}

func TestInitConfigIgnoresEarlierFlagValues(t *testing.T) {
	isolateRootState(t)
	if err := rootCmd.PersistentFlags().Set("records", "leaked.json"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	isolateRootState(t)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("records_source: fresh.json\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfgFile = cfgPath
	initConfig()

	if config.AppConfig.RecordsSource != "fresh.json" {
		t.Errorf("expected records source from file, got %q", config.AppConfig.RecordsSource)
	}
	if rootCmd.PersistentFlags().Changed("records") {
		t.Error("expected records flag to be reset")
	}
}

func TestOpenRepositoryAndEvaluator(t *testing.T) {
	useConfig(t)

	repo, err := openRepository(t.Context())
	if err != nil {
		t.Fatalf("openRepository failed: %v", err)
	}
	defer repo.Close()
	if repo.Len() != 5 {
		t.Fatalf("expected 5 records, got %d", repo.Len())
	}

	eval, err := newEvaluator()
	if err != nil {
		t.Fatalf("newEvaluator failed: %v", err)
	}
	state := filter.NewFilterState().Set(filter.DimNationality, "FILIPINO")
	if got := len(eval.Evaluate(repo.Snapshot(), state, "")); got != 2 {
		t.Errorf("expected 2 Filipino candidates, got %d", got)
	}

	config.AppConfig.RecordsSource = filepath.Join(t.TempDir(), "missing.json")
	if _, err := openRepository(t.Context()); err == nil {
		t.Error("expected error for missing records file")
	}

	config.AppConfig.VocabularyFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := newEvaluator(); err == nil {
		t.Error("expected error for missing vocabulary file")
	}
}

func TestParseFilterFlags(t *testing.T) {
	state, err := parseFilterFlags([]string{"nationality=FILIPINO", "age = 21-30"}, []string{"cleaning,babySitting"})
	if err != nil {
		t.Fatalf("parseFilterFlags failed: %v", err)
	}
	if got := state.Get(filter.DimNationality); got != "FILIPINO" {
		t.Errorf("expected nationality FILIPINO, got %q", got)
	}
	if got := state.Get(filter.DimAge); got != "21-30" {
		t.Errorf("expected age 21-30, got %q", got)
	}
	if got := len(state.Skills()); got != 2 {
		t.Errorf("expected 2 skills, got %d", got)
	}

	if _, err := parseFilterFlags([]string{"nationality"}, nil); err == nil {
		t.Error("expected error for filter without value")
	}
	if _, err := parseFilterFlags([]string{"shoeSize=42"}, nil); err == nil {
		t.Error("expected error for unknown dimension")
	}
}

func TestPrintCandidates(t *testing.T) {
	recs := testutil.SampleRecords()[:3]

	var buf bytes.Buffer
	if err := printCandidates(&buf, recs, 2, false); err != nil {
		t.Fatalf("printCandidates failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Maria Santos") || !strings.Contains(out, "PH-001") {
		t.Errorf("expected first record in output, got %q", out)
	}
	if !strings.Contains(out, "... 1 more") || !strings.Contains(out, "3 candidates") {
		t.Errorf("expected truncation footer, got %q", out)
	}

	buf.Reset()
	if err := printCandidates(&buf, recs, 1, true); err != nil {
		t.Fatalf("printCandidates json failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"fullName": "Maria Santos"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}

	buf.Reset()
	_ = printCandidates(&buf, []models.CandidateRecord{}, 10, false)
	if !strings.Contains(buf.String(), "No candidates matched.") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestPrintFacets(t *testing.T) {
	facets := []filter.Facet{{
		Dimension: filter.DimReligion,
		Total:     3,
		Options: []filter.OptionCount{
			{Value: "MUSLIM", Count: 0},
			{Value: "CHRISTIAN", Count: 3},
		},
	}}

	var buf bytes.Buffer
	printFacets(&buf, facets, false)
	if strings.Contains(buf.String(), "MUSLIM") {
		t.Errorf("empty options should be hidden, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "religion (3)") {
		t.Errorf("expected dimension header, got %q", buf.String())
	}

	buf.Reset()
	printFacets(&buf, facets, true)
	if !strings.Contains(buf.String(), "MUSLIM") {
		t.Errorf("expected empty options with showEmpty, got %q", buf.String())
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Fatalf("expected no truncation, got %q", got)
	}
	if got := truncateString("this is long", 5); got != "this…" {
		t.Fatalf("expected truncation, got %q", got)
	}
	if got := truncateString("ماريا", 3); got != "ما…" {
		t.Fatalf("expected rune-aware truncation, got %q", got)
	}
}
