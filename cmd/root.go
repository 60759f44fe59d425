// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elsayedebiad/qsr-final-sub001/internal/config"
	"github.com/elsayedebiad/qsr-final-sub001/internal/database"
	"github.com/elsayedebiad/qsr-final-sub001/internal/filter"
	"github.com/elsayedebiad/qsr-final-sub001/internal/records"
	"github.com/elsayedebiad/qsr-final-sub001/internal/server"
)

var cfgFile string
var recordsSource string
var recordsType string
var databasePath string
var logLevel string

var logFile *os.File

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cv-gallery",
	Short: "Browse candidate CVs and export them as images",
	Long: `cv-gallery loads candidate CV records, narrows them with search and
facet filters, and renders the selection to PNG or JPEG files.

Run "serve" for the HTTP API or use the search, facets and export
commands directly from the terminal.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cv-gallery.yaml)")
	rootCmd.PersistentFlags().StringVar(&recordsSource, "records", "", "records location: file path, URL or postgres DSN")
	rootCmd.PersistentFlags().StringVar(&recordsType, "records-type", "", "records source type: file (default), http or postgres")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "path to the export history database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	bindRootFlags()

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(facetsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(configCmd)
}

func bindRootFlags() {
	_ = viper.BindPFlag("records_source", rootCmd.PersistentFlags().Lookup("records"))
	_ = viper.BindPFlag("records_type", rootCmd.PersistentFlags().Lookup("records-type"))
	_ = viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads .env, the config file and CVG_* variables into
// config.AppConfig. Flags bound above win over all of them.
func initConfig() {
	config.LoadDotEnv()
	if err := config.ReadConfigFile(cfgFile); err != nil {
		log.Printf("[WARN] %v", err)
	}
	config.BindEnv()
	config.InitConfig()

	server.SetLogLevel(server.ParseLogLevel(config.AppConfig.LogLevel))

	if config.AppConfig.LogFile != "" {
		f, err := setupFileLogging(config.AppConfig.LogFile)
		if err != nil {
			log.Printf("[WARN] %v", err)
		} else {
			logFile = f
		}
	}

	// Ensure database directory exists
	if dbPath := config.AppConfig.DatabasePath; dbPath != "" {
		if dbDir := filepath.Dir(dbPath); dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o755); err != nil {
				log.Printf("[WARN] could not create database directory: %v", err)
			}
		}
	}
}

// setupFileLogging sends the standard logger to path, appending.
func setupFileLogging(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f, nil
}

// validConfig checks config.AppConfig before a command touches records.
func validConfig() error {
	return config.Validate(config.AppConfig)
}

// openRepository builds the configured record source and loads it once.
func openRepository(ctx context.Context) (*records.Repository, error) {
	cfg := config.AppConfig
	src, err := records.NewSource(records.Options{
		Type:     cfg.RecordsType,
		Location: cfg.RecordsSource,
		Token:    cfg.RecordsToken,
		Table:    cfg.RecordsTable,
		CacheTTL: cfg.CacheTTL,
	})
	if err != nil {
		return nil, err
	}
	repo := records.NewRepository(src)

	loadCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if _, err := repo.Reload(loadCtx); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

// newEvaluator returns the filter evaluator for the configured vocabulary.
func newEvaluator() (*filter.Evaluator, error) {
	vocab, err := filter.LoadVocabulary(config.AppConfig.VocabularyFile)
	if err != nil {
		return nil, err
	}
	return filter.New(filter.Config{
		Vocabulary:        vocab,
		SeparateTransport: config.AppConfig.SeparateTransport,
	}), nil
}

// openStore opens the export history. The returned closer is always safe
// to call.
func openStore() (database.Store, func(), error) {
	if config.AppConfig.DatabasePath == "" {
		return nil, func() {}, nil
	}
	if err := database.InitializeStore(config.AppConfig.DatabasePath); err != nil {
		return nil, func() {}, err
	}
	return database.GlobalStore, func() {
		if err := database.CloseStore(); err != nil {
			log.Printf("[WARN] closing export history: %v", err)
		}
	}, nil
}
