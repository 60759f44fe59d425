// file: cmd/serve.go
// version: 1.1.0
// guid: 1f6d3b8e-9c24-4a70-8e5b-2d7a0c4f9e16

package cmd

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/elsayedebiad/qsr-final-sub001/internal/config"
	"github.com/elsayedebiad/qsr-final-sub001/internal/database"
	"github.com/elsayedebiad/qsr-final-sub001/internal/operations"
	"github.com/elsayedebiad/qsr-final-sub001/internal/realtime"
	"github.com/elsayedebiad/qsr-final-sub001/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API for candidate discovery and export sessions.
Exports run one session at a time on a background worker; progress is
streamed over Server-Sent Events at /api/v1/events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validConfig(); err != nil {
			return err
		}

		repo, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := repo.Watch(500 * time.Millisecond); err != nil {
			log.Printf("[WARN] records file will not be watched: %v", err)
		}

		eval, err := newEvaluator()
		if err != nil {
			return err
		}

		store, closeStore, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer closeStore()

		realtime.InitializeEventHub()

		startExportQueue(store)
		defer func() {
			log.Println("[INFO] shutting down operation queue...")
			if err := operations.ShutdownQueue(30 * time.Second); err != nil {
				log.Printf("[WARN] operation queue shutdown error: %v", err)
			}
		}()

		settings, err := server.ExportSettingsFromConfig(config.AppConfig)
		if err != nil {
			return err
		}
		exports, err := server.NewExportService(repo, store, operations.GlobalQueue, settings)
		if err != nil {
			return err
		}
		defer exports.Close()

		srv := server.NewServer(server.Deps{
			Repo:               repo,
			Evaluator:          eval,
			Exports:            exports,
			RootClass:          settings.Surface.RootClass,
			APIToken:           config.AppConfig.APIToken,
			RateLimitPerMinute: config.AppConfig.RateLimitPerMinute,
		})

		cfg, err := serverConfig(cmd)
		if err != nil {
			return err
		}
		return srv.Start(cfg)
	},
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(c *cobra.Command) {
	c.Flags().String("port", "", "port to listen on (overrides port)")
	c.Flags().String("host", "", "host to bind (overrides host)")
	c.Flags().Duration("read-timeout", 15*time.Second, "read timeout")
	c.Flags().Duration("write-timeout", 0, "write timeout (0 keeps SSE streams open)")
	c.Flags().Duration("idle-timeout", 60*time.Second, "idle timeout")
}

// exportWorkers is fixed at one so sessions never overlap and share the
// output directory and save rate limit.
const exportWorkers = 1

func startExportQueue(store database.Store) {
	operations.InitializeQueue(store, exportWorkers)
}

// serverConfig merges the config file host and port with the flags.
func serverConfig(cmd *cobra.Command) (server.ServerConfig, error) {
	cfg := server.GetDefaultServerConfig()
	if config.AppConfig.Host != "" {
		cfg.Host = config.AppConfig.Host
	}
	if config.AppConfig.Port > 0 {
		cfg.Port = strconv.Itoa(config.AppConfig.Port)
	}

	f := cmd.Flags()
	if port, _ := f.GetString("port"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return cfg, fmt.Errorf("invalid port %q", port)
		}
		cfg.Port = port
	}
	if host, _ := f.GetString("host"); host != "" {
		cfg.Host = host
	}
	cfg.ReadTimeout, _ = f.GetDuration("read-timeout")
	cfg.WriteTimeout, _ = f.GetDuration("write-timeout")
	cfg.IdleTimeout, _ = f.GetDuration("idle-timeout")
	return cfg, nil
}
