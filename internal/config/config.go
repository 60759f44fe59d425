// file: internal/config/config.go
// version: 2.2.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// CVG_RECORDS_SOURCE.
const EnvPrefix = "CVG"

// Config holds application configuration
type Config struct {
	// Record source
	RecordsSource string
	RecordsType   string // "file" (default), "http" or "postgres"
	RecordsToken  string
	RecordsTable  string
	CacheTTL      time.Duration

	DatabasePath      string
	VocabularyFile    string
	SeparateTransport bool // hide drivers from nationality-only browsing

	// Export
	ExportDir            string
	ExportFormat         string // "png" (default) or "jpeg"
	ExportDelay          time.Duration
	ExportPixelRatio     float64
	ExportBackground     string
	ExportResourceWait   time.Duration
	ExportLayoutWait     time.Duration
	ExportTemplateURL    string // pattern containing {id}; empty renders built-in cards
	ExportRootClass      string
	ExportFontPath       string
	ExportFallbackFont   string // consulted for glyphs the main font lacks
	ExportZip            bool
	ExportSavesPerSecond float64
	ExportTaskTimeout    time.Duration

	// Server
	Host               string
	Port               int
	RateLimitPerMinute int
	APIToken           string // required on state-changing requests when set

	LogLevel string
	LogFile  string
}

var AppConfig Config

// SetDefaults registers every default with viper.
func SetDefaults() {
	viper.SetDefault("records_source", "cvs.json")
	viper.SetDefault("records_type", "file")
	viper.SetDefault("records_table", "cvs")
	viper.SetDefault("cache_ttl", "30s")
	viper.SetDefault("database_path", "cv-gallery.db")
	viper.SetDefault("vocabulary_file", "")
	viper.SetDefault("separate_transport", false)

	viper.SetDefault("export_dir", "exports")
	viper.SetDefault("export_format", "png")
	viper.SetDefault("export_delay", "500ms")
	viper.SetDefault("export_pixel_ratio", 2.0)
	viper.SetDefault("export_background", "#ffffff")
	viper.SetDefault("export_resource_wait", "10s")
	viper.SetDefault("export_layout_wait", "2s")
	viper.SetDefault("export_template_url", "")
	viper.SetDefault("export_root_class", "cv-template")
	viper.SetDefault("export_font_path", "")
	viper.SetDefault("export_fallback_font", "")
	viper.SetDefault("export_zip", false)
	viper.SetDefault("export_saves_per_second", 0)
	viper.SetDefault("export_task_timeout", "60s")

	viper.SetDefault("host", "localhost")
	viper.SetDefault("port", 8484)
	viper.SetDefault("rate_limit_per_minute", 300)
	viper.SetDefault("api_token", "")

	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "")
}

// LoadDotEnv loads a .env file from the working directory when present.
// Existing environment variables win over the file.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		log.Printf("[WARN] config: could not load .env: %v", err)
	}
}

// BindEnv makes viper consult CVG_* variables for every key.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// InitConfig initializes the application configuration
func InitConfig() {
	SetDefaults()

	AppConfig = Config{
		RecordsSource: viper.GetString("records_source"),
		RecordsType:   strings.ToLower(strings.TrimSpace(viper.GetString("records_type"))),
		RecordsToken:  viper.GetString("records_token"),
		RecordsTable:  viper.GetString("records_table"),
		CacheTTL:      viper.GetDuration("cache_ttl"),

		DatabasePath:      viper.GetString("database_path"),
		VocabularyFile:    viper.GetString("vocabulary_file"),
		SeparateTransport: viper.GetBool("separate_transport"),

		ExportDir:            viper.GetString("export_dir"),
		ExportFormat:         strings.ToLower(viper.GetString("export_format")),
		ExportDelay:          viper.GetDuration("export_delay"),
		ExportPixelRatio:     viper.GetFloat64("export_pixel_ratio"),
		ExportBackground:     viper.GetString("export_background"),
		ExportResourceWait:   viper.GetDuration("export_resource_wait"),
		ExportLayoutWait:     viper.GetDuration("export_layout_wait"),
		ExportTemplateURL:    viper.GetString("export_template_url"),
		ExportRootClass:      viper.GetString("export_root_class"),
		ExportFontPath:       viper.GetString("export_font_path"),
		ExportFallbackFont:   viper.GetString("export_fallback_font"),
		ExportZip:            viper.GetBool("export_zip"),
		ExportSavesPerSecond: viper.GetFloat64("export_saves_per_second"),
		ExportTaskTimeout:    viper.GetDuration("export_task_timeout"),

		Host:               viper.GetString("host"),
		Port:               viper.GetInt("port"),
		RateLimitPerMinute: viper.GetInt("rate_limit_per_minute"),
		APIToken:           viper.GetString("api_token"),

		LogLevel: strings.ToLower(viper.GetString("log_level")),
		LogFile:  viper.GetString("log_file"),
	}

	if AppConfig.RecordsType == "" {
		AppConfig.RecordsType = "file"
	}
	if AppConfig.ExportFormat == "jpg" {
		AppConfig.ExportFormat = "jpeg"
	}
	if AppConfig.ExportDelay < 0 {
		AppConfig.ExportDelay = 0
	}
}
