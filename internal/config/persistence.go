// file: internal/config/persistence.go
// version: 2.1.0
// guid: 9c8d7e6f-5a4b-3c2d-1e0f-9a8b7c6d5e4f

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the config file looked up in the home directory.
const ConfigFileName = ".cv-gallery"

// ConfigFilePath returns the default config file location.
func ConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ConfigFileName+".yaml")
}

// ReadConfigFile points viper at path, or at the home directory file when
// path is empty, and reads it. A missing default file is not an error.
func ReadConfigFile(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(ConfigFileName)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	log.Printf("[INFO] using config file: %s", viper.ConfigFileUsed())
	return nil
}

// Settings returns the current configuration keyed the way the config
// file spells it. Secrets are left out.
func Settings() map[string]any {
	return map[string]any{
		"records_source":          AppConfig.RecordsSource,
		"records_type":            AppConfig.RecordsType,
		"records_table":           AppConfig.RecordsTable,
		"cache_ttl":               AppConfig.CacheTTL.String(),
		"database_path":           AppConfig.DatabasePath,
		"vocabulary_file":         AppConfig.VocabularyFile,
		"separate_transport":      AppConfig.SeparateTransport,
		"export_dir":              AppConfig.ExportDir,
		"export_format":           AppConfig.ExportFormat,
		"export_delay":            AppConfig.ExportDelay.String(),
		"export_pixel_ratio":      AppConfig.ExportPixelRatio,
		"export_background":       AppConfig.ExportBackground,
		"export_resource_wait":    AppConfig.ExportResourceWait.String(),
		"export_layout_wait":      AppConfig.ExportLayoutWait.String(),
		"export_template_url":     AppConfig.ExportTemplateURL,
		"export_root_class":       AppConfig.ExportRootClass,
		"export_font_path":        AppConfig.ExportFontPath,
		"export_fallback_font":    AppConfig.ExportFallbackFont,
		"export_zip":              AppConfig.ExportZip,
		"export_saves_per_second": AppConfig.ExportSavesPerSecond,
		"export_task_timeout":     AppConfig.ExportTaskTimeout.String(),
		"host":                    AppConfig.Host,
		"port":                    AppConfig.Port,
		"rate_limit_per_minute":   AppConfig.RateLimitPerMinute,
		"log_level":               AppConfig.LogLevel,
		"log_file":                AppConfig.LogFile,
	}
}

// SaveConfigToFile writes the current settings to path as YAML. The
// records and API tokens are only written when includeSecrets is set.
func SaveConfigToFile(path string, includeSecrets bool) error {
	if path == "" {
		return fmt.Errorf("cannot determine config file path")
	}

	fileConfig := Settings()
	if includeSecrets {
		if AppConfig.RecordsToken != "" {
			fileConfig["records_token"] = AppConfig.RecordsToken
		}
		if AppConfig.APIToken != "" {
			fileConfig["api_token"] = AppConfig.APIToken
		}
	}

	data, err := yaml.Marshal(fileConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Printf("[INFO] saved config to %s", path)
	return nil
}

// Validate reports configuration values the engine cannot work with.
func Validate(c Config) error {
	var problems []string

	switch c.RecordsType {
	case "file", "http", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("records_type %q is not one of file, http, postgres", c.RecordsType))
	}
	if strings.TrimSpace(c.RecordsSource) == "" {
		problems = append(problems, "records_source is empty")
	}
	switch c.ExportFormat {
	case "png", "jpeg":
	default:
		problems = append(problems, fmt.Sprintf("export_format %q is not png or jpeg", c.ExportFormat))
	}
	if c.ExportPixelRatio <= 0 {
		problems = append(problems, "export_pixel_ratio must be positive")
	}
	if c.ExportTemplateURL != "" && !strings.Contains(c.ExportTemplateURL, "{id}") {
		problems = append(problems, "export_template_url must contain {id}")
	}
	if c.Port < 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", c.Port))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
