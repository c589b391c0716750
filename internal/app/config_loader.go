package app

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/yourusername/fetchbar/internal/domain"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.fetchbar")
		v.AddConfigPath("/etc/fetchbar")
	}

	// AutomaticEnv only sees keys viper already knows about
	registerDefaults(v, config)

	v.SetEnvPrefix("FETCHBAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func registerDefaults(v *viper.Viper, config *domain.Config) {
	v.SetDefault("server.host", config.Server.Host)
	v.SetDefault("server.port", config.Server.Port)
	v.SetDefault("server.logs_dir", config.Server.LogsDir)
	v.SetDefault("transfer.url", config.Transfer.URL)
	v.SetDefault("transfer.proxy_prefix", config.Transfer.ProxyPrefix)
	v.SetDefault("transfer.http_proxy", config.Transfer.HTTPProxy)
	v.SetDefault("transfer.strategy", string(config.Transfer.Strategy))
	v.SetDefault("transfer.preview_limit", config.Transfer.PreviewLimit)
	v.SetDefault("transfer.truncation_marker", config.Transfer.TruncationMarker)
	v.SetDefault("transfer.chunk_size", config.Transfer.ChunkSize)
	v.SetDefault("transfer.user_agent", config.Transfer.UserAgent)
	v.SetDefault("messages.status_error", config.Messages.StatusError)
	v.SetDefault("messages.network_error", config.Messages.NetworkError)
	v.SetDefault("messages.unknown_size", config.Messages.UnknownSize)
	v.SetDefault("messages.stream_error", config.Messages.StreamError)
	v.SetDefault("messages.cancelled", config.Messages.Cancelled)
	v.SetDefault("history.enabled", config.History.Enabled)
	v.SetDefault("history.database_path", config.History.DatabasePath)
	v.SetDefault("notification.enabled", config.Notification.Enabled)
	v.SetDefault("notification.method", config.Notification.Method)
	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output_path", config.Logging.OutputPath)
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Server.LogsDir = expandPath(config.Server.LogsDir)
	if config.History.DatabasePath != ":memory:" {
		config.History.DatabasePath = expandPath(config.History.DatabasePath)
	}

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	if strings.Contains(path, "$HOME") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	return os.ExpandEnv(path)
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Transfer.URL == "" {
		return fmt.Errorf("transfer url not configured")
	}

	target, err := url.Parse(config.Transfer.TargetURL())
	if err != nil {
		return fmt.Errorf("invalid transfer url: %w", err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return fmt.Errorf("unsupported transfer url scheme: %q", target.Scheme)
	}

	if !domain.ValidateStrategy(config.Transfer.Strategy) {
		return fmt.Errorf("invalid strategy: %s", config.Transfer.Strategy)
	}

	if config.Transfer.PreviewLimit < 1 {
		return fmt.Errorf("preview limit must be at least 1")
	}

	if config.Transfer.ChunkSize < 0 {
		return fmt.Errorf("chunk size cannot be negative")
	}

	if config.History.Enabled && config.History.DatabasePath == "" {
		return fmt.Errorf("history database path not configured")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *domain.Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	sections := map[string]interface{}{
		"server":       config.Server,
		"transfer":     config.Transfer,
		"messages":     config.Messages,
		"history":      config.History,
		"notification": config.Notification,
		"logging":      config.Logging,
	}
	for key, section := range sections {
		// Keys must use the mapstructure names so the file loads back
		values := map[string]interface{}{}
		if err := mapstructure.Decode(section, &values); err != nil {
			return fmt.Errorf("failed to encode %s config: %w", key, err)
		}
		v.Set(key, values)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
