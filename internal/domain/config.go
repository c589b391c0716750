package domain

import "fmt"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Transfer     TransferConfig     `mapstructure:"transfer"`
	Messages     MessagesConfig     `mapstructure:"messages"`
	History      HistoryConfig      `mapstructure:"history"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	LogsDir string `mapstructure:"logs_dir"`
}

// TransferConfig describes the Transfer Target and how it is fetched
type TransferConfig struct {
	URL              string   `mapstructure:"url"`
	ProxyPrefix      string   `mapstructure:"proxy_prefix"` // URL-rewriting proxy, prepended to URL
	HTTPProxy        string   `mapstructure:"http_proxy"`   // transport-level proxy
	Strategy         Strategy `mapstructure:"strategy"`
	PreviewLimit     int      `mapstructure:"preview_limit"` // in characters (runes)
	TruncationMarker string   `mapstructure:"truncation_marker"`
	ChunkSize        int      `mapstructure:"chunk_size"`
	UserAgent        string   `mapstructure:"user_agent"`
}

// TargetURL returns the URL actually requested: the proxy prefix followed by the resource URL.
func (c *TransferConfig) TargetURL() string {
	return c.ProxyPrefix + c.URL
}

// MessagesConfig holds the user-visible texts written to the output area.
type MessagesConfig struct {
	StatusError  string `mapstructure:"status_error"`
	NetworkError string `mapstructure:"network_error"`
	UnknownSize  string `mapstructure:"unknown_size"`
	StreamError  string `mapstructure:"stream_error"`
	Cancelled    string `mapstructure:"cancelled"`
}

// StatusErrorText renders the message shown for a non-success HTTP status.
func (m *MessagesConfig) StatusErrorText(status int) string {
	return fmt.Sprintf("%s%d", m.StatusError, status)
}

// StreamErrorText renders the message shown when a read fails mid-stream.
func (m *MessagesConfig) StreamErrorText(err error) string {
	return fmt.Sprintf("%s%v", m.StreamError, err)
}

// HistoryConfig contains transfer history configuration
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "localhost",
			Port:    8080,
			LogsDir: "$HOME/.fetchbar/logs",
		},
		Transfer: TransferConfig{
			URL:              "https://www.gutenberg.org/files/1342/1342-0.txt",
			ProxyPrefix:      "",
			Strategy:         StrategyStream,
			PreviewLimit:     1000,
			TruncationMarker: "\n...",
			ChunkSize:        32 * 1024,
			UserAgent:        "fetchbar/1.0",
		},
		Messages: MessagesConfig{
			StatusError:  "Ошибка загрузки: ",
			NetworkError: "Ошибка сети при загрузке.",
			UnknownSize:  "Не удалось определить размер файла.",
			StreamError:  "Ошибка чтения потока: ",
			Cancelled:    "Загрузка отменена.",
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: "$HOME/.fetchbar/history.db",
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
