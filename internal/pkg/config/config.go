package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Health   HealthConfig   `yaml:"health"`
	Logging  LoggingConfig  `yaml:"logging"`
	Premws   PremwsConfig   `yaml:"premws"`
}

// PremwsConfig configures the premws browser-capture collaborator and the
// live-odds engine it feeds (internal/transport/browsercapture,
// internal/pkg/livefeed).
type PremwsConfig struct {
	Enabled bool `yaml:"enabled"`
	// SocketURLSubstring selects which captured WebSocket connections carry
	// the live-odds feed (default: "premws-pt1.us.365lpodds.com").
	SocketURLSubstring string `yaml:"socket_url_substring"`
	// NavigateURL is the page chromedp opens to establish the socket.
	NavigateURL string `yaml:"navigate_url"`
	UserAgent   string `yaml:"user_agent"`
	// ReconnectBackoff is the delay before retrying a dropped socket.
	ReconnectBackoff time.Duration `yaml:"reconnect_backoff"`
	// ReconnectBackoffMax caps exponential growth of ReconnectBackoff.
	ReconnectBackoffMax time.Duration `yaml:"reconnect_backoff_max"`
	ProxyList           []string      `yaml:"proxy_list"`
	// ExtraSports lets an operator extend the static sport registry
	// (livefeed.Registry.Extend) without a code change. The seed table is
	// never removed, only extended or overridden by SportID.
	ExtraSports []PremwsSportOverride `yaml:"extra_sports"`
	Snapshot    PremwsSnapshotConfig  `yaml:"snapshot"`
	Notify      PremwsNotifyConfig    `yaml:"notify"`
}

// PremwsSportOverride is one operator-supplied row merged into the sport
// registry at startup (livefeed.Registry.Extend).
type PremwsSportOverride struct {
	SportID       string   `yaml:"sport_id"`
	Name          string   `yaml:"name"`
	Folder        string   `yaml:"folder"`
	Separators    []string `yaml:"separators"`
	SetScoring    bool     `yaml:"set_scoring"`
	HasServing    bool     `yaml:"has_serving"`
	HasPointScore bool     `yaml:"has_point_score"`
}

// PremwsSnapshotConfig configures the optional Postgres snapshot sink
// (internal/pkg/storage.PremwsSnapshotStorage).
type PremwsSnapshotConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	Table    string        `yaml:"table"`
}

// PremwsNotifyConfig configures the Telegram MatchUpdate consumer
// (internal/notify).
type PremwsNotifyConfig struct {
	Enabled          bool   `yaml:"enabled"`
	TelegramBotToken string `yaml:"telegram_bot_token"`
	TelegramChatID   int64  `yaml:"telegram_chat_id"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type HealthConfig struct {
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"` // HTTP server read header timeout (default: 5s)
	Port              int           `yaml:"port"`                // HTTP server listen port (default: 8080)
}

type LoggingConfig struct {
	Enabled       bool          `yaml:"enabled"`        // Включить отправку в Yandex Cloud Logging
	GroupName     string        `yaml:"group_name"`     // Имя лог-группы (например, "default")
	GroupID       string        `yaml:"group_id"`       // ID лог-группы (альтернатива group_name)
	FolderID      string        `yaml:"folder_id"`      // ID каталога (можно задать через YC_FOLDER_ID env)
	Level         string        `yaml:"level"`          // Минимальный уровень логирования (DEBUG, INFO, WARN, ERROR)
	BatchSize     int           `yaml:"batch_size"`     // Размер батча для отправки (по умолчанию 10)
	FlushInterval time.Duration `yaml:"flush_interval"` // Интервал отправки батча (по умолчанию 5s)
	// Метки для логирования (отображаются в Yandex Cloud Logging)
	ProjectLabel string `yaml:"project_label"` // Название проекта (по умолчанию "premwsfeed")
	ServiceLabel string `yaml:"service_label"` // Название сервиса (по умолчанию имя сервиса из кода)
	ClusterLabel string `yaml:"cluster_label"` // Название кластера/каталога (по умолчанию "production")
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}
