package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション設定を表す
type Config struct {
	Env           string
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Stats         StatsConfig
	Elasticsearch ElasticsearchConfig
	NATS          NATSConfig
	Log           LogConfig
	Metrics       MetricsConfig
	Participation ParticipationConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// RedisConfig はRedis設定
// Host が空の場合、ロックとビューキャッシュは無効になる
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StatsConfig は統計サービスの設定
type StatsConfig struct {
	URL       string
	App       string
	Timeout   time.Duration
	CacheTTL  time.Duration
	QueueSize int
}

// ElasticsearchConfig は全文検索の設定。Addresses が空なら無効
type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
	Index     string
}

// NATSConfig は通知の設定。URL が空なら無効
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

// LogConfig はログ設定
type LogConfig struct {
	Level string
}

// MetricsConfig は /metrics の認証設定
type MetricsConfig struct {
	User     string
	Password string
}

// ParticipationConfig は参加リクエスト処理の設定
type ParticipationConfig struct {
	LockTTL        time.Duration
	LockRetries    int
	LockRetryDelay time.Duration
}

// Load は環境変数から設定を読み込む
// カレントディレクトリに .env があれば先に読み込む（既存の環境変数は上書きしない）
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "event_participation"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Stats: StatsConfig{
			URL:       getEnv("STATS_SERVER_URL", "http://localhost:9090"),
			App:       getEnv("STATS_APP", "event-participation"),
			Timeout:   getDurationEnv("STATS_TIMEOUT", 2*time.Second),
			CacheTTL:  getDurationEnv("STATS_CACHE_TTL", 30*time.Second),
			QueueSize: getIntEnv("STATS_HIT_QUEUE_SIZE", 1024),
		},
		Elasticsearch: ElasticsearchConfig{
			Addresses: getListEnv("ELASTICSEARCH_ADDRESSES"),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:     getEnv("ELASTICSEARCH_INDEX", "events"),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "events"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", ""),
		},
		Metrics: MetricsConfig{
			User:     getEnv("METRICS_USER", ""),
			Password: getEnv("METRICS_PASSWORD", ""),
		},
		Participation: ParticipationConfig{
			LockTTL:        getDurationEnv("EVENT_LOCK_TTL", 10*time.Second),
			LockRetries:    getIntEnv("EVENT_LOCK_RETRIES", 3),
			LockRetryDelay: getDurationEnv("EVENT_LOCK_RETRY_DELAY", 100*time.Millisecond),
		},
	}

	// Railway等のPaaSが提供するURL形式を優先する
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		applyDatabaseURL(&cfg.Database, raw)
	}
	if raw := os.Getenv("REDIS_URL"); raw != "" {
		applyRedisURL(&cfg.Redis, raw)
	}

	return cfg
}

func applyDatabaseURL(c *DatabaseConfig, raw string) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return
	}
	c.Host = u.Hostname()
	if p := u.Port(); p != "" {
		c.Port = p
	}
	if u.User != nil {
		c.User = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			c.Password = pw
		}
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		c.DBName = name
	}
	c.SSLMode = "require"
	if mode := u.Query().Get("sslmode"); mode != "" {
		c.SSLMode = mode
	}
}

func applyRedisURL(c *RedisConfig, raw string) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return
	}
	c.Host = u.Hostname()
	if p := u.Port(); p != "" {
		c.Port = p
	}
	if u.User != nil {
		if pw, ok := u.User.Password(); ok {
			c.Password = pw
		}
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Enabled はRedisが設定されているかを返す
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Enabled は全文検索が設定されているかを返す
func (c *ElasticsearchConfig) Enabled() bool {
	return len(c.Addresses) > 0
}

// Enabled は通知が設定されているかを返す
func (c *NATSConfig) Enabled() bool {
	return c.URL != ""
}

// IsEnabled は /metrics の認証が有効かどうかを返す
func (c *MetricsConfig) IsEnabled() bool {
	return c.User != "" && c.Password != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
