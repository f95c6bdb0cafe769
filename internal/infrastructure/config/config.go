package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config アプリケーション全体の設定
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	PayService    PayServiceConfig
	Bridge        BridgeConfig
	LocalAPI      LocalAPIConfig
	OpenTelemetry OpenTelemetryConfig
	Environment   string
}

// ServerConfig ローカルAPIサーバー設定
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig データベース設定
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// PayServiceConfig 上流決済サービスの設定
type PayServiceConfig struct {
	Origin               string
	RequestTimeout       time.Duration
	SettlementTimeout    time.Duration // フォールバックタイマー（既定15分）
	RedeemMaxAttempts    int
	RedeemRetryInterval  time.Duration
	UnarchiveSettleDelay time.Duration
	SupportURL           string
}

// BridgeConfig ブラウザー拡張ホストの設定
type BridgeConfig struct {
	Origin         string
	RequestTimeout time.Duration
}

// LocalAPIConfig ローカルAPIの認証設定
// ポップアップUIだけが到達できるよう共有キーで保護する
type LocalAPIConfig struct {
	APIKey     string
	AllowedIPs []string
}

// OpenTelemetryConfig OpenTelemetry設定
type OpenTelemetryConfig struct {
	Enabled         bool
	ServiceName     string
	ServiceVersion  string
	OTLPEndpoint    string
	OTLPInsecure    bool
	TraceExporter   string // "otlp", "stdout"
	MetricsExporter string // "otlp", "stdout"
}

// Load 設定を読み込む
func Load() (*Config, error) {
	// .envファイルを読み込む（存在しない場合は無視）
	_ = godotenv.Load()

	env := getEnv("ENVIRONMENT", "development")

	cfg := &Config{
		Environment: env,
		Server: ServerConfig{
			Port:        getEnvAsInt("SERVER_PORT", 8123),
			ReadTimeout: getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			// 購入リクエストは決済レースが終わるまで応答を返さないため、
			// フォールバックタイマーより長くとる
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 20*time.Minute),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 3306),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "giftbridge_db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		},
		PayService: PayServiceConfig{
			Origin:               getEnv("PAY_SERVICE_ORIGIN", "https://pay.example.com"),
			RequestTimeout:       getEnvAsDuration("PAY_SERVICE_REQUEST_TIMEOUT", 30*time.Second),
			SettlementTimeout:    getEnvAsDuration("PAY_SERVICE_SETTLEMENT_TIMEOUT", 15*time.Minute),
			RedeemMaxAttempts:    getEnvAsInt("PAY_SERVICE_REDEEM_MAX_ATTEMPTS", 3),
			RedeemRetryInterval:  getEnvAsDuration("PAY_SERVICE_REDEEM_RETRY_INTERVAL", 2*time.Second),
			UnarchiveSettleDelay: getEnvAsDuration("UNARCHIVE_SETTLE_DELAY", 300*time.Millisecond),
			SupportURL:           getEnv("SUPPORT_URL", "https://pay.example.com/request-help"),
		},
		Bridge: BridgeConfig{
			Origin:         getEnv("BRIDGE_ORIGIN", "http://127.0.0.1:8124"),
			RequestTimeout: getEnvAsDuration("BRIDGE_REQUEST_TIMEOUT", 10*time.Second),
		},
		LocalAPI: LocalAPIConfig{
			APIKey:     getEnv("LOCAL_API_KEY", ""),
			AllowedIPs: getEnvAsSlice("LOCAL_API_ALLOWED_IPS", []string{"127.0.0.1", "::1"}),
		},
		OpenTelemetry: OpenTelemetryConfig{
			Enabled:         getEnvAsBool("OTEL_ENABLED", false),
			ServiceName:     getEnv("OTEL_SERVICE_NAME", "giftbridge"),
			ServiceVersion:  getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
			OTLPInsecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			TraceExporter:   getEnv("OTEL_TRACES_EXPORTER", "otlp"),
			MetricsExporter: getEnv("OTEL_METRICS_EXPORTER", "otlp"),
		},
	}

	// 必須設定の検証
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate 設定の検証
func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.PayService.Origin == "" {
		return fmt.Errorf("PAY_SERVICE_ORIGIN is required")
	}
	if c.LocalAPI.APIKey == "" {
		return fmt.Errorf("LOCAL_API_KEY is required")
	}
	if c.PayService.SettlementTimeout <= 0 {
		return fmt.Errorf("PAY_SERVICE_SETTLEMENT_TIMEOUT must be positive")
	}
	if c.PayService.RedeemMaxAttempts <= 0 {
		return fmt.Errorf("PAY_SERVICE_REDEEM_MAX_ATTEMPTS must be positive")
	}
	return nil
}

// DSN データベース接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 環境変数を整数として取得
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool 環境変数を真偽値として取得
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration 環境変数を時間として取得
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice 環境変数をカンマ区切りのリストとして取得
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
