// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// Arbitrage contains the quote currencies and opportunity thresholds.
	Arbitrage ArbitrageConfig

	// Monitor contains the polling loop settings.
	Monitor MonitorConfig

	// Report contains spreadsheet report settings.
	Report ReportConfig

	// Wallex contains the market data API settings.
	Wallex WallexConfig

	// Coingecko contains settings for the CoinGecko global stats source.
	Coingecko CoingeckoConfig

	// Storage contains ClickHouse settings for persisting analysis records.
	Storage StorageConfig

	// Kafka contains settings for publishing opportunities.
	Kafka KafkaConfig

	// Telegram contains settings for opportunity alerts.
	Telegram TelegramConfig

	// Server contains settings for the read API.
	Server ServerConfig
}

// ArbitrageConfig holds the analysis thresholds.
type ArbitrageConfig struct {
	// StableQuote is the stablecoin quote currency suffix (e.g. "USDT").
	StableQuote string

	// FiatQuote is the local fiat quote currency suffix (e.g. "TMN").
	FiatQuote string

	// ReferenceSymbol is the pair that bridges StableQuote to FiatQuote.
	ReferenceSymbol string

	// MinPercentageDifference is the deviation (in percent) an asset must exceed.
	MinPercentageDifference float64

	// MinUSDTQuoteVolume is the inclusive 24h quote volume floor of the USDT pair.
	MinUSDTQuoteVolume float64

	// MinTMNQuoteVolume is the inclusive 24h quote volume floor of the TMN pair.
	MinTMNQuoteVolume float64

	// TopN is how many ranked opportunities are logged and alerted.
	TopN int
}

// MonitorConfig holds the polling loop settings.
type MonitorConfig struct {
	// Interval is the pause between two analysis cycles.
	Interval time.Duration

	// CycleTimeout bounds the data fetches of one cycle.
	CycleTimeout time.Duration

	// GlobalStatsSource is "wallex" or "coingecko".
	GlobalStatsSource string
}

// ReportConfig holds spreadsheet report settings.
type ReportConfig struct {
	// Enabled turns the spreadsheet sink on.
	Enabled bool

	// Dir is where one workbook per cycle is written.
	Dir string

	// HighPositive and HighNegative are the Difference % highlight thresholds.
	HighPositive float64
	HighNegative float64
}

// WallexConfig holds Wallex public API settings.
type WallexConfig struct {
	BaseURL           string
	RequestsPerSecond float64
	MaxRetries        int
	RequestTimeout    time.Duration
}

// CoingeckoConfig holds CoinGecko API settings.
type CoingeckoConfig struct {
	BaseURL string

	// APIKey is sent as x-cg-demo-api-key when set.
	APIKey string

	// Pages is how many 250-coin pages of /coins/markets to read per cycle.
	Pages int

	MaxRetries     int
	RequestTimeout time.Duration
}

// StorageConfig holds ClickHouse settings.
type StorageConfig struct {
	Enabled bool
	DBDSN   string

	// MigrationsDir overrides the migrations embedded in cmd/migrate.
	MigrationsDir string
}

// KafkaConfig holds Kafka connection settings for opportunity messages.
type KafkaConfig struct {
	Enabled bool

	// Broker is the Kafka broker address (e.g., "localhost:9092").
	Broker string

	// Topic is the Kafka topic for opportunities.
	Topic string
}

// TelegramConfig holds Telegram alert settings. Alerts are off when BotToken is empty.
type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

// ServerConfig holds the read API settings.
type ServerConfig struct {
	Port    string
	GinMode string
}

// getDatabaseDSN constructs the ClickHouse DSN from environment variables.
func getDatabaseDSN() string {
	dbUser := getEnv("CLICKHOUSE_USER", "user")
	dbPassword := getEnv("CLICKHOUSE_PASSWORD", "password")
	dbHost := getEnv("CLICKHOUSE_HOST", "localhost")
	dbPort := getEnv("CLICKHOUSE_TCP_PORT", "9000")
	dbName := getEnv("CLICKHOUSE_DB", "db")

	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%s/%s?dial_timeout=10s&read_timeout=20s",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

// getArbitrageConfig loads quote currencies and thresholds from environment.
func getArbitrageConfig() ArbitrageConfig {
	stable := strings.ToUpper(getEnv("STABLE_QUOTE", "USDT"))
	fiat := strings.ToUpper(getEnv("FIAT_QUOTE", "TMN"))

	topN := getEnvInt("TOP_N", 10)
	if topN < 1 {
		topN = 10
	}

	return ArbitrageConfig{
		StableQuote:             stable,
		FiatQuote:               fiat,
		ReferenceSymbol:         strings.ToUpper(getEnv("REFERENCE_SYMBOL", stable+fiat)),
		MinPercentageDifference: getEnvFloat("MIN_PERCENTAGE_DIFFERENCE", 0.1),
		MinUSDTQuoteVolume:      getEnvFloat("MIN_USDT_QUOTE_VOLUME", 1000),
		MinTMNQuoteVolume:       getEnvFloat("MIN_TMN_QUOTE_VOLUME", 50_000_000),
		TopN:                    topN,
	}
}

// getMonitorConfig loads the polling loop settings from environment.
func getMonitorConfig() MonitorConfig {
	interval := getEnvDuration("CYCLE_INTERVAL", time.Minute)
	if interval <= 0 {
		interval = time.Minute
	}

	source := strings.ToLower(getEnv("GLOBAL_STATS_SOURCE", "wallex"))
	if source != "wallex" && source != "coingecko" {
		source = "wallex"
	}

	return MonitorConfig{
		Interval:          interval,
		CycleTimeout:      getEnvDuration("CYCLE_TIMEOUT", 45*time.Second),
		GlobalStatsSource: source,
	}
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	chatID, _ := strconv.ParseInt(getEnv("TELEGRAM_CHAT_ID", "0"), 10, 64)

	return &AppConfig{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Arbitrage: getArbitrageConfig(),
		Monitor:   getMonitorConfig(),
		Report: ReportConfig{
			Enabled:      getEnvBool("REPORT_ENABLED", true),
			Dir:          getEnv("REPORT_DIR", "reports"),
			HighPositive: getEnvFloat("HIGHLIGHT_HIGH_POSITIVE", 0.5),
			HighNegative: getEnvFloat("HIGHLIGHT_HIGH_NEGATIVE", -0.5),
		},
		Wallex: WallexConfig{
			BaseURL:           getEnv("WALLEX_BASE_URL", "https://api.wallex.ir"),
			RequestsPerSecond: getEnvFloat("WALLEX_RPS", 2),
			MaxRetries:        getEnvInt("WALLEX_MAX_RETRIES", 3),
			RequestTimeout:    getEnvDuration("WALLEX_REQUEST_TIMEOUT", 10*time.Second),
		},
		Coingecko: CoingeckoConfig{
			BaseURL:        getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
			APIKey:         getEnv("COINGECKO_API_KEY", ""),
			Pages:          getEnvInt("COINGECKO_PAGES", 2),
			MaxRetries:     getEnvInt("COINGECKO_MAX_RETRIES", 3),
			RequestTimeout: getEnvDuration("COINGECKO_REQUEST_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Enabled:       getEnvBool("CLICKHOUSE_ENABLED", false),
			DBDSN:         getDatabaseDSN(),
			MigrationsDir: getEnv("MIGRATIONS_DIR", ""),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Broker:  getEnv("KAFKA_BROKER", "localhost:9092"),
			Topic:   getEnv("KAFKA_OPPORTUNITY_TOPIC", "radar_opportunities"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   chatID,
		},
		Server: ServerConfig{
			Port:    getEnv("SERVER_PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
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

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
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
