// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	LedgerBackend       string        `mapstructure:"LEDGER_BACKEND"`
	DBDriver            string        `mapstructure:"DB_DRIVER"`
	DBSource            string        `mapstructure:"DB_SOURCE"`
	MigrationURL        string        `mapstructure:"MIGRATION_URL"`
	ServerAddress       string        `mapstructure:"SERVER_ADDRESS"`
	TokenMaker          string        `mapstructure:"TOKEN_MAKER"`
	TokenSymmetricKey   string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	Environment         string        `mapstructure:"GO_ENV"`
	SeedDemoData        bool          `mapstructure:"SEED_DEMO_DATA"`
	MaxUploadBytes      int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	AudioMaxDuration    time.Duration `mapstructure:"AUDIO_MAX_DURATION"`
	KafkaBrokers        string        `mapstructure:"KAFKA_BROKERS"`
	KafkaTransferTopic  string        `mapstructure:"KAFKA_TRANSFER_TOPIC"`
	OTelEnabled         bool          `mapstructure:"OTEL_ENABLED"`
	ShutdownTimeout     time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// Ledger backends.
const (
	LedgerMemory   = "memory"
	LedgerPostgres = "postgres"
)

var defaults = map[string]any{
	"LEDGER_BACKEND":        LedgerMemory,
	"DB_DRIVER":             "postgres",
	"MIGRATION_URL":         "file://configs/db/migration",
	"SERVER_ADDRESS":        "0.0.0.0:8080",
	"TOKEN_MAKER":           "paseto",
	"ACCESS_TOKEN_DURATION": 15 * time.Minute,
	"GO_ENV":                "production",
	"SEED_DEMO_DATA":        false,
	"MAX_UPLOAD_BYTES":      16 << 20,
	"AUDIO_MAX_DURATION":    5 * time.Second,
	"KAFKA_TRANSFER_TOPIC":  "transfer.completed",
	"OTEL_ENABLED":          false,
	"SHUTDOWN_TIMEOUT":      10 * time.Second,
}

// Load reads configuration from path/app.env and environment variables.
//
// A missing file is not an error, environment variables and defaults still apply.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Unmarshal only sees env values for keys viper already knows.
	for _, key := range []string{"DB_SOURCE", "TOKEN_SYMMETRIC_KEY", "KAFKA_BROKERS"} {
		v.SetDefault(key, "")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// Brokers splits the comma separated KAFKA_BROKERS value.
func (c Config) Brokers() []string {
	var brokers []string

	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return brokers
}

// IsDevelopment reports whether the app runs in the development environment.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}
