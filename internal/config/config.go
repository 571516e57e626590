package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Log          LogConfig          `yaml:"log"`
	Order        OrderConfig        `yaml:"order"`
	Notification NotificationConfig `yaml:"notification"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type OrderConfig struct {
	TxTimeout        time.Duration `yaml:"txTimeout"`
	MaxRetryAttempts int           `yaml:"maxRetryAttempts"`
}

type NotificationConfig struct {
	Workers         int           `yaml:"workers"`
	ProviderTimeout time.Duration `yaml:"providerTimeout"`
	CountryCode     string        `yaml:"countryCode"`
	MinPhoneLength  int           `yaml:"minPhoneLength"`
	CurrencySymbol  string        `yaml:"currencySymbol"`
	Locale          string        `yaml:"locale"`
}

type TelemetryConfig struct {
	Exporter    string `yaml:"exporter"`
	ServiceName string `yaml:"serviceName"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "kasir")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "kasir")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ORDER_TX_TIMEOUT", "5s")
	v.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("NOTIFY_WORKERS", 4)
	v.SetDefault("NOTIFY_PROVIDER_TIMEOUT", "30s")
	v.SetDefault("NOTIFY_COUNTRY_CODE", "62")
	v.SetDefault("NOTIFY_MIN_PHONE_LENGTH", 10)
	v.SetDefault("NOTIFY_CURRENCY_SYMBOL", "Rp")
	v.SetDefault("NOTIFY_LOCALE", "id")
	v.SetDefault("OTEL_EXPORTER", "none")
	v.SetDefault("OTEL_SERVICE_NAME", "kasir")
}

// Load builds the configuration from defaults and environment variables only.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv fills cfg from the environment. Values already set (for example
// from a YAML file) are kept unless the matching variable is set explicitly.
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	str := func(dst *string, key string) {
		if *dst == "" || envSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(dst *int, key string) {
		if *dst == 0 || envSet(key) {
			*dst = v.GetInt(key)
		}
	}
	dur := func(dst *time.Duration, key string) error {
		if *dst != 0 && !envSet(key) {
			return nil
		}
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}

	num(&cfg.Server.Port, "SERVER_PORT")

	str(&cfg.Database.Host, "DB_HOST")
	num(&cfg.Database.Port, "DB_PORT")
	str(&cfg.Database.User, "DB_USER")
	str(&cfg.Database.Password, "DB_PASSWORD")
	str(&cfg.Database.Name, "DB_NAME")
	num(&cfg.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS")
	num(&cfg.Database.MaxIdleConns, "DB_MAX_IDLE_CONNS")
	if err := dur(&cfg.Database.ConnMaxLifetime, "DB_CONN_MAX_LIFETIME"); err != nil {
		return err
	}

	str(&cfg.Log.Level, "LOG_LEVEL")

	if err := dur(&cfg.Order.TxTimeout, "ORDER_TX_TIMEOUT"); err != nil {
		return err
	}
	num(&cfg.Order.MaxRetryAttempts, "ORDER_MAX_RETRY_ATTEMPTS")

	num(&cfg.Notification.Workers, "NOTIFY_WORKERS")
	if err := dur(&cfg.Notification.ProviderTimeout, "NOTIFY_PROVIDER_TIMEOUT"); err != nil {
		return err
	}
	str(&cfg.Notification.CountryCode, "NOTIFY_COUNTRY_CODE")
	num(&cfg.Notification.MinPhoneLength, "NOTIFY_MIN_PHONE_LENGTH")
	str(&cfg.Notification.CurrencySymbol, "NOTIFY_CURRENCY_SYMBOL")
	str(&cfg.Notification.Locale, "NOTIFY_LOCALE")

	str(&cfg.Telemetry.Exporter, "OTEL_EXPORTER")
	str(&cfg.Telemetry.ServiceName, "OTEL_SERVICE_NAME")

	return nil
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
