package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	WalletSimulated = "simulated"
	WalletNone      = "none"

	defaultBaseURL     = "http://localhost:3000"
	defaultDestination = "0x512e4a7dda6b13f917d89fa782bdd7666dab1599"
	defaultDescription = "ORBITAL-X"
)

// Config aggregates runtime configuration grouped by concern.
type Config struct {
	ServiceName string          `mapstructure:"service_name"`
	Env         string          `mapstructure:"env"`
	Log         LogConfig       `mapstructure:"log"`
	Backend     BackendConfig   `mapstructure:"backend"`
	Confirm     ConfirmConfig   `mapstructure:"confirm"`
	Payment     PaymentConfig   `mapstructure:"payment"`
	Wallet      WalletConfig    `mapstructure:"wallet"`
	Server      ServerConfig    `mapstructure:"server"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ConfirmConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type PaymentConfig struct {
	To          string `mapstructure:"to"`
	Description string `mapstructure:"description"`
}

type WalletConfig struct {
	Mode        string  `mapstructure:"mode"`
	SuccessRate float64 `mapstructure:"success_rate"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// UsesDefaultDestination reports whether payments still go to the built-in test address.
func (c Config) UsesDefaultDestination() bool {
	return strings.EqualFold(c.Payment.To, defaultDestination)
}

// Flags registers every config key on fs so the CLI can override it.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "optional config file (yaml, toml or json)")
	fs.String("service_name", "minipay", "service name attached to logs and traces")
	fs.String("env", "dev", "environment name; dev enables debug logs")
	fs.String("log.file", "", "duplicate logs to this file")
	fs.String("backend.base_url", defaultBaseURL, "base URL of the initiate-payment endpoint")
	fs.Duration("backend.timeout", 0, "per-call timeout for backend requests; 0 disables it")
	fs.String("confirm.base_url", "", "base URL of the confirm-payment endpoint (env NEXTAUTH_URL)")
	fs.String("payment.to", defaultDestination, "destination address of every payment")
	fs.String("payment.description", defaultDescription, "description attached to every payment")
	fs.String("wallet.mode", WalletSimulated, "wallet runtime: simulated or none")
	fs.Float64("wallet.success_rate", 1, "share of simulated payments the wallet approves")
	fs.String("server.addr", ":3000", "listen address of the reference backend")
	fs.String("telemetry.otlp_endpoint", "", "OTLP/HTTP traces endpoint (env OTEL_EXPORTER_OTLP_TRACES_ENDPOINT)")
}

// Load resolves configuration from, in increasing priority: defaults, .env, the
// optional config file, MINIPAY_* environment variables and explicitly set flags.
func Load(fs *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MINIPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", err)
		}
	}
	_ = v.BindEnv("confirm.base_url", "MINIPAY_CONFIRM_BASE_URL", "NEXT_PUBLIC_NEXTAUTH_URL", "NEXTAUTH_URL")
	_ = v.BindEnv("telemetry.otlp_endpoint", "MINIPAY_TELEMETRY_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	applyDefaults(&c)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func applyDefaults(c *Config) {
	if c.ServiceName == "" {
		c.ServiceName = "minipay"
	}
	if c.Env == "" {
		c.Env = "dev"
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaultBaseURL
	}
	if c.Confirm.BaseURL == "" {
		c.Confirm.BaseURL = defaultBaseURL
	}
	if c.Payment.To == "" {
		c.Payment.To = defaultDestination
	}
	if c.Payment.Description == "" {
		c.Payment.Description = defaultDescription
	}
	if c.Wallet.Mode == "" {
		c.Wallet.Mode = WalletSimulated
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
}

func (c Config) Validate() error {
	var errs []error
	switch c.Wallet.Mode {
	case WalletSimulated, WalletNone:
	default:
		errs = append(errs, fmt.Errorf("config: wallet.mode %q: want %s or %s", c.Wallet.Mode, WalletSimulated, WalletNone))
	}
	if c.Wallet.SuccessRate < 0 || c.Wallet.SuccessRate > 1 {
		errs = append(errs, fmt.Errorf("config: wallet.success_rate %v out of [0, 1]", c.Wallet.SuccessRate))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, fmt.Errorf("config: backend.timeout must not be negative"))
	}
	return errors.Join(errs...)
}
