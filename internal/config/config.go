package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	Env      string `mapstructure:"MINT_ENV"`
	HTTPAddr string `mapstructure:"MINT_HTTP_ADDR"`

	Commerce CommerceConfig `mapstructure:",squash"`
	Solana   SolanaConfig   `mapstructure:",squash"`
	Events   EventsConfig   `mapstructure:",squash"`
	Security SecurityConfig `mapstructure:",squash"`
}

type CommerceConfig struct {
	BaseURL       string        `mapstructure:"MINT_COMMERCE_BASE_URL"`
	Username      string        `mapstructure:"RADIUS_ART_USERNAME"`
	Password      string        `mapstructure:"RADIUS_ART_PASSWORD"`
	Timeout       time.Duration `mapstructure:"MINT_COMMERCE_TIMEOUT"`
	NotifyTimeout time.Duration `mapstructure:"MINT_NOTIFY_TIMEOUT"`
}

type SolanaConfig struct {
	Network         string `mapstructure:"MINT_SOLANA_NETWORK"`
	RPCURL          string `mapstructure:"MINT_SOLANA_RPC_URL"`
	ReceiverAddress string `mapstructure:"MINT_PRICE_RECEIVER"`
}

type EventsConfig struct {
	KafkaBrokers []string `mapstructure:"MINT_KAFKA_BROKERS"`
	KafkaTopic   string   `mapstructure:"MINT_KAFKA_TOPIC"`
}

type SecurityConfig struct {
	CORSAllowedOrigins []string `mapstructure:"MINT_CORS_ALLOWED_ORIGINS"`
}

func loadDotEnvFiles() {
	candidates := []string{
		".env",
		filepath.Join("..", ".env"),
	}

	seen := make(map[string]struct{})
	for _, path := range candidates {
		abs := path
		if resolved, err := filepath.Abs(path); err == nil {
			abs = resolved
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}

		if _, err := os.Stat(path); err == nil {
			_ = gotenv.Load(path) // env vars already set take precedence
		}
	}
}

// Load reads configuration from the environment (and any .env file found
// next to the binary). Missing credentials or receiver address are not an
// error here; they surface at the component that needs them.
func Load() (*Config, error) {
	loadDotEnvFiles()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("MINT_ENV", "dev")
	v.SetDefault("MINT_HTTP_ADDR", ":8080")
	v.SetDefault("MINT_COMMERCE_BASE_URL", "https://radius.art/wp-json/nftbuilder/v1")
	v.SetDefault("RADIUS_ART_USERNAME", "")
	v.SetDefault("RADIUS_ART_PASSWORD", "")
	v.SetDefault("MINT_COMMERCE_TIMEOUT", "10s")
	v.SetDefault("MINT_NOTIFY_TIMEOUT", "10s")
	v.SetDefault("MINT_SOLANA_NETWORK", "devnet")
	v.SetDefault("MINT_SOLANA_RPC_URL", "")
	v.SetDefault("MINT_PRICE_RECEIVER", "")
	v.SetDefault("MINT_KAFKA_BROKERS", "")
	v.SetDefault("MINT_KAFKA_TOPIC", "mint-requested")
	v.SetDefault("MINT_CORS_ALLOWED_ORIGINS", "*")

	// Comma-separated lists
	for _, key := range []string{"MINT_KAFKA_BROKERS", "MINT_CORS_ALLOWED_ORIGINS"} {
		v.Set(key, splitList(v.GetString(key)))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyNetworkDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) validate() error {
	switch c.Solana.Network {
	case "mainnet", "devnet", "testnet":
	default:
		return fmt.Errorf("invalid MINT_SOLANA_NETWORK %q (must be mainnet, devnet, or testnet)", c.Solana.Network)
	}

	u, err := url.Parse(c.Commerce.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid MINT_COMMERCE_BASE_URL %q", c.Commerce.BaseURL)
	}
	if c.Commerce.Timeout <= 0 {
		return fmt.Errorf("MINT_COMMERCE_TIMEOUT must be positive")
	}
	if c.Commerce.NotifyTimeout <= 0 {
		return fmt.Errorf("MINT_NOTIFY_TIMEOUT must be positive")
	}
	if len(c.Events.KafkaBrokers) > 0 && strings.TrimSpace(c.Events.KafkaTopic) == "" {
		return fmt.Errorf("MINT_KAFKA_TOPIC is required when MINT_KAFKA_BROKERS is set")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// Warnings lists settings that are missing but only fail when a request
// reaches the component that needs them.
func (c *Config) Warnings() []string {
	var out []string
	if c.Commerce.Username == "" || c.Commerce.Password == "" {
		out = append(out, "commerce credentials (RADIUS_ART_USERNAME/RADIUS_ART_PASSWORD) are not set")
	}
	if c.Solana.ReceiverAddress == "" {
		out = append(out, "MINT_PRICE_RECEIVER is not set")
	}
	return out
}

// applyNetworkDefaults normalizes the cluster name and fills in its public RPC endpoint.
func (c *Config) applyNetworkDefaults() {
	net := strings.ToLower(strings.TrimSpace(c.Solana.Network))
	switch net {
	case "mainnet-beta":
		net = "mainnet"
	case "":
		net = "devnet"
	}
	c.Solana.Network = net
	c.Solana.ReceiverAddress = strings.TrimSpace(c.Solana.ReceiverAddress)
	c.Commerce.BaseURL = strings.TrimRight(strings.TrimSpace(c.Commerce.BaseURL), "/")

	if strings.TrimSpace(c.Solana.RPCURL) == "" {
		c.Solana.RPCURL = DefaultRPCURL(net)
	}
}

func DefaultRPCURL(network string) string {
	switch network {
	case "mainnet":
		return "https://api.mainnet-beta.solana.com"
	case "testnet":
		return "https://api.testnet.solana.com"
	default:
		return "https://api.devnet.solana.com"
	}
}
