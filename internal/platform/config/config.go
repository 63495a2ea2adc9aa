package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	LedgerFabric = "fabric"
	LedgerMemory = "memory"
)

type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	HTTPAddr string `mapstructure:"HTTP_ADDR"`

	LedgerBackend      string `mapstructure:"LEDGER_BACKEND"`
	FabricMSPID        string `mapstructure:"FABRIC_MSP_ID"`
	FabricPeerEndpoint string `mapstructure:"FABRIC_PEER_ENDPOINT"`
	FabricGatewayPeer  string `mapstructure:"FABRIC_GATEWAY_PEER"`
	FabricCertPath     string `mapstructure:"FABRIC_CERT_PATH"`
	FabricKeyPath      string `mapstructure:"FABRIC_KEY_PATH"`
	FabricTLSCertPath  string `mapstructure:"FABRIC_TLS_CERT_PATH"`
	ChannelName        string `mapstructure:"CHANNEL_NAME"`
	ChaincodeName      string `mapstructure:"CHAINCODE_NAME"`
	CallerID           string `mapstructure:"CALLER_ID"`

	IPFSAPIURL     string `mapstructure:"IPFS_API_URL"`
	IPFSGatewayURL string `mapstructure:"IPFS_GATEWAY_URL"`
	RedisURL       string `mapstructure:"REDIS_URL"`

	KafkaBrokers []string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string   `mapstructure:"KAFKA_TOPIC"`

	StoreTimeout    time.Duration `mapstructure:"STORE_TIMEOUT"`
	LedgerTimeout   time.Duration `mapstructure:"LEDGER_TIMEOUT"`
	RetryMaxElapsed time.Duration `mapstructure:"RETRY_MAX_ELAPSED"`
	EventTimeout    time.Duration `mapstructure:"EVENT_TIMEOUT"`
}

var keys = []string{
	"ENV", "LOG_LEVEL", "HTTP_ADDR",
	"LEDGER_BACKEND", "FABRIC_MSP_ID", "FABRIC_PEER_ENDPOINT", "FABRIC_GATEWAY_PEER",
	"FABRIC_CERT_PATH", "FABRIC_KEY_PATH", "FABRIC_TLS_CERT_PATH",
	"CHANNEL_NAME", "CHAINCODE_NAME", "CALLER_ID",
	"IPFS_API_URL", "IPFS_GATEWAY_URL", "REDIS_URL",
	"KAFKA_BROKERS", "KAFKA_TOPIC",
	"STORE_TIMEOUT", "LEDGER_TIMEOUT", "RETRY_MAX_ELAPSED", "EVENT_TIMEOUT",
}

// Load reads the environment, then an optional .env file in the working
// directory, on top of the defaults below.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8090")
	v.SetDefault("LEDGER_BACKEND", LedgerFabric)
	v.SetDefault("FABRIC_MSP_ID", "Org1MSP")
	v.SetDefault("FABRIC_PEER_ENDPOINT", "localhost:7051")
	v.SetDefault("FABRIC_GATEWAY_PEER", "peer0.org1.example.com")
	v.SetDefault("CHANNEL_NAME", "mychannel")
	v.SetDefault("CHAINCODE_NAME", "registry")
	v.SetDefault("CALLER_ID", "local-user")
	v.SetDefault("IPFS_API_URL", "http://localhost:5001")
	v.SetDefault("IPFS_GATEWAY_URL", "http://localhost:8080")
	v.SetDefault("KAFKA_TOPIC", "shdms.records")
	v.SetDefault("STORE_TIMEOUT", "30s")
	v.SetDefault("LEDGER_TIMEOUT", "1m")
	v.SetDefault("EVENT_TIMEOUT", "5s")
	v.SetDefault("RETRY_MAX_ELAPSED", "10s")

	for _, key := range keys {
		v.BindEnv(key)
	}

	// A missing .env file is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.KafkaBrokers = splitList(v.GetString("KAFKA_BROKERS"))
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate rejects configurations the client cannot start with.
func (c *Config) Validate() error {
	switch c.LedgerBackend {
	case LedgerFabric:
		if c.FabricCertPath == "" {
			return fmt.Errorf("FABRIC_CERT_PATH is required when LEDGER_BACKEND is %q", LedgerFabric)
		}
		if c.FabricKeyPath == "" {
			return fmt.Errorf("FABRIC_KEY_PATH is required when LEDGER_BACKEND is %q", LedgerFabric)
		}
		if c.FabricTLSCertPath == "" {
			return fmt.Errorf("FABRIC_TLS_CERT_PATH is required when LEDGER_BACKEND is %q", LedgerFabric)
		}
	case LedgerMemory:
		if c.CallerID == "" {
			return fmt.Errorf("CALLER_ID is required when LEDGER_BACKEND is %q", LedgerMemory)
		}
	default:
		return fmt.Errorf("LEDGER_BACKEND must be %q or %q, got %q", LedgerFabric, LedgerMemory, c.LedgerBackend)
	}

	if c.IPFSAPIURL == "" || c.IPFSGatewayURL == "" {
		return fmt.Errorf("IPFS_API_URL and IPFS_GATEWAY_URL are required")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	if c.LedgerTimeout <= 0 {
		return fmt.Errorf("LEDGER_TIMEOUT must be positive, got %s", c.LedgerTimeout)
	}
	if c.EventTimeout <= 0 {
		return fmt.Errorf("EVENT_TIMEOUT must be positive, got %s", c.EventTimeout)
	}
	if c.RetryMaxElapsed < 0 {
		return fmt.Errorf("RETRY_MAX_ELAPSED must not be negative, got %s", c.RetryMaxElapsed)
	}
	return nil
}
