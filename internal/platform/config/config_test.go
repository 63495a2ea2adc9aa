package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8090", cfg.HTTPAddr)
	assert.Equal(t, LedgerFabric, cfg.LedgerBackend)
	assert.Equal(t, "mychannel", cfg.ChannelName)
	assert.Equal(t, "registry", cfg.ChaincodeName)
	assert.Equal(t, "http://localhost:5001", cfg.IPFSAPIURL)
	assert.Equal(t, 30*time.Second, cfg.StoreTimeout)
	assert.Equal(t, time.Minute, cfg.LedgerTimeout)
	assert.Equal(t, 5*time.Second, cfg.EventTimeout)
	assert.Equal(t, 10*time.Second, cfg.RetryMaxElapsed)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.True(t, cfg.IsDev())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "memory")
	t.Setenv("CHAINCODE_NAME", "registry-v2")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("STORE_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, LedgerMemory, cfg.LedgerBackend)
	assert.Equal(t, "registry-v2", cfg.ChaincodeName)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LedgerBackend:     LedgerFabric,
			FabricCertPath:    "cert.pem",
			FabricKeyPath:     "keystore",
			FabricTLSCertPath: "ca.crt",
			IPFSAPIURL:        "http://localhost:5001",
			IPFSGatewayURL:    "http://localhost:8080",
			StoreTimeout:      time.Second,
			LedgerTimeout:     time.Second,
			EventTimeout:      time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid fabric", func(c *Config) {}, ""},
		{"unknown backend", func(c *Config) { c.LedgerBackend = "ethereum" }, "LEDGER_BACKEND"},
		{"missing cert", func(c *Config) { c.FabricCertPath = "" }, "FABRIC_CERT_PATH"},
		{"missing key dir", func(c *Config) { c.FabricKeyPath = "" }, "FABRIC_KEY_PATH"},
		{"memory needs caller", func(c *Config) { c.LedgerBackend = LedgerMemory }, "CALLER_ID"},
		{"zero store timeout", func(c *Config) { c.StoreTimeout = 0 }, "STORE_TIMEOUT"},
		{"negative ledger timeout", func(c *Config) { c.LedgerTimeout = -time.Second }, "LEDGER_TIMEOUT"},
		{"zero event timeout", func(c *Config) { c.EventTimeout = 0 }, "EVENT_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
