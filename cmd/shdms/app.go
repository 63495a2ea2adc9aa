package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/ApolloMedTech/shdms/internal/contentstore"
	"github.com/ApolloMedTech/shdms/internal/contentstore/cache"
	"github.com/ApolloMedTech/shdms/internal/contentstore/ipfs"
	"github.com/ApolloMedTech/shdms/internal/events"
	"github.com/ApolloMedTech/shdms/internal/ledger"
	"github.com/ApolloMedTech/shdms/internal/ledger/fabric"
	ledgermem "github.com/ApolloMedTech/shdms/internal/ledger/memory"
	"github.com/ApolloMedTech/shdms/internal/platform/config"
	"github.com/ApolloMedTech/shdms/internal/platform/logger"
	"github.com/ApolloMedTech/shdms/internal/platform/metrics"
	"github.com/ApolloMedTech/shdms/internal/session"
)

// app is the wired client: one controller and the resources behind it.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	ctrl     *session.Controller
	registry *prometheus.Registry
	checks   map[string]func(context.Context) error
	closers  []func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      logger.New(cfg.LogLevel, cfg.IsDev()),
		registry: prometheus.NewRegistry(),
		checks:   map[string]func(context.Context) error{},
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ipfsClient := ipfs.New(cfg.IPFSAPIURL, cfg.IPFSGatewayURL)
	store, err := a.contentStore(ipfsClient)
	if err != nil {
		a.Close()
		return nil, err
	}

	l, err := a.ledger()
	if err != nil {
		a.Close()
		return nil, err
	}

	publisher, err := a.events()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.ctrl = session.New(store, l,
		session.WithLogger(a.log),
		session.WithMetrics(metrics.New(a.registry)),
		session.WithEvents(publisher),
		session.WithTimeouts(cfg.StoreTimeout, cfg.LedgerTimeout),
		session.WithRetry(200*time.Millisecond, cfg.RetryMaxElapsed),
		session.WithEventTimeout(cfg.EventTimeout),
		session.WithGatewayURL(ipfsClient.GatewayURL),
	)
	return a, nil
}

// contentStore puts the Redis cache in front of IPFS when REDIS_URL is set.
func (a *app) contentStore(ipfsClient *ipfs.Client) (contentstore.Store, error) {
	if a.cfg.RedisURL == "" {
		return ipfsClient, nil
	}
	opts, err := redis.ParseURL(a.cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	a.closers = append(a.closers, rdb.Close)

	cached := cache.New(ipfsClient, rdb, 0, a.log)
	a.checks["redis"] = cached.Health
	a.log.Info().Str("addr", opts.Addr).Msg("content cache enabled")
	return cached, nil
}

func (a *app) ledger() (ledger.Client, error) {
	if a.cfg.LedgerBackend == config.LedgerMemory {
		a.log.Warn().Str("caller", a.cfg.CallerID).Msg("using in-memory ledger, state is lost on exit")
		return ledgermem.New(a.cfg.CallerID), nil
	}
	client, err := fabric.Dial(fabric.Config{
		MSPID:        a.cfg.FabricMSPID,
		PeerEndpoint: a.cfg.FabricPeerEndpoint,
		GatewayPeer:  a.cfg.FabricGatewayPeer,
		CertPath:     a.cfg.FabricCertPath,
		KeyPath:      a.cfg.FabricKeyPath,
		TLSCertPath:  a.cfg.FabricTLSCertPath,
		Channel:      a.cfg.ChannelName,
		Chaincode:    a.cfg.ChaincodeName,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to fabric gateway: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	a.log.Info().
		Str("peer", a.cfg.FabricPeerEndpoint).
		Str("channel", a.cfg.ChannelName).
		Str("chaincode", a.cfg.ChaincodeName).
		Msg("connected to fabric gateway")
	return client, nil
}

func (a *app) events() (events.Publisher, error) {
	if len(a.cfg.KafkaBrokers) == 0 {
		return events.Nop{}, nil
	}
	k, err := events.NewKafka(a.cfg.KafkaBrokers, a.cfg.KafkaTopic,
		kgo.RecordDeliveryTimeout(a.cfg.EventTimeout))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, k.Close)
	return k, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}
