package main

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/arbit-labs/arbit/adapters/events"
	"github.com/arbit-labs/arbit/adapters/signer"
	"github.com/arbit-labs/arbit/adapters/store"
	"github.com/arbit-labs/arbit/config"
	"github.com/arbit-labs/arbit/core"
	"github.com/arbit-labs/arbit/ports"
	"github.com/arbit-labs/arbit/service"
	transport "github.com/arbit-labs/arbit/transport/http"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	var publisher ports.EventPublisher = events.NewNopPublisher()
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Fatalf("failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)

		wmPublisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			logger.Fatalf("failed to create Redis publisher: %v", err)
		}
		publisher = events.NewWatermillPublisher(wmPublisher)
	}

	cred := core.Credential{
		Address:    cfg.Pear.WalletAddress,
		PrivateKey: cfg.Pear.WalletPrivateKey,
	}
	if !cred.Configured() {
		logger.Warn("no wallet private key configured; authenticated operations will fail")
	}

	trade := service.NewTradeClient(
		cfg.Pear.APIURL,
		cfg.Pear.ClientID,
		cred,
		signer.New(),
		store.NewMemoryStore(),
		service.WithEventPublisher(publisher),
		service.WithLogger(logger),
	)

	router := transport.SetupRouter(trade, logger)

	logger.WithField("addr", cfg.ListenAddr).Info("starting server")
	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}
