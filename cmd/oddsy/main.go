package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/oddsylabs/oddsy/internal/api"
	"github.com/oddsylabs/oddsy/internal/cache"
	"github.com/oddsylabs/oddsy/internal/config"
	"github.com/oddsylabs/oddsy/internal/kafka"
	"github.com/oddsylabs/oddsy/internal/kalshi"
	"github.com/oddsylabs/oddsy/internal/logging"
	"github.com/oddsylabs/oddsy/internal/markets"
	"github.com/oddsylabs/oddsy/internal/polymarket"
	"github.com/oddsylabs/oddsy/internal/queue"
	"github.com/oddsylabs/oddsy/internal/snapshot"
	sqlstore "github.com/oddsylabs/oddsy/internal/storage/sqlite"
)

func main() {
	_ = godotenv.Load()
	logging.InitFromEnv()
	cfg := config.Load()

	store := snapshot.NewStore()
	exchanges, cleanup := buildExchanges(cfg)
	defer cleanup()
	if len(exchanges) == 0 {
		logging.Fatalf("no exchange could be configured")
	}

	sinks, closeSinks := buildSinks(cfg)
	defer closeSinks()

	svc := snapshot.NewService(store, exchanges, sinks...)
	handler := api.NewHandler(svc, store)

	logging.Infof("listening on %s", cfg.HTTPAddr)
	if err := handler.Router().Run(cfg.HTTPAddr); err != nil {
		logging.Fatalf("server: %v", err)
	}
}

func buildExchanges(cfg config.Config) ([]markets.Exchange, func()) {
	var (
		exchanges []markets.Exchange
		closers   []func()
	)

	kc, err := kalshi.NewClient(kalshi.Config{
		BaseURL:        cfg.KalshiBaseURL,
		APIKeyID:       cfg.KalshiAPIKeyID,
		PrivateKeyPEM:  cfg.KalshiPrivateKeyPEM,
		PrivateKeyPath: cfg.KalshiPrivateKeyPath,
		Status:         cfg.KalshiStatus,
		Timeout:        cfg.RequestTimeout,
		MaxPages:       cfg.MaxPages,
		PageLimit:      cfg.PageLimit,
	})
	if err != nil {
		logging.Warnf("[kalshi] disabled: %v", err)
	} else {
		exchanges = append(exchanges, kc)
	}

	var books cache.BookCache
	if cfg.RedisAddr != "" {
		books, err = cache.NewRedisBookCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.BookCacheTTL, "")
		if err != nil {
			logging.Warnf("[polymarket] book cache disabled: %v", err)
			books = nil
		} else {
			closers = append(closers, func() { books.Close() })
		}
	}

	exchanges = append(exchanges, polymarket.NewClient(polymarket.Config{
		GammaURL:   cfg.PolymarketGammaURL,
		ClobURL:    cfg.PolymarketClobURL,
		DataAPIURL: cfg.PolymarketDataAPIURL,
		Timeout:    cfg.RequestTimeout,
		MaxPages:   cfg.MaxPages,
		PageLimit:  cfg.PageLimit,
		Books:      books,
	}))

	return exchanges, func() {
		for _, c := range closers {
			c()
		}
	}
}

func buildSinks(cfg config.Config) ([]snapshot.Sink, func()) {
	var (
		sinks   []snapshot.Sink
		closers []func()
	)

	if cfg.SQLitePath != "" {
		store, err := sqlstore.Open(cfg.SQLitePath)
		if err != nil {
			logging.Warnf("snapshot archive disabled: %v", err)
		} else {
			sinks = append(sinks, store.Sink())
			closers = append(closers, func() { store.Close() })
		}
	}

	if cfg.KafkaEnabled {
		brokers := kafka.Brokers()
		waitCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := kafka.WaitForBroker(waitCtx, brokers)
		cancel()
		if err != nil {
			logging.Warnf("kafka publisher disabled: %v", err)
		} else {
			writer := kafka.NewWriter(brokers, kafka.TopicFromEnv("KAFKA_TOPIC", kafka.DefaultTopic))
			sinks = append(sinks, queue.Sink(writer))
			closers = append(closers, func() { writer.Close() })
		}
	}

	return sinks, func() {
		for _, c := range closers {
			c()
		}
	}
}
