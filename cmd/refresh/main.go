package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/oddsylabs/oddsy/internal/cache"
	"github.com/oddsylabs/oddsy/internal/config"
	"github.com/oddsylabs/oddsy/internal/kalshi"
	"github.com/oddsylabs/oddsy/internal/logging"
	"github.com/oddsylabs/oddsy/internal/markets"
	"github.com/oddsylabs/oddsy/internal/polymarket"
	"github.com/oddsylabs/oddsy/internal/snapshot"
	"github.com/oddsylabs/oddsy/internal/stats"
	sqlstore "github.com/oddsylabs/oddsy/internal/storage/sqlite"
)

func main() {
	platform := flag.String("platform", "both", "kalshi, polymarket, or both")
	topEvents := flag.Int("top", 10, "number of top events to print")
	asJSON := flag.Bool("json", false, "dump the full snapshot as JSON instead of a summary")
	flag.Parse()

	_ = godotenv.Load()
	logging.InitFromEnv()
	cfg := config.Load()
	ctx := context.Background()

	selector, err := snapshot.ParseSelector(*platform)
	if err != nil {
		logging.Fatalf("%v", err)
	}

	exchanges, cleanup := buildExchanges(cfg)
	defer cleanup()
	if len(exchanges) == 0 {
		logging.Fatalf("no exchange could be configured")
	}

	var sinks []snapshot.Sink
	if cfg.SQLitePath != "" {
		archive, err := sqlstore.Open(cfg.SQLitePath)
		if err != nil {
			logging.Warnf("snapshot archive disabled: %v", err)
		} else {
			defer archive.Close()
			sinks = append(sinks, archive.Sink())
		}
	}

	store := snapshot.NewStore()
	svc := snapshot.NewService(store, exchanges, sinks...)

	snap, err := svc.Refresh(ctx, selector)
	if err != nil {
		logging.Fatalf("refresh: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			logging.Fatalf("encode snapshot: %v", err)
		}
		return
	}

	fmt.Printf("refresh %s at %s: %d rows, %d events\n\n",
		snap.ID, snap.TakenAt.Format("2006-01-02 15:04:05"), len(snap.Rows), len(snap.Events))

	printStats("Kalshi", snap.Stats.Kalshi)
	printStats("Polymarket", snap.Stats.Polymarket)

	fmt.Printf("\ntop events by 24h volume:\n")
	for i, ev := range snap.Events {
		if i >= *topEvents {
			break
		}
		fmt.Printf("  %2d. [%s] %s  vol24h=%s\n",
			i+1, ev.Platform, ev.Title, stats.FormatDollar(ev.Volume24h))
		for j, outcome := range ev.Outcomes {
			if j >= 4 {
				fmt.Printf("        ... %d more outcomes\n", len(ev.Outcomes)-j)
				break
			}
			fmt.Printf("        %-24s %s\n", markets.OutcomeLabel(outcome), formatProb(outcome.ImpliedProb))
		}
	}
}

func formatProb(p *float64) string {
	if p == nil {
		return "--"
	}
	return fmt.Sprintf("%.1f%%", *p)
}

func printStats(label string, s *markets.ExchangeStats) {
	if s == nil {
		fmt.Printf("%s: not fetched\n", label)
		return
	}
	fmt.Printf("%s: weekly volume %s, %s transactions, %s active markets, open interest %s\n",
		label,
		stats.FormatDollar(s.WeeklyNotionalVolume),
		stats.FormatInt(s.WeeklyTransactions),
		stats.FormatInt(s.ActiveMarkets),
		stats.FormatDollar(s.OpenInterest),
	)
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
