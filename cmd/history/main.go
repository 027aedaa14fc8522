package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/oddsylabs/oddsy/internal/logging"
	"github.com/oddsylabs/oddsy/internal/markets"
	"github.com/oddsylabs/oddsy/internal/stats"
	sqlstore "github.com/oddsylabs/oddsy/internal/storage/sqlite"
)

func main() {
	limit := flag.Int("limit", 20, "number of refreshes to list")
	flag.Parse()

	_ = godotenv.Load()
	logging.InitFromEnv()
	ctx := context.Background()

	store, err := sqlstore.Open(os.Getenv("SQLITE_PATH"))
	if err != nil {
		logging.Fatalf("open archive: %v", err)
	}
	defer store.Close()

	if err := store.CreateTables(ctx); err != nil {
		logging.Fatalf("ensure schema: %v", err)
	}

	records, err := store.ListRefreshes(ctx, *limit)
	if err != nil {
		logging.Fatalf("list refreshes: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("no archived refreshes")
		return
	}

	for _, rec := range records {
		fmt.Printf("%s  %s  selector=%s  rows=%s  events=%s\n",
			rec.TakenAt.Format("2006-01-02 15:04:05"),
			rec.ID,
			rec.Selector,
			stats.FormatInt(rec.RowCount),
			stats.FormatInt(rec.EventCount),
		)
		printExchange("kalshi", rec.Stats.Kalshi)
		printExchange("polymarket", rec.Stats.Polymarket)
	}
}

func printExchange(label string, s *markets.ExchangeStats) {
	if s == nil {
		return
	}
	fmt.Printf("    %-10s weekly volume %s, %s transactions, open interest %s\n",
		label,
		stats.FormatDollar(s.WeeklyNotionalVolume),
		stats.FormatInt(s.WeeklyTransactions),
		stats.FormatDollar(s.OpenInterest),
	)
}
