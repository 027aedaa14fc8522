package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/oddsylabs/oddsy/internal/logging"
	sqlstore "github.com/oddsylabs/oddsy/internal/storage/sqlite"
)

func main() {
	_ = godotenv.Load()
	logging.InitFromEnv()

	store, err := sqlstore.Open(os.Getenv("SQLITE_PATH"))
	if err != nil {
		logging.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	if err := store.DropTables(context.Background()); err != nil {
		logging.Fatalf("drop tables: %v", err)
	}
	logging.Infof("archive tables dropped at %s", store.Path())
}
