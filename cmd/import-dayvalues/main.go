package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"sdvn-backend/internal/config"
	"sdvn-backend/internal/service/ingest"
	"sdvn-backend/internal/storage/mysql"
	"time"
)

// Bulk loader for dayvalues CSV exports. Rows with a MachineID that is not
// in the machine table are skipped, not inserted.
func main() {
	csvPath := flag.String("csv", "", "path to the dayvalues csv file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if *csvPath == "" {
		log.Error("missing -csv flag")
		os.Exit(1)
	}

	cfg := config.MustConfig()

	storage, err := mysql.New(*cfg)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Error("failed to open csv", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := ingest.New(storage).ImportCSV(ctx, file)
	if err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("import finished",
		slog.String("file", *csvPath),
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped", result.Skipped),
	)
}
