// seed-trades loads a JSON file of historical trades into the similarity
// corpus.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/hooplytics/traderadar/pkg/config"
	"github.com/hooplytics/traderadar/pkg/logger"
	dm "github.com/hooplytics/traderadar/pkg/model"
	"github.com/hooplytics/traderadar/pkg/storage"
)

type seedTrade struct {
	Season      string    `json:"season"`
	Description string    `json:"description"`
	WinImpact   float64   `json:"win_impact"`
	Features    []float64 `json:"features"`
}

func main() {
	var (
		confPath string
		filePath string
	)
	flag.StringVar(&confPath, "conf", "configs/evaluate.yaml", "engine config path")
	flag.StringVar(&filePath, "trades", "", "path to a historical trades JSON file")
	flag.Parse()

	if filePath == "" {
		log.Fatal("usage: seed-trades -trades trades.json [-conf configs/evaluate.yaml]")
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(confPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}
	defer store.Close()

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("failed to read trades file: %v", err)
	}
	var seeds []seedTrade
	if err := json.Unmarshal(data, &seeds); err != nil {
		log.Fatalf("failed to parse trades file: %v", err)
	}

	ctx := context.Background()
	var inserted int
	for _, s := range seeds {
		if len(s.Features) == 0 || s.Description == "" {
			logger.Log.Warnf("skipping trade without features or description: %q", s.Description)
			continue
		}
		if _, err := store.InsertHistoricalTrade(ctx, &dm.HistoricalTrade{
			Season:      s.Season,
			Description: s.Description,
			WinImpact:   s.WinImpact,
			Features:    s.Features,
		}); err != nil {
			log.Fatalf("failed to insert trade %q: %v", s.Description, err)
		}
		inserted++
	}

	logger.Log.Infof("seeded %d historical trades", inserted)
}
