package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/hooplytics/traderadar/pkg/config"
	"github.com/hooplytics/traderadar/pkg/engine"
	"github.com/hooplytics/traderadar/pkg/logger"
	dm "github.com/hooplytics/traderadar/pkg/model"
	"github.com/hooplytics/traderadar/pkg/storage"
)

func main() {
	var (
		confPath     string
		proposalPath string
	)
	flag.StringVar(&confPath, "conf", "configs/evaluate.yaml", "engine config path")
	flag.StringVar(&proposalPath, "proposal", "", "path to a trade proposal JSON file")
	flag.Parse()

	if proposalPath == "" {
		log.Fatal("usage: evaluate -proposal proposal.json [-conf configs/evaluate.yaml]")
	}

	// Secrets may live in a .env next to the binary.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(confPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if cfg.LLM.APIKey == "" {
		log.Fatal("config error: llm api_key is not set")
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx := context.Background()

	var store *storage.Storage
	if cfg.DB.Host != "" {
		store, err = storage.NewStorage(cfg.DB)
		if err != nil {
			log.Fatalf("failed to init storage: %v", err)
		}
		defer store.Close()
	} else {
		logger.Log.Warn("no database configured: running without cache, history or persistence")
	}

	eng, err := engine.NewEngine(ctx, cfg, store)
	if err != nil {
		log.Fatalf("failed to init engine: %v", err)
	}

	data, err := os.ReadFile(proposalPath)
	if err != nil {
		log.Fatalf("failed to read proposal: %v", err)
	}
	var proposal dm.TradeProposal
	if err := json.Unmarshal(data, &proposal); err != nil {
		log.Fatalf("failed to parse proposal: %v", err)
	}

	ev, err := eng.Evaluate(ctx, &proposal)
	if err != nil {
		log.Fatalf("evaluation failed: %v", err)
	}

	out, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode result: %v", err)
	}
	fmt.Println(string(out))
}
