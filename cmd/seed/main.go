package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/example/gourmet/pkg/config"
	"github.com/example/gourmet/pkg/logger"
	"github.com/example/gourmet/pkg/models"
	"github.com/example/gourmet/pkg/repository"
	"github.com/example/gourmet/pkg/service"
	"go.uber.org/zap"
)

//go:embed menu.json
var bundledMenu []byte

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file, empty for defaults and env only")
	menuPath := flag.String("menu", "", "JSON menu to load instead of the bundled one")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	data := bundledMenu
	if *menuPath != "" {
		if data, err = os.ReadFile(*menuPath); err != nil {
			log.Fatal("Failed to read menu", zap.String("path", *menuPath), zap.Error(err))
		}
	}

	var items []models.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Fatal("Failed to parse menu", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close(context.Background())

	redis := repository.NewRedisRepository(&cfg.Redis)
	defer redis.Close()

	n, err := service.NewMenuService(store, redis, log).Seed(ctx, items)
	if err != nil {
		log.Fatal("Failed to seed menu", zap.Int("seeded", n), zap.Error(err))
	}

	log.Info("Menu seeded", zap.String("storage", cfg.Storage.Driver), zap.Int("items", n))
}
