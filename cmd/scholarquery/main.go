package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"scholarquery/internal/config"
	"scholarquery/internal/domain"
	"scholarquery/internal/service"
	"scholarquery/internal/store/weaviate"
	"scholarquery/internal/tui"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := weaviate.NewClient(weaviate.Config{
		URL:                 cfg.Store.ResolveURL(),
		APIKeyEnv:           cfg.Store.APIKeyEnv,
		GenerativeAPIKeyEnv: cfg.Store.GenerativeAPIKeyEnv,
		Timeout:             time.Duration(cfg.Store.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("store configuration invalid: %v", err)
	}

	svc := service.New(store)

	// A failed or empty listing still opens the UI; searching stays blocked
	// until a collection can be selected.
	var status string
	collections, err := svc.Collections(context.Background())
	switch {
	case errors.Is(err, domain.ErrNoCollections):
		status = "The store has no collections to search in."
	case err != nil:
		status = "Could not list collections: " + err.Error()
	}

	m := tui.New(svc, collections, cfg.Search.DefaultTopK, status)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
