package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	apiconfig "cfocopilot/pkg/api/config"
	"cfocopilot/pkg/api/data"
	"cfocopilot/pkg/api/query"
	"cfocopilot/pkg/core/agent"
	"cfocopilot/pkg/core/classifier"
	"cfocopilot/pkg/core/config"
	"cfocopilot/pkg/core/dataset"
	"cfocopilot/pkg/core/logger"
	"cfocopilot/pkg/core/prompt"
	"cfocopilot/pkg/core/session"
)

func main() {
	// Load environment variables
	godotenv.Load()

	configPath := flag.String("config", "", "path to config.yaml (optional)")
	dataDir := flag.String("data", "", "override data directory")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}

	// Prompt library: missing directory is fine, the classifier carries a
	// built-in prompt.
	if err := prompt.LoadFromDirectory(cfg.Prompts.Dir); err != nil {
		log.Warn().Err(err).Msg("failed to load prompt library, using built-in prompts")
	} else {
		log.Info().Int("count", prompt.Get().Count()).Str("dir", cfg.Prompts.Dir).Msg("prompt library loaded")
	}

	// The server refuses to start without a valid dataset: serving questions
	// against no ledger helps nobody.
	loader := dataset.NewLoader(cfg.Data.Dir, cfg.Data.MonthLayout)
	if _, err := loader.Load(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Data.Dir).Msg("failed to load dataset")
	}
	log.Info().Str("fingerprint", loader.Fingerprint()).Msg("dataset loaded")

	agentMgr := agent.NewManager(cfg.Agent)
	cls := classifier.New(agentMgr, cfg.ClassifierTimeout())

	// Conversation history is optional: enabled only when DATABASE_URL is set.
	var repo *session.Repo
	if os.Getenv("DATABASE_URL") != "" {
		if err := session.InitDB(context.Background()); err != nil {
			log.Warn().Err(err).Msg("history persistence disabled")
		} else {
			repo = session.NewRepo()
			defer session.Close()
			log.Info().Msg("history persistence enabled")
		}
	}

	queryHandler := query.NewHandler(cls, loader, repo, log)
	http.HandleFunc("/api/query", queryHandler.HandleQuery)
	http.HandleFunc("/api/query/history", queryHandler.HandleHistory)

	dataHandler := data.NewHandler(loader, log)
	http.HandleFunc("/api/data/status", dataHandler.HandleStatus)
	http.HandleFunc("/api/data/reload", dataHandler.HandleReload)

	configHandler := apiconfig.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	log.Info().Str("addr", cfg.Server.Addr).Msg("API server starting")
	if err := http.ListenAndServe(cfg.Server.Addr, nil); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
