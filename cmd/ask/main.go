// Command ask answers one CFO question from the command line:
//
//	ask -data fixtures "What was June 2025 revenue vs budget?"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"cfocopilot/pkg/core/agent"
	"cfocopilot/pkg/core/classifier"
	"cfocopilot/pkg/core/config"
	"cfocopilot/pkg/core/dataset"
	"cfocopilot/pkg/core/logger"
	"cfocopilot/pkg/core/present"
	"cfocopilot/pkg/core/prompt"
	"cfocopilot/pkg/core/router"
)

func main() {
	godotenv.Load()

	configPath := flag.String("config", "", "path to config.yaml (optional)")
	dataDir := flag.String("data", "", "override data directory")
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: ask [-config config.yaml] [-data dir] <question>")
		os.Exit(2)
	}

	log := logger.NewWithWriter(os.Stderr)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}

	if err := prompt.LoadFromDirectory(cfg.Prompts.Dir); err != nil {
		log.Warn().Err(err).Msg("failed to load prompt library, using built-in prompts")
	}

	loader := dataset.NewLoader(cfg.Data.Dir, cfg.Data.MonthLayout)
	if _, err := loader.Load(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Data.Dir).Msg("failed to load dataset")
	}

	mgr := agent.NewManager(cfg.Agent)
	cls := classifier.New(mgr, cfg.ClassifierTimeout())

	q := cls.Classify(context.Background(), question)
	result := router.Dispatch(loader.Current(), q)
	answer := present.Render(result)

	fmt.Println(answer.Text)
	if answer.Chart != nil {
		fmt.Printf("\n[%s chart: %s]\n", answer.Chart.Kind, answer.Chart.Title)
		for i, label := range answer.Chart.Labels {
			fmt.Printf("  %-20s %.1f\n", label, answer.Chart.Values[i])
		}
	}

	if result.Status == router.StatusError {
		os.Exit(1)
	}
}
