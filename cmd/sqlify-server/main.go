package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/harendratomar/SQLify/config"
	"github.com/harendratomar/SQLify/logging"
	"github.com/harendratomar/SQLify/pipeline"
	"github.com/harendratomar/SQLify/prompt"
	"github.com/harendratomar/SQLify/security"
	"github.com/harendratomar/SQLify/server"
)

var configFlag = flag.String("config", "", "Path to config file (default config.yaml)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, closeFn := logging.Setup(cfg.Logging.SeqURL)
	defer closeFn()

	slog.SetDefault(logger)

	completer := prompt.NewHTTPCompleter(
		cfg.LLM.Endpoint,
		cfg.LLM.Model,
		cfg.LLM.APIKey,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second,
	)

	p := pipeline.New(completer, security.NewLog(), logger)
	srv := server.New(p, logger)

	slog.Info("starting sqlify server", "addr", cfg.Server.Addr, "model", cfg.LLM.Model)
	if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
		slog.Error("server exited", "error", err)
		closeFn()
		os.Exit(1)
	}
}
