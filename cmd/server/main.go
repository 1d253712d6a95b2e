package main

import (
	"flag"
	"log"

	"github.com/vellumos/webview/internal/config"
	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/server"
)

func main() {
	hostFile := flag.String("host", "", "Path to a YAML host definition (overrides HOST_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *hostFile != "" {
		cfg.Webview.HostFile = *hostFile
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	var def *config.HostDefinition
	if cfg.Webview.HostFile != "" {
		def, err = config.LoadHostDefinition(cfg.Webview.HostFile)
		if err != nil {
			log.Fatalf("Failed to read host definition: %v", err)
		}
	}

	srv := server.New(cfg, def, logger)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
