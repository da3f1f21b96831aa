package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/lanefall/lanefall/internal/config"
	"github.com/lanefall/lanefall/internal/web"
)

func main() {
	cfgPath := flag.String("config", "", "path to lanefall.yaml")
	port := flag.String("port", "", "HTTP port to listen on")
	squadrons := flag.String("squadrons", "", "path to squadrons YAML file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *port == "" {
		*port = cfg.WebPort
	}
	if *squadrons == "" {
		*squadrons = cfg.SquadronFile
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	srv := web.NewServer(*squadrons, logger)
	logger.Info("web UI listening", zap.String("url", "http://localhost:"+*port))
	if err := srv.ListenAndServe(":" + *port); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
