package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Norris36/conegliano-utilities/internal/config"
	"github.com/Norris36/conegliano-utilities/internal/mcp"
	"github.com/Norris36/conegliano-utilities/internal/storage"
	"github.com/Norris36/conegliano-utilities/internal/workout"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "Conegliano server URL for remote mode (e.g. https://conegliano.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("CONEGLIANO_API_KEY"), "API key for plan generation in remote mode")
	configPath := flag.String("config", "", "config file for local mode (direct database access)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("conegliano-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; all logging goes to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource

	switch {
	case *serverURL != "":
		ds = mcp.NewHTTPClient(*serverURL, *apiKey)
		log.Info("remote mode", "server", *serverURL)

	case *configPath != "":
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		svc := workout.NewService(db, log)
		svc.PrivilegedArea = cfg.Workout.PrivilegedArea
		svc.Tolerance = cfg.Workout.Tolerance
		ds = svc
		log.Info("local mode", "database", cfg.Database.Host)

	default:
		fmt.Fprintf(os.Stderr, "Usage: conegliano-mcp -server <URL> [-api-key KEY] | -config config.yaml\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := mcp.New(ds, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
