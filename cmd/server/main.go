package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/scrutin/pkg/api"
	"github.com/hazyhaar/scrutin/pkg/bridge"
	"github.com/hazyhaar/scrutin/pkg/election"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"
)

const version = "0.1.0"

type config struct {
	Addr    string `yaml:"addr"`
	Dataset string `yaml:"dataset"`
	Tables  string `yaml:"tables"` // optional party/province table overrides
	Bridge  struct {
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"bridge"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "stdio":
		cmdStdio(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: scrutin <command>\n\nCommands:\n  serve    Start the HTTP + MCP server\n  stdio    Serve MCP over stdio (for desktop clients)\n  import   Build the dataset from a published results source\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := loadConfig(*cfgPath, logger)

	eng := buildEngine(cfg, logger)
	eps := api.NewEndpoints(eng, logger)
	wireBridge(&eps, cfg, eng, logger)
	mcpSrv := newMCPServer(eps, eng)

	mux := http.NewServeMux()
	mux.Handle("/v1/", api.NewRouter(eps, eng))
	mux.Handle("/mcp", server.NewStreamableHTTPServer(mcpSrv))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("scrutin listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Shutdown(context.Background())
}

func cmdStdio(args []string) {
	fs := flag.NewFlagSet("stdio", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	// Logs go to stderr; stdout belongs to the MCP framing.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg := loadConfig(*cfgPath, logger)

	eng := buildEngine(cfg, logger)
	eps := api.NewEndpoints(eng, logger)
	wireBridge(&eps, cfg, eng, logger)

	if err := server.ServeStdio(newMCPServer(eps, eng)); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

// buildEngine loads tables and dataset and indexes them, exiting on any
// load-time failure (malformed or duplicate-keyed input must never
// reach serving).
func buildEngine(cfg config, logger *slog.Logger) *election.Engine {
	tables, err := election.LoadTables(cfg.Tables)
	if err != nil {
		logger.Error("failed to load name tables", "error", err)
		os.Exit(1)
	}
	resolver, err := election.NewResolver(tables)
	if err != nil {
		logger.Error("invalid name tables", "error", err)
		os.Exit(1)
	}

	records, err := election.LoadDataset(cfg.Dataset)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	idx, err := election.BuildIndex(records)
	if err != nil {
		logger.Error("failed to index dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("dataset loaded",
		"ridings", idx.DistrictCount(),
		"provinces", idx.RegionCount(),
		"vote_rows", len(idx.VoteRows()))

	return election.NewEngine(idx, resolver)
}

// wireBridge enables the ask endpoint when an API key is present.
func wireBridge(eps *api.Endpoints, cfg config, eng *election.Engine, logger *slog.Logger) {
	godotenv.Load()
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		logger.Info("OPENAI_API_KEY not set, ask disabled")
		return
	}
	br, err := bridge.New(bridge.Config{
		APIKey:  key,
		Model:   cfg.Bridge.Model,
		Timeout: time.Duration(cfg.Bridge.TimeoutSeconds) * time.Second,
	}, eng, logger)
	if err != nil {
		logger.Error("bridge setup failed", "error", err)
		os.Exit(1)
	}
	eps.Ask = api.AskEndpoint(br, logger)
	logger.Info("ask enabled", "model", cfg.Bridge.Model)
}

func newMCPServer(eps api.Endpoints, eng *election.Engine) *server.MCPServer {
	srv := server.NewMCPServer("elections-canada", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	api.RegisterMCPTools(srv, eps)
	api.RegisterMCPResources(srv, eng)
	return srv
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:    ":8420",
		Dataset: "data/2021_riding_vote_redistributed.json",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}
