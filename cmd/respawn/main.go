package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/respawn/internal/config"
	"github.com/claude/respawn/internal/engine"
	"github.com/claude/respawn/internal/mcp"
	"github.com/claude/respawn/internal/notify"
	"github.com/claude/respawn/internal/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	remoteURL := flag.String("remote", "", "with -mcp: base URL of a running respawn server")
	flag.Parse()

	// .env is optional; it feeds the RESPAWN_* overrides in dev setups.
	_ = godotenv.Load()

	logOut := os.Stdout
	if *mcpMode {
		// stdout carries the protocol in stdio mode.
		logOut = os.Stderr
	}
	log := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *mcpMode {
		if err := runMCP(*remoteURL, *configPath, log); err != nil {
			log.Error("mcp server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	log.Info("Respawn starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create the session registry
	manager := engine.NewManager(engine.ManagerConfig{
		TickInterval:  cfg.Sessions.TickInterval(),
		MaxSessions:   cfg.Sessions.MaxSessions,
		SweepInterval: cfg.Sessions.SweepInterval(),
		ExpireAfter:   cfg.Sessions.ExpireAfter(),
		Sink:          buildSink(cfg, log),
		Log:           log,
	})

	// Create server
	srv := server.New(manager, cfg.Auth.APIKey, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	manager.Close()
	log.Info("server stopped")
}

// runMCP serves the MCP tools over stdio. With a remote URL the tools call
// a running respawn server; otherwise sessions run in this process.
func runMCP(remoteURL, configPath string, log *slog.Logger) error {
	if remoteURL != "" {
		source := mcp.NewHTTPClient(remoteURL, os.Getenv("RESPAWN_AUTH_API_KEY"))
		return mcpserver.ServeStdio(mcp.New(source, Version, log))
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	manager := engine.NewManager(engine.ManagerConfig{
		TickInterval:  cfg.Sessions.TickInterval(),
		MaxSessions:   cfg.Sessions.MaxSessions,
		SweepInterval: cfg.Sessions.SweepInterval(),
		ExpireAfter:   cfg.Sessions.ExpireAfter(),
		Sink:          buildSink(cfg, log),
		Log:           log,
	})
	defer manager.Close()

	source := mcp.NewManagerSource(manager, log)
	return mcpserver.ServeStdio(mcp.New(source, Version, log))
}

// buildSink assembles the notification fan-out: the structured log always,
// plus the webhook when one is configured.
func buildSink(cfg *config.Config, log *slog.Logger) notify.Notifier {
	sinks := notify.Multi{notify.NewLogSink(log)}
	if cfg.Notify.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.Notify.WebhookURL, cfg.Notify.Timeout(), cfg.Notify.MaxAttempts))
	}
	return sinks
}
