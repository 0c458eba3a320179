package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"merge-tactics-server/api"
	"merge-tactics-server/auth"
	"merge-tactics-server/catalog"
	"merge-tactics-server/config"
	"merge-tactics-server/loghandler"
	"merge-tactics-server/modifier"
	"merge-tactics-server/session"
	"merge-tactics-server/storage"
	"merge-tactics-server/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; using environment variables")
	}

	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stderr, slog.LevelInfo)))

	cfg := config.Load()
	slog.Info("configuration loaded", "tag", "main",
		"starting_elixir", cfg.StartingElixir, "starting_hp", cfg.StartingHP,
		"elixir_per_turn", cfg.ElixirPerTurn, "choices_per_turn", cfg.ChoicesPerTurn,
		"http_port", cfg.HTTPPort)

	cards := catalog.Builtin()
	if cfg.CardOverlayFile != "" {
		if err := cards.LoadOverlay(cfg.CardOverlayFile); err != nil {
			slog.Error("card overlay failed to load", "tag", "main", "file", cfg.CardOverlayFile, "err", err)
			os.Exit(1)
		}
		slog.Info("card overlay applied", "tag", "main", "file", cfg.CardOverlayFile, "cards", cards.Len())
	}

	mods := modifier.NewDefaultRegistry()
	sessions := session.NewManager(cfg, cards, mods)

	ctx := context.Background()

	var store storage.SaveStore
	switch {
	case cfg.DatabaseURL != "":
		pg, err := storage.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("postgres connection failed", "tag", "main", "err", err)
			os.Exit(1)
		}
		store = pg
		defer pg.Close()
	case cfg.RedisAddr != "":
		rd, err := storage.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			slog.Error("redis connection failed", "tag", "main", "err", err)
			os.Exit(1)
		}
		store = rd
		defer rd.Close()
	default:
		slog.Info("no DATABASE_URL or REDIS_ADDR set; accounts and saves disabled", "tag", "main")
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.AuthJWKSURL)
	if err != nil {
		slog.Error("auth setup failed", "tag", "main", "err", err)
		os.Exit(1)
	}

	server := &api.Server{
		Config:   cfg,
		Sessions: sessions,
		Catalog:  cards,
		Mods:     mods,
		Store:    store,
		Verifier: verifier,
	}

	hub := ws.NewHub(sessions, server)
	server.Notify = hub.Broadcast
	go hub.Run(ctx)

	router := server.Router()
	router.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	slog.Info("Merge Tactics server listening", "tag", "main", "addr", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("server stopped", "tag", "main", "err", err)
		os.Exit(1)
	}
}
