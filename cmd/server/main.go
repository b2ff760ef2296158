package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"shoreline/internal/assets"
	"shoreline/internal/config"
	"shoreline/internal/maps"
	"shoreline/internal/server"
	"shoreline/internal/world"
)

func main() {
	configPath := flag.String("config", "shoreline.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}
	cfg.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	// Generate host key if it doesn't exist
	if err := ensureHostKey(cfg.SSH.HostKey); err != nil {
		return err
	}

	cat, err := assets.LoadCatalogDir(cfg.CatalogDir)
	if err != nil {
		return err
	}

	allMaps, defaultMap := loadMaps(cfg)
	w, err := world.New(ctx, allMaps, cat, cfg.RetileOptions(), defaultMap)
	if err != nil {
		return err
	}

	listenAddr := cfg.SSH.Addr
	if port := os.Getenv("PORT"); port != "" {
		listenAddr = ":" + port
	}
	slog.Info("starting shoreline preview", "addr", listenAddr)
	return server.NewSSHServer(listenAddr, cfg.SSH.HostKey, w).Start(ctx)
}

// loadMaps loads all maps from cfg.MapsDir and returns them with the map to
// show first. When nothing loads it falls back to the built-in map, and the
// configured default no longer applies.
func loadMaps(cfg config.Config) (map[string]*maps.Map, string) {
	allMaps, err := maps.LoadMaps(cfg.MapsDir)
	if err != nil || len(allMaps) == 0 {
		slog.Warn("no maps loaded, using default map", "dir", cfg.MapsDir, "err", err)
		dm := maps.DefaultMap()
		return map[string]*maps.Map{dm.Name: dm}, ""
	}
	return allMaps, cfg.Preview.DefaultMap
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	slog.Info("generating new host key", "path", path)
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
