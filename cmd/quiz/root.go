package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jscyril/golang_music_quiz/internal/catalog"
	"github.com/jscyril/golang_music_quiz/internal/config"
	"github.com/jscyril/golang_music_quiz/internal/logger"
	"github.com/jscyril/golang_music_quiz/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "musicquiz",
	Short: "A timed song-snippet quiz for the terminal.",
	// Running without a subcommand starts a game
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd.Context())
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/musicquiz/config.json)")
	addPlayFlags(rootCmd)
	addPlayFlags(playCmd)
	rootCmd.AddCommand(playCmd)
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:      cfg.Log.Level,
		OutputPath: cfg.LogPath(),
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     28,
	})
}

// loadCatalog reads the configured catalog, or the built-in one, and adds
// any audio found in the music directories
func loadCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return nil, err
	}

	if len(cfg.MusicDirectories) > 0 {
		for _, scanErr := range cat.Scan(ctx, cfg.MusicDirectories) {
			log.Warn("scan error", zap.Error(scanErr))
		}
	}
	log.Info("catalog loaded", zap.Int("tracks", cat.Len()))
	return cat, nil
}

// openStore returns the configured session store and a function releasing it
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (session.Store, func(), error) {
	if cfg.Store.Kind != config.StoreRedis {
		return session.NewFileStore(cfg.SessionPath()), func() {}, nil
	}

	client, err := session.ConnectRedis(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	log.Info("session store connected", zap.String("addr", cfg.Store.RedisAddr))
	release := func() {
		if err := client.Close(); err != nil {
			log.Warn("close redis", zap.Error(err))
		}
	}
	return session.NewRedisStore(client, cfg.Store.Profile, session.DefaultRedisTTL), release, nil
}

func defaultCatalogOut(cfg *config.Config) string {
	if cfg.CatalogPath != "" {
		return cfg.CatalogPath
	}
	return filepath.Join(cfg.DataDir, "catalog.json")
}
