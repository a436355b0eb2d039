package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jscyril/golang_music_quiz/api"
	"github.com/jscyril/golang_music_quiz/internal/audio"
	"github.com/jscyril/golang_music_quiz/internal/game"
	"github.com/jscyril/golang_music_quiz/internal/loop"
	"github.com/jscyril/golang_music_quiz/internal/playback"
	"github.com/jscyril/golang_music_quiz/internal/session"
	"github.com/jscyril/golang_music_quiz/internal/ui"
	"github.com/jscyril/golang_music_quiz/pkg/events"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var playFlags struct {
	difficulty string
	catalog    string
	musicDirs  []string
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd.Context())
	},
}

// addPlayFlags registers the game flags on cmd. The root command runs a
// game too, so both carry them.
func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&playFlags.difficulty, "difficulty", "d", "", "easy, medium or hard")
	cmd.Flags().StringVar(&playFlags.catalog, "catalog", "", "catalog JSON file (default built-in)")
	cmd.Flags().StringSliceVar(&playFlags.musicDirs, "music-dir", nil, "directories with local audio files")
}

func runPlay(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if playFlags.difficulty != "" {
		cfg.Difficulty = playFlags.difficulty
	}
	if playFlags.catalog != "" {
		cfg.CatalogPath = playFlags.catalog
	}
	if len(playFlags.musicDirs) > 0 {
		cfg.MusicDirectories = playFlags.musicDirs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cat, err := loadCatalog(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if err := cat.CheckSize(); err != nil {
		return err
	}

	backing, release, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer release()
	// snapshot writes stay off the game loop
	store := session.NewAsyncStore(backing, session.DefaultAsyncTimeout, log.Named("session"))
	defer store.Close()

	engine := audio.NewAudioEngine(cat, log.Named("audio"))
	engine.Start(ctx)
	if err := engine.SetVolume(cfg.DefaultVolume); err != nil {
		log.Warn("set volume", zap.Error(err))
	}

	bus := events.NewEventBus()
	defer bus.Close()
	quizEvents := bus.SubscribeAll()

	mainLoop := loop.New(0)
	go mainLoop.Run(ctx)

	ctrl := game.New(game.Config{
		Player:    engine,
		Scheduler: mainLoop,
		Catalog:   cat,
		Store:     store,
		Events:    bus,
		Timing:    playback.DefaultTiming(),
		Logger:    log,
	})
	runner := game.NewRunner(mainLoop, ctrl, log)
	go runner.PumpPlayerEvents(ctx, engine.Events())
	runner.Init(ctx)

	mode := api.ParseDifficulty(cfg.Difficulty)
	model := ui.NewModel(runner, quizEvents, cfg.KeyBindings, cat.Len(), mode)
	if err := ui.Run(model); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	cancel()
	<-mainLoop.Done()
	store.Close()
	fmt.Fprintln(os.Stdout, "Thanks for playing!")
	return nil
}
