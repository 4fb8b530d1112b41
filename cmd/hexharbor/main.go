// Command hexharbor runs a hex-island settlement game table: a local HTTP API
// for human seats, computer opponents on a timer, and a SQLite match archive.
// With autoplay on, every seat is handed to the computer and the binary exits
// when the match ends.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexharbor/internal/ai"
	"github.com/talgya/hexharbor/internal/api"
	"github.com/talgya/hexharbor/internal/audio"
	"github.com/talgya/hexharbor/internal/config"
	"github.com/talgya/hexharbor/internal/engine"
	"github.com/talgya/hexharbor/internal/entropy"
	"github.com/talgya/hexharbor/internal/game"
	"github.com/talgya/hexharbor/internal/llm"
	"github.com/talgya/hexharbor/internal/persistence"
)

func main() {
	cfgPath := os.Getenv("HEXHARBOR_CONFIG")
	if cfgPath == "" {
		cfgPath = "hexharbor.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	slog.Info("hexharbor starting", "seed", seed, "target_points", cfg.TargetPoints, "autoplay", cfg.Autoplay)

	// ── Randomness ────────────────────────────────────────────────────
	var rng entropy.Source = entropy.NewSeeded(seed)
	if rc := entropy.NewClient(cfg.RandomOrgKey); rc != nil {
		rng = rc
		slog.Info("dealing from random.org (seed only drives the computer players)")
	}

	// ── Archive ───────────────────────────────────────────────────────
	opts := []engine.Option{engine.WithAIDelay(cfg.AIDelay())}
	var store api.MatchStore
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Warn("match archive disabled", "path", cfg.DBPath, "error", err)
	} else {
		defer db.Close()
		opts = append(opts, engine.WithArchive(db))
		store = db
		slog.Info("database opened", "path", cfg.DBPath)
	}

	// ── Advisor ───────────────────────────────────────────────────────
	llmClient := llm.NewClient(cfg.Advisor.APIKey,
		llm.WithBaseURL(cfg.Advisor.BaseURL),
		llm.WithModel(cfg.Advisor.Model),
	)
	if llmClient != nil {
		slog.Info("advisor enabled", "model", llmClient.Model())
	} else {
		slog.Warn("AI_API_KEY not set, advisor will return a fixed hint")
	}
	opts = append(opts, engine.WithAdvisor(llm.NewAdvisor(llmClient)))

	// ── Audio ─────────────────────────────────────────────────────────
	var player audio.Player = audio.Nop{}
	if cfg.AudioOut != "" {
		player = audio.NewSynth(audio.FileSink(cfg.AudioOut), entropy.NewSeeded(seed+2))
		slog.Info("audio cues enabled", "out", cfg.AudioOut, "sample_rate", audio.SampleRate)
	}
	defer player.Close()
	opts = append(opts, engine.WithAudio(player))

	// ── Table ─────────────────────────────────────────────────────────
	machine := game.NewMachine(rng, game.WithTargetPoints(cfg.TargetPoints))
	table := engine.NewTable(machine, ai.NewController(entropy.NewSeeded(seed+1)), opts...)
	defer table.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Autoplay {
		autoplay(ctx, table, cfg.TargetPoints)
		return
	}

	apiServer := &api.Server{
		Table:        table,
		DB:           store,
		Port:         cfg.Port,
		AdminKey:     cfg.AdminKey,
		TargetPoints: cfg.TargetPoints,
	}
	srv := apiServer.Start()

	fmt.Printf("\nHexharbor table is open: %d seats, first to %d points.\n",
		len(table.State().Players), cfg.TargetPoints)
	fmt.Printf("API: http://localhost:%d/api/v1/state\n", cfg.Port)
	fmt.Println("(Ctrl+C to stop)")

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown", "error", err)
	}
}

// autoplay hands every seat to the computer and plays one match to the end.
func autoplay(ctx context.Context, table *engine.Table, target int) {
	for _, p := range table.State().Players {
		if !p.IsAI {
			table.Dispatch(game.ToggleAI{PlayerID: p.ID})
		}
	}

	start := time.Now()
	final, err := table.RunUntilOver(ctx)
	if err != nil {
		slog.Warn("autoplay interrupted", "error", err, "phase", final.Phase)
		return
	}
	winner, ok := final.Winner(target)
	if !ok {
		slog.Warn("autoplay stopped without a winner", "phase", final.Phase)
		return
	}
	fmt.Printf("%s wins with %d points after %s.\n",
		winner.Name, winner.VP, humanize.RelTime(start, time.Now(), "of play", ""))
}
