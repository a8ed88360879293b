// Command server runs the grounded-chat HTTP service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	chatwithbing "github.com/EllieNosrat/chat-with-bing"
	"github.com/EllieNosrat/chat-with-bing/config"
	"github.com/EllieNosrat/chat-with-bing/grounding"
	"github.com/EllieNosrat/chat-with-bing/logging"
	"github.com/EllieNosrat/chat-with-bing/model"
	"github.com/EllieNosrat/chat-with-bing/model/anthropic"
	"github.com/EllieNosrat/chat-with-bing/model/openai"
	"github.com/EllieNosrat/chat-with-bing/server"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	llm, err := buildModel(cfg)
	if err != nil {
		logger.Error("startup.model", "error", err.Error())
		os.Exit(1)
	}

	searcher := grounding.NewBingClient(cfg.BingEndpoint, cfg.BingAPIKey, func(o *grounding.BingClientOptions) {
		o.Count = cfg.BingResultCount
	})
	extractor := grounding.NewExtractor()
	searchTool := grounding.NewAdapter(searcher, extractor, cfg.GroundedSites, func(o *grounding.AdapterOptions) {
		o.Logger = logger
	})

	advisor := chatwithbing.New(llm, func(o *chatwithbing.Options) {
		o.GroundedSites = cfg.GroundedSites
		o.MaxToolRounds = cfg.MaxToolRounds
		o.TurnTimeout = cfg.TurnTimeout
		o.IdleThreshold = cfg.IdleThreshold
		o.Logger = logger
	})
	advisor.RegisterTool(searchTool)

	srv := server.NewServer(advisor, logger)
	sweeper := server.NewSweeper(advisor, cfg.SweepInterval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweeper.Run(ctx)

	go func() {
		logger.Info("server.starting", "addr", cfg.ListenAddr, "model", llm.Info().Name, "provider", llm.Info().Provider)
		if err := srv.Start(cfg.ListenAddr); err != nil {
			logger.Error("server.stopped", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server.shutdown", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("server.shutdown")
}

func buildModel(cfg config.Config) (model.Model, error) {
	switch cfg.ModelProvider {
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.ModelName != "" {
				o.Model = anthropicsdk.Model(cfg.ModelName)
			}
		}), nil
	case "openai", "":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.ModelName != "" {
				o.Model = cfg.ModelName
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown MODEL_PROVIDER %q (want openai or anthropic)", cfg.ModelProvider)
	}
}
