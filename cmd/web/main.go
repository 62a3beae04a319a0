package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"meeting-minutes/internal/config"
	"meeting-minutes/internal/diagnostics"
	"meeting-minutes/internal/domain"
	"meeting-minutes/internal/logger"
	"meeting-minutes/internal/minutes"
	"meeting-minutes/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr := logger.New(cfg.Logging, "minutes-web")

	prompt, err := cfg.Prompt()
	if err != nil {
		logr.Fatal().Err(err).Msg("load prompt")
	}

	checker := diagnostics.NewChecker()
	checkSettings := diagnostics.Settings{
		Credential: cfg.GoogleAPIKey,
		Model:      cfg.Model,
		UploadDir:  cfg.Web.UploadDir,
	}
	for _, item := range checker.Run(checkSettings).Items {
		if item.Status != domain.DiagnosticStatusPass {
			logr.Warn().Str("check", item.ID).Str("hint", item.Hint).Msg(item.Message)
		}
	}

	client := minutes.NewClient(
		minutes.NewGeminiFactory(),
		minutes.WithCredential(func() string { return cfg.GoogleAPIKey }),
		minutes.WithPollInterval(cfg.PollInterval),
		minutes.WithLogger(logger.Component(logr, "minutes")),
	)

	server, err := web.NewServer(web.Deps{
		Config:      cfg.Web,
		Model:       cfg.Model,
		Prompt:      prompt,
		Generator:   client,
		Diagnostics: func() domain.DiagnosticReport { return checker.Run(checkSettings) },
		Logger:      logger.Component(logr, "web"),
	})
	if err != nil {
		logr.Fatal().Err(err).Msg("build web server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logr.Fatal().Err(err).Msg("run web server")
	}
	logr.Info().Msg("web server stopped")
}
