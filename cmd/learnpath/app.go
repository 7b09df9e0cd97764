package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spetersoncode/learnpath/client"
	"github.com/spetersoncode/learnpath/config"
	"github.com/spetersoncode/learnpath/credential"
	"github.com/spetersoncode/learnpath/metrics"
	"github.com/spetersoncode/learnpath/pathgen"
	"github.com/spetersoncode/learnpath/youtube"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	creds   *credential.Source
	youtube *youtube.Client
	runner  *pathgen.Runner
	events  chan client.Event
}

// newApp loads configuration and wires credentials, the YouTube client, the
// model client and the runner. interactive allows the browser consent flow
// when no usable credential is stored.
func newApp(ctx context.Context, interactive bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	creds, err := newCredentialSource(cfg, logger, interactive)
	if err != nil {
		return nil, err
	}
	yt := youtube.New(creds.TokenSource(ctx), youtube.WithLogger(logger))

	m := metrics.New()
	events := make(chan client.Event, 256)
	go m.WatchClient(events)

	c, err := client.New(ctx, client.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey(),
		Model:    cfg.Model,
		Events:   events,
	})
	if err != nil {
		close(events)
		return nil, err
	}

	runner := pathgen.NewRunner(c, pathgen.Config{
		MaxSteps: cfg.MaxSteps,
		Timeout:  cfg.RunTimeout,
		DriveURL: cfg.DriveURL,
		Logger:   logger,
	}, youtube.Tools(yt)...)

	logger.Info("learnpath configured",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"drive", cfg.DriveURL != "",
		"headless", creds.Headless(),
		"max_steps", cfg.MaxSteps,
		"timeout", cfg.RunTimeout,
	)
	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		creds:   creds,
		youtube: yt,
		runner:  runner,
		events:  events,
	}, nil
}

func (a *app) Close() {
	close(a.events)
}

func newCredentialSource(cfg *config.Config, logger *slog.Logger, interactive bool) (*credential.Source, error) {
	if cfg.Headless() {
		return credential.NewHeadlessSource(cfg.ClientSecretB64, cfg.TokenB64, credential.WithLogger(logger))
	}
	identity, err := credential.LoadClientIdentity(cfg.ClientSecretFile, credential.YouTubeScope)
	if err != nil {
		return nil, err
	}
	opts := []credential.SourceOption{credential.WithLogger(logger)}
	if interactive {
		opts = append(opts, credential.WithAuthorizer(&credential.LoopbackAuthorizer{Out: os.Stderr}))
	}
	return credential.NewSource(identity, credential.NewFileStore(cfg.TokenFile), opts...), nil
}
