package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jaki95/video-factory/config"
	"github.com/jaki95/video-factory/internal/downloader"
	"github.com/jaki95/video-factory/internal/gemini"
	"github.com/jaki95/video-factory/internal/history"
	"github.com/jaki95/video-factory/internal/mixer"
	"github.com/jaki95/video-factory/internal/storage"
	"github.com/jaki95/video-factory/internal/studio"
)

// app holds the long-lived pieces shared by the commands.
type app struct {
	cfg     *config.Config
	store   storage.Storage
	history *history.Store
	closers []func() error
}

// openApp connects storage and loads the gallery.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a := &app{cfg: cfg, store: store, closers: []func() error{store.Close}}

	repo, closeRepo, err := history.NewRepository(ctx, cfg, store)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	a.closers = append(a.closers, closeRepo)

	a.history, err = history.Open(ctx, repo)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return a, nil
}

func (a *app) geminiClient() (*gemini.Client, error) {
	g := a.cfg.Gemini
	client, err := gemini.NewClient(gemini.Config{
		APIKey:      g.APIKey,
		BaseURL:     g.BaseURL,
		VideoModel:  g.VideoModel,
		SpeechModel: g.SpeechModel,
		Poll: gemini.PollPolicy{
			Interval:    g.Poll.Interval,
			MaxAttempts: g.Poll.MaxAttempts,
			MaxDuration: g.Poll.MaxDuration,
		},
	})
	if errors.Is(err, gemini.ErrMissingAPIKey) {
		return nil, fmt.Errorf("%w: set GEMINI_API_KEY or API_KEY", err)
	}
	return client, err
}

// newStudio wires a studio to the generation API and the gallery.
func (a *app) newStudio(ctx context.Context) (*studio.Studio, error) {
	policy, err := mixer.ParseValidationPolicy(a.cfg.Mixer.Validation)
	if err != nil {
		return nil, err
	}

	client, err := a.geminiClient()
	if err != nil {
		return nil, err
	}

	opts := studio.Options{
		Generator: client,
		Speaker:   client,
		History:   a.history,
		Policy:    policy,
		Language:  a.cfg.Generation.DefaultLanguage,
	}
	if a.cfg.Generation.SaveResults {
		opts.SaveResult = a.saveResult(client)
	}
	return studio.New(ctx, opts), nil
}

// saveResult copies finished videos into storage so the gallery does not
// depend on the remote file staying available.
func (a *app) saveResult(client *gemini.Client) studio.ResultSaver {
	dl := downloader.NewVideoDownloader(a.store)
	return func(ctx context.Context, id, uri string, report func(int, string)) (string, error) {
		return dl.Download(ctx, client.DownloadURL(uri), id, report)
	}
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("Failed to close resource", "error", err)
		}
	}
}
