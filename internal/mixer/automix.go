package mixer

import (
	"context"
	"log/slog"
	"time"

	"github.com/jaki95/video-factory/internal/clock"
	"github.com/jaki95/video-factory/internal/domain"
)

// Auto-mix status messages.
const (
	StatusAnalyzing = "AI is analyzing scene mood..."
	StatusMixed     = "Mixing complete."
)

// AutoMixer applies a canned preset after a simulated analysis pass.
// It performs no signal analysis.
type AutoMixer struct {
	Mixer        *Mixer
	Preset       domain.Preset
	AnalyzeDelay time.Duration
	ClearDelay   time.Duration
	Sleep        clock.Sleeper
	OnStatus     func(string)
}

// NewAutoMixer returns an auto-mixer with the cinematic preset and the
// 1.5s / 2s delays of the studio.
func NewAutoMixer(m *Mixer, onStatus func(string)) *AutoMixer {
	return &AutoMixer{
		Mixer:        m,
		Preset:       domain.CinematicPreset,
		AnalyzeDelay: 1500 * time.Millisecond,
		ClearDelay:   2 * time.Second,
		Sleep:        clock.Sleep,
		OnStatus:     onStatus,
	}
}

// Run performs the scripted mix synchronously.
func (a *AutoMixer) Run(ctx context.Context) error {
	a.status(StatusAnalyzing)
	if err := a.Sleep(ctx, a.AnalyzeDelay); err != nil {
		a.status("")
		return err
	}

	a.Mixer.ApplyPreset(a.Preset)
	slog.Debug("Auto-mix preset applied", "preset", a.Preset.Name, "layers", a.Mixer.Len())
	a.status(StatusMixed)

	if err := a.Sleep(ctx, a.ClearDelay); err != nil {
		return nil
	}
	a.status("")
	return nil
}

// Start runs the mix in the background. The channel yields Run's result.
func (a *AutoMixer) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
	}()
	return done
}

func (a *AutoMixer) status(msg string) {
	if a.OnStatus != nil {
		a.OnStatus(msg)
	}
}
