package studio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jaki95/video-factory/internal/audio"
	"github.com/jaki95/video-factory/internal/clock"
	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/gemini"
	"github.com/jaki95/video-factory/internal/history"
	"github.com/jaki95/video-factory/internal/job"
	"github.com/jaki95/video-factory/internal/library"
	"github.com/jaki95/video-factory/internal/mixer"
	"github.com/jaki95/video-factory/internal/progress"
)

// Speaker renders narration previews as raw 24 kHz mono PCM.
type Speaker interface {
	SpeechPreview(ctx context.Context, text, voiceName string) ([]byte, error)
}

// Options wires a Studio.
type Options struct {
	Generator  Generator
	Speaker    Speaker
	History    *history.Store
	Jobs       *job.Manager
	SaveResult ResultSaver
	Policy     mixer.ValidationPolicy
	Language   string
	Sleep      clock.Sleeper
}

// Studio owns the gallery, the generation clients and the current creation
// session. Background generations run on the studio's context.
type Studio struct {
	ctx  context.Context
	opts Options
	wg   sync.WaitGroup

	mu      sync.RWMutex
	session *Session
}

// New creates a studio with a fresh session.
func New(ctx context.Context, opts Options) *Studio {
	if opts.Jobs == nil {
		opts.Jobs = job.NewManager()
	}
	st := &Studio{ctx: ctx, opts: opts}
	st.session = st.newSession()
	return st
}

func (st *Studio) newSession() *Session {
	var gallery Gallery
	if st.opts.History != nil {
		gallery = st.opts.History
	}
	return NewSession(SessionOptions{
		Generator:  st.opts.Generator,
		Gallery:    gallery,
		SaveResult: st.opts.SaveResult,
		Policy:     st.opts.Policy,
		Language:   st.opts.Language,
		Sleep:      st.opts.Sleep,
	})
}

// Session returns the current creation session.
func (st *Studio) Session() *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.session
}

// NewSession discards the current session and starts another, optionally
// seeded with a library selection. A generation already running in the old
// session still finishes and reaches the gallery.
func (st *Studio) NewSession(sel domain.Selection) (*Session, error) {
	s := st.newSession()
	if sel != nil {
		if err := s.ApplySelection(sel); err != nil {
			return nil, err
		}
	}

	st.mu.Lock()
	st.session = s
	st.mu.Unlock()
	return s, nil
}

func (st *Studio) History() *history.Store { return st.opts.History }

func (st *Studio) Jobs() *job.Manager { return st.opts.Jobs }

// StartGeneration submits the current session in the background and returns
// the job tracking it. Validation errors are returned immediately.
func (st *Studio) StartGeneration() (*job.Status, error) {
	s := st.Session()
	cfg, err := s.begin()
	if err != nil {
		return nil, err
	}

	jobs := st.opts.Jobs
	j := jobs.CreateJob(cfg.Prompt)

	tracker := progress.NewTracker()
	record := func(e progress.Event) {
		// terminal events are published by Complete and Fail
		if e.Stage == progress.StageComplete || e.Stage == progress.StageError {
			return
		}
		if err := jobs.Record(j.ID, e); err != nil {
			slog.Warn("Failed to record job progress", "jobId", j.ID, "error", err)
		}
	}
	tracker.AddListener(record)

	st.wg.Add(1)
	go func() {
		defer st.wg.Done()

		video, err := s.run(st.ctx, cfg, tracker)
		tracker.RemoveListener(record)
		if err != nil {
			if ferr := jobs.Fail(j.ID, err); ferr != nil {
				slog.Error("Failed to mark job failed", "jobId", j.ID, "error", ferr)
			}
			return
		}
		if cerr := jobs.Complete(j.ID, video); cerr != nil {
			slog.Error("Failed to mark job completed", "jobId", j.ID, "error", cerr)
		}
	}()

	return j, nil
}

// Wait blocks until every background generation has returned.
func (st *Studio) Wait() {
	st.wg.Wait()
}

// PreviewVoice speaks the language greeting with the voice and returns WAV data.
func (st *Studio) PreviewVoice(ctx context.Context, voiceID, languageCode string) ([]byte, error) {
	if st.opts.Speaker == nil {
		return nil, ErrNoSpeech
	}

	voice, err := library.FindVoice(voiceID)
	if err != nil {
		return nil, err
	}
	if languageCode == "" {
		languageCode = st.Session().Snapshot().Language
	}
	lang, err := library.FindLanguage(languageCode)
	if err != nil {
		return nil, err
	}

	pcm, err := st.opts.Speaker.SpeechPreview(ctx, lang.Greeting, voice.PrebuiltName)
	if err != nil {
		return nil, fmt.Errorf("voice preview for %s: %w", voice.ID, err)
	}
	return audio.PCMToWAV(pcm, gemini.SpeechSampleRate, gemini.SpeechChannels)
}
