// Package studio is the creation workflow: a session collects a prompt,
// format, reference image, narration and audio layers, submits them as one
// generation and files the result in the gallery.
package studio

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaki95/video-factory/internal/clock"
	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/mixer"
	"github.com/jaki95/video-factory/internal/progress"
)

// State of a session's generation.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Progress checkpoints reported while generating.
const (
	progressSubmit         = 5
	progressRenderingStart = 10
	progressRenderingEnd   = 85
	progressDownloadStart  = 85
	progressComplete       = 100
)

// Generator produces a video for a config, relaying status text as it goes.
type Generator interface {
	GenerateVideo(ctx context.Context, cfg domain.VideoConfig, onStatus func(string)) (string, error)
}

// Gallery receives every successfully generated video.
type Gallery interface {
	Append(ctx context.Context, v domain.GeneratedVideo) error
}

// ResultSaver copies a finished video somewhere durable and returns the new URI.
type ResultSaver func(ctx context.Context, id, uri string, report func(pct int, msg string)) (string, error)

// SessionOptions wires a session to its collaborators.
type SessionOptions struct {
	Generator  Generator
	Gallery    Gallery
	SaveResult ResultSaver
	Policy     mixer.ValidationPolicy
	Language   string
	Sleep      clock.Sleeper
}

// Session is one visit to the creation screen.
type Session struct {
	mu sync.Mutex

	id          string
	prompt      string
	aspectRatio domain.AspectRatio
	resolution  domain.Resolution
	image       string
	voiceID     string
	voiceName   string
	language    string

	mixer *mixer.Mixer

	state     State
	status    string
	errMsg    string
	resultURI string
	video     *domain.GeneratedVideo
	tracker   *progress.Tracker

	opts  SessionOptions
	now   func() time.Time
	newID func() string
}

// NewSession starts an idle session with the default format.
func NewSession(opts SessionOptions) *Session {
	if opts.Language == "" {
		opts.Language = "ar"
	}
	if opts.Sleep == nil {
		opts.Sleep = clock.Sleep
	}
	return &Session{
		id:          uuid.NewString(),
		aspectRatio: domain.AspectLandscape,
		resolution:  domain.Resolution1080p,
		language:    opts.Language,
		mixer:       mixer.New(opts.Policy),
		state:       StateIdle,
		opts:        opts,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *Session) ID() string { return s.id }

// Mixer exposes the session's layer collection.
func (s *Session) Mixer() *mixer.Mixer { return s.mixer }

// SetPrompt replaces the prompt. Editing after a finished generation returns
// the session to idle.
func (s *Session) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPromptLocked(prompt)
}

func (s *Session) setPromptLocked(prompt string) {
	s.prompt = prompt
	if s.state == StateCompleted || s.state == StateFailed {
		s.state = StateIdle
	}
	s.errMsg = ""
}

func (s *Session) SetAspectRatio(v string) error {
	ar, err := domain.ParseAspectRatio(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	s.mu.Lock()
	s.aspectRatio = ar
	s.mu.Unlock()
	return nil
}

func (s *Session) SetResolution(v string) error {
	res, err := domain.ParseResolution(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	s.mu.Lock()
	s.resolution = res
	s.mu.Unlock()
	return nil
}

// SetImage sets the reference image. An empty string clears it.
func (s *Session) SetImage(image string) {
	s.mu.Lock()
	s.image = image
	s.mu.Unlock()
}

func (s *Session) SetLanguage(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("%w: empty language", ErrInvalidFormat)
	}
	s.mu.Lock()
	s.language = code
	s.mu.Unlock()
	return nil
}

// ApplySelection folds an asset picked in the library into the session.
func (s *Session) ApplySelection(sel domain.Selection) error {
	switch v := sel.(type) {
	case domain.ImageSelected:
		s.mu.Lock()
		s.image = v.Image
		if v.Prompt != "" {
			s.setPromptLocked(v.Prompt)
		}
		s.mu.Unlock()
	case domain.MusicSelected:
		s.mixer.Add(v.Source)
	case domain.VoiceSelected:
		s.mu.Lock()
		s.voiceID = v.VoiceID
		s.voiceName = v.VoiceName
		s.mu.Unlock()
	case domain.TemplateSelected:
		s.mu.Lock()
		s.setPromptLocked(v.Prompt)
		s.mu.Unlock()
	default:
		return fmt.Errorf("%w: %T", domain.ErrUnknownSelection, sel)
	}
	return nil
}

// AutoMix runs the cinematic auto-mix in the background, reporting through
// the session status.
func (s *Session) AutoMix(ctx context.Context) <-chan error {
	am := mixer.NewAutoMixer(s.mixer, s.setStatus)
	am.Sleep = s.opts.Sleep
	return am.Start(ctx)
}

// Submit generates a video from the current draft and blocks until it is
// done. tracker may be nil.
func (s *Session) Submit(ctx context.Context, tracker *progress.Tracker) (domain.GeneratedVideo, error) {
	cfg, err := s.begin()
	if err != nil {
		return domain.GeneratedVideo{}, err
	}
	return s.run(ctx, cfg, tracker)
}

// begin validates the draft and moves to submitting, returning the snapshot
// the generation will use.
func (s *Session) begin() (domain.VideoConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return domain.VideoConfig{}, ErrGenerationInFlight
	}
	if strings.TrimSpace(s.prompt) == "" {
		s.errMsg = EmptyPromptMessage
		return domain.VideoConfig{}, ErrEmptyPrompt
	}

	s.state = StateSubmitting
	s.errMsg = ""
	s.status = ""
	s.resultURI = ""
	s.video = nil
	s.tracker = nil

	return domain.VideoConfig{
		Prompt:      s.prompt,
		AspectRatio: s.aspectRatio,
		Resolution:  s.resolution,
		Image:       s.image,
		VoiceID:     s.voiceID,
		Language:    s.language,
		AudioLayers: s.mixer.Layers(),
	}, nil
}

func (s *Session) run(ctx context.Context, cfg domain.VideoConfig, tracker *progress.Tracker) (domain.GeneratedVideo, error) {
	if tracker == nil {
		tracker = progress.NewTracker()
	}
	s.mu.Lock()
	s.tracker = tracker
	s.mu.Unlock()

	tracker.Update(progress.StageSubmitting, progressSubmit, "Submitting generation")
	slog.Info("Starting generation", "session", s.id, "aspectRatio", cfg.AspectRatio, "resolution", cfg.Resolution, "layers", len(cfg.AudioLayers))

	polls := 0
	onStatus := func(msg string) {
		s.setStatus(msg)
		if polls == 0 {
			tracker.Update(progress.StageSubmitting, progressSubmit, msg)
		} else {
			tracker.Update(progress.StageRendering, renderingProgress(polls), msg)
		}
		polls++
	}

	uri, err := s.opts.Generator.GenerateVideo(ctx, cfg, onStatus)
	if err != nil {
		return domain.GeneratedVideo{}, s.fail(tracker, err)
	}

	id := s.newID()
	if s.opts.SaveResult != nil {
		tracker.Update(progress.StageDownloading, progressDownloadStart, "Saving video")
		saved, err := s.opts.SaveResult(ctx, id, uri, func(pct int, msg string) {
			tracker.Update(progress.StageDownloading, progressDownloadStart+float64(pct)*(progressComplete-progressDownloadStart)/100, msg)
		})
		if err != nil {
			// the remote URI is still usable
			slog.Warn("Failed to save generated video, keeping remote URI", "error", err, "id", id)
		} else {
			uri = saved
		}
	}

	video := domain.GeneratedVideo{
		ID:          id,
		Prompt:      cfg.Prompt,
		URI:         uri,
		Timestamp:   s.now().UnixMilli(),
		Status:      domain.VideoCompleted,
		AspectRatio: cfg.AspectRatio,
	}

	if s.opts.Gallery != nil {
		if err := s.opts.Gallery.Append(ctx, video); err != nil {
			slog.Error("Failed to add video to gallery", "error", err, "id", id)
		}
	}

	s.mu.Lock()
	s.state = StateCompleted
	s.status = ""
	s.resultURI = uri
	s.video = &video
	s.mu.Unlock()
	s.mixer.Reset()

	tracker.Update(progress.StageComplete, progressComplete, "Video ready")
	slog.Info("Generation completed", "session", s.id, "video", id)
	return video, nil
}

func (s *Session) fail(tracker *progress.Tracker, err error) error {
	msg := err.Error()
	if msg == "" {
		msg = DefaultFailureMessage
	}

	s.mu.Lock()
	s.state = StateFailed
	s.status = ""
	s.errMsg = msg
	s.mu.Unlock()

	tracker.SetError(err)
	slog.Error("Generation failed", "session", s.id, "error", err)
	return err
}

func (s *Session) setStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}

// renderingProgress approaches the end of the rendering band without
// reaching it, since the number of polls is not known up front.
func renderingProgress(polls int) float64 {
	span := float64(progressRenderingEnd - progressRenderingStart)
	return progressRenderingStart + span*(1-math.Pow(0.85, float64(polls)))
}

// Snapshot is the serializable view of a session.
type Snapshot struct {
	ID          string                 `json:"id"`
	Prompt      string                 `json:"prompt"`
	AspectRatio domain.AspectRatio     `json:"aspectRatio"`
	Resolution  domain.Resolution      `json:"resolution"`
	Image       string                 `json:"image,omitempty"`
	VoiceID     string                 `json:"voiceId,omitempty"`
	VoiceName   string                 `json:"voiceName,omitempty"`
	Language    string                 `json:"language"`
	AudioLayers []domain.AudioLayer    `json:"audioLayers"`
	State       State                  `json:"state"`
	Status      string                 `json:"status"`
	Error       string                 `json:"error,omitempty"`
	ResultURI   string                 `json:"resultUri,omitempty"`
	Video       *domain.GeneratedVideo `json:"video,omitempty"`
	Progress    *progress.Event        `json:"progress,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.id,
		Prompt:      s.prompt,
		AspectRatio: s.aspectRatio,
		Resolution:  s.resolution,
		Image:       s.image,
		VoiceID:     s.voiceID,
		VoiceName:   s.voiceName,
		Language:    s.language,
		AudioLayers: s.mixer.Layers(),
		State:       s.state,
		Status:      s.status,
		Error:       s.errMsg,
		ResultURI:   s.resultURI,
	}
	if s.video != nil {
		v := *s.video
		snap.Video = &v
	}
	if s.tracker != nil {
		current := s.tracker.Current()
		snap.Progress = &current
	}
	return snap
}
