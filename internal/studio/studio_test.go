package studio

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/history"
	"github.com/jaki95/video-factory/internal/job"
	"github.com/jaki95/video-factory/internal/library"
	"github.com/jaki95/video-factory/internal/progress"
	"github.com/jaki95/video-factory/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistory(t *testing.T) *history.Store {
	t.Helper()
	s, err := storage.NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)
	h, err := history.Open(context.Background(), history.NewDocumentRepository(s, ""))
	require.NoError(t, err)
	return h
}

func TestStartGenerationCompletesJob(t *testing.T) {
	gen := &fakeGenerator{uri: "https://files/v.mp4", statuses: []string{"Initializing Production Engine...", "AI is rendering frames... This may take a moment."}}
	hist := newHistory(t)
	st := New(context.Background(), Options{Generator: gen, History: hist, Sleep: noSleep})

	st.Session().SetPrompt("a dog running on a beach")
	j, err := st.StartGeneration()
	require.NoError(t, err)
	assert.Equal(t, job.StatusPending, j.Status)
	assert.Equal(t, "a dog running on a beach", j.Prompt)

	st.Wait()

	done, err := st.Jobs().GetJob(j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, done.Status)
	require.NotNil(t, done.Video)
	assert.Equal(t, "https://files/v.mp4", done.Video.URI)

	last := done.Events[len(done.Events)-1]
	assert.Equal(t, progress.StageComplete, last.Stage)
	for _, e := range done.Events[:len(done.Events)-1] {
		assert.NotEqual(t, progress.StageComplete, e.Stage)
	}

	require.Equal(t, 1, hist.Len())
	assert.Equal(t, done.Video.ID, hist.Recent(history.DashboardSize)[0].ID)
}

func TestStartGenerationFailure(t *testing.T) {
	st := New(context.Background(), Options{Generator: &fakeGenerator{err: errors.New("quota exceeded")}, History: newHistory(t)})
	st.Session().SetPrompt("p")

	j, err := st.StartGeneration()
	require.NoError(t, err)
	st.Wait()

	failed, err := st.Jobs().GetJob(j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusFailed, failed.Status)
	assert.Equal(t, "quota exceeded", failed.Error)
	assert.Equal(t, 0, st.History().Len())
}

func TestStartGenerationValidation(t *testing.T) {
	gen := &fakeGenerator{uri: "u", release: make(chan struct{})}
	st := New(context.Background(), Options{Generator: gen})

	_, err := st.StartGeneration()
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Equal(t, 0, st.Jobs().ListJobs(1, 10).TotalJobs)

	st.Session().SetPrompt("p")
	_, err = st.StartGeneration()
	require.NoError(t, err)

	_, err = st.StartGeneration()
	assert.ErrorIs(t, err, ErrGenerationInFlight)

	close(gen.release)
	st.Wait()
}

func TestNewSessionReplacesCurrent(t *testing.T) {
	st := New(context.Background(), Options{Generator: &fakeGenerator{}})
	first := st.Session()
	first.SetPrompt("draft")

	tpl, err := library.FindTemplate("tpl-2")
	require.NoError(t, err)

	s, err := st.NewSession(domain.TemplateSelected{Prompt: tpl.BasePrompt})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), s.ID())
	assert.Same(t, s, st.Session())
	assert.Equal(t, tpl.BasePrompt, s.Snapshot().Prompt)

	blank, err := st.NewSession(nil)
	require.NoError(t, err)
	assert.Empty(t, blank.Snapshot().Prompt)
}

type fakeSpeaker struct {
	text, voice string
	pcm         []byte
	err         error
}

func (f *fakeSpeaker) SpeechPreview(_ context.Context, text, voiceName string) ([]byte, error) {
	f.text, f.voice = text, voiceName
	return f.pcm, f.err
}

func TestPreviewVoice(t *testing.T) {
	speaker := &fakeSpeaker{pcm: []byte{1, 0, 2, 0}}
	st := New(context.Background(), Options{Generator: &fakeGenerator{}, Speaker: speaker})

	wav, err := st.PreviewVoice(context.Background(), "m-1", "en")
	require.NoError(t, err)
	assert.Equal(t, "Charon", speaker.voice)
	assert.Contains(t, speaker.text, "Welcome to Video Factory")
	assert.Equal(t, "RIFF", string(wav[:4]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]))

	// language defaults to the session's
	_, err = st.PreviewVoice(context.Background(), "f-1", "")
	require.NoError(t, err)
	assert.Equal(t, "Kore", speaker.voice)
	ar, _ := library.FindLanguage("ar")
	assert.Equal(t, ar.Greeting, speaker.text)
}

func TestPreviewVoiceErrors(t *testing.T) {
	st := New(context.Background(), Options{Generator: &fakeGenerator{}})
	_, err := st.PreviewVoice(context.Background(), "f-1", "")
	assert.ErrorIs(t, err, ErrNoSpeech)

	st = New(context.Background(), Options{Generator: &fakeGenerator{}, Speaker: &fakeSpeaker{}})
	_, err = st.PreviewVoice(context.Background(), "x-9", "")
	assert.ErrorIs(t, err, library.ErrNotFound)
	_, err = st.PreviewVoice(context.Background(), "f-1", "fr")
	assert.ErrorIs(t, err, library.ErrNotFound)

	st = New(context.Background(), Options{Generator: &fakeGenerator{}, Speaker: &fakeSpeaker{err: errors.New("audio generation failed")}})
	_, err = st.PreviewVoice(context.Background(), "f-1", "ar")
	assert.Error(t, err)
}
