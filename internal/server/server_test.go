package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/history"
	"github.com/jaki95/video-factory/internal/library"
	"github.com/jaki95/video-factory/internal/storage"
	"github.com/jaki95/video-factory/internal/studio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	mu      sync.Mutex
	uri     string
	err     error
	release chan struct{}
	configs []domain.VideoConfig
}

func (g *fakeGenerator) GenerateVideo(ctx context.Context, cfg domain.VideoConfig, onStatus func(string)) (string, error) {
	g.mu.Lock()
	g.configs = append(g.configs, cfg)
	g.mu.Unlock()

	onStatus("Initializing Production Engine...")
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	onStatus("AI is rendering frames... This may take a moment.")
	return g.uri, g.err
}

type fakeSpeaker struct{}

func (fakeSpeaker) SpeechPreview(ctx context.Context, text, voiceName string) ([]byte, error) {
	return []byte{0, 0, 1, 0}, nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(ctx context.Context, rawURL string) (domain.MusicTrack, error) {
	if rawURL == "https://example.com/empty" {
		return domain.MusicTrack{}, library.ErrNoAudio
	}
	return domain.MusicTrack{ID: "ext-1", Title: "Imported", URL: rawURL, Category: library.ImportedCategory}, nil
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newTestServer(t *testing.T, gen *fakeGenerator) *Server {
	t.Helper()

	store, err := storage.NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)
	hist, err := history.Open(context.Background(), history.NewDocumentRepository(store, ""))
	require.NoError(t, err)

	opts := studio.Options{
		Speaker: fakeSpeaker{},
		History: hist,
		Sleep:   noSleep,
	}
	if gen != nil {
		opts.Generator = gen
	}
	st := studio.New(context.Background(), opts)
	t.Cleanup(func() {
		if gen != nil && gen.release != nil {
			select {
			case <-gen.release:
			default:
				close(gen.release)
			}
		}
		st.Wait()
	})

	return New(st, fakeResolver{})
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(t, nil)
	req, err := http.NewRequest("GET", "/health", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var response map[string]interface{}
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	if err != nil {
		t.Fatal(err)
	}
	if response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got %v", response["status"])
	}
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(t, nil)
	rr := doJSON(t, server, http.MethodOptions, "/api/v1/session", nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{studio.ErrEmptyPrompt, http.StatusBadRequest},
		{studio.ErrGenerationInFlight, http.StatusConflict},
		{history.ErrNotFound, http.StatusNotFound},
		{library.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestLibraryEndpoints(t *testing.T) {
	server := newTestServer(t, nil)

	t.Run("music filtered by category", func(t *testing.T) {
		rr := doJSON(t, server, http.MethodGet, "/api/v1/library/music?category=Cinematic", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Categories []string            `json:"categories"`
			Tracks     []domain.MusicTrack `json:"tracks"`
		}
		decode(t, rr, &body)
		assert.Contains(t, body.Categories, library.AllCategories)
		assert.Equal(t, library.FilterMusic("Cinematic"), body.Tracks)
	})

	t.Run("all images", func(t *testing.T) {
		rr := doJSON(t, server, http.MethodGet, "/api/v1/library/images?category=All", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Images []domain.LibraryImage `json:"images"`
		}
		decode(t, rr, &body)
		assert.Len(t, body.Images, len(library.Images()))
	})

	t.Run("voices", func(t *testing.T) {
		rr := doJSON(t, server, http.MethodGet, "/api/v1/library/voices", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Voices []domain.Voice `json:"voices"`
		}
		decode(t, rr, &body)
		assert.Equal(t, library.Voices(), body.Voices)
	})

	t.Run("resolve", func(t *testing.T) {
		rr := doJSON(t, server, http.MethodPost, "/api/v1/library/resolve", ResolveRequest{URL: "https://example.com/a.mp3"})
		require.Equal(t, http.StatusOK, rr.Code)

		var track domain.MusicTrack
		decode(t, rr, &track)
		assert.Equal(t, "https://example.com/a.mp3", track.URL)
	})

	t.Run("resolve without audio", func(t *testing.T) {
		rr := doJSON(t, server, http.MethodPost, "/api/v1/library/resolve", ResolveRequest{URL: "https://example.com/empty"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("resolve missing url", func(t *testing.T) {
		rr := doJSON(t, server, http.MethodPost, "/api/v1/library/resolve", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestVoicePreview(t *testing.T) {
	server := newTestServer(t, nil)

	rr := doJSON(t, server, http.MethodPost, "/api/v1/voices/f-1/preview?language=en", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "audio/wav", rr.Header().Get("Content-Type"))
	assert.Equal(t, "RIFF", rr.Body.String()[:4])

	rr = doJSON(t, server, http.MethodPost, "/api/v1/voices/nobody/preview", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	server := newTestServer(t, nil)
	hist := server.studio.History()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, hist.Append(ctx, domain.GeneratedVideo{ID: id, Prompt: "p " + id, Status: domain.VideoCompleted}))
	}

	rr := doJSON(t, server, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Videos []domain.GeneratedVideo `json:"videos"`
		Total  int                     `json:"total"`
	}
	decode(t, rr, &list)
	assert.Equal(t, 5, list.Total)
	assert.Equal(t, "e", list.Videos[0].ID)

	rr = doJSON(t, server, http.MethodGet, "/api/v1/history?recent=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &list)
	assert.Len(t, list.Videos, 2)

	rr = doJSON(t, server, http.MethodGet, "/api/v1/history?recent=x", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/api/v1/history/c", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var video domain.GeneratedVideo
	decode(t, rr, &video)
	assert.Equal(t, "p c", video.Prompt)

	rr = doJSON(t, server, http.MethodGet, "/api/v1/history/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var dash struct {
		Recent []domain.GeneratedVideo `json:"recent"`
		Total  int                     `json:"total"`
	}
	decode(t, rr, &dash)
	assert.Len(t, dash.Recent, history.DashboardSize)
	assert.Equal(t, 5, dash.Total)
}
