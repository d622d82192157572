package downloader

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jaki95/video-factory/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mp4Payload(size int) []byte {
	b := make([]byte, size)
	copy(b, []byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'})
	return b
}

func newDownloader(t *testing.T) (*VideoDownloader, *storage.LocalFileStorage) {
	t.Helper()
	s, err := storage.NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)
	return NewVideoDownloader(s), s
}

func TestDownloadStoresVideo(t *testing.T) {
	payload := mp4Payload(64 * 1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		w.Write(payload)
	}))
	defer srv.Close()

	d, s := newDownloader(t)
	var updates []int
	loc, err := d.Download(context.Background(), srv.URL+"/v.mp4?key=k", "vid-1", func(p int, _ string) {
		updates = append(updates, p)
	})
	require.NoError(t, err)
	assert.NotEmpty(t, loc)

	rc, err := s.Get(context.Background(), ObjectName("vid-1"))
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.True(t, bytes.Equal(payload, got))

	require.NotEmpty(t, updates)
	assert.Equal(t, 0, updates[0])
	assert.Equal(t, 100, updates[len(updates)-1])
}

func TestDownloadRejectsHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<!DOCTYPE html><html><body>Sign in</body></html>"))
	}))
	defer srv.Close()

	d, s := newDownloader(t)
	_, err := d.Download(context.Background(), srv.URL, "vid-2", nil)
	assert.ErrorIs(t, err, ErrNotAVideo)
	_, err = s.Get(context.Background(), ObjectName("vid-2"))
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestDownloadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d, _ := newDownloader(t)
	_, err := d.Download(context.Background(), srv.URL, "vid-3", nil)
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestValidateVideoHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  []byte
		wantErr error
	}{
		{"mp4", mp4Payload(16), nil},
		{"webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0, 0, 0, 0}, nil},
		{"empty", nil, ErrEmptyFile},
		{"short", []byte("abc"), ErrNotAVideo},
		{"json", []byte(`{"error":{"code":403}}`), ErrNotAVideo},
		{"mp3", []byte("ID3\x03\x00\x00\x00\x00\x00"), ErrNotAVideo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateVideoHeader(tt.header)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStoredListsSavedVideos(t *testing.T) {
	d, s := newDownloader(t)
	ctx := context.Background()

	ids, err := d.Stored(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	for _, name := range []string{ObjectName("vid-b"), ObjectName("vid-a"), "videos/notes.txt", "history.json"} {
		_, err := s.Put(ctx, name, bytes.NewReader([]byte("x")), "")
		require.NoError(t, err)
	}

	ids, err = d.Stored(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"vid-a", "vid-b"}, ids)
}
