// Package downloader copies finished videos from the generation API into
// the studio's own storage.
package downloader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jaki95/video-factory/internal/storage"
)

var (
	ErrEmptyFile   = errors.New("downloaded file is empty")
	ErrNotAVideo   = errors.New("downloaded file is not a video")
	ErrBadResponse = errors.New("download failed")
)

// VideoDownloader fetches generated videos and stores them under videos/.
type VideoDownloader struct {
	client *http.Client
	store  storage.Storage
}

// NewVideoDownloader creates a downloader writing into store.
func NewVideoDownloader(store storage.Storage) *VideoDownloader {
	return &VideoDownloader{
		client: &http.Client{
			Timeout: 30 * time.Minute, // Long timeout for large video files
		},
		store: store,
	}
}

const (
	videoPrefix = "videos/"
	videoExt    = ".mp4"
)

// ObjectName is the storage key a video with the given id is saved under.
func ObjectName(id string) string {
	return videoPrefix + id + videoExt
}

// Stored returns the ids of the videos already saved in storage.
func (d *VideoDownloader) Stored(ctx context.Context) ([]string, error) {
	names, err := d.store.List(ctx, videoPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored videos: %w", err)
	}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, videoExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, videoPrefix), videoExt))
	}
	return ids, nil
}

// Download fetches downloadURL, checks it looks like a video and saves it as
// ObjectName(id). It returns the stored location.
func (d *VideoDownloader) Download(ctx context.Context, downloadURL, id string, progressCallback ProgressCallback) (string, error) {
	report := func(p int, msg string) {
		if progressCallback != nil {
			progressCallback(p, msg)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	body := bufio.NewReaderSize(resp.Body, 512)
	header, err := body.Peek(512)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("failed to read file header: %w", err)
	}
	if err := validateVideoHeader(header); err != nil {
		return "", fmt.Errorf("downloaded file validation failed: %w", err)
	}

	report(0, "Downloading video...")
	counter := &progressReader{r: body, total: resp.ContentLength, report: report}

	location, err := d.store.Put(ctx, ObjectName(id), counter, "video/mp4")
	if err != nil {
		return "", fmt.Errorf("failed to save video: %w", err)
	}

	slog.Info("Downloaded video", "id", id, "location", location, "size", counter.read)
	report(100, "Video saved")
	return location, nil
}

// validateVideoHeader checks the leading bytes for an MP4 or WebM signature.
func validateVideoHeader(header []byte) error {
	if len(header) == 0 {
		return ErrEmptyFile
	}
	if len(header) < 8 {
		return fmt.Errorf("%w: file too small", ErrNotAVideo)
	}

	if string(header[4:8]) == "ftyp" {
		return nil // MP4/MOV
	}
	if header[0] == 0x1A && header[1] == 0x45 && header[2] == 0xDF && header[3] == 0xA3 {
		return nil // WebM/Matroska
	}

	// Check if it looks like HTML/text (common when download fails)
	checkLen := len(header)
	if checkLen > 100 {
		checkLen = 100
	}
	headerStr := strings.ToLower(string(header[:checkLen]))
	if strings.Contains(headerStr, "<html") || strings.Contains(headerStr, "<!doctype") {
		return fmt.Errorf("%w: got an HTML page, check the download URL", ErrNotAVideo)
	}
	if strings.HasPrefix(strings.TrimSpace(headerStr), "{") {
		return fmt.Errorf("%w: got a JSON body, the link may have expired", ErrNotAVideo)
	}

	headerLen := len(header)
	if headerLen > 16 {
		headerLen = 16
	}
	return fmt.Errorf("%w: unknown signature %x", ErrNotAVideo, header[:headerLen])
}

// progressReader reports percentage as the body is consumed. Without a
// known length it stays silent until the end.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(int, string)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		pct := int(p.read * 100 / p.total)
		if pct > 99 {
			pct = 99
		}
		if pct >= p.last+10 {
			p.last = pct
			p.report(pct, fmt.Sprintf("Downloading video... %d%%", pct))
		}
	}
	return n, err
}
