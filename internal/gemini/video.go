package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jaki95/video-factory/internal/domain"
)

// Status messages relayed while a video is produced.
const (
	StatusInitializing = "Initializing Production Engine..."
	StatusRendering    = "AI is rendering frames... This may take a moment."
)

type videoImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type videoInstance struct {
	Prompt string      `json:"prompt"`
	Image  *videoImage `json:"image,omitempty"`
}

type videoParameters struct {
	AspectRatio string `json:"aspectRatio"`
	Resolution  string `json:"resolution"`
	SampleCount int    `json:"sampleCount"`
}

type videoRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

// operation is a long-running job handle.
type operation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response,omitempty"`
}

func (op *operation) videoURI() string {
	if op.Response == nil || len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 {
		return ""
	}
	return op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI
}

// GenerateVideo submits cfg once, polls the operation until it finishes and
// returns the URI of the generated video. onStatus receives human-readable
// progress messages and may be nil.
func (c *Client) GenerateVideo(ctx context.Context, cfg domain.VideoConfig, onStatus func(string)) (string, error) {
	status := func(msg string) {
		if onStatus != nil {
			onStatus(msg)
		}
	}
	status(StatusInitializing)

	instance := videoInstance{Prompt: cfg.Prompt}
	if cfg.Image != "" {
		img, err := c.encodeImage(ctx, cfg.Image)
		if err != nil {
			return "", err
		}
		instance.Image = img
	}

	req := videoRequest{
		Instances: []videoInstance{instance},
		Parameters: videoParameters{
			AspectRatio: string(cfg.AspectRatio),
			Resolution:  string(cfg.Resolution),
			SampleCount: 1,
		},
	}

	var op operation
	if err := c.do(ctx, http.MethodPost, "models/"+c.videoModel+":predictLongRunning", req, &op); err != nil {
		return "", fmt.Errorf("failed to submit video generation: %w", err)
	}
	slog.Info("Video generation submitted", "operation", op.Name, "aspectRatio", cfg.AspectRatio, "resolution", cfg.Resolution)

	done, err := c.waitForOperation(ctx, &op, status)
	if err != nil {
		return "", err
	}

	uri := done.videoURI()
	if uri == "" {
		return "", ErrNoVideo
	}
	return uri, nil
}

// waitForOperation polls op under the client's PollPolicy.
func (c *Client) waitForOperation(ctx context.Context, op *operation, status func(string)) (*operation, error) {
	pollCtx, cancel := context.WithTimeout(ctx, c.poll.MaxDuration)
	defer cancel()

	for attempt := 0; ; attempt++ {
		if op.Error != nil {
			return nil, fmt.Errorf("%w: %s", ErrOperationFailed, op.Error.Message)
		}
		if op.Done {
			return op, nil
		}
		if attempt >= c.poll.MaxAttempts {
			return nil, fmt.Errorf("%w: %d polls", ErrPollTimeout, attempt)
		}

		status(StatusRendering)
		if err := c.sleep(pollCtx, c.poll.Interval); err != nil {
			return nil, c.pollContextError(ctx, err)
		}

		name := op.Name
		var next operation
		if err := c.do(pollCtx, http.MethodGet, name, nil, &next); err != nil {
			if pollCtx.Err() != nil {
				return nil, c.pollContextError(ctx, pollCtx.Err())
			}
			return nil, fmt.Errorf("failed to poll operation %s: %w", name, err)
		}
		if next.Name == "" {
			next.Name = name
		}
		*op = next
		slog.Debug("Polled video operation", "operation", name, "attempt", attempt+1, "done", op.Done)
	}
}

// pollContextError tells a caller cancellation apart from the policy deadline.
func (c *Client) pollContextError(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: exceeded %s", ErrPollTimeout, c.poll.MaxDuration)
	}
	return err
}

// encodeImage turns a data URL, raw base64 or http(s) URL into inline image bytes.
func (c *Client) encodeImage(ctx context.Context, image string) (*videoImage, error) {
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return c.fetchImage(ctx, image)
	}

	mime := "image/jpeg"
	data := image
	if strings.HasPrefix(image, "data:") {
		if semi := strings.Index(image, ";"); semi > len("data:") {
			mime = image[len("data:"):semi]
		}
	}
	if i := strings.Index(image, "base64,"); i >= 0 {
		data = image[i+len("base64,"):]
	}
	return &videoImage{BytesBase64Encoded: data, MimeType: mime}, nil
}

func (c *Client) fetchImage(ctx context.Context, imageURL string) (*videoImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reference image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch reference image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference image: %w", err)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	return &videoImage{BytesBase64Encoded: base64.StdEncoding.EncodeToString(data), MimeType: mime}, nil
}
