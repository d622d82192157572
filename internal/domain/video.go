package domain

import "fmt"

// AspectRatio of the generated video.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

// Resolution of the generated video.
type Resolution string

const (
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
)

// VideoStatus of a gallery record.
type VideoStatus string

const (
	VideoCompleted  VideoStatus = "completed"
	VideoProcessing VideoStatus = "processing"
	VideoFailed     VideoStatus = "failed"
)

// ParseAspectRatio validates an aspect ratio string.
func ParseAspectRatio(s string) (AspectRatio, error) {
	switch AspectRatio(s) {
	case AspectLandscape, AspectPortrait:
		return AspectRatio(s), nil
	}
	return "", fmt.Errorf("unsupported aspect ratio %q", s)
}

// ParseResolution validates a resolution string.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case Resolution720p, Resolution1080p:
		return Resolution(s), nil
	}
	return "", fmt.Errorf("unsupported resolution %q", s)
}

// VideoConfig is the immutable input of a single remote generation.
type VideoConfig struct {
	Prompt      string       `json:"prompt"`
	AspectRatio AspectRatio  `json:"aspectRatio"`
	Resolution  Resolution   `json:"resolution"`
	Image       string       `json:"image,omitempty"`
	VoiceID     string       `json:"voiceId,omitempty"`
	Language    string       `json:"language,omitempty"`
	AudioLayers []AudioLayer `json:"audioLayers"`
}

// GeneratedVideo is a gallery record, created only when a generation succeeds.
type GeneratedVideo struct {
	ID          string      `json:"id"`
	Prompt      string      `json:"prompt"`
	URI         string      `json:"uri"`
	Timestamp   int64       `json:"timestamp"` // unix milliseconds
	Status      VideoStatus `json:"status"`
	AspectRatio AspectRatio `json:"aspectRatio"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
}
