package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownSelection is returned for a selection payload with an unrecognised type.
var ErrUnknownSelection = errors.New("unknown selection type")

// Selection is an asset picked in the library and handed to the creation screen.
// The set of implementations is closed: ImageSelected, MusicSelected,
// VoiceSelected and TemplateSelected.
type Selection interface {
	selectionType() string
}

// ImageSelected seeds the session with a reference image and its prompt.
type ImageSelected struct {
	Image  string
	Prompt string
}

// MusicSelected adds a track to the layer collection.
type MusicSelected struct {
	Source LayerSource
}

// VoiceSelected picks the narrator.
type VoiceSelected struct {
	VoiceID   string
	VoiceName string
}

// TemplateSelected seeds the prompt from a template.
type TemplateSelected struct {
	Prompt string
}

func (ImageSelected) selectionType() string    { return "image" }
func (MusicSelected) selectionType() string    { return "music" }
func (VoiceSelected) selectionType() string    { return "voice" }
func (TemplateSelected) selectionType() string { return "template" }

// SelectionPayload is the wire form of a Selection, discriminated by Type.
type SelectionPayload struct {
	Type      string  `json:"type" binding:"required"`
	Image     string  `json:"image,omitempty"`
	Prompt    string  `json:"prompt,omitempty"`
	TrackID   string  `json:"trackId,omitempty"`
	Name      string  `json:"name,omitempty"`
	URL       string  `json:"url,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
	VoiceID   string  `json:"voiceId,omitempty"`
	VoiceName string  `json:"voiceName,omitempty"`
}

// Selection decodes the payload into its variant.
func (p SelectionPayload) Selection() (Selection, error) {
	switch p.Type {
	case "image":
		return ImageSelected{Image: p.Image, Prompt: p.Prompt}, nil
	case "music":
		if p.TrackID == "" && p.URL == "" {
			return nil, fmt.Errorf("music selection needs a trackId or url")
		}
		return MusicSelected{Source: LayerSource{TrackID: p.TrackID, Name: p.Name, URL: p.URL, Duration: p.Duration}}, nil
	case "voice":
		if p.VoiceID == "" {
			return nil, fmt.Errorf("voice selection needs a voiceId")
		}
		return VoiceSelected{VoiceID: p.VoiceID, VoiceName: p.VoiceName}, nil
	case "template":
		return TemplateSelected{Prompt: p.Prompt}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSelection, p.Type)
}
