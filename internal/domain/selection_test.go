package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionPayloadDecoding(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected Selection
	}{
		{
			name:     "image",
			payload:  `{"type":"image","image":"https://example.com/a.jpg","prompt":"Cinematic high-quality visual asset."}`,
			expected: ImageSelected{Image: "https://example.com/a.jpg", Prompt: "Cinematic high-quality visual asset."},
		},
		{
			name:     "music",
			payload:  `{"type":"music","trackId":"m4","name":"Desert Breeze","url":"https://example.com/m4.mp3","duration":240}`,
			expected: MusicSelected{Source: LayerSource{TrackID: "m4", Name: "Desert Breeze", URL: "https://example.com/m4.mp3", Duration: 240}},
		},
		{
			name:     "voice",
			payload:  `{"type":"voice","voiceId":"f-1","voiceName":"Layla (Arabic)"}`,
			expected: VoiceSelected{VoiceID: "f-1", VoiceName: "Layla (Arabic)"},
		},
		{
			name:     "template",
			payload:  `{"type":"template","prompt":"Macro shot of a flower blooming"}`,
			expected: TemplateSelected{Prompt: "Macro shot of a flower blooming"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p SelectionPayload
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &p))

			sel, err := p.Selection()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sel)

			assert.Equal(t, p.Type, sel.selectionType())
		})
	}
}

func TestSelectionPayloadRejectsUnknownType(t *testing.T) {
	_, err := SelectionPayload{Type: "sticker"}.Selection()
	assert.True(t, errors.Is(err, ErrUnknownSelection))
}

func TestSelectionPayloadRequiresIdentifiers(t *testing.T) {
	_, err := SelectionPayload{Type: "music"}.Selection()
	assert.Error(t, err)

	_, err = SelectionPayload{Type: "voice"}.Selection()
	assert.Error(t, err)
}
