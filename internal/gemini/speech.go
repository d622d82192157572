package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
)

// Speech preview output format: 16-bit little-endian mono PCM.
const (
	SpeechSampleRate = 24000
	SpeechChannels   = 1
)

type speechPart struct {
	Text       string `json:"text,omitempty"`
	InlineData *struct {
		MimeType string `json:"mimeType"`
		Data     string `json:"data"`
	} `json:"inlineData,omitempty"`
}

type speechContent struct {
	Parts []speechPart `json:"parts"`
}

type speechRequest struct {
	Contents         []speechContent `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
		SpeechConfig       struct {
			VoiceConfig struct {
				PrebuiltVoiceConfig struct {
					VoiceName string `json:"voiceName"`
				} `json:"prebuiltVoiceConfig"`
			} `json:"voiceConfig"`
		} `json:"speechConfig"`
	} `json:"generationConfig"`
}

type speechResponse struct {
	Candidates []struct {
		Content speechContent `json:"content"`
	} `json:"candidates"`
}

// SpeechPreview speaks text with a prebuilt voice and returns raw PCM samples.
func (c *Client) SpeechPreview(ctx context.Context, text, voiceName string) ([]byte, error) {
	var req speechRequest
	req.Contents = []speechContent{{Parts: []speechPart{{Text: text}}}}
	req.GenerationConfig.ResponseModalities = []string{"AUDIO"}
	req.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = voiceName

	var resp speechResponse
	if err := c.do(ctx, http.MethodPost, "models/"+c.speechModel+":generateContent", req, &resp); err != nil {
		return nil, fmt.Errorf("speech preview failed: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrNoAudio
	}
	inline := resp.Candidates[0].Content.Parts[0].InlineData
	if inline == nil || inline.Data == "" {
		return nil, ErrNoAudio
	}

	pcm, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAudio, err)
	}
	return pcm, nil
}
