package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	// TTSSampleRate is the fixed output rate of the speech endpoint.
	TTSSampleRate = 24000

	modalityAudio = "AUDIO"
)

// GenerateSpeech narrates the text with the given prebuilt voice and returns
// the decoded payload: raw 16-bit linear PCM at TTSSampleRate, mono. Callers
// feed it through the wav package to obtain a playable container.
func (c *Client) GenerateSpeech(ctx context.Context, text, voiceName string) ([]byte, error) {
	narration := c.cleaner.NormalizeNarration(text)

	request := generateRequest{
		Contents: []requestContent{{Parts: []textPart{{Text: narration}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{modalityAudio},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{
						VoiceName: voiceName,
					},
				},
			},
		},
	}

	body, err := c.Execute(
		ctx,
		c.endpointURL(c.config.AudioModel, "generateContent"),
		request,
	)
	if err != nil {
		return nil, err
	}

	var response generateResponse

	err = json.Unmarshal(body, &response)
	if err != nil {
		return nil, fmt.Errorf("unmarshal speech response: %w", err)
	}

	if len(response.Candidates) == 0 ||
		len(response.Candidates[0].Content.Parts) == 0 ||
		response.Candidates[0].Content.Parts[0].InlineData == nil ||
		response.Candidates[0].Content.Parts[0].InlineData.Data == "" {
		return nil, ErrEmptyResponse
	}

	pcm, err := base64.StdEncoding.DecodeString(
		response.Candidates[0].Content.Parts[0].InlineData.Data,
	)
	if err != nil {
		return nil, fmt.Errorf("decode speech payload: %w", err)
	}

	return pcm, nil
}
