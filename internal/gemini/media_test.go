package gemini_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduforge/assetgen/internal/gemini"
)

func TestGenerateImageDecodesPayload(t *testing.T) {
	t.Parallel()

	imageBytes := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "image-model:predict")

		var request map[string]any

		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		instances, ok := request["instances"].([]any)
		require.True(t, ok)
		require.Len(t, instances, 1)

		fmt.Fprintf(w, `{"predictions":[{"bytesBase64Encoded":%q}]}`,
			base64.StdEncoding.EncodeToString(imageBytes))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)

	got, err := client.GenerateImage(context.Background(), "a watercolor frog on a lily pad")
	require.NoError(t, err)
	require.Equal(t, imageBytes, got)
}

func TestGenerateImageEmptyPredictions(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"predictions":[]}`)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)

	_, err := client.GenerateImage(context.Background(), "anything")
	require.ErrorIs(t, err, gemini.ErrEmptyResponse)
}

func TestGenerateSpeechReturnsRawPCM(t *testing.T) {
	t.Parallel()

	pcm := []byte{0x01, 0x02, 0x03, 0x04}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "audio-model:generateContent")

		var request struct {
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

		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		require.Equal(t, []string{"AUDIO"}, request.GenerationConfig.ResponseModalities)
		require.Equal(t, "Leda",
			request.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)

		fmt.Fprintf(w,
			`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/L16;rate=24000","data":%q}}]}}]}`,
			base64.StdEncoding.EncodeToString(pcm))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)

	got, err := client.GenerateSpeech(context.Background(), "Hello class.", "Leda")
	require.NoError(t, err)
	require.Equal(t, pcm, got)
}

func TestGenerateSpeechNormalizesNarration(t *testing.T) {
	t.Parallel()

	var receivedText string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		receivedText = request.Contents[0].Parts[0].Text

		fmt.Fprintf(w,
			`{"candidates":[{"content":{"parts":[{"inlineData":{"data":%q}}]}}]}`,
			base64.StdEncoding.EncodeToString([]byte{0x00, 0x00}))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)

	_, err := client.GenerateSpeech(context.Background(), "It’s  “photosynthesis”…", "Kore")
	require.NoError(t, err)
	require.Equal(t, `It's "photosynthesis"...`, receivedText)
}

func TestGenerateSpeechMissingInlineData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"no audio here"}]}}]}`)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)

	_, err := client.GenerateSpeech(context.Background(), "Hello.", "Kore")
	require.ErrorIs(t, err, gemini.ErrEmptyResponse)
}
