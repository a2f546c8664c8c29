package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const imageSampleCount = 1

type imageInstance struct {
	Prompt string `json:"prompt"`
}

type imageParameters struct {
	SampleCount int `json:"sampleCount"`
}

type imageRequest struct {
	Instances  []imageInstance `json:"instances"`
	Parameters imageParameters `json:"parameters"`
}

type imagePrediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
}

type imageResponse struct {
	Predictions []imagePrediction `json:"predictions"`
}

// GenerateImage synthesizes one raster image for the prompt and returns the
// decoded image bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	request := imageRequest{
		Instances:  []imageInstance{{Prompt: prompt}},
		Parameters: imageParameters{SampleCount: imageSampleCount},
	}

	body, err := c.Execute(ctx, c.endpointURL(c.config.ImageModel, "predict"), request)
	if err != nil {
		return nil, err
	}

	var response imageResponse

	err = json.Unmarshal(body, &response)
	if err != nil {
		return nil, fmt.Errorf("unmarshal image response: %w", err)
	}

	if len(response.Predictions) == 0 ||
		response.Predictions[0].BytesBase64Encoded == "" {
		return nil, ErrEmptyResponse
	}

	imageBytes, err := base64.StdEncoding.DecodeString(
		response.Predictions[0].BytesBase64Encoded,
	)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	return imageBytes, nil
}
