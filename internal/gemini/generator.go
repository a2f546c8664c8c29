package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const responseMIMETypeJSON = "application/json"

// ErrEmptyResponse is returned when the remote call succeeded transport-wise
// but carried no usable candidate content.
var ErrEmptyResponse = errors.New("empty response from model")

// Schema is a recursive descriptor of the expected JSON shape, mirroring the
// responseSchema field of the remote API. It guides and validates the model
// output; it is never executable.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// StringSchema describes a plain string field.
func StringSchema() *Schema {
	return &Schema{Type: "string"}
}

// ArraySchema describes an array of items.
func ArraySchema(items *Schema) *Schema {
	return &Schema{Type: "array", Items: items}
}

// ObjectSchema describes an object with the given fields, all required.
func ObjectSchema(properties map[string]*Schema) *Schema {
	required := make([]string, 0, len(properties))
	for name := range properties {
		required = append(required, name)
	}

	return &Schema{Type: "object", Properties: properties, Required: required}
}

// Result is the outcome of one generation call: a tagged variant over
// structured JSON and plain text. Exactly one field is populated; callers
// must branch on IsStructured. A plain-text result from a schema-constrained
// call is the deliberate degraded path, not an error.
type Result struct {
	Structured json.RawMessage
	Text       string
}

// IsStructured reports whether the structured variant is populated.
func (r Result) IsStructured() bool {
	return len(r.Structured) > 0
}

type textPart struct {
	Text string `json:"text"`
}

type requestContent struct {
	Parts []textPart `json:"parts"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type generationConfig struct {
	ResponseMIMEType   string        `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema       `json:"responseSchema,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type generateRequest struct {
	Contents          []requestContent  `json:"contents"`
	SystemInstruction *requestContent   `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type candidatePart struct {
	Text       string      `json:"text"`
	InlineData *inlineData `json:"inlineData"`
}

type candidateContent struct {
	Parts []candidatePart `json:"parts"`
}

type candidate struct {
	Content candidateContent `json:"content"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

// Generate requests content for the prompt. When schema is non-nil the remote
// service is asked to constrain its output to that shape and the response is
// parsed as JSON, falling back first to lenient extraction and then to a
// plain-text result when the service violates the contract.
func (c *Client) Generate(
	ctx context.Context,
	prompt, systemInstruction string,
	schema *Schema,
) (Result, error) {
	request := generateRequest{
		Contents: []requestContent{{Parts: []textPart{{Text: prompt}}}},
	}

	if systemInstruction != "" {
		request.SystemInstruction = &requestContent{
			Parts: []textPart{{Text: systemInstruction}},
		}
	}

	if schema != nil {
		request.GenerationConfig = &generationConfig{
			ResponseMIMEType: responseMIMETypeJSON,
			ResponseSchema:   schema,
		}
	}

	body, err := c.Execute(
		ctx,
		c.endpointURL(c.config.TextModel, "generateContent"),
		request,
	)
	if err != nil {
		return Result{}, err
	}

	text, err := candidateText(body)
	if err != nil {
		return Result{}, err
	}

	if schema == nil {
		return Result{Text: text}, nil
	}

	return c.parseStructured(text), nil
}

// parseStructured turns raw response text into the structured variant, or
// degrades to plain text when no valid JSON object can be recovered.
func (c *Client) parseStructured(text string) Result {
	cleaned := c.cleaner.Clean(text)
	if json.Valid([]byte(cleaned)) {
		return Result{Structured: json.RawMessage(cleaned)}
	}

	extracted, ok := ExtractJSONObject(cleaned)
	if ok {
		return Result{Structured: extracted}
	}

	c.logger.Warnf("Model violated the requested output schema, degrading to plain text")

	return Result{Text: text}
}

// ExtractJSONObject applies the lenient recovery path: it parses the
// substring between the first '{' and the last '}' of the input. This handles
// services that wrap JSON in commentary or code fences.
func ExtractJSONObject(text string) (json.RawMessage, bool) {
	firstOpen := strings.IndexByte(text, '{')
	lastClose := strings.LastIndexByte(text, '}')

	if firstOpen < 0 || lastClose <= firstOpen {
		return nil, false
	}

	extracted := text[firstOpen : lastClose+1]
	if !json.Valid([]byte(extracted)) {
		return nil, false
	}

	return json.RawMessage(extracted), true
}

func candidateText(body []byte) (string, error) {
	var response generateResponse

	err := json.Unmarshal(body, &response)
	if err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(response.Candidates) == 0 ||
		len(response.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var textBuilder strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		textBuilder.WriteString(part.Text)
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
