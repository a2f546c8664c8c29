// Package script parses teacher-authored narrative scripts into ordered scene
// descriptors via one schema-constrained generation call.
package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/book-expert/logger"

	"github.com/eduforge/assetgen/internal/gemini"
	"github.com/eduforge/assetgen/internal/model"
)

// ErrEmptyScript is returned when zero scenes are recovered from the script.
var ErrEmptyScript = errors.New("no scenes recovered from script")

const parserSystemInstruction = "You are a storyboard director for short educational videos. " +
	"Split the supplied script into an ordered list of scenes. For every scene produce a short title, " +
	"the narration text spoken over it, and a rich visual prompt describing the illustration, " +
	"derived from the narration and the requested visual style. " +
	"Respond with JSON only."

// Generator is the single remote call the parser depends on.
type Generator interface {
	Generate(ctx context.Context, prompt, systemInstruction string, schema *gemini.Schema) (gemini.Result, error)
}

// Parser turns a free-form script into scene descriptors.
type Parser struct {
	generator Generator
	logger    *logger.Logger
}

// NewParser creates a Parser backed by the given generator.
func NewParser(generator Generator, log *logger.Logger) *Parser {
	return &Parser{generator: generator, logger: log}
}

// sceneList is the object wrapper requested from the model. An object root
// keeps the lenient brace-extraction fallback applicable.
type sceneList struct {
	Scenes []sceneEntry `json:"scenes"`
}

type sceneEntry struct {
	Title        string `json:"title"`
	Narration    string `json:"narration"`
	VisualPrompt string `json:"visualPrompt"`
}

func sceneSchema() *gemini.Schema {
	return gemini.ObjectSchema(map[string]*gemini.Schema{
		"scenes": gemini.ArraySchema(gemini.ObjectSchema(map[string]*gemini.Schema{
			"title":        gemini.StringSchema(),
			"narration":    gemini.StringSchema(),
			"visualPrompt": gemini.StringSchema(),
		})),
	})
}

// Parse splits the script into an ordered sequence of scene descriptors. The
// order returned by the remote service is preserved as scene order; this is a
// rendering contract, not incidental.
func (p *Parser) Parse(
	ctx context.Context,
	script, styleInstruction string,
) ([]model.SceneDescriptor, error) {
	if strings.TrimSpace(script) == "" {
		return nil, ErrEmptyScript
	}

	prompt := buildPrompt(script, styleInstruction)

	result, err := p.generator.Generate(ctx, prompt, parserSystemInstruction, sceneSchema())
	if err != nil {
		return nil, fmt.Errorf("generate scene list: %w", err)
	}

	if !result.IsStructured() {
		p.logger.Warnf("Scene parser received unstructured output, no scenes recovered")

		return nil, ErrEmptyScript
	}

	var parsed sceneList

	err = json.Unmarshal(result.Structured, &parsed)
	if err != nil {
		return nil, fmt.Errorf("unmarshal scene list: %w", err)
	}

	descriptors := make([]model.SceneDescriptor, 0, len(parsed.Scenes))

	for _, entry := range parsed.Scenes {
		if strings.TrimSpace(entry.Narration) == "" {
			continue
		}

		descriptors = append(descriptors, model.SceneDescriptor{
			Index:        len(descriptors),
			Title:        entry.Title,
			Narration:    entry.Narration,
			VisualPrompt: entry.VisualPrompt,
		})
	}

	if len(descriptors) == 0 {
		return nil, ErrEmptyScript
	}

	return descriptors, nil
}

func buildPrompt(script, styleInstruction string) string {
	var promptBuilder strings.Builder

	promptBuilder.WriteString("SCRIPT:\n")
	promptBuilder.WriteString(script)

	if styleInstruction != "" {
		promptBuilder.WriteString("\n\nVISUAL STYLE:\n")
		promptBuilder.WriteString(styleInstruction)
	}

	return promptBuilder.String()
}
