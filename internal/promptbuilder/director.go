// Package promptbuilder constructs the system instructions and visual style
// directives handed to the remote model. Profiles are fixed per invocation so
// generated scenes stay visually and tonally consistent across a batch.
package promptbuilder

import (
	"fmt"
	"strings"
)

// DirectorConfig holds the user-defined settings for a media generation run.
// These settings apply to every scene of a script to keep the output uniform.
type DirectorConfig struct {
	// StyleProfile: e.g. "storybook", "documentary", "whiteboard", "comic".
	StyleProfile string
	// Voice is the prebuilt narration voice name; empty selects the
	// profile's suggestion.
	Voice string
	// AudienceGrade describes the target class level, e.g. "grade 4".
	AudienceGrade string
	// CustomInstructions carries specific teacher requests verbatim.
	CustomInstructions string
}

// styleDef is the resolved visual and narration direction for a profile.
type styleDef struct {
	Name           string
	VisualStyle    string
	NarrationTone  string
	SuggestedVoice string
}

func resolveStyleProfile(profileName string) styleDef {
	def := styleDef{
		Name:           "standard",
		VisualStyle:    "clean flat illustration, bright colors, classroom-friendly",
		NarrationTone:  "warm, clear, and encouraging",
		SuggestedVoice: "Kore",
	}

	switch strings.ToLower(profileName) {
	case "storybook":
		def.Name = "storybook"
		def.VisualStyle = "soft watercolor storybook illustration, gentle palette, whimsical details"
		def.NarrationTone = "expressive and wondering, like reading a bedtime story"
		def.SuggestedVoice = "Leda"
	case "documentary":
		def.Name = "documentary"
		def.VisualStyle = "photorealistic documentary still, natural lighting, wide establishing shots"
		def.NarrationTone = "measured and authoritative, nature-documentary cadence"
		def.SuggestedVoice = "Charon"
	case "whiteboard":
		def.Name = "whiteboard"
		def.VisualStyle = "hand-drawn whiteboard sketch, black marker on white, simple labeled diagrams"
		def.NarrationTone = "brisk and conversational, a teacher thinking aloud"
		def.SuggestedVoice = "Puck"
	case "comic":
		def.Name = "comic"
		def.VisualStyle = "vibrant comic panel, bold outlines, dynamic composition, halftone shading"
		def.NarrationTone = "energetic and playful, punchy delivery"
		def.SuggestedVoice = "Fenrir"
	}

	return def
}

// SceneStyleInstruction builds the visual style directive the scene parser
// passes to the remote model when deriving per-scene visual prompts.
func SceneStyleInstruction(cfg DirectorConfig) string {
	profile := resolveStyleProfile(cfg.StyleProfile)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Render every scene as: %s.\n", profile.VisualStyle))
	sb.WriteString("Keep characters, palette, and style consistent across all scenes.\n")

	if cfg.AudienceGrade != "" {
		sb.WriteString(fmt.Sprintf("Imagery must suit %s students.\n", cfg.AudienceGrade))
	}

	if cfg.CustomInstructions != "" {
		sb.WriteString("Additional direction: " + cfg.CustomInstructions + "\n")
	}

	return sb.String()
}

// NarrationVoice resolves the voice for speech synthesis: an explicit choice
// wins, otherwise the style profile suggests one.
func NarrationVoice(cfg DirectorConfig) string {
	if cfg.Voice != "" {
		return cfg.Voice
	}

	return resolveStyleProfile(cfg.StyleProfile).SuggestedVoice
}

// DocumentSystemInstruction is the persona for long-form teaching document
// generation.
func DocumentSystemInstruction() string {
	return "You are an expert instructional designer who writes complete, " +
		"well-structured teaching modules in tidy Markdown. Use tables where they help."
}

// QuizSystemInstruction is the persona for schema-constrained question-set
// generation. The JSON-only demand matters: without it models routinely wrap
// output in prose or code fences.
func QuizSystemInstruction() string {
	return "You are an assessment author. Output only valid JSON matching the " +
		"requested schema, with no Markdown fences and no text outside the JSON."
}
