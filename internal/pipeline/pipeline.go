// Package pipeline orchestrates the generation flows: teaching documents,
// question sets, and the script → scenes → media batch. Each flow is an
// explicit function returning its result; callers decide what to persist and
// where to render.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/book-expert/logger"

	"github.com/eduforge/assetgen/internal/gemini"
	"github.com/eduforge/assetgen/internal/model"
	"github.com/eduforge/assetgen/internal/promptbuilder"
	"github.com/eduforge/assetgen/internal/synthesizer"
)

const (
	defaultFilePermission = 0o600
	defaultDirPermission  = 0o750
)

// ErrNoQuestions is returned when a question-set generation yields structured
// output containing zero questions.
var ErrNoQuestions = errors.New("no questions in generated set")

// Generator produces content from the remote model.
type Generator interface {
	Generate(ctx context.Context, prompt, systemInstruction string, schema *gemini.Schema) (gemini.Result, error)
}

// SceneParser splits a script into ordered scene descriptors.
type SceneParser interface {
	Parse(ctx context.Context, script, styleInstruction string) ([]model.SceneDescriptor, error)
}

// AssetSynthesizer fans out per-scene media generation.
type AssetSynthesizer interface {
	Synthesize(ctx context.Context, descriptors []model.SceneDescriptor, options synthesizer.Options) []model.SceneAsset
}

// Pipeline wires the generation stages together.
type Pipeline struct {
	generator   Generator
	sceneParser SceneParser
	synthesizer AssetSynthesizer
	logger      *logger.Logger
}

// New creates a Pipeline from its stages.
func New(
	generator Generator,
	sceneParser SceneParser,
	assetSynthesizer AssetSynthesizer,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		generator:   generator,
		sceneParser: sceneParser,
		synthesizer: assetSynthesizer,
		logger:      log,
	}
}

// DocumentRequest describes a teaching-module generation.
type DocumentRequest struct {
	Subject          string
	Curriculum       string
	GradeLevel       string
	Duration         string
	TeachingModel    string
	Instructions     string
	IncludeWorksheet bool
	IncludeGlossary  bool
}

// DocumentResult carries the generated module markdown.
type DocumentResult struct {
	Markdown string
}

// GenerateDocument produces a complete teaching module as markdown.
func (p *Pipeline) GenerateDocument(
	ctx context.Context,
	request DocumentRequest,
) (DocumentResult, error) {
	prompt := buildDocumentPrompt(request)

	result, err := p.generator.Generate(
		ctx,
		prompt,
		promptbuilder.DocumentSystemInstruction(),
		nil,
	)
	if err != nil {
		return DocumentResult{}, fmt.Errorf("generate document: %w", err)
	}

	return DocumentResult{Markdown: result.Text}, nil
}

func buildDocumentPrompt(request DocumentRequest) string {
	var sb strings.Builder

	sb.WriteString("Create a complete teaching module for:\n")
	sb.WriteString("Subject/Topic: " + request.Subject + "\n")

	if request.Curriculum != "" {
		sb.WriteString("Curriculum: " + request.Curriculum + "\n")
	}

	if request.GradeLevel != "" {
		sb.WriteString("Grade level: " + request.GradeLevel + "\n")
	}

	if request.Duration != "" {
		sb.WriteString("Time allocation: " + request.Duration + "\n")
	}

	if request.TeachingModel != "" {
		sb.WriteString("Teaching model: " + request.TeachingModel + "\n")
	}

	if request.Instructions != "" {
		sb.WriteString("Special instructions: " + request.Instructions + "\n")
	}

	sb.WriteString("\nThe module must cover:\n")
	sb.WriteString("1. General information\n")
	sb.WriteString("2. Core components (objectives, essential understanding, guiding questions)\n")
	sb.WriteString("3. Learning activities (opening, main, closing)\n")

	section := 4
	if request.IncludeWorksheet {
		sb.WriteString(fmt.Sprintf("%d. Student worksheet appendix\n", section))
		section++
	}

	if request.IncludeGlossary {
		sb.WriteString(fmt.Sprintf("%d. Glossary\n", section))
	}

	sb.WriteString("\nFormat the output as tidy Markdown. Use tables where helpful.\n")

	return sb.String()
}

// QuestionSetRequest describes an exam-package generation.
type QuestionSetRequest struct {
	Subject             string
	Grade               string
	MultipleChoiceCount int
	EssayCount          int
	HigherOrderThinking bool
}

// QuestionSetResult is the parsed exam package. When the model violated the
// schema and the lenient recovery also failed, Degraded is set and PlainText
// carries a freshly requested unstructured rendition instead of Records.
type QuestionSetResult struct {
	Grid       string
	Discussion string
	Records    []model.QuestionRecord
	PlainText  string
	Degraded   bool
}

type questionEntry struct {
	Type      string `json:"type"`
	Prompt    string `json:"prompt"`
	AnswerKey string `json:"answerKey"`
}

type questionSetPayload struct {
	Grid       string          `json:"grid"`
	Questions  []questionEntry `json:"questions"`
	Discussion string          `json:"discussion"`
}

func questionSetSchema() *gemini.Schema {
	return gemini.ObjectSchema(map[string]*gemini.Schema{
		"grid": gemini.StringSchema(),
		"questions": gemini.ArraySchema(gemini.ObjectSchema(map[string]*gemini.Schema{
			"type":      gemini.StringSchema(),
			"prompt":    gemini.StringSchema(),
			"answerKey": gemini.StringSchema(),
		})),
		"discussion": gemini.StringSchema(),
	})
}

// GenerateQuestionSet produces an exam package as question records. The
// records are returned to the caller, who passes them explicitly to the bank
// store when saving is wanted; the pipeline holds no ambient last-result
// state.
func (p *Pipeline) GenerateQuestionSet(
	ctx context.Context,
	request QuestionSetRequest,
) (QuestionSetResult, error) {
	prompt := buildQuestionSetPrompt(request)

	result, err := p.generator.Generate(
		ctx,
		prompt,
		promptbuilder.QuizSystemInstruction(),
		questionSetSchema(),
	)
	if err != nil {
		return QuestionSetResult{}, fmt.Errorf("generate question set: %w", err)
	}

	if !result.IsStructured() {
		return p.degradeQuestionSet(ctx, request)
	}

	var payload questionSetPayload

	err = json.Unmarshal(result.Structured, &payload)
	if err != nil {
		return QuestionSetResult{}, fmt.Errorf("unmarshal question set: %w", err)
	}

	records := make([]model.QuestionRecord, 0, len(payload.Questions))

	for _, entry := range payload.Questions {
		if strings.TrimSpace(entry.Prompt) == "" {
			continue
		}

		records = append(records, model.QuestionRecord{
			Subject:   request.Subject,
			Grade:     request.Grade,
			Type:      parseQuestionType(entry.Type),
			Prompt:    entry.Prompt,
			AnswerKey: entry.AnswerKey,
		})
	}

	if len(records) == 0 {
		return QuestionSetResult{}, ErrNoQuestions
	}

	return QuestionSetResult{
		Grid:       payload.Grid,
		Discussion: payload.Discussion,
		Records:    records,
	}, nil
}

// degradeQuestionSet re-issues the request without an output schema so the
// caller still receives usable text when structured output cannot be had.
func (p *Pipeline) degradeQuestionSet(
	ctx context.Context,
	request QuestionSetRequest,
) (QuestionSetResult, error) {
	p.logger.Warnf("Question set degraded to plain text, re-issuing unstructured request")

	prompt := buildQuestionSetPrompt(request) + "\nAnswer in plain text."

	result, err := p.generator.Generate(
		ctx,
		prompt,
		promptbuilder.DocumentSystemInstruction(),
		nil,
	)
	if err != nil {
		return QuestionSetResult{}, fmt.Errorf("generate fallback question set: %w", err)
	}

	return QuestionSetResult{PlainText: result.Text, Degraded: true}, nil
}

func buildQuestionSetPrompt(request QuestionSetRequest) string {
	difficulty := "standard difficulty"
	if request.HigherOrderThinking {
		difficulty = "higher-order thinking (analysis, evaluation, creation)"
	}

	var sb strings.Builder

	sb.WriteString("Create a complete exam package for:\n")
	sb.WriteString("Subject: " + request.Subject + "\n")
	sb.WriteString("Grade: " + request.Grade + "\n")
	sb.WriteString(fmt.Sprintf("Multiple choice questions: %d\n", request.MultipleChoiceCount))
	sb.WriteString(fmt.Sprintf("Essay questions: %d\n", request.EssayCount))
	sb.WriteString("Difficulty: " + difficulty + "\n\n")
	sb.WriteString("Produce a test grid summary, the questions with answer keys, ")
	sb.WriteString("and a detailed discussion of the answers. ")
	sb.WriteString(`Question type must be one of "multiple_choice", "short_answer", "essay".`)
	sb.WriteString("\n")

	return sb.String()
}

func parseQuestionType(raw string) model.QuestionType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "multiple_choice", "multiple choice":
		return model.QuestionMultipleChoice
	case "essay":
		return model.QuestionEssay
	default:
		return model.QuestionShortAnswer
	}
}

// MediaRequest describes a script-to-media batch.
type MediaRequest struct {
	Script     string
	Style      promptbuilder.DirectorConfig
	MakeImages bool
	MakeAudio  bool
	OutputDir  string
}

// MediaResult reports the batch outcome. ImagePaths and AudioPaths are
// index-aligned with Scenes; an empty entry means the asset was not produced.
type MediaResult struct {
	Scenes     []model.SceneAsset
	ImagePaths []string
	AudioPaths []string
	Succeeded  int
	Failed     int
}

// GenerateMedia runs script parsing, concurrent scene synthesis, and asset
// writing. Per-scene failures are recorded in the result; only parsing
// failures and filesystem errors abort the batch.
func (p *Pipeline) GenerateMedia(
	ctx context.Context,
	request MediaRequest,
) (MediaResult, error) {
	startTime := time.Now()

	descriptors, err := p.sceneParser.Parse(
		ctx,
		request.Script,
		promptbuilder.SceneStyleInstruction(request.Style),
	)
	if err != nil {
		return MediaResult{}, fmt.Errorf("parse script: %w", err)
	}

	p.logger.Infof("Parsed %d scenes, synthesizing assets", len(descriptors))

	assets := p.synthesizer.Synthesize(ctx, descriptors, synthesizer.Options{
		MakeImage: request.MakeImages,
		MakeAudio: request.MakeAudio,
		Voice:     promptbuilder.NarrationVoice(request.Style),
		OnProgress: func(completed, total int) {
			p.logger.Infof("Scene progress: %d/%d", completed, total)
		},
	})

	result, err := p.writeAssets(assets, request.OutputDir)
	if err != nil {
		return MediaResult{}, err
	}

	p.reportMediaResults(result, time.Since(startTime))

	return result, nil
}

func (p *Pipeline) writeAssets(assets []model.SceneAsset, outputDir string) (MediaResult, error) {
	result := MediaResult{
		Scenes:     assets,
		ImagePaths: make([]string, len(assets)),
		AudioPaths: make([]string, len(assets)),
	}

	if outputDir != "" {
		err := os.MkdirAll(outputDir, defaultDirPermission)
		if err != nil {
			return MediaResult{}, fmt.Errorf("create output directory: %w", err)
		}
	}

	for i, asset := range assets {
		if asset.ImageErr != nil || asset.AudioErr != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}

		if outputDir == "" {
			continue
		}

		if len(asset.Image) > 0 {
			path := filepath.Join(outputDir, fmt.Sprintf("scene_%02d.png", asset.Descriptor.Index))

			err := os.WriteFile(path, asset.Image, defaultFilePermission)
			if err != nil {
				return MediaResult{}, fmt.Errorf("write scene image: %w", err)
			}

			result.ImagePaths[i] = path
		}

		if len(asset.Audio) > 0 {
			path := filepath.Join(outputDir, fmt.Sprintf("scene_%02d.wav", asset.Descriptor.Index))

			err := os.WriteFile(path, asset.Audio, defaultFilePermission)
			if err != nil {
				return MediaResult{}, fmt.Errorf("write scene audio: %w", err)
			}

			result.AudioPaths[i] = path
		}
	}

	return result, nil
}

func (p *Pipeline) reportMediaResults(result MediaResult, duration time.Duration) {
	for _, asset := range result.Scenes {
		if asset.ImageErr != nil {
			p.logger.Errorf("Scene %d image failed: %v", asset.Descriptor.Index, asset.ImageErr)
		}

		if asset.AudioErr != nil {
			p.logger.Errorf("Scene %d audio failed: %v", asset.Descriptor.Index, asset.AudioErr)
		}
	}

	p.logger.Successf(
		"Media batch complete: %d/%d scenes fully succeeded, %d with failures in %v",
		result.Succeeded,
		len(result.Scenes),
		result.Failed,
		duration,
	)
}
