// Package model provides types that are shared across multiple packages in the
// asset generation service to avoid circular dependencies.
package model

import "time"

// SceneDescriptor is one narrated unit of a generated teaching video script.
// The parser assigns Index from the array position returned by the remote
// model; that ordering is a rendering contract and is never changed afterward.
type SceneDescriptor struct {
	Index        int    `json:"index"`
	Title        string `json:"title"`
	Narration    string `json:"narration"`
	VisualPrompt string `json:"visualPrompt"`
}

// SceneAsset holds the synthesized media for one scene. Sub-step failures are
// recorded on the asset rather than returned, so a batch always yields one
// SceneAsset per input descriptor.
type SceneAsset struct {
	Descriptor SceneDescriptor
	Image      []byte
	Audio      []byte
	ImageErr   error
	AudioErr   error
}

// QuestionType classifies a generated question record.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionEssay          QuestionType = "essay"
)

// QuestionRecord is one stored question in the bank. Records are immutable
// after creation; an edit is modeled as delete plus recreate.
type QuestionRecord struct {
	ID        string       `json:"id"`
	Subject   string       `json:"subject"`
	Grade     string       `json:"grade"`
	Type      QuestionType `json:"type"`
	Prompt    string       `json:"prompt"`
	AnswerKey string       `json:"answerKey"`
	CreatedAt time.Time    `json:"createdAt"`
}
