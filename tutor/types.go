package tutor

import "strings"

// Question kinds the prompt contract allows and the fallback generators emit.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
)

// Languages the prompt contract accepts as target_language.
const (
	LanguageEnglish = "english"
	LanguageSpanish = "spanish"
	LanguageFrench  = "french"
	LanguageGerman  = "german"
	LanguageHindi   = "hindi"
)

var supportedLanguages = map[string]bool{
	LanguageEnglish: true,
	LanguageSpanish: true,
	LanguageFrench:  true,
	LanguageGerman:  true,
	LanguageHindi:   true,
}

// IsSupportedLanguage reports whether lang is one of the target languages
// the prompts know how to ask for.
func IsSupportedLanguage(lang string) bool {
	return supportedLanguages[strings.ToLower(strings.TrimSpace(lang))]
}

// TutorialSummary is the structured overview extracted from a transcript.
// DetailedSummary travels as one newline-joined string of bullet lines;
// SummaryBullets recovers the ordered list form.
type TutorialSummary struct {
	Title           string   `json:"title"`
	ShortSummary    string   `json:"short_summary"`
	DetailedSummary string   `json:"detailed_summary"`
	Duration        string   `json:"duration,omitempty"`
	DifficultyLevel string   `json:"difficulty_level"`
	KeyTopics       []string `json:"key_topics"`
}

// SummaryBullets splits DetailedSummary into its ordered non-empty bullet
// strings, stripping leading bullet markers.
func (s TutorialSummary) SummaryBullets() []string {
	var bullets []string
	for _, line := range strings.Split(s.DetailedSummary, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "•-* ")
		line = strings.TrimSpace(line)
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	return bullets
}

// ActionStep is one checklist item of the tutorial's action plan.
// Completed belongs to the presentation layer; the decoder always emits false.
type ActionStep struct {
	StepNumber    int    `json:"step_number"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	EstimatedTime string `json:"estimated_time,omitempty"`
	Completed     bool   `json:"completed"`
}

// PracticeQuestion is one generated comprehension question. Options is nil
// for short-answer questions and must stay nil through encode/decode.
type PracticeQuestion struct {
	QuestionID    int      `json:"question_id"`
	Question      string   `json:"question"`
	QuestionType  string   `json:"question_type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Topic         string   `json:"topic"`
}

// ProcessedTutorial is the complete artifact returned for one transcript.
// OriginalTranscript is retained so later chat turns stay grounded in the
// source material.
type ProcessedTutorial struct {
	Summary            TutorialSummary    `json:"summary"`
	ActionSteps        []ActionStep       `json:"action_steps"`
	PracticeQuestions  []PracticeQuestion `json:"practice_questions"`
	OriginalLanguage   string             `json:"original_language"`
	TargetLanguage     string             `json:"target_language"`
	ProcessingTime     float64            `json:"processing_time"`
	OriginalTranscript string             `json:"original_transcript,omitempty"`
}

// ChatMessage is one turn of the conversation as the frontend stores it.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse wraps the model's free-text reply.
type ChatResponse struct {
	Response  string  `json:"response"`
	Timestamp float64 `json:"timestamp"`
}
