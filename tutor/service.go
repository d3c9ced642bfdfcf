package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MinTranscriptChars is the minimum length a transcript must have before
// processing starts.
const MinTranscriptChars = 50

// ErrTranscriptTooShort is returned for caller input that cannot be
// processed. Caller mistakes are surfaced; upstream failures are not.
var ErrTranscriptTooShort = errors.New("transcript is empty or shorter than 50 characters")

// Service orchestrates the model calls for one transcript: a structuring
// call, a question-generation call, and on-demand chat turns. Every failure
// that originates upstream (model unavailable, unparseable reply) is absorbed
// into a deterministic fallback so callers always receive a displayable,
// schema-valid result.
type Service struct {
	llm LLMClient
	log *zap.SugaredLogger
}

func NewService(llm LLMClient, log *zap.SugaredLogger) (*Service, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{llm: llm, log: log}, nil
}

// ValidTranscript reports whether text is long enough to process.
func ValidTranscript(text string) bool {
	return len(strings.TrimSpace(text)) >= MinTranscriptChars
}

// ProcessTutorial turns a transcript into a complete ProcessedTutorial. The
// two model calls run sequentially on the caller's goroutine; cancellation
// and timeouts are the caller's concern via ctx. The only errors returned
// are input-invalid ones.
func (s *Service) ProcessTutorial(ctx context.Context, transcript, targetLanguage string) (ProcessedTutorial, error) {
	start := time.Now()

	if !ValidTranscript(transcript) {
		return ProcessedTutorial{}, ErrTranscriptTooShort
	}
	if targetLanguage == "" {
		targetLanguage = LanguageEnglish
	}
	targetLanguage = strings.ToLower(strings.TrimSpace(targetLanguage))
	if !IsSupportedLanguage(targetLanguage) {
		return ProcessedTutorial{}, fmt.Errorf("unsupported target language %q", targetLanguage)
	}

	out := s.structureTutorial(ctx, transcript, targetLanguage)
	out.ProcessingTime = time.Since(start).Seconds()
	return out, nil
}

func (s *Service) structureTutorial(ctx context.Context, transcript, targetLanguage string) ProcessedTutorial {
	raw, err := s.llm.Complete(ctx, BuildProcessingPrompt(transcript, targetLanguage))
	if err != nil {
		s.log.Warnw("structuring call failed, using fallback tutorial", "error", err)
		return FallbackTutorial(transcript, targetLanguage)
	}

	out, err := DecodeTutorial(raw, targetLanguage)
	if err != nil {
		s.log.Warnw("structuring response unparseable, using fallback tutorial", "error", err)
		return FallbackTutorial(transcript, targetLanguage)
	}

	out.PracticeQuestions = s.generateQuestions(ctx, transcript, targetLanguage)
	out.OriginalTranscript = transcript
	return out
}

// generateQuestions never returns an empty list.
func (s *Service) generateQuestions(ctx context.Context, transcript, targetLanguage string) []PracticeQuestion {
	raw, err := s.llm.Complete(ctx, BuildQuestionsPrompt(transcript, targetLanguage))
	if err != nil {
		s.log.Warnw("question call failed, synthesizing fallback questions", "error", err)
		return ContentFallbackQuestions(transcript)
	}

	questions, err := DecodeQuestions(raw)
	if err != nil {
		s.log.Warnw("question response unparseable, synthesizing fallback questions", "error", err)
		return ContentFallbackQuestions(transcript)
	}
	if len(questions) == 0 {
		s.log.Warnw("question response empty, synthesizing fallback questions")
		return ContentFallbackQuestions(transcript)
	}
	return questions
}

// Chat answers a question about a processed tutorial. Only the most recent
// user/assistant exchange from history is carried forward; the reply is
// passed through verbatim. Unlike processing, a failed model call here is
// surfaced: there is no meaningful canned answer to a free-form question.
func (s *Service) Chat(ctx context.Context, t ProcessedTutorial, userMessage string, history []ChatMessage) (ChatResponse, error) {
	if strings.TrimSpace(userMessage) == "" {
		return ChatResponse{}, errors.New("user message is required")
	}

	raw, err := s.llm.Complete(ctx, BuildChatPrompt(t, userMessage, lastExchange(history)))
	if err != nil {
		return ChatResponse{}, fmt.Errorf("chat completion: %w", err)
	}

	return ChatResponse{
		Response:  raw,
		Timestamp: float64(time.Now().UnixMilli()) / 1000.0,
	}, nil
}

// Ping probes the model with a trivial prompt. Used by the health endpoint.
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.llm.Complete(ctx, Prompt{
		System: "You are a health check responder.",
		User:   "Respond with the single word: OK",
	})
	return err
}

// lastExchange extracts the most recent user question that received an
// assistant answer. Returns nil when no such pair exists.
func lastExchange(history []ChatMessage) *Exchange {
	for i := len(history) - 1; i > 0; i-- {
		if history[i].Role == "assistant" && history[i-1].Role == "user" {
			return &Exchange{
				Question: history[i-1].Content,
				Answer:   history[i].Content,
			}
		}
	}
	return nil
}
