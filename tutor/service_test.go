package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingLLM() LLMClient {
	return CompleteFunc(func(context.Context, Prompt) (string, error) {
		return "", errors.New("model unavailable")
	})
}

func newTestService(t *testing.T, llm LLMClient) *Service {
	t.Helper()
	svc, err := NewService(llm, nil)
	require.NoError(t, err)
	return svc
}

func TestProcessTutorialAbsorbsUpstreamFailure(t *testing.T) {
	svc := newTestService(t, failingLLM())

	out, err := svc.ProcessTutorial(context.Background(), dockerTranscript, LanguageEnglish)
	require.NoError(t, err)

	assert.NotEmpty(t, out.Summary.Title)
	assert.NotEmpty(t, out.Summary.SummaryBullets())
	assert.NotEmpty(t, out.ActionSteps)
	assert.NotEmpty(t, out.PracticeQuestions)
	assert.GreaterOrEqual(t, out.ProcessingTime, 0.0)
}

func TestProcessTutorialMalformedModelOutput(t *testing.T) {
	llm := CompleteFunc(func(_ context.Context, _ Prompt) (string, error) {
		return "I am sorry, I cannot answer in the requested structure today.", nil
	})
	svc := newTestService(t, llm)

	out, err := svc.ProcessTutorial(context.Background(), dockerTranscript, LanguageSpanish)
	require.NoError(t, err)

	wordCount := len(strings.Fields(dockerTranscript))
	assert.Equal(t, fmt.Sprintf("Tutorial (%d words)", wordCount), out.Summary.Title)
	assert.Len(t, out.ActionSteps, 2)
	assert.Len(t, out.PracticeQuestions, 2)
	assert.Equal(t, LanguageSpanish, out.TargetLanguage)
	assert.Equal(t, dockerTranscript, out.OriginalTranscript)
}

func TestProcessTutorialFallbackIsIdempotent(t *testing.T) {
	svc := newTestService(t, failingLLM())

	first, err := svc.ProcessTutorial(context.Background(), dockerTranscript, LanguageEnglish)
	require.NoError(t, err)
	second, err := svc.ProcessTutorial(context.Background(), dockerTranscript, LanguageEnglish)
	require.NoError(t, err)

	first.ProcessingTime = 0
	second.ProcessingTime = 0
	assert.Equal(t, first, second)
}

func TestProcessTutorialEmptyQuestionListGetsContentAwareFallback(t *testing.T) {
	llm := CompleteFunc(func(_ context.Context, p Prompt) (string, error) {
		if strings.Contains(p.System, "expert educator") {
			return `{"questions": []}`, nil
		}
		return `{"title": "Docker Basics", "short_summary": "s", "detailed_summary": "• a", "difficulty_level": "Beginner", "key_topics": ["docker"], "action_steps": [{"step_number": 1, "title": "T", "description": "D"}]}`, nil
	})
	svc := newTestService(t, llm)

	out, err := svc.ProcessTutorial(context.Background(), dockerTranscript, LanguageEnglish)
	require.NoError(t, err)

	require.Len(t, out.PracticeQuestions, 3)
	var topics []string
	for _, q := range out.PracticeQuestions {
		topics = append(topics, q.Topic)
	}
	assert.Contains(t, topics, "Docker")
	assert.Equal(t, "Docker Basics", out.Summary.Title)
}

func TestProcessTutorialRejectsShortTranscript(t *testing.T) {
	svc := newTestService(t, failingLLM())
	_, err := svc.ProcessTutorial(context.Background(), "too short", LanguageEnglish)
	assert.ErrorIs(t, err, ErrTranscriptTooShort)
}

func TestProcessTutorialRejectsUnknownLanguage(t *testing.T) {
	svc := newTestService(t, MockLLM{})
	_, err := svc.ProcessTutorial(context.Background(), dockerTranscript, "klingon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "klingon")
}

func TestProcessTutorialDefaultsLanguageToEnglish(t *testing.T) {
	svc := newTestService(t, MockLLM{})
	out, err := svc.ProcessTutorial(context.Background(), dockerTranscript, "")
	require.NoError(t, err)
	assert.Equal(t, LanguageEnglish, out.TargetLanguage)
}

func TestChatCarriesOnlyLastExchange(t *testing.T) {
	var seen Prompt
	llm := CompleteFunc(func(_ context.Context, p Prompt) (string, error) {
		seen = p
		return "an answer", nil
	})
	svc := newTestService(t, llm)

	history := []ChatMessage{
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first answer"},
		{Role: "user", Content: "second question"},
		{Role: "assistant", Content: "second answer"},
	}
	tut := ProcessedTutorial{Summary: TutorialSummary{Title: "T"}, TargetLanguage: LanguageEnglish}

	resp, err := svc.Chat(context.Background(), tut, "third question", history)
	require.NoError(t, err)
	assert.Equal(t, "an answer", resp.Response)
	assert.Greater(t, resp.Timestamp, 0.0)

	require.Len(t, seen.History, 2)
	assert.Equal(t, "second question", seen.History[0].Content)
	assert.Equal(t, "second answer", seen.History[1].Content)
	assert.NotContains(t, seen.System, "first question")
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	svc := newTestService(t, MockLLM{})
	_, err := svc.Chat(context.Background(), ProcessedTutorial{}, "   ", nil)
	require.Error(t, err)
}

func TestChatSurfacesModelFailure(t *testing.T) {
	svc := newTestService(t, failingLLM())
	_, err := svc.Chat(context.Background(), ProcessedTutorial{}, "why?", nil)
	require.Error(t, err)
}

func TestLastExchange(t *testing.T) {
	assert.Nil(t, lastExchange(nil))
	assert.Nil(t, lastExchange([]ChatMessage{{Role: "user", Content: "unanswered"}}))

	got := lastExchange([]ChatMessage{
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "a1"},
		{Role: "user", Content: "dangling"},
	})
	require.NotNil(t, got)
	assert.Equal(t, "q1", got.Question)
	assert.Equal(t, "a1", got.Answer)
}
