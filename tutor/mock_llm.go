package tutor

import (
	"context"
	"strings"
)

// MockLLM is a placeholder client for local runs without an API key. It
// inspects the prompt to decide which request kind it is answering and
// returns a small well-formed payload for each.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	switch {
	case strings.Contains(prompt.System, "expert educator"):
		return `{
    "questions": [
        {
            "question_id": 1,
            "question": "What does this tutorial walk through?",
            "question_type": "short_answer",
            "options": null,
            "correct_answer": "The workflow demonstrated in the transcript",
            "explanation": "The tutorial walks through its subject step by step.",
            "difficulty": "easy",
            "topic": "Overview"
        }
    ]
}`, nil
	case strings.Contains(prompt.System, "tutor assistant"):
		return "This is a locally generated reply; configure a real model provider for grounded answers.", nil
	default:
		return `{
    "title": "Sample Tutorial",
    "short_summary": "A locally generated stand-in summary.",
    "detailed_summary": "• First key concept\n• Second key concept\n• Practical takeaways",
    "duration": "15 minutes",
    "difficulty_level": "Beginner",
    "key_topics": ["sample", "local"],
    "action_steps": [
        {
            "step_number": 1,
            "title": "Review the material",
            "description": "Read through the transcript once end to end.",
            "estimated_time": "5 minutes"
        }
    ]
}`, nil
	}
}

// CompleteFunc adapts a plain function to the LLMClient interface.
type CompleteFunc func(ctx context.Context, prompt Prompt) (string, error)

func (f CompleteFunc) Complete(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}
