package tutor

import (
	"fmt"
	"strings"
)

// The prompt builders are pure functions of their inputs. Each one spells out
// the exact JSON shape the model must return; the decoder on the other side
// tolerates deviations from it.

// Exchange is the single most recent user/assistant pair carried into a chat
// prompt. Only one exchange is forwarded so prompt size stays bounded.
type Exchange struct {
	Question string
	Answer   string
}

// BuildProcessingPrompt renders the tutorial-structuring request.
func BuildProcessingPrompt(transcript, targetLanguage string) Prompt {
	var sb strings.Builder
	sb.WriteString("You are an expert tutorial analyzer. Process the tutorial transcript the user provides and respond with a structured JSON object.\n\n")
	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString("1. Analyze the tutorial and create a comprehensive summary.\n")
	sb.WriteString("2. Extract actionable learning steps as a checklist.\n")
	sb.WriteString("3. Provide the detailed summary as a single string with bullet points separated by newlines; each bullet starts with •.\n")
	fmt.Fprintf(&sb, "4. If the target language is not English, translate all content to %s but keep technical terms intact.\n\n", targetLanguage)
	sb.WriteString("Respond with a JSON object in exactly this format:\n")
	sb.WriteString(`{
    "title": "Tutorial title (inferred from content)",
    "short_summary": "2-3 sentence overview",
    "detailed_summary": "• Key concept 1 explained\n• Key concept 2 explained\n• Important details and takeaways",
    "duration": "Estimated completion time",
    "difficulty_level": "Beginner/Intermediate/Advanced",
    "key_topics": ["topic1", "topic2", "topic3"],
    "action_steps": [
        {
            "step_number": 1,
            "title": "Step title",
            "description": "Detailed description of what to do",
            "estimated_time": "5-10 minutes"
        }
    ]
}`)
	sb.WriteString("\n\nIMPORTANT:\n")
	sb.WriteString("- detailed_summary must be a single string value, not an object or array.\n")
	sb.WriteString("- Use \\n to separate bullet points inside the string.\n")
	fmt.Fprintf(&sb, "- TARGET LANGUAGE: %s\n", targetLanguage)

	return Prompt{
		System: sb.String(),
		User:   fmt.Sprintf("TRANSCRIPT:\n%s", transcript),
	}
}

// BuildQuestionsPrompt renders the practice-question generation request.
func BuildQuestionsPrompt(transcript, targetLanguage string) Prompt {
	var sb strings.Builder
	sb.WriteString("You are an expert educator. Based on the tutorial transcript the user provides, create practice questions that test understanding of the SPECIFIC CONTENT.\n\n")
	sb.WriteString("CRITICAL INSTRUCTIONS:\n")
	sb.WriteString("1. Base every question on topics, concepts, or steps actually mentioned in the transcript.\n")
	sb.WriteString("2. Create 5-6 questions mixing multiple_choice, true_false, and short_answer types.\n")
	sb.WriteString("3. Provide a clear explanation for each answer.\n")
	fmt.Fprintf(&sb, "4. If the target language is not English, translate all content to %s.\n", targetLanguage)
	sb.WriteString("5. Always generate questions regardless of transcript length.\n")
	sb.WriteString("6. Return ONLY valid JSON - no markdown fences, no extra text, no control characters.\n\n")
	sb.WriteString("RESPONSE FORMAT - return only this JSON structure:\n")
	sb.WriteString(`{
    "questions": [
        {
            "question_id": 1,
            "question": "Based on the transcript, what is [specific concept mentioned]?",
            "question_type": "multiple_choice",
            "options": ["Option A from content", "Option B from content", "Option C from content", "Option D from content"],
            "correct_answer": "Option A from content",
            "explanation": "This is correct because the transcript specifically mentions...",
            "difficulty": "easy",
            "topic": "Specific topic from transcript"
        },
        {
            "question_id": 2,
            "question": "True or False: The transcript mentions [specific detail]",
            "question_type": "true_false",
            "options": ["True", "False"],
            "correct_answer": "True",
            "explanation": "This is true because the tutorial specifically covers...",
            "difficulty": "medium",
            "topic": "Specific topic from transcript"
        },
        {
            "question_id": 3,
            "question": "According to the tutorial, how would you [specific process mentioned]?",
            "question_type": "short_answer",
            "options": null,
            "correct_answer": "Based on the transcript, you would [specific steps mentioned]",
            "explanation": "The tutorial outlines these specific steps...",
            "difficulty": "hard",
            "topic": "Specific topic from transcript"
        }
    ]
}`)
	fmt.Fprintf(&sb, "\n\nTARGET LANGUAGE: %s\n", targetLanguage)
	sb.WriteString("Ensure all strings are properly escaped and the payload is clean JSON.\n")

	return Prompt{
		System: sb.String(),
		User:   fmt.Sprintf("TRANSCRIPT:\n%s", transcript),
	}
}

// chatAnswerContextLimit bounds how much of the previous assistant answer is
// replayed into the next prompt.
const chatAnswerContextLimit = 200

// BuildChatPrompt renders a contextual question-answering request grounded in
// the processed tutorial. last may be nil when the conversation is fresh.
func BuildChatPrompt(t ProcessedTutorial, userMessage string, last *Exchange) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a helpful AI tutor assistant. You have access to a tutorial the user has been studying; answer their questions based on the tutorial content.\n\n")
	sb.WriteString("TUTORIAL INFORMATION:\n")
	fmt.Fprintf(&sb, "Title: %s\n", t.Summary.Title)
	fmt.Fprintf(&sb, "Summary: %s\n", t.Summary.DetailedSummary)
	fmt.Fprintf(&sb, "Key Topics: %s\n\n", strings.Join(t.Summary.KeyTopics, ", "))
	sb.WriteString("ORIGINAL TRANSCRIPT:\n")
	if t.OriginalTranscript != "" {
		sb.WriteString(t.OriginalTranscript)
	} else {
		sb.WriteString("Transcript not available")
	}
	sb.WriteString("\n\nACTION STEPS:\n")
	for _, step := range t.ActionSteps {
		fmt.Fprintf(&sb, "%d. %s: %s\n", step.StepNumber, step.Title, step.Description)
	}
	sb.WriteString("\nINSTRUCTIONS:\n")
	sb.WriteString("1. Answer based ONLY on the tutorial content provided above.\n")
	sb.WriteString("2. If the question is about something not covered, politely say so and offer to help with what is covered.\n")
	sb.WriteString("3. Be conversational; keep responses concise but informative (2-3 paragraphs maximum).\n")
	fmt.Fprintf(&sb, "4. Use the target language: %s.\n", t.TargetLanguage)
	sb.WriteString("5. Provide fresh, varied responses - if this seems like a repeated question, offer a different perspective.\n")

	var history []Message
	if last != nil {
		answer := last.Answer
		if len(answer) > chatAnswerContextLimit {
			answer = answer[:chatAnswerContextLimit] + "..."
		}
		history = []Message{
			{Role: "user", Content: last.Question},
			{Role: "assistant", Content: answer},
		}
	}

	return Prompt{
		System:  sb.String(),
		User:    fmt.Sprintf("USER QUESTION: %s", userMessage),
		History: history,
	}
}
