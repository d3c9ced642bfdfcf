package tutor

import (
	"fmt"
	"strings"
	"unicode"
)

// Deterministic substitutes used whenever the model's output cannot be
// trusted or parsed. These touch nothing but the transcript they are handed,
// so they cannot fail.

// techTerms is the fixed vocabulary scanned when synthesizing content-aware
// fallback questions. Multi-word terms must come before their single-word
// substrings would match, but matching is substring-based so order only
// affects which term becomes the headline topic.
var techTerms = []string{
	"python", "javascript", "aws", "cloud", "database", "api", "web",
	"server", "network", "security", "data", "machine learning", "ai",
	"docker", "kubernetes", "react", "node", "sql", "html", "css",
}

// FallbackTutorial builds a generic but fully populated tutorial used when
// the structuring call fails entirely. Deterministic for a given transcript.
func FallbackTutorial(transcript, targetLanguage string) ProcessedTutorial {
	words := len(strings.Fields(transcript))

	summary := TutorialSummary{
		Title:           fmt.Sprintf("Tutorial (%d words)", words),
		ShortSummary:    "This tutorial covers various topics. Processing encountered some issues, but basic structure has been created.",
		DetailedSummary: "• Tutorial content was processed with limited AI analysis\n• Manual review may be needed for optimal results\n• Key concepts may need additional clarification",
		Duration:        "Variable",
		DifficultyLevel: "Intermediate",
		KeyTopics:       []string{"General Tutorial Content"},
	}

	steps := []ActionStep{
		{
			StepNumber:    1,
			Title:         "Review Tutorial Content",
			Description:   "Go through the original tutorial content to understand the main concepts.",
			EstimatedTime: "10-15 minutes",
		},
		{
			StepNumber:    2,
			Title:         "Practice Key Concepts",
			Description:   "Apply the concepts learned from the tutorial in practical exercises.",
			EstimatedTime: "20-30 minutes",
		},
	}

	return ProcessedTutorial{
		Summary:            summary,
		ActionSteps:        steps,
		PracticeQuestions:  FallbackQuestions(),
		OriginalLanguage:   LanguageEnglish,
		TargetLanguage:     targetLanguage,
		OriginalTranscript: transcript,
	}
}

// FallbackQuestions returns the two generic questions attached to a fallback
// tutorial.
func FallbackQuestions() []PracticeQuestion {
	return []PracticeQuestion{
		{
			QuestionID:    1,
			Question:      "What was the main topic of this tutorial?",
			QuestionType:  QuestionShortAnswer,
			CorrectAnswer: "Based on the tutorial content",
			Explanation:   "Reflect on the key concepts discussed in the tutorial",
			Difficulty:    "easy",
			Topic:         "General",
		},
		{
			QuestionID:    2,
			Question:      "True or False: This tutorial provided actionable steps",
			QuestionType:  QuestionTrueFalse,
			Options:       []string{"True", "False"},
			CorrectAnswer: "True",
			Explanation:   "The tutorial was processed into actionable steps",
			Difficulty:    "easy",
			Topic:         "General",
		},
	}
}

// ContentFallbackQuestions synthesizes exactly three questions when question
// generation fails or returns nothing. The transcript is scanned against
// techTerms so at least the topic names stay grounded in the source content.
// The transcript arrives as a parameter on purpose: there is no process-wide
// last-transcript state to race on.
func ContentFallbackQuestions(transcript string) []PracticeQuestion {
	lowered := strings.ToLower(transcript)
	var found []string
	for _, term := range techTerms {
		if strings.Contains(lowered, term) {
			found = append(found, term)
		}
	}

	questions := make([]PracticeQuestion, 0, 3)

	if len(found) > 0 {
		topic := titleCase(found[0])
		questions = append(questions, PracticeQuestion{
			QuestionID:    1,
			Question:      fmt.Sprintf("Based on the tutorial content, what is the main focus regarding %s?", topic),
			QuestionType:  QuestionShortAnswer,
			CorrectAnswer: fmt.Sprintf("The tutorial focuses on %s concepts and their practical application", topic),
			Explanation:   fmt.Sprintf("The tutorial content specifically mentions %s and related concepts", topic),
			Difficulty:    "easy",
			Topic:         topic,
		})
	} else {
		questions = append(questions, PracticeQuestion{
			QuestionID:    1,
			Question:      "What is the main topic or subject covered in this tutorial?",
			QuestionType:  QuestionShortAnswer,
			CorrectAnswer: "The main topic discussed in the tutorial content",
			Explanation:   "Review the tutorial title and key concepts to identify the primary subject matter",
			Difficulty:    "easy",
			Topic:         "Main Topic",
		})
	}

	questions = append(questions, PracticeQuestion{
		QuestionID:    2,
		Question:      "True or False: This tutorial provides practical, actionable information",
		QuestionType:  QuestionTrueFalse,
		Options:       []string{"True", "False"},
		CorrectAnswer: "True",
		Explanation:   "The tutorial content is designed to provide practical guidance and actionable steps",
		Difficulty:    "easy",
		Topic:         "Tutorial Structure",
	})

	if len(found) > 0 {
		topic := titleCase(found[0])
		questions = append(questions, PracticeQuestion{
			QuestionID:   3,
			Question:     fmt.Sprintf("According to the tutorial, what is the best approach to learning %s?", topic),
			QuestionType: QuestionMultipleChoice,
			Options: []string{
				"Follow the step-by-step process outlined",
				"Skip directly to advanced topics",
				"Ignore the foundational concepts",
				"Only read without practicing",
			},
			CorrectAnswer: "Follow the step-by-step process outlined",
			Explanation:   fmt.Sprintf("The tutorial emphasizes following a structured approach to learning %s", topic),
			Difficulty:    "medium",
			Topic:         topic,
		})
	} else {
		questions = append(questions, PracticeQuestion{
			QuestionID:   3,
			Question:     "What would be the first step you should take after studying this tutorial?",
			QuestionType: QuestionMultipleChoice,
			Options: []string{
				"Review and understand the key concepts",
				"Ignore the content completely",
				"Start with the most advanced topics",
				"Skip all practice exercises",
			},
			CorrectAnswer: "Review and understand the key concepts",
			Explanation:   "The best approach after any tutorial is to review and understand the key concepts before moving forward",
			Difficulty:    "medium",
			Topic:         "Learning Strategy",
		})
	}

	return questions
}

// titleCase uppercases the first letter of each word ("machine learning" ->
// "Machine Learning", "ai" -> "Ai" stays consistent with simple title rules).
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
