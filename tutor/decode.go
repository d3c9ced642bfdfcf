package tutor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tolerant decoding of model output. The model is asked for clean JSON but
// routinely wraps it in prose or markdown fences, mistypes fields, or leaks
// raw control characters into string literals. Decoding therefore proceeds in
// layers: slice the outermost object, parse strictly, then coerce field by
// field. Errors returned here are absorbed by the Service, which substitutes
// deterministic fallbacks instead of surfacing them.

// DecodeTutorial parses the structuring response into a ProcessedTutorial
// (without practice questions; those travel in a separate response).
func DecodeTutorial(raw, targetLanguage string) (ProcessedTutorial, error) {
	payload, err := sliceObject(raw)
	if err != nil {
		return ProcessedTutorial{}, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return ProcessedTutorial{}, fmt.Errorf("tutorial payload: %w", err)
	}

	summary := TutorialSummary{
		Title:           stringOr(data["title"], "Tutorial"),
		ShortSummary:    stringOr(data["short_summary"], ""),
		DetailedSummary: coerceSummaryText(data["detailed_summary"]),
		Duration:        stringOr(data["duration"], ""),
		DifficultyLevel: stringOr(data["difficulty_level"], "Intermediate"),
		KeyTopics:       coerceStringList(data["key_topics"]),
	}

	steps, err := coerceActionSteps(data["action_steps"])
	if err != nil {
		return ProcessedTutorial{}, err
	}

	return ProcessedTutorial{
		Summary:           summary,
		ActionSteps:       steps,
		PracticeQuestions: []PracticeQuestion{},
		OriginalLanguage:  LanguageEnglish,
		TargetLanguage:    targetLanguage,
	}, nil
}

// DecodeQuestions parses the practice-question response. The raw text is
// sanitized more aggressively than the structuring path because open-ended
// generation is less reliable. An empty (but parseable) list is returned
// as-is; the Service decides whether to substitute fallbacks.
func DecodeQuestions(raw string) ([]PracticeQuestion, error) {
	payload, err := sliceObject(sanitizeModelJSON(raw))
	if err != nil {
		return nil, err
	}

	var data struct {
		Questions []map[string]any `json:"questions"`
	}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("questions payload: %w", err)
	}

	questions := make([]PracticeQuestion, 0, len(data.Questions))
	for i, q := range data.Questions {
		id, err := intOr(q["question_id"], i+1)
		if err != nil {
			return nil, err
		}
		pq := PracticeQuestion{
			QuestionID:    id,
			Question:      stringOr(q["question"], ""),
			QuestionType:  stringOr(q["question_type"], QuestionMultipleChoice),
			Options:       coerceOptions(q["options"]),
			CorrectAnswer: stringOr(q["correct_answer"], ""),
			Explanation:   stringOr(q["explanation"], ""),
			Difficulty:    stringOr(q["difficulty"], "medium"),
			Topic:         stringOr(q["topic"], "General"),
		}
		// A choice-style question without options cannot be rendered as one;
		// downgrade it instead of rejecting the whole batch. Correct-answer
		// membership in options is deliberately not checked.
		if len(pq.Options) == 0 && (pq.QuestionType == QuestionMultipleChoice || pq.QuestionType == QuestionTrueFalse) {
			pq.QuestionType = QuestionShortAnswer
			pq.Options = nil
		}
		questions = append(questions, pq)
	}
	return questions, nil
}

// sliceObject returns the span between the first '{' and the last '}' of s.
func sliceObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in model output")
	}
	return s[start : end+1], nil
}

// sanitizeModelJSON strips markdown code fences and scrubs raw control
// characters so a structurally sound payload survives strict parsing.
// Control characters inside string literals are re-escaped rather than
// dropped; a small outside-string/inside-string/escape-pending scan decides
// which side of a quote each character sits on.
func sanitizeModelJSON(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case inString && r == '\\':
			b.WriteRune(r)
			escaped = true
		case r == '"':
			inString = !inString
			b.WriteRune(r)
		case r == '\n', r == '\t', r == '\r':
			if inString {
				switch r {
				case '\n':
					b.WriteString(`\n`)
				case '\t':
					b.WriteString(`\t`)
				case '\r':
					b.WriteString(`\r`)
				}
			} else if r != '\r' {
				b.WriteRune(r)
			}
		case r < 0x20 || r == 0x7f:
			// other C0 controls never belong in the payload
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// stringOr renders v as a string, stringifying unexpected shapes instead of
// rejecting them. Missing or null values take def.
func stringOr(v any, def string) string {
	switch t := v.(type) {
	case nil:
		return def
	case string:
		if strings.TrimSpace(t) == "" {
			return def
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		// object or array where a scalar was expected
		enc, err := json.Marshal(t)
		if err != nil {
			return def
		}
		return string(enc)
	}
}

// intOr coerces v to an int, accepting JSON numbers and digit strings.
// A value that is present but not numeric is a decode failure.
func intOr(v any, def int) (int, error) {
	switch t := v.(type) {
	case nil:
		return def, nil
	case float64:
		return int(t), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("numeric field %q: %w", t, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("numeric field has type %T", v)
	}
}

// coerceSummaryText normalizes detailed_summary to the newline-joined bullet
// string form, whichever shape it arrived in.
func coerceSummaryText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		var lines []string
		for _, item := range t {
			text := strings.TrimSpace(stringOr(item, ""))
			if text == "" {
				continue
			}
			if !strings.HasPrefix(text, "•") {
				text = "• " + text
			}
			lines = append(lines, text)
		}
		return strings.Join(lines, "\n")
	case map[string]any:
		// keep something displayable out of an unexpected object
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var lines []string
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("• %s: %s", k, stringOr(t[k], "")))
		}
		return strings.Join(lines, "\n")
	default:
		return stringOr(v, "")
	}
}

// coerceStringList accepts only a proper list; anything else becomes empty.
func coerceStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s := strings.TrimSpace(stringOr(item, ""))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// coerceOptions keeps absent/null options as nil so short-answer questions
// round-trip without growing an empty list.
func coerceOptions(v any) []string {
	if v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringOr(item, ""))
	}
	return out
}

func coerceActionSteps(v any) ([]ActionStep, error) {
	items, _ := v.([]any)
	steps := make([]ActionStep, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		num, err := intOr(m["step_number"], 1)
		if err != nil {
			return nil, err
		}
		steps = append(steps, ActionStep{
			StepNumber:    num,
			Title:         stringOr(m["title"], ""),
			Description:   stringOr(m["description"], ""),
			EstimatedTime: stringOr(m["estimated_time"], ""),
			Completed:     false,
		})
	}
	return steps, nil
}
