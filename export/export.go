package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"tutormate/tutor"
)

// Pure formatting of a ProcessedTutorial into downloadable documents.

// Supported export formats.
const (
	FormatMarkdown  = "markdown"
	FormatJSON      = "json"
	FormatChecklist = "checklist"
	FormatHTML      = "html"
)

// Rendering holds one rendered export ready to be served as a download.
type Rendering struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Render formats t in the requested format. Unknown formats are a caller
// mistake and return an error.
func Render(format string, t tutor.ProcessedTutorial) (Rendering, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatMarkdown:
		return Rendering{
			Content:     []byte(Markdown(t)),
			ContentType: "text/markdown",
			Filename:    Filename(t.Summary.Title, "md"),
		}, nil
	case FormatJSON:
		content, err := JSON(t)
		if err != nil {
			return Rendering{}, err
		}
		return Rendering{
			Content:     content,
			ContentType: "application/json",
			Filename:    Filename(t.Summary.Title, "json"),
		}, nil
	case FormatChecklist:
		return Rendering{
			Content:     []byte(Checklist(t)),
			ContentType: "text/plain",
			Filename:    Filename(t.Summary.Title+"_checklist", "txt"),
		}, nil
	case FormatHTML:
		content, err := HTML(t)
		if err != nil {
			return Rendering{}, err
		}
		return Rendering{
			Content:     content,
			ContentType: "text/html",
			Filename:    Filename(t.Summary.Title, "html"),
		}, nil
	default:
		return Rendering{}, fmt.Errorf("unsupported export format %q", format)
	}
}

// Markdown renders the tutorial as a study document.
func Markdown(t tutor.ProcessedTutorial) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t.Summary.Title)
	fmt.Fprintf(&sb, "%s\n\n", t.Summary.ShortSummary)

	fmt.Fprintf(&sb, "**Difficulty:** %s", t.Summary.DifficultyLevel)
	if t.Summary.Duration != "" {
		fmt.Fprintf(&sb, " | **Duration:** %s", t.Summary.Duration)
	}
	sb.WriteString("\n\n")

	if len(t.Summary.KeyTopics) > 0 {
		fmt.Fprintf(&sb, "**Key topics:** %s\n\n", strings.Join(t.Summary.KeyTopics, ", "))
	}

	sb.WriteString("## Summary\n\n")
	for _, bullet := range t.Summary.SummaryBullets() {
		fmt.Fprintf(&sb, "- %s\n", bullet)
	}
	sb.WriteString("\n")

	sb.WriteString("## Action Plan\n\n")
	for _, step := range t.ActionSteps {
		mark := " "
		if step.Completed {
			mark = "x"
		}
		fmt.Fprintf(&sb, "- [%s] **Step %d: %s** — %s", mark, step.StepNumber, step.Title, step.Description)
		if step.EstimatedTime != "" {
			fmt.Fprintf(&sb, " _(%s)_", step.EstimatedTime)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(t.PracticeQuestions) > 0 {
		sb.WriteString("## Practice Questions\n\n")
		for _, q := range t.PracticeQuestions {
			fmt.Fprintf(&sb, "### Q%d. %s\n\n", q.QuestionID, q.Question)
			for i, opt := range q.Options {
				fmt.Fprintf(&sb, "%d. %s\n", i+1, opt)
			}
			if len(q.Options) > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "**Answer:** %s\n\n", q.CorrectAnswer)
			if q.Explanation != "" {
				fmt.Fprintf(&sb, "> %s\n\n", q.Explanation)
			}
		}
	}

	return sb.String()
}

// JSON renders the raw structured record.
func JSON(t tutor.ProcessedTutorial) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Checklist renders a plain-text action checklist.
func Checklist(t tutor.ProcessedTutorial) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", t.Summary.Title)
	sb.WriteString(strings.Repeat("=", len(t.Summary.Title)))
	sb.WriteString("\n\n")
	for _, step := range t.ActionSteps {
		mark := "[ ]"
		if step.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(&sb, "%s %d. %s\n", mark, step.StepNumber, step.Title)
		fmt.Fprintf(&sb, "      %s\n", step.Description)
		if step.EstimatedTime != "" {
			fmt.Fprintf(&sb, "      Estimated time: %s\n", step.EstimatedTime)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// HTML converts the markdown rendering into a standalone document for
// browser preview.
func HTML(t tutor.ProcessedTutorial) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(t)), &body); err != nil {
		return nil, err
	}
	var doc bytes.Buffer
	fmt.Fprintf(&doc, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", htmlEscape(t.Summary.Title))
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.Bytes(), nil
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

var unsafeFilenameRe = regexp.MustCompile(`[<>:"/\\|?*]`)

// Filename builds a safe attachment filename from a tutorial title.
func Filename(title, ext string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "tutorial"
	}
	name = unsafeFilenameRe.ReplaceAllString(name, "_")
	name = strings.ReplaceAll(name, " ", "_")
	if len(name) > 100 {
		name = name[:100]
	}
	return name + "." + ext
}
