package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Fetching spoken-word captions for a video. YouTube serves caption tracks as
// an XML document from its timedtext endpoint; the fetcher flattens the track
// into plain transcript text and cleans the usual artifacts out of it.

const defaultTimedTextURL = "https://video.google.com/timedtext"

var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

var urlMarkers = []string{
	"youtube.com/watch",
	"youtu.be/",
	"youtube.com/embed/",
	"m.youtube.com/watch",
}

// IsVideoURL reports whether raw looks like a YouTube video URL.
func IsVideoURL(raw string) bool {
	lowered := strings.ToLower(raw)
	for _, marker := range urlMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// ExtractVideoID pulls the canonical video identifier out of the common
// watch/short/embed URL shapes.
func ExtractVideoID(raw string) (string, bool) {
	for _, re := range idPatterns {
		if m := re.FindStringSubmatch(raw); len(m) >= 2 {
			return m[1], true
		}
	}
	return "", false
}

// Fetcher resolves a video URL into clean transcript text.
type Fetcher struct {
	client  *http.Client
	log     *zap.SugaredLogger
	baseURL string
	lang    string
}

func NewFetcher(client *http.Client, log *zap.SugaredLogger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Fetcher{
		client:  client,
		log:     log,
		baseURL: defaultTimedTextURL,
		lang:    "en",
	}
}

// WithBaseURL points the fetcher at a different timedtext endpoint. Tests
// use this to serve canned caption documents.
func (f *Fetcher) WithBaseURL(base string) *Fetcher {
	f.baseURL = base
	return f
}

type timedText struct {
	Texts []struct {
		Body string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch downloads and cleans the caption track for the video behind rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	id, ok := ExtractVideoID(rawURL)
	if !ok {
		return "", fmt.Errorf("invalid YouTube URL format")
	}

	q := url.Values{}
	q.Set("v", id)
	q.Set("lang", f.lang)
	endpoint := f.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to extract transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to extract transcript: caption endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("failed to extract transcript: %w", err)
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("failed to extract transcript: %w", err)
	}
	if len(doc.Texts) == 0 {
		return "", fmt.Errorf("no captions available for video %s", id)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		if s := strings.TrimSpace(html.UnescapeString(t.Body)); s != "" {
			parts = append(parts, s)
		}
	}

	text := Clean(strings.Join(parts, " "))
	f.log.Infow("fetched transcript", "video_id", id, "chars", len(text))
	return text, nil
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	bracketRe    = regexp.MustCompile(`\[.*?\]`)
	parenRe      = regexp.MustCompile(`\(.*?\)`)
)

// Clean collapses whitespace and drops caption artifacts like [Music] and
// (inaudible).
func Clean(text string) string {
	text = bracketRe.ReplaceAllString(text, "")
	text = parenRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
