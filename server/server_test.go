package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutormate/transcript"
	"tutormate/tutor"
)

const testTranscript = "Docker containers let you package an application together with its dependencies so it runs the same everywhere."

func newTestRouter(t *testing.T, llm tutor.LLMClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := tutor.NewService(llm, nil)
	require.NoError(t, err)
	srv, err := New(svc, transcript.NewFetcher(nil, nil), nil)
	require.NoError(t, err)
	return srv.Router([]string{"http://localhost:3000"})
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProcessTutorialEndpoint(t *testing.T) {
	r := newTestRouter(t, tutor.MockLLM{})

	w := postJSON(t, r, "/api/process-tutorial", gin.H{
		"transcript_text": testTranscript,
		"target_language": "english",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var out tutor.ProcessedTutorial
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Sample Tutorial", out.Summary.Title)
	assert.Equal(t, "english", out.TargetLanguage)
	assert.NotEmpty(t, out.ActionSteps)
	assert.NotEmpty(t, out.PracticeQuestions)
}

func TestProcessTutorialEndpointShortTranscript(t *testing.T) {
	r := newTestRouter(t, tutor.MockLLM{})

	w := postJSON(t, r, "/api/process-tutorial", gin.H{"transcript_text": "too short"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "too short or invalid")
}

func TestProcessTutorialEndpointMissingInput(t *testing.T) {
	r := newTestRouter(t, tutor.MockLLM{})

	w := postJSON(t, r, "/api/process-tutorial", gin.H{"target_language": "english"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "youtube_url or transcript_text")
}

func TestProcessTutorialEndpointInvalidVideoURL(t *testing.T) {
	r := newTestRouter(t, tutor.MockLLM{})

	w := postJSON(t, r, "/api/process-tutorial", gin.H{"youtube_url": "https://vimeo.com/12345"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid YouTube URL format")
}

func TestChatEndpoint(t *testing.T) {
	llm := tutor.CompleteFunc(func(_ context.Context, _ tutor.Prompt) (string, error) {
		return "an answer about containers", nil
	})
	r := newTestRouter(t, llm)

	w := postJSON(t, r, "/api/chat", gin.H{
		"tutorial_data": gin.H{
			"summary":         gin.H{"title": "Docker Basics"},
			"target_language": "english",
		},
		"user_message": "what is a container?",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp tutor.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "an answer about containers", resp.Response)
	assert.Greater(t, resp.Timestamp, 0.0)
}

func TestChatEndpointEmptyMessage(t *testing.T) {
	r := newTestRouter(t, tutor.MockLLM{})

	w := postJSON(t, r, "/api/chat", gin.H{"tutorial_data": gin.H{}, "user_message": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEndpointModelFailure(t *testing.T) {
	llm := tutor.CompleteFunc(func(context.Context, tutor.Prompt) (string, error) {
		return "", assert.AnError
	})
	r := newTestRouter(t, llm)

	w := postJSON(t, r, "/api/chat", gin.H{"tutorial_data": gin.H{}, "user_message": "why?"})
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Chat processing failed")
}

func TestExportEndpoint(t *testing.T) {
	r := newTestRouter(t, tutor.MockLLM{})

	w := postJSON(t, r, "/api/export", gin.H{
		"tutorial_data": gin.H{
			"summary": gin.H{
				"title":            "Docker Basics",
				"detailed_summary": "• a\n• b",
				"difficulty_level": "Beginner",
			},
			"action_steps": []gin.H{
				{"step_number": 1, "title": "Install", "description": "Install the engine."},
			},
		},
		"export_format": "markdown",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=Docker_Basics.md", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "# Docker Basics")
}

func TestExportEndpointUnknownFormat(t *testing.T) {
	r := newTestRouter(t, tutor.MockLLM{})

	w := postJSON(t, r, "/api/export", gin.H{
		"tutorial_data": gin.H{},
		"export_format": "pdf",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported export format")
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, tutor.MockLLM{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["api_status"])
	assert.Equal(t, "healthy", body["model_status"])
}

func TestRootEndpoint(t *testing.T) {
	r := newTestRouter(t, tutor.MockLLM{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TutorMate API is running")
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, tutor.MockLLM{})

	req := httptest.NewRequest(http.MethodOptions, "/api/process-tutorial", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPropagates(t *testing.T) {
	r := newTestRouter(t, tutor.MockLLM{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
