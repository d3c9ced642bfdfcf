package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutormate/export"
	"tutormate/transcript"
	"tutormate/tutor"
)

// HTTP surface for the processing core. Error policy: caller mistakes (bad
// URL, short transcript, unknown format) answer 400 with a reason; upstream
// unreliability never surfaces, because the Service degrades to fallbacks.

const processTimeout = 120 * time.Second

type Server struct {
	svc     *tutor.Service
	fetcher *transcript.Fetcher
	log     *zap.SugaredLogger
}

func New(svc *tutor.Service, fetcher *transcript.Fetcher, log *zap.SugaredLogger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("tutor service required")
	}
	if fetcher == nil {
		return nil, errors.New("transcript fetcher required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{svc: svc, fetcher: fetcher, log: log}, nil
}

// Router wires the API routes and middleware.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLog(s.log))
	r.Use(CORS(allowedOrigins))

	r.GET("/", s.handleRoot)

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/process-tutorial", s.handleProcessTutorial)
		api.POST("/chat", s.handleChat)
		api.POST("/export", s.handleExport)
	}
	return r
}

// --- Handlers ---

type processRequest struct {
	YouTubeURL     string `json:"youtube_url"`
	TranscriptText string `json:"transcript_text"`
	TargetLanguage string `json:"target_language"`
}

type chatRequest struct {
	// Tutorial data binds into the canonical schema at this boundary;
	// unknown or missing fields degrade to zero values instead of an
	// untyped map reaching the core.
	TutorialData tutor.ProcessedTutorial `json:"tutorial_data"`
	UserMessage  string                  `json:"user_message"`
	ChatHistory  []tutor.ChatMessage     `json:"chat_history"`
}

type exportRequest struct {
	TutorialData tutor.ProcessedTutorial `json:"tutorial_data"`
	ExportFormat string                  `json:"export_format"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "TutorMate API is running",
		"status":  "healthy",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	modelStatus := "healthy"
	if err := s.svc.Ping(ctx); err != nil {
		s.log.Warnw("model health probe failed", "error", err)
		modelStatus = "unhealthy"
	}
	c.JSON(http.StatusOK, gin.H{
		"api_status":   "healthy",
		"model_status": modelStatus,
		"timestamp":    float64(time.Now().UnixMilli()) / 1000.0,
	})
}

func (s *Server) handleProcessTutorial(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), processTimeout)
	defer cancel()

	text := req.TranscriptText
	switch {
	case req.YouTubeURL != "":
		if !transcript.IsVideoURL(req.YouTubeURL) {
			c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid YouTube URL format"})
			return
		}
		fetched, err := s.fetcher.Fetch(ctx, req.YouTubeURL)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
			return
		}
		text = fetched
	case req.TranscriptText != "":
		// pasted transcript used as-is
	default:
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "Either youtube_url or transcript_text must be provided"})
		return
	}

	if !tutor.ValidTranscript(text) {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "Transcript is too short or invalid"})
		return
	}

	processed, err := s.svc.ProcessTutorial(ctx, text, req.TargetLanguage)
	if err != nil {
		// only input-invalid errors escape the service
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}
	c.JSON(http.StatusOK, processed)
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	if req.UserMessage == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "user message is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	resp, err := s.svc.Chat(ctx, req.TutorialData, req.UserMessage, req.ChatHistory)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Detail: fmt.Sprintf("Chat processing failed: %v", err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleExport(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	rendering, err := export.Render(req.ExportFormat, req.TutorialData)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", rendering.Filename))
	c.Data(http.StatusOK, rendering.ContentType, rendering.Content)
}
