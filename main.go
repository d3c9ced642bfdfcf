package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"tutormate/config"
	"tutormate/export"
	"tutormate/server"
	"tutormate/transcript"
	"tutormate/tutor"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config.yaml")
	serve := flag.Bool("serve", false, "start web server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	transcriptPath := flag.String("transcript", "", "path to a transcript text file (CLI mode)")
	format := flag.String("format", export.FormatMarkdown, "export format for CLI mode: markdown, json, checklist, html")
	lang := flag.String("lang", tutor.LanguageEnglish, "target language")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	llm, err := buildLLM(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	svc, err := tutor.NewService(llm, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Web server mode
	if *serve {
		fetcher := transcript.NewFetcher(nil, log)
		srv, err := server.New(svc, fetcher, log)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		log.Infow("starting web server", "addr", listen, "provider", cfg.LLM.Provider)
		if err := srv.Router(cfg.AllowedOrigins).Run(listen); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// CLI mode: process one transcript file and print the export
	if *transcriptPath == "" {
		fmt.Fprintln(os.Stderr, "--transcript is required (or use --serve)")
		os.Exit(1)
	}
	raw, err := os.ReadFile(*transcriptPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	processed, err := svc.ProcessTutorial(context.Background(), transcript.Clean(string(raw)), *lang)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rendering, err := export.Render(*format, processed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(rendering.Content))
}

func newLogger(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func buildLLM(cfg config.Config) (tutor.LLMClient, error) {
	switch cfg.LLM.Provider {
	case "openai":
		return tutor.NewOpenAILLM(&tutor.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.ResolvedAPIKey(),
			BaseURL:  cfg.LLM.BaseURL,
		})
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible API; base_url is required.
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return tutor.NewOpenAILLM(&tutor.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.ResolvedAPIKey(),
			BaseURL:  cfg.LLM.BaseURL,
		})
	case "mock", "":
		return tutor.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
