package app

import (
	"context"
	"fmt"

	"github.com/shreyasggowda/career-nexus/internal/config"
	"github.com/shreyasggowda/career-nexus/internal/engine"
	"github.com/shreyasggowda/career-nexus/internal/httpapi"
	"github.com/shreyasggowda/career-nexus/internal/llm"
	"github.com/shreyasggowda/career-nexus/internal/memory"
	"github.com/shreyasggowda/career-nexus/internal/observability"
	"github.com/shreyasggowda/career-nexus/internal/store"
)

type BuildResult struct {
	Config   config.Config
	API      *httpapi.Server
	Sessions *memory.SessionStore
	Engine   *engine.Engine
	Metrics  *observability.Metrics

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("store init failed: %w", err)
	}

	model, err := llm.NewClient(llm.Config{
		Mode:    cfg.ModelProvider,
		BaseURL: cfg.OllamaBaseURL,
		Model:   cfg.ModelName,
	})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("model client init failed: %w", err)
	}

	sessions := memory.NewSessionStore(cfg.ChatHistoryLimit, cfg.SessionIdleTTL)
	sessions.SetEvictHook(func(_ string) {
		metrics.SessionEvents.WithLabelValues("evicted").Inc()
		metrics.ActiveBuffers.Set(float64(sessions.ActiveCount()))
	})

	eng := engine.New(st, sessions, model, metrics)
	api := httpapi.New(cfg, st, eng, metrics)

	return &BuildResult{
		Config:   cfg,
		API:      api,
		Sessions: sessions,
		Engine:   eng,
		Metrics:  metrics,
		Cleanup:  st.Close,
	}, nil
}
