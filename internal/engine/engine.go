package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shreyasggowda/career-nexus/internal/llm"
	"github.com/shreyasggowda/career-nexus/internal/memory"
	"github.com/shreyasggowda/career-nexus/internal/observability"
	"github.com/shreyasggowda/career-nexus/internal/prompt"
	"github.com/shreyasggowda/career-nexus/internal/store"
)

// ErrProfileNotFound reports a chat request for a user who has not completed
// onboarding. It short-circuits the turn before any memory mutation or model
// call.
var ErrProfileNotFound = errors.New("no onboarded profile for user")

// ProfileStore is the subset of the relational store the engine needs.
type ProfileStore interface {
	Profile(ctx context.Context, userID string) (store.ProfileRecord, error)
	SaveOnboarding(ctx context.Context, profile store.ProfileRecord) error
}

// Engine orchestrates chat turns and one-shot onboarding analyses.
type Engine struct {
	profiles          ProfileStore
	sessions          *memory.SessionStore
	model             llm.Client
	metrics           *observability.Metrics
	systemInstruction string
}

func New(profiles ProfileStore, sessions *memory.SessionStore, model llm.Client, metrics *observability.Metrics) *Engine {
	return &Engine{
		profiles:          profiles,
		sessions:          sessions,
		model:             model,
		metrics:           metrics,
		systemInstruction: prompt.SystemInstruction,
	}
}

// HandleChatTurn runs one grounded chat turn for a user and returns the
// assistant reply.
func (e *Engine) HandleChatTurn(ctx context.Context, userID, message string) (string, error) {
	return e.handleChatTurn(ctx, userID, message, nil)
}

// HandleChatTurnStream is HandleChatTurn with reply fragments delivered to
// onDelta as the model produces them.
func (e *Engine) HandleChatTurnStream(ctx context.Context, userID, message string, onDelta llm.DeltaHandler) (string, error) {
	return e.handleChatTurn(ctx, userID, message, onDelta)
}

func (e *Engine) handleChatTurn(ctx context.Context, userID, message string, onDelta llm.DeltaHandler) (string, error) {
	turnStart := time.Now()

	// Fetch the profile first: a user without one must fail before the
	// user message is remembered or the model is billed.
	fetchStart := time.Now()
	profile, err := e.profiles.Profile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		e.countTurn("profile_not_found")
		return "", fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	if err != nil {
		e.countTurn("store_error")
		return "", fmt.Errorf("fetch profile: %w", err)
	}
	e.observeStage("profile_fetch", time.Since(fetchStart))

	profileText, err := prompt.FormatProfile(&profile)
	if err != nil {
		e.countTurn("profile_not_found")
		return "", err
	}

	// The user's message is a real utterance: it stays in memory even if the
	// model call below fails, so a retried turn resends the full context.
	e.sessions.Append(userID, memory.Turn{Role: memory.RoleUser, Content: message})
	e.setBufferGauge()

	history := e.sessions.Snapshot(userID)
	msgs := prompt.Compose(e.systemInstruction, profileText, history)

	// No per-user lock is held here; appends are individually atomic.
	modelStart := time.Now()
	reply, err := e.model.ChatComplete(ctx, toModelMessages(msgs), onDelta)
	modelElapsed := time.Since(modelStart)
	e.observeStage("model_call", modelElapsed)
	if e.metrics != nil {
		e.metrics.ObserveModelLatency(modelElapsed)
	}
	if err != nil {
		e.countTurn(outcomeOf(err))
		log.Warn().Err(err).Str("user_id", userID).Msg("model call failed, user turn kept in memory")
		return "", err
	}

	e.sessions.Append(userID, memory.Turn{Role: memory.RoleAssistant, Content: reply})
	e.observeStage("turn_total", time.Since(turnStart))
	e.countTurn("ok")
	return reply, nil
}

// RunOnboardingAnalysis performs the one-shot career analysis for onboarding
// answers. It never reads or mutates conversation memory.
func (e *Engine) RunOnboardingAnalysis(ctx context.Context, answers store.ProfileRecord) (string, error) {
	msgs := []llm.Message{{
		Role:    string(memory.RoleUser),
		Content: prompt.AnalysisPrompt(answers),
	}}

	start := time.Now()
	analysis, err := e.model.ChatComplete(ctx, msgs, nil)
	if e.metrics != nil {
		e.metrics.ObserveModelLatency(time.Since(start))
	}
	if err != nil {
		e.countAnalysis(outcomeOf(err))
		return "", err
	}
	e.countAnalysis("ok")
	return analysis, nil
}

// CompleteOnboarding generates the analysis first and only then asks the
// store to persist profile, analysis and onboarded flag in one transaction.
func (e *Engine) CompleteOnboarding(ctx context.Context, answers store.ProfileRecord) (string, error) {
	analysis, err := e.RunOnboardingAnalysis(ctx, answers)
	if err != nil {
		return "", err
	}

	answers.Analysis = analysis
	if err := e.profiles.SaveOnboarding(ctx, answers); err != nil {
		return "", fmt.Errorf("persist onboarding: %w", err)
	}
	log.Info().Str("user_id", answers.UserID).Msg("onboarding completed")
	return analysis, nil
}

func toModelMessages(turns []memory.Turn) []llm.Message {
	msgs := make([]llm.Message, len(turns))
	for i, t := range turns {
		msgs[i] = llm.Message{Role: string(t.Role), Content: t.Content}
	}
	return msgs
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, llm.ErrUnavailable):
		return "model_unavailable"
	case errors.Is(err, llm.ErrBadResponse):
		return "model_bad_response"
	default:
		return "error"
	}
}

func (e *Engine) countTurn(outcome string) {
	if e.metrics != nil {
		e.metrics.ChatTurns.WithLabelValues(outcome).Inc()
	}
}

func (e *Engine) countAnalysis(outcome string) {
	if e.metrics != nil {
		e.metrics.OnboardingAnalyses.WithLabelValues(outcome).Inc()
	}
}

func (e *Engine) observeStage(stage string, d time.Duration) {
	if e.metrics != nil {
		e.metrics.ObserveStage(stage, d)
	}
}

func (e *Engine) setBufferGauge() {
	if e.metrics != nil {
		e.metrics.ActiveBuffers.Set(float64(e.sessions.ActiveCount()))
	}
}
