package httpapi

import (
	"net/http"
	"strings"

	"github.com/shreyasggowda/career-nexus/internal/store"
)

type onboardingRequest struct {
	UserID        string `json:"user_id"`
	FullName      string `json:"full_name"`
	Age           int    `json:"age"`
	Education     string `json:"education"`
	CurrentRole   string `json:"current_role"`
	Experience    int    `json:"experience"`
	Interests     string `json:"interests"`
	DreamGoal     string `json:"dream_goal"`
	HardSkills    string `json:"hard_skills"`
	SoftSkills    string `json:"soft_skills"`
	MissingSkill  string `json:"missing_skill"`
	ProbSolving   string `json:"prob_solving"`
	TeamRole      string `json:"team_role"`
	Environment   string `json:"environment"`
	LearningStyle string `json:"learning_style"`
}

type onboardingResponse struct {
	UserID   string `json:"user_id"`
	Analysis string `json:"analysis"`
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "full_name is required")
		return
	}

	analysis, err := s.engine.CompleteOnboarding(r.Context(), store.ProfileRecord{
		UserID:        req.UserID,
		FullName:      req.FullName,
		Age:           req.Age,
		Education:     req.Education,
		CurrentRole:   req.CurrentRole,
		Experience:    req.Experience,
		Interests:     req.Interests,
		DreamGoal:     req.DreamGoal,
		HardSkills:    req.HardSkills,
		SoftSkills:    req.SoftSkills,
		MissingSkill:  req.MissingSkill,
		ProbSolving:   req.ProbSolving,
		TeamRole:      req.TeamRole,
		Environment:   req.Environment,
		LearningStyle: req.LearningStyle,
	})
	if err != nil {
		respondTurnError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, onboardingResponse{
		UserID:   req.UserID,
		Analysis: analysis,
	})
}
