package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/shreyasggowda/career-nexus/internal/engine"
	"github.com/shreyasggowda/career-nexus/internal/llm"
	"github.com/shreyasggowda/career-nexus/internal/prompt"
	"github.com/shreyasggowda/career-nexus/internal/protocol"
	"github.com/shreyasggowda/career-nexus/internal/store"
)

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "user_id and message are required")
		return
	}

	reply, err := s.engine.HandleChatTurn(r.Context(), req.UserID, req.Message)
	if err != nil {
		respondTurnError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "query parameter user_id is required")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
	defer s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		return nil
	})

	// Turns are processed one at a time per connection, which keeps all
	// websocket writes on this goroutine.
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.writeWS(conn, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				Code:      "invalid_client_message",
				Retryable: false,
				Detail:    err.Error(),
			})
			continue
		}
		chat, ok := parsed.(protocol.ChatMessage)
		if !ok {
			continue
		}

		turnID := uuid.NewString()
		reply, err := s.engine.HandleChatTurnStream(r.Context(), userID, chat.Text, func(delta string) error {
			return s.writeWS(conn, protocol.AssistantTextDelta{
				Type:      protocol.TypeAssistantTextDelta,
				TurnID:    turnID,
				TextDelta: delta,
			})
		})
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("websocket chat turn failed")
			s.writeWS(conn, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				TurnID:    turnID,
				Code:      wsErrorCode(err),
				Retryable: errors.Is(err, llm.ErrUnavailable),
				Detail:    err.Error(),
			})
			continue
		}

		s.writeWS(conn, protocol.AssistantTurnEnd{
			Type:   protocol.TypeAssistantTurnEnd,
			TurnID: turnID,
			Text:   reply,
		})
	}
}

func (s *Server) writeWS(conn *websocket.Conn, msg any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(msg)
}

func wsErrorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrProfileNotFound), errors.Is(err, prompt.ErrMissingProfile):
		return "profile_not_found"
	case errors.Is(err, llm.ErrUnavailable):
		return "model_unavailable"
	case errors.Is(err, llm.ErrBadResponse):
		return "model_bad_response"
	case errors.Is(err, store.ErrNotFound):
		return "user_not_found"
	default:
		return "internal_error"
	}
}
