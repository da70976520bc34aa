package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/certquiz/internal/logging"
	"github.com/gokatarajesh/certquiz/internal/quiz"
	httperrors "github.com/gokatarajesh/certquiz/pkg/http/errors"
)

// MaxBodyBytes caps a turn request body.
const MaxBodyBytes = 64 << 10

// Turner processes one quiz turn. *quiz.Engine satisfies it.
type Turner interface {
	ProcessTurn(ctx context.Context, req quiz.TurnRequest) (quiz.TurnResult, error)
}

// TurnHandler maps request bodies to engine calls and engine results to
// status codes. It is shared by the HTTP server and the Lambda adapter.
type TurnHandler struct {
	engine Turner
	logger zerolog.Logger
}

// NewTurnHandler constructs a TurnHandler.
func NewTurnHandler(engine Turner, logger zerolog.Logger) *TurnHandler {
	return &TurnHandler{
		engine: engine,
		logger: logger.With().Str("component", "turn_handler").Logger(),
	}
}

// HandleTurn decodes body, runs the turn and returns the status code with
// the value to encode as the response body. An empty body starts a new
// session with default state.
func (h *TurnHandler) HandleTurn(ctx context.Context, body []byte) (int, any) {
	logger := h.logger
	if scoped := logging.FromContext(ctx); scoped.GetLevel() != zerolog.Disabled {
		logger = scoped
	}

	var req quiz.TurnRequest
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &req); err != nil {
			logger.Debug().Err(err).Msg("undecodable turn body")
			return http.StatusBadRequest, httperrors.New(httperrors.ErrCodeInvalidRequest, "request body must be a JSON object describing the quiz state")
		}
	}

	res, err := h.engine.ProcessTurn(ctx, req)
	if err != nil {
		var stateErr *quiz.StateError
		switch {
		case errors.As(err, &stateErr):
			resp := httperrors.New(httperrors.ErrCodeValidationFailed, stateErr.Error())
			resp.Field = stateErr.Field
			return http.StatusBadRequest, resp
		case errors.Is(err, quiz.ErrModelUnavailable):
			logger.Error().Err(err).Msg("turn failed: model unavailable")
			return http.StatusInternalServerError, httperrors.New(httperrors.ErrCodeUpstreamError, "the question service is temporarily unavailable, please retry")
		default:
			logger.Error().Err(err).Msg("turn failed")
			return http.StatusInternalServerError, httperrors.New(httperrors.ErrCodeInternalError, "failed to process quiz turn")
		}
	}
	return http.StatusOK, res
}

// ServeHTTP handles POST turn requests.
func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperrors.RespondError(w, http.StatusRequestEntityTooLarge, httperrors.ErrCodeInvalidRequest, "request body too large")
			return
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "could not read request body")
		return
	}

	status, payload := h.HandleTurn(r.Context(), body)
	if resp, ok := payload.(httperrors.ErrorResponse); ok {
		httperrors.Write(w, status, resp)
		return
	}
	respondJSON(w, status, payload)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
