package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/certquiz/internal/config"
	"github.com/gokatarajesh/certquiz/internal/logging"
	httperrors "github.com/gokatarajesh/certquiz/pkg/http/errors"
)

// LambdaHandler serves quiz turns behind API Gateway proxy integration.
type LambdaHandler struct {
	turns   *TurnHandler
	headers map[string]string
	logger  zerolog.Logger
}

// NewLambdaHandler builds the adapter. Every response carries the CORS
// headers derived from cfg.
func NewLambdaHandler(turns *TurnHandler, cfg config.CORS, logger zerolog.Logger) *LambdaHandler {
	origin := "*"
	if len(cfg.AllowedOrigins) > 0 {
		origin = cfg.AllowedOrigins[0]
	}
	headers := map[string]string{
		"Access-Control-Allow-Origin":  origin,
		"Access-Control-Allow-Headers": strings.Join(cfg.AllowedHeaders, ","),
		"Access-Control-Allow-Methods": strings.Join(cfg.AllowedMethods, ","),
		"Access-Control-Max-Age":       strconv.Itoa(cfg.MaxAge),
		"Content-Type":                 "application/json",
	}
	if cfg.AllowCredentials {
		headers["Access-Control-Allow-Credentials"] = "true"
	}

	return &LambdaHandler{
		turns:   turns,
		headers: headers,
		logger:  logger.With().Str("component", "lambda").Logger(),
	}
}

// Handle is the lambda.Start entry point.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := h.logger.With().
		Str("request_id", req.RequestContext.RequestID).
		Str("method", req.HTTPMethod).
		Logger()
	ctx = logging.IntoContext(ctx, logger)

	switch req.HTTPMethod {
	case http.MethodOptions:
		return h.respond(http.StatusOK, map[string]string{"message": "CORS preflight response"}), nil
	case http.MethodPost:
	default:
		return h.respond(http.StatusMethodNotAllowed, httperrors.New(httperrors.ErrCodeMethodNotAllowed, "Method not allowed")), nil
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return h.respond(http.StatusBadRequest, httperrors.New(httperrors.ErrCodeInvalidRequest, "body is not valid base64")), nil
		}
		body = decoded
	}
	if len(body) > MaxBodyBytes {
		return h.respond(http.StatusRequestEntityTooLarge, httperrors.New(httperrors.ErrCodeInvalidRequest, "request body too large")), nil
	}

	status, payload := h.turns.HandleTurn(ctx, body)
	logger.Info().Int("status", status).Msg("lambda request")
	return h.respond(status, payload), nil
}

func (h *LambdaHandler) respond(status int, v any) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(h.headers))
	for k, val := range h.headers {
		headers[k] = val
	}

	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error().Err(err).Msg("encode lambda response")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(httperrors.New(httperrors.ErrCodeInternalError, "failed to encode response"))
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(body),
	}
}
