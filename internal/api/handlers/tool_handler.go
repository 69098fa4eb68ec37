package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/zatekoja/homeflow/internal/application/tools"
	"github.com/zatekoja/homeflow/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/homeflow/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// maxArgsBytes bounds a tool call body
const maxArgsBytes = 1 << 20

// ToolHandler serves the tool catalogue, tool calls and the widget resource
type ToolHandler struct {
	registry *tools.Registry
	metrics  *observability.Metrics
}

// NewToolHandler creates a new tool handler
func NewToolHandler(registry *tools.Registry, metrics *observability.Metrics) *ToolHandler {
	return &ToolHandler{
		registry: registry,
		metrics:  metrics,
	}
}

// ListTools handles GET /api/tools
func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"tools": h.registry.Definitions(),
	})
}

// CallTool handles POST /api/tools/{name}. The body is the argument object.
func (h *ToolHandler) CallTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	ctx, span := observability.StartSpan(r.Context(), "tool."+name)
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("homeflow.tool", name))
	logger := observability.ToolLogger(ctx, name)

	start := time.Now()
	outcome := "ok"
	defer func() {
		observability.SetSpanAttributes(span, attribute.String("homeflow.outcome", outcome))
		observability.RecordToolMetric(ctx, h.metrics, name, outcome, time.Since(start))
	}()

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxArgsBytes))
	if err != nil {
		outcome = string(apperrors.ErrorTypeValidation)
		respondWithError(w, http.StatusRequestEntityTooLarge, "Request body is too large.")
		return
	}

	args, err := tools.ParseArgs(raw)
	if err != nil {
		outcome = string(apperrors.TypeOf(err))
		observability.RecordError(span, err)
		respondWithAppError(w, err)
		return
	}

	result, err := h.registry.Call(ctx, name, args)
	if err != nil {
		outcome = string(apperrors.TypeOf(err))
		observability.RecordError(span, err)
		if outcome == string(apperrors.ErrorTypeInternal) {
			logger.Error().Err(err).Msg("Tool call failed")
		}
		respondWithAppError(w, err)
		return
	}

	observability.SetSpanAttributes(span, attribute.String("homeflow.view", string(result.Config.View)))
	respondWithJSON(w, http.StatusOK, result)
}

// GetHomeResource handles GET /api/resources/homeflow
func (h *ToolHandler) GetHomeResource(w http.ResponseWriter, r *http.Request) {
	ctx, span := observability.StartSpan(r.Context(), "resource.homeflow")
	defer span.End()

	resource, err := h.registry.HomeResource(ctx)
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Error().Err(err).Msg("Failed to render home resource")
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"contents": []any{resource},
	})
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithAppError(w http.ResponseWriter, err error) {
	respondWithError(w, statusFor(err), apperrors.Message(err))
}

// statusFor maps an error type to its HTTP status
func statusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
