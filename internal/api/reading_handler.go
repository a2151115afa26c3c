// Package api provides HTTP handlers for the API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/arcana-api/internal/api/shared"
	"github.com/phrazzld/arcana-api/internal/platform/logger"
	"github.com/phrazzld/arcana-api/internal/redact"
	"github.com/phrazzld/arcana-api/internal/service"
)

// History pagination bounds
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ReadingHandler handles reading-session HTTP requests.
type ReadingHandler struct {
	readingService service.ReadingService
	logger         *slog.Logger
}

// NewReadingHandler creates a new ReadingHandler.
func NewReadingHandler(readingService service.ReadingService, logger *slog.Logger) *ReadingHandler {
	if readingService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("readingService cannot be nil for ReadingHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReadingHandler")
	}

	return &ReadingHandler{
		readingService: readingService,
		logger:         logger.With(slog.String("component", "reading_handler")),
	}
}

// CreateReading handles POST /readings requests.
// It starts a new session for the requested spread; the deck is shuffled
// on entry and the session waits in shuffling for the deal signal.
func (h *ReadingHandler) CreateReading(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateReadingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	// Format guaranteed by the uuid validation tag.
	userID := uuid.MustParse(req.UserID)

	snap, err := h.readingService.StartReading(r.Context(), userID, req.SpreadID, req.Question)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("reading session created",
		slog.String("session_id", snap.Reading.ID.String()),
		slog.String("spread_id", req.SpreadID))
	shared.RespondWithJSON(w, r, http.StatusCreated, snapshotToResponse(snap))
}

// Deal handles POST /readings/{id}/deal requests.
// It settles the shuffle and lays the table face down.
func (h *ReadingHandler) Deal(w http.ResponseWriter, r *http.Request) {
	h.sessionEvent(w, r, "deal", h.readingService.Deal)
}

// SelectCard handles POST /readings/{id}/cards requests.
// It draws the chosen card from the table into the next spread position.
func (h *ReadingHandler) SelectCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := h.sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req SelectCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("session_id", sessionID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	snap, err := h.readingService.SelectCard(r.Context(), sessionID, req.CardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card selected",
		slog.String("session_id", sessionID.String()),
		slog.String("card_id", req.CardID),
		slog.String("state", string(snap.Reading.State)))
	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(snap))
}

// Retry handles POST /readings/{id}/retry requests.
// It re-runs interpretation for a session in the error state.
func (h *ReadingHandler) Retry(w http.ResponseWriter, r *http.Request) {
	h.sessionEvent(w, r, "retry", h.readingService.Retry)
}

// Reset handles POST /readings/{id}/reset requests.
// Reset is legal from every state and returns the session to idle.
func (h *ReadingHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.sessionEvent(w, r, "reset", h.readingService.Reset)
}

// Abort handles DELETE /readings/{id} requests.
// It cancels a session mid-flow.
func (h *ReadingHandler) Abort(w http.ResponseWriter, r *http.Request) {
	h.sessionEvent(w, r, "abort", h.readingService.Abort)
}

// SaveReading handles POST /readings/{id}/save requests.
// It re-attempts persistence for a completed reading whose automatic save
// failed.
func (h *ReadingHandler) SaveReading(w http.ResponseWriter, r *http.Request) {
	h.sessionEvent(w, r, "save", h.readingService.RetrySave)
}

// GetReading handles GET /readings/{id} requests.
// Active sessions take precedence over saved readings with the same ID.
func (h *ReadingHandler) GetReading(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromPath(w, r)
	if !ok {
		return
	}

	snap, err := h.readingService.GetSession(r.Context(), sessionID)
	if err == nil {
		shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(snap))
		return
	}
	if !errors.Is(err, service.ErrSessionNotFound) {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	reading, err := h.readingService.GetReading(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, readingToResponse(reading))
}

// GetHistory handles GET /readings?user_id=&page=&limit= requests.
// It returns the user's saved readings, newest first.
func (h *ReadingHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	rawUserID := r.URL.Query().Get("user_id")
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		log.Warn("invalid user ID in history query", slog.String("user_id", rawUserID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid or missing user_id")
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", defaultHistoryLimit)
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	readings, err := h.readingService.FetchHistory(r.Context(), userID, page, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	resp := HistoryResponse{
		Readings: make([]ReadingResponse, 0, len(readings)),
		Page:     page,
		Limit:    limit,
	}
	for _, reading := range readings {
		resp.Readings = append(resp.Readings, readingToResponse(reading))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// sessionEvent runs a body-less session operation identified by the URL
// path and responds with the post-event snapshot.
func (h *ReadingHandler) sessionEvent(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	op func(ctx context.Context, sessionID uuid.UUID) (*service.SessionSnapshot, error),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := h.sessionIDFromPath(w, r)
	if !ok {
		return
	}

	snap, err := op(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("session event applied",
		slog.String("event", name),
		slog.String("session_id", sessionID.String()),
		slog.String("state", string(snap.Reading.State)))
	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(snap))
}

// sessionIDFromPath extracts and parses the session ID from the URL path,
// writing the error response itself on failure.
func (h *ReadingHandler) sessionIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	raw := chi.URLParam(r, "id")
	if raw == "" {
		log.Warn("session ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Session ID is required")
		return uuid.Nil, false
	}

	sessionID, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("invalid session ID format", slog.String("session_id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID format")
		return uuid.Nil, false
	}

	return sessionID, true
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
