package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/arcana-api/internal/api/shared"
	"github.com/phrazzld/arcana-api/internal/catalog"
	"github.com/phrazzld/arcana-api/internal/domain"
	"github.com/phrazzld/arcana-api/internal/platform/logger"
)

// CardListResponse represents the full card catalog.
type CardListResponse struct {
	Cards []*domain.Card `json:"cards"`
	Count int            `json:"count"`
}

// SpreadListResponse represents the available spreads.
type SpreadListResponse struct {
	Spreads []*domain.Spread `json:"spreads"`
	Count   int              `json:"count"`
}

// CatalogHandler handles card and spread catalog HTTP requests.
type CatalogHandler struct {
	cards   *catalog.CardCatalog
	spreads *catalog.SpreadCatalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(
	cards *catalog.CardCatalog,
	spreads *catalog.SpreadCatalog,
	logger *slog.Logger,
) *CatalogHandler {
	if cards == nil || spreads == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalogs cannot be nil for CatalogHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CatalogHandler")
	}

	return &CatalogHandler{
		cards:   cards,
		spreads: spreads,
		logger:  logger.With(slog.String("component", "catalog_handler")),
	}
}

// ListCards handles GET /cards requests.
func (h *CatalogHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards := h.cards.GetAllCards()
	shared.RespondWithJSON(w, r, http.StatusOK, CardListResponse{
		Cards: cards,
		Count: len(cards),
	})
}

// GetCard handles GET /cards/{id} requests.
func (h *CatalogHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID := chi.URLParam(r, "id")
	if cardID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Card ID is required")
		return
	}

	card, err := h.cards.GetCardByID(cardID)
	if err != nil {
		log.Debug("card lookup failed", slog.String("card_id", cardID))
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// ListSpreads handles GET /spreads requests.
func (h *CatalogHandler) ListSpreads(w http.ResponseWriter, r *http.Request) {
	spreads := h.spreads.ListSpreads()
	shared.RespondWithJSON(w, r, http.StatusOK, SpreadListResponse{
		Spreads: spreads,
		Count:   len(spreads),
	})
}

// GetSpread handles GET /spreads/{id} requests.
func (h *CatalogHandler) GetSpread(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	spreadID := chi.URLParam(r, "id")
	if spreadID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Spread ID is required")
		return
	}

	spread, err := h.spreads.GetSpread(spreadID)
	if err != nil {
		log.Debug("spread lookup failed", slog.String("spread_id", spreadID))
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, spread)
}
