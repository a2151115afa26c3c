package api

import (
	"time"

	"github.com/phrazzld/arcana-api/internal/domain"
	"github.com/phrazzld/arcana-api/internal/service"
)

// Common request/response structures

// CreateReadingRequest defines the payload for starting a reading session.
type CreateReadingRequest struct {
	UserID   string `json:"user_id"  validate:"required,uuid"`
	SpreadID string `json:"spread_id" validate:"required"`
	Question string `json:"question"  validate:"max=500"`
}

// SelectCardRequest defines the payload for selecting a card from the table.
type SelectCardRequest struct {
	CardID string `json:"card_id" validate:"required"`
}

// ReadingResponse represents a reading session, active or saved.
type ReadingResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	SpreadID string `json:"spread_id"`
	Question string `json:"question,omitempty"`
	State    string `json:"state"`

	// TableCards lists the selectable candidate card IDs in table order.
	// Empty for saved readings, whose table is long gone.
	TableCards []string `json:"table_cards,omitempty"`

	PlacedCards    []domain.PlacedCard    `json:"placed_cards"`
	Interpretation *domain.Interpretation `json:"interpretation,omitempty"`
	LastError      string                 `json:"last_error,omitempty"`
	SaveError      string                 `json:"save_error,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// HistoryResponse represents one page of a user's saved readings.
type HistoryResponse struct {
	Readings []ReadingResponse `json:"readings"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// snapshotToResponse transforms an active session snapshot into the
// response shape.
func snapshotToResponse(snap *service.SessionSnapshot) ReadingResponse {
	resp := readingToResponse(&snap.Reading)
	resp.TableCards = snap.TableCards
	return resp
}

// readingToResponse transforms a domain reading into the response shape.
func readingToResponse(reading *domain.ReadingSession) ReadingResponse {
	return ReadingResponse{
		ID:             reading.ID.String(),
		UserID:         reading.UserID.String(),
		SpreadID:       reading.Spread.ID,
		Question:       reading.Question,
		State:          string(reading.State),
		PlacedCards:    reading.PlacedCards,
		Interpretation: reading.Interpretation,
		LastError:      reading.LastError,
		SaveError:      reading.SaveError,
		CreatedAt:      reading.CreatedAt,
		UpdatedAt:      reading.UpdatedAt,
	}
}
