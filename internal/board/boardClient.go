package board

import (
	"context"
	"errors"
	"fmt"
)

// NoExternalID marks a card that carries no external identifier.
const NoExternalID = ""

var (
	ErrUnknownList   = errors.New("list not found on board")
	ErrUnknownLane   = errors.New("lane not found on board")
	ErrUnknownColumn = errors.New("column not found on board")
)

// Card is a work item as it travels between boards.
type Card struct {
	Name       string `yaml:"name" json:"name"`
	Identifier string `yaml:"identifier" json:"identifier"`
	Type       string `yaml:"type" json:"type"`
	// Note is the card description. Empty means none.
	Note string `yaml:"note,omitempty" json:"note,omitempty"`
}

// CreatedCard pairs the id assigned by the remote service with the external identifier.
type CreatedCard struct {
	ID         string
	Identifier string
}

// AddResult reports the cards created by AddCards.
type AddResult struct {
	Created []CreatedCard
}

// Adapter normalizes one kanban service to the operations a sync needs.
type Adapter interface {
	// FindCompletedCardIDs returns the external identifiers of completed cards.
	// Duplicates are possible and are returned as-is.
	FindCompletedCardIDs(ctx context.Context) ([]string, error)
	// CardExists reports whether a card with the identifier is known to the board.
	CardExists(identifier string) bool
	// AddCards creates the given cards on the board's default list/lane.
	AddCards(ctx context.Context, cards []Card) (AddResult, error)
}

// CardLookup is implemented by adapters that can return the full card for an identifier.
type CardLookup interface {
	LookupCard(identifier string) (Card, bool)
}

// APIError is returned when a remote service answers with a non-2xx status.
type APIError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API request failed with status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Clearer is implemented by adapters that can delete every card on their board.
type Clearer interface {
	ClearBoard(ctx context.Context) error
}
