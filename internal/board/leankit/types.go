// Package leankit adapts a LeanKit board to the board.Adapter contract.
package leankit

// Lane types reported by LeanKit.
const (
	LaneTypeReady     = "ready"
	LaneTypeInProcess = "inProcess"
	LaneTypeCompleted = "completed"
)

// BoardInfo is the response of GET /io/board/{id}.
type BoardInfo struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Lanes     []Lane     `json:"lanes"`
	CardTypes []CardType `json:"cardTypes"`
}

type Lane struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LaneType string `json:"laneType"`
}

type CardType struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsTaskType bool   `json:"isTaskType"`
}

// CustomID holds the external identifier LeanKit shows in the card header.
type CustomID struct {
	Value string `json:"value"`
}

type TaskBoardStats struct {
	TotalCount     int `json:"totalCount"`
	CompletedCount int `json:"completedCount"`
}

// Card is a LeanKit card or task card.
type Card struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	CustomID       CustomID        `json:"customId"`
	Lane           Lane            `json:"lane"`
	Type           CardType        `json:"type"`
	TaskBoardStats *TaskBoardStats `json:"taskBoardStats,omitempty"`
}

// PageMeta describes one page of a card listing.
type PageMeta struct {
	TotalRecords int `json:"totalRecords"`
	Offset       int `json:"offset"`
	Limit        int `json:"limit"`
}

type cardList struct {
	PageMeta PageMeta `json:"pageMeta"`
	Cards    []Card   `json:"cards"`
}

// CreateCardRequest is the body of POST /io/card.
type CreateCardRequest struct {
	BoardID     string `json:"boardId"`
	LaneID      string `json:"laneId"`
	Title       string `json:"title"`
	TypeID      string `json:"typeId,omitempty"`
	CustomID    string `json:"customId,omitempty"`
	Description string `json:"description,omitempty"`
}
