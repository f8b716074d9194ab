package leankit

import (
	"context"
	"fmt"
	"log/slog"

	bc "github.com/egobogo/boardsync/internal/board"
)

// Board is a LeanKit board snapshot taken when it was loaded.
type Board struct {
	ID   string
	Info *BoardInfo

	client          *Client
	log             *slog.Logger
	defaultDropLane string
	cardTypes       map[string]string

	cards       []Card
	externalIDs map[string]Card
	// tasks holds completed task board cards seen by DoneTaskboardCards.
	tasks map[string]Card
}

// LoadBoard fetches the board and all its cards.
// cardTypes maps a card type to a LeanKit card type name or id.
func LoadBoard(ctx context.Context, client *Client, boardID, defaultDropLane string, cardTypes map[string]string, log *slog.Logger) (*Board, error) {
	info, err := client.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	cards, err := client.ListCards(ctx, boardID)
	if err != nil {
		return nil, err
	}
	b := &Board{
		ID:              boardID,
		Info:            info,
		client:          client,
		log:             log,
		defaultDropLane: defaultDropLane,
		cardTypes:       cardTypes,
		cards:           cards,
		externalIDs:     map[string]Card{},
		tasks:           map[string]Card{},
	}
	for _, c := range cards {
		if c.CustomID.Value != "" {
			b.externalIDs[c.CustomID.Value] = c
		}
	}
	return b, nil
}

// lane resolves a lane by id or name.
func (b *Board) lane(ref string) (Lane, error) {
	for _, l := range b.Info.Lanes {
		if l.ID == ref {
			return l, nil
		}
	}
	for _, l := range b.Info.Lanes {
		if l.Name == ref {
			return l, nil
		}
	}
	return Lane{}, fmt.Errorf("leankit lane %q: %w", ref, bc.ErrUnknownLane)
}

// CardsWithExternalIDs returns the external ids of cards sitting in the given lanes.
func (b *Board) CardsWithExternalIDs(lanes []string) ([]string, error) {
	wanted := map[string]bool{}
	for _, ref := range lanes {
		l, err := b.lane(ref)
		if err != nil {
			return nil, err
		}
		wanted[l.ID] = true
	}
	var ids []string
	for _, c := range b.cards {
		if wanted[c.Lane.ID] && c.CustomID.Value != "" {
			ids = append(ids, c.CustomID.Value)
		}
	}
	return ids, nil
}

// DoneTaskboardCards returns the external ids of completed tasks on the cards' task boards.
func (b *Board) DoneTaskboardCards(ctx context.Context) ([]string, error) {
	var ids []string
	for _, c := range b.cards {
		if c.TaskBoardStats == nil || c.TaskBoardStats.TotalCount == 0 {
			continue
		}
		tasks, err := b.client.ListTasks(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			if task.Lane.LaneType == LaneTypeCompleted && task.CustomID.Value != "" {
				ids = append(ids, task.CustomID.Value)
				b.tasks[task.CustomID.Value] = task
			}
		}
	}
	return ids, nil
}

// HasExternalID reports whether any card on the board carries id.
func (b *Board) HasExternalID(id string) bool {
	_, ok := b.externalIDs[id]
	return ok
}

// Card returns the card or completed task board card carrying the external id.
// Task board cards are known only after DoneTaskboardCards.
func (b *Board) Card(id string) (Card, bool) {
	if c, ok := b.externalIDs[id]; ok {
		return c, true
	}
	c, ok := b.tasks[id]
	return c, ok
}

func (b *Board) typeID(cardType string) (string, bool) {
	ref, ok := b.cardTypes[cardType]
	if !ok {
		ref = cardType
	}
	for _, t := range b.Info.CardTypes {
		if t.ID == ref || t.Name == ref {
			return t.ID, true
		}
	}
	return "", false
}

func (b *Board) dropLane() (Lane, error) {
	if b.defaultDropLane != "" {
		return b.lane(b.defaultDropLane)
	}
	for _, l := range b.Info.Lanes {
		if l.LaneType == LaneTypeReady {
			return l, nil
		}
	}
	return Lane{}, fmt.Errorf("leankit default_drop_lane: %w", bc.ErrUnknownLane)
}

// AddCards creates the cards in the default drop lane.
func (b *Board) AddCards(ctx context.Context, cards []bc.Card) (bc.AddResult, error) {
	var result bc.AddResult
	lane, err := b.dropLane()
	if err != nil {
		return result, err
	}
	for _, card := range cards {
		req := CreateCardRequest{
			BoardID:     b.ID,
			LaneID:      lane.ID,
			Title:       card.Name,
			CustomID:    card.Identifier,
			Description: card.Note,
		}
		if id, ok := b.typeID(card.Type); ok {
			req.TypeID = id
		} else {
			b.log.Debug("Can't find card type configured in LeanKit", "type", card.Type)
		}
		created, err := b.client.CreateCard(ctx, req)
		if err != nil {
			return result, err
		}
		b.log.Debug("Created card", "name", card.Name, "identifier", card.Identifier, "lane", lane.Name)

		stored := *created
		stored.CustomID.Value = card.Identifier
		b.cards = append(b.cards, stored)
		b.externalIDs[card.Identifier] = stored
		result.Created = append(result.Created, bc.CreatedCard{ID: created.ID, Identifier: card.Identifier})
	}
	return result, nil
}
