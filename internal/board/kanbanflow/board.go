package kanbanflow

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	bc "github.com/egobogo/boardsync/internal/board"
)

// LabelPrefix marks the task label that stores a task's external identifier.
const LabelPrefix = "external_id="

// Board tracks the tasks of a KanbanFlow board as of the last Refresh.
type Board struct {
	client           *Client
	log              *slog.Logger
	defaultDropLane  string
	types            map[string]string
	completedColumns []string

	info           *BoardInfo
	completedTasks []string
	allTasks       map[string]Task
}

// NewBoard prepares a board. types maps a card type to a task colour.
// Lanes may be given as column names or unique ids.
func NewBoard(client *Client, defaultDropLane string, types map[string]string, completedColumns []string, log *slog.Logger) *Board {
	return &Board{
		client:           client,
		log:              log,
		defaultDropLane:  defaultDropLane,
		types:            types,
		completedColumns: completedColumns,
		allTasks:         map[string]Task{},
	}
}

// ExternalID returns the identifier stored in the task's labels.
func ExternalID(t Task) string {
	for _, l := range t.Labels {
		if strings.HasPrefix(l.Name, LabelPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(l.Name, LabelPrefix))
		}
	}
	return bc.NoExternalID
}

func (b *Board) column(ref string) (Column, error) {
	for _, c := range b.info.Columns {
		if c.UniqueID == ref {
			return c, nil
		}
	}
	for _, c := range b.info.Columns {
		if c.Name == ref {
			return c, nil
		}
	}
	return Column{}, fmt.Errorf("kanbanflow column %q: %w", ref, bc.ErrUnknownColumn)
}

// Refresh reloads the board structure and every task.
func (b *Board) Refresh(ctx context.Context) error {
	info, err := b.client.GetBoard(ctx)
	if err != nil {
		return err
	}
	b.info = info

	completed := map[string]bool{}
	for _, ref := range b.completedColumns {
		col, err := b.column(ref)
		if err != nil {
			return err
		}
		completed[col.UniqueID] = true
	}

	all := map[string]Task{}
	var done []string
	for _, col := range info.Columns {
		tasks, err := b.client.ColumnTasks(ctx, col.UniqueID)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			id := ExternalID(t)
			if id == bc.NoExternalID {
				continue
			}
			all[id] = t
			if completed[col.UniqueID] {
				done = append(done, id)
			}
		}
	}
	b.allTasks = all
	b.completedTasks = done
	b.log.Debug("Refreshed KanbanFlow board", "tasks", len(all), "completed", len(done))
	return nil
}

// CompletedTasks returns the ids of tasks in completed columns.
func (b *Board) CompletedTasks() []string {
	out := make([]string, len(b.completedTasks))
	copy(out, b.completedTasks)
	return out
}

// HasTask reports whether a task with the external id is on the board.
func (b *Board) HasTask(id string) bool {
	_, ok := b.allTasks[id]
	return ok
}

// Task returns the task carrying the external id.
func (b *Board) Task(id string) (Task, bool) {
	t, ok := b.allTasks[id]
	return t, ok
}

// typeForColor returns the first card type, in name order, mapped to color.
func (b *Board) typeForColor(color string) string {
	if color == "" {
		return ""
	}
	for _, typ := range slices.Sorted(maps.Keys(b.types)) {
		if b.types[typ] == color {
			return typ
		}
	}
	return ""
}

// APIRequests returns the number of requests made by this board's client.
func (b *Board) APIRequests() int64 {
	return b.client.Requests()
}

// CreateTasks creates the cards as tasks in the default drop column.
func (b *Board) CreateTasks(ctx context.Context, cards []bc.Card) (bc.AddResult, error) {
	var result bc.AddResult
	if b.info == nil {
		if err := b.Refresh(ctx); err != nil {
			return result, err
		}
	}
	col, err := b.column(b.defaultDropLane)
	if err != nil {
		return result, err
	}
	for _, card := range cards {
		req := CreateTaskRequest{
			Name:        card.Name,
			ColumnID:    col.UniqueID,
			Description: card.Note,
			Labels:      []Label{{Name: LabelPrefix + card.Identifier}},
		}
		if color, ok := b.types[card.Type]; ok {
			req.Color = color
		} else {
			b.log.Debug("Can't find card type configured in KanbanFlow", "type", card.Type)
		}
		id, err := b.client.CreateTask(ctx, req)
		if err != nil {
			return result, err
		}
		b.allTasks[card.Identifier] = Task{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Color:       req.Color,
			ColumnID:    req.ColumnID,
			Labels:      req.Labels,
		}
		result.Created = append(result.Created, bc.CreatedCard{ID: id, Identifier: card.Identifier})
	}
	return result, nil
}
