// Package syncer copies completed cards from one board to another.
package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	bc "github.com/egobogo/boardsync/internal/board"
	"github.com/egobogo/boardsync/internal/logging"
)

// Options controls a sync pass.
type Options struct {
	// DryRun reports the cards that would be created without creating them.
	DryRun bool
	// DefaultType is used for cards the source cannot describe.
	DefaultType string
	Logger      *slog.Logger
}

// Result summarizes a sync pass.
type Result struct {
	RunID     string
	Completed int
	Skipped   int
	Pending   []bc.Card
	Created   []bc.CreatedCard
}

// Run reads completed identifiers from source and creates the ones dest lacks.
// Blank identifiers are ignored and repeated identifiers produce one card.
func Run(ctx context.Context, source, dest bc.Adapter, opts Options) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("run_id", res.RunID)

	ids, err := source.FindCompletedCardIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to read completed cards: %w", err)
	}
	res.Completed = len(ids)

	lookup, _ := source.(bc.CardLookup)
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == bc.NoExternalID || seen[id] {
			res.Skipped++
			continue
		}
		seen[id] = true
		if dest.CardExists(id) {
			log.Debug("Card already on destination", "identifier", id)
			res.Skipped++
			continue
		}
		res.Pending = append(res.Pending, cardFor(lookup, id, opts.DefaultType))
	}
	log.Info("Compared boards", "completed", res.Completed, "skipped", res.Skipped, "to_create", len(res.Pending))

	if opts.DryRun || len(res.Pending) == 0 {
		return res, nil
	}
	added, err := dest.AddCards(ctx, res.Pending)
	res.Created = added.Created
	if err != nil {
		return res, fmt.Errorf("failed to add cards after %d of %d: %w", len(added.Created), len(res.Pending), err)
	}
	log.Info("Added cards", "created", len(res.Created))
	return res, nil
}

func cardFor(lookup bc.CardLookup, id, defaultType string) bc.Card {
	if lookup != nil {
		if c, ok := lookup.LookupCard(id); ok {
			if c.Type == "" {
				c.Type = defaultType
			}
			return c
		}
	}
	return bc.Card{Name: id, Identifier: id, Type: defaultType}
}
