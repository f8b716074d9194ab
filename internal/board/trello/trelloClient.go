// internal/board/trello/trelloClient.go
package trelloClient

import (
	"context"
	"fmt"

	"github.com/adlio/trello"
)

// -------------------------
// Remote surface
// -------------------------

// remoteCard is the subset of a Trello card the adapter reads.
type remoteCard struct {
	ID     string
	Name   string
	Desc   string
	Closed bool
	Labels []string
}

type remoteList struct {
	ID   string
	Name string
}

type remoteLabel struct {
	ID   string
	Name string
}

// remote is every call the adapter makes against Trello.
type remote interface {
	// BoardCards returns every card on the board, archived ones included.
	BoardCards(ctx context.Context) ([]remoteCard, error)
	BoardLabels(ctx context.Context) ([]remoteLabel, error)
	GetList(ctx context.Context, listID string) (remoteList, error)
	ListCards(ctx context.Context, listID string) ([]remoteCard, error)
	// Comments returns comment texts in the order Trello returns them (newest first).
	Comments(ctx context.Context, cardID string) ([]string, error)
	CreateCard(ctx context.Context, listID, name string) (string, error)
	SetDescription(ctx context.Context, cardID, desc string) error
	AddComment(ctx context.Context, cardID, text string) error
	AddLabel(ctx context.Context, cardID, labelID string) error
	DeleteCard(ctx context.Context, cardID string) error
}

// -------------------------
// adlio/trello implementation
// -------------------------

// TrelloClient implements remote using the adlio/trello library.
type TrelloClient struct {
	Client  *trello.Client
	BoardID string
}

// NewTrelloClient constructs a new TrelloClient.
func NewTrelloClient(apiKey, token, boardID string) *TrelloClient {
	return &TrelloClient{
		Client:  trello.NewClient(apiKey, token),
		BoardID: boardID,
	}
}

func (tc *TrelloClient) board(ctx context.Context) (*trello.Board, error) {
	b, err := tc.Client.WithContext(ctx).GetBoard(tc.BoardID, trello.Defaults())
	if err != nil {
		return nil, fmt.Errorf("failed to get board %s: %w", tc.BoardID, err)
	}
	return b, nil
}

func toRemoteCards(cards []*trello.Card) []remoteCard {
	result := make([]remoteCard, 0, len(cards))
	for _, c := range cards {
		rc := remoteCard{
			ID:     c.ID,
			Name:   c.Name,
			Desc:   c.Desc,
			Closed: c.Closed,
		}
		for _, l := range c.Labels {
			rc.Labels = append(rc.Labels, l.Name)
		}
		result = append(result, rc)
	}
	return result
}

func (tc *TrelloClient) BoardCards(ctx context.Context) ([]remoteCard, error) {
	b, err := tc.board(ctx)
	if err != nil {
		return nil, err
	}
	// "all" includes archived cards, which the default "visible" filter omits.
	cards, err := b.GetCards(trello.Arguments{"filter": "all"})
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	return toRemoteCards(cards), nil
}

func (tc *TrelloClient) BoardLabels(ctx context.Context) ([]remoteLabel, error) {
	b, err := tc.board(ctx)
	if err != nil {
		return nil, err
	}
	labels, err := b.GetLabels(trello.Defaults())
	if err != nil {
		return nil, fmt.Errorf("failed to get labels: %w", err)
	}
	result := make([]remoteLabel, 0, len(labels))
	for _, l := range labels {
		result = append(result, remoteLabel{ID: l.ID, Name: l.Name})
	}
	return result, nil
}

func (tc *TrelloClient) GetList(ctx context.Context, listID string) (remoteList, error) {
	l, err := tc.Client.WithContext(ctx).GetList(listID, trello.Defaults())
	if err != nil {
		return remoteList{}, fmt.Errorf("failed to get list %s: %w", listID, err)
	}
	return remoteList{ID: l.ID, Name: l.Name}, nil
}

func (tc *TrelloClient) ListCards(ctx context.Context, listID string) ([]remoteCard, error) {
	l, err := tc.Client.WithContext(ctx).GetList(listID, trello.Defaults())
	if err != nil {
		return nil, fmt.Errorf("failed to get list %s: %w", listID, err)
	}
	cards, err := l.GetCards(trello.Defaults())
	if err != nil {
		return nil, fmt.Errorf("failed to get cards of list %s: %w", listID, err)
	}
	return toRemoteCards(cards), nil
}

func (tc *TrelloClient) Comments(ctx context.Context, cardID string) ([]string, error) {
	var actions trello.ActionCollection
	path := fmt.Sprintf("cards/%s/actions", cardID)
	if err := tc.Client.WithContext(ctx).Get(path, trello.Arguments{"filter": "commentCard"}, &actions); err != nil {
		return nil, fmt.Errorf("failed to get comments of card %s: %w", cardID, err)
	}
	var comments []string
	for _, a := range actions {
		if a.Data == nil || a.Data.Text == "" {
			continue
		}
		comments = append(comments, a.Data.Text)
	}
	return comments, nil
}

func (tc *TrelloClient) CreateCard(ctx context.Context, listID, name string) (string, error) {
	card := trello.Card{Name: name, IDList: listID}
	if err := tc.Client.WithContext(ctx).CreateCard(&card, trello.Arguments{"idList": listID}); err != nil {
		return "", fmt.Errorf("failed to create card: %w", err)
	}
	return card.ID, nil
}

func (tc *TrelloClient) SetDescription(ctx context.Context, cardID, desc string) error {
	var card trello.Card
	path := fmt.Sprintf("cards/%s", cardID)
	if err := tc.Client.WithContext(ctx).Put(path, trello.Arguments{"desc": desc}, &card); err != nil {
		return fmt.Errorf("failed to set description of card %s: %w", cardID, err)
	}
	return nil
}

func (tc *TrelloClient) AddComment(ctx context.Context, cardID, text string) error {
	var action trello.Action
	path := fmt.Sprintf("cards/%s/actions/comments", cardID)
	if err := tc.Client.WithContext(ctx).Post(path, trello.Arguments{"text": text}, &action); err != nil {
		return fmt.Errorf("failed to post comment: %w", err)
	}
	return nil
}

func (tc *TrelloClient) AddLabel(ctx context.Context, cardID, labelID string) error {
	var ids []string
	path := fmt.Sprintf("cards/%s/idLabels", cardID)
	if err := tc.Client.WithContext(ctx).Post(path, trello.Arguments{"value": labelID}, &ids); err != nil {
		return fmt.Errorf("failed to add label %s to card %s: %w", labelID, cardID, err)
	}
	return nil
}

func (tc *TrelloClient) DeleteCard(ctx context.Context, cardID string) error {
	var resp map[string]interface{}
	path := fmt.Sprintf("cards/%s", cardID)
	if err := tc.Client.WithContext(ctx).Delete(path, trello.Defaults(), &resp); err != nil {
		return fmt.Errorf("failed to delete card %s: %w", cardID, err)
	}
	return nil
}
