package trip

import (
	"fmt"
	"slices"
	"strings"

	"github.com/trentd187/proof/internal/models"
)

// AddMessage appends a chat line.
func AddMessage(d *models.AppData, env Env, playerID, content string) (*models.AppData, []Change, error) {
	if err := requirePlayer(d, playerID); err != nil {
		return d, nil, err
	}
	content, err := required("content", content)
	if err != nil {
		return d, nil, err
	}
	m := models.Message{
		ID:        env.NewID(),
		PlayerID:  playerID,
		Content:   content,
		CreatedAt: env.Now(),
		Version:   1,
	}
	next := clone(d)
	next.Messages = withBack(d.Messages, m)
	return next, []Change{upsert(TableMessages, m.ID, m)}, nil
}

// ReactToMessage bumps one reaction counter on a chat line.
func ReactToMessage(d *models.AppData, messageID, reaction string) (*models.AppData, []Change, error) {
	r, err := parseReaction(reaction)
	if err != nil {
		return d, nil, err
	}
	i := slices.IndexFunc(d.Messages, func(m models.Message) bool { return m.ID == messageID })
	if i < 0 {
		return d, nil, fmt.Errorf("message %q: %w", messageID, ErrNotFound)
	}
	m := d.Messages[i]
	m.Reactions = m.Reactions.Inc(r)
	m.Version++

	next := clone(d)
	next.Messages = replaceAt(d.Messages, i, m)
	return next, []Change{upsert(TableMessages, m.ID, m)}, nil
}

// QuoteInput records something someone said.
type QuoteInput struct {
	Content string `json:"content"`
	SaidBy  string `json:"saidBy"`
	Context string `json:"context"`
}

// AddQuote puts a quote at the front of the wall.
func AddQuote(d *models.AppData, env Env, in QuoteInput) (*models.AppData, []Change, error) {
	content, err := required("content", in.Content)
	if err != nil {
		return d, nil, err
	}
	if err := requirePlayer(d, in.SaidBy); err != nil {
		return d, nil, err
	}
	q := models.Quote{
		ID:        env.NewID(),
		Content:   content,
		SaidBy:    in.SaidBy,
		Context:   strings.TrimSpace(in.Context),
		CreatedAt: env.Now(),
		Version:   1,
	}
	next := clone(d)
	next.Quotes = withFront(d.Quotes, q)
	return next, []Change{upsert(TableQuotes, q.ID, q)}, nil
}

// ReactToQuote bumps one reaction counter on a quote.
func ReactToQuote(d *models.AppData, quoteID, reaction string) (*models.AppData, []Change, error) {
	r, err := parseReaction(reaction)
	if err != nil {
		return d, nil, err
	}
	i := slices.IndexFunc(d.Quotes, func(q models.Quote) bool { return q.ID == quoteID })
	if i < 0 {
		return d, nil, fmt.Errorf("quote %q: %w", quoteID, ErrNotFound)
	}
	q := d.Quotes[i]
	q.Reactions = q.Reactions.Inc(r)
	q.Version++

	next := clone(d)
	next.Quotes = replaceAt(d.Quotes, i, q)
	return next, []Change{upsert(TableQuotes, q.ID, q)}, nil
}
