package trip

import (
	"fmt"
	"slices"
	"strings"

	"github.com/trentd187/proof/internal/models"
)

// clone copies the snapshot header. The collections are still shared, so the
// caller must replace (never write into) any slice it changes.
func clone(d *models.AppData) *models.AppData {
	next := *d
	return &next
}

// replaceAt returns a copy of list with element i set to v.
func replaceAt[T any](list []T, i int, v T) []T {
	out := slices.Clone(list)
	out[i] = v
	return out
}

// withFront returns a new slice with v in front of list. Photos, bets and quotes
// are kept newest-first.
func withFront[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}

// withBack returns a new slice with v after list.
func withBack[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, v)
}

func playerIndex(d *models.AppData, id string) int {
	return slices.IndexFunc(d.Players, func(p models.Player) bool { return p.ID == id })
}

func requirePlayer(d *models.AppData, id string) error {
	if playerIndex(d, id) < 0 {
		return fmt.Errorf("player %q: %w", id, ErrNotFound)
	}
	return nil
}

func requireRound(n int) error {
	if _, ok := models.RoundByNumber(n); !ok {
		return fmt.Errorf("round %d: %w", n, ErrInvalidInput)
	}
	return nil
}

func parseReaction(key string) (models.Reaction, error) {
	r, ok := models.ParseReaction(key)
	if !ok {
		return "", fmt.Errorf("%q: %w", key, ErrUnknownReaction)
	}
	return r, nil
}

// required trims s and fails when nothing is left.
func required(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s is required: %w", field, ErrInvalidInput)
	}
	return s, nil
}

// distinct drops empty and repeated ids, keeping first-seen order.
func distinct(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
