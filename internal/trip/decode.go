package trip

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trentd187/proof/internal/models"
)

// Decode reads a persisted snapshot document. Each top-level field is decoded
// on its own over Default(): a field that is missing, null or malformed keeps
// its default value, so documents written by older builds (or partly corrupted
// ones) still load. The returned error lists the fields that were skipped; the
// snapshot is usable either way. Unknown fields are ignored.
func Decode(raw []byte) (*models.AppData, error) {
	d := Default()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return d, fmt.Errorf("decode snapshot: %w", err)
	}

	targets := map[string]func(json.RawMessage) error{
		"players":         into(&d.Players),
		"scores":          into(&d.Scores),
		"foursomes":       into(&d.Foursomes),
		"photos":          into(&d.Photos),
		"challenges":      into(&d.Challenges),
		"bets":            into(&d.Bets),
		"messages":        into(&d.Messages),
		"quotes":          into(&d.Quotes),
		"predictions":     into(&d.Predictions),
		"timeCapsule":     into(&d.TimeCapsule),
		"capsuleRevealed": into(&d.CapsuleRevealed),
		"itineraryNotes":  into(&d.ItineraryNotes),
		"tripInfo":        into(&d.TripInfo),
	}

	var errs []error
	for name, msg := range fields {
		decode, ok := targets[name]
		if !ok || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		if err := decode(msg); err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", name, err))
		}
	}
	return d, errors.Join(errs...)
}

// into decodes into a scratch value first so a half-decoded field never
// replaces the default.
func into[T any](dst *T) func(json.RawMessage) error {
	return func(msg json.RawMessage) error {
		var v T
		if err := json.Unmarshal(msg, &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// Encode serializes a snapshot into the persisted document form.
func Encode(d *models.AppData) ([]byte, error) {
	return json.Marshal(d)
}
