package trip

import (
	"slices"

	"github.com/trentd187/proof/internal/models"
)

// Merge folds a record received from the remote into d and reports whether it
// changed anything. A record replaces the local one with the same id only when
// its Version is strictly higher, so a stale or echoed event is ignored no
// matter when it arrives. Records we have never seen are inserted where the
// list keeps new entries (front for the newest-first feeds).
//
// Deletes are honored for photos only; nothing else is ever deleted.
func Merge(d *models.AppData, c Change) (*models.AppData, bool) {
	if c.Op == OpDelete {
		if c.Table != TablePhotos {
			return d, false
		}
		i := slices.IndexFunc(d.Photos, func(p models.Photo) bool { return p.ID == c.ID })
		if i < 0 {
			return d, false
		}
		next := clone(d)
		next.Photos = slices.Delete(slices.Clone(d.Photos), i, i+1)
		return next, true
	}
	if c.Op != OpUpsert {
		return d, false
	}

	next := clone(d)
	var ok bool
	switch rec := c.Record.(type) {
	case models.Player:
		// The roster is fixed: an unknown seat is not added.
		next.Players, ok = mergeExisting(d.Players, rec, playerKey, playerVersion)
	case models.Score:
		next.Scores, ok = mergeScore(d.Scores, rec)
	case models.Photo:
		next.Photos, ok = mergeRecord(d.Photos, rec, photoKey, photoVersion, true)
	case models.Challenge:
		next.Challenges, ok = mergeRecord(d.Challenges, rec, challengeKey, challengeVersion, false)
	case models.Bet:
		next.Bets, ok = mergeRecord(d.Bets, rec, betKey, betVersion, true)
	case models.Message:
		next.Messages, ok = mergeRecord(d.Messages, rec, messageKey, messageVersion, false)
	case models.Quote:
		next.Quotes, ok = mergeRecord(d.Quotes, rec, quoteKey, quoteVersion, true)
	}
	if !ok {
		return d, false
	}
	return next, true
}

func playerKey(p models.Player) string { return p.ID }
func photoKey(p models.Photo) string { return p.ID }
func challengeKey(c models.Challenge) string { return c.ID }
func betKey(b models.Bet) string { return b.ID }
func messageKey(m models.Message) string { return m.ID }
func quoteKey(q models.Quote) string { return q.ID }

func playerVersion(p models.Player) int64 { return p.Version }
func photoVersion(p models.Photo) int64 { return p.Version }
func challengeVersion(c models.Challenge) int64 { return c.Version }
func betVersion(b models.Bet) int64 { return b.Version }
func messageVersion(m models.Message) int64 { return m.Version }
func quoteVersion(q models.Quote) int64 { return q.Version }

func mergeRecord[T any](list []T, rec T, key func(T) string, version func(T) int64, front bool) ([]T, bool) {
	i := slices.IndexFunc(list, func(e T) bool { return key(e) == key(rec) })
	if i < 0 {
		if front {
			return withFront(list, rec), true
		}
		return withBack(list, rec), true
	}
	if version(rec) <= version(list[i]) {
		return list, false
	}
	return replaceAt(list, i, rec), true
}

func mergeExisting[T any](list []T, rec T, key func(T) string, version func(T) int64) ([]T, bool) {
	i := slices.IndexFunc(list, func(e T) bool { return key(e) == key(rec) })
	if i < 0 || version(rec) <= version(list[i]) {
		return list, false
	}
	return replaceAt(list, i, rec), true
}

// mergeScore also matches on (player, round), so two devices that both created
// a card for the same round offline still end up with one.
func mergeScore(list []models.Score, rec models.Score) ([]models.Score, bool) {
	i := slices.IndexFunc(list, func(s models.Score) bool { return s.ID == rec.ID })
	if i < 0 {
		i = slices.IndexFunc(list, func(s models.Score) bool {
			return s.PlayerID == rec.PlayerID && s.RoundNumber == rec.RoundNumber
		})
	}
	if i < 0 {
		return withBack(list, rec), true
	}
	if rec.Version <= list[i].Version {
		return list, false
	}
	return replaceAt(list, i, rec), true
}
