package trip

import (
	"fmt"

	"github.com/trentd187/proof/internal/challenges"
	"github.com/trentd187/proof/internal/models"
)

// PlayerCount is the size of the fixed roster.
const PlayerCount = 12

const defaultHandicap = 20

// Default builds the snapshot used on first run, after a reset, and whenever
// the persisted or remote state can't be used. It has no generated ids and no
// timestamps, so two calls return deep-equal values.
func Default() *models.AppData {
	return &models.AppData{
		Players:        defaultPlayers(),
		Scores:         []models.Score{},
		Foursomes:      defaultFoursomes(),
		Photos:         []models.Photo{},
		Challenges:     challenges.Seed(),
		Bets:           []models.Bet{},
		Messages:       []models.Message{},
		Quotes:         []models.Quote{},
		Predictions:    []models.Prediction{},
		TimeCapsule:    []models.TimeCapsuleEntry{},
		ItineraryNotes: defaultItinerary(),
		TripInfo:       defaultTripInfo(),
	}
}

// PlayerID returns the fixed id of seat n.
func PlayerID(n int) string {
	return fmt.Sprintf("player-%d", n)
}

func defaultPlayers() []models.Player {
	players := make([]models.Player, PlayerCount)
	for i := range players {
		n := i + 1
		players[i] = models.Player{
			ID:       PlayerID(n),
			Number:   n,
			Name:     fmt.Sprintf("Player %d", n),
			Handicap: defaultHandicap,
		}
	}
	return players
}

// defaultFoursomes is the canonical rotation. Player 1 (the organizer) anchors
// the first group of every round and nobody repeats a group of four.
func defaultFoursomes() models.Foursomes {
	group := func(seats ...int) []string {
		ids := make([]string, len(seats))
		for i, n := range seats {
			ids[i] = PlayerID(n)
		}
		return ids
	}
	return models.Foursomes{
		Round1: [][]string{group(1, 2, 3, 4), group(5, 6, 7, 8), group(9, 10, 11, 12)},
		Round2: [][]string{group(1, 5, 9, 2), group(6, 10, 3, 7), group(11, 4, 8, 12)},
		Round3: [][]string{group(1, 6, 11, 4), group(2, 7, 12, 5), group(3, 8, 9, 10)},
		Round4: [][]string{group(1, 7, 10, 5), group(2, 8, 11, 6), group(3, 9, 12, 4)},
	}
}

func defaultItinerary() models.ItineraryNotes {
	return models.ItineraryNotes{
		Thursday: []string{"Arrive whenever", "Claim your room", "Fridge inventory", "Welcome beers"},
		Friday:   []string{"AM: Ponce de Leon", "PM: Balboa", "Evening: Dinner TBD"},
		Saturday: []string{"AM: Free time", "PM: Isabella", "Evening: Whatever happens"},
		Sunday:   []string{"AM: Granada (Championship)", "PM: Free time", "Evening: Awards ceremony"},
		Monday:   []string{"Check-out", "Same time next year?"},
	}
}

func defaultTripInfo() models.TripInfo {
	return models.TripInfo{
		HouseAddress:     "123 Golf Lane, Hot Springs Village, AR",
		DoorCode:         "1234",
		WifiPassword:     "golfboys2025",
		EmergencyContact: "Trip Organizer: 555-123-4567",
		NearestHospital:  "CHI St. Vincent Hot Springs",
		LocalPizza:       "Domino's: 501-555-1234",
	}
}
