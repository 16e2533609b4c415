package challenges

import (
	"github.com/gosimple/slug"

	"github.com/trentd187/proof/internal/models"
)

// Entry is the fixed part of a challenge: what it is and what it pays.
type Entry struct {
	Title           string
	Description     string
	Points          int
	Category        models.ChallengeCategory
	ProofRequired   bool
	WitnessRequired bool
}

// Catalog is the full challenge list, grouped by category in display order.
var Catalog = []Entry{
	{Title: "Shotgun Speedrun", Description: "Under 5 seconds. Timer required.", Points: 10, Category: models.CategoryDrinking, ProofRequired: true, WitnessRequired: true},
	{Title: "Flip Cup Champion", Description: "Win 3 games in a row", Points: 15, Category: models.CategoryDrinking, ProofRequired: true, WitnessRequired: true},
	{Title: "Beer Golf", Description: "Finish a beer every 3 holes", Points: 20, Category: models.CategoryDrinking, ProofRequired: false, WitnessRequired: true},
	{Title: "First to the Bar", Description: "Order a drink before anyone else at the 19th", Points: 5, Category: models.CategoryDrinking, ProofRequired: false, WitnessRequired: true},
	{Title: "The Hydrator", Description: "Drink water between every alcoholic drink for 1 round", Points: 10, Category: models.CategoryDrinking, ProofRequired: false, WitnessRequired: true},
	{Title: "Shot for Birdie", Description: "Take a shot for every birdie you make", Points: 15, Category: models.CategoryDrinking, ProofRequired: true, WitnessRequired: true},
	{Title: "The Designated", Description: "Stay sober for an entire round", Points: 25, Category: models.CategoryDrinking, ProofRequired: false, WitnessRequired: true},
	{Title: "Cart Beer Mile", Description: "Finish 4 beers on 4 different holes", Points: 15, Category: models.CategoryDrinking, ProofRequired: true, WitnessRequired: false},
	{Title: "Drink the Menu", Description: "Order something you've never had before", Points: 5, Category: models.CategoryDrinking, ProofRequired: true, WitnessRequired: false},
	{Title: "Toast Master", Description: "Give a toast at dinner", Points: 10, Category: models.CategoryDrinking, ProofRequired: true, WitnessRequired: true},
	{Title: "Never Have I Ever", Description: "Win a round of Never Have I Ever", Points: 10, Category: models.CategoryDrinking, ProofRequired: false, WitnessRequired: true},
	{Title: "Kings Cup Survivor", Description: "Make it through Kings Cup without losing", Points: 15, Category: models.CategoryDrinking, ProofRequired: false, WitnessRequired: true},
	{Title: "The Closer", Description: "Be the last one standing at the bar", Points: 20, Category: models.CategoryDrinking, ProofRequired: false, WitnessRequired: true},
	{Title: "Morning Beer", Description: "Crack a cold one before 9am", Points: 10, Category: models.CategoryDrinking, ProofRequired: true, WitnessRequired: false},
	{Title: "The Ambassador", Description: "Buy a drink for a stranger", Points: 10, Category: models.CategoryDrinking, ProofRequired: true, WitnessRequired: true},
	{Title: "Birdie Hunt", Description: "Make a birdie", Points: 20, Category: models.CategoryGolf, ProofRequired: false, WitnessRequired: true},
	{Title: "Eagle Eye", Description: "Make an eagle", Points: 50, Category: models.CategoryGolf, ProofRequired: true, WitnessRequired: true},
	{Title: "Sandy Par", Description: "Get up and down from a bunker for par", Points: 15, Category: models.CategoryGolf, ProofRequired: false, WitnessRequired: true},
	{Title: "Long Bomb", Description: "Hit a drive over 280 yards", Points: 15, Category: models.CategoryGolf, ProofRequired: true, WitnessRequired: true},
	{Title: "One Putt Wonder", Description: "One-putt 5 greens in a round", Points: 20, Category: models.CategoryGolf, ProofRequired: false, WitnessRequired: false},
	{Title: "The Houdini", Description: "Make par from a seemingly impossible spot", Points: 25, Category: models.CategoryGolf, ProofRequired: true, WitnessRequired: true},
	{Title: "Pin Hunter", Description: "Hit 3 greens in regulation in a row", Points: 15, Category: models.CategoryGolf, ProofRequired: false, WitnessRequired: true},
	{Title: "No Water Round", Description: "Complete a round without hitting into water", Points: 15, Category: models.CategoryGolf, ProofRequired: false, WitnessRequired: true},
	{Title: "Beat Your Handicap", Description: "Shoot better than your handicap", Points: 30, Category: models.CategoryGolf, ProofRequired: false, WitnessRequired: false},
	{Title: "The Scrambler", Description: "Save par after missing the fairway AND green", Points: 20, Category: models.CategoryGolf, ProofRequired: false, WitnessRequired: true},
	{Title: "First Blood", Description: "Win the first hole of a round in your foursome", Points: 10, Category: models.CategoryGolf, ProofRequired: false, WitnessRequired: true},
	{Title: "Longest Drive Winner", Description: "Win longest drive on any hole", Points: 15, Category: models.CategoryGolf, ProofRequired: true, WitnessRequired: true},
	{Title: "Closest to Pin", Description: "Win closest to the pin on a par 3", Points: 15, Category: models.CategoryGolf, ProofRequired: true, WitnessRequired: true},
	{Title: "The Grinder", Description: "Make a putt over 20 feet", Points: 15, Category: models.CategoryGolf, ProofRequired: true, WitnessRequired: true},
	{Title: "No Lost Balls", Description: "Play a full round without losing a ball", Points: 20, Category: models.CategoryGolf, ProofRequired: false, WitnessRequired: true},
	{Title: "Breakfast Champion", Description: "Eat the biggest breakfast", Points: 10, Category: models.CategoryFood, ProofRequired: true, WitnessRequired: true},
	{Title: "Grill Master", Description: "Cook for the group", Points: 20, Category: models.CategoryFood, ProofRequired: true, WitnessRequired: true},
	{Title: "Clean Plate Club", Description: "Finish everything you order at dinner", Points: 5, Category: models.CategoryFood, ProofRequired: false, WitnessRequired: true},
	{Title: "Late Night Snack Attack", Description: "Make food for others after midnight", Points: 15, Category: models.CategoryFood, ProofRequired: true, WitnessRequired: true},
	{Title: "The Critic", Description: "Give a dramatic food review", Points: 10, Category: models.CategoryFood, ProofRequired: true, WitnessRequired: true},
	{Title: "Hot Sauce Hero", Description: "Put hot sauce on everything for a meal", Points: 10, Category: models.CategoryFood, ProofRequired: true, WitnessRequired: true},
	{Title: "Pizza Face", Description: "Order pizza at midnight or later", Points: 10, Category: models.CategoryFood, ProofRequired: true, WitnessRequired: false},
	{Title: "Course Snack King", Description: "Share snacks with your foursome all round", Points: 10, Category: models.CategoryFood, ProofRequired: false, WitnessRequired: true},
	{Title: "Local Specialty", Description: "Try a local food specialty", Points: 10, Category: models.CategoryFood, ProofRequired: true, WitnessRequired: false},
	{Title: "Dessert First", Description: "Order dessert before your main course", Points: 10, Category: models.CategoryFood, ProofRequired: true, WitnessRequired: true},
	{Title: "Story Time", Description: "Tell a story that makes everyone laugh", Points: 15, Category: models.CategorySocial, ProofRequired: true, WitnessRequired: true},
	{Title: "The Complimenter", Description: "Give every player a genuine compliment", Points: 15, Category: models.CategorySocial, ProofRequired: false, WitnessRequired: true},
	{Title: "Phone Stack", Description: "Win a phone stack game at dinner", Points: 10, Category: models.CategorySocial, ProofRequired: false, WitnessRequired: true},
	{Title: "Dance Floor Hero", Description: "Be the first one dancing", Points: 15, Category: models.CategorySocial, ProofRequired: true, WitnessRequired: true},
	{Title: "Karaoke King", Description: "Sing karaoke (if available)", Points: 20, Category: models.CategorySocial, ProofRequired: true, WitnessRequired: true},
	{Title: "The Connector", Description: "Get a stranger's phone number", Points: 20, Category: models.CategorySocial, ProofRequired: true, WitnessRequired: true},
	{Title: "Group Photo Organizer", Description: "Organize a full group photo", Points: 10, Category: models.CategorySocial, ProofRequired: true, WitnessRequired: false},
	{Title: "Memory Lane", Description: "Share a story from a previous trip", Points: 10, Category: models.CategorySocial, ProofRequired: false, WitnessRequired: true},
	{Title: "The Hype Man", Description: "Celebrate someone else's shot like it was yours", Points: 10, Category: models.CategorySocial, ProofRequired: true, WitnessRequired: true},
	{Title: "Inside Joke Creator", Description: "Start a new inside joke that sticks", Points: 15, Category: models.CategorySocial, ProofRequired: false, WitnessRequired: true},
	{Title: "Cold Plunge", Description: "Jump in the pool with clothes on", Points: 25, Category: models.CategoryDare, ProofRequired: true, WitnessRequired: true},
	{Title: "The Streaker", Description: "Run across a fairway (when clear)", Points: 30, Category: models.CategoryDare, ProofRequired: true, WitnessRequired: true},
	{Title: "Accent Round", Description: "Speak in an accent for an entire hole", Points: 15, Category: models.CategoryDare, ProofRequired: true, WitnessRequired: true},
	{Title: "Wrong Hand", Description: "Play a hole with opposite hand clubs", Points: 15, Category: models.CategoryDare, ProofRequired: true, WitnessRequired: true},
	{Title: "The Announcer", Description: "Announce your shots like a golf commentator for a hole", Points: 10, Category: models.CategoryDare, ProofRequired: true, WitnessRequired: true},
	{Title: "Fashion Forward", Description: "Wear something ridiculous for a round", Points: 15, Category: models.CategoryDare, ProofRequired: true, WitnessRequired: false},
	{Title: "Eyes Wide Shut", Description: "Make a putt with your eyes closed", Points: 20, Category: models.CategoryDare, ProofRequired: true, WitnessRequired: true},
	{Title: "Happy Gilmore", Description: "Tee off Happy Gilmore style", Points: 15, Category: models.CategoryDare, ProofRequired: true, WitnessRequired: true},
	{Title: "The Crooner", Description: "Sing to your ball before a shot", Points: 10, Category: models.CategoryDare, ProofRequired: true, WitnessRequired: true},
	{Title: "Barefoot Golf", Description: "Play a hole barefoot", Points: 15, Category: models.CategoryDare, ProofRequired: true, WitnessRequired: true},
	{Title: "Chip In", Description: "Chip in from off the green", Points: 25, Category: models.CategorySkill, ProofRequired: true, WitnessRequired: true},
	{Title: "Flop Shot Master", Description: "Successfully execute a flop shot", Points: 15, Category: models.CategorySkill, ProofRequired: true, WitnessRequired: true},
	{Title: "Stinger", Description: "Hit a low punch shot under a tree", Points: 15, Category: models.CategorySkill, ProofRequired: true, WitnessRequired: true},
	{Title: "The Draw", Description: "Hit an intentional draw on command", Points: 15, Category: models.CategorySkill, ProofRequired: true, WitnessRequired: true},
	{Title: "The Fade", Description: "Hit an intentional fade on command", Points: 15, Category: models.CategorySkill, ProofRequired: true, WitnessRequired: true},
	{Title: "Iron Man", Description: "Walk a full round (no cart)", Points: 30, Category: models.CategoryEndurance, ProofRequired: false, WitnessRequired: true},
	{Title: "Dawn Patrol", Description: "Be first one awake for 3 days straight", Points: 25, Category: models.CategoryEndurance, ProofRequired: false, WitnessRequired: true},}

// ID derives a challenge id from its title ("Shotgun Speedrun" -> "shotgun-speedrun").
// Slugs keep ids identical across installs, so a fresh local default and the
// remote copy agree on which challenge is which.
func ID(title string) string {
	return slug.Make(title)
}

// Seed builds the open, unclaimed challenge list from the catalog.
func Seed() []models.Challenge {
	out := make([]models.Challenge, 0, len(Catalog))
	for _, e := range Catalog {
		out = append(out, models.Challenge{
			ID:              ID(e.Title),
			Title:           e.Title,
			Description:     e.Description,
			Points:          e.Points,
			Category:        e.Category,
			ProofRequired:   e.ProofRequired,
			WitnessRequired: e.WitnessRequired,
			Status:          models.ChallengeOpen,
			VerifiedBy:      []string{},
			DisputedBy:      []string{},
		})
	}
	return out
}

// Position returns the catalog index of a challenge id, or len(Catalog) for an
// id that isn't in the catalog so such entries sort last.
func Position(id string) int {
	for i, e := range Catalog {
		if ID(e.Title) == id {
			return i
		}
	}
	return len(Catalog)
}
