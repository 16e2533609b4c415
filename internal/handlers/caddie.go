package handlers

// caddie.go: the weather-adjusted club picker.
//
// GET /api/v1/caddie?target=150&bearing=270
//
// target is the yardage to the pin and bearing is the direction of the shot
// in compass degrees (0 = north). Both default when missing: 150 yards, due north.

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/proof/internal/scoring"
	"github.com/trentd187/proof/internal/weather"
)

// CaddieResponse is everything the caddie screen shows.
type CaddieResponse struct {
	Weather     weather.Reading     `json:"weather"`
	WindFrom    string              `json:"windFrom"`    // Compass point, e.g. "SW"
	WindEffect  string              `json:"windEffect"`  // "Headwind", "Quartering tailwind", ...
	ElevationFt float64             `json:"elevationFt"` // Course elevation used for the altitude term
	Adjustments scoring.Adjustments `json:"adjustments"`
	TotalAdjust float64             `json:"totalAdjust"` // Percent
	Target      int                 `json:"target"`
	Recommended *scoring.Club       `json:"recommended,omitempty"`
	Bag         []scoring.Club      `json:"bag"`
}

// GetCaddie returns a handler bound to the weather cache and the course elevation.
func GetCaddie(w *weather.Service, elevationFt float64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		target := c.QueryInt("target", 150)
		if target <= 0 {
			return badRequest(c, "target must be a positive yardage")
		}
		bearing := c.QueryFloat("bearing", 0)
		if bearing < 0 || bearing >= 360 {
			return badRequest(c, "bearing must be between 0 and 359 degrees")
		}

		reading := w.Latest()
		adj := scoring.ComputeAdjustments(reading.Conditions, elevationFt, bearing)
		bag := scoring.AdjustBag(scoring.DefaultBag(), adj)

		resp := CaddieResponse{
			Weather:     reading,
			WindFrom:    scoring.CompassName(reading.Conditions.WindDirection),
			WindEffect:  scoring.DescribeWind(reading.Conditions.WindDirection, bearing),
			ElevationFt: elevationFt,
			Adjustments: adj,
			TotalAdjust: adj.Sum(),
			Target:      target,
			Bag:         bag,
		}
		if club, ok := scoring.RecommendClub(bag, target); ok {
			resp.Recommended = &club
		}
		return c.JSON(resp)
	}
}
