package scoring

import (
	"math"
	"sort"
)

// Conditions is the weather that matters for ball flight.
type Conditions struct {
	TemperatureF  float64 `json:"temperature"`   // Fahrenheit
	WindSpeedMPH  float64 `json:"windSpeed"`     // mph
	WindDirection float64 `json:"windDirection"` // degrees, the bearing the wind is measured on
	Humidity      float64 `json:"humidity"`      // percent, display only
	FeelsLikeF    float64 `json:"feelsLike"`
	Description   string  `json:"conditions"`
}

// Adjustments are the three percentage terms applied to a club's stock distance.
type Adjustments struct {
	Temperature float64 `json:"tempAdjust"`
	Wind        float64 `json:"windAdjust"`
	Altitude    float64 `json:"altitudeAdjust"`
}

// Sum is the combined percentage change.
func (a Adjustments) Sum() float64 {
	return a.Temperature + a.Wind + a.Altitude
}

const baselineTempF = 70.0

// TempAdjustment is ±1.3% per 10°F away from 70°F.
func TempAdjustment(tempF float64) float64 {
	return (tempF - baselineTempF) / 10 * 1.3
}

// angleBetween folds the absolute bearing difference into 0..180.
func angleBetween(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// WindAdjustment projects the wind onto the shot line. A positive projection
// (angle under 90°) is a tailwind worth 0.5% per mph; a negative one is a
// headwind costing 1% per mph.
func WindAdjustment(speedMPH, windDirection, shotBearing float64) float64 {
	effect := math.Cos(angleBetween(windDirection, shotBearing) * math.Pi / 180)
	if effect > 0 {
		return speedMPH * effect * 0.5
	}
	return speedMPH * effect * 1.0
}

// AltitudeAdjustment is a flat +2% per 1000 ft.
func AltitudeAdjustment(elevationFt float64) float64 {
	return elevationFt / 1000 * 2
}

// ComputeAdjustments recomputes all three terms from scratch.
func ComputeAdjustments(c Conditions, elevationFt, shotBearing float64) Adjustments {
	return Adjustments{
		Temperature: TempAdjustment(c.TemperatureF),
		Wind:        WindAdjustment(c.WindSpeedMPH, c.WindDirection, shotBearing),
		Altitude:    AltitudeAdjustment(elevationFt),
	}
}

// AdjustedDistance applies base × (1 + Σ/100), rounded to the nearest yard.
func AdjustedDistance(base float64, adj Adjustments) int {
	return int(math.Round(base * (1 + adj.Sum()/100)))
}

// Club is one club in the bag with its stock carry.
type Club struct {
	Name             string `json:"name"`
	NormalDistance   int    `json:"normalDistance"`
	AdjustedDistance int    `json:"adjustedDistance"`
}

// DefaultBag is the stock bag used when a caller doesn't send their own yardages.
func DefaultBag() []Club {
	return []Club{
		{Name: "Driver", NormalDistance: 230},
		{Name: "3 Wood", NormalDistance: 215},
		{Name: "5 Wood", NormalDistance: 200},
		{Name: "4 Hybrid", NormalDistance: 190},
		{Name: "5 Iron", NormalDistance: 180},
		{Name: "6 Iron", NormalDistance: 170},
		{Name: "7 Iron", NormalDistance: 160},
		{Name: "8 Iron", NormalDistance: 150},
		{Name: "9 Iron", NormalDistance: 140},
		{Name: "PW", NormalDistance: 130},
		{Name: "GW", NormalDistance: 115},
		{Name: "SW", NormalDistance: 100},
		{Name: "LW", NormalDistance: 80},
	}
}

// AdjustBag returns a copy of clubs with AdjustedDistance filled in.
func AdjustBag(clubs []Club, adj Adjustments) []Club {
	out := make([]Club, len(clubs))
	for i, c := range clubs {
		c.AdjustedDistance = AdjustedDistance(float64(c.NormalDistance), adj)
		out[i] = c
	}
	return out
}

// RecommendClub picks the adjusted club whose distance is closest to target.
// Ties keep bag order. ok is false for an empty bag.
func RecommendClub(adjusted []Club, target int) (Club, bool) {
	if len(adjusted) == 0 {
		return Club{}, false
	}
	sorted := make([]Club, len(adjusted))
	copy(sorted, adjusted)
	sort.SliceStable(sorted, func(i, j int) bool {
		return absInt(sorted[i].AdjustedDistance-target) < absInt(sorted[j].AdjustedDistance-target)
	})
	return sorted[0], true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DescribeWind puts the wind relative to the shot into words.
func DescribeWind(windDirection, shotBearing float64) string {
	angle := angleBetween(windDirection, shotBearing)
	switch {
	case angle < 45:
		return "Tailwind"
	case angle < 90:
		return "Quartering tailwind"
	case angle < 135:
		return "Quartering headwind"
	default:
		return "Headwind"
	}
}

// CompassName converts a bearing to one of eight compass points.
func CompassName(degrees float64) string {
	names := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	idx := int(math.Round(math.Mod(math.Mod(degrees, 360)+360, 360)/45)) % 8
	return names[idx]
}

// WeatherCondition maps a WMO weather code to a short label.
func WeatherCondition(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code <= 3:
		return "Partly Cloudy"
	case code <= 49:
		return "Foggy"
	case code <= 59:
		return "Drizzle"
	case code <= 69:
		return "Rain"
	case code <= 79:
		return "Snow"
	case code <= 99:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}
