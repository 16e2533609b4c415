package scoring

import (
	"math"
	"testing"
)

func TestHoleSums(t *testing.T) {
	tests := []struct {
		name      string
		holes     []int
		wantFront int
		wantBack  int
	}{
		{
			name:      "full card",
			holes:     []int{4, 5, 3, 4, 6, 4, 5, 3, 4, 5, 4, 4, 3, 5, 6, 4, 3, 5},
			wantFront: 38,
			wantBack:  39,
		},
		{
			name:      "unset holes count as zero",
			holes:     []int{4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 7},
			wantFront: 4,
			wantBack:  7,
		},
		{
			name:      "empty card",
			holes:     make([]int, 18),
			wantFront: 0,
			wantBack:  0,
		},
		{
			name:      "short card only has a front",
			holes:     []int{5, 5, 5},
			wantFront: 15,
			wantBack:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			front := FrontNine(tt.holes)
			back := BackNine(tt.holes)
			if front != tt.wantFront {
				t.Errorf("FrontNine = %d, want %d", front, tt.wantFront)
			}
			if back != tt.wantBack {
				t.Errorf("BackNine = %d, want %d", back, tt.wantBack)
			}
			// total == front + back for any card of at most 18 holes
			if total := Total(tt.holes); total != front+back {
				t.Errorf("Total = %d, want front+back = %d", total, front+back)
			}
		})
	}
}

func TestQuickModeHoles(t *testing.T) {
	holes := QuickModeHoles(45, 40)
	if len(holes) != 18 {
		t.Fatalf("len = %d, want 18", len(holes))
	}
	for i := 0; i < 9; i++ {
		if holes[i] != 5 {
			t.Errorf("front hole %d = %d, want 5", i+1, holes[i])
		}
	}
	for i := 9; i < 18; i++ {
		if holes[i] != 4 {
			t.Errorf("back hole %d = %d, want 4 (round(40/9))", i+1, holes[i])
		}
	}
	// The reconstruction is lossy: 9*4 = 36, not 40.
	if BackNine(holes) == 40 {
		t.Error("expected back nine reconstruction to differ from the entered total")
	}
}

func TestNormalizeHoles(t *testing.T) {
	got := NormalizeHoles([]int{3, -2, 5})
	if len(got) != 18 {
		t.Fatalf("len = %d, want 18", len(got))
	}
	if got[0] != 3 || got[1] != 0 || got[2] != 5 || got[17] != 0 {
		t.Errorf("unexpected normalized card: %v", got)
	}
}

func TestAdjustedDistance(t *testing.T) {
	t.Run("baseline conditions leave distance unchanged", func(t *testing.T) {
		adj := ComputeAdjustments(Conditions{TemperatureF: 70, WindSpeedMPH: 0, WindDirection: 90}, 0, 0)
		if adj.Sum() != 0 {
			t.Fatalf("adjustment sum = %v, want 0", adj.Sum())
		}
		for _, base := range []int{80, 150, 230} {
			if got := AdjustedDistance(float64(base), adj); got != base {
				t.Errorf("AdjustedDistance(%d) = %d, want %d", base, got, base)
			}
		}
	})

	t.Run("temperature is 1.3 percent per 10 degrees", func(t *testing.T) {
		if got := TempAdjustment(80); math.Abs(got-1.3) > 1e-9 {
			t.Errorf("TempAdjustment(80) = %v, want 1.3", got)
		}
		if got := TempAdjustment(50); math.Abs(got+2.6) > 1e-9 {
			t.Errorf("TempAdjustment(50) = %v, want -2.6", got)
		}
	})

	t.Run("tailwind is half strength, headwind full strength", func(t *testing.T) {
		if got := WindAdjustment(10, 0, 0); math.Abs(got-5) > 1e-9 {
			t.Errorf("tailwind = %v, want 5", got)
		}
		if got := WindAdjustment(10, 180, 0); math.Abs(got+10) > 1e-9 {
			t.Errorf("headwind = %v, want -10", got)
		}
		// bearings wrap: 350 vs 10 is a 20 degree difference
		if got, want := WindAdjustment(10, 350, 10), 10*math.Cos(20*math.Pi/180)*0.5; math.Abs(got-want) > 1e-9 {
			t.Errorf("wrapped tailwind = %v, want %v", got, want)
		}
		if got := WindAdjustment(10, 90, 0); math.Abs(got) > 1e-9 {
			t.Errorf("crosswind = %v, want 0", got)
		}
	})

	t.Run("altitude is 2 percent per 1000 feet", func(t *testing.T) {
		if got := AltitudeAdjustment(800); math.Abs(got-1.6) > 1e-9 {
			t.Errorf("AltitudeAdjustment(800) = %v, want 1.6", got)
		}
	})

	t.Run("combined", func(t *testing.T) {
		// 80F (+1.3), 10 mph dead headwind (-10), 1000 ft (+2) => -6.7%
		adj := ComputeAdjustments(Conditions{TemperatureF: 80, WindSpeedMPH: 10, WindDirection: 180}, 1000, 0)
		if got := AdjustedDistance(150, adj); got != 140 {
			t.Errorf("AdjustedDistance = %d, want 140", got)
		}
	})
}

func TestRecommendClub(t *testing.T) {
	bag := AdjustBag(DefaultBag(), Adjustments{})
	club, ok := RecommendClub(bag, 152)
	if !ok {
		t.Fatal("expected a recommendation")
	}
	if club.Name != "8 Iron" {
		t.Errorf("recommended %s, want 8 Iron", club.Name)
	}

	if _, ok := RecommendClub(nil, 150); ok {
		t.Error("expected no recommendation for an empty bag")
	}
}

func TestCompassName(t *testing.T) {
	tests := map[float64]string{0: "N", 44: "NE", 180: "S", 350: "N", -90: "W", 270: "W"}
	for deg, want := range tests {
		if got := CompassName(deg); got != want {
			t.Errorf("CompassName(%v) = %s, want %s", deg, got, want)
		}
	}
}

func TestDescribeWind(t *testing.T) {
	if got := DescribeWind(0, 10); got != "Tailwind" {
		t.Errorf("got %s, want Tailwind", got)
	}
	if got := DescribeWind(180, 0); got != "Headwind" {
		t.Errorf("got %s, want Headwind", got)
	}
}
