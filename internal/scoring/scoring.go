// Package scoring holds the pure arithmetic behind score cards: hole sums and
// the quick-mode reconstruction. Nothing here touches the store.
package scoring

import (
	"math"

	"github.com/trentd187/proof/internal/models"
)

// Total sums every hole. Unset holes are 0, so they simply don't count.
func Total(holes []int) int {
	return sumRange(holes, 0, len(holes))
}

// FrontNine sums holes 1-9 (indices 0..8).
func FrontNine(holes []int) int {
	return sumRange(holes, 0, 9)
}

// BackNine sums holes 10-18 (indices 9..17).
func BackNine(holes []int) int {
	return sumRange(holes, 9, models.HolesPerRound)
}

func sumRange(holes []int, from, to int) int {
	to = min(to, len(holes))
	sum := 0
	for i := from; i < to; i++ {
		if holes[i] > 0 {
			sum += holes[i]
		}
	}
	return sum
}

// QuickModeHoles back-fills an 18-hole card from nine-hole totals.
// Each front hole gets round(front/9) and each back hole round(back/9).
// This is an approximation: the result is not what was played and its sum can
// differ from front+back by rounding, which is why quick-mode cards carry
// Score.Estimated and keep front+back as their total.
func QuickModeHoles(front, back int) []int {
	holes := make([]int, models.HolesPerRound)
	f := int(math.Round(float64(front) / 9))
	b := int(math.Round(float64(back) / 9))
	for i := range holes {
		if i < 9 {
			holes[i] = f
		} else {
			holes[i] = b
		}
	}
	return holes
}

// NormalizeHoles returns an 18-length copy of holes: short cards are padded
// with zeros, long ones truncated, negative values clamped to 0.
func NormalizeHoles(holes []int) []int {
	out := make([]int, models.HolesPerRound)
	for i := 0; i < len(out) && i < len(holes); i++ {
		out[i] = max(holes[i], 0)
	}
	return out
}
