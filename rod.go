package rbmk

import "math"

// ControlRod is one control rod (§3): a stable index, its channel
// back-reference, category, position in [0,1] (0 = fully inserted, 1 =
// fully withdrawn), nominal worth, and the position latched just before a
// scram (so a post-scram withdrawal history is still inspectable).
type ControlRod struct {
	Index                int
	ChannelIndex         int
	Category             RodCategory
	Position             float64
	NominalWorth         float64
	LatchedPreScramPosit float64
}

// buildRods creates one ControlRod per non-fuel channel in the layout, all
// starting fully inserted (the conservative cold-shutdown default).
func buildRods(layout *CoreLayout) []*ControlRod {
	rods := make([]*ControlRod, 0)
	for _, cat := range []RodCategory{
		CategoryManualRod, CategoryAutomaticRod, CategoryLocalAutomaticRod,
		CategoryShortenedRod, CategoryEmergencyRod,
	} {
		for _, chIdx := range layout.ChannelsByCategory(cat) {
			rods = append(rods, &ControlRod{
				Index:        len(rods),
				ChannelIndex: chIdx,
				Category:     cat,
				Position:     0,
				NominalWorth: cat.nominalWorth(),
			})
		}
	}
	return rods
}

// rodWorth implements the S-curve worth profile of §4.2:
// worth(p) = W_max·(1 − sin²(π·p/2)).
func rodWorth(position, wMax float64) float64 {
	s := math.Sin(math.Pi * position / 2)
	return wMax * (1 - s*s)
}

// totalRodWorth sums the S-curve worth of every rod in group, used as the
// "Σ rod-worth contributions" term of the reactivity target (§4.2).
func totalRodWorth(rods []*ControlRod) float64 {
	total := 0.0
	for _, r := range rods {
		total += rodWorth(r.Position, r.NominalWorth)
	}
	return total
}

// rodsInGroup filters rods by category.
func rodsInGroup(rods []*ControlRod, cat RodCategory) []*ControlRod {
	out := make([]*ControlRod, 0)
	for _, r := range rods {
		if r.Category == cat {
			out = append(out, r)
		}
	}
	return out
}

// setGroupPosition clamps and applies a position to every rod in a category.
// It does not touch LatchedPreScramPosit; latchPreScramPositions records
// that when a scram is triggered.
func setGroupPosition(rods []*ControlRod, cat RodCategory, position float64) {
	position = clamp(position, 0, 1)
	for _, r := range rods {
		if r.Category == cat {
			r.Position = position
		}
	}
}

// latchPreScramPositions records the current position of every rod as the
// pre-scram position, called once when a scram is first triggered.
func latchPreScramPositions(rods []*ControlRod) {
	for _, r := range rods {
		r.LatchedPreScramPosit = r.Position
	}
}
