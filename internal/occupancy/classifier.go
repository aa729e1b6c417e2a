package occupancy

import "github.com/roomsense/occupancy-backend-go/internal/models"

// Profile fixes a deployment's tier set and boundaries. Boundaries are
// ascending and inclusive on the lower tier side: count <= Boundaries[i]
// belongs to Bands[i], anything above the last boundary lands in the last
// band. A count of zero is always TierEmpty.
type Profile struct {
	// Bands are the tiers above Empty, lowest first.
	// len(Bands) == len(Boundaries)+1; the last band is open-ended.
	Bands      []models.OccupancyTier
	Boundaries []int

	// Fractions, when non-empty, switch rooms with a known capacity to
	// count/capacity classification against these boundary fractions.
	// Rooms without a capacity still use the absolute Boundaries. The
	// choice is made per deployment at construction, never per row.
	Fractions []float64
}

// ThreeTierProfile partitions counts into {Empty, Moderate, Full}:
// 0 → Empty, 1..lowBound → Moderate, above → Full.
func ThreeTierProfile(lowBound int) Profile {
	return Profile{
		Bands:      []models.OccupancyTier{models.TierModerate, models.TierFull},
		Boundaries: []int{lowBound},
	}
}

// FourTierProfile partitions counts into {Empty, Light, Moderate, Busy}:
// 0 → Empty, 1..lightBound → Light, lightBound+1..moderateBound → Moderate,
// above → Busy.
func FourTierProfile(lightBound, moderateBound int) Profile {
	return Profile{
		Bands:      []models.OccupancyTier{models.TierLight, models.TierModerate, models.TierBusy},
		Boundaries: []int{lightBound, moderateBound},
	}
}

// Classifier maps counts to occupancy tiers. Total over non-negative counts:
// every count lands in exactly one tier, and the mapping is monotone.
type Classifier struct {
	profile    Profile
	capacities map[string]int
}

// NewClassifier creates a classifier for the given profile. The capacity map
// may be nil or partial; rooms absent from it classify by absolute count.
// A fraction list longer than the band list cannot map to a tier, so extra
// fractions are dropped here and Classify stays total.
func NewClassifier(profile Profile, capacities map[string]int) *Classifier {
	if len(profile.Fractions) > len(profile.Bands) {
		profile.Fractions = profile.Fractions[:len(profile.Bands)]
	}
	return &Classifier{profile: profile, capacities: capacities}
}

// Classify returns the tier for one room's current count.
func (c *Classifier) Classify(roomID string, count int) models.OccupancyTier {
	if count <= 0 {
		return models.TierEmpty
	}
	if len(c.profile.Fractions) > 0 {
		if capacity, ok := c.capacities[roomID]; ok && capacity > 0 {
			ratio := float64(count) / float64(capacity)
			for i, f := range c.profile.Fractions {
				if ratio <= f {
					return c.profile.Bands[i]
				}
			}
			return c.profile.Bands[len(c.profile.Bands)-1]
		}
	}
	for i, bound := range c.profile.Boundaries {
		if count <= bound {
			return c.profile.Bands[i]
		}
	}
	return c.profile.Bands[len(c.profile.Bands)-1]
}
