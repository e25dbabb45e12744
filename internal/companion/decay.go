package companion

import "github.com/mayatruitt/habitpal/internal/models"

// DecayParams tune how quickly a status dimension falls once its goal
// category stops being satisfied.
type DecayParams struct {
	ThresholdHours float64 // grace window before accelerated loss
	RatePerHour    float64 // points lost per hour past the threshold
	Floor          float64 // value never drops below this
}

// Per-dimension defaults. These values are load-bearing: saved statuses
// from earlier versions assume them, so changing one changes every
// recomputed status.
var decayDefaults = map[models.StatusDimension]DecayParams{
	models.DimensionHydration:    {ThresholdHours: 1, RatePerHour: 15, Floor: 20},
	models.DimensionSatisfaction: {ThresholdHours: 3, RatePerHour: 10, Floor: 20},
	models.DimensionEnergy:       {ThresholdHours: 2, RatePerHour: 12, Floor: 20},
}

// Decay maps hours since a dimension was last satisfied to a 0-100 status
// value. Within the grace window the loss is linear up to 30 points; past
// it the dimension falls from 70 at the per-hour rate, never below the
// floor.
func Decay(hoursSince float64, p DecayParams) float64 {
	if hoursSince <= 0 {
		return 100
	}
	if hoursSince <= p.ThresholdHours {
		v := 100 - (hoursSince/p.ThresholdHours)*30
		if v < p.Floor {
			return p.Floor
		}
		return v
	}
	v := 70 - (hoursSince-p.ThresholdHours)*p.RatePerHour
	if v < p.Floor {
		return p.Floor
	}
	return v
}

// Params returns the decay parameters for a dimension.
func Params(d models.StatusDimension) DecayParams {
	return decayDefaults[d]
}
