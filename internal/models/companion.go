package models

import "time"

type StatusDimension string

const (
	DimensionEnergy       StatusDimension = "energy"
	DimensionHydration    StatusDimension = "hydration"
	DimensionSatisfaction StatusDimension = "satisfaction"
)

type MoodState string

const (
	MoodHappy     MoodState = "happy"
	MoodIdeal     MoodState = "ideal"
	MoodPlay      MoodState = "play"
	MoodSleepy    MoodState = "sleepy"
	MoodHungry    MoodState = "hungry"
	MoodPassedOut MoodState = "passedout"
)

// CompanionStatus holds the companion's three status dimensions and the
// timestamps they were last satisfied. Mutated only by the simulator.
type CompanionStatus struct {
	Energy       float64 `json:"energy"`
	Hydration    float64 `json:"hydration"`
	Satisfaction float64 `json:"satisfaction"`

	Happiness float64   `json:"happiness"`
	Stress    float64   `json:"stress"`
	Mood      MoodState `json:"mood"`

	LastBreakTime time.Time `json:"last_break_time"`
	LastWaterTime time.Time `json:"last_water_time"`
	LastMealTime  time.Time `json:"last_meal_time"`
}

// Dimension returns the current value of the named dimension.
func (s CompanionStatus) Dimension(d StatusDimension) float64 {
	switch d {
	case DimensionEnergy:
		return s.Energy
	case DimensionHydration:
		return s.Hydration
	case DimensionSatisfaction:
		return s.Satisfaction
	}
	return 0
}

// NewCompanionStatus returns a fully satisfied companion as of now.
func NewCompanionStatus(now time.Time) CompanionStatus {
	return CompanionStatus{
		Energy:        100,
		Hydration:     100,
		Satisfaction:  100,
		Happiness:     100,
		Mood:          MoodHappy,
		LastBreakTime: now,
		LastWaterTime: now,
		LastMealTime:  now,
	}
}
