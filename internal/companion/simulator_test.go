package companion

import (
	"testing"
	"time"

	"github.com/mayatruitt/habitpal/internal/clock"
	"github.com/mayatruitt/habitpal/internal/models"
)

type recordingSink struct {
	models.NopSink
	statusChanges []models.StatusChanged
	moodChanges   []models.MoodChanged
}

func (r *recordingSink) StatusChanged(e models.StatusChanged) {
	r.statusChanges = append(r.statusChanges, e)
}

func (r *recordingSink) MoodChanged(e models.MoodChanged) {
	r.moodChanges = append(r.moodChanges, e)
}

func TestDecay_WithinGraceWindow(t *testing.T) {
	// Hydration 30 minutes after the last drink: linear loss of half the
	// 30-point grace budget.
	got := Decay(0.5, Params(models.DimensionHydration))
	if got != 85 {
		t.Fatalf("expected 85, got %v", got)
	}
}

func TestDecay_PastThreshold(t *testing.T) {
	// Hydration 3h after the last drink (2h past the 1h threshold):
	// 70 - 2*15 = 40.
	got := Decay(3, Params(models.DimensionHydration))
	if got != 40 {
		t.Fatalf("expected 40, got %v", got)
	}
}

func TestDecay_NeverBelowFloor(t *testing.T) {
	got := Decay(100, Params(models.DimensionEnergy))
	if got != 20 {
		t.Fatalf("expected floor of 20, got %v", got)
	}
}

func TestDecay_JustSatisfied(t *testing.T) {
	if got := Decay(0, Params(models.DimensionSatisfaction)); got != 100 {
		t.Fatalf("expected 100 for zero elapsed, got %v", got)
	}
	if got := Decay(-1, Params(models.DimensionSatisfaction)); got != 100 {
		t.Fatalf("expected 100 for negative elapsed, got %v", got)
	}
}

func TestMoodFor_OrderingLowEnergyWins(t *testing.T) {
	// Energy 20 with everything else high: the passedout rule fires
	// before the hungry and low-hydration rules further down.
	if got := moodFor(20, 90, 90); got != models.MoodPassedOut {
		t.Fatalf("expected passedout, got %s", got)
	}
}

func TestMoodFor_Table(t *testing.T) {
	cases := []struct {
		name                            string
		energy, hydration, satisfaction float64
		want                            models.MoodState
	}{
		{"all high", 80, 80, 80, models.MoodHappy},
		{"energetic", 72, 60, 60, models.MoodPlay},
		{"steady", 60, 60, 60, models.MoodIdeal},
		{"exhausted", 25, 90, 90, models.MoodPassedOut},
		{"tired", 45, 90, 90, models.MoodSleepy},
		{"hungry", 60, 90, 30, models.MoodHungry},
		{"dehydrated", 60, 35, 60, models.MoodPassedOut},
		{"high energy low hydration high satisfaction", 90, 45, 90, models.MoodIdeal},
	}

	for _, tc := range cases {
		if got := moodFor(tc.energy, tc.hydration, tc.satisfaction); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestRecomputeStatus_AppliesDecayPerDimension(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	sim := NewSimulator(models.NewCompanionStatus(start), clk, nil)

	// 3 hours on: hydration 70-2*15=40, energy 70-1*12=58,
	// satisfaction 100-(3/3)*30=70.
	clk.Advance(3 * time.Hour)
	sim.RecomputeStatus(clk.Now())

	st := sim.Status()
	if st.Hydration != 40 {
		t.Errorf("hydration: expected 40, got %v", st.Hydration)
	}
	if st.Energy != 58 {
		t.Errorf("energy: expected 58, got %v", st.Energy)
	}
	if st.Satisfaction != 70 {
		t.Errorf("satisfaction: expected 70, got %v", st.Satisfaction)
	}
}

func TestOnGoalCompleted_ForcesDimensionTo100(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	sim := NewSimulator(models.NewCompanionStatus(start), clk, nil)

	clk.Advance(5 * time.Hour)
	sim.RecomputeStatus(clk.Now())
	if sim.Status().Hydration == 100 {
		t.Fatal("expected hydration to have decayed before completion")
	}

	sim.OnGoalCompleted(models.CategoryWater)

	st := sim.Status()
	if st.Hydration != 100 {
		t.Errorf("hydration: expected 100 after water goal, got %v", st.Hydration)
	}
	if !st.LastWaterTime.Equal(clk.Now()) {
		t.Errorf("expected last water time to move to now")
	}
	// The other dimensions are untouched by a water completion.
	if st.Energy == 100 {
		t.Errorf("energy should not be reset by a water completion")
	}
}

func TestStatusChanged_ReportedOncePerChange(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	sink := &recordingSink{}
	sim := NewSimulator(models.NewCompanionStatus(start), clk, sink)

	// Small drift below the 5-point reporting threshold: no events.
	clk.Advance(5 * time.Minute)
	sim.RecomputeStatus(clk.Now())
	if len(sink.statusChanges) != 0 {
		t.Fatalf("expected no status events for a small drift, got %d", len(sink.statusChanges))
	}

	// Recomputing twice at the same instant must not report twice.
	clk.Advance(time.Hour)
	sim.RecomputeStatus(clk.Now())
	n := len(sink.statusChanges)
	if n == 0 {
		t.Fatal("expected status events after an hour of decay")
	}
	sim.RecomputeStatus(clk.Now())
	if len(sink.statusChanges) != n {
		t.Fatalf("expected no duplicate events, got %d extra", len(sink.statusChanges)-n)
	}
}

func TestMoodChanged_EmittedOnTransition(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	sink := &recordingSink{}
	sim := NewSimulator(models.NewCompanionStatus(start), clk, sink)

	clk.Advance(8 * time.Hour)
	sim.RecomputeStatus(clk.Now())

	if len(sink.moodChanges) == 0 {
		t.Fatal("expected a mood transition after 8 hours of neglect")
	}
	last := sink.moodChanges[len(sink.moodChanges)-1]
	if last.New == models.MoodHappy {
		t.Fatalf("expected mood to have left happy, got %s", last.New)
	}
}

func TestStart_NonPositiveIntervalDoesNotPanic(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	sim := NewSimulator(models.NewCompanionStatus(start), clk, nil)

	// A settings document missing tick_interval_sec unmarshals to zero;
	// the tick must fall back to the default rather than crash.
	sim.Start(0)
	sim.Stop()
}
