package analytics

import (
	"testing"
	"time"

	"github.com/mayatruitt/habitpal/internal/clock"
	"github.com/mayatruitt/habitpal/internal/models"
)

func completedEntry(goalID, subtype string, at time.Time) models.GoalEntry {
	return models.GoalEntry{
		ID:            "entry",
		GoalID:        goalID,
		ScheduledTime: at,
		Completed:     true,
		Timestamp:     &at,
		Subtype:       subtype,
	}
}

func TestWeekStart_Monday(t *testing.T) {
	// 2026-03-04 is a Wednesday; the week starts Monday 2026-03-02.
	wed := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)
	got := WeekStart(wed)
	want := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// A Monday is its own week start; a Sunday belongs to the prior Monday.
	mon := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)
	if !WeekStart(mon).Equal(want) {
		t.Errorf("Monday should be its own week start")
	}
	sun := time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)
	if !WeekStart(sun).Equal(want) {
		t.Errorf("Sunday should map back to the prior Monday")
	}
}

func TestRecordProgress_LazyBucketCreation(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	clk := clock.NewFake(now)
	agg := NewAggregator(clk, CountDistinct)
	goal := models.Goal{ID: "g1", TargetCount: 5}

	if _, ok := agg.Bucket("g1"); ok {
		t.Fatal("expected no bucket before the first record")
	}

	agg.RecordProgress(goal, completedEntry("g1", "", now))

	b, ok := agg.Bucket("g1")
	if !ok {
		t.Fatal("expected bucket after first record")
	}
	if b.WeekStartDate != "2026-03-02" {
		t.Errorf("expected week start 2026-03-02, got %s", b.WeekStartDate)
	}
	if len(b.Days) != 7 {
		t.Fatalf("expected 7 day buckets, got %d", len(b.Days))
	}
	if b.Days[2].Date != "2026-03-04" || b.Days[2].CompletedCount != 1 {
		t.Errorf("expected today's bucket to hold the completion, got %+v", b.Days[2])
	}
	if len(b.Days[2].CompletionTimes) != 1 {
		t.Errorf("expected the completion timestamp to be recorded")
	}
}

func TestRecordProgress_IgnoresUncompleted(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	agg := NewAggregator(clock.NewFake(now), CountDistinct)

	agg.RecordProgress(models.Goal{ID: "g1", TargetCount: 5}, models.GoalEntry{GoalID: "g1", ScheduledTime: now})

	if _, ok := agg.Bucket("g1"); ok {
		t.Fatal("an uncompleted entry must not create a bucket")
	}
}

func TestWeeklyCompletionRate_NotClamped(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	clk := clock.NewFake(now)
	agg := NewAggregator(clk, CountAll)
	goal := models.Goal{ID: "g1", TargetCount: 5}

	// Six completions against a target of five: overachievement.
	for i := 0; i < 6; i++ {
		agg.RecordProgress(goal, completedEntry("g1", "", now))
	}

	if agg.DailyCompletionRate("g1") <= 1.0 {
		t.Fatalf("expected daily rate above 1.0, got %v", agg.DailyCompletionRate("g1"))
	}

	b, _ := agg.Bucket("g1")
	if b.Days[2].CompletedCount != 6 {
		t.Fatalf("expected uncapped count 6, got %d", b.Days[2].CompletedCount)
	}
}

func TestCountPolicy_DistinctVsAll(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	goal := models.Goal{ID: "g1", Category: models.CategoryMeal, TargetCount: 5}

	distinct := NewAggregator(clock.NewFake(now), CountDistinct)
	distinct.RecordProgress(goal, completedEntry("g1", "lunch", now))
	distinct.RecordProgress(goal, completedEntry("g1", "lunch", now))
	b, _ := distinct.Bucket("g1")
	if b.Days[2].CompletedCount != 1 {
		t.Errorf("distinct: expected 1, got %d", b.Days[2].CompletedCount)
	}

	all := NewAggregator(clock.NewFake(now), CountAll)
	all.RecordProgress(goal, completedEntry("g1", "lunch", now))
	all.RecordProgress(goal, completedEntry("g1", "lunch", now))
	b, _ = all.Bucket("g1")
	if b.Days[2].CompletedCount != 2 {
		t.Errorf("count-all: expected 2, got %d", b.Days[2].CompletedCount)
	}
}

func TestPruneToCurrentWeek(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	clk := clock.NewFake(now)
	agg := NewAggregator(clk, CountDistinct)

	stale := models.WeeklyBucket{GoalID: "old", WeekStartDate: "2026-02-16"} // two weeks prior
	current := models.WeeklyBucket{GoalID: "new", WeekStartDate: "2026-03-02"}
	agg.Load([]models.WeeklyBucket{stale, current})

	if _, ok := agg.Bucket("old"); ok {
		t.Error("expected the two-week-old bucket to be purged")
	}
	if _, ok := agg.Bucket("new"); !ok {
		t.Error("expected the current-week bucket to survive")
	}
}

func TestIsPerfectWeek_OnlyCountsThroughToday(t *testing.T) {
	// Wednesday: Monday through Wednesday must meet target, later days
	// are not required.
	now := time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC)
	clk := clock.NewFake(now)
	agg := NewAggregator(clk, CountDistinct)

	bucket := models.WeeklyBucket{GoalID: "g1", WeekStartDate: "2026-03-02"}
	for i := 0; i < 7; i++ {
		bucket.Days[i] = models.DayBucket{
			Date:        time.Date(2026, 3, 2+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			TargetCount: 1,
		}
	}
	bucket.Days[0].CompletedCount = 1
	bucket.Days[1].CompletedCount = 1
	bucket.Days[2].CompletedCount = 1
	agg.Load([]models.WeeklyBucket{bucket})

	if !agg.IsPerfectWeek("g1") {
		t.Fatal("expected a perfect week through Wednesday")
	}

	// A miss on Tuesday breaks it.
	bucket.Days[1].CompletedCount = 0
	agg.Load([]models.WeeklyBucket{bucket})
	if agg.IsPerfectWeek("g1") {
		t.Fatal("expected Tuesday's miss to break the perfect week")
	}
}

func TestIsPerfectDay(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	clk := clock.NewFake(now)
	agg := NewAggregator(clk, CountDistinct)
	goal := models.Goal{ID: "g1", TargetCount: 2}

	agg.RecordProgress(goal, completedEntry("g1", "", now))
	if agg.IsPerfectDay("g1") {
		t.Fatal("one of two completions is not a perfect day")
	}
	agg.RecordProgress(goal, completedEntry("g1", "", now))
	if !agg.IsPerfectDay("g1") {
		t.Fatal("expected a perfect day at target")
	}
}
