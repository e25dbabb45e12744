package rewards

import "github.com/mayatruitt/habitpal/internal/models"

// levelTargets holds the numeric target per achievement type and level.
// Each level is stricter than the one before it.
var levelTargets = map[models.AchievementType]map[models.AchievementLevel]float64{
	models.AchievementWaterStreak:   {models.LevelBronze: 3, models.LevelSilver: 7, models.LevelGold: 14, models.LevelPlatinum: 30},
	models.AchievementMealStreak:    {models.LevelBronze: 3, models.LevelSilver: 7, models.LevelGold: 14, models.LevelPlatinum: 30},
	models.AchievementBreakStreak:   {models.LevelBronze: 3, models.LevelSilver: 7, models.LevelGold: 14, models.LevelPlatinum: 30},
	models.AchievementCompanionCare: {models.LevelBronze: 10, models.LevelSilver: 50, models.LevelGold: 150, models.LevelPlatinum: 365},
	models.AchievementConsistency:   {models.LevelBronze: 5, models.LevelSilver: 14, models.LevelGold: 30, models.LevelPlatinum: 90},
	models.AchievementPerfectDay:    {models.LevelBronze: 1, models.LevelSilver: 7, models.LevelGold: 30, models.LevelPlatinum: 100},
	models.AchievementPerfectWeek:   {models.LevelBronze: 1, models.LevelSilver: 4, models.LevelGold: 12, models.LevelPlatinum: 52},
}

var basePoints = map[models.AchievementType]int{
	models.AchievementWaterStreak:   100,
	models.AchievementMealStreak:    100,
	models.AchievementBreakStreak:   100,
	models.AchievementCompanionCare: 50,
	models.AchievementConsistency:   150,
	models.AchievementPerfectDay:    50,
	models.AchievementPerfectWeek:   200,
}

var levelMultipliers = map[models.AchievementLevel]int{
	models.LevelBronze:   1,
	models.LevelSilver:   2,
	models.LevelGold:     3,
	models.LevelPlatinum: 5,
}

// AchievementTypes lists every type in catalog order.
var AchievementTypes = []models.AchievementType{
	models.AchievementWaterStreak,
	models.AchievementMealStreak,
	models.AchievementBreakStreak,
	models.AchievementCompanionCare,
	models.AchievementConsistency,
	models.AchievementPerfectDay,
	models.AchievementPerfectWeek,
}

// Target returns the numeric target for a type and level.
func Target(t models.AchievementType, l models.AchievementLevel) float64 {
	return levelTargets[t][l]
}

// Points returns the score granted for completing a type at a level.
func Points(t models.AchievementType, l models.AchievementLevel) int {
	return basePoints[t] * levelMultipliers[l]
}

// streakTypeFor maps a goal category to its streak achievement type.
func streakTypeFor(category models.GoalCategory) (models.AchievementType, bool) {
	switch category {
	case models.CategoryWater:
		return models.AchievementWaterStreak, true
	case models.CategoryMeal:
		return models.AchievementMealStreak, true
	case models.CategoryBreak:
		return models.AchievementBreakStreak, true
	}
	return "", false
}
