package gamification

// levelThresholds is the ascending table of cumulative-point cutoffs.
// Index i holds the minimum points for level i+1. Level 1 is the floor and
// the last entry caps growth: points past it stay at the max level.
var levelThresholds = []int{0, 100, 250, 500, 1000, 2000, 3500, 5000, 7500, 10000}

// MaxLevel is the highest reachable level.
const MaxLevel = 10

// CalculateLevel returns the highest level whose threshold the given point
// total meets. Totals below the first threshold map to level 1.
func CalculateLevel(points int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if points >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// NextLevelThreshold returns the minimum points needed to reach level+1,
// clamped to the last threshold when level is at or past the max.
func NextLevelThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	if level >= len(levelThresholds) {
		return levelThresholds[len(levelThresholds)-1]
	}
	return levelThresholds[level]
}

// LevelProgress returns how far a point total has progressed from the given
// level's threshold toward the next one, as a percentage clamped to [0, 100].
// A user exactly at a level boundary reads 0; a total that has overrun the
// next threshold reads 100. At the max level progress is always 100.
func LevelProgress(points, level int) float64 {
	if level < 1 {
		level = 1
	}
	if level >= MaxLevel {
		return 100
	}

	current := levelThresholds[level-1]
	next := NextLevelThreshold(level)
	if next <= current {
		return 100
	}

	progress := float64(points-current) / float64(next-current) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
