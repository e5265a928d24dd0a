// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the gamification engine.
var (
	// Counters.
	PointsAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_points_awarded_total",
			Help: "Total points awarded, by action kind",
		},
		[]string{"action"},
	)

	AwardsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_awards_total",
			Help: "Total point award operations, by action kind and outcome",
		},
		[]string{"action", "status"},
	)

	BadgesAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_badges_awarded_total",
			Help: "Total badges awarded, by badge slug",
		},
		[]string{"badge"},
	)

	LevelUpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_level_ups_total",
			Help: "Total level-up events, by level reached",
		},
		[]string{"level"},
	)

	LeaderboardCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamification_leaderboard_cache_hits_total",
			Help: "Leaderboard requests served from cache",
		},
	)

	LeaderboardCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamification_leaderboard_cache_misses_total",
			Help: "Leaderboard requests that fell through to the database",
		},
	)

	// Gauges.
	BadgeHolders = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gamification_badge_holders",
			Help: "Current number of users holding each badge",
		},
		[]string{"badge"},
	)

	// Histograms.
	AwardDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gamification_award_duration_seconds",
			Help:    "Duration of the full award-plus-badge-evaluation path",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)
)

// RecordAward increments the award counters for one completed award.
func RecordAward(action string, points int) {
	AwardsTotal.WithLabelValues(action, "success").Inc()
	PointsAwardedTotal.WithLabelValues(action).Add(float64(points))
}

// RecordAwardFailure increments the award counter for a failed award.
func RecordAwardFailure(action string) {
	AwardsTotal.WithLabelValues(action, "error").Inc()
}

// RecordBadgeAwarded increments the badge award counter.
func RecordBadgeAwarded(badge string) {
	BadgesAwardedTotal.WithLabelValues(badge).Inc()
}

// SetBadgeHolders sets the holder gauge for a badge.
func SetBadgeHolders(badge string, count int) {
	BadgeHolders.WithLabelValues(badge).Set(float64(count))
}

// RecordLevelUp increments the level-up counter. Levels are bounded by the
// threshold table, so label cardinality stays small.
func RecordLevelUp(level int) {
	LevelUpsTotal.WithLabelValues(strconv.Itoa(level)).Inc()
}
