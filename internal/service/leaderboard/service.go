// Package leaderboard provides ranked and historical read-side views over
// the point ledger and summaries.
package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ailyceum/lyceum-backend/internal/cache"
	prommetrics "github.com/ailyceum/lyceum-backend/internal/metrics"
	"github.com/ailyceum/lyceum-backend/internal/models"
	"github.com/ailyceum/lyceum-backend/internal/repository"
	"github.com/ailyceum/lyceum-backend/pkg/logger"
)

// PointRepository is the summary and ledger read surface this service needs.
type PointRepository interface {
	Leaderboard(limit int) ([]models.UserPointSummary, error)
	RecentTransactions(userID uint, limit int) ([]models.PointTransaction, error)
}

// Entry is one leaderboard row.
type Entry struct {
	Rank        int  `json:"rank"`
	UserID      uint `json:"user_id"`
	TotalPoints int  `json:"total_points"`
	Level       int  `json:"level"`
}

// Service serves leaderboards and point history, caching the leaderboard in
// Redis. Callers hook Invalidate into the award path so rankings never serve
// stale for longer than one award.
type Service struct {
	points   PointRepository
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewService creates a leaderboard service with concrete repository types.
func NewService(points *repository.PointRepository, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{points: points, cache: c, cacheTTL: cacheTTL, log: log}
}

// NewServiceWithInterfaces creates a leaderboard service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(points PointRepository, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{points: points, cache: c, cacheTTL: cacheTTL, log: log}
}

func leaderboardKey(limit int) string {
	return fmt.Sprintf("leaderboard:top:%d", limit)
}

// GetLeaderboard returns the top users by total points descending, ties
// broken by user id ascending. Results are cached per limit.
func (s *Service) GetLeaderboard(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	key := leaderboardKey(limit)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var entries []Entry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				prommetrics.LeaderboardCacheHitsTotal.Inc()
				return entries, nil
			}
			// Unreadable payload: fall through and overwrite it.
			s.log.Warn().Str("key", key).Msg("Discarding corrupt leaderboard cache entry")
		}
	}
	prommetrics.LeaderboardCacheMissesTotal.Inc()

	summaries, err := s.points.Leaderboard(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(summaries))
	for i, summary := range summaries {
		entries = append(entries, Entry{
			Rank:        i + 1,
			UserID:      summary.UserID,
			TotalPoints: summary.TotalPoints,
			Level:       summary.Level,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("Failed to cache leaderboard")
			}
		}
	}

	return entries, nil
}

// GetRecentTransactions returns the newest ledger entries for a user, newest
// first. A user with no history gets an empty list.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetRecentTransactions(ctx context.Context, userID uint, limit int) ([]models.PointTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	txns, err := s.points.RecentTransactions(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txns, nil
}

// Invalidate drops cached leaderboards after an award changes the rankings.
// Only commonly requested limits are tracked; others age out via TTL.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, limit := range []int{3, 5, 10, 25, 50, 100} {
		if err := s.cache.Delete(ctx, leaderboardKey(limit)); err != nil {
			// Keep going: a failed delete only delays that key until TTL.
			s.log.Warn().Err(err).Int("limit", limit).Msg("Failed to invalidate leaderboard cache")
		}
	}
}
