// Package gamification implements the Lyceum point, level and badge engine.
//
// Every tracked user action flows through AwardPoints: the action is mapped
// to a point value, a ledger entry is appended, the per-user summary is
// updated, and badge eligibility is re-evaluated inside one database
// transaction holding a row lock on the user's summary, so concurrent awards
// for the same user serialize instead of losing updates.
package gamification

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	prommetrics "github.com/ailyceum/lyceum-backend/internal/metrics"
	"github.com/ailyceum/lyceum-backend/internal/models"
	"github.com/ailyceum/lyceum-backend/internal/repository"
	"github.com/ailyceum/lyceum-backend/pkg/logger"
)

// Service is the gamification engine.
type Service struct {
	db      *repository.DB
	points  *repository.PointRepository
	badges  *repository.BadgeRepository
	stats   *repository.StatsRepository
	catalog []models.Badge
	log     *logger.Logger

	// onAward is called after a successful award, outside the transaction.
	// The leaderboard service hooks cache invalidation here.
	onAward func(ctx context.Context, userID uint)
}

// NewService creates a gamification service seeding from the built-in
// catalog.
func NewService(
	db *repository.DB,
	points *repository.PointRepository,
	badges *repository.BadgeRepository,
	stats *repository.StatsRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		db:      db,
		points:  points,
		badges:  badges,
		stats:   stats,
		catalog: defaultCatalog,
		log:     log,
	}
}

// WithCatalog replaces the seed catalog, e.g. with one loaded from a YAML
// override file.
func (s *Service) WithCatalog(catalog []models.Badge) *Service {
	s.catalog = catalog
	return s
}

// OnAward registers a hook invoked after every successful award.
func (s *Service) OnAward(fn func(ctx context.Context, userID uint)) {
	s.onAward = fn
}

// AwardOptions carries the optional fields of an award.
type AwardOptions struct {
	// Description overrides the action's default ledger description.
	Description string
	// ResourceType and ResourceID loosely reference the triggering entity.
	// No referential integrity is enforced on them.
	ResourceType string
	ResourceID   uint
}

// AwardResult reports what an award changed.
type AwardResult struct {
	// PointsAwarded is the action's point value, excluding badge bonuses.
	PointsAwarded int `json:"points_awarded"`
	// NewLevel is set only when the user's level strictly increased during
	// this call, so a caller can fire a level-up notification exactly once
	// per crossing. Zero means no change.
	NewLevel int `json:"new_level,omitempty"`
	// NewBadges lists the names of badges earned during this call, in
	// catalog order.
	NewBadges []string `json:"new_badges,omitempty"`
}

// AwardPoints records a point-earning action for a user: ledger append,
// summary update and badge re-evaluation in a single transaction.
func (s *Service) AwardPoints(ctx context.Context, userID uint, action models.PointAction, opts *AwardOptions) (*AwardResult, error) {
	def, err := lookupAction(action)
	if err != nil {
		prommetrics.RecordAwardFailure(string(action))
		return nil, err
	}

	description := def.description
	var resourceType string
	var resourceID uint
	if opts != nil {
		if opts.Description != "" {
			description = opts.Description
		}
		resourceType = opts.ResourceType
		resourceID = opts.ResourceID
	}

	start := time.Now()
	result := &AwardResult{PointsAwarded: def.points}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		points := s.points.WithTx(tx)
		badges := s.badges.WithTx(tx)
		stats := s.stats.WithTx(tx)

		summary, levelBefore, err := s.credit(points, userID, creditRequest{
			points:       def.points,
			action:       action,
			description:  description,
			resourceType: resourceType,
			resourceID:   resourceID,
		})
		if err != nil {
			return err
		}

		// A new action may have moved an aggregate a badge depends on, so
		// re-evaluation is unconditional.
		newBadges, err := s.evaluateBadges(points, badges, stats, userID, summary)
		if err != nil {
			return err
		}
		result.NewBadges = newBadges

		if summary.Level > levelBefore {
			result.NewLevel = summary.Level
		}
		return nil
	})
	if err != nil {
		prommetrics.RecordAwardFailure(string(action))
		return nil, fmt.Errorf("failed to award points: %w", err)
	}

	prommetrics.RecordAward(string(action), def.points)
	prommetrics.AwardDurationSeconds.Observe(time.Since(start).Seconds())
	if result.NewLevel > 0 {
		prommetrics.RecordLevelUp(result.NewLevel)
	}

	s.log.Debug().
		Uint("user_id", userID).
		Str("action", string(action)).
		Int("points", def.points).
		Int("new_level", result.NewLevel).
		Strs("new_badges", result.NewBadges).
		Msg("Points awarded")

	if s.onAward != nil {
		s.onAward(ctx, userID)
	}
	return result, nil
}

// creditRequest is one ledger-plus-summary mutation.
type creditRequest struct {
	points       int
	action       models.PointAction
	description  string
	resourceType string
	resourceID   uint
}

// credit is the internal primitive behind every point grant: append a ledger
// entry and fold the value into the summary, recomputing the level. It never
// evaluates badges, which is what lets the badge-bonus path call it without
// re-entering badge evaluation. Returns the updated summary and the level
// before the credit.
func (s *Service) credit(points *repository.PointRepository, userID uint, req creditRequest) (*models.UserPointSummary, int, error) {
	if err := points.CreateTransaction(&models.PointTransaction{
		UserID:       userID,
		Points:       req.points,
		Action:       req.action,
		Description:  req.description,
		ResourceType: req.resourceType,
		ResourceID:   req.resourceID,
	}); err != nil {
		return nil, 0, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	summary, err := points.GetSummaryForUpdate(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load summary: %w", err)
	}

	if summary == nil {
		summary = &models.UserPointSummary{
			UserID:      userID,
			TotalPoints: req.points,
			Level:       CalculateLevel(req.points),
		}
		if err := points.CreateSummary(summary); err != nil {
			return nil, 0, fmt.Errorf("failed to create summary: %w", err)
		}
		return summary, 1, nil
	}

	levelBefore := summary.Level
	summary.TotalPoints += req.points
	summary.Level = CalculateLevel(summary.TotalPoints)
	if err := points.SaveSummary(summary); err != nil {
		return nil, 0, fmt.Errorf("failed to update summary: %w", err)
	}
	return summary, levelBefore, nil
}

// CheckAndAwardBadges re-evaluates badge eligibility for a user and returns
// the names of newly awarded badges in catalog order. Awards run in their own
// transaction; callers inside AwardPoints share its transaction instead.
func (s *Service) CheckAndAwardBadges(ctx context.Context, userID uint) ([]string, error) {
	var newBadges []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		points := s.points.WithTx(tx)
		badges := s.badges.WithTx(tx)
		stats := s.stats.WithTx(tx)

		summary, err := points.GetSummaryForUpdate(userID)
		if err != nil {
			return err
		}

		newBadges, err = s.evaluateBadges(points, badges, stats, userID, summary)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate badges: %w", err)
	}

	// Badge bonuses move TotalPoints, so the award hook fires here too.
	if len(newBadges) > 0 && s.onAward != nil {
		s.onAward(ctx, userID)
	}
	return newBadges, nil
}

// evaluateBadges awards every catalog badge the user newly qualifies for.
// Already-held badges are excluded up front, which is what makes repeated
// evaluation idempotent. Bonus points are folded in through credit, so badge
// evaluation never recurses. summary may be nil for a user with no points
// yet; it is mutated in place as bonuses land.
func (s *Service) evaluateBadges(
	points *repository.PointRepository,
	badges *repository.BadgeRepository,
	stats *repository.StatsRepository,
	userID uint,
	summary *models.UserPointSummary,
) ([]string, error) {
	held, err := badges.HeldBadgeIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load held badges: %w", err)
	}

	catalog, err := badges.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}

	userStats, err := s.buildStats(stats, userID, summary)
	if err != nil {
		return nil, err
	}

	var earned []string
	for i := range catalog {
		badge := catalog[i]
		if held[badge.ID] {
			continue
		}

		value, ok := userStats.Value(badge.Requirement)
		if !ok {
			// Unrecognized requirement key: fail closed, never award.
			s.log.Warn().
				Str("badge", badge.Slug).
				Str("requirement", string(badge.Requirement)).
				Msg("Badge has unrecognized requirement key")
			continue
		}
		if value < badge.Threshold {
			continue
		}

		if err := badges.Award(userID, badge.ID); err != nil {
			return nil, fmt.Errorf("failed to award badge %s: %w", badge.Slug, err)
		}

		if badge.Points > 0 {
			updated, _, err := s.credit(points, userID, creditRequest{
				points:       badge.Points,
				action:       models.ActionBadgeBonus,
				description:  fmt.Sprintf("Earned badge: %s", badge.Name),
				resourceType: "badge",
				resourceID:   badge.ID,
			})
			if err != nil {
				return nil, err
			}
			if summary != nil {
				*summary = *updated
			} else {
				summary = updated
			}
			// Keep the stats snapshot coherent for later catalog entries
			// that key on points or level.
			userStats.TotalPoints = updated.TotalPoints
			userStats.Level = updated.Level
		}

		earned = append(earned, badge.Name)
		prommetrics.RecordBadgeAwarded(badge.Slug)
		if count, err := badges.HoldersCount(badge.ID); err == nil {
			prommetrics.SetBadgeHolders(badge.Slug, int(count))
		}

		s.log.Info().
			Uint("user_id", userID).
			Str("badge", badge.Slug).
			Int("bonus_points", badge.Points).
			Msg("Badge awarded")
	}

	return earned, nil
}

// buildStats assembles the aggregate snapshot for badge evaluation.
func (s *Service) buildStats(stats *repository.StatsRepository, userID uint, summary *models.UserPointSummary) (*UserStats, error) {
	us := &UserStats{Level: 1}
	if summary != nil {
		us.TotalPoints = summary.TotalPoints
		us.Level = summary.Level
	}

	var err error
	if us.Enrollments, err = stats.CountEnrollments(userID); err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}
	if us.CoursesCompleted, err = stats.CountCompletedCourses(userID); err != nil {
		return nil, fmt.Errorf("failed to count completed courses: %w", err)
	}
	if us.LessonsCompleted, err = stats.CountCompletedLessons(userID); err != nil {
		return nil, fmt.Errorf("failed to count completed lessons: %w", err)
	}
	if us.Discussions, err = stats.CountDiscussions(userID); err != nil {
		return nil, fmt.Errorf("failed to count discussions: %w", err)
	}
	if us.Comments, err = stats.CountComments(userID); err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	if us.Projects, err = stats.CountProjects(userID); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if us.ProjectsApproved, err = stats.CountProjectsByStatus(userID, models.StatusApproved); err != nil {
		return nil, fmt.Errorf("failed to count approved projects: %w", err)
	}
	if us.ProjectsFeatured, err = stats.CountProjectsByStatus(userID, models.StatusFeatured); err != nil {
		return nil, fmt.Errorf("failed to count featured projects: %w", err)
	}
	if us.Tools, err = stats.CountTools(userID); err != nil {
		return nil, fmt.Errorf("failed to count tools: %w", err)
	}
	if us.ToolsApproved, err = stats.CountToolsByStatus(userID, models.StatusApproved); err != nil {
		return nil, fmt.Errorf("failed to count approved tools: %w", err)
	}
	if us.Reviews, err = stats.CountReviews(userID); err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}
	return us, nil
}

// PointsAndLevel is the read-side view of a user's standing.
type PointsAndLevel struct {
	Points             int     `json:"points"`
	Level              int     `json:"level"`
	NextLevelThreshold int     `json:"next_level_threshold"`
	LevelProgress      float64 `json:"level_progress"`
}

// GetUserPointsAndLevel returns a user's points, level and progress toward
// the next level. A user with no summary row yet reads as zero points at
// level 1; unknown-but-valid user ids never fail.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetUserPointsAndLevel(ctx context.Context, userID uint) (*PointsAndLevel, error) {
	summary, err := s.points.GetSummary(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}

	points, level := 0, 1
	if summary != nil {
		points, level = summary.TotalPoints, summary.Level
	}

	return &PointsAndLevel{
		Points:             points,
		Level:              level,
		NextLevelThreshold: NextLevelThreshold(level),
		LevelProgress:      LevelProgress(points, level),
	}, nil
}

// GetUserBadges returns the badges a user has earned with catalog metadata,
// earliest first. Zero badges is an empty list, not an error.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	return s.badges.GetUserBadges(userID)
}

// GetBadgeCatalog returns the full seeded catalog.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetBadgeCatalog(ctx context.Context) ([]models.Badge, error) {
	return s.badges.GetAll()
}

// GetUserStats returns the aggregate snapshot used for badge evaluation,
// computed outside any transaction.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetUserStats(ctx context.Context, userID uint) (*UserStats, error) {
	summary, err := s.points.GetSummary(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}
	return s.buildStats(s.stats, userID, summary)
}
