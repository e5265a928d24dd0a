package gamification

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/ailyceum/lyceum-backend/internal/models"
)

// defaultCatalog is the built-in badge catalog. Slugs are stable identifiers;
// seeding never updates or removes rows, so renames require a new slug.
var defaultCatalog = []models.Badge{
	{Slug: "first-steps", Name: "First Steps", Description: "Enroll in your first course", Icon: "footprints", Category: models.BadgeCategoryLearning, Requirement: models.RequirementEnrollments, Threshold: 1, Points: 10},
	{Slug: "lesson-learner", Name: "Lesson Learner", Description: "Complete 10 lessons", Icon: "book-open", Category: models.BadgeCategoryLearning, Requirement: models.RequirementLessonsCompleted, Threshold: 10, Points: 15},
	{Slug: "course-finisher", Name: "Course Finisher", Description: "Complete your first course", Icon: "flag", Category: models.BadgeCategoryLearning, Requirement: models.RequirementCoursesCompleted, Threshold: 1, Points: 25},
	{Slug: "graduate", Name: "Graduate", Description: "Complete 5 courses", Icon: "graduation-cap", Category: models.BadgeCategoryLearning, Requirement: models.RequirementCoursesCompleted, Threshold: 5, Points: 50},
	{Slug: "conversation-starter", Name: "Conversation Starter", Description: "Start your first discussion", Icon: "message-circle", Category: models.BadgeCategoryCommunity, Requirement: models.RequirementDiscussions, Threshold: 1, Points: 10},
	{Slug: "discussion-leader", Name: "Discussion Leader", Description: "Start 10 discussions", Icon: "megaphone", Category: models.BadgeCategoryCommunity, Requirement: models.RequirementDiscussions, Threshold: 10, Points: 25},
	{Slug: "helpful-voice", Name: "Helpful Voice", Description: "Write 10 comments", Icon: "message-square", Category: models.BadgeCategoryCommunity, Requirement: models.RequirementComments, Threshold: 10, Points: 15},
	{Slug: "community-pillar", Name: "Community Pillar", Description: "Write 50 comments", Icon: "users", Category: models.BadgeCategoryCommunity, Requirement: models.RequirementComments, Threshold: 50, Points: 40},
	{Slug: "project-pioneer", Name: "Project Pioneer", Description: "Submit your first project", Icon: "rocket", Category: models.BadgeCategoryCommunity, Requirement: models.RequirementProjects, Threshold: 1, Points: 15},
	{Slug: "certified-builder", Name: "Certified Builder", Description: "Have 3 projects approved", Icon: "hammer", Category: models.BadgeCategoryAchievement, Requirement: models.RequirementProjectsApproved, Threshold: 3, Points: 30},
	{Slug: "showcase-star", Name: "Showcase Star", Description: "Have a project featured", Icon: "star", Category: models.BadgeCategoryAchievement, Requirement: models.RequirementProjectsFeatured, Threshold: 1, Points: 50},
	{Slug: "toolsmith", Name: "Toolsmith", Description: "Publish your first tool", Icon: "wrench", Category: models.BadgeCategoryCommunity, Requirement: models.RequirementTools, Threshold: 1, Points: 10},
	{Slug: "workshop-verified", Name: "Workshop Verified", Description: "Have a tool approved", Icon: "badge-check", Category: models.BadgeCategoryAchievement, Requirement: models.RequirementToolsApproved, Threshold: 1, Points: 20},
	{Slug: "point-collector", Name: "Point Collector", Description: "Accumulate 1000 points", Icon: "coins", Category: models.BadgeCategoryAchievement, Requirement: models.RequirementPoints, Threshold: 1000, Points: 25},
	{Slug: "rising-star", Name: "Rising Star", Description: "Reach level 5", Icon: "trending-up", Category: models.BadgeCategorySpecial, Requirement: models.RequirementLevel, Threshold: 5, Points: 0},
}

// catalogFile is the YAML shape of an external catalog override.
type catalogFile struct {
	Badges []catalogEntry `yaml:"badges"`
}

type catalogEntry struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Category    string `yaml:"category"`
	Requirement string `yaml:"requirement"`
	Threshold   int    `yaml:"threshold"`
	Points      int    `yaml:"points"`
}

// LoadCatalog reads a badge catalog from a YAML file. An empty path returns
// the built-in catalog.
func LoadCatalog(path string) ([]models.Badge, error) {
	if path == "" {
		return defaultCatalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(file.Badges) == 0 {
		return nil, fmt.Errorf("catalog file %s defines no badges", path)
	}

	badges := make([]models.Badge, 0, len(file.Badges))
	for i, e := range file.Badges {
		if e.Slug == "" || e.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: slug and name are required", i)
		}
		badges = append(badges, models.Badge{
			Slug:        e.Slug,
			Name:        e.Name,
			Description: e.Description,
			Icon:        e.Icon,
			Category:    models.BadgeCategory(e.Category),
			Requirement: models.BadgeRequirement(e.Requirement),
			Threshold:   e.Threshold,
			Points:      e.Points,
		})
	}
	return badges, nil
}

// SeedBadges inserts every catalog entry whose slug is not present yet.
// Existing rows are never updated or removed, so the call is safe on every
// process startup.
func (s *Service) SeedBadges(ctx context.Context) error {
	seeded := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		badges := s.badges.WithTx(tx)
		for i := range s.catalog {
			badge := s.catalog[i]

			existing, err := badges.GetBySlug(badge.Slug)
			if err != nil {
				return fmt.Errorf("failed to look up badge %s: %w", badge.Slug, err)
			}
			if existing != nil {
				continue
			}

			if err := badges.Create(&badge); err != nil {
				return fmt.Errorf("failed to seed badge %s: %w", badge.Slug, err)
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if seeded > 0 {
		s.log.Info().
			Int("seeded", seeded).
			Int("catalog_size", len(s.catalog)).
			Msg("Badge catalog seeded")
	}
	return nil
}
