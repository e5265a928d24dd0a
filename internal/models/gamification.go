// Package models defines domain models for the Lyceum gamification engine.
package models

import (
	"time"
)

// PointAction identifies a point-earning user action. The set of valid
// actions is closed; the point value table lives in the gamification service.
type PointAction string

// Point-earning action kinds.
const (
	ActionCourseEnrolled    PointAction = "course_enrolled"
	ActionLessonCompleted   PointAction = "lesson_completed"
	ActionCourseCompleted   PointAction = "course_completed"
	ActionDiscussionStarted PointAction = "discussion_started"
	ActionCommentAdded      PointAction = "comment_added"
	ActionProjectSubmitted  PointAction = "project_submitted"
	ActionProjectApproved   PointAction = "project_approved"
	ActionProjectFeatured   PointAction = "project_featured"
	ActionToolPublished     PointAction = "tool_published"
	ActionToolApproved      PointAction = "tool_approved"
	ActionReviewAdded       PointAction = "review_added"
	ActionDailyLogin        PointAction = "daily_login"
	ActionFirstEnrollment   PointAction = "first_enrollment"
	ActionFirstProject      PointAction = "first_project"
	ActionBadgeBonus        PointAction = "badge_bonus"
)

// PointTransaction is an immutable ledger entry recording a single point
// award. Rows are only ever inserted.
type PointTransaction struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UserID       uint        `gorm:"not null;index" json:"user_id"`
	Points       int         `gorm:"not null" json:"points"`
	Action       PointAction `gorm:"size:50;not null" json:"action"`
	Description  string      `gorm:"type:text" json:"description"`
	ResourceType string      `gorm:"size:50" json:"resource_type,omitempty"`
	ResourceID   uint        `json:"resource_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// TableName specifies the table name for PointTransaction model.
func (PointTransaction) TableName() string {
	return "point_transactions"
}

// UserPointSummary is the mutable per-user cache of the transaction ledger:
// cumulative points plus the level derived from them. The invariant
// Level == CalculateLevel(TotalPoints) holds after every write.
type UserPointSummary struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalPoints int       `gorm:"not null;default:0" json:"total_points"`
	Level       int       `gorm:"not null;default:1" json:"level"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for UserPointSummary model.
func (UserPointSummary) TableName() string {
	return "user_point_summaries"
}

// BadgeCategory groups badges for display.
type BadgeCategory string

// Badge categories.
const (
	BadgeCategoryLearning    BadgeCategory = "learning"
	BadgeCategoryCommunity   BadgeCategory = "community"
	BadgeCategoryAchievement BadgeCategory = "achievement"
	BadgeCategorySpecial     BadgeCategory = "special"
)

// BadgeRequirement names the user statistic a badge threshold is compared
// against. The recognized set is closed; unknown keys never match.
type BadgeRequirement string

// Badge requirement keys.
const (
	RequirementEnrollments      BadgeRequirement = "enrollments"
	RequirementLessonsCompleted BadgeRequirement = "lessons_completed"
	RequirementCoursesCompleted BadgeRequirement = "courses_completed"
	RequirementDiscussions      BadgeRequirement = "discussions"
	RequirementComments         BadgeRequirement = "comments"
	RequirementProjects         BadgeRequirement = "projects"
	RequirementProjectsApproved BadgeRequirement = "projects_approved"
	RequirementProjectsFeatured BadgeRequirement = "projects_featured"
	RequirementTools            BadgeRequirement = "tools"
	RequirementToolsApproved    BadgeRequirement = "tools_approved"
	RequirementPoints           BadgeRequirement = "points"
	RequirementLevel            BadgeRequirement = "level"
)

// Badge is a seeded catalog definition. Catalog rows are immutable at runtime.
type Badge struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Slug        string           `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	Name        string           `gorm:"not null;size:100" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Icon        string           `gorm:"size:50" json:"icon"`
	Category    BadgeCategory    `gorm:"size:50;not null" json:"category"`
	Requirement BadgeRequirement `gorm:"size:50;not null" json:"requirement"`
	Threshold   int              `gorm:"not null" json:"threshold"`
	Points      int              `gorm:"not null;default:0" json:"points"`
	CreatedAt   time.Time        `json:"created_at"`
}

// TableName specifies the table name for Badge model.
func (Badge) TableName() string {
	return "badges"
}

// UserBadge records a badge earned by a user. At most one row exists per
// (user, badge) pair; rows are never deleted or re-awarded.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID  uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"badge_id"`
	Badge    Badge     `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	EarnedAt time.Time `gorm:"not null" json:"earned_at"`
}

// TableName specifies the table name for UserBadge model.
func (UserBadge) TableName() string {
	return "user_badges"
}
