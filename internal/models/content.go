package models

import (
	"time"
)

// The content-domain models below are collaborators owned by the wider
// platform. The gamification engine only counts their rows per user, so they
// carry the minimal shape those counts depend on.

// SubmissionStatus is the moderation state of a submitted project or tool.
type SubmissionStatus string

// Submission statuses.
const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusFeatured SubmissionStatus = "featured"
	StatusRejected SubmissionStatus = "rejected"
)

// Enrollment links a user to a course. CompletedAt is set when the user
// finishes every lesson of the course.
type Enrollment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	CourseID    uint       `gorm:"not null;index" json:"course_id"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName specifies the table name for Enrollment model.
func (Enrollment) TableName() string {
	return "enrollments"
}

// LessonProgress tracks a user's progress through a single lesson.
type LessonProgress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	LessonID    uint       `gorm:"not null;index" json:"lesson_id"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName specifies the table name for LessonProgress model.
func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// Discussion is a forum thread authored by a user.
type Discussion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"type:text" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Discussion model.
func (Discussion) TableName() string {
	return "discussions"
}

// Comment is a reply in a discussion thread.
type Comment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	DiscussionID uint      `gorm:"not null;index" json:"discussion_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for Comment model.
func (Comment) TableName() string {
	return "comments"
}

// Project is a showcase submission.
type Project struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	Title     string           `gorm:"type:text" json:"title"`
	Status    SubmissionStatus `gorm:"size:50;index" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// TableName specifies the table name for Project model.
func (Project) TableName() string {
	return "projects"
}

// Tool is a marketplace submission.
type Tool struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	Name      string           `gorm:"type:text" json:"name"`
	Status    SubmissionStatus `gorm:"size:50;index" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// TableName specifies the table name for Tool model.
func (Tool) TableName() string {
	return "tools"
}

// Review is a user-authored review of a course or tool.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Review model.
func (Review) TableName() string {
	return "reviews"
}
