package repository

import (
	"gorm.io/gorm"

	"github.com/ailyceum/lyceum-backend/internal/models"
)

// StatsRepository answers the per-user aggregate counts badge requirements
// are evaluated against. Every query is a plain COUNT over one collaborator
// table filtered by user (and, where relevant, status).
type StatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db.DB}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *StatsRepository) WithTx(tx *gorm.DB) *StatsRepository {
	return &StatsRepository{db: tx}
}

func (r *StatsRepository) count(model interface{}, query string, args ...interface{}) (int, error) {
	var n int64
	err := r.db.Model(model).Where(query, args...).Count(&n).Error
	return int(n), err
}

// CountEnrollments returns the number of courses a user has enrolled in.
func (r *StatsRepository) CountEnrollments(userID uint) (int, error) {
	return r.count(&models.Enrollment{}, "user_id = ?", userID)
}

// CountCompletedCourses returns the number of enrollments a user has finished.
func (r *StatsRepository) CountCompletedCourses(userID uint) (int, error) {
	return r.count(&models.Enrollment{}, "user_id = ? AND completed_at IS NOT NULL", userID)
}

// CountCompletedLessons returns the number of lessons a user has finished.
func (r *StatsRepository) CountCompletedLessons(userID uint) (int, error) {
	return r.count(&models.LessonProgress{}, "user_id = ? AND completed_at IS NOT NULL", userID)
}

// CountDiscussions returns the number of discussions a user has started.
func (r *StatsRepository) CountDiscussions(userID uint) (int, error) {
	return r.count(&models.Discussion{}, "user_id = ?", userID)
}

// CountComments returns the number of comments a user has written.
func (r *StatsRepository) CountComments(userID uint) (int, error) {
	return r.count(&models.Comment{}, "user_id = ?", userID)
}

// CountProjects returns the number of projects a user has submitted.
func (r *StatsRepository) CountProjects(userID uint) (int, error) {
	return r.count(&models.Project{}, "user_id = ?", userID)
}

// CountProjectsByStatus returns the number of a user's projects in a status.
func (r *StatsRepository) CountProjectsByStatus(userID uint, status models.SubmissionStatus) (int, error) {
	return r.count(&models.Project{}, "user_id = ? AND status = ?", userID, status)
}

// CountTools returns the number of tools a user has published.
func (r *StatsRepository) CountTools(userID uint) (int, error) {
	return r.count(&models.Tool{}, "user_id = ?", userID)
}

// CountToolsByStatus returns the number of a user's tools in a status.
func (r *StatsRepository) CountToolsByStatus(userID uint, status models.SubmissionStatus) (int, error) {
	return r.count(&models.Tool{}, "user_id = ? AND status = ?", userID, status)
}

// CountReviews returns the number of reviews a user has written.
func (r *StatsRepository) CountReviews(userID uint) (int, error) {
	return r.count(&models.Review{}, "user_id = ?", userID)
}
