package gamification

import (
	"github.com/ailyceum/lyceum-backend/internal/models"
)

// UserStats is the aggregate snapshot badge requirements are compared
// against. Every field is a simple per-user count from a collaborator table,
// except TotalPoints and Level which come from the point summary.
type UserStats struct {
	Enrollments      int `json:"enrollments"`
	LessonsCompleted int `json:"lessons_completed"`
	CoursesCompleted int `json:"courses_completed"`
	Discussions      int `json:"discussions"`
	Comments         int `json:"comments"`
	Projects         int `json:"projects"`
	ProjectsApproved int `json:"projects_approved"`
	ProjectsFeatured int `json:"projects_featured"`
	Tools            int `json:"tools"`
	ToolsApproved    int `json:"tools_approved"`
	Reviews          int `json:"reviews"`
	TotalPoints      int `json:"total_points"`
	Level            int `json:"level"`
}

// Value selects the statistic named by a badge requirement key. The second
// return is false for keys outside the recognized set, so an unknown
// requirement fails closed rather than matching a zero.
func (s *UserStats) Value(req models.BadgeRequirement) (int, bool) {
	switch req {
	case models.RequirementEnrollments:
		return s.Enrollments, true
	case models.RequirementLessonsCompleted:
		return s.LessonsCompleted, true
	case models.RequirementCoursesCompleted:
		return s.CoursesCompleted, true
	case models.RequirementDiscussions:
		return s.Discussions, true
	case models.RequirementComments:
		return s.Comments, true
	case models.RequirementProjects:
		return s.Projects, true
	case models.RequirementProjectsApproved:
		return s.ProjectsApproved, true
	case models.RequirementProjectsFeatured:
		return s.ProjectsFeatured, true
	case models.RequirementTools:
		return s.Tools, true
	case models.RequirementToolsApproved:
		return s.ToolsApproved, true
	case models.RequirementPoints:
		return s.TotalPoints, true
	case models.RequirementLevel:
		return s.Level, true
	default:
		return 0, false
	}
}
