package gamification

import (
	"errors"
	"fmt"

	"github.com/ailyceum/lyceum-backend/internal/models"
)

// ErrUnknownAction is returned when an award is requested for an action kind
// outside the closed table. This is a caller contract violation, not a
// recoverable runtime condition.
var ErrUnknownAction = errors.New("gamification: unknown point action")

// actionDef pairs an action's point value with its default ledger description.
type actionDef struct {
	points      int
	description string
}

// actionTable is the closed mapping from action kind to point value. Adding
// an action means adding a row here and a constant in models.
var actionTable = map[models.PointAction]actionDef{
	models.ActionCourseEnrolled:    {10, "Enrolled in a course"},
	models.ActionLessonCompleted:   {5, "Completed a lesson"},
	models.ActionCourseCompleted:   {50, "Completed a course"},
	models.ActionDiscussionStarted: {15, "Started a discussion"},
	models.ActionCommentAdded:      {5, "Added a comment"},
	models.ActionProjectSubmitted:  {20, "Submitted a project"},
	models.ActionProjectApproved:   {30, "Project approved"},
	models.ActionProjectFeatured:   {50, "Project featured"},
	models.ActionToolPublished:     {20, "Published a tool"},
	models.ActionToolApproved:      {30, "Tool approved"},
	models.ActionReviewAdded:       {10, "Added a review"},
	models.ActionDailyLogin:        {5, "Daily login"},
	models.ActionFirstEnrollment:   {25, "First enrollment bonus"},
	models.ActionFirstProject:      {25, "First project bonus"},
	models.ActionBadgeBonus:        {10, "Badge bonus"},
}

// lookupAction resolves an action kind to its definition, rejecting unknown
// kinds at the boundary.
func lookupAction(action models.PointAction) (actionDef, error) {
	def, ok := actionTable[action]
	if !ok {
		return actionDef{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return def, nil
}

// ActionPoints reports the point value of an action kind.
func ActionPoints(action models.PointAction) (int, error) {
	def, err := lookupAction(action)
	if err != nil {
		return 0, err
	}
	return def.points, nil
}
