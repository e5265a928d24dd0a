package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAward(t *testing.T) {
	AwardsTotal.Reset()
	PointsAwardedTotal.Reset()

	RecordAward("course_enrolled", 10)
	RecordAward("course_enrolled", 10)
	RecordAward("lesson_completed", 5)

	count := testutil.ToFloat64(AwardsTotal.WithLabelValues("course_enrolled", "success"))
	if count != 2 {
		t.Errorf("Expected course_enrolled success count = 2, got %f", count)
	}

	points := testutil.ToFloat64(PointsAwardedTotal.WithLabelValues("course_enrolled"))
	if points != 20 {
		t.Errorf("Expected 20 points for course_enrolled, got %f", points)
	}
}

func TestRecordAwardFailure(t *testing.T) {
	AwardsTotal.Reset()

	RecordAwardFailure("telepathy")

	count := testutil.ToFloat64(AwardsTotal.WithLabelValues("telepathy", "error"))
	if count != 1 {
		t.Errorf("Expected error count = 1, got %f", count)
	}
}

func TestRecordBadgeAwarded(t *testing.T) {
	BadgesAwardedTotal.Reset()

	RecordBadgeAwarded("first-steps")
	RecordBadgeAwarded("first-steps")

	count := testutil.ToFloat64(BadgesAwardedTotal.WithLabelValues("first-steps"))
	if count != 2 {
		t.Errorf("Expected first-steps count = 2, got %f", count)
	}
}

func TestRecordLevelUp(t *testing.T) {
	LevelUpsTotal.Reset()

	RecordLevelUp(2)
	RecordLevelUp(2)
	RecordLevelUp(3)

	count := testutil.ToFloat64(LevelUpsTotal.WithLabelValues("2"))
	if count != 2 {
		t.Errorf("Expected level 2 count = 2, got %f", count)
	}
}

func TestSetBadgeHolders(t *testing.T) {
	BadgeHolders.Reset()

	SetBadgeHolders("graduate", 7)

	count := testutil.ToFloat64(BadgeHolders.WithLabelValues("graduate"))
	if count != 7 {
		t.Errorf("Expected 7 holders, got %f", count)
	}
}
