package gamification

import (
	"testing"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		name     string
		points   int
		expected int
	}{
		{"zero points", 0, 1},
		{"below first cutoff", 99, 1},
		{"exactly at level 2", 100, 2},
		{"just past level 2", 101, 2},
		{"level 3 boundary", 250, 3},
		{"level 5 boundary", 1000, 5},
		{"mid level 6", 2500, 6},
		{"max level boundary", 10000, 10},
		{"capped far past max", 999999, 10},
		{"negative points floor to level 1", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateLevel(tt.points); got != tt.expected {
				t.Errorf("CalculateLevel(%d) = %d, want %d", tt.points, got, tt.expected)
			}
		})
	}
}

func TestCalculateLevelMonotonic(t *testing.T) {
	prev := CalculateLevel(0)
	for points := 1; points <= 12000; points += 7 {
		level := CalculateLevel(points)
		if level < prev {
			t.Fatalf("CalculateLevel decreased: %d points -> level %d, previous level %d", points, level, prev)
		}
		prev = level
	}
}

func TestNextLevelThreshold(t *testing.T) {
	tests := []struct {
		name     string
		level    int
		expected int
	}{
		{"level 1 needs 100", 1, 100},
		{"level 2 needs 250", 2, 250},
		{"level 9 needs 10000", 9, 10000},
		{"max level clamps to last threshold", 10, 10000},
		{"past max clamps too", 15, 10000},
		{"invalid level treated as 1", 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextLevelThreshold(tt.level); got != tt.expected {
				t.Errorf("NextLevelThreshold(%d) = %d, want %d", tt.level, got, tt.expected)
			}
		})
	}
}

func TestLevelProgress(t *testing.T) {
	tests := []struct {
		name     string
		points   int
		level    int
		expected float64
	}{
		{"at level 1 boundary", 0, 1, 0},
		{"halfway through level 1", 50, 1, 50},
		{"at level 2 boundary", 100, 2, 0},
		{"halfway through level 2", 175, 2, 50},
		{"overrun without level update clamps to 100", 300, 2, 100},
		{"stale points below level threshold clamp to 0", 50, 2, 0},
		{"max level always reads 100", 10000, 10, 100},
		{"far past max level", 50000, 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelProgress(tt.points, tt.level); got != tt.expected {
				t.Errorf("LevelProgress(%d, %d) = %f, want %f", tt.points, tt.level, got, tt.expected)
			}
		})
	}
}

func TestLevelProgressBounded(t *testing.T) {
	for points := 0; points <= 12000; points += 13 {
		for level := 1; level <= MaxLevel; level++ {
			p := LevelProgress(points, level)
			if p < 0 || p > 100 {
				t.Fatalf("LevelProgress(%d, %d) = %f, outside [0, 100]", points, level, p)
			}
		}
	}
}

func TestActionTableClosed(t *testing.T) {
	if _, err := ActionPoints("made_up_action"); err == nil {
		t.Error("Expected error for unknown action, got nil")
	}

	points, err := ActionPoints("course_enrolled")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if points != 10 {
		t.Errorf("Expected 10 points for course_enrolled, got %d", points)
	}
}
