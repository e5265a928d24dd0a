//nolint:noctx // Test file uses http.NewRequest for simplicity
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ailyceum/lyceum-backend/internal/models"
	"github.com/ailyceum/lyceum-backend/internal/service/gamification"
	"github.com/ailyceum/lyceum-backend/internal/service/leaderboard"
	"github.com/ailyceum/lyceum-backend/pkg/logger"
)

// Mock gamification service
type mockGamificationService struct {
	standings  map[uint]*gamification.PointsAndLevel
	userBadges map[uint][]models.UserBadge
	userStats  map[uint]*gamification.UserStats
	catalog    []models.Badge
	awarded    []models.PointAction
}

func newMockGamificationService() *mockGamificationService {
	return &mockGamificationService{
		standings:  make(map[uint]*gamification.PointsAndLevel),
		userBadges: make(map[uint][]models.UserBadge),
		userStats:  make(map[uint]*gamification.UserStats),
	}
}

func (m *mockGamificationService) AwardPoints(ctx context.Context, userID uint, action models.PointAction, opts *gamification.AwardOptions) (*gamification.AwardResult, error) {
	points, err := gamification.ActionPoints(action)
	if err != nil {
		return nil, err
	}
	m.awarded = append(m.awarded, action)
	return &gamification.AwardResult{PointsAwarded: points}, nil
}

func (m *mockGamificationService) CheckAndAwardBadges(ctx context.Context, userID uint) ([]string, error) {
	return nil, nil
}

func (m *mockGamificationService) GetUserPointsAndLevel(ctx context.Context, userID uint) (*gamification.PointsAndLevel, error) {
	if standing, ok := m.standings[userID]; ok {
		return standing, nil
	}
	return &gamification.PointsAndLevel{Points: 0, Level: 1, NextLevelThreshold: 100}, nil
}

func (m *mockGamificationService) GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	return m.userBadges[userID], nil
}

func (m *mockGamificationService) GetBadgeCatalog(ctx context.Context) ([]models.Badge, error) {
	return m.catalog, nil
}

func (m *mockGamificationService) GetUserStats(ctx context.Context, userID uint) (*gamification.UserStats, error) {
	if stats, ok := m.userStats[userID]; ok {
		return stats, nil
	}
	return &gamification.UserStats{Level: 1}, nil
}

// Mock leaderboard service
type mockLeaderboardService struct {
	entries      []leaderboard.Entry
	transactions map[uint][]models.PointTransaction
}

func newMockLeaderboardService() *mockLeaderboardService {
	return &mockLeaderboardService{
		transactions: make(map[uint][]models.PointTransaction),
	}
}

func (m *mockLeaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	entries := m.entries
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *mockLeaderboardService) GetRecentTransactions(ctx context.Context, userID uint, limit int) ([]models.PointTransaction, error) {
	txns := m.transactions[userID]
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

func setupTestRouter() (*gin.Engine, *mockGamificationService, *mockLeaderboardService) {
	gin.SetMode(gin.TestMode)

	gs := newMockGamificationService()
	ls := newMockLeaderboardService()
	log := logger.New("error", "json", "stdout")

	handler := NewHandlerWithInterfaces(gs, ls, log)
	router := gin.New()
	handler.RegisterRoutes(router)

	return router, gs, ls
}

func TestGetLeaderboard(t *testing.T) {
	router, _, ls := setupTestRouter()
	ls.entries = []leaderboard.Entry{
		{Rank: 1, UserID: 2, TotalPoints: 200, Level: 2},
		{Rank: 2, UserID: 1, TotalPoints: 50, Level: 1},
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/leaderboard?limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["count"])
}

func TestGetLeaderboardInvalidLimit(t *testing.T) {
	router, _, _ := setupTestRouter()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/leaderboard?limit=0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "limit")
}

func TestGetUserPoints(t *testing.T) {
	router, gs, _ := setupTestRouter()
	gs.standings[7] = &gamification.PointsAndLevel{
		Points:             175,
		Level:              2,
		NextLevelThreshold: 250,
		LevelProgress:      50,
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/7/points", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var standing gamification.PointsAndLevel
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &standing))
	assert.Equal(t, 175, standing.Points)
	assert.Equal(t, 2, standing.Level)
	assert.Equal(t, 250, standing.NextLevelThreshold)
}

func TestGetUserPointsUnknownUserDefaults(t *testing.T) {
	router, _, _ := setupTestRouter()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/999/points", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var standing gamification.PointsAndLevel
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &standing))
	assert.Equal(t, 0, standing.Points)
	assert.Equal(t, 1, standing.Level)
}

func TestGetUserPointsInvalidID(t *testing.T) {
	router, _, _ := setupTestRouter()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/abc/points", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserBadges(t *testing.T) {
	router, gs, _ := setupTestRouter()
	gs.userBadges[3] = []models.UserBadge{
		{UserID: 3, BadgeID: 1, EarnedAt: time.Now(), Badge: models.Badge{Slug: "first-steps", Name: "First Steps"}},
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/3/badges", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestGetUserStats(t *testing.T) {
	router, gs, _ := setupTestRouter()
	gs.userStats[6] = &gamification.UserStats{
		Enrollments: 3,
		Reviews:     2,
		TotalPoints: 45,
		Level:       1,
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/6/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats gamification.UserStats
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Enrollments)
	assert.Equal(t, 2, stats.Reviews)
	assert.Equal(t, 45, stats.TotalPoints)
}

func TestAwardPoints(t *testing.T) {
	router, gs, _ := setupTestRouter()

	body, _ := json.Marshal(map[string]interface{}{
		"action":        "course_enrolled",
		"resource_type": "course",
		"resource_id":   5,
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users/1/points", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result gamification.AwardResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 10, result.PointsAwarded)
	assert.Len(t, gs.awarded, 1)
}

func TestAwardPointsUnknownAction(t *testing.T) {
	router, _, _ := setupTestRouter()

	body, _ := json.Marshal(map[string]string{"action": "telepathy"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users/1/points", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "unknown point action")
}

func TestAwardPointsMissingAction(t *testing.T) {
	router, _, _ := setupTestRouter()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users/1/points", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserTransactions(t *testing.T) {
	router, _, ls := setupTestRouter()
	ls.transactions[4] = []models.PointTransaction{
		{UserID: 4, Points: 10, Action: models.ActionCourseEnrolled},
		{UserID: 4, Points: 5, Action: models.ActionLessonCompleted},
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/4/transactions?limit=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestEvaluateBadgesEmptyResult(t *testing.T) {
	router, _, _ := setupTestRouter()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users/1/badges/evaluate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])
	assert.NotNil(t, response["new_badges"])
}
