package leaderboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ailyceum/lyceum-backend/internal/cache"
	"github.com/ailyceum/lyceum-backend/internal/models"
	"github.com/ailyceum/lyceum-backend/pkg/logger"
)

// mockPointRepository serves canned summaries and counts its queries.
type mockPointRepository struct {
	summaries        []models.UserPointSummary
	transactions     []models.PointTransaction
	leaderboardCalls int
}

func (m *mockPointRepository) Leaderboard(limit int) ([]models.UserPointSummary, error) {
	m.leaderboardCalls++
	if limit > len(m.summaries) {
		limit = len(m.summaries)
	}
	return m.summaries[:limit], nil
}

func (m *mockPointRepository) RecentTransactions(userID uint, limit int) ([]models.PointTransaction, error) {
	var result []models.PointTransaction
	for _, txn := range m.transactions {
		if txn.UserID == userID && len(result) < limit {
			result = append(result, txn)
		}
	}
	return result, nil
}

func setupTestService(t *testing.T) (*Service, *mockPointRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisCache := cache.NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	repo := &mockPointRepository{
		summaries: []models.UserPointSummary{
			{UserID: 2, TotalPoints: 200, Level: 2},
			{UserID: 1, TotalPoints: 50, Level: 1},
			{UserID: 3, TotalPoints: 10, Level: 1},
		},
	}
	log := logger.New("error", "json", "stdout")
	svc := NewServiceWithInterfaces(repo, redisCache, time.Minute, log)
	return svc, repo, mr
}

func TestGetLeaderboardOrdering(t *testing.T) {
	svc, _, _ := setupTestService(t)

	entries, err := svc.GetLeaderboard(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetLeaderboard() failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	expected := []int{200, 50, 10}
	for i, want := range expected {
		if entries[i].TotalPoints != want {
			t.Errorf("Entry %d: expected %d points, got %d", i, want, entries[i].TotalPoints)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("Entry %d: expected rank %d, got %d", i, i+1, entries[i].Rank)
		}
	}
}

func TestGetLeaderboardServedFromCache(t *testing.T) {
	svc, repo, _ := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.GetLeaderboard(ctx, 3); err != nil {
		t.Fatalf("GetLeaderboard() failed: %v", err)
	}
	if _, err := svc.GetLeaderboard(ctx, 3); err != nil {
		t.Fatalf("GetLeaderboard() failed: %v", err)
	}

	if repo.leaderboardCalls != 1 {
		t.Errorf("Expected 1 database query with a warm cache, got %d", repo.leaderboardCalls)
	}
}

func TestInvalidateDropsCache(t *testing.T) {
	svc, repo, _ := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.GetLeaderboard(ctx, 3); err != nil {
		t.Fatalf("GetLeaderboard() failed: %v", err)
	}

	svc.Invalidate(ctx)

	if _, err := svc.GetLeaderboard(ctx, 3); err != nil {
		t.Fatalf("GetLeaderboard() failed: %v", err)
	}
	if repo.leaderboardCalls != 2 {
		t.Errorf("Expected a database query after invalidation, got %d calls", repo.leaderboardCalls)
	}
}

// faultyCache fails Delete for one key and records the rest.
type faultyCache struct {
	failKey string
	deleted []string
}

func (c *faultyCache) Get(ctx context.Context, key string) (string, error) {
	return "", cache.ErrMiss
}

func (c *faultyCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (c *faultyCache) Delete(ctx context.Context, key string) error {
	if key == c.failKey {
		return fmt.Errorf("connection reset")
	}
	c.deleted = append(c.deleted, key)
	return nil
}

func TestInvalidateContinuesPastDeleteError(t *testing.T) {
	fc := &faultyCache{failKey: leaderboardKey(3)}
	log := logger.New("error", "json", "stdout")
	svc := NewServiceWithInterfaces(&mockPointRepository{}, fc, time.Minute, log)

	svc.Invalidate(context.Background())

	if len(fc.deleted) != 5 {
		t.Fatalf("Expected the remaining 5 keys deleted after one failure, got %d", len(fc.deleted))
	}
	for _, key := range fc.deleted {
		if key == fc.failKey {
			t.Errorf("Failing key %s should not appear in deletions", key)
		}
	}
}

func TestGetLeaderboardCacheExpiry(t *testing.T) {
	svc, repo, mr := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.GetLeaderboard(ctx, 3); err != nil {
		t.Fatalf("GetLeaderboard() failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := svc.GetLeaderboard(ctx, 3); err != nil {
		t.Fatalf("GetLeaderboard() failed: %v", err)
	}
	if repo.leaderboardCalls != 2 {
		t.Errorf("Expected a database query after TTL expiry, got %d calls", repo.leaderboardCalls)
	}
}

func TestGetLeaderboardWithoutCache(t *testing.T) {
	repo := &mockPointRepository{
		summaries: []models.UserPointSummary{{UserID: 1, TotalPoints: 50, Level: 1}},
	}
	log := logger.New("error", "json", "stdout")
	svc := NewServiceWithInterfaces(repo, nil, time.Minute, log)

	entries, err := svc.GetLeaderboard(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetLeaderboard() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}
}

func TestGetRecentTransactions(t *testing.T) {
	svc, repo, _ := setupTestService(t)

	for i := 0; i < 5; i++ {
		repo.transactions = append(repo.transactions, models.PointTransaction{
			UserID:      1,
			Points:      5,
			Action:      models.ActionLessonCompleted,
			Description: fmt.Sprintf("lesson %d", i),
		})
	}

	txns, err := svc.GetRecentTransactions(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("GetRecentTransactions() failed: %v", err)
	}
	if len(txns) != 3 {
		t.Errorf("Expected 3 transactions, got %d", len(txns))
	}

	empty, err := svc.GetRecentTransactions(context.Background(), 42, 3)
	if err != nil {
		t.Fatalf("GetRecentTransactions() failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no transactions for unknown user, got %d", len(empty))
	}
}
