// Package dashboard provides REST API handlers for the gamification surface:
// leaderboards, user standings, badges and point history.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ailyceum/lyceum-backend/internal/models"
	"github.com/ailyceum/lyceum-backend/internal/service/gamification"
	"github.com/ailyceum/lyceum-backend/internal/service/leaderboard"
	"github.com/ailyceum/lyceum-backend/pkg/logger"
)

// GamificationService interface for point and badge operations.
type GamificationService interface {
	AwardPoints(ctx context.Context, userID uint, action models.PointAction, opts *gamification.AwardOptions) (*gamification.AwardResult, error)
	CheckAndAwardBadges(ctx context.Context, userID uint) ([]string, error)
	GetUserPointsAndLevel(ctx context.Context, userID uint) (*gamification.PointsAndLevel, error)
	GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error)
	GetBadgeCatalog(ctx context.Context) ([]models.Badge, error)
	GetUserStats(ctx context.Context, userID uint) (*gamification.UserStats, error)
}

// LeaderboardService interface for ranking and history operations.
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error)
	GetRecentTransactions(ctx context.Context, userID uint, limit int) ([]models.PointTransaction, error)
}

// Handler handles gamification API requests.
type Handler struct {
	gamificationService GamificationService
	leaderboardService  LeaderboardService
	log                 *logger.Logger
}

// NewHandler creates a new dashboard handler.
func NewHandler(gs *gamification.Service, ls *leaderboard.Service, log *logger.Logger) *Handler {
	return &Handler{
		gamificationService: gs,
		leaderboardService:  ls,
		log:                 log,
	}
}

// NewHandlerWithInterfaces creates a new dashboard handler with interface
// dependencies (useful for testing).
func NewHandlerWithInterfaces(gs GamificationService, ls LeaderboardService, log *logger.Logger) *Handler {
	return &Handler{
		gamificationService: gs,
		leaderboardService:  ls,
		log:                 log,
	}
}

// RegisterRoutes attaches the dashboard routes under /api/v1.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	v1.GET("/leaderboard", h.GetLeaderboard)
	v1.GET("/badges", h.GetBadgeCatalog)
	v1.GET("/users/:id/points", h.GetUserPoints)
	v1.GET("/users/:id/badges", h.GetUserBadges)
	v1.GET("/users/:id/transactions", h.GetUserTransactions)
	v1.GET("/users/:id/stats", h.GetUserStats)
	v1.POST("/users/:id/points", h.AwardPoints)
	v1.POST("/users/:id/badges/evaluate", h.EvaluateBadges)
}

// GetLeaderboard returns the top users by total points.
// GET /api/v1/leaderboard?limit=10.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, err := h.parseLimit(c, 10)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get leaderboard")
		h.errorResponse(c, http.StatusInternalServerError, "failed to get leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries, "count": len(entries)})
}

// GetBadgeCatalog returns every badge definition.
// GET /api/v1/badges.
func (h *Handler) GetBadgeCatalog(c *gin.Context) {
	badges, err := h.gamificationService.GetBadgeCatalog(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get badge catalog")
		h.errorResponse(c, http.StatusInternalServerError, "failed to get badge catalog")
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges, "count": len(badges)})
}

// GetUserPoints returns a user's points, level and progress.
// GET /api/v1/users/:id/points.
func (h *Handler) GetUserPoints(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	standing, err := h.gamificationService.GetUserPointsAndLevel(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get user points")
		h.errorResponse(c, http.StatusInternalServerError, "failed to get user points")
		return
	}

	c.JSON(http.StatusOK, standing)
}

// GetUserBadges returns the badges a user has earned, earliest first.
// GET /api/v1/users/:id/badges.
func (h *Handler) GetUserBadges(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	badges, err := h.gamificationService.GetUserBadges(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get user badges")
		h.errorResponse(c, http.StatusInternalServerError, "failed to get user badges")
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges, "count": len(badges)})
}

// GetUserTransactions returns a user's most recent ledger entries.
// GET /api/v1/users/:id/transactions?limit=20.
func (h *Handler) GetUserTransactions(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := h.parseLimit(c, 20)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := h.leaderboardService.GetRecentTransactions(c.Request.Context(), userID, limit)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get transactions")
		h.errorResponse(c, http.StatusInternalServerError, "failed to get transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txns, "count": len(txns)})
}

// GetUserStats returns the activity aggregates badge eligibility is judged on.
// GET /api/v1/users/:id/stats.
func (h *Handler) GetUserStats(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.gamificationService.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get user stats")
		h.errorResponse(c, http.StatusInternalServerError, "failed to get user stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// awardRequest is the body of an internal award call.
type awardRequest struct {
	Action       string `json:"action" binding:"required"`
	Description  string `json:"description"`
	ResourceType string `json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
}

// AwardPoints records a point-earning action for a user.
// POST /api/v1/users/:id/points.
func (h *Handler) AwardPoints(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req awardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.gamificationService.AwardPoints(
		c.Request.Context(),
		userID,
		models.PointAction(req.Action),
		&gamification.AwardOptions{
			Description:  req.Description,
			ResourceType: req.ResourceType,
			ResourceID:   req.ResourceID,
		},
	)
	if err != nil {
		if errors.Is(err, gamification.ErrUnknownAction) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Uint("user_id", userID).Str("action", req.Action).Msg("Failed to award points")
		h.errorResponse(c, http.StatusInternalServerError, "failed to award points")
		return
	}

	c.JSON(http.StatusOK, result)
}

// EvaluateBadges re-runs badge eligibility for a user.
// POST /api/v1/users/:id/badges/evaluate.
func (h *Handler) EvaluateBadges(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	newBadges, err := h.gamificationService.CheckAndAwardBadges(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to evaluate badges")
		h.errorResponse(c, http.StatusInternalServerError, "failed to evaluate badges")
		return
	}

	if newBadges == nil {
		newBadges = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"new_badges": newBadges, "count": len(newBadges)})
}

func (h *Handler) parseUserID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user id: %s", c.Param("id"))
	}
	return uint(id), nil
}

func (h *Handler) parseLimit(c *gin.Context, fallback int) (int, error) {
	raw := c.DefaultQuery("limit", strconv.Itoa(fallback))
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 100 {
		return 0, fmt.Errorf("limit must be an integer between 1 and 100")
	}
	return limit, nil
}

func (h *Handler) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
