package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ailyceum/lyceum-backend/internal/models"
)

// BadgeRepository handles badge catalog and award database operations.
type BadgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db *DB) *BadgeRepository {
	return &BadgeRepository{db: db.DB}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *BadgeRepository) WithTx(tx *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: tx}
}

// Create inserts a catalog badge.
func (r *BadgeRepository) Create(badge *models.Badge) error {
	return r.db.Create(badge).Error
}

// GetAll retrieves the full badge catalog in seed order.
func (r *BadgeRepository) GetAll() ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.Order("id ASC").Find(&badges).Error
	return badges, err
}

// GetBySlug retrieves a catalog badge by its slug. Returns (nil, nil) when no
// badge with that slug exists.
func (r *BadgeRepository) GetBySlug(slug string) (*models.Badge, error) {
	var badge models.Badge
	err := r.db.Where("slug = ?", slug).First(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

// HeldBadgeIDs returns the set of badge ids a user has already earned.
func (r *BadgeRepository) HeldBadgeIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, err
	}
	held := make(map[uint]bool, len(ids))
	for _, id := range ids {
		held[id] = true
	}
	return held, nil
}

// Award records a badge earned by a user. The (user, badge) pair is unique;
// callers exclude already-held badges before awarding.
func (r *BadgeRepository) Award(userID, badgeID uint) error {
	return r.db.Create(&models.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now(),
	}).Error
}

// GetUserBadges retrieves all badges earned by a user with catalog metadata
// preloaded, earliest first.
func (r *BadgeRepository) GetUserBadges(userID uint) ([]models.UserBadge, error) {
	var userBadges []models.UserBadge
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Badge").
		Order("earned_at ASC").
		Order("id ASC").
		Find(&userBadges).Error
	return userBadges, err
}

// HoldersCount returns the number of users who have earned a badge.
func (r *BadgeRepository) HoldersCount(badgeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("badge_id = ?", badgeID).
		Count(&count).Error
	return count, err
}
