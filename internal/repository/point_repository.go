package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ailyceum/lyceum-backend/internal/models"
)

// PointRepository handles point ledger and summary database operations.
type PointRepository struct {
	db *gorm.DB
}

// NewPointRepository creates a new point repository.
func NewPointRepository(db *DB) *PointRepository {
	return &PointRepository{db: db.DB}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PointRepository) WithTx(tx *gorm.DB) *PointRepository {
	return &PointRepository{db: tx}
}

// CreateTransaction appends a ledger entry. Ledger rows are never updated
// or deleted.
func (r *PointRepository) CreateTransaction(txn *models.PointTransaction) error {
	return r.db.Create(txn).Error
}

// GetSummary retrieves a user's point summary. Returns (nil, nil) when the
// user has no summary row yet.
func (r *PointRepository) GetSummary(userID uint) (*models.UserPointSummary, error) {
	var summary models.UserPointSummary
	err := r.db.Where("user_id = ?", userID).First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetSummaryForUpdate retrieves a user's point summary holding a row lock for
// the duration of the enclosing transaction, serializing concurrent awards
// for the same user. Returns (nil, nil) when no row exists yet.
func (r *PointRepository) GetSummaryForUpdate(userID uint) (*models.UserPointSummary, error) {
	q := r.db
	// SQLite serializes writers on its own and rejects FOR UPDATE.
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var summary models.UserPointSummary
	err := q.Where("user_id = ?", userID).First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// CreateSummary inserts the first summary row for a user.
func (r *PointRepository) CreateSummary(summary *models.UserPointSummary) error {
	return r.db.Create(summary).Error
}

// SaveSummary persists an updated summary row.
func (r *PointRepository) SaveSummary(summary *models.UserPointSummary) error {
	summary.UpdatedAt = time.Now()
	return r.db.Save(summary).Error
}

// Leaderboard returns the top summaries ordered by total points descending,
// user id ascending as the stable tiebreak.
func (r *PointRepository) Leaderboard(limit int) ([]models.UserPointSummary, error) {
	var summaries []models.UserPointSummary
	err := r.db.
		Order("total_points DESC").
		Order("user_id ASC").
		Limit(limit).
		Find(&summaries).Error
	return summaries, err
}

// RecentTransactions returns the newest ledger entries for a user.
func (r *PointRepository) RecentTransactions(userID uint, limit int) ([]models.PointTransaction, error) {
	var txns []models.PointTransaction
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

// SumPoints totals the ledger for a user. Used to audit the summary cache
// against the append-only ledger.
func (r *PointRepository) SumPoints(userID uint) (int, error) {
	var total int64
	err := r.db.Model(&models.PointTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return int(total), err
}
