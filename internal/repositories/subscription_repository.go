package repositories

import (
	"github.com/plumekit/plume-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository tracks which users follow which blogs. Subscribe and
// unsubscribe are idempotent: re-subscribing is not an error and does not
// duplicate rows, unsubscribing an absent pair is a no-op.
type SubscriptionRepository interface {
	CreateSubscription(sub *models.Subscription) error
	DeleteSubscription(userID, blogID uint) error
	IsSubscribed(userID, blogID uint) (bool, error)
	GetSubscriberIDs(blogID uint) ([]uint, error)
	GetSubscribedBlogIDs(userID uint) ([]uint, error)
	DeleteSubscriptionsByBlogID(blogID uint) error
}

// PostgresSubscriptionRepository implements SubscriptionRepository for PostgreSQL
type PostgresSubscriptionRepository struct {
	db *gorm.DB
}

// NewPostgresSubscriptionRepository creates a new PostgresSubscriptionRepository
func NewPostgresSubscriptionRepository(db *gorm.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

// CreateSubscription inserts the pair if absent. ON CONFLICT DO NOTHING keeps
// the operation idempotent under concurrent subscribes.
func (r *PostgresSubscriptionRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error
}

// DeleteSubscription removes the pair; deleting an absent pair is not an error
func (r *PostgresSubscriptionRepository) DeleteSubscription(userID, blogID uint) error {
	return r.db.Where("user_id = ? AND blog_id = ?", userID, blogID).Delete(&models.Subscription{}).Error
}

func (r *PostgresSubscriptionRepository) IsSubscribed(userID, blogID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Subscription{}).Where("user_id = ? AND blog_id = ?", userID, blogID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetSubscriberIDs returns the fan-out set for a blog
func (r *PostgresSubscriptionRepository) GetSubscriberIDs(blogID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Subscription{}).Where("blog_id = ?", blogID).Pluck("user_id", &ids).Error
	return ids, err
}

// GetSubscribedBlogIDs returns every blog the user follows
func (r *PostgresSubscriptionRepository) GetSubscribedBlogIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Subscription{}).Where("user_id = ?", userID).Pluck("blog_id", &ids).Error
	return ids, err
}

// DeleteSubscriptionsByBlogID removes all subscriptions of a blog (cascade contract)
func (r *PostgresSubscriptionRepository) DeleteSubscriptionsByBlogID(blogID uint) error {
	return r.db.Where("blog_id = ?", blogID).Delete(&models.Subscription{}).Error
}
