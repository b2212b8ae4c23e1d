package repositories

import (
	"github.com/plumekit/plume-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateIfAbsent(notification *models.Notification) error
	GetByRecipientID(recipientID uint) ([]models.Notification, error)
	GetCount(recipientID uint) (int64, error)
	Delete(recipientID uint, postID string) (*models.Notification, error)
	DeleteAll(recipientID uint) error
	DeleteByPostIDs(postIDs []string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

// CreateIfAbsent inserts the (recipient, post) marker unless one already
// exists. The unique index resolves check-then-insert races; a conflicting
// concurrent insert is silently absorbed.
func (r *postgresNotificationRepository) CreateIfAbsent(notification *models.Notification) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(notification).Error
}

// GetByRecipientID returns the user's notifications in insertion order
func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("id ASC").
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&count).Error
	return count, err
}

// Delete dismisses a single notification, returning the removed row or
// ErrNotFound when the pair does not exist.
func (r *postgresNotificationRepository) Delete(recipientID uint, postID string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.Where("recipient_id = ? AND post_id = ?", recipientID, postID).First(&notification).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := r.db.Delete(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// DeleteAll dismisses every notification for the user; zero rows is fine
func (r *postgresNotificationRepository) DeleteAll(recipientID uint) error {
	return r.db.Where("recipient_id = ?", recipientID).Delete(&models.Notification{}).Error
}

// DeleteByPostIDs bulk-removes notifications for a set of posts (cascade contract)
func (r *postgresNotificationRepository) DeleteByPostIDs(postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	return r.db.Where("post_id IN ?", postIDs).Delete(&models.Notification{}).Error
}
