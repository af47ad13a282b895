package db

import (
	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/models"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	CreateSubscription(sub *models.Subscription) error
	FindSubscription(userID, superstarID uint) (*models.Subscription, error)
	ListSubscriptions(userID uint, limit, offset int) ([]models.Subscription, error)
	CountSubscriptions(userID uint) (int64, error)
	DeleteSubscription(userID, superstarID uint) (int64, error)
}

type subscriptionRepo struct {
	DB *gorm.DB
}

func NewSubscriptionRepo(db *GormDB) SubscriptionRepository {
	return &subscriptionRepo{db.DB}
}

func (r *subscriptionRepo) CreateSubscription(sub *models.Subscription) error {
	if err := r.DB.Create(sub).Error; err != nil {
		return errors.Wrap(err, "create subscription")
	}
	return nil
}

func (r *subscriptionRepo) FindSubscription(userID, superstarID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.DB.Where("user_id = ? AND superstar_id = ?", userID, superstarID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) ListSubscriptions(userID uint, limit, offset int) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.DB.Where("user_id = ?", userID).
		Preload("Superstar").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&subs).Error
	if err != nil {
		return nil, errors.Wrap(err, "list subscriptions")
	}
	return subs, nil
}

func (r *subscriptionRepo) CountSubscriptions(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Subscription{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeleteSubscription removes the pair and reports whether anything was there.
func (r *subscriptionRepo) DeleteSubscription(userID, superstarID uint) (int64, error) {
	res := r.DB.Where("user_id = ? AND superstar_id = ?", userID, superstarID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "delete subscription")
	}
	return res.RowsAffected, nil
}
