package db

import (
	"time"

	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/models"
	"gorm.io/gorm"
)

type StoryRepository interface {
	CreateStory(story *models.Story) error
	FindStoryByID(id uint) (*models.Story, error)
	FindOwnStory(id, superstarID uint) (*models.Story, error)
	ListActiveStories(superstarID uint, since time.Time, limit, offset int) ([]models.Story, error)
	CountActiveStories(superstarID uint, since time.Time) (int64, error)
	ListAllActiveStories(since time.Time, limit, offset int) ([]models.Story, error)
	CountAllActiveStories(since time.Time) (int64, error)
	DeleteStory(id uint) error
}

type storyRepo struct {
	DB *gorm.DB
}

func NewStoryRepo(db *GormDB) StoryRepository {
	return &storyRepo{db.DB}
}

func (r *storyRepo) CreateStory(story *models.Story) error {
	if err := r.DB.Create(story).Error; err != nil {
		return errors.Wrap(err, "create story")
	}
	return nil
}

func (r *storyRepo) FindStoryByID(id uint) (*models.Story, error) {
	var story models.Story
	if err := r.DB.Preload("Superstar").First(&story, id).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *storyRepo) FindOwnStory(id, superstarID uint) (*models.Story, error) {
	var story models.Story
	err := r.DB.Where("id = ? AND superstar_id = ?", id, superstarID).First(&story).Error
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *storyRepo) ListActiveStories(superstarID uint, since time.Time, limit, offset int) ([]models.Story, error) {
	var stories []models.Story
	err := r.DB.Where("superstar_id = ? AND posted_at >= ?", superstarID, since).
		Preload("Superstar").
		Order("posted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&stories).Error
	if err != nil {
		return nil, errors.Wrap(err, "list active stories")
	}
	return stories, nil
}

func (r *storyRepo) CountActiveStories(superstarID uint, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Story{}).
		Where("superstar_id = ? AND posted_at >= ?", superstarID, since).
		Count(&count).Error
	return count, err
}

func (r *storyRepo) ListAllActiveStories(since time.Time, limit, offset int) ([]models.Story, error) {
	var stories []models.Story
	err := r.DB.Where("posted_at >= ?", since).
		Preload("Superstar").
		Order("posted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&stories).Error
	if err != nil {
		return nil, errors.Wrap(err, "list all active stories")
	}
	return stories, nil
}

func (r *storyRepo) CountAllActiveStories(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Story{}).Where("posted_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *storyRepo) DeleteStory(id uint) error {
	if err := r.DB.Delete(&models.Story{}, id).Error; err != nil {
		return errors.Wrap(err, "delete story")
	}
	return nil
}
