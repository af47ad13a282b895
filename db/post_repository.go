package db

import (
	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/models"
	"gorm.io/gorm"
)

type PostRepository interface {
	CreatePost(post *models.Post) error
	FindPostByID(id uint) (*models.Post, error)
	FindOwnPost(id, superstarID uint) (*models.Post, error)
	ListPostsBySuperstar(superstarID uint, limit, offset int) ([]models.Post, error)
	CountPostsBySuperstar(superstarID uint) (int64, error)
	ListAllPosts(limit, offset int) ([]models.Post, error)
	CountAllPosts() (int64, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
}

type postRepo struct {
	DB *gorm.DB
}

func NewPostRepo(db *GormDB) PostRepository {
	return &postRepo{db.DB}
}

func (r *postRepo) CreatePost(post *models.Post) error {
	if err := r.DB.Create(post).Error; err != nil {
		return errors.Wrap(err, "create post")
	}
	return nil
}

func (r *postRepo) FindPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.DB.Preload("Superstar").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) FindOwnPost(id, superstarID uint) (*models.Post, error) {
	var post models.Post
	err := r.DB.Where("id = ? AND superstar_id = ?", id, superstarID).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) ListPostsBySuperstar(superstarID uint, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.DB.Where("superstar_id = ?", superstarID).
		Preload("Superstar").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	return posts, nil
}

func (r *postRepo) CountPostsBySuperstar(superstarID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Post{}).Where("superstar_id = ?", superstarID).Count(&count).Error
	return count, err
}

func (r *postRepo) ListAllPosts(limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.DB.Preload("Superstar").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "list all posts")
	}
	return posts, nil
}

func (r *postRepo) CountAllPosts() (int64, error) {
	var count int64
	err := r.DB.Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *postRepo) UpdatePost(post *models.Post) error {
	return r.DB.Save(post).Error
}

func (r *postRepo) DeletePost(id uint) error {
	if err := r.DB.Delete(&models.Post{}, id).Error; err != nil {
		return errors.Wrap(err, "delete post")
	}
	return nil
}
