package db

import (
	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/models"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	FindUserByGoogleID(googleID string) (*models.User, error)
	UpdateUser(user *models.User) error
	FindSuperstarByID(id uint) (*models.SuperStar, error)
	FindSuperstarByEmail(email string) (*models.SuperStar, error)
	UpdateSuperstar(superstar *models.SuperStar) error
	ListSuperstars(limit, offset int) ([]models.SuperStar, error)
	CountSuperstars() (int64, error)
	AddToBlacklist(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if err := a.DB.Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := a.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByGoogleID(googleID string) (*models.User, error) {
	var user models.User
	if err := a.DB.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	return a.DB.Save(user).Error
}

func (a *authRepo) FindSuperstarByID(id uint) (*models.SuperStar, error) {
	var superstar models.SuperStar
	if err := a.DB.First(&superstar, id).Error; err != nil {
		return nil, err
	}
	return &superstar, nil
}

func (a *authRepo) FindSuperstarByEmail(email string) (*models.SuperStar, error) {
	var superstar models.SuperStar
	if err := a.DB.Where("email = ?", email).First(&superstar).Error; err != nil {
		return nil, err
	}
	return &superstar, nil
}

func (a *authRepo) UpdateSuperstar(superstar *models.SuperStar) error {
	return a.DB.Save(superstar).Error
}

func (a *authRepo) ListSuperstars(limit, offset int) ([]models.SuperStar, error) {
	var superstars []models.SuperStar
	err := a.DB.Where("is_active = ?", true).
		Order("display_name ASC").
		Limit(limit).
		Offset(offset).
		Find(&superstars).Error
	if err != nil {
		return nil, errors.Wrap(err, "list superstars")
	}
	return superstars, nil
}

func (a *authRepo) CountSuperstars() (int64, error) {
	var count int64
	err := a.DB.Model(&models.SuperStar{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (a *authRepo) AddToBlacklist(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count)
	return count > 0
}
