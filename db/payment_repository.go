package db

import (
	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/models"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	CreatePayment(payment *models.Payment) error
	UpdatePayment(payment *models.Payment) error
	FindPaymentByID(id uint) (*models.Payment, error)
	FindPaymentByReference(ref string) (*models.Payment, error)
	ListPaymentsByUser(userID uint, limit, offset int) ([]models.Payment, error)
	CountPaymentsByUser(userID uint) (int64, error)
	ListPaymentsBySuperstar(superstarID uint, limit, offset int) ([]models.Payment, error)
	CountPaymentsBySuperstar(superstarID uint) (int64, error)
	SumCompletedBySuperstar(superstarID uint) (float64, error)
}

type paymentRepo struct {
	DB *gorm.DB
}

func NewPaymentRepo(db *GormDB) PaymentRepository {
	return &paymentRepo{db.DB}
}

func (r *paymentRepo) CreatePayment(payment *models.Payment) error {
	if err := r.DB.Create(payment).Error; err != nil {
		return errors.Wrap(err, "create payment")
	}
	return nil
}

func (r *paymentRepo) UpdatePayment(payment *models.Payment) error {
	return r.DB.Save(payment).Error
}

func (r *paymentRepo) FindPaymentByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.DB.Preload("Superstar").First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) FindPaymentByReference(ref string) (*models.Payment, error) {
	var payment models.Payment
	err := r.DB.Preload("Superstar").Where("transaction_reference = ?", ref).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) ListPaymentsByUser(userID uint, limit, offset int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.DB.Where("user_id = ?", userID).
		Preload("Superstar").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&payments).Error
	if err != nil {
		return nil, errors.Wrap(err, "list payments by user")
	}
	return payments, nil
}

func (r *paymentRepo) CountPaymentsByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Payment{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *paymentRepo) ListPaymentsBySuperstar(superstarID uint, limit, offset int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.DB.Where("superstar_id = ?", superstarID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&payments).Error
	if err != nil {
		return nil, errors.Wrap(err, "list payments by superstar")
	}
	return payments, nil
}

func (r *paymentRepo) CountPaymentsBySuperstar(superstarID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Payment{}).Where("superstar_id = ?", superstarID).Count(&count).Error
	return count, err
}

func (r *paymentRepo) SumCompletedBySuperstar(superstarID uint) (float64, error) {
	var total float64
	err := r.DB.Model(&models.Payment{}).
		Where("superstar_id = ? AND status = ?", superstarID, models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
