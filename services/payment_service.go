package services

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/config"
	"github.com/starfanhq/starfan/db"
	apiError "github.com/starfanhq/starfan/errors"
	"github.com/starfanhq/starfan/models"
)

// PaymentService records payments from fans to superstars. Settlement
// against a payment provider lives outside this system; a processed payment
// here is just a completed ledger row with a transaction reference.
type PaymentService interface {
	ProcessPayment(userID uint, request *models.ProcessPaymentRequest) (*models.Payment, error)
	GetPaymentDetails(userID, paymentID uint) (*models.Payment, error)
	GetTransactionDetails(ref string) (*models.Payment, error)
	ListUserPayments(userID uint, page, perPage int) ([]models.Payment, models.Pagination, error)
	ListSuperstarPayments(superstarID uint, page, perPage int) ([]models.Payment, models.Pagination, error)
	SuperstarRevenue(superstarID uint) (float64, error)
}

type paymentService struct {
	Config      *config.Config
	paymentRepo db.PaymentRepository
	authRepo    db.AuthRepository
}

func NewPaymentService(paymentRepo db.PaymentRepository, authRepo db.AuthRepository, conf *config.Config) PaymentService {
	return &paymentService{
		Config:      conf,
		paymentRepo: paymentRepo,
		authRepo:    authRepo,
	}
}

func (s *paymentService) ProcessPayment(userID uint, request *models.ProcessPaymentRequest) (*models.Payment, error) {
	if _, err := s.authRepo.FindSuperstarByID(request.SuperstarID); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, apiError.New("Superstar not found", http.StatusNotFound)
		}
		log.Printf("load superstar %d: %v", request.SuperstarID, err)
		return nil, apiError.ErrInternalServerError
	}

	currency := request.Currency
	if currency == "" {
		currency = "USD"
	}

	payment := &models.Payment{
		UserID:               userID,
		SuperstarID:          request.SuperstarID,
		Amount:               request.Amount,
		Currency:             currency,
		Status:               models.PaymentPending,
		TransactionReference: uuid.NewString(),
	}
	if err := s.paymentRepo.CreatePayment(payment); err != nil {
		log.Printf("create payment: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	payment.Status = models.PaymentCompleted
	if err := s.paymentRepo.UpdatePayment(payment); err != nil {
		log.Printf("complete payment %s: %v", payment.TransactionReference, err)
		return nil, apiError.ErrInternalServerError
	}
	return payment, nil
}

func (s *paymentService) GetPaymentDetails(userID, paymentID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(paymentID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, apiError.New("Payment not found", http.StatusNotFound)
		}
		log.Printf("find payment %d: %v", paymentID, err)
		return nil, apiError.ErrInternalServerError
	}
	// A payment is only visible to the fan who made it.
	if payment.UserID != userID {
		return nil, apiError.New("Payment not found", http.StatusNotFound)
	}
	return payment, nil
}

func (s *paymentService) GetTransactionDetails(ref string) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByReference(ref)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, apiError.New("Payment not found", http.StatusNotFound)
		}
		log.Printf("find payment %s: %v", ref, err)
		return nil, apiError.ErrInternalServerError
	}
	return payment, nil
}

func (s *paymentService) ListUserPayments(userID uint, page, perPage int) ([]models.Payment, models.Pagination, error) {
	if perPage < 1 {
		perPage = DefaultConversationPageSize
	}

	total, err := s.paymentRepo.CountPaymentsByUser(userID)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pagination := models.NewPagination(total, page, perPage)
	payments, err := s.paymentRepo.ListPaymentsByUser(userID, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return payments, pagination, nil
}

func (s *paymentService) ListSuperstarPayments(superstarID uint, page, perPage int) ([]models.Payment, models.Pagination, error) {
	if perPage < 1 {
		perPage = DefaultConversationPageSize
	}

	total, err := s.paymentRepo.CountPaymentsBySuperstar(superstarID)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pagination := models.NewPagination(total, page, perPage)
	payments, err := s.paymentRepo.ListPaymentsBySuperstar(superstarID, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return payments, pagination, nil
}

func (s *paymentService) SuperstarRevenue(superstarID uint) (float64, error) {
	return s.paymentRepo.SumCompletedBySuperstar(superstarID)
}
