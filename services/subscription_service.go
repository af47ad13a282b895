package services

import (
	"log"
	"net/http"

	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/config"
	"github.com/starfanhq/starfan/db"
	apiError "github.com/starfanhq/starfan/errors"
	"github.com/starfanhq/starfan/models"
)

// SubscriptionService manages which superstars a fan follows.
type SubscriptionService interface {
	ListSubscriptions(userID uint, page, perPage int) ([]models.Subscription, models.Pagination, error)
	Subscribe(userID, superstarID uint) (*models.Subscription, error)
	Unsubscribe(userID, superstarID uint) error
}

type subscriptionService struct {
	Config   *config.Config
	subRepo  db.SubscriptionRepository
	authRepo db.AuthRepository
}

func NewSubscriptionService(subRepo db.SubscriptionRepository, authRepo db.AuthRepository, conf *config.Config) SubscriptionService {
	return &subscriptionService{
		Config:   conf,
		subRepo:  subRepo,
		authRepo: authRepo,
	}
}

func (s *subscriptionService) ListSubscriptions(userID uint, page, perPage int) ([]models.Subscription, models.Pagination, error) {
	if perPage < 1 {
		perPage = DefaultConversationPageSize
	}

	total, err := s.subRepo.CountSubscriptions(userID)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pagination := models.NewPagination(total, page, perPage)
	subs, err := s.subRepo.ListSubscriptions(userID, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return subs, pagination, nil
}

func (s *subscriptionService) Subscribe(userID, superstarID uint) (*models.Subscription, error) {
	if _, err := s.authRepo.FindSuperstarByID(superstarID); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, apiError.New("Superstar not found", http.StatusNotFound)
		}
		log.Printf("load superstar %d: %v", superstarID, err)
		return nil, apiError.ErrInternalServerError
	}

	if existing, err := s.subRepo.FindSubscription(userID, superstarID); err == nil {
		return existing, nil
	} else if !errors.Is(err, db.ErrRecordNotFound) {
		log.Printf("find subscription (%d, %d): %v", userID, superstarID, err)
		return nil, apiError.ErrInternalServerError
	}

	sub := &models.Subscription{UserID: userID, SuperstarID: superstarID}
	if err := s.subRepo.CreateSubscription(sub); err != nil {
		log.Printf("create subscription: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}
	return sub, nil
}

func (s *subscriptionService) Unsubscribe(userID, superstarID uint) error {
	removed, err := s.subRepo.DeleteSubscription(userID, superstarID)
	if err != nil {
		log.Printf("delete subscription (%d, %d): %v", userID, superstarID, err)
		return apiError.ErrInternalServerError
	}
	if removed == 0 {
		return apiError.New("Subscription not found", http.StatusNotFound)
	}
	return nil
}
