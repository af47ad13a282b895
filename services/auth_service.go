package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	goval "github.com/go-passwd/validator"
	"github.com/google/uuid"
	"github.com/leebenson/conform"
	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/config"
	"github.com/starfanhq/starfan/db"
	apiError "github.com/starfanhq/starfan/errors"
	"github.com/starfanhq/starfan/models"
	"github.com/starfanhq/starfan/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// AuthService resolves identities for both actor roles: Google sign-in for
// fans, email+password for superstars.
type AuthService interface {
	GoogleLoginUser(ctx context.Context, request *models.GoogleLoginRequest) (*models.LoginResponse, *apiError.Error)
	GoogleLoginURL(state string) string
	GoogleCallbackUser(ctx context.Context, code string) (*models.LoginResponse, *apiError.Error)
	LoginSuperstar(request *models.SuperstarLoginRequest) (*models.LoginResponse, *apiError.Error)
	GetUserProfile(userID uint) (*models.User, error)
	GetSuperstarProfile(superstarID uint) (*models.SuperStar, error)
	UpdateSuperstarProfile(superstarID uint, request *models.EditProfileRequest) (*models.SuperStar, *apiError.Error)
	ChangeSuperstarPassword(superstarID uint, request *models.ChangePasswordRequest) *apiError.Error
	Logout(token string) error
	ListSuperstars(page, perPage int) ([]models.SuperStar, models.Pagination, error)
}

type authService struct {
	Config      *config.Config
	authRepo    db.AuthRepository
	oauthConfig *oauth2.Config
}

func NewAuthService(authRepo db.AuthRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
		oauthConfig: &oauth2.Config{
			ClientID:     conf.GoogleClientID,
			ClientSecret: conf.GoogleClientSecret,
			RedirectURL:  conf.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// GoogleLoginUser verifies a Google ID token handed over by the client and
// signs the matching fan account in, creating it on first contact.
func (a *authService) GoogleLoginUser(ctx context.Context, request *models.GoogleLoginRequest) (*models.LoginResponse, *apiError.Error) {
	srv, err := oauth2v2.NewService(ctx, option.WithoutAuthentication())
	if err != nil {
		log.Printf("google oauth service: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	info, err := srv.Tokeninfo().IdToken(request.IDToken).Do()
	if err != nil {
		log.Printf("google tokeninfo: %v", err)
		return nil, apiError.New("invalid google token", http.StatusUnauthorized)
	}
	if info.Audience != a.Config.GoogleClientID {
		return nil, apiError.New("invalid google token", http.StatusUnauthorized)
	}

	return a.loginGoogleIdentity(info.UserId, info.Email)
}

func (a *authService) GoogleLoginURL(state string) string {
	return a.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GoogleCallbackUser finishes the redirect flow: exchanges the authorization
// code, reads the profile, and signs the fan in.
func (a *authService) GoogleCallbackUser(ctx context.Context, code string) (*models.LoginResponse, *apiError.Error) {
	token, err := a.oauthConfig.Exchange(ctx, code)
	if err != nil {
		log.Printf("google code exchange: %v", err)
		return nil, apiError.New("invalid authorization code", http.StatusUnauthorized)
	}

	srv, err := oauth2v2.NewService(ctx, option.WithTokenSource(a.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		log.Printf("google oauth service: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	info, err := srv.Userinfo.Get().Do()
	if err != nil {
		log.Printf("google userinfo: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return a.loginGoogleIdentity(info.Id, info.Email)
}

func (a *authService) loginGoogleIdentity(googleID, email string) (*models.LoginResponse, *apiError.Error) {
	user, err := a.findOrCreateGoogleUser(googleID, email)
	if err != nil {
		log.Printf("google user lookup: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	accessToken, err := jwt.GenerateToken(user.ID, string(models.RoleUser), a.Config.JWTSecret)
	if err != nil {
		log.Printf("generate token: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		AccessToken: accessToken,
		Role:        string(models.RoleUser),
	}, nil
}

func (a *authService) findOrCreateGoogleUser(googleID, email string) (*models.User, error) {
	user, err := a.authRepo.FindUserByGoogleID(googleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, db.ErrRecordNotFound) {
		return nil, err
	}

	// A pre-existing account with the same email gets linked instead of
	// duplicated.
	user, err = a.authRepo.FindUserByEmail(email)
	if err == nil {
		user.GoogleID = googleID
		user.IsSocial = true
		if err := a.authRepo.UpdateUser(user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, db.ErrRecordNotFound) {
		return nil, err
	}

	username := strings.SplitN(email, "@", 2)[0]
	newUser := &models.User{
		Username: username,
		Email:    email,
		GoogleID: googleID,
		IsSocial: true,
	}
	created, err := a.authRepo.CreateUser(newUser)
	if err != nil {
		// Username collisions are expected; retry once with a random suffix.
		newUser.Username = fmt.Sprintf("%s-%s", username, uuid.NewString()[:8])
		created, err = a.authRepo.CreateUser(newUser)
		if err != nil {
			return nil, err
		}
	}
	return created, nil
}

func (a *authService) LoginSuperstar(request *models.SuperstarLoginRequest) (*models.LoginResponse, *apiError.Error) {
	superstar, err := a.authRepo.FindSuperstarByEmail(request.Email)
	if err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}
	if !superstar.IsActive {
		return nil, apiError.New("account is deactivated", http.StatusUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(superstar.HashedPassword), []byte(request.Password)); err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	accessToken, err := jwt.GenerateToken(superstar.ID, string(models.RoleSuperstar), a.Config.JWTSecret)
	if err != nil {
		log.Printf("generate token: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		AccessToken: accessToken,
		Role:        string(models.RoleSuperstar),
	}, nil
}

func (a *authService) GetUserProfile(userID uint) (*models.User, error) {
	return a.authRepo.FindUserByID(userID)
}

func (a *authService) GetSuperstarProfile(superstarID uint) (*models.SuperStar, error) {
	return a.authRepo.FindSuperstarByID(superstarID)
}

func (a *authService) UpdateSuperstarProfile(superstarID uint, request *models.EditProfileRequest) (*models.SuperStar, *apiError.Error) {
	if err := conform.Strings(request); err != nil {
		log.Printf("conform profile request: %v", err)
		return nil, apiError.ErrBadRequest
	}

	superstar, err := a.authRepo.FindSuperstarByID(superstarID)
	if err != nil {
		return nil, apiError.New("superstar not found", http.StatusNotFound)
	}

	if request.DisplayName != "" {
		superstar.DisplayName = request.DisplayName
	}
	if request.Username != "" {
		superstar.Username = request.Username
	}
	if request.Bio != "" {
		superstar.Bio = request.Bio
	}
	if request.ProfileImage != "" {
		superstar.ProfileImage = request.ProfileImage
	}
	if request.PricePerHour != nil {
		superstar.PricePerHour = *request.PricePerHour
	}

	if err := a.authRepo.UpdateSuperstar(superstar); err != nil {
		log.Printf("update superstar %d: %v", superstarID, err)
		return nil, apiError.GetUniqueContraintError(err)
	}
	return superstar, nil
}

func validateNewPassword(password string) error {
	passwordValidator := goval.New(
		goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")),
	)
	return passwordValidator.Validate(password)
}

func (a *authService) ChangeSuperstarPassword(superstarID uint, request *models.ChangePasswordRequest) *apiError.Error {
	superstar, err := a.authRepo.FindSuperstarByID(superstarID)
	if err != nil {
		return apiError.New("superstar not found", http.StatusNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(superstar.HashedPassword), []byte(request.CurrentPassword)); err != nil {
		return apiError.New("current password is incorrect", http.StatusUnauthorized)
	}

	if err := validateNewPassword(request.NewPassword); err != nil {
		return apiError.New(err.Error(), http.StatusUnprocessableEntity)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		return apiError.ErrInternalServerError
	}
	superstar.HashedPassword = string(hashed)

	if err := a.authRepo.UpdateSuperstar(superstar); err != nil {
		log.Printf("update superstar password %d: %v", superstarID, err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) Logout(token string) error {
	return a.authRepo.AddToBlacklist(&models.Blacklist{Token: token})
}

func (a *authService) ListSuperstars(page, perPage int) ([]models.SuperStar, models.Pagination, error) {
	if perPage < 1 {
		perPage = DefaultConversationPageSize
	}

	total, err := a.authRepo.CountSuperstars()
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pagination := models.NewPagination(total, page, perPage)
	superstars, err := a.authRepo.ListSuperstars(pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return superstars, pagination, nil
}
