package models

// User represents a fan account. Fans sign in with Google, so there is no
// password column on this side.
type User struct {
	Model
	Fullname     string `json:"fullname" conform:"trim"`
	Username     string `json:"username" gorm:"uniqueIndex" conform:"trim"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	GoogleID     string `json:"-" gorm:"index"`
	ProfileImage string `json:"profile_image"`
	IsSocial     bool   `json:"-"`
	IsBlocked    bool   `json:"is_blocked" gorm:"default:false"`
}

// SuperStar represents a creator account with its public profile.
type SuperStar struct {
	Model
	DisplayName    string  `json:"display_name" conform:"trim"`
	Username       string  `json:"username" gorm:"uniqueIndex" conform:"trim"`
	Email          string  `json:"email" gorm:"uniqueIndex;not null"`
	HashedPassword string  `json:"-"`
	Bio            string  `json:"bio" conform:"trim"`
	ProfileImage   string  `json:"profile_image"`
	PricePerHour   float64 `json:"price_per_hour"`
	IsActive       bool    `json:"is_active" gorm:"default:true"`
}

// Blacklist stores revoked access tokens so logout is effective before the
// token expires.
type Blacklist struct {
	Model
	Token string `gorm:"index;not null"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type SuperstarLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

type EditProfileRequest struct {
	DisplayName  string   `json:"display_name" conform:"trim"`
	Username     string   `json:"username" conform:"trim"`
	Bio          string   `json:"bio" conform:"trim"`
	ProfileImage string   `json:"profile_image" conform:"trim"`
	PricePerHour *float64 `json:"price_per_hour"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// SuperstarPublic is the counterpart identity embedded in conversation and
// feed payloads.
type SuperstarPublic struct {
	ID           uint   `json:"id"`
	DisplayName  string `json:"display_name"`
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image"`
}

func (s *SuperStar) Public() SuperstarPublic {
	return SuperstarPublic{
		ID:           s.ID,
		DisplayName:  s.DisplayName,
		Username:     s.Username,
		ProfileImage: s.ProfileImage,
	}
}

// UserPublic mirrors SuperstarPublic for the fan side.
type UserPublic struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profile_image"`
}

func (u *User) Public() UserPublic {
	return UserPublic{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
	}
}
