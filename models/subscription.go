package models

// Subscription links a fan to a superstar they follow. The pair is unique at
// the storage layer.
type Subscription struct {
	Model
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_sub_pair"`
	SuperstarID uint       `json:"superstar_id" gorm:"not null;uniqueIndex:idx_sub_pair"`
	User        *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Superstar   *SuperStar `json:"superstar,omitempty" gorm:"foreignKey:SuperstarID"`
}

type SubscribeRequest struct {
	SuperstarID uint `json:"superstar_id" binding:"required"`
}
