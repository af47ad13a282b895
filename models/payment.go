package models

// PaymentStatus tracks a payment record through its short life.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is the record of a fan paying a superstar. Settlement happens
// outside this system; we only keep the ledger entry.
type Payment struct {
	Model
	UserID               uint          `json:"user_id" gorm:"not null;index"`
	SuperstarID          uint          `json:"superstar_id" gorm:"not null;index"`
	Amount               float64       `json:"amount" gorm:"not null"`
	Currency             string        `json:"currency" gorm:"type:varchar(8);default:'USD'"`
	Status               PaymentStatus `json:"status" gorm:"type:varchar(16);default:'pending'"`
	TransactionReference string        `json:"transaction_reference" gorm:"uniqueIndex;not null"`
	User                 *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Superstar            *SuperStar    `json:"superstar,omitempty" gorm:"foreignKey:SuperstarID"`
}

type ProcessPaymentRequest struct {
	SuperstarID uint    `json:"superstar_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency" binding:"omitempty,len=3"`
}
