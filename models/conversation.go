package models

import "time"

// ConversationStatus is the lifecycle state of a conversation.
type ConversationStatus string

const (
	ConversationActive  ConversationStatus = "active"
	ConversationEnded   ConversationStatus = "ended"
	ConversationBlocked ConversationStatus = "blocked"
)

func (s ConversationStatus) Valid() bool {
	switch s {
	case ConversationActive, ConversationEnded, ConversationBlocked:
		return true
	}
	return false
}

// Conversation is the durable pairing of one user and one superstar.
// Conversations are never hard-deleted; their messages reference them by id.
type Conversation struct {
	Model
	UserID      uint               `json:"user_id" gorm:"not null;index"`
	SuperstarID uint               `json:"superstar_id" gorm:"not null;index"`
	Status      ConversationStatus `json:"status" gorm:"type:varchar(16);default:'active'"`
	StartedAt   *time.Time         `json:"started_at"`
	EndedAt     *time.Time         `json:"ended_at"`

	User      *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Superstar *SuperStar `json:"superstar,omitempty" gorm:"foreignKey:SuperstarID"`

	// LastMessage is the preview message attached when listing conversations.
	// It is loaded separately, never persisted here.
	LastMessage *Message `json:"last_message,omitempty" gorm:"-"`
}

// AuthorizeActor reports whether the actor is a party to this conversation.
// Every conversation-scoped operation goes through this one check.
func (cv *Conversation) AuthorizeActor(actor Actor) bool {
	switch actor.Role {
	case RoleUser:
		return cv.UserID == actor.ID
	case RoleSuperstar:
		return cv.SuperstarID == actor.ID
	}
	return false
}
