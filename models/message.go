package models

import "time"

// MessageType tags what kind of content a message carries.
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageVideo MessageType = "video"
	MessageFile  MessageType = "file"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageVideo, MessageFile:
		return true
	}
	return false
}

// Message is one entry in a conversation. Invariant: at least one of Message
// and FilePath is set, and IsRead=false implies ReadAt=nil.
type Message struct {
	Model
	ConversationID uint          `json:"conversation_id" gorm:"not null;index"`
	Conversation   *Conversation `json:"conversation,omitempty" gorm:"foreignKey:ConversationID"`
	SenderType     ActorRole     `json:"sender_type" gorm:"type:varchar(16);not null;index"`
	SenderID       uint          `json:"sender_id" gorm:"not null"`
	MessageType    MessageType   `json:"message_type" gorm:"type:varchar(16);not null"`
	Message        *string       `json:"message"`
	FilePath       *string       `json:"file_path"`
	FileName       *string       `json:"file_name"`
	FileSize       *int64        `json:"file_size"`
	IsRead         bool          `json:"is_read" gorm:"default:false"`
	ReadAt         *time.Time    `json:"read_at"`
}

// HasAttachment reports whether a stored object backs this message.
func (m *Message) HasAttachment() bool {
	return m.FilePath != nil && *m.FilePath != ""
}
