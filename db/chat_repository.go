package db

import (
	"time"

	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/models"
	"gorm.io/gorm"
)

// ErrRecordNotFound is re-exported so services don't import gorm directly.
var ErrRecordNotFound = gorm.ErrRecordNotFound

// ChatRepository is the persistence surface of the chat core. Bulk read-state
// changes and counts are single SQL statements so concurrent sends and reads
// cannot interleave between a count and an update.
type ChatRepository interface {
	FindConversationByID(id uint) (*models.Conversation, error)
	FindConversationByPair(userID, superstarID uint) (*models.Conversation, error)
	CreateConversation(conv *models.Conversation) error
	ListConversations(actor models.Actor, status models.ConversationStatus, limit, offset int) ([]models.Conversation, error)
	CountConversations(actor models.Actor, status models.ConversationStatus) (int64, error)
	AttachLastMessages(convs []models.Conversation) error
	ListMessagesDesc(conversationID uint, limit, offset int) ([]models.Message, error)
	CountMessages(conversationID uint) (int64, error)
	CreateMessage(msg *models.Message, sentAt time.Time) error
	MarkMessagesRead(conversationID uint, senderType models.ActorRole, readAt time.Time) (int64, error)
	CountUnread(actor models.Actor) (int64, error)
	UpdateConversationStatus(conv *models.Conversation, updates map[string]interface{}) error
	FindOwnMessage(messageID uint, actor models.Actor) (*models.Message, error)
	DeleteMessage(messageID uint) error
}

type chatRepo struct {
	DB *gorm.DB
}

func NewChatRepo(db *GormDB) ChatRepository {
	return &chatRepo{db.DB}
}

// partyColumn maps an actor role to the conversation column that names it.
func partyColumn(role models.ActorRole) string {
	if role == models.RoleSuperstar {
		return "superstar_id"
	}
	return "user_id"
}

func (r *chatRepo) FindConversationByID(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.DB.Preload("User").Preload("Superstar").First(&conv, id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *chatRepo) FindConversationByPair(userID, superstarID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.DB.Where("user_id = ? AND superstar_id = ?", userID, superstarID).
		Order("id DESC").
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *chatRepo) CreateConversation(conv *models.Conversation) error {
	if err := r.DB.Create(conv).Error; err != nil {
		return errors.Wrap(err, "create conversation")
	}
	return nil
}

func (r *chatRepo) conversationQuery(actor models.Actor, status models.ConversationStatus) *gorm.DB {
	q := r.DB.Model(&models.Conversation{}).Where(partyColumn(actor.Role)+" = ?", actor.ID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return q
}

func (r *chatRepo) ListConversations(actor models.Actor, status models.ConversationStatus, limit, offset int) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.conversationQuery(actor, status).
		Preload("User").
		Preload("Superstar").
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&convs).Error
	if err != nil {
		return nil, errors.Wrap(err, "list conversations")
	}
	return convs, nil
}

func (r *chatRepo) CountConversations(actor models.Actor, status models.ConversationStatus) (int64, error) {
	var count int64
	if err := r.conversationQuery(actor, status).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count conversations")
	}
	return count, nil
}

// AttachLastMessages loads the single most recent message of each
// conversation in the slice and sets it as the preview.
func (r *chatRepo) AttachLastMessages(convs []models.Conversation) error {
	if len(convs) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(convs))
	for _, conv := range convs {
		ids = append(ids, conv.ID)
	}

	latest := r.DB.Model(&models.Message{}).
		Select("MAX(id)").
		Where("conversation_id IN ?", ids).
		Group("conversation_id")

	var msgs []models.Message
	if err := r.DB.Where("id IN (?)", latest).Find(&msgs).Error; err != nil {
		return errors.Wrap(err, "load last messages")
	}

	byConv := make(map[uint]models.Message, len(msgs))
	for _, msg := range msgs {
		byConv[msg.ConversationID] = msg
	}
	for i := range convs {
		if msg, ok := byConv[convs[i].ID]; ok {
			m := msg
			convs[i].LastMessage = &m
		}
	}
	return nil
}

// ListMessagesDesc returns messages newest-first so that page 1 always holds
// the most recent window. Creation order ties on created_at are broken by id.
func (r *chatRepo) ListMessagesDesc(conversationID uint, limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	return msgs, nil
}

func (r *chatRepo) CountMessages(conversationID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count messages")
	}
	return count, nil
}

// CreateMessage persists the message and touches the parent conversation's
// updated_at in the same transaction, which is what keeps a freshly written
// conversation at the top of both parties' lists.
func (r *chatRepo) CreateMessage(msg *models.Message, sentAt time.Time) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return errors.Wrap(err, "create message")
		}
		err := tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", sentAt).Error
		if err != nil {
			return errors.Wrap(err, "touch conversation")
		}
		return nil
	})
}

// MarkMessagesRead flips every unread message from the given sender side in
// one conditional UPDATE and reports how many rows changed.
func (r *chatRepo) MarkMessagesRead(conversationID uint, senderType models.ActorRole, readAt time.Time) (int64, error) {
	res := r.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_type = ? AND is_read = ?", conversationID, senderType, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "mark messages read")
	}
	return res.RowsAffected, nil
}

// CountUnread is the cross-conversation aggregate: unread messages sent by
// the opposite role in every conversation the actor is a party to.
func (r *chatRepo) CountUnread(actor models.Actor) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations."+partyColumn(actor.Role)+" = ?", actor.ID).
		Where("messages.sender_type = ? AND messages.is_read = ?", actor.Role.Opposite(), false).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count unread")
	}
	return count, nil
}

func (r *chatRepo) UpdateConversationStatus(conv *models.Conversation, updates map[string]interface{}) error {
	if err := r.DB.Model(conv).Updates(updates).Error; err != nil {
		return errors.Wrap(err, "update conversation status")
	}
	return nil
}

// FindOwnMessage looks a message up by id AND sender identity. A message that
// exists but belongs to someone else comes back as not found, so callers
// cannot probe for other people's messages.
func (r *chatRepo) FindOwnMessage(messageID uint, actor models.Actor) (*models.Message, error) {
	var msg models.Message
	err := r.DB.Where("id = ? AND sender_type = ? AND sender_id = ?", messageID, actor.Role, actor.ID).
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *chatRepo) DeleteMessage(messageID uint) error {
	if err := r.DB.Delete(&models.Message{}, messageID).Error; err != nil {
		return errors.Wrap(err, "delete message")
	}
	return nil
}
