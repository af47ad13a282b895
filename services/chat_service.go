package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/config"
	"github.com/starfanhq/starfan/db"
	apiError "github.com/starfanhq/starfan/errors"
	"github.com/starfanhq/starfan/models"
)

const (
	MaxChatFileSize = 10 << 20 // 10 MB

	DefaultConversationPageSize = 15
	DefaultMessagePageSize      = 20

	chatFileFolder = "chat_files"
)

// FileUpload carries an incoming multipart file into the service layer
// without binding it to the HTTP framework.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

type SendMessageInput struct {
	MessageType string
	Message     string
	File        *FileUpload
}

type ConversationPage struct {
	Conversations []models.Conversation
	Pagination    models.Pagination
}

type MessagePage struct {
	Messages   []models.Message
	Pagination models.Pagination
}

// ChatService is the chat core: conversation access control, message
// send/list/read/delete orchestration, and unread accounting.
type ChatService interface {
	StartChat(actor models.Actor, superstarID uint) (*models.Conversation, error)
	GetConversations(actor models.Actor, status string, page, perPage int) (*ConversationPage, error)
	GetMessages(actor models.Actor, conversationID uint, page, perPage int) (*MessagePage, error)
	SendMessage(ctx context.Context, actor models.Actor, conversationID uint, input SendMessageInput) (*models.Message, error)
	MarkMessagesRead(actor models.Actor, conversationID uint) (int64, error)
	UnreadCount(actor models.Actor) (int64, error)
	UpdateConversationStatus(actor models.Actor, conversationID uint, status string) (*models.Conversation, error)
	DeleteMessage(ctx context.Context, actor models.Actor, messageID uint) error
}

type chatService struct {
	Config   *config.Config
	chatRepo db.ChatRepository
	authRepo db.AuthRepository
	store    BlobStore
	now      func() time.Time
}

func NewChatService(chatRepo db.ChatRepository, authRepo db.AuthRepository, store BlobStore, conf *config.Config) ChatService {
	return &chatService{
		Config:   conf,
		chatRepo: chatRepo,
		authRepo: authRepo,
		store:    store,
		now:      time.Now,
	}
}

// authorizedConversation loads the conversation and verifies the actor is a
// party to it. Every conversation-scoped operation funnels through here.
func (s *chatService) authorizedConversation(actor models.Actor, conversationID uint) (*models.Conversation, error) {
	conv, err := s.chatRepo.FindConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, apiError.New("Conversation not found", http.StatusNotFound)
		}
		log.Printf("load conversation %d: %v", conversationID, err)
		return nil, apiError.ErrInternalServerError
	}

	if !conv.AuthorizeActor(actor) {
		return nil, apiError.New("Unauthorized", http.StatusForbidden)
	}
	return conv, nil
}

// StartChat returns the conversation between the user and the superstar,
// creating it as "active" if the pair has never talked. Users initiate chats;
// superstars reply into existing ones.
func (s *chatService) StartChat(actor models.Actor, superstarID uint) (*models.Conversation, error) {
	if actor.Role != models.RoleUser {
		return nil, apiError.New("Unauthorized", http.StatusForbidden)
	}

	if _, err := s.authRepo.FindSuperstarByID(superstarID); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, apiError.New("Superstar not found", http.StatusNotFound)
		}
		log.Printf("load superstar %d: %v", superstarID, err)
		return nil, apiError.ErrInternalServerError
	}

	conv, err := s.chatRepo.FindConversationByPair(actor.ID, superstarID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, db.ErrRecordNotFound) {
		log.Printf("find conversation pair (%d, %d): %v", actor.ID, superstarID, err)
		return nil, apiError.ErrInternalServerError
	}

	startedAt := s.now()
	conv = &models.Conversation{
		UserID:      actor.ID,
		SuperstarID: superstarID,
		Status:      models.ConversationActive,
		StartedAt:   &startedAt,
	}
	if err := s.chatRepo.CreateConversation(conv); err != nil {
		log.Printf("create conversation: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return conv, nil
}

func (s *chatService) GetConversations(actor models.Actor, status string, page, perPage int) (*ConversationPage, error) {
	if status != "" && !models.ConversationStatus(status).Valid() {
		return nil, apiError.NewValidationError(map[string]string{
			"status": "must be one of active, ended, blocked",
		})
	}
	if perPage < 1 {
		perPage = DefaultConversationPageSize
	}

	total, err := s.chatRepo.CountConversations(actor, models.ConversationStatus(status))
	if err != nil {
		log.Printf("count conversations: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	pagination := models.NewPagination(total, page, perPage)
	convs, err := s.chatRepo.ListConversations(actor, models.ConversationStatus(status), pagination.PerPage, pagination.Offset())
	if err != nil {
		log.Printf("list conversations: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if err := s.chatRepo.AttachLastMessages(convs); err != nil {
		log.Printf("attach last messages: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &ConversationPage{Conversations: convs, Pagination: pagination}, nil
}

// GetMessages pages through a conversation newest-first so that page 1 holds
// the latest window, then flips the page to oldest-first for display.
func (s *chatService) GetMessages(actor models.Actor, conversationID uint, page, perPage int) (*MessagePage, error) {
	if _, err := s.authorizedConversation(actor, conversationID); err != nil {
		return nil, err
	}
	if perPage < 1 {
		perPage = DefaultMessagePageSize
	}

	total, err := s.chatRepo.CountMessages(conversationID)
	if err != nil {
		log.Printf("count messages: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	pagination := models.NewPagination(total, page, perPage)
	msgs, err := s.chatRepo.ListMessagesDesc(conversationID, pagination.PerPage, pagination.Offset())
	if err != nil {
		log.Printf("list messages: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	return &MessagePage{Messages: msgs, Pagination: pagination}, nil
}

func validateSendMessage(input SendMessageInput) map[string]string {
	fields := make(map[string]string)
	if input.MessageType == "" {
		fields["message_type"] = "message_type is required"
	} else if !models.MessageType(input.MessageType).Valid() {
		fields["message_type"] = "must be one of text, image, video, file"
	}
	if input.Message == "" && input.File == nil {
		fields["message"] = "message is required when no file is attached"
	}
	if input.File != nil && input.File.Size > MaxChatFileSize {
		fields["file"] = fmt.Sprintf("file may not be larger than %d bytes", MaxChatFileSize)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (s *chatService) SendMessage(ctx context.Context, actor models.Actor, conversationID uint, input SendMessageInput) (*models.Message, error) {
	if fields := validateSendMessage(input); fields != nil {
		return nil, apiError.NewValidationError(fields)
	}

	conv, err := s.authorizedConversation(actor, conversationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	msg := &models.Message{
		ConversationID: conversationID,
		SenderType:     actor.Role,
		SenderID:       actor.ID,
		MessageType:    models.MessageType(input.MessageType),
		IsRead:         false,
	}
	if input.Message != "" {
		body := input.Message
		msg.Message = &body
	}

	if input.File != nil {
		name := filepath.Base(input.File.Name)
		key := fmt.Sprintf("%s/%d_%s", chatFileFolder, now.UnixNano(), name)
		if err := s.store.Save(ctx, key, input.File.Body, input.File.ContentType); err != nil {
			log.Printf("store chat attachment %s: %v", key, err)
			return nil, apiError.ErrInternalServerError
		}
		size := input.File.Size
		msg.FilePath = &key
		msg.FileName = &name
		msg.FileSize = &size
	}

	if err := s.chatRepo.CreateMessage(msg, now); err != nil {
		log.Printf("create message: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	msg.Conversation = conv
	return msg, nil
}

func (s *chatService) MarkMessagesRead(actor models.Actor, conversationID uint) (int64, error) {
	if _, err := s.authorizedConversation(actor, conversationID); err != nil {
		return 0, err
	}

	count, err := s.chatRepo.MarkMessagesRead(conversationID, actor.Role.Opposite(), s.now())
	if err != nil {
		log.Printf("mark messages read: %v", err)
		return 0, apiError.ErrInternalServerError
	}
	return count, nil
}

func (s *chatService) UnreadCount(actor models.Actor) (int64, error) {
	count, err := s.chatRepo.CountUnread(actor)
	if err != nil {
		log.Printf("count unread: %v", err)
		return 0, apiError.ErrInternalServerError
	}
	return count, nil
}

// UpdateConversationStatus applies the transition rules: entering "active"
// stamps started_at only the first time, entering "ended" stamps ended_at on
// every call.
func (s *chatService) UpdateConversationStatus(actor models.Actor, conversationID uint, status string) (*models.Conversation, error) {
	newStatus := models.ConversationStatus(status)
	if !newStatus.Valid() {
		return nil, apiError.NewValidationError(map[string]string{
			"status": "must be one of active, ended, blocked",
		})
	}

	conv, err := s.authorizedConversation(actor, conversationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := map[string]interface{}{"status": newStatus}
	if newStatus == models.ConversationActive && conv.StartedAt == nil {
		updates["started_at"] = now
	}
	if newStatus == models.ConversationEnded {
		updates["ended_at"] = now
	}

	if err := s.chatRepo.UpdateConversationStatus(conv, updates); err != nil {
		log.Printf("update conversation status: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	updated, err := s.chatRepo.FindConversationByID(conversationID)
	if err != nil {
		log.Printf("reload conversation %d: %v", conversationID, err)
		return nil, apiError.ErrInternalServerError
	}
	return updated, nil
}

// DeleteMessage removes a message the actor sent. The row goes first; the
// stored attachment is deleted best-effort afterwards so a flaky blob backend
// never leaves a deleted-looking message behind.
func (s *chatService) DeleteMessage(ctx context.Context, actor models.Actor, messageID uint) error {
	msg, err := s.chatRepo.FindOwnMessage(messageID, actor)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return apiError.New("Message not found or unauthorized", http.StatusNotFound)
		}
		log.Printf("find message %d: %v", messageID, err)
		return apiError.ErrInternalServerError
	}

	if err := s.chatRepo.DeleteMessage(msg.ID); err != nil {
		log.Printf("delete message %d: %v", messageID, err)
		return apiError.ErrInternalServerError
	}

	if msg.HasAttachment() {
		exists, err := s.store.Exists(ctx, *msg.FilePath)
		if err != nil {
			log.Printf("check attachment %s: %v", *msg.FilePath, err)
			return nil
		}
		if exists {
			if err := s.store.Delete(ctx, *msg.FilePath); err != nil {
				log.Printf("delete attachment %s: %v", *msg.FilePath, err)
			}
		}
	}
	return nil
}
