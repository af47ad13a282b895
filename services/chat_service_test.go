package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/starfanhq/starfan/config"
	"github.com/starfanhq/starfan/db"
	apiError "github.com/starfanhq/starfan/errors"
	"github.com/starfanhq/starfan/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatRepo keeps conversations and messages in memory and mirrors the
// ordering and filtering guarantees of the real repository.
type fakeChatRepo struct {
	conversations map[uint]*models.Conversation
	messages      map[uint]*models.Message
	nextConvID    uint
	nextMsgID     uint
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		conversations: make(map[uint]*models.Conversation),
		messages:      make(map[uint]*models.Message),
	}
}

func (f *fakeChatRepo) FindConversationByID(id uint) (*models.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok {
		return nil, db.ErrRecordNotFound
	}
	copied := *conv
	return &copied, nil
}

func (f *fakeChatRepo) FindConversationByPair(userID, superstarID uint) (*models.Conversation, error) {
	var found *models.Conversation
	for _, conv := range f.conversations {
		if conv.UserID == userID && conv.SuperstarID == superstarID {
			if found == nil || conv.ID > found.ID {
				found = conv
			}
		}
	}
	if found == nil {
		return nil, db.ErrRecordNotFound
	}
	copied := *found
	return &copied, nil
}

func (f *fakeChatRepo) CreateConversation(conv *models.Conversation) error {
	f.nextConvID++
	conv.ID = f.nextConvID
	stored := *conv
	f.conversations[conv.ID] = &stored
	return nil
}

func (f *fakeChatRepo) partyConversations(actor models.Actor, status models.ConversationStatus) []models.Conversation {
	var out []models.Conversation
	for _, conv := range f.conversations {
		if !conv.AuthorizeActor(actor) {
			continue
		}
		if status != "" && conv.Status != status {
			continue
		}
		out = append(out, *conv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakeChatRepo) ListConversations(actor models.Actor, status models.ConversationStatus, limit, offset int) ([]models.Conversation, error) {
	convs := f.partyConversations(actor, status)
	if offset > len(convs) {
		return nil, nil
	}
	convs = convs[offset:]
	if limit < len(convs) {
		convs = convs[:limit]
	}
	return convs, nil
}

func (f *fakeChatRepo) CountConversations(actor models.Actor, status models.ConversationStatus) (int64, error) {
	return int64(len(f.partyConversations(actor, status))), nil
}

func (f *fakeChatRepo) AttachLastMessages(convs []models.Conversation) error {
	for i := range convs {
		var last *models.Message
		for _, msg := range f.messages {
			if msg.ConversationID != convs[i].ID {
				continue
			}
			if last == nil || msg.ID > last.ID {
				last = msg
			}
		}
		if last != nil {
			copied := *last
			convs[i].LastMessage = &copied
		}
	}
	return nil
}

func (f *fakeChatRepo) conversationMessages(conversationID uint) []models.Message {
	var out []models.Message
	for _, msg := range f.messages {
		if msg.ConversationID == conversationID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakeChatRepo) ListMessagesDesc(conversationID uint, limit, offset int) ([]models.Message, error) {
	msgs := f.conversationMessages(conversationID)
	if offset > len(msgs) {
		return nil, nil
	}
	msgs = msgs[offset:]
	if limit < len(msgs) {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (f *fakeChatRepo) CountMessages(conversationID uint) (int64, error) {
	return int64(len(f.conversationMessages(conversationID))), nil
}

func (f *fakeChatRepo) CreateMessage(msg *models.Message, sentAt time.Time) error {
	f.nextMsgID++
	msg.ID = f.nextMsgID
	msg.CreatedAt = sentAt
	msg.UpdatedAt = sentAt
	stored := *msg
	f.messages[msg.ID] = &stored

	if conv, ok := f.conversations[msg.ConversationID]; ok {
		conv.UpdatedAt = sentAt
	}
	return nil
}

func (f *fakeChatRepo) MarkMessagesRead(conversationID uint, senderType models.ActorRole, readAt time.Time) (int64, error) {
	var count int64
	for _, msg := range f.messages {
		if msg.ConversationID != conversationID || msg.SenderType != senderType || msg.IsRead {
			continue
		}
		msg.IsRead = true
		at := readAt
		msg.ReadAt = &at
		count++
	}
	return count, nil
}

func (f *fakeChatRepo) CountUnread(actor models.Actor) (int64, error) {
	var count int64
	for _, msg := range f.messages {
		conv, ok := f.conversations[msg.ConversationID]
		if !ok || !conv.AuthorizeActor(actor) {
			continue
		}
		if msg.SenderType == actor.Role.Opposite() && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeChatRepo) UpdateConversationStatus(conv *models.Conversation, updates map[string]interface{}) error {
	stored, ok := f.conversations[conv.ID]
	if !ok {
		return db.ErrRecordNotFound
	}
	for column, value := range updates {
		switch column {
		case "status":
			stored.Status = value.(models.ConversationStatus)
		case "started_at":
			at := value.(time.Time)
			stored.StartedAt = &at
		case "ended_at":
			at := value.(time.Time)
			stored.EndedAt = &at
		}
	}
	return nil
}

func (f *fakeChatRepo) FindOwnMessage(messageID uint, actor models.Actor) (*models.Message, error) {
	msg, ok := f.messages[messageID]
	if !ok || msg.SenderType != actor.Role || msg.SenderID != actor.ID {
		return nil, db.ErrRecordNotFound
	}
	copied := *msg
	return &copied, nil
}

func (f *fakeChatRepo) DeleteMessage(messageID uint) error {
	delete(f.messages, messageID)
	return nil
}

// fakeAuthRepo only resolves superstar lookups; everything else is out of
// scope for chat tests.
type fakeAuthRepo struct {
	superstars map[uint]*models.SuperStar
}

func (f *fakeAuthRepo) CreateUser(user *models.User) (*models.User, error) { return user, nil }
func (f *fakeAuthRepo) FindUserByID(id uint) (*models.User, error)        { return nil, db.ErrRecordNotFound }
func (f *fakeAuthRepo) FindUserByEmail(email string) (*models.User, error) {
	return nil, db.ErrRecordNotFound
}
func (f *fakeAuthRepo) FindUserByGoogleID(googleID string) (*models.User, error) {
	return nil, db.ErrRecordNotFound
}
func (f *fakeAuthRepo) UpdateUser(user *models.User) error { return nil }
func (f *fakeAuthRepo) FindSuperstarByID(id uint) (*models.SuperStar, error) {
	superstar, ok := f.superstars[id]
	if !ok {
		return nil, db.ErrRecordNotFound
	}
	return superstar, nil
}
func (f *fakeAuthRepo) FindSuperstarByEmail(email string) (*models.SuperStar, error) {
	return nil, db.ErrRecordNotFound
}
func (f *fakeAuthRepo) UpdateSuperstar(superstar *models.SuperStar) error        { return nil }
func (f *fakeAuthRepo) ListSuperstars(limit, offset int) ([]models.SuperStar, error) { return nil, nil }
func (f *fakeAuthRepo) CountSuperstars() (int64, error)                          { return 0, nil }
func (f *fakeAuthRepo) AddToBlacklist(blacklist *models.Blacklist) error         { return nil }
func (f *fakeAuthRepo) IsTokenInBlacklist(token string) bool                     { return false }

// fakeBlobStore is a map-backed BlobStore.
type fakeBlobStore struct {
	objects map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = content
	return nil
}

func (f *fakeBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	content, ok := f.objects[key]
	if !ok {
		return nil, io.EOF
	}
	return content, nil
}

func (f *fakeBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

type chatFixture struct {
	service *chatService
	repo    *fakeChatRepo
	store   *fakeBlobStore
	clock   *time.Time
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := &now

	repo := newFakeChatRepo()
	store := newFakeBlobStore()
	service := &chatService{
		Config:   &config.Config{},
		chatRepo: repo,
		authRepo: &fakeAuthRepo{superstars: map[uint]*models.SuperStar{20: {}}},
		store:    store,
		now:      func() time.Time { return *clock },
	}
	service.authRepo.(*fakeAuthRepo).superstars[20].ID = 20

	return &chatFixture{service: service, repo: repo, store: store, clock: clock}
}

func (fx *chatFixture) advance(d time.Duration) {
	*fx.clock = fx.clock.Add(d)
}

// seedConversation creates an active conversation between user 10 and
// superstar 20.
func (fx *chatFixture) seedConversation(t *testing.T) *models.Conversation {
	t.Helper()
	conv, err := fx.service.StartChat(models.UserActor(10), 20)
	require.NoError(t, err)
	return conv
}

func (fx *chatFixture) sendText(t *testing.T, actor models.Actor, conversationID uint, body string) *models.Message {
	t.Helper()
	msg, err := fx.service.SendMessage(context.Background(), actor, conversationID, SendMessageInput{
		MessageType: string(models.MessageText),
		Message:     body,
	})
	require.NoError(t, err)
	return msg
}

func requireAPIError(t *testing.T, err error, status int) *apiError.Error {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*apiError.Error)
	require.True(t, ok, "expected *errors.Error, got %T", err)
	assert.Equal(t, status, apiErr.Status)
	return apiErr
}

func requireValidationError(t *testing.T, err error) *apiError.ValidationError {
	t.Helper()
	require.Error(t, err)
	valErr, ok := err.(*apiError.ValidationError)
	require.True(t, ok, "expected *errors.ValidationError, got %T", err)
	return valErr
}

func TestStartChatFindOrCreate(t *testing.T) {
	fx := newChatFixture(t)

	conv, err := fx.service.StartChat(models.UserActor(10), 20)
	require.NoError(t, err)
	assert.Equal(t, models.ConversationActive, conv.Status)
	require.NotNil(t, conv.StartedAt)
	assert.True(t, conv.StartedAt.Equal(*fx.clock))

	fx.advance(time.Hour)
	again, err := fx.service.StartChat(models.UserActor(10), 20)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID, "starting twice must reuse the conversation")
}

func TestStartChatRejections(t *testing.T) {
	fx := newChatFixture(t)

	_, err := fx.service.StartChat(models.SuperstarActor(20), 20)
	requireAPIError(t, err, http.StatusForbidden)

	_, err = fx.service.StartChat(models.UserActor(10), 999)
	requireAPIError(t, err, http.StatusNotFound)
}

func TestSendMessageSenderMatchesActor(t *testing.T) {
	fx := newChatFixture(t)
	conv := fx.seedConversation(t)

	msg := fx.sendText(t, models.UserActor(10), conv.ID, "hello")
	assert.Equal(t, models.RoleUser, msg.SenderType)
	assert.Equal(t, uint(10), msg.SenderID)
	assert.False(t, msg.IsRead)
	require.NotNil(t, msg.Message)
	assert.Equal(t, "hello", *msg.Message)

	reply := fx.sendText(t, models.SuperstarActor(20), conv.ID, "hi back")
	assert.Equal(t, models.RoleSuperstar, reply.SenderType)
	assert.Equal(t, uint(20), reply.SenderID)
}

func TestSendMessageValidation(t *testing.T) {
	fx := newChatFixture(t)
	conv := fx.seedConversation(t)
	ctx := context.Background()

	_, err := fx.service.SendMessage(ctx, models.UserActor(10), conv.ID, SendMessageInput{})
	valErr := requireValidationError(t, err)
	assert.Contains(t, valErr.Errors, "message_type")
	assert.Contains(t, valErr.Errors, "message")

	_, err = fx.service.SendMessage(ctx, models.UserActor(10), conv.ID, SendMessageInput{
		MessageType: "audio",
		Message:     "hi",
	})
	valErr = requireValidationError(t, err)
	assert.Contains(t, valErr.Errors, "message_type")

	_, err = fx.service.SendMessage(ctx, models.UserActor(10), conv.ID, SendMessageInput{
		MessageType: string(models.MessageFile),
		File: &FileUpload{
			Name: "huge.bin",
			Size: MaxChatFileSize + 1,
			Body: strings.NewReader(""),
		},
	})
	valErr = requireValidationError(t, err)
	assert.Contains(t, valErr.Errors, "file")
}

func TestSendMessageWithAttachment(t *testing.T) {
	fx := newChatFixture(t)
	conv := fx.seedConversation(t)

	content := []byte("fake image bytes")
	msg, err := fx.service.SendMessage(context.Background(), models.UserActor(10), conv.ID, SendMessageInput{
		MessageType: string(models.MessageImage),
		File: &FileUpload{
			Name:        "selfie.jpg",
			Size:        int64(len(content)),
			ContentType: "image/jpeg",
			Body:        bytes.NewReader(content),
		},
	})
	require.NoError(t, err)

	require.NotNil(t, msg.FilePath)
	assert.True(t, strings.HasPrefix(*msg.FilePath, "chat_files/"))
	require.NotNil(t, msg.FileName)
	assert.Equal(t, "selfie.jpg", *msg.FileName)
	require.NotNil(t, msg.FileSize)
	assert.Equal(t, int64(len(content)), *msg.FileSize)
	assert.Nil(t, msg.Message)

	stored, ok := fx.store.objects[*msg.FilePath]
	require.True(t, ok, "attachment must be in the blob store")
	assert.Equal(t, content, stored)
}

func TestSendMessageTouchesConversation(t *testing.T) {
	fx := newChatFixture(t)
	conv := fx.seedConversation(t)

	fx.advance(time.Hour)
	fx.sendText(t, models.UserActor(10), conv.ID, "bump")

	updated, err := fx.repo.FindConversationByID(conv.ID)
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.Equal(*fx.clock))
}

func TestGetMessagesPageOneIsNewestOldestFirst(t *testing.T) {
	fx := newChatFixture(t)
	conv := fx.seedConversation(t)

	for i := 0; i < 50; i++ {
		fx.advance(time.Minute)
		fx.sendText(t, models.UserActor(10), conv.ID, "msg")
	}

	page, err := fx.service.GetMessages(models.UserActor(10), conv.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Messages, 20)

	// Page 1 holds the 20 newest messages, displayed oldest-first.
	assert.Equal(t, uint(31), page.Messages[0].ID)
	assert.Equal(t, uint(50), page.Messages[19].ID)
	for i := 1; i < len(page.Messages); i++ {
		assert.True(t, page.Messages[i].ID > page.Messages[i-1].ID)
	}

	assert.Equal(t, int64(50), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.LastPage)
	assert.True(t, page.Pagination.HasMorePages)

	last, err := fx.service.GetMessages(models.UserActor(10), conv.ID, 3, 20)
	require.NoError(t, err)
	require.Len(t, last.Messages, 10)
	assert.Equal(t, uint(1), last.Messages[0].ID)
	assert.False(t, last.Pagination.HasMorePages)
}

func TestMarkMessagesReadOppositeSideOnly(t *testing.T) {
	fx := newChatFixture(t)
	conv := fx.seedConversation(t)

	fx.sendText(t, models.UserActor(10), conv.ID, "one")
	fx.sendText(t, models.UserActor(10), conv.ID, "two")
	fx.sendText(t, models.SuperstarActor(20), conv.ID, "three")

	// Superstar reads: only the two user messages flip.
	count, err := fx.service.MarkMessagesRead(models.SuperstarActor(20), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	for _, msg := range fx.repo.messages {
		if msg.SenderType == models.RoleUser {
			assert.True(t, msg.IsRead)
			require.NotNil(t, msg.ReadAt)
		} else {
			assert.False(t, msg.IsRead)
			assert.Nil(t, msg.ReadAt)
		}
	}

	// Second pass is a no-op.
	count, err = fx.service.MarkMessagesRead(models.SuperstarActor(20), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUnreadCountSpansConversations(t *testing.T) {
	fx := newChatFixture(t)
	fx.service.authRepo.(*fakeAuthRepo).superstars[21] = &models.SuperStar{}
	fx.service.authRepo.(*fakeAuthRepo).superstars[21].ID = 21

	first := fx.seedConversation(t)
	second, err := fx.service.StartChat(models.UserActor(10), 21)
	require.NoError(t, err)

	fx.sendText(t, models.SuperstarActor(20), first.ID, "a")
	fx.sendText(t, models.SuperstarActor(21), second.ID, "b")
	fx.sendText(t, models.SuperstarActor(21), second.ID, "c")
	fx.sendText(t, models.UserActor(10), first.ID, "own messages never count")

	count, err := fx.service.UnreadCount(models.UserActor(10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	_, err = fx.service.MarkMessagesRead(models.UserActor(10), second.ID)
	require.NoError(t, err)

	count, err = fx.service.UnreadCount(models.UserActor(10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateConversationStatusTransitions(t *testing.T) {
	fx := newChatFixture(t)
	conv := fx.seedConversation(t)
	firstStart := *conv.StartedAt

	fx.advance(time.Hour)
	updated, err := fx.service.UpdateConversationStatus(models.UserActor(10), conv.ID, "ended")
	require.NoError(t, err)
	assert.Equal(t, models.ConversationEnded, updated.Status)
	require.NotNil(t, updated.EndedAt)
	firstEnd := *updated.EndedAt

	// Reactivating keeps the original started_at; it stamps only when unset.
	fx.advance(time.Hour)
	updated, err = fx.service.UpdateConversationStatus(models.UserActor(10), conv.ID, "active")
	require.NoError(t, err)
	assert.Equal(t, models.ConversationActive, updated.Status)
	require.NotNil(t, updated.StartedAt)
	assert.True(t, updated.StartedAt.Equal(firstStart))

	// Ending again re-stamps ended_at every time.
	fx.advance(time.Hour)
	updated, err = fx.service.UpdateConversationStatus(models.UserActor(10), conv.ID, "ended")
	require.NoError(t, err)
	require.NotNil(t, updated.EndedAt)
	assert.True(t, updated.EndedAt.After(firstEnd))

	_, err = fx.service.UpdateConversationStatus(models.UserActor(10), conv.ID, "archived")
	requireValidationError(t, err)
}

func TestConversationAccessControl(t *testing.T) {
	fx := newChatFixture(t)
	conv := fx.seedConversation(t)
	stranger := models.UserActor(99)

	_, err := fx.service.GetMessages(stranger, conv.ID, 1, 20)
	requireAPIError(t, err, http.StatusForbidden)

	_, err = fx.service.SendMessage(context.Background(), stranger, conv.ID, SendMessageInput{
		MessageType: string(models.MessageText),
		Message:     "let me in",
	})
	requireAPIError(t, err, http.StatusForbidden)

	_, err = fx.service.MarkMessagesRead(stranger, conv.ID)
	requireAPIError(t, err, http.StatusForbidden)

	// A superstar whose id matches the user side is still a stranger.
	_, err = fx.service.GetMessages(models.SuperstarActor(10), conv.ID, 1, 20)
	requireAPIError(t, err, http.StatusForbidden)

	_, err = fx.service.GetMessages(models.UserActor(10), 9999, 1, 20)
	requireAPIError(t, err, http.StatusNotFound)
}

func TestDeleteMessageOwnerOnly(t *testing.T) {
	fx := newChatFixture(t)
	conv := fx.seedConversation(t)
	ctx := context.Background()

	content := []byte("attachment")
	msg, err := fx.service.SendMessage(ctx, models.UserActor(10), conv.ID, SendMessageInput{
		MessageType: string(models.MessageFile),
		File: &FileUpload{
			Name:        "doc.pdf",
			Size:        int64(len(content)),
			ContentType: "application/pdf",
			Body:        bytes.NewReader(content),
		},
	})
	require.NoError(t, err)

	// The counterpart cannot delete it, and the response must not reveal
	// whether the message exists.
	err = fx.service.DeleteMessage(ctx, models.SuperstarActor(20), msg.ID)
	apiErr := requireAPIError(t, err, http.StatusNotFound)
	assert.Equal(t, "Message not found or unauthorized", apiErr.Message)
	assert.Contains(t, fx.store.objects, *msg.FilePath, "failed delete must leave the blob")

	err = fx.service.DeleteMessage(ctx, models.UserActor(10), msg.ID)
	require.NoError(t, err)

	_, findErr := fx.repo.FindOwnMessage(msg.ID, models.UserActor(10))
	assert.ErrorIs(t, findErr, db.ErrRecordNotFound)
	assert.NotContains(t, fx.store.objects, *msg.FilePath, "blob is removed after the row")

	err = fx.service.DeleteMessage(ctx, models.UserActor(10), 12345)
	requireAPIError(t, err, http.StatusNotFound)
}

func TestGetConversationsOrderingAndFilter(t *testing.T) {
	fx := newChatFixture(t)
	fx.service.authRepo.(*fakeAuthRepo).superstars[21] = &models.SuperStar{}
	fx.service.authRepo.(*fakeAuthRepo).superstars[21].ID = 21

	first := fx.seedConversation(t)
	fx.advance(time.Minute)
	second, err := fx.service.StartChat(models.UserActor(10), 21)
	require.NoError(t, err)

	// Activity in the older conversation moves it to the front.
	fx.advance(time.Minute)
	fx.sendText(t, models.UserActor(10), first.ID, "latest activity")

	page, err := fx.service.GetConversations(models.UserActor(10), "", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Conversations, 2)
	assert.Equal(t, first.ID, page.Conversations[0].ID)
	assert.Equal(t, second.ID, page.Conversations[1].ID)

	require.NotNil(t, page.Conversations[0].LastMessage)
	require.NotNil(t, page.Conversations[0].LastMessage.Message)
	assert.Equal(t, "latest activity", *page.Conversations[0].LastMessage.Message)
	assert.Nil(t, page.Conversations[1].LastMessage)

	_, err = fx.service.UpdateConversationStatus(models.UserActor(10), second.ID, "ended")
	require.NoError(t, err)

	ended, err := fx.service.GetConversations(models.UserActor(10), "ended", 1, 20)
	require.NoError(t, err)
	require.Len(t, ended.Conversations, 1)
	assert.Equal(t, second.ID, ended.Conversations[0].ID)

	_, err = fx.service.GetConversations(models.UserActor(10), "bogus", 1, 20)
	requireValidationError(t, err)
}
