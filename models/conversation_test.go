package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeActor(t *testing.T) {
	conv := Conversation{UserID: 10, SuperstarID: 20}

	assert.True(t, conv.AuthorizeActor(UserActor(10)))
	assert.True(t, conv.AuthorizeActor(SuperstarActor(20)))

	assert.False(t, conv.AuthorizeActor(UserActor(20)), "user id matching the superstar side must not pass")
	assert.False(t, conv.AuthorizeActor(SuperstarActor(10)))
	assert.False(t, conv.AuthorizeActor(Actor{Role: "admin", ID: 10}))
}

func TestConversationStatusValid(t *testing.T) {
	assert.True(t, ConversationActive.Valid())
	assert.True(t, ConversationEnded.Valid())
	assert.True(t, ConversationBlocked.Valid())
	assert.False(t, ConversationStatus("archived").Valid())
	assert.False(t, ConversationStatus("").Valid())
}

func TestMessageTypeValid(t *testing.T) {
	for _, mt := range []MessageType{MessageText, MessageImage, MessageVideo, MessageFile} {
		assert.True(t, mt.Valid())
	}
	assert.False(t, MessageType("audio").Valid())
	assert.False(t, MessageType("").Valid())
}

func TestActorRoleOpposite(t *testing.T) {
	assert.Equal(t, RoleSuperstar, RoleUser.Opposite())
	assert.Equal(t, RoleUser, RoleSuperstar.Opposite())
}
