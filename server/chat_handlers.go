package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/starfanhq/starfan/models"
	"github.com/starfanhq/starfan/services"
)

// conversationView flattens a conversation for the caller: the counterpart's
// public identity replaces the raw relation, so a fan never sees their own
// row echoed back and vice versa.
func conversationView(conv models.Conversation, actor models.Actor) gin.H {
	view := gin.H{
		"id":         conv.ID,
		"status":     conv.Status,
		"started_at": conv.StartedAt,
		"ended_at":   conv.EndedAt,
		"created_at": conv.CreatedAt,
		"updated_at": conv.UpdatedAt,
	}

	switch actor.Role {
	case models.RoleUser:
		if conv.Superstar != nil {
			view["superstar"] = conv.Superstar.Public()
		}
	case models.RoleSuperstar:
		if conv.User != nil {
			view["user"] = conv.User.Public()
		}
	}

	if conv.LastMessage != nil {
		view["last_message"] = conv.LastMessage
	}
	return view
}

func (s *Server) handleStartChat() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		superstarID, ok := uintParam(c, "superstarId")
		if !ok {
			return
		}

		conv, err := s.ChatService.StartChat(actor, superstarID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Chat started",
			"conversation": conversationView(*conv, actor),
		})
	}
}

func (s *Server) handleGetConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", services.DefaultConversationPageSize)
		status := c.Query("status")

		result, err := s.ChatService.GetConversations(actor, status, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		views := make([]gin.H, 0, len(result.Conversations))
		for _, conv := range result.Conversations {
			views = append(views, conversationView(conv, actor))
		}

		c.JSON(http.StatusOK, gin.H{
			"conversations": views,
			"pagination":    result.Pagination,
		})
	}
}

func (s *Server) handleGetMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		conversationID, ok := uintParam(c, "conversationId")
		if !ok {
			return
		}

		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", services.DefaultMessagePageSize)

		result, err := s.ChatService.GetMessages(actor, conversationID, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"messages":   result.Messages,
			"pagination": result.Pagination,
		})
	}
}

func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		conversationID, ok := uintParam(c, "conversationId")
		if !ok {
			return
		}

		file, opened, ok := formFileUpload(c, "file")
		if !ok {
			return
		}
		if opened != nil {
			defer opened.Close()
		}

		input := services.SendMessageInput{
			MessageType: c.PostForm("message_type"),
			Message:     c.PostForm("message"),
			File:        file,
		}

		msg, err := s.ChatService.SendMessage(c.Request.Context(), actor, conversationID, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": msg})
	}
}

func (s *Server) handleMarkMessagesRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		conversationID, ok := uintParam(c, "conversationId")
		if !ok {
			return
		}

		count, err := s.ChatService.MarkMessagesRead(actor, conversationID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":         "Messages marked as read",
			"messages_marked": count,
		})
	}
}

func (s *Server) handleUnreadCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		count, err := s.ChatService.UnreadCount(actor)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"unread_count": count})
	}
}

func (s *Server) handleUpdateConversationStatus() gin.HandlerFunc {
	type statusRequest struct {
		Status string `json:"status"`
	}

	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		conversationID, ok := uintParam(c, "conversationId")
		if !ok {
			return
		}

		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "Validation failed",
				"errors":  gin.H{"status": "status is required"},
			})
			return
		}

		conv, err := s.ChatService.UpdateConversationStatus(actor, conversationID, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Conversation status updated",
			"conversation": conversationView(*conv, actor),
		})
	}
}

func (s *Server) handleDeleteMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		messageID, ok := uintParam(c, "messageId")
		if !ok {
			return
		}

		if err := s.ChatService.DeleteMessage(c.Request.Context(), actor, messageID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
	}
}
