package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/starfanhq/starfan/models"
	"github.com/starfanhq/starfan/services"
)

func (s *Server) handleListSubscriptions() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", services.DefaultConversationPageSize)

		subs, pagination, err := s.SubscriptionService.ListSubscriptions(actor.ID, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"subscriptions": subs,
			"pagination":    pagination,
		})
	}
}

func (s *Server) handleSubscribe() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		var req models.SubscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "Validation failed",
				"errors":  gin.H{"superstar_id": "superstar_id is required"},
			})
			return
		}

		sub, err := s.SubscriptionService.Subscribe(actor.ID, req.SuperstarID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":      "Subscribed successfully",
			"subscription": sub,
		})
	}
}

func (s *Server) handleUnsubscribe() gin.HandlerFunc {
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

		if err := s.SubscriptionService.Unsubscribe(actor.ID, superstarID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed successfully"})
	}
}
