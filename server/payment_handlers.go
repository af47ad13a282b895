package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/starfanhq/starfan/models"
	"github.com/starfanhq/starfan/services"
)

func (s *Server) handleProcessPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		var req models.ProcessPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "Validation failed",
				"errors":  gin.H{"amount": "superstar_id and a positive amount are required"},
			})
			return
		}

		payment, err := s.PaymentService.ProcessPayment(actor.ID, &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Payment processed successfully",
			"payment": payment,
		})
	}
}

func (s *Server) handlePaymentDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		paymentID, ok := uintParam(c, "paymentId")
		if !ok {
			return
		}

		payment, err := s.PaymentService.GetPaymentDetails(actor.ID, paymentID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": payment})
	}
}

func (s *Server) handleTransactionDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		payment, err := s.PaymentService.GetTransactionDetails(c.Param("reference"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": payment})
	}
}

func (s *Server) handleUserPaymentHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", services.DefaultConversationPageSize)

		payments, pagination, err := s.PaymentService.ListUserPayments(actor.ID, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"payments":   payments,
			"pagination": pagination,
		})
	}
}

func (s *Server) handleSuperstarPaymentHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", services.DefaultConversationPageSize)

		payments, pagination, err := s.PaymentService.ListSuperstarPayments(actor.ID, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"payments":   payments,
			"pagination": pagination,
		})
	}
}

func (s *Server) handleSuperstarRevenue() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		revenue, err := s.PaymentService.SuperstarRevenue(actor.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"revenue": revenue})
	}
}
