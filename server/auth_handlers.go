package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/starfanhq/starfan/models"
	"github.com/starfanhq/starfan/server/response"
	"github.com/starfanhq/starfan/services"
)

func (s *Server) handleGoogleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.GoogleLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "Validation failed",
				"errors":  gin.H{"id_token": "id_token is required"},
			})
			return
		}

		login, errr := s.AuthService.GoogleLoginUser(c.Request.Context(), &req)
		if errr != nil {
			c.JSON(errr.Status, gin.H{"message": errr.Message})
			return
		}

		response.JSON(c, "login successful", http.StatusOK, login, nil)
	}
}

func (s *Server) handleGoogleLoginURL() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := uuid.NewString()
		c.JSON(http.StatusOK, gin.H{"url": s.AuthService.GoogleLoginURL(state)})
	}
}

func (s *Server) handleGoogleCallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "missing authorization code"})
			return
		}

		login, errr := s.AuthService.GoogleCallbackUser(c.Request.Context(), code)
		if errr != nil {
			c.JSON(errr.Status, gin.H{"message": errr.Message})
			return
		}

		response.JSON(c, "login successful", http.StatusOK, login, nil)
	}
}

func (s *Server) handleSuperstarLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SuperstarLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "Validation failed",
				"errors":  gin.H{"email": "email and password are required"},
			})
			return
		}

		login, errr := s.AuthService.LoginSuperstar(&req)
		if errr != nil {
			c.JSON(errr.Status, gin.H{"message": errr.Message})
			return
		}

		response.JSON(c, "login successful", http.StatusOK, login, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := currentAccessToken(c)
		if err := s.AuthService.Logout(token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
	}
}

func (s *Server) handleUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		user, err := s.AuthService.GetUserProfile(actor.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

func (s *Server) handleSuperstarProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		superstar, err := s.AuthService.GetSuperstarProfile(actor.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "superstar not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"superstar": superstar})
	}
}

func (s *Server) handleEditSuperstarProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		var req models.EditProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}

		superstar, errr := s.AuthService.UpdateSuperstarProfile(actor.ID, &req)
		if errr != nil {
			c.JSON(errr.Status, gin.H{"message": errr.Message})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":   "profile updated",
			"superstar": superstar,
		})
	}
}

func (s *Server) handleChangeSuperstarPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		var req models.ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "Validation failed",
				"errors":  gin.H{"current_password": "current and new password are required"},
			})
			return
		}

		if errr := s.AuthService.ChangeSuperstarPassword(actor.ID, &req); errr != nil {
			c.JSON(errr.Status, gin.H{"message": errr.Message})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
	}
}

func (s *Server) handleListSuperstars() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", services.DefaultConversationPageSize)

		superstars, pagination, err := s.AuthService.ListSuperstars(page, perPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}

		publics := make([]models.SuperstarPublic, 0, len(superstars))
		for i := range superstars {
			publics = append(publics, superstars[i].Public())
		}

		c.JSON(http.StatusOK, gin.H{
			"superstars": publics,
			"pagination": pagination,
		})
	}
}

func (s *Server) handleShowSuperstar() gin.HandlerFunc {
	return func(c *gin.Context) {
		superstarID, ok := uintParam(c, "superstarId")
		if !ok {
			return
		}

		superstar, err := s.AuthService.GetSuperstarProfile(superstarID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "superstar not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"superstar": superstar})
	}
}
