package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/starfanhq/starfan/models"
	"github.com/starfanhq/starfan/services"
)

func (s *Server) handleOwnPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", services.DefaultConversationPageSize)

		posts, pagination, err := s.PostService.ListOwnPosts(actor.ID, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"posts":      posts,
			"pagination": pagination,
		})
	}
}

func (s *Server) handleSuperstarPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		superstarID, ok := uintParam(c, "superstarId")
		if !ok {
			return
		}

		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", services.DefaultConversationPageSize)

		posts, pagination, err := s.PostService.ListPostsBySuperstar(superstarID, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"posts":      posts,
			"pagination": pagination,
		})
	}
}

func (s *Server) handlePublicPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", services.DefaultConversationPageSize)

		posts, pagination, err := s.PostService.ListPublicPosts(page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"posts":      posts,
			"pagination": pagination,
		})
	}
}

func (s *Server) handleCreatePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		var req models.CreatePostRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "Validation failed",
				"errors":  gin.H{"title": "title is required"},
			})
			return
		}

		file, opened, ok := formFileUpload(c, "file")
		if !ok {
			return
		}
		if opened != nil {
			defer opened.Close()
		}

		post, err := s.PostService.CreatePost(c.Request.Context(), actor.ID, &req, file)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Post created successfully",
			"post":    post,
		})
	}
}

func (s *Server) handleShowPost() gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, ok := uintParam(c, "postId")
		if !ok {
			return
		}

		post, err := s.PostService.GetPost(postID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"post": post})
	}
}

func (s *Server) handleUpdatePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		postID, ok := uintParam(c, "postId")
		if !ok {
			return
		}

		var req models.UpdatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}

		post, err := s.PostService.UpdatePost(actor.ID, postID, &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Post updated successfully",
			"post":    post,
		})
	}
}

func (s *Server) handleDeletePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		postID, ok := uintParam(c, "postId")
		if !ok {
			return
		}

		if err := s.PostService.DeletePost(c.Request.Context(), actor.ID, postID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
	}
}
