package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/starfanhq/starfan/services"
)

func (s *Server) handleOwnStories() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", services.DefaultConversationPageSize)

		stories, pagination, err := s.StoryService.ListOwnStories(actor.ID, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"stories":    stories,
			"pagination": pagination,
		})
	}
}

func (s *Server) handlePublicStories() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", services.DefaultConversationPageSize)

		stories, pagination, err := s.StoryService.ListPublicStories(page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"stories":    stories,
			"pagination": pagination,
		})
	}
}

func (s *Server) handleCreateStory() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		file, opened, ok := formFileUpload(c, "file")
		if !ok {
			return
		}
		if opened != nil {
			defer opened.Close()
		}

		story, err := s.StoryService.CreateStory(c.Request.Context(), actor.ID, c.PostForm("file_type"), file)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Story posted successfully",
			"story":   story,
		})
	}
}

func (s *Server) handleShowStory() gin.HandlerFunc {
	return func(c *gin.Context) {
		storyID, ok := uintParam(c, "storyId")
		if !ok {
			return
		}

		story, err := s.StoryService.GetStory(storyID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"story": story})
	}
}

func (s *Server) handleDeleteStory() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		storyID, ok := uintParam(c, "storyId")
		if !ok {
			return
		}

		if err := s.StoryService.DeleteStory(c.Request.Context(), actor.ID, storyID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Story deleted successfully"})
	}
}

// handleStoryFile serves a stored story object inline with its sniffed
// content type. The route is public so feed clients can embed the URL.
func (s *Server) handleStoryFile() gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := c.Param("filename")

		content, contentType, err := s.StoryService.GetStoryFile(c.Request.Context(), filename)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
		c.Data(http.StatusOK, contentType, content)
	}
}
