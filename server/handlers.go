package server

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apiError "github.com/starfanhq/starfan/errors"
	"github.com/starfanhq/starfan/models"
	"github.com/starfanhq/starfan/services"
)

// currentActor returns the actor stored by the Authorize middleware.
func currentActor(c *gin.Context) (models.Actor, bool) {
	v, exists := c.Get(contextActor)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

func currentAccessToken(c *gin.Context) string {
	return c.GetString(contextAccessToken)
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return 0, false
	}
	return uint(value), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

// respondError maps a service error onto a response: validation failures go
// out as 422 with the field map, typed errors carry their own status, and
// anything else is a 500.
func respondError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *apiError.ValidationError:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Validation failed",
			"errors":  e.Errors,
		})
	case *apiError.Error:
		switch e.Status {
		case http.StatusForbidden:
			c.JSON(e.Status, gin.H{"error": e.Message})
		default:
			c.JSON(e.Status, gin.H{"message": e.Message})
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

// formFileUpload adapts a multipart form file into the service-layer upload
// type. Returns (nil, nil, true) when the field is absent.
func formFileUpload(c *gin.Context, field string) (*services.FileUpload, multipart.File, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, true
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not read uploaded file"})
		return nil, nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not read uploaded file"})
		return nil, nil, false
	}

	return &services.FileUpload{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        f,
	}, f, true
}
