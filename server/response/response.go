package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes the uniform response envelope used by every handler.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	responsedata := gin.H{
		"message": message,
		"data":    data,
		"errors":  errMessage(err),
		"status":  http.StatusText(status),
	}

	c.JSON(status, responsedata)
}

// AbortWithJSON is JSON plus request abortion, for middleware.
func AbortWithJSON(c *gin.Context, message string, status int, data interface{}, err error) {
	JSON(c, message, status, data, err)
	c.Abort()
}

func errMessage(err error) interface{} {
	if err == nil {
		return nil
	}
	return err.Error()
}
