// Package response writes the {success, data, message, error} envelope
// shared by every JSON endpoint.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func OKWithMessage(c *gin.Context, data interface{}, message string) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

// List also reports the number of items, which the frontend shows as a badge.
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "count": len(items)})
}

func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data, "message": message})
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, msg)
}

func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, msg)
}

func Internal(c *gin.Context, msg string) {
	Error(c, http.StatusInternalServerError, msg)
}
