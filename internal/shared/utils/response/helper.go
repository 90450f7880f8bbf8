package response

import "github.com/gin-gonic/gin"

// Fail writes an error envelope with the given HTTP status code
func Fail(c *gin.Context, code int, message string, details interface{}) {
	c.JSON(code, Envelope{
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	})
}
