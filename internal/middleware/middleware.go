package middleware

import (
	"mime"
	"net/http"

	"clients_admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RequireJSON rejects request bodies that are not declared as application/json.
// Requests without a body pass through.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err != nil || mediaType != "application/json" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnsupportedMediaType, utils.ErrCodeUnsupportedMediaType,
				"Ожидается тело запроса в формате JSON", "content type: "+c.GetHeader("Content-Type")))
			return
		}

		c.Next()
	}
}

// SecurityHeaders sets the response headers every admin page carries.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "same-origin")
		c.Header("X-Frame-Options", "DENY")
		c.Next()
	}
}
