package cookie

import (
	"github.com/gin-gonic/gin"
)

// Session cookie issued by the identity service. This service only reads it.
const AccessTokenCookieName = "access_token"

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}
