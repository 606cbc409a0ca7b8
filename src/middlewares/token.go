package middlewares

import (
	"crypto/subtle"
	"hrc/src/config"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// VerifyCallbackToken checks the shared token the payment gateway sends with
// every webhook. No token configured means no check.
func VerifyCallbackToken(ctx *gin.Context) {
	expected := config.GetSettings().WebhookCallbackToken
	if expected == "" {
		ctx.Next()
		return
	}
	got := ctx.GetHeader("x-callback-token")
	if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
		log.Printf("Rejected webhook from %s: bad callback token\n", ctx.ClientIP())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid callback token"})
		return
	}
	ctx.Next()
}
