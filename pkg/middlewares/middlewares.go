package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"boostiq/config"
	"boostiq/pkg/entities"
)

type Middlewares struct {
	conf *config.BoostiqConfModel
}

// NewMiddlewares
func NewMiddlewares(conf *config.BoostiqConfModel) *Middlewares {
	return &Middlewares{conf: conf}
}

// ValidateAlertSecret guards the operator alert endpoint with the shared
// secret, sent as "Authorization: Bearer <secret>".
func (m *Middlewares) ValidateAlertSecret(ctx *gin.Context) {
	header := ctx.GetHeader("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		ctx.AbortWithStatusJSON(
			http.StatusUnauthorized, entities.ErrorResponse{
				StatusCode: http.StatusUnauthorized,
				Message:    "Missing Authorization in API header",
			},
		)
		return
	}

	if m.conf.AlertSecret == "" ||
		subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.conf.AlertSecret)) != 1 {
		ctx.AbortWithStatusJSON(
			http.StatusUnauthorized, entities.ErrorResponse{
				StatusCode: http.StatusUnauthorized,
				Message:    "Invalid alert secret",
			},
		)
		return
	}

	ctx.Next()
}
