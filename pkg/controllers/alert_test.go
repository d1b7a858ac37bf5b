package controllers

import (
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boostiq/config"
	"boostiq/pkg/entities"
	"boostiq/pkg/middlewares"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []entities.Notification
}

func (c *captureNotifier) Notify(n entities.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
}

func newAlertRouter(secret string) (*gin.Engine, *captureNotifier) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	conf := &config.BoostiqConfModel{AlertSecret: secret}
	notifier := &captureNotifier{}

	api := router.Group("/api")
	NewAlertController(api, notifier, middlewares.NewMiddlewares(conf)).InitRoutes()

	return router, notifier
}

func TestSendAlert(t *testing.T) {
	t.Run("queues an operator alert", func(t *testing.T) {
		router, notifier := newAlertRouter("s3cret")

		w := doJSON(router, http.MethodPost, "/api/send-alert",
			entities.AlertRequest{Message: "payments backlog growing"})
		// doJSON has no auth header, so retry with one
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		req := jsonRequest(http.MethodPost, "/api/send-alert",
			entities.AlertRequest{Message: "payments backlog growing"})
		req.Header.Set("Authorization", "Bearer s3cret")
		w = serve(router, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, entities.KindOperatorAlert, notifier.sent[0].Kind)
		assert.Equal(t, "payments backlog growing", notifier.sent[0].Payload["message"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		router, notifier := newAlertRouter("s3cret")

		req := jsonRequest(http.MethodPost, "/api/send-alert",
			entities.AlertRequest{Message: "hello"})
		req.Header.Set("Authorization", "Bearer wrong")
		w := serve(router, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, notifier.sent)
	})

	t.Run("unset secret locks the endpoint", func(t *testing.T) {
		router, notifier := newAlertRouter("")

		req := jsonRequest(http.MethodPost, "/api/send-alert",
			entities.AlertRequest{Message: "hello"})
		req.Header.Set("Authorization", "Bearer ")
		w := serve(router, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, notifier.sent)
	})

	t.Run("missing message", func(t *testing.T) {
		router, notifier := newAlertRouter("s3cret")

		req := jsonRequest(http.MethodPost, "/api/send-alert", map[string]string{})
		req.Header.Set("Authorization", "Bearer s3cret")
		w := serve(router, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, notifier.sent)
	})
}
