package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boostiq/pkg/entities"
	"boostiq/pkg/middlewares"
	"boostiq/pkg/repo/driver/medium"
	"boostiq/utilities"
)

// AlertController accepts operator alerts from trusted external tools and
// forwards them into the notification pipeline as operator events.
type AlertController struct {
	router      *gin.RouterGroup
	notifier    medium.Notifier
	middleWares *middlewares.Middlewares
}

// NewAlertController
func NewAlertController(
	router *gin.RouterGroup, notifier medium.Notifier, middleWare *middlewares.Middlewares,
) *AlertController {
	return &AlertController{
		router:      router,
		notifier:    notifier,
		middleWares: middleWare,
	}
}

// InitRoutes
func (a *AlertController) InitRoutes() {
	a.router.POST("/send-alert", a.middleWares.ValidateAlertSecret, a.SendAlert)
}

func (a *AlertController) SendAlert(ctx *gin.Context) {
	log := utilities.NewLogger("SendAlert")

	var req entities.AlertRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, entities.ErrorResponse{
			StatusCode: 400,
			Error:      err.Error(),
			Message:    "No message provided",
		})
		return
	}

	a.notifier.Notify(entities.Notification{
		ID:   uuid.NewString(),
		Kind: entities.KindOperatorAlert,
		Payload: map[string]interface{}{
			"message": req.Message,
		},
		CreatedAt: utilities.TimeNow(),
	})

	log.Info("operator alert queued")

	ctx.JSON(http.StatusOK, entities.Response{
		StatusCode: 200,
		Message:    "Message sent",
	})
}
