package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boostiq/pkg/entities"
	"boostiq/pkg/middlewares"
	"boostiq/pkg/usecases"
	"boostiq/utilities"
)

type PaymentController struct {
	router      *gin.RouterGroup
	useCases    usecases.PaymentUsecasesImply
	middleWares *middlewares.Middlewares
}

// NewPaymentController
func NewPaymentController(
	router *gin.RouterGroup, useCases usecases.PaymentUsecasesImply, middleWare *middlewares.Middlewares,
) *PaymentController {
	return &PaymentController{
		router:      router,
		useCases:    useCases,
		middleWares: middleWare,
	}
}

// InitRoutes
func (p *PaymentController) InitRoutes() {
	v1 := p.router.Group("v1")
	{
		v1.GET("/plans", p.GetPlans)
		v1.POST("/users/:user_id/claims", p.SelectPlan)
		v1.PUT("/users/:user_id/claims", p.SubmitHash)
		v1.GET("/users/:user_id/subscription", p.GetSubscription)
	}
}

func (p *PaymentController) GetPlans(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, entities.Response{
		StatusCode: 200,
		Message:    "Plans fetched successfully.",
		Data:       p.useCases.GetPlans(),
	})
}

func (p *PaymentController) SelectPlan(ctx *gin.Context) {
	log := utilities.NewLogger("SelectPlan")

	var req entities.ClaimRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, entities.ErrorResponse{
			StatusCode: 400,
			Error:      err.Error(),
			Message:    "failed to parse request body",
		})
		return
	}

	userID := ctx.Param("user_id")
	if userID == "" || req.PlanID == "" {
		ctx.JSON(http.StatusBadRequest, entities.ErrorResponse{
			StatusCode: 400,
			Error:      "user ID and plan ID are required",
			Message:    "Please provide user ID and plan ID",
		})
		return
	}

	claim, err := p.useCases.SelectPlan(ctx, userID, req.PlanID)
	if err != nil {
		log.WithError(err).Errorf("plan selection failed for user %s", userID)
		ctx.JSON(http.StatusBadRequest, entities.ErrorResponse{
			StatusCode: 400,
			Error:      err.Error(),
			Message:    "Plan selection failed",
		})
		return
	}

	ctx.JSON(http.StatusOK, entities.Response{
		StatusCode: 200,
		Message:    "Plan selected. Awaiting payment hash.",
		Data:       claim,
	})
}

func (p *PaymentController) SubmitHash(ctx *gin.Context) {
	log := utilities.NewLogger("SubmitHash")

	var req entities.ClaimRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, entities.ErrorResponse{
			StatusCode: 400,
			Error:      err.Error(),
			Message:    "failed to parse request body",
		})
		return
	}

	userID := ctx.Param("user_id")
	if userID == "" || req.TxnID == "" {
		ctx.JSON(http.StatusBadRequest, entities.ErrorResponse{
			StatusCode: 400,
			Error:      "user ID and txn ID are required",
			Message:    "Please provide user ID and txn ID",
		})
		return
	}

	result, err := p.useCases.SubmitHash(ctx, userID, req.TxnID)
	if errors.Is(err, usecases.ErrNoPlanSelected) {
		ctx.JSON(http.StatusConflict, entities.ErrorResponse{
			StatusCode: 409,
			Error:      err.Error(),
			Message:    "No plan selected. Please start over and pick a plan first.",
		})
		return
	}
	if err != nil {
		log.WithError(err).Errorf("hash submission failed for user %s", userID)
		ctx.JSON(http.StatusBadGateway, entities.ErrorResponse{
			StatusCode: 502,
			Error:      err.Error(),
			Message:    "Verification could not be completed. Please try again later.",
		})
		return
	}

	if !result.Activated {
		ctx.JSON(http.StatusOK, entities.Response{
			StatusCode: 200,
			Message:    "Payment could not be verified.",
			Data:       result,
		})
		return
	}

	ctx.JSON(http.StatusOK, entities.Response{
		StatusCode: 200,
		Message:    "Subscription activated successfully.",
		Data:       result,
	})
}

func (p *PaymentController) GetSubscription(ctx *gin.Context) {
	log := utilities.NewLogger("GetSubscription")

	userID := ctx.Param("user_id")

	sub, err := p.useCases.GetSubscription(ctx, userID)
	if err != nil {
		log.WithError(err).Errorf("failed to fetch subscription for user %s", userID)
		ctx.JSON(http.StatusInternalServerError, entities.ErrorResponse{
			StatusCode: 500,
			Error:      err.Error(),
			Message:    "Failed to fetch subscription",
		})
		return
	}

	if sub == nil {
		ctx.JSON(http.StatusNotFound, entities.ErrorResponse{
			StatusCode: 404,
			Message:    "No active subscription",
		})
		return
	}

	ctx.JSON(http.StatusOK, entities.Response{
		StatusCode: 200,
		Message:    "Subscription fetched successfully.",
		Data:       sub,
	})
}
