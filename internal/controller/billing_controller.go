package controller

import (
	"crypto/hmac"
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/service"
	"english_edu_backend/internal/util"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type BillingController struct {
	BillingService *service.BillingService
	Config         *config.Config
}

func NewBillingController(billingService *service.BillingService, cfg *config.Config) *BillingController {
	return &BillingController{BillingService: billingService, Config: cfg}
}

type WebhookRequest struct {
	ChargeID string         `json:"chargeId" binding:"required"`
	UserID   *uint          `json:"userId"`
	TgUserID *int64         `json:"tgUserId"`
	Plan     string         `json:"plan" binding:"required"`
	ProUntil *time.Time     `json:"proUntil"`
	Payload  datatypes.JSON `json:"payload"`
}

// Webhook godoc
// @Summary Billing provider webhook
// @Description Applies a plan grant. Deliveries are idempotent on chargeId;
// @Description a replay returns 200 without changing anything.
// @Tags billing
// @Accept  json
// @Produce  json
// @Param   X-Webhook-Secret header string true "Shared webhook secret"
// @Param   body body WebhookRequest true "Grant payload"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/billing/webhook [post]
func (c *BillingController) Webhook(ctx *gin.Context) {
	// An unconfigured secret means billing is not set up on this deployment;
	// never fall through to accepting unauthenticated grants.
	if c.Config.Billing.WebhookSecret == "" {
		util.ServiceUnavailable(ctx)
		return
	}
	got := ctx.GetHeader("X-Webhook-Secret")
	if !hmac.Equal([]byte(got), []byte(c.Config.Billing.WebhookSecret)) {
		util.Unauthorized(ctx)
		return
	}

	var req WebhookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	applied, err := c.BillingService.ApplyGrant(service.PlanGrant{
		UserID:   req.UserID,
		TgUserID: req.TgUserID,
		ChargeID: req.ChargeID,
		Plan:     model.PlanType(req.Plan),
		ProUntil: req.ProUntil,
		Payload:  req.Payload,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidInput):
			util.BadRequest(ctx, "Grant must name a known plan and a user")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"applied": applied})
}

type GrantPlanRequest struct {
	Plan     string     `json:"plan" binding:"required"`
	ProUntil *time.Time `json:"proUntil"`
}

// GrantPlan godoc
// @Summary Grant or change a user's plan (admin)
// @Tags billing
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "User id"
// @Param   body body GrantPlanRequest true "Plan payload"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id}/plan [post]
func (c *BillingController) GrantPlan(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid user id")
		return
	}

	var req GrantPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := uint(userID)
	applied, err := c.BillingService.ApplyGrant(service.PlanGrant{
		UserID:   &id,
		Plan:     model.PlanType(req.Plan),
		ProUntil: req.ProUntil,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidInput):
			util.BadRequest(ctx, "Unknown plan: "+req.Plan)
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"applied": applied})
}

type SetEntitlementRequest struct {
	Key     string `json:"key" binding:"required"`
	Granted *bool  `json:"granted" binding:"required"`
}

// SetEntitlement godoc
// @Summary Grant or revoke a single entitlement (admin)
// @Tags billing
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "User id"
// @Param   body body SetEntitlementRequest true "Entitlement payload"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id}/entitlements [post]
func (c *BillingController) SetEntitlement(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid user id")
		return
	}

	var req SetEntitlementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.BillingService.SetEntitlement(uint(userID), req.Key, *req.Granted)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidInput):
			util.BadRequest(ctx, "Entitlement key is required")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, user)
}
