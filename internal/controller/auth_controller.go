package controller

import (
	"english_edu_backend/internal/service"
	"english_edu_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register godoc
// @Summary Register a new user
// @Description Create an account with email and password
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "Registration payload"
// @Success 201 {object} util.Response{data=service.AuthResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Register(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			util.Error(ctx, http.StatusConflict, "Email is already registered")
		case errors.Is(err, util.ErrInvalidInput):
			util.BadRequest(ctx, "Email and password are required")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, result)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "Login payload"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, http.StatusUnauthorized, "Invalid email or password")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

type TelegramLoginRequest struct {
	TgUserID int64  `json:"tgUserId" binding:"required"`
	InitData string `json:"initData"`
}

// TelegramLogin godoc
// @Summary Log in with a Telegram identity
// @Description Creates the account on first login. When initData is supplied
// @Description it is verified against the bot token.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body TelegramLoginRequest true "Telegram identity"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 400 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/auth/tg [post]
func (c *AuthController) TelegramLogin(ctx *gin.Context) {
	var req TelegramLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.TelegramLogin(req.TgUserID, req.InitData)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidInput):
			util.BadRequest(ctx, "Telegram identity could not be verified")
		case errors.Is(err, util.ErrProviderUnavailable):
			util.ServiceUnavailable(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// Profile godoc
// @Summary Current user profile
// @Tags auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /api/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.AuthService.UserRepo.FindByID(claims.UserID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, user)
}
