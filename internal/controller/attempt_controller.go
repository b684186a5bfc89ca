package controller

import (
	"english_edu_backend/internal/service"
	"english_edu_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

type SubmitAttemptRequest struct {
	TaskID    uint           `json:"taskId" binding:"required"`
	LessonID  *uint          `json:"lessonId"`
	IsCorrect bool           `json:"isCorrect"`
	Score     *float64       `json:"score"`
	Response  datatypes.JSON `json:"response"`
}

// Submit godoc
// @Summary Submit a task attempt
// @Description Records the attempt and returns the updated lesson progress.
// @Description Guests (no token) get the same response shape but nothing is
// @Description persisted.
// @Tags attempts
// @Accept  json
// @Produce  json
// @Param   body body SubmitAttemptRequest true "Attempt payload"
// @Success 200 {object} util.Response{data=service.SubmitAttemptResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/attempts [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	input := service.SubmitAttemptInput{
		TaskID:    req.TaskID,
		LessonID:  req.LessonID,
		IsCorrect: req.IsCorrect,
		Score:     req.Score,
		Response:  req.Response,
	}
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID := claims.UserID
		input.UserID = &userID
	}

	result, err := c.AttemptService.SubmitAttempt(input)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTaskNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}
