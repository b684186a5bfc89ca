package controller

import (
	"english_edu_backend/internal/service"
	"english_edu_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{TaskService: taskService}
}

// NextTask godoc
// @Summary Next practice task for a lesson
// @Description Picks the task the caller has attempted least, unattempted
// @Description first. Guests always get the first task.
// @Tags tasks
// @Produce  json
// @Param   id path int true "Lesson id"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id}/next-task [get]
func (c *TaskController) NextTask(ctx *gin.Context) {
	lessonID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid lesson id")
		return
	}

	var userID *uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		id := claims.UserID
		userID = &id
	}

	task, err := c.TaskService.NextTask(uint(lessonID), userID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrTaskNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, task)
}
