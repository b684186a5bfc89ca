package controller

import (
	"english_edu_backend/internal/service"
	"english_edu_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// Summary godoc
// @Summary Per-lesson progress and weak subtopics
// @Tags progress
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ProgressSummary}
// @Failure 401 {object} util.Response
// @Router /api/progress/summary [get]
func (c *ProgressController) Summary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.ProgressService.Summary(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}

// LessonsOverview godoc
// @Summary Lessons of a catalog group with the caller's progress
// @Description Optionally narrowed by section and subsection (matched against
// @Description parsed topic titles or codes). Guests get the lesson list with
// @Description zeroed progress.
// @Tags progress
// @Produce  json
// @Param   group query string true "Catalog group" Enums(grammar, vocabulary)
// @Param   section query string false "Section title or code"
// @Param   subsection query string false "Subsection title or code"
// @Success 200 {object} util.Response{data=[]model.OverviewLesson}
// @Failure 400 {object} util.Response
// @Router /api/lessons/overview [get]
func (c *ProgressController) LessonsOverview(ctx *gin.Context) {
	group := ctx.Query("group")
	section := ctx.Query("section")
	subsection := ctx.Query("subsection")

	var userID *uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		id := claims.UserID
		userID = &id
	}

	overview, err := c.ProgressService.LessonsOverview(userID, group, section, subsection)
	if err != nil {
		if errors.Is(err, util.ErrInvalidInput) {
			util.BadRequest(ctx, "Unknown catalog group: "+group)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, overview)
}
