package controller

import (
	"english_edu_backend/internal/service"
	"english_edu_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// Theory godoc
// @Summary Lesson theory material
// @Tags content
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Lesson id"
// @Success 200 {object} util.Response{data=service.LessonTheory}
// @Failure 402 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id}/theory [get]
func (c *ContentController) Theory(ctx *gin.Context) {
	lessonID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid lesson id")
		return
	}

	theory, err := c.ContentService.GetTheory(uint(lessonID))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, theory)
}

// UploadMedia godoc
// @Summary Attach a media file to a lesson (admin)
// @Tags content
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Lesson id"
// @Param   file formData file true "Media file"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{id}/media [post]
func (c *ContentController) UploadMedia(ctx *gin.Context) {
	lessonID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid lesson id")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "Missing file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.ContentService.AttachMedia(
		ctx.Request.Context(),
		uint(lessonID),
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

type SetTheoryRequest struct {
	Theory interface{} `json:"theory" binding:"required"`
}

// SetTheory godoc
// @Summary Replace a lesson's theory block (admin)
// @Tags content
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Lesson id"
// @Param   body body SetTheoryRequest true "Theory payload"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{id}/theory [put]
func (c *ContentController) SetTheory(ctx *gin.Context) {
	lessonID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid lesson id")
		return
	}

	var req SetTheoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ContentService.SetTheory(uint(lessonID), req.Theory)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, lesson)
}
