package controller

import (
	"english_edu_backend/internal/service"
	"english_edu_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// Tree godoc
// @Summary Lesson catalog tree
// @Description Three-level section/subsection/unit navigation tree for a
// @Description catalog group, derived from lesson topics.
// @Tags catalog
// @Produce  json
// @Param   group query string true "Catalog group" Enums(grammar, vocabulary)
// @Success 200 {object} util.Response{data=model.CatalogTree}
// @Failure 400 {object} util.Response
// @Router /api/catalog/tree [get]
func (c *CatalogController) Tree(ctx *gin.Context) {
	group := ctx.Query("group")

	tree, err := c.CatalogService.GetTree(ctx.Request.Context(), group)
	if err != nil {
		if errors.Is(err, util.ErrInvalidInput) {
			util.BadRequest(ctx, "Unknown catalog group: "+group)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, tree)
}
