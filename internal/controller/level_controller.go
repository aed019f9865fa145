package controller

import (
	"clever_backend/internal/service"
	"clever_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LevelController struct {
	LevelService *service.LevelService
}

func NewLevelController(levelService *service.LevelService) *LevelController {
	return &LevelController{LevelService: levelService}
}

// @Summary 替换测试的等级划分
// @Description 按提交顺序重建；第一级从0开始，最后一级的上限固定为100
// @Tags 测试管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "测试ID"
// @Param body body service.ReplaceLevelsRequest true "等级列表"
// @Success 200 {object} util.Response{data=[]model.Level}
// @Router /api/teacher/tests/{id}/levels [put]
func (c *LevelController) Replace(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req service.ReplaceLevelsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	levels, err := c.LevelService.Replace(ctx.Request.Context(), p, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, levels)
}

// @Summary 测试的等级划分
// @Tags 测试管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "测试ID"
// @Success 200 {object} util.Response{data=[]model.Level}
// @Router /api/teacher/tests/{id}/levels [get]
func (c *LevelController) List(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	levels, err := c.LevelService.List(ctx.Request.Context(), p, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, levels)
}
