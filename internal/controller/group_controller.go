package controller

import (
	"clever_backend/internal/service"
	"clever_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

// @Summary 创建班级
// @Tags 班级
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateGroupRequest true "班级名称"
// @Success 201 {object} util.Response{data=model.Group}
// @Failure 409 {object} util.Response "班级名称已存在"
// @Router /api/teacher/groups [post]
func (c *GroupController) Create(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req service.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.GroupService.Create(ctx.Request.Context(), p, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, group)
}

// @Summary 教师的班级列表
// @Tags 班级
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Group}
// @Router /api/teacher/groups [get]
func (c *GroupController) ListOwned(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	groups, err := c.GroupService.ListOwned(ctx.Request.Context(), p)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, groups)
}

// @Summary 全部班级（注册用）
// @Tags 班级
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Group}
// @Router /api/groups [get]
func (c *GroupController) ListAll(ctx *gin.Context) {
	groups, err := c.GroupService.ListAll(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, groups)
}
