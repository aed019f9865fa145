package controller

import (
	"clever_backend/internal/service"
	"clever_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// @Summary 开始测试
// @Description 返回不含正确答案的题目；已完成返回 409
// @Tags 学生测试
// @Produce json
// @Security BearerAuth
// @Param id path int true "测试ID"
// @Success 200 {object} util.Response{data=grading.CatalogView}
// @Failure 403 {object} util.Response "未分配或已停用"
// @Failure 409 {object} util.Response "已完成"
// @Router /api/student/tests/{id} [get]
func (c *AttemptController) Start(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	view, err := c.AttemptService.Start(ctx.Request.Context(), p, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 提交答案
// @Description answers 以题目ID为键：选择题为选项ID，问答题为文本
// @Tags 学生测试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "测试ID"
// @Param body body service.SubmitRequest true "答案"
// @Success 200 {object} util.Response{data=service.ScoreReport}
// @Failure 409 {object} util.Response "已完成"
// @Router /api/student/tests/{id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.AttemptService.Submit(ctx.Request.Context(), p, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, report)
}

// @Summary 我的测试结果
// @Tags 学生测试
// @Produce json
// @Security BearerAuth
// @Param id path int true "测试ID"
// @Success 200 {object} util.Response{data=service.ScoreReport}
// @Router /api/student/tests/{id}/result [get]
func (c *AttemptController) MyResult(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	report, err := c.AttemptService.MyResult(ctx.Request.Context(), p, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, report)
}

// @Summary 我的全部结果
// @Tags 学生测试
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.StudentResultItem}
// @Router /api/student/results [get]
func (c *AttemptController) MyResults(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	items, err := c.AttemptService.MyResults(ctx.Request.Context(), p)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, items)
}

// @Summary 测试的全部结果（教师）
// @Tags 测试管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "测试ID"
// @Success 200 {object} util.Response{data=[]service.TestResultItem}
// @Router /api/teacher/tests/{id}/results [get]
func (c *AttemptController) TestResults(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	items, err := c.AttemptService.TestResults(ctx.Request.Context(), p, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, items)
}
