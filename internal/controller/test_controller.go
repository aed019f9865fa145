package controller

import (
	"clever_backend/internal/service"
	"clever_backend/internal/util"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// @Summary 创建测试
// @Description 接受 JSON，或 multipart 表单：payload 字段为 JSON，题目图片字段名为 question_{order}_image
// @Tags 测试管理
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateTestRequest false "测试内容 (JSON)"
// @Param payload formData string false "测试内容 (multipart)"
// @Success 201 {object} util.Response{data=model.Test}
// @Failure 400 {object} util.Response "题目或图片无效"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/teacher/tests [post]
func (c *TestController) Create(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req service.CreateTestRequest
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		files, err := bindMultipartTest(ctx, &req)
		defer closeAll(files)
		if err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	} else if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.CreateTest(ctx.Request.Context(), p, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, test)
}

func bindMultipartTest(ctx *gin.Context, req *service.CreateTestRequest) ([]multipart.File, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, err
	}
	payload := form.Value["payload"]
	if len(payload) == 0 {
		return nil, fmt.Errorf("payload is required")
	}
	if err := json.Unmarshal([]byte(payload[0]), req); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	var opened []multipart.File
	for i := range req.Questions {
		headers := form.File[fmt.Sprintf("question_%d_image", req.Questions[i].Order)]
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return opened, err
		}
		opened = append(opened, f)
		req.Questions[i].Image = &service.ImageFile{Filename: fh.Filename, Size: fh.Size, Reader: f}
	}
	return opened, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}

// @Summary 教师的测试列表
// @Tags 测试管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]repository.TestListRow}
// @Router /api/teacher/tests [get]
func (c *TestController) ListOwned(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	rows, err := c.TestService.ListOwned(ctx.Request.Context(), p)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// @Summary 测试详情（含答案）
// @Tags 测试管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "测试ID"
// @Success 200 {object} util.Response{data=model.Test}
// @Router /api/teacher/tests/{id} [get]
func (c *TestController) Get(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	test, err := c.TestService.GetFull(ctx.Request.Context(), p, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, test)
}

// @Summary 启用或停用测试
// @Tags 测试管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "测试ID"
// @Param body body service.SetActiveRequest true "状态"
// @Success 200 {object} util.Response{data=model.Test}
// @Router /api/teacher/tests/{id}/active [patch]
func (c *TestController) SetActive(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req service.SetActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.SetActive(ctx.Request.Context(), p, id, *req.IsActive)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, test)
}

// @Summary 预览学生视图
// @Tags 测试管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "测试ID"
// @Success 200 {object} util.Response{data=grading.CatalogView}
// @Router /api/teacher/tests/{id}/catalog [get]
func (c *TestController) Preview(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	view, err := c.TestService.Preview(ctx.Request.Context(), p, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 学生可参加的测试
// @Tags 学生测试
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.StudentTestItem}
// @Router /api/student/tests [get]
func (c *TestController) ListForStudent(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	items, err := c.TestService.ListForStudent(ctx.Request.Context(), p)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, items)
}
