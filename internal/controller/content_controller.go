package controller

import (
	"doe_backend/internal/model"
	"doe_backend/internal/service"
	"doe_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// GetPage godoc
// @Summary 页面内容
// @Description 返回页面上的内容槽位（视频、趣闻、挑战、闲聊、测验）及当前用户的完成状态
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Param page path string true "页面" Enums(its_time, rich_girl, you_do_you, levers, portfolio)
// @Success 200 {object} util.Response{data=service.PageView}
// @Failure 400 {object} util.Response
// @Router /pages/{page} [get]
func (c *ContentController) GetPage(ctx *gin.Context) {
	view, err := c.ContentService.Page(ctx.Request.Context(), currentUserID(ctx), model.Page(ctx.Param("page")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

func settleResponse(ctx *gin.Context, result service.SettleResult) {
	util.Success(ctx, gin.H{
		"points_added":       result.Points,
		"added_to_completed": result.Awarded,
	})
}

// CompleteVideo godoc
// @Summary 完成视频
// @Description 首次完成时发放视频积分，重复调用不再加分
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "视频ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /videos/{id}/complete [post]
func (c *ContentController) CompleteVideo(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	result, err := c.ContentService.CompleteVideo(ctx.Request.Context(), currentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	settleResponse(ctx, result)
}

// CompleteFunFact godoc
// @Summary 完成趣闻
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "趣闻ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /fun-facts/{id}/complete [post]
func (c *ContentController) CompleteFunFact(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	result, err := c.ContentService.CompleteFunFact(ctx.Request.Context(), currentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	settleResponse(ctx, result)
}

// UploadVideo godoc
// @Summary 上传视频
// @Description 管理员上传视频，自动读取时长并生成封面，可选挂到页面
// @Tags 内容
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "视频文件"
// @Param title formData string true "标题"
// @Param description formData string false "描述"
// @Param points formData int false "积分"
// @Param page formData string false "页面"
// @Param order formData int false "顺序"
// @Success 201 {object} util.Response{data=model.Video}
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /admin/videos [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if file.Size > util.MaxVideoSize {
		util.BadRequest(ctx, "file too large")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	points, _ := strconv.Atoi(ctx.DefaultPostForm("points", "0"))
	order, _ := strconv.Atoi(ctx.DefaultPostForm("order", "0"))

	video, err := c.ContentService.CreateVideo(ctx.Request.Context(), service.VideoUpload{
		Title:       title,
		Description: ctx.PostForm("description"),
		Points:      points,
		Page:        model.Page(ctx.PostForm("page")),
		Order:       order,
		Filename:    file.Filename,
		Reader:      src,
		Size:        file.Size,
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, video)
}
