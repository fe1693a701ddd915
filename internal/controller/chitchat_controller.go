package controller

import (
	"doe_backend/internal/service"
	"doe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChitChatController struct {
	ChitChatService *service.ChitChatService
}

func NewChitChatController(chitChatService *service.ChitChatService) *ChitChatController {
	return &ChitChatController{ChitChatService: chitChatService}
}

// Detail godoc
// @Summary 闲聊详情
// @Description 返回全部选项对及用户之前的选择
// @Tags 闲聊
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "闲聊ID"
// @Success 200 {object} util.Response{data=service.ChitChatDetail}
// @Failure 404 {object} util.Response
// @Router /chitchats/{id} [get]
func (c *ChitChatController) Detail(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	detail, err := c.ChitChatService.Detail(ctx.Request.Context(), currentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// Submit godoc
// @Summary 提交闲聊
// @Description 表单字段为 pair-{optionId}，覆盖之前的选择；首次提交发放积分
// @Tags 闲聊
// @Accept x-www-form-urlencoded
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "闲聊ID"
// @Success 200 {object} util.ActionResponse
// @Failure 404 {object} util.Response
// @Router /chitchats/{id}/submit [post]
func (c *ChitChatController) Submit(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	answers := util.FieldAnswers(postForm(ctx), util.ChitChatFieldPrefix)

	result, message, err := c.ChitChatService.Submit(ctx.Request.Context(), currentUserID(ctx), id, answers)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(200, util.ActionResponse{Success: true, Message: message, PointsAdded: result.Points})
}
