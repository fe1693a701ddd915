package controller

import (
	"fmt"

	"doe_backend/internal/service"
	"doe_backend/internal/util"
	"doe_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
	FlashService     *service.FlashService
}

func NewChallengeController(challengeService *service.ChallengeService, flashService *service.FlashService) *ChallengeController {
	return &ChallengeController{
		ChallengeService: challengeService,
		FlashService:     flashService,
	}
}

func (c *ChallengeController) finish(ctx *gin.Context, challengeID uint, resp util.ActionResponse, err error) {
	finishAction(ctx, c.FlashService, challengeID, resp, err, "Error while saving: ")
}

// Welcome godoc
// @Summary 挑战介绍
// @Description 返回挑战信息以及当前用户是否已有提交
// @Tags 挑战
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} util.Response{data=service.ChallengeWelcome}
// @Failure 404 {object} util.Response
// @Router /challenge/{id} [get]
func (c *ChallengeController) Welcome(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	welcome, err := c.ChallengeService.Welcome(ctx.Request.Context(), currentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, welcome)
}

// AddContent godoc
// @Summary 新增提交表单
// @Description 返回确认前显示的字段，单选字段附带解析后的选项与颜色
// @Tags 挑战
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} util.Response{data=service.ChallengeForm}
// @Failure 404 {object} util.Response
// @Router /challenge/{id}/add-content [get]
func (c *ChallengeController) AddContent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	form, err := c.ChallengeService.AddForm(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, form)
}

// View godoc
// @Summary 查看提交
// @Description 按挑战的展示配置（文本或表格）返回用户的全部提交，附带待显示的提示消息
// @Tags 挑战
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} util.Response{data=service.ChallengeView}
// @Failure 404 {object} util.Response
// @Router /challenge/{id}/view [get]
func (c *ChallengeController) View(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	userID := currentUserID(ctx)
	view, err := c.ChallengeService.View(ctx.Request.Context(), userID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if messages, err := c.FlashService.Pop(ctx.Request.Context(), userID); err != nil {
		logger.Log.Warn("Failed to read flash messages", zap.Uint("userID", userID), zap.Error(err))
	} else {
		view.Messages = messages
	}
	util.Success(ctx, view)
}

// SubmitInAdd godoc
// @Summary 新增主提交
// @Description 表单字段为 field_{elementId}；主提交数达到门槛时发放一次积分
// @Tags 挑战
// @Accept x-www-form-urlencoded
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} util.ActionResponse
// @Success 303 "非 AJAX 请求跳转到查看页"
// @Failure 404 {object} util.ActionResponse
// @Router /challenge/{id}/submit-in-add [post]
func (c *ChallengeController) SubmitInAdd(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	answers := util.FieldAnswers(postForm(ctx), util.ChallengeFieldPrefix)

	result, err := c.ChallengeService.SubmitInAdd(ctx.Request.Context(), currentUserID(ctx), id, answers)
	resp := util.ActionResponse{Success: true, Message: "Answer saved successfully!", PointsAdded: result.Points}
	if result.Awarded && result.Points > 0 {
		resp.Message = fmt.Sprintf("Answer saved successfully! You earned %d points.", result.Points)
	}
	c.finish(ctx, id, resp, err)
}

// Submit godoc
// @Summary 新增附加提交
// @Description 创建 secondary 提交，不计入门槛，也不会出现在表格视图中
// @Tags 挑战
// @Accept x-www-form-urlencoded
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "挑战ID"
// @Success 200 {object} util.ActionResponse
// @Success 303 "非 AJAX 请求跳转到查看页"
// @Failure 404 {object} util.ActionResponse
// @Router /challenge/{id}/submit [post]
func (c *ChallengeController) Submit(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	answers := util.FieldAnswers(postForm(ctx), util.ChallengeFieldPrefix)

	_, err := c.ChallengeService.Submit(ctx.Request.Context(), currentUserID(ctx), id, answers)
	c.finish(ctx, id, util.ActionResponse{Success: true, Message: "Answer saved successfully!"}, err)
}
